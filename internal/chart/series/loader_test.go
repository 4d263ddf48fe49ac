package series

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func somePoints(t *testing.T) []Point {
	return []Point{
		{Date: mustParse(t, "01/01/2020"), Supply: 10},
		{Date: mustParse(t, "01/01/2021"), Supply: 20},
	}
}

func TestLoaderLoadsOnce(t *testing.T) {
	var calls int32
	points := somePoints(t)

	l := NewLoader(func(ctx context.Context) ([]Point, error) {
		atomic.AddInt32(&calls, 1)
		return points, nil
	})
	defer l.Close()

	l.Load()
	state, err := l.Wait(context.Background())
	require.NoError(t, err)
	require.Equal(t, StateReady, state)
	assert.Len(t, l.Points(), 2)

	// Data present: further Load calls are no-ops.
	l.Load()
	l.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestLoaderGuardWhileInFlight(t *testing.T) {
	var calls int32
	release := make(chan struct{})

	l := NewLoader(func(ctx context.Context) ([]Point, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return nil, errors.New("boom")
	})
	defer l.Close()

	l.Load()
	l.Load()
	l.Load()
	close(release)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	state, _ := l.Wait(ctx)
	assert.Equal(t, StateError, state)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestLoaderNoAutoRetryAfterError(t *testing.T) {
	var calls int32

	l := NewLoader(func(ctx context.Context) ([]Point, error) {
		atomic.AddInt32(&calls, 1)
		return nil, errors.New("network failed")
	})
	defer l.Close()

	l.Load()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	state, err := l.Wait(ctx)
	require.Equal(t, StateError, state)
	require.Error(t, err)

	// A failed session stays failed until an explicit Retry.
	l.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Equal(t, StateError, l.State())
}

func TestLoaderRetryAfterError(t *testing.T) {
	var calls int32
	points := somePoints(t)

	l := NewLoader(func(ctx context.Context) ([]Point, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			return nil, errors.New("network failed")
		}
		return points, nil
	})
	defer l.Close()

	l.Load()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	state, _ := l.Wait(ctx)
	require.Equal(t, StateError, state)

	l.Retry()
	state, err := l.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StateReady, state)
	assert.Len(t, l.Points(), 2)
}

func TestLoaderEmptySeriesStaysLoading(t *testing.T) {
	l := NewLoader(func(ctx context.Context) ([]Point, error) {
		return []Point{}, nil
	})
	defer l.Close()

	l.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	state, err := l.Wait(ctx)
	assert.Equal(t, StateLoading, state)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, StateLoading, l.State())
	assert.Empty(t, l.Points())
}

func TestLoaderIgnoresLateCompletionAfterClose(t *testing.T) {
	release := make(chan struct{})
	points := somePoints(t)

	l := NewLoader(func(ctx context.Context) ([]Point, error) {
		<-release
		return points, nil
	})

	l.Load()
	l.Close()
	close(release)

	assert.Never(t, func() bool {
		return l.State() == StateReady
	}, 150*time.Millisecond, 10*time.Millisecond, "completion after Close must be discarded")
	assert.Empty(t, l.Points())
}
