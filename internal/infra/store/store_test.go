package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zpool-charts/internal/chart/series"
	"zpool-charts/internal/export"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenRequiresDataDir(t *testing.T) {
	_, err := Open("")
	assert.Error(t, err)
}

func TestSeriesRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, _, err := s.LoadSeries(ctx)
	assert.ErrorIs(t, err, ErrNoSnapshot)

	data := []series.Datum{
		{Close: "01/01/2020", Supply: 10},
		{Close: "01/01/2021", Supply: 20},
	}
	require.NoError(t, s.SaveSeries(ctx, data))

	got, fetchedAt, err := s.LoadSeries(ctx)
	require.NoError(t, err)
	assert.Equal(t, data, got)
	assert.False(t, fetchedAt.IsZero())
}

func TestSeriesOverwrite(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveSeries(ctx, []series.Datum{{Close: "01/01/2020", Supply: 1}}))
	require.NoError(t, s.SaveSeries(ctx, []series.Datum{{Close: "01/01/2021", Supply: 2}}))

	got, _, err := s.LoadSeries(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "01/01/2021", got[0].Close)
}

func TestBalancesRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, _, err := s.LoadBalances(ctx)
	assert.ErrorIs(t, err, ErrNoSnapshot)

	balances := export.BalanceSnapshot{
		Sprout:  &export.PoolBalance{Timestamp: "2021-01-01T00:00:00Z", Supply: 123456},
		Sapling: &export.PoolBalance{Supply: 500000},
	}
	require.NoError(t, s.SaveBalances(ctx, balances))

	got, _, err := s.LoadBalances(ctx)
	require.NoError(t, err)
	assert.Equal(t, balances, got)
	assert.Nil(t, got.Orchard)
}
