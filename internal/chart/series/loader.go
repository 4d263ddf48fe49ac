package series

// Loader owns the one-shot fetch of the historical series for a chart
// session. It fetches at most once, never re-fetches while data is present
// or a fetch is in flight, and never retries a failed fetch on its own:
// recovery requires an explicit Retry call. The fetch runs as a task
// scoped to the loader's lifetime; completions arriving after Close or
// Retry are discarded.

import (
	"context"
	"sync"

	"go.uber.org/zap"

	logging "zpool-charts/internal/infra/log"
)

type State int

const (
	StateLoading State = iota
	StateReady
	StateError
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateError:
		return "error"
	}
	return "unknown"
}

// FetchFunc retrieves the full historical series.
type FetchFunc func(ctx context.Context) ([]Point, error)

type Loader struct {
	fetch FetchFunc

	mu       sync.Mutex
	ctx      context.Context
	cancel   context.CancelFunc
	state    State
	err      error
	points   []Point
	inflight bool
	closed   bool
	gen      int
	notify   chan struct{} // closed on the first transition out of StateLoading
}

func NewLoader(fetch FetchFunc) *Loader {
	ctx, cancel := context.WithCancel(context.Background())
	return &Loader{
		fetch:  fetch,
		ctx:    ctx,
		cancel: cancel,
		state:  StateLoading,
		notify: make(chan struct{}),
	}
}

// Load starts the initial fetch. It does nothing if data is already
// present, a fetch is in flight, a previous fetch failed, or the loader
// is closed.
func (l *Loader) Load() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed || l.inflight || len(l.points) > 0 || l.state == StateError {
		return
	}
	l.startLocked()
}

// Retry clears a failed state and permits exactly one new fetch.
func (l *Loader) Retry() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed || l.inflight || len(l.points) > 0 || l.state != StateError {
		return
	}
	l.gen++
	l.err = nil
	l.state = StateLoading
	l.notify = make(chan struct{})
	l.startLocked()
}

func (l *Loader) startLocked() {
	l.inflight = true
	gen := l.gen
	notify := l.notify

	go func() {
		points, err := l.fetch(l.ctx)

		l.mu.Lock()
		defer l.mu.Unlock()
		if l.closed || gen != l.gen {
			// Late completion after Close or Retry.
			logging.LogDebug("Discarding stale series fetch result", zap.Int("gen", gen))
			return
		}
		l.inflight = false

		if err != nil {
			l.state = StateError
			l.err = err
			logging.LogError("Failed to fetch shielded supply series", zap.Error(err))
			close(notify)
			return
		}
		if len(points) == 0 {
			// An empty document keeps the session in the loading state.
			logging.LogWarn("Shielded supply series is empty, staying in loading state")
			return
		}

		l.points = points
		l.state = StateReady
		logging.LogInfo("Shielded supply series loaded", zap.Int("points", len(points)))
		close(notify)
	}()
}

// Close cancels any in-flight fetch and detaches its completion.
func (l *Loader) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	l.closed = true
	l.gen++
	l.cancel()
}

func (l *Loader) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

func (l *Loader) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

// Points returns the loaded series, nil while not ready.
func (l *Loader) Points() []Point {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.points
}

// Wait blocks until the loader leaves the loading state or ctx expires.
// A session whose upstream document is empty never leaves it.
func (l *Loader) Wait(ctx context.Context) (State, error) {
	l.mu.Lock()
	state, err, notify := l.state, l.err, l.notify
	l.mu.Unlock()
	if state != StateLoading {
		return state, err
	}

	select {
	case <-ctx.Done():
		return StateLoading, ctx.Err()
	case <-notify:
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state, l.err
}
