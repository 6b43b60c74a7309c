package agent

import (
	"context"
	"sync"

	"github.com/zeusync/robotgame/internal/core/actions"
)

// Future is the single-use handle for one think request.
type Future struct {
	tick    int64
	done    chan struct{}
	once    sync.Once
	actions []actions.Bound
	err     error
}

func newFuture(tick int64) *Future {
	return &Future{tick: tick, done: make(chan struct{})}
}

// Tick is the tick of the snapshot the request was posted with.
func (f *Future) Tick() int64 {
	return f.tick
}

func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Result returns the outcome. Before Done is closed it reports nothing.
// A failed script yields an empty, non-nil action slice with the error.
func (f *Future) Result() ([]actions.Bound, error) {
	select {
	case <-f.done:
		return f.actions, f.err
	default:
		return nil, nil
	}
}

// Wait blocks until the future resolves or ctx ends.
func (f *Future) Wait(ctx context.Context) ([]actions.Bound, error) {
	select {
	case <-f.done:
		return f.actions, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// resolve is first-wins; later calls are ignored.
func (f *Future) resolve(bound []actions.Bound, err error) {
	f.once.Do(func() {
		f.actions = bound
		f.err = err
		close(f.done)
	})
}
