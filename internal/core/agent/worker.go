package agent

import (
	"context"
	"fmt"
	"math/rand/v2"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/zeusync/robotgame/internal/core/actions"
	"github.com/zeusync/robotgame/internal/core/models"
	"github.com/zeusync/robotgame/internal/core/observability/log"
	"github.com/zeusync/robotgame/internal/core/view"
	"github.com/zeusync/robotgame/internal/core/world"
)

// Script is an agent's control program. It is called once per tick with a
// fresh view and queues commands through it. ctx is cancelled when the
// worker stops.
type Script interface {
	Tick(ctx context.Context, game *view.Game) error
}

type ScriptFunc func(ctx context.Context, game *view.Game) error

func (f ScriptFunc) Tick(ctx context.Context, game *view.Game) error {
	return f(ctx, game)
}

type Stats struct {
	Completed  uint64
	Failed     uint64
	Superseded uint64
	TicksSeen  uint64
	LastTick   int64
	// Applied counts this agent's actions that reached a live target.
	Applied uint64
}

type Option func(*Worker)

func WithLogger(l log.Log) Option {
	return func(w *Worker) { w.logger = l }
}

// WithRand seeds path search shuffling for this agent's views.
func WithRand(r *rand.Rand) Option {
	return func(w *Worker) { w.rand = r }
}

type request struct {
	snapshot *world.World
	future   *Future
}

// Worker runs one agent's script on its own goroutine. The orchestrator
// posts a snapshot per tick and collects the result through a Future; at
// most one request waits at a time.
type Worker struct {
	player models.Player
	script Script
	logger log.Log
	rand   *rand.Rand
	memory *view.Memory

	requests chan request
	done     chan struct{}
	cancel   context.CancelFunc
	started  atomic.Bool
	stopped  atomic.Bool
	stopOnce sync.Once

	mu       sync.Mutex
	latest   *world.World
	last     map[actions.Key]struct{}
	lastTick int64
	stats    Stats
}

func NewWorker(player models.Player, script Script, opts ...Option) *Worker {
	w := &Worker{
		player:   player,
		script:   script,
		logger:   log.NewNop(),
		memory:   view.NewMemory(),
		requests: make(chan request, 1),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.With(log.Agent(player.Name))
	return w
}

func (w *Worker) Player() models.Player {
	return w.player
}

// Start hands the worker its private copy of the initial world and launches
// its goroutine. The goroutine ends on GameEnded or when ctx is done.
func (w *Worker) Start(ctx context.Context, initial *world.World) error {
	if w.stopped.Load() {
		return ErrWorkerStopped
	}
	if !w.started.CompareAndSwap(false, true) {
		return ErrWorkerStarted
	}
	w.mu.Lock()
	w.latest = initial
	w.mu.Unlock()

	ctx, w.cancel = context.WithCancel(ctx)
	go w.run(ctx)
	return nil
}

// Post asks the worker to think about snapshot. An unconsumed earlier
// request is superseded and its future resolves with ErrSuperseded. Post
// never blocks.
func (w *Worker) Post(snapshot *world.World) *Future {
	future := newFuture(snapshot.Tick())
	switch {
	case !w.started.Load():
		future.resolve([]actions.Bound{}, ErrWorkerNotStarted)
		return future
	case w.stopped.Load():
		future.resolve([]actions.Bound{}, ErrWorkerStopped)
		return future
	}

	req := request{snapshot: snapshot, future: future}
	for {
		select {
		case w.requests <- req:
			return future
		default:
		}
		select {
		case stale := <-w.requests:
			stale.future.resolve([]actions.Bound{}, ErrSuperseded)
			w.mu.Lock()
			w.stats.Superseded++
			w.mu.Unlock()
		default:
		}
	}
}

// TickEnded tells the worker which actions the tick applied. It never
// blocks, even while the script is still running.
func (w *Worker) TickEnded(tick int64, applied []actions.Bound) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.stats.TicksSeen++
	w.stats.LastTick = tick
	if w.lastTick != tick {
		return
	}
	for _, b := range applied {
		if _, ok := w.last[b.Key()]; ok {
			w.stats.Applied++
		}
	}
	w.last = nil
}

// GameEnded stops the worker. A script still running is not interrupted
// beyond cancelling its ctx; Done closes once it returns.
func (w *Worker) GameEnded() {
	w.stopOnce.Do(func() {
		w.stopped.Store(true)
		if w.cancel != nil {
			w.cancel()
		} else {
			close(w.done)
		}
		select {
		case stale := <-w.requests:
			stale.future.resolve([]actions.Bound{}, ErrWorkerStopped)
		default:
		}
	})
}

// Done is closed when the worker goroutine has exited.
func (w *Worker) Done() <-chan struct{} {
	return w.done
}

// Latest returns the newest world the worker has been given, starting with
// the one passed to Start. Callers must not mutate it.
func (w *Worker) Latest() *world.World {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.latest
}

func (w *Worker) Stats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stats
}

func (w *Worker) run(ctx context.Context) {
	defer close(w.done)
	w.logger.Debug("worker started")
	defer w.logger.Debug("worker stopped")

	for {
		select {
		case <-ctx.Done():
			return
		case req := <-w.requests:
			w.think(ctx, req)
		}
	}
}

func (w *Worker) think(ctx context.Context, req request) {
	opts := []view.Option{view.WithMemory(w.memory), view.WithLogger(w.logger)}
	if w.rand != nil {
		opts = append(opts, view.WithRand(w.rand))
	}
	game := view.New(req.snapshot, w.player, opts...)
	w.mu.Lock()
	w.latest = req.snapshot
	w.mu.Unlock()

	start := time.Now()
	err := w.invoke(ctx, game)
	if err != nil {
		w.logger.Error("script failed",
			log.Tick(req.future.Tick()),
			log.Duration("took", time.Since(start)),
			log.Error(err),
		)
		w.mu.Lock()
		w.stats.Failed++
		w.mu.Unlock()
		req.future.resolve([]actions.Bound{}, err)
		return
	}

	bound := game.PopActions()
	w.mu.Lock()
	w.stats.Completed++
	w.lastTick = req.future.Tick()
	w.last = make(map[actions.Key]struct{}, len(bound))
	for _, b := range bound {
		w.last[b.Key()] = struct{}{}
	}
	w.mu.Unlock()
	req.future.resolve(bound, nil)
}

func (w *Worker) invoke(ctx context.Context, game *view.Game) (err error) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Debug("script panic stack", log.String("stack", string(debug.Stack())))
			err = fmt.Errorf("%w: %v", ErrScriptPanic, r)
		}
	}()
	return w.script.Tick(ctx, game)
}
