package match

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/zeusync/robotgame/internal/core/actions"
	"github.com/zeusync/robotgame/internal/core/agent"
	"github.com/zeusync/robotgame/internal/core/events/bus"
	"github.com/zeusync/robotgame/internal/core/models"
	"github.com/zeusync/robotgame/internal/core/observability/log"
	"github.com/zeusync/robotgame/internal/core/world"
	"github.com/zeusync/robotgame/pkg/concurrent"
)

type Config struct {
	MatchID string
	// TickPeriod is the wall-clock cadence measured from each tick's start.
	TickPeriod time.Duration
	// ThinkDeadline bounds how long a tick waits for agents.
	ThinkDeadline time.Duration
}

func DefaultConfig() Config {
	return Config{
		TickPeriod:    time.Second,
		ThinkDeadline: 2 * time.Second,
	}
}

func (c Config) Validate() error {
	if c.TickPeriod <= 0 || c.ThinkDeadline <= 0 {
		return ErrInvalidTiming
	}
	return nil
}

// Agent is the orchestrator's side of an agent worker. *agent.Worker
// implements it.
type Agent interface {
	Player() models.Player
	Start(ctx context.Context, initial *world.World) error
	Post(snapshot *world.World) *agent.Future
	TickEnded(tick int64, applied []actions.Bound)
	GameEnded()
}

// Orchestrator drives one match. It is the only writer of the authoritative
// world; readers go through Snapshot and the other accessors.
type Orchestrator struct {
	cfg    Config
	agents []Agent
	logger log.Log
	bus    bus.EventBus

	running atomic.Bool

	mu          sync.RWMutex
	world       *world.World
	lastActions []actions.Bound
}

// New prepares a match over w. A nil bus disables event publishing.
func New(cfg Config, w *world.World, agents []Agent, logger log.Log, eventBus bus.EventBus) (*Orchestrator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(agents) == 0 {
		return nil, ErrNotEnoughAgents
	}
	if logger == nil {
		logger = log.NewNop()
	}
	return &Orchestrator{
		cfg:    cfg,
		agents: slices.Clone(agents),
		logger: logger.With(log.Component("orchestrator")),
		bus:    eventBus,
		world:  w,
	}, nil
}

// Run plays the match until it ends or ctx is cancelled. Cancellation is a
// clean shutdown and returns nil; any other tick failure is returned. Every
// agent is told the game ended before Run returns.
func (o *Orchestrator) Run(ctx context.Context) error {
	if !o.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	if o.cfg.MatchID != "" {
		ctx = log.ContextWithMatchID(ctx, o.cfg.MatchID)
	}
	logger := o.logger.WithContext(ctx)

	cancelled := false
	defer func() { o.finish(logger, cancelled) }()

	for _, a := range o.agents {
		if err := a.Start(ctx, o.world.Clone()); err != nil {
			return fmt.Errorf("start agent %s: %w", a.Player(), err)
		}
	}
	logger.Info("match started", log.Int("agents", len(o.agents)))

	for o.Running() {
		started := time.Now()
		if err := o.tick(ctx, logger); err != nil {
			if ctx.Err() != nil {
				cancelled = true
				return nil
			}
			return err
		}
		if !o.Running() {
			break
		}

		wait := o.cfg.TickPeriod - time.Since(started)
		if wait <= 0 {
			continue
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			cancelled = true
			return nil
		case <-timer.C:
		}
	}
	return nil
}

func (o *Orchestrator) tick(ctx context.Context, logger log.Log) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	started := time.Now()

	o.mu.Lock()
	o.world.PreTick()
	o.mu.Unlock()
	tick := o.world.Tick()

	futures := make([]*agent.Future, len(o.agents))
	err := concurrent.Concurrent(o.agents, 0, func(i int, a Agent) error {
		futures[i] = a.Post(o.world.Clone())
		return nil
	})
	if err != nil {
		return fmt.Errorf("post snapshots for tick %d: %w", tick, err)
	}

	results, late, err := o.collect(ctx, futures)
	if err != nil {
		return err
	}
	for _, i := range late {
		name := o.agents[i].Player().Name
		logger.Warn("agent missed deadline",
			log.Agent(name),
			log.Tick(tick),
			log.Duration("deadline", o.cfg.ThinkDeadline),
		)
		o.publish(logger, EventDeadlineMissed, DeadlineMissed{
			Agent:    name,
			Tick:     tick,
			Deadline: o.cfg.ThinkDeadline,
		})
	}

	var union []actions.Bound
	for _, bound := range results {
		union = append(union, bound...)
	}

	o.mu.Lock()
	applied := o.world.ApplyActions(union)
	o.world.PostTick()
	o.lastActions = applied
	frozen := o.world.Clone()
	o.mu.Unlock()

	for _, a := range o.agents {
		a.TickEnded(tick, applied)
	}

	lateNames := make([]string, 0, len(late))
	for _, i := range late {
		lateNames = append(lateNames, o.agents[i].Player().Name)
	}
	elapsed := time.Since(started)
	logger.Debug("tick completed",
		log.Tick(tick),
		log.Int("applied", len(applied)),
		log.Duration("elapsed", elapsed),
	)
	o.publish(logger, EventTickCompleted, TickCompleted{
		Tick:    tick,
		World:   frozen,
		Applied: slices.Clone(applied),
		Late:    lateNames,
		Elapsed: elapsed,
	})
	return nil
}

// collect waits for every future until the think deadline. It returns the
// action sets in agent order and the indexes of agents that did not answer
// in time. Late futures are abandoned, not cancelled.
func (o *Orchestrator) collect(ctx context.Context, futures []*agent.Future) ([][]actions.Bound, []int, error) {
	waitCtx, cancel := context.WithTimeout(ctx, o.cfg.ThinkDeadline)
	defer cancel()

	results := make([][]actions.Bound, len(futures))
	var late []int
	for i, f := range futures {
		select {
		case <-f.Done():
		case <-waitCtx.Done():
		}
		select {
		case <-f.Done():
		default:
			if err := ctx.Err(); err != nil {
				return nil, nil, err
			}
			late = append(late, i)
			continue
		}

		bound, err := f.Result()
		if err != nil && !errors.Is(err, agent.ErrSuperseded) {
			o.logger.Debug("agent contributed no actions",
				log.Agent(o.agents[i].Player().Name),
				log.Error(err),
			)
		}
		results[i] = bound
	}
	return results, late, nil
}

func (o *Orchestrator) finish(logger log.Log, cancelled bool) {
	for _, a := range o.agents {
		a.GameEnded()
	}

	o.mu.RLock()
	tick := o.world.Tick()
	winner, hasWinner := o.world.Winner()
	ended := !o.world.Running()
	o.mu.RUnlock()

	event := MatchEnded{
		Tick:      tick,
		Draw:      ended && !hasWinner,
		Cancelled: cancelled,
	}
	if hasWinner {
		event.Winner = winner.Name
	}
	logger.Info("match finished",
		log.Tick(tick),
		log.String("winner", event.Winner),
		log.Bool("draw", event.Draw),
		log.Bool("cancelled", cancelled),
	)
	o.publish(logger, EventMatchEnded, event)
}

func (o *Orchestrator) publish(logger log.Log, typ string, data any) {
	if o.bus == nil {
		return
	}
	if err := o.bus.Publish(bus.NewEvent(typ, eventSource, data)); err != nil {
		logger.Warn("event handler failed", log.String("event", typ), log.Error(err))
	}
}

// Snapshot returns an independent copy of the current world.
func (o *Orchestrator) Snapshot() *world.World {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.world.Clone()
}

// LastActions returns the actions applied by the most recent tick.
func (o *Orchestrator) LastActions() []actions.Bound {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return slices.Clone(o.lastActions)
}

func (o *Orchestrator) Running() bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.world.Running()
}

func (o *Orchestrator) Ended() bool {
	return !o.Running()
}

func (o *Orchestrator) Winner() (models.Player, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.world.Winner()
}

func (o *Orchestrator) Tick() int64 {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.world.Tick()
}
