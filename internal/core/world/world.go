package world

import (
	"fmt"
	"slices"

	"github.com/zeusync/robotgame/internal/core/actions"
	"github.com/zeusync/robotgame/internal/core/models"
	"github.com/zeusync/robotgame/internal/core/observability/log"
	"github.com/zeusync/robotgame/internal/core/spatial"
)

type Status uint8

const (
	StatusRunning Status = iota
	StatusEnded
)

func (s Status) String() string {
	if s == StatusEnded {
		return "ended"
	}
	return "running"
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(b []byte) error {
	switch string(b) {
	case "running":
		*s = StatusRunning
	case "ended":
		*s = StatusEnded
	default:
		return fmt.Errorf("unknown status %q", b)
	}
	return nil
}

type Option func(*World)

func WithLogger(l log.Log) Option {
	return func(w *World) { w.logger = l }
}

// WithMaxTicks ends the match as a draw once the tick counter reaches n.
// Zero disables the limit.
func WithMaxTicks(n int64) Option {
	return func(w *World) { w.maxTicks = n }
}

// World is the authoritative simulation state of one match. It is not safe
// for concurrent mutation; the match orchestrator is its only writer.
type World struct {
	terrain  *Terrain
	entities map[models.EntityID]models.Entity
	order    []models.EntityID
	byKind   map[models.Kind][]models.EntityID

	tick     int64
	maxTicks int64
	status   Status
	winner   *models.Player

	logger log.Log
}

var _ models.Host = (*World)(nil)

func New(terrain *Terrain, opts ...Option) *World {
	if terrain == nil {
		terrain = OpenTerrain()
	}
	w := &World{
		terrain:  terrain,
		entities: make(map[models.EntityID]models.Entity),
		byKind:   make(map[models.Kind][]models.EntityID),
		logger:   log.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Add attaches e to this world and indexes it by id and kind.
func (w *World) Add(e models.Entity) error {
	id := e.ID()
	if _, exists := w.entities[id]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateEntity, id)
	}
	e.Attach(w)
	w.entities[id] = e
	w.order = append(w.order, id)
	w.byKind[e.Kind()] = append(w.byKind[e.Kind()], id)
	return nil
}

// Remove detaches e. Removing an absent entity does nothing.
func (w *World) Remove(e models.Entity) {
	id := e.ID()
	cur, ok := w.entities[id]
	if !ok || cur != e {
		return
	}
	delete(w.entities, id)
	w.order = deleteID(w.order, id)
	w.byKind[e.Kind()] = deleteID(w.byKind[e.Kind()], id)
	e.Detach()
}

func (w *World) Get(id models.EntityID) (models.Entity, bool) {
	e, ok := w.entities[id]
	return e, ok
}

// ByKind returns the entities of kind k in insertion order.
func (w *World) ByKind(k models.Kind) []models.Entity {
	ids := w.byKind[k]
	out := make([]models.Entity, 0, len(ids))
	for _, id := range ids {
		out = append(out, w.entities[id])
	}
	return out
}

// At returns every entity currently standing on p.
func (w *World) At(p spatial.Point) []models.Entity {
	var out []models.Entity
	for _, id := range w.order {
		if e := w.entities[id]; e.Location() == p {
			out = append(out, e)
		}
	}
	return out
}

// All returns every entity in insertion order. The slice is a copy.
func (w *World) All() []models.Entity {
	out := make([]models.Entity, 0, len(w.order))
	for _, id := range w.order {
		out = append(out, w.entities[id])
	}
	return out
}

func (w *World) Len() int {
	return len(w.entities)
}

func (w *World) IsPassable(p spatial.Point) bool {
	return !w.terrain.IsWall(p)
}

func (w *World) Terrain() *Terrain {
	return w.terrain
}

func (w *World) Tick() int64 {
	return w.tick
}

func (w *World) MaxTicks() int64 {
	return w.maxTicks
}

func (w *World) Status() Status {
	return w.status
}

func (w *World) Running() bool {
	return w.status == StatusRunning
}

// Winner returns the sole remaining owner of an ended match. It reports
// false while running and for draws.
func (w *World) Winner() (models.Player, bool) {
	if w.winner == nil {
		return models.Player{}, false
	}
	return *w.winner, true
}

// PreTick runs every present entity's tick-start hook. Entities added during
// the pass wait for the next tick; entities removed during it are skipped.
func (w *World) PreTick() {
	if !w.Running() {
		return
	}
	w.forEachPresent(models.Entity.OnTickStart)
}

// ApplyActions performs the collected actions in ascending priority, keeping
// arrival order among equal priorities. Actions whose target is gone are
// dropped. It returns the actions that reached a live target.
func (w *World) ApplyActions(bound []actions.Bound) []actions.Bound {
	if !w.Running() {
		return nil
	}
	sorted := slices.Clone(bound)
	slices.SortStableFunc(sorted, func(a, b actions.Bound) int {
		return cmpInt(a.Action.Priority(), b.Action.Priority())
	})

	applied := make([]actions.Bound, 0, len(sorted))
	for _, b := range sorted {
		target, ok := w.entities[b.Target]
		if !ok {
			continue
		}
		if err := b.Action.Perform(target); err != nil {
			w.logger.Debug("action rejected",
				log.EntityID(b.Target),
				log.Stringer("action", b.Action.Kind()),
				log.Error(err),
			)
		}
		applied = append(applied, b)
	}
	return applied
}

// PostTick runs tick-end hooks, advances the tick counter and evaluates the
// end of the match. It reports whether the match is over.
func (w *World) PostTick() bool {
	if !w.Running() {
		return true
	}
	w.forEachPresent(models.Entity.OnTickEnd)
	w.tick++
	w.evaluateEnd()
	return !w.Running()
}

// Step is ApplyActions followed by PostTick.
func (w *World) Step(bound []actions.Bound) []actions.Bound {
	applied := w.ApplyActions(bound)
	w.PostTick()
	return applied
}

func (w *World) evaluateEnd() {
	var sole *models.Player
	owners := 0
	for _, id := range w.order {
		owned, ok := w.entities[id].(models.Owned)
		if !ok {
			continue
		}
		owner := owned.Owner()
		if sole == nil {
			sole = &owner
			owners = 1
			continue
		}
		if !sole.Equal(owner) {
			owners = 2
			break
		}
	}

	switch {
	case owners <= 1:
		w.status = StatusEnded
		w.winner = sole
	case w.maxTicks > 0 && w.tick >= w.maxTicks:
		w.status = StatusEnded
		w.winner = nil
	}
	if !w.Running() {
		w.logger.Info("match ended",
			log.Tick(w.tick),
			log.String("winner", winnerName(w.winner)),
		)
	}
}

// Clone returns a deep copy: every entity is cloned and attached to the new
// world only. Terrain is immutable and shared.
func (w *World) Clone() *World {
	c := &World{
		terrain:  w.terrain,
		entities: make(map[models.EntityID]models.Entity, len(w.entities)),
		order:    make([]models.EntityID, 0, len(w.order)),
		byKind:   make(map[models.Kind][]models.EntityID, len(w.byKind)),
		tick:     w.tick,
		maxTicks: w.maxTicks,
		status:   w.status,
		logger:   w.logger,
	}
	if w.winner != nil {
		winner := *w.winner
		c.winner = &winner
	}
	for _, id := range w.order {
		_ = c.Add(w.entities[id].Clone())
	}
	return c
}

func (w *World) forEachPresent(hook func(models.Entity)) {
	for _, e := range w.All() {
		if cur, ok := w.entities[e.ID()]; ok && cur == e {
			hook(e)
		}
	}
}

func deleteID(ids []models.EntityID, id models.EntityID) []models.EntityID {
	if i := slices.Index(ids, id); i >= 0 {
		return slices.Delete(ids, i, i+1)
	}
	return ids
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func winnerName(p *models.Player) string {
	if p == nil {
		return ""
	}
	return p.Name
}
