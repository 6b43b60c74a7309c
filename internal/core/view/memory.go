package view

import (
	"github.com/zeusync/robotgame/internal/core/models"
	"github.com/zeusync/robotgame/internal/core/spatial"
)

// RouteCacheTicks is how many further MoveTo calls reuse a planned route
// before it is planned again.
const RouteCacheTicks = 7

type route struct {
	path  *spatial.Path
	next  int
	ticks int
}

// usable reports whether the route still leads to dest and the robot stands
// where the route expects it after the steps taken so far.
func (r *route) usable(dest, at spatial.Point) bool {
	if r.ticks <= 0 || r.next >= r.path.Len() || r.path.End() != dest {
		return false
	}
	expected := r.path.Start()
	if r.next > 0 {
		expected = r.path.Point(r.next - 1)
	}
	return expected == at
}

// Memory is agent state that outlives a single tick. It belongs to one
// worker and is never shared between goroutines.
type Memory struct {
	routes map[models.EntityID]*route
}

func NewMemory() *Memory {
	return &Memory{routes: make(map[models.EntityID]*route)}
}

func (m *Memory) route(id models.EntityID) *route {
	if m == nil {
		return nil
	}
	return m.routes[id]
}

func (m *Memory) remember(id models.EntityID, r *route) {
	if m == nil {
		return
	}
	m.routes[id] = r
}

func (m *Memory) forget(id models.EntityID) {
	if m == nil {
		return
	}
	delete(m.routes, id)
}

// retain drops routes of entities that fail keep.
func (m *Memory) retain(keep func(models.EntityID) bool) {
	if m == nil {
		return
	}
	for id := range m.routes {
		if !keep(id) {
			delete(m.routes, id)
		}
	}
}

// Routes returns how many routes are cached.
func (m *Memory) Routes() int {
	if m == nil {
		return 0
	}
	return len(m.routes)
}
