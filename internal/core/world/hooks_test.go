package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/robotgame/internal/core/models"
	"github.com/zeusync/robotgame/internal/core/spatial"
)

// hooked counts its tick hooks and runs an optional side effect in them.
type hooked struct {
	id     models.EntityID
	loc    spatial.Point
	host   models.Host
	starts int
	ends   int

	onStart func()
	onEnd   func()
}

func newHooked(p spatial.Point) *hooked {
	return &hooked{id: models.NewEntityID(), loc: p}
}

func (h *hooked) ID() models.EntityID     { return h.id }
func (h *hooked) Kind() models.Kind       { return models.KindPowerSource }
func (h *hooked) Location() spatial.Point { return h.loc }
func (h *hooked) Host() models.Host       { return h.host }
func (h *hooked) Attach(host models.Host) { h.host = host }
func (h *hooked) Detach()                 { h.host = nil }

func (h *hooked) OnTickStart() {
	h.starts++
	if h.onStart != nil {
		h.onStart()
	}
}

func (h *hooked) OnTickEnd() {
	h.ends++
	if h.onEnd != nil {
		h.onEnd()
	}
}

func (h *hooked) State() models.State {
	return models.State{ID: h.id, Kind: h.Kind(), X: h.loc.X, Y: h.loc.Y}
}

func (h *hooked) Clone() models.Entity {
	return &hooked{id: h.id, loc: h.loc}
}

func TestHookRemovingEntitySkipsItsHook(t *testing.T) {
	w := newDuel(t)
	first := newHooked(spatial.Pt(1, 1))
	victim := newHooked(spatial.Pt(2, 1))
	last := newHooked(spatial.Pt(3, 1))
	first.onStart = func() { first.Host().Remove(victim) }
	for _, h := range []*hooked{first, victim, last} {
		require.NoError(t, w.Add(h))
	}

	w.PreTick()

	assert.Equal(t, 1, first.starts)
	assert.Zero(t, victim.starts)
	assert.Equal(t, 1, last.starts)
	assert.Nil(t, victim.Host())
	_, ok := w.Get(victim.ID())
	assert.False(t, ok)
	assert.Equal(t, 4, w.Len())
}

func TestHookAddingEntityDefersItsHook(t *testing.T) {
	w := newDuel(t)
	parent := newHooked(spatial.Pt(1, 1))
	child := newHooked(spatial.Pt(2, 1))
	parent.onEnd = func() {
		if parent.ends == 1 {
			require.NoError(t, parent.Host().Add(child))
		}
	}
	require.NoError(t, w.Add(parent))

	assert.False(t, w.PostTick())
	assert.Equal(t, 1, parent.ends)
	assert.Zero(t, child.ends)
	assert.Equal(t, 4, w.Len())

	assert.False(t, w.PostTick())
	assert.Equal(t, 2, parent.ends)
	assert.Equal(t, 1, child.ends)
	assert.Equal(t, 4, w.Len())
}

func TestHookRemovingItselfRunsOnce(t *testing.T) {
	w := newDuel(t)
	self := newHooked(spatial.Pt(1, 1))
	next := newHooked(spatial.Pt(2, 1))
	self.onStart = func() { self.Host().Remove(self) }
	require.NoError(t, w.Add(self))
	require.NoError(t, w.Add(next))

	w.PreTick()
	w.PreTick()

	assert.Equal(t, 1, self.starts)
	assert.Equal(t, 2, next.starts)
}
