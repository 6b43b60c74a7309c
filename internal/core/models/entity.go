package models

import (
	"strings"

	"github.com/google/uuid"
	"github.com/zeusync/robotgame/internal/core/spatial"
)

// EntityID is the opaque identity of an entity. It survives cloning, so the
// same id names the "same" entity in every snapshot of a match.
type EntityID uuid.UUID

func NewEntityID() EntityID {
	return EntityID(uuid.New())
}

func (id EntityID) String() string {
	return uuid.UUID(id).String()
}

func (id EntityID) MarshalText() ([]byte, error) {
	return uuid.UUID(id).MarshalText()
}

func (id *EntityID) UnmarshalText(b []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(b)
}

// Kind tags the concrete entity variant. Views and indexes dispatch on it
// instead of inspecting runtime types.
type Kind uint8

const (
	KindRobot Kind = iota + 1
	KindSpawner
	KindPowerSource
)

func Kinds() []Kind {
	return []Kind{KindRobot, KindSpawner, KindPowerSource}
}

func (k Kind) String() string {
	switch k {
	case KindRobot:
		return "robot"
	case KindSpawner:
		return "spawner"
	case KindPowerSource:
		return "power_source"
	default:
		return "unknown"
	}
}

// Player identifies an agent owner. Names compare case-insensitively.
type Player struct {
	Name string
}

func (p Player) Key() string {
	return strings.ToLower(p.Name)
}

func (p Player) Equal(o Player) bool {
	return p.Key() == o.Key()
}

func (p Player) String() string {
	return p.Name
}

// Host is the non-owning handle an entity keeps to the world it lives in.
type Host interface {
	Add(Entity) error
	Remove(Entity)
	Get(EntityID) (Entity, bool)
	At(spatial.Point) []Entity
	IsPassable(spatial.Point) bool
}

type Entity interface {
	ID() EntityID
	Kind() Kind
	Location() spatial.Point

	// Host is nil while the entity is detached.
	Host() Host
	Attach(Host)
	Detach()

	OnTickStart()
	OnTickEnd()

	// State is a flat, read-only copy of the entity for digests and frames.
	State() State

	// Clone returns a detached deep copy with the same id.
	Clone() Entity
}

// Attackable entities have health and react to hits.
type Attackable interface {
	Entity
	Health() int
	MaxHealth() int
	Damage(attacker *Robot, amount int)
}

// Owned entities belong to a player.
type Owned interface {
	Entity
	Owner() Player
}

type base struct {
	id   EntityID
	loc  spatial.Point
	host Host
}

func newBase(loc spatial.Point) base {
	return base{id: NewEntityID(), loc: loc}
}

func (b *base) ID() EntityID            { return b.id }
func (b *base) Location() spatial.Point { return b.loc }
func (b *base) Host() Host              { return b.host }
func (b *base) Attach(h Host)           { b.host = h }
func (b *base) Detach()                 { b.host = nil }
func (b *base) OnTickStart()            {}
func (b *base) OnTickEnd()              {}

// SetID overrides the generated id. Only valid before the entity is attached.
func (b *base) SetID(id EntityID) {
	b.id = id
}

func (b *base) isFree(p spatial.Point) bool {
	return b.host != nil && b.host.IsPassable(p) && len(b.host.At(p)) == 0
}

type health struct {
	current int
	max     int
}

func newHealth(max int) health {
	return health{current: max, max: max}
}

func (h *health) Health() int    { return h.current }
func (h *health) MaxHealth() int { return h.max }

// SetHealth is used by tests and scenario setup.
func (h *health) SetHealth(v int) {
	h.current = v
}

// hit subtracts damage and removes self from its host as soon as health is
// exhausted.
func (h *health) hit(self Entity, damage int) {
	h.current -= damage
	if h.current <= 0 {
		if host := self.Host(); host != nil {
			host.Remove(self)
		}
	}
}
