package actions

import (
	"fmt"

	"github.com/zeusync/robotgame/internal/core/models"
)

// Kind names an action type. At most one action of each kind may be pending
// per target in a tick.
type Kind uint8

const (
	KindMove Kind = iota + 1
	KindAttack
	KindStartSpawn
)

func (k Kind) String() string {
	switch k {
	case KindMove:
		return "move"
	case KindAttack:
		return "attack"
	case KindStartSpawn:
		return "start_spawn"
	default:
		return "unknown"
	}
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(b []byte) error {
	for _, c := range []Kind{KindMove, KindAttack, KindStartSpawn} {
		if c.String() == string(b) {
			*k = c
			return nil
		}
	}
	return fmt.Errorf("unknown action kind %q", b)
}

// Action is an immutable command. Perform runs inside the single-threaded
// apply phase against the entity the action is bound to; it must tolerate a
// target of the wrong kind by doing nothing.
type Action interface {
	Kind() Kind
	Priority() int
	Perform(target models.Entity) error
}

// Bound ties an action to its target by identity, never by reference, so it
// can be replayed against any snapshot of the world.
type Bound struct {
	Target models.EntityID
	Action Action
}

type Key struct {
	Target models.EntityID
	Kind   Kind
}

func (b Bound) Key() Key {
	return Key{Target: b.Target, Kind: b.Action.Kind()}
}

func Bind(target models.EntityID, action Action) Bound {
	return Bound{Target: target, Action: action}
}
