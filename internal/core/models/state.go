package models

import "fmt"

// State is a flattened, value-only description of an entity.
type State struct {
	ID        EntityID `json:"id"`
	Kind      Kind     `json:"kind"`
	X         int      `json:"x"`
	Y         int      `json:"y"`
	Owner     string   `json:"owner,omitempty"`
	Health    int      `json:"health"`
	MaxHealth int      `json:"max_health"`
	Power     int      `json:"power,omitempty"`
	Countdown int      `json:"countdown,omitempty"`
	Spawning  bool     `json:"spawning,omitempty"`
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (r *Robot) State() State {
	return State{
		ID:        r.id,
		Kind:      KindRobot,
		X:         r.loc.X,
		Y:         r.loc.Y,
		Owner:     r.owner.Name,
		Health:    r.current,
		MaxHealth: r.max,
		Power:     r.power,
	}
}

func (s *Spawner) State() State {
	return State{
		ID:        s.id,
		Kind:      KindSpawner,
		X:         s.loc.X,
		Y:         s.loc.Y,
		Owner:     s.owner.Name,
		Health:    s.current,
		MaxHealth: s.max,
		Countdown: s.countdown,
		Spawning:  s.spawning != nil,
	}
}

func (p *PowerSource) State() State {
	return State{
		ID:        p.id,
		Kind:      KindPowerSource,
		X:         p.loc.X,
		Y:         p.loc.Y,
		Health:    p.current,
		MaxHealth: p.max,
	}
}

func (k *Kind) UnmarshalText(b []byte) error {
	for _, candidate := range Kinds() {
		if candidate.String() == string(b) {
			*k = candidate
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownKind, b)
}
