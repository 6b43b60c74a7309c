package models

import "github.com/zeusync/robotgame/internal/core/spatial"

const (
	PowerSourceMaxHealth = 100
	PowerPerHit          = 3
)

// PowerSource is an unowned, indestructible reservoir. Hitting it moves
// health into the attacking robot's power; it regenerates one point per tick.
type PowerSource struct {
	base
	health
}

var _ Attackable = (*PowerSource)(nil)

func NewPowerSource(loc spatial.Point) *PowerSource {
	return &PowerSource{
		base:   newBase(loc),
		health: newHealth(PowerSourceMaxHealth),
	}
}

func (p *PowerSource) Kind() Kind { return KindPowerSource }

// Damage ignores amount; every hit drains PowerPerHit, clamped by what is
// left in the source and by the attacker's free power capacity.
func (p *PowerSource) Damage(attacker *Robot, _ int) {
	drain := min(PowerPerHit, p.current)
	if attacker != nil {
		drain = min(drain, RobotMaxPower-attacker.power)
	}
	if drain <= 0 {
		return
	}
	p.current -= drain
	if attacker != nil {
		attacker.power += drain
	}
}

func (p *PowerSource) OnTickStart() {
	if p.current < p.max {
		p.current++
	}
}

func (p *PowerSource) Clone() Entity {
	c := *p
	c.host = nil
	return &c
}
