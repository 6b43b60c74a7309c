package models

import "github.com/zeusync/robotgame/internal/core/spatial"

const (
	RobotMaxHealth = 10
	RobotMaxPower  = 30
	AttackDamage   = 3
)

type Robot struct {
	base
	health
	owner Player
	power int
}

var (
	_ Attackable = (*Robot)(nil)
	_ Owned      = (*Robot)(nil)
)

func NewRobot(owner Player, loc spatial.Point) *Robot {
	return &Robot{
		base:   newBase(loc),
		health: newHealth(RobotMaxHealth),
		owner:  owner,
	}
}

func (r *Robot) Kind() Kind    { return KindRobot }
func (r *Robot) Owner() Player { return r.owner }
func (r *Robot) Power() int    { return r.power }

func (r *Robot) Damage(_ *Robot, amount int) {
	r.hit(r, amount)
}

// Move steps one cell in dir. The step only happens when the target cell is
// passable terrain with nothing on it.
func (r *Robot) Move(dir spatial.Direction) bool {
	next := r.loc.Add(dir)
	if !r.isFree(next) {
		return false
	}
	r.loc = next
	return true
}

// Attack hits target when it is exactly one cardinal step away.
func (r *Robot) Attack(target Attackable) bool {
	if target == nil || target.Host() == nil || !r.loc.IsAdjacent(target.Location()) {
		return false
	}
	target.Damage(r, AttackDamage)
	return true
}

func (r *Robot) Clone() Entity {
	c := *r
	c.host = nil
	return &c
}
