package world

import "errors"

var (
	ErrDuplicateEntity = errors.New("entity id already present")
	ErrTooManyPlayers  = errors.New("more players than start positions")
	ErrBlockedStart    = errors.New("start position is a wall")
)
