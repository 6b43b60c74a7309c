package view

import "errors"

var (
	ErrSpawnInProgress = errors.New("spawn already in progress")
	ErrOutOfReach      = errors.New("target is not adjacent")
)
