package models

import "errors"

var (
	ErrAlreadySpawning = errors.New("spawner is already spawning")
	ErrUnknownKind     = errors.New("unknown entity kind")
)
