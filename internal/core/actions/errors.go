package actions

import "errors"

var (
	ErrWrongTarget = errors.New("action bound to an entity of the wrong kind")
)
