package match

import "errors"

var (
	ErrNotEnoughAgents = errors.New("match needs at least one agent")
	ErrAlreadyRunning  = errors.New("orchestrator already running")
	ErrInvalidTiming   = errors.New("tick period and think deadline must be positive")
)
