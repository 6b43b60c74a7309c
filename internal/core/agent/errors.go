package agent

import "errors"

var (
	ErrWorkerStarted    = errors.New("worker already started")
	ErrWorkerNotStarted = errors.New("worker not started")
	ErrWorkerStopped    = errors.New("worker stopped")
	ErrSuperseded       = errors.New("request superseded by a newer one")
	ErrScriptPanic      = errors.New("script panicked")
)
