package server

import (
	"strconv"

	"github.com/zeusync/robotgame/internal/core/actions"
	"github.com/zeusync/robotgame/internal/core/models"
	"github.com/zeusync/robotgame/internal/core/world"
)

// Frame is what spectators receive: the whole world after a tick plus the
// actions that tick applied.
type Frame struct {
	Tick     int64          `json:"tick"`
	Status   world.Status   `json:"status"`
	Winner   string         `json:"winner,omitempty"`
	Digest   string         `json:"digest"`
	Entities []models.State `json:"entities"`
	Actions  []FrameAction  `json:"actions"`
}

type FrameAction struct {
	Target models.EntityID `json:"target"`
	Kind   actions.Kind    `json:"kind"`
}

// NewFrame describes w, which the caller must not mutate concurrently.
func NewFrame(w *world.World, applied []actions.Bound) Frame {
	f := Frame{
		Tick:     w.Tick(),
		Status:   w.Status(),
		Digest:   strconv.FormatUint(w.Digest(), 16),
		Entities: w.States(),
		Actions:  make([]FrameAction, 0, len(applied)),
	}
	if winner, ok := w.Winner(); ok {
		f.Winner = winner.Name
	}
	for _, b := range applied {
		f.Actions = append(f.Actions, FrameAction{Target: b.Target, Kind: b.Action.Kind()})
	}
	return f
}
