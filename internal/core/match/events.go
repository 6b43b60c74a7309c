package match

import (
	"time"

	"github.com/zeusync/robotgame/internal/core/actions"
	"github.com/zeusync/robotgame/internal/core/world"
)

// Event types published on the bus.
const (
	EventTickCompleted  = "tick.completed"
	EventDeadlineMissed = "agent.deadline_missed"
	EventMatchEnded     = "match.ended"
)

const eventSource = "match"

// TickCompleted carries a frozen copy of the world right after the tick was
// applied. Handlers must not mutate World.
type TickCompleted struct {
	Tick    int64
	World   *world.World
	Applied []actions.Bound
	Late    []string
	Elapsed time.Duration
}

type DeadlineMissed struct {
	Agent    string
	Tick     int64
	Deadline time.Duration
}

type MatchEnded struct {
	Tick      int64
	Winner    string
	Draw      bool
	Cancelled bool
}
