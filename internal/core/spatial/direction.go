package spatial

// Direction is one of the four cardinal steps. The declaration order is the
// fixed scan order used wherever the simulation needs a deterministic walk
// over neighbours.
type Direction uint8

const (
	Up Direction = iota
	Right
	Down
	Left
)

var allDirections = [...]Direction{Up, Right, Down, Left}

// Directions returns the four directions in scan order.
func Directions() []Direction {
	out := allDirections
	return out[:]
}

func (d Direction) DX() int {
	switch d {
	case Right:
		return 1
	case Left:
		return -1
	default:
		return 0
	}
}

func (d Direction) DY() int {
	switch d {
	case Up:
		return -1
	case Down:
		return 1
	default:
		return 0
	}
}

func (d Direction) Opposite() Direction {
	return (d + 2) % 4
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Right:
		return "right"
	case Down:
		return "down"
	case Left:
		return "left"
	default:
		return "unknown"
	}
}
