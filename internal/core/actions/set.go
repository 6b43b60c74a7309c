package actions

// Set accumulates bound actions in insertion order, keyed by (target, kind).
// Adding a second action with the same key replaces the first in place.
// A Set is owned by one goroutine.
type Set struct {
	items []Bound
	index map[Key]int
}

func NewSet() *Set {
	return &Set{index: make(map[Key]int)}
}

func (s *Set) Add(b Bound) {
	key := b.Key()
	if i, ok := s.index[key]; ok {
		s.items[i] = b
		return
	}
	s.index[key] = len(s.items)
	s.items = append(s.items, b)
}

func (s *Set) Contains(key Key) bool {
	_, ok := s.index[key]
	return ok
}

func (s *Set) Len() int {
	return len(s.items)
}

// Items returns a copy of the pending actions.
func (s *Set) Items() []Bound {
	out := make([]Bound, len(s.items))
	copy(out, s.items)
	return out
}

// Pop drains the set and returns what was pending. A second Pop without new
// additions returns an empty slice.
func (s *Set) Pop() []Bound {
	out := s.items
	if out == nil {
		out = []Bound{}
	}
	s.items = nil
	clear(s.index)
	return out
}
