package world

import (
	"bytes"
	"encoding/binary"
	"slices"

	"github.com/cespare/xxhash/v2"

	"github.com/zeusync/robotgame/internal/core/models"
)

// States returns the state of every entity ordered by id.
func (w *World) States() []models.State {
	states := make([]models.State, 0, len(w.entities))
	for _, id := range w.order {
		states = append(states, w.entities[id].State())
	}
	slices.SortFunc(states, func(a, b models.State) int {
		return bytes.Compare(a.ID[:], b.ID[:])
	})
	return states
}

// Digest hashes the tick, status and every entity state. Two worlds with
// equal digests are interchangeable for every query a view can make, up to
// hash collisions. Insertion order does not contribute.
func (w *World) Digest() uint64 {
	h := xxhash.New()
	var buf [8]byte
	writeInt := func(v int64) {
		binary.LittleEndian.PutUint64(buf[:], uint64(v))
		_, _ = h.Write(buf[:])
	}
	writeString := func(v string) {
		writeInt(int64(len(v)))
		_, _ = h.WriteString(v)
	}

	writeInt(w.tick)
	writeInt(int64(w.status))
	writeString(winnerName(w.winner))
	for _, s := range w.States() {
		_, _ = h.Write(s.ID[:])
		writeInt(int64(s.Kind))
		writeInt(int64(s.X))
		writeInt(int64(s.Y))
		writeString(s.Owner)
		writeInt(int64(s.Health))
		writeInt(int64(s.Power))
		writeInt(int64(s.Countdown))
		if s.Spawning {
			writeInt(1)
		} else {
			writeInt(0)
		}
	}
	return h.Sum64()
}
