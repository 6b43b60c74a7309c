package actions

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/robotgame/internal/core/models"
	"github.com/zeusync/robotgame/internal/core/spatial"
)

func TestSetDeduplicatesByTargetAndKind(t *testing.T) {
	a, b := models.NewEntityID(), models.NewEntityID()
	s := NewSet()

	s.Add(Bind(a, Move{Dir: spatial.Up}))
	s.Add(Bind(b, Move{Dir: spatial.Left}))
	s.Add(Bind(a, Attack{Victim: b}))
	s.Add(Bind(a, Move{Dir: spatial.Down}))

	require.Equal(t, 3, s.Len())
	assert.True(t, s.Contains(Key{Target: a, Kind: KindAttack}))
	assert.False(t, s.Contains(Key{Target: b, Kind: KindAttack}))

	// The replacement keeps the slot of the first move.
	assert.Equal(t, []Bound{
		Bind(a, Move{Dir: spatial.Down}),
		Bind(b, Move{Dir: spatial.Left}),
		Bind(a, Attack{Victim: b}),
	}, s.Items())
}

func TestSetPopDrainsOnce(t *testing.T) {
	s := NewSet()
	s.Add(Bind(models.NewEntityID(), NewStartSpawn()))

	first := s.Pop()
	assert.Len(t, first, 1)
	second := s.Pop()
	assert.NotNil(t, second)
	assert.Empty(t, second)
	assert.Zero(t, s.Len())

	// Drained keys can be queued again.
	s.Add(first[0])
	assert.Equal(t, 1, s.Len())
}

func TestItemsIsACopy(t *testing.T) {
	s := NewSet()
	s.Add(Bind(models.NewEntityID(), Move{Dir: spatial.Up}))
	items := s.Items()
	items[0] = Bind(models.NewEntityID(), Move{Dir: spatial.Left})
	assert.Equal(t, Move{Dir: spatial.Up}, s.Items()[0].Action)
}

func TestPriorities(t *testing.T) {
	assert.Equal(t, math.MaxInt, Move{}.Priority())
	assert.Less(t, Attack{}.Priority(), Move{}.Priority())
	assert.Less(t, StartSpawn{}.Priority(), Move{}.Priority())
}

func TestPerformRejectsWrongTarget(t *testing.T) {
	spawner := models.NewSpawner(models.Player{Name: "red"}, spatial.Pt(1, 1))
	robot := models.NewRobot(models.Player{Name: "red"}, spatial.Pt(2, 2))

	assert.ErrorIs(t, Move{Dir: spatial.Up}.Perform(spawner), ErrWrongTarget)
	assert.ErrorIs(t, Attack{Victim: robot.ID()}.Perform(spawner), ErrWrongTarget)
	assert.ErrorIs(t, NewStartSpawn().Perform(robot), ErrWrongTarget)

	// A detached robot attacking is a no-op, not an error.
	assert.NoError(t, Attack{Victim: spawner.ID()}.Perform(robot))
}

func TestStartSpawnPassesSpawnerError(t *testing.T) {
	spawner := models.NewSpawner(models.Player{Name: "red"}, spatial.Pt(1, 1))
	require.NoError(t, NewStartSpawn().Perform(spawner))
	assert.ErrorIs(t, NewStartSpawn().Perform(spawner), models.ErrAlreadySpawning)
}

func TestKindText(t *testing.T) {
	for _, k := range []Kind{KindMove, KindAttack, KindStartSpawn} {
		text, err := k.MarshalText()
		require.NoError(t, err)
		var back Kind
		require.NoError(t, back.UnmarshalText(text))
		assert.Equal(t, k, back)
	}
	var k Kind
	assert.Error(t, k.UnmarshalText([]byte("teleport")))
}
