package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/robotgame/internal/core/actions"
	"github.com/zeusync/robotgame/internal/core/models"
	"github.com/zeusync/robotgame/internal/core/spatial"
)

var (
	red  = models.Player{Name: "Red"}
	blue = models.Player{Name: "Blue"}
)

// newDuel returns a running world with a spawner per side far from the
// action, so removing a robot does not end the match.
func newDuel(t *testing.T) *World {
	t.Helper()
	w := New(OpenTerrain())
	require.NoError(t, w.Add(models.NewSpawner(red, spatial.Pt(40, 40))))
	require.NoError(t, w.Add(models.NewSpawner(blue, spatial.Pt(45, 45))))
	return w
}

func addRobot(t *testing.T, w *World, owner models.Player, p spatial.Point) *models.Robot {
	t.Helper()
	r := models.NewRobot(owner, p)
	require.NoError(t, w.Add(r))
	return r
}

func TestAddRejectsDuplicateID(t *testing.T) {
	w := New(nil)
	r := models.NewRobot(red, spatial.Pt(1, 1))
	require.NoError(t, w.Add(r))

	err := w.Add(r.Clone())
	require.ErrorIs(t, err, ErrDuplicateEntity)
	assert.Equal(t, 1, w.Len())
}

func TestRemoveIsIdempotent(t *testing.T) {
	w := newDuel(t)
	r := addRobot(t, w, red, spatial.Pt(1, 1))

	w.Remove(r)
	w.Remove(r)

	_, ok := w.Get(r.ID())
	assert.False(t, ok)
	assert.Nil(t, r.Host())
	assert.Empty(t, w.ByKind(models.KindRobot))
	assert.Empty(t, w.At(spatial.Pt(1, 1)))
}

func TestQueriesByKindAndPoint(t *testing.T) {
	w := newDuel(t)
	a := addRobot(t, w, red, spatial.Pt(3, 3))
	b := addRobot(t, w, blue, spatial.Pt(3, 4))

	robots := w.ByKind(models.KindRobot)
	require.Len(t, robots, 2)
	assert.Same(t, a, robots[0])
	assert.Same(t, b, robots[1])
	assert.Len(t, w.ByKind(models.KindSpawner), 2)

	at := w.At(spatial.Pt(3, 4))
	require.Len(t, at, 1)
	assert.Same(t, b, at[0])
	assert.Len(t, w.All(), 4)
}

func TestAttackUntilRemoved(t *testing.T) {
	w := newDuel(t)
	a := addRobot(t, w, red, spatial.Pt(5, 5))
	b := addRobot(t, w, blue, spatial.Pt(5, 6))
	attack := actions.Bind(a.ID(), actions.Attack{Victim: b.ID()})

	for _, want := range []int{7, 4, 1} {
		w.Step([]actions.Bound{attack})
		assert.Equal(t, want, b.Health())
		_, ok := w.Get(b.ID())
		require.True(t, ok)
	}

	w.Step([]actions.Bound{attack})
	assert.Equal(t, -2, b.Health())
	_, ok := w.Get(b.ID())
	assert.False(t, ok)
	assert.True(t, w.Running())
}

func TestAttackResolvesBeforeMove(t *testing.T) {
	w := newDuel(t)
	a := addRobot(t, w, red, spatial.Pt(5, 5))
	b := addRobot(t, w, blue, spatial.Pt(5, 6))

	// The move arrives first but is applied last.
	w.Step([]actions.Bound{
		actions.Bind(b.ID(), actions.Move{Dir: spatial.Down}),
		actions.Bind(a.ID(), actions.Attack{Victim: b.ID()}),
	})

	assert.Equal(t, 7, b.Health())
	assert.Equal(t, spatial.Pt(5, 7), b.Location())
}

func TestEqualPriorityKeepsArrivalOrder(t *testing.T) {
	w := newDuel(t)
	a := addRobot(t, w, red, spatial.Pt(5, 5))
	b := addRobot(t, w, blue, spatial.Pt(5, 6))
	a.SetHealth(1)
	b.SetHealth(1)

	applied := w.ApplyActions([]actions.Bound{
		actions.Bind(b.ID(), actions.Attack{Victim: a.ID()}),
		actions.Bind(a.ID(), actions.Attack{Victim: b.ID()}),
	})

	// b struck first, so a's attack was dropped with its target gone.
	require.Len(t, applied, 1)
	assert.Equal(t, b.ID(), applied[0].Target)
	_, ok := w.Get(a.ID())
	assert.False(t, ok)
	_, ok = w.Get(b.ID())
	assert.True(t, ok)
}

func TestActionsOnMissingTargetsAreDropped(t *testing.T) {
	w := newDuel(t)
	ghost := models.NewRobot(red, spatial.Pt(9, 9))
	spawner := w.ByKind(models.KindSpawner)[0]

	applied := w.ApplyActions([]actions.Bound{
		actions.Bind(ghost.ID(), actions.Move{Dir: spatial.Up}),
		actions.Bind(spawner.ID(), actions.Move{Dir: spatial.Up}),
	})

	require.Len(t, applied, 1)
	assert.Equal(t, spawner.ID(), applied[0].Target)
	assert.Equal(t, spatial.Pt(40, 40), spawner.Location())
}

func TestMoveBlockedByWallAndOccupant(t *testing.T) {
	w := New(TerrainFromWalls([]Rect{{X: 10, Y: 9, W: 1, H: 1}}))
	require.NoError(t, w.Add(models.NewSpawner(blue, spatial.Pt(45, 45))))
	a := addRobot(t, w, red, spatial.Pt(10, 10))
	addRobot(t, w, blue, spatial.Pt(11, 10))

	assert.False(t, a.Move(spatial.Up))
	assert.False(t, a.Move(spatial.Right))
	assert.True(t, a.Move(spatial.Left))
	assert.Equal(t, spatial.Pt(9, 10), a.Location())
}

func TestSpawnAppearsFiveTicksLater(t *testing.T) {
	w := newDuel(t)
	spawner := w.ByKind(models.KindSpawner)[0].(*models.Spawner)
	start := w.Tick()

	spawn := actions.NewStartSpawn()
	w.Step([]actions.Bound{actions.Bind(spawner.ID(), spawn)})

	for w.Tick() < start+models.SpawnCountdown {
		assert.Empty(t, w.ByKind(models.KindRobot), "tick %d", w.Tick())
		w.Step(nil)
	}

	require.Equal(t, start+models.SpawnCountdown, w.Tick())
	robots := w.ByKind(models.KindRobot)
	require.Len(t, robots, 1)
	assert.Equal(t, spawn.RobotID, robots[0].ID())
	assert.Equal(t, spatial.Pt(40, 39), robots[0].Location(), "first free cell in scan order")
	assert.False(t, spawner.Spawning())
}

func TestBlockedSpawnRetriesEveryTick(t *testing.T) {
	w := newDuel(t)
	spawner := w.ByKind(models.KindSpawner)[0].(*models.Spawner)
	var blockers []*models.Robot
	for _, dir := range spatial.Directions() {
		blockers = append(blockers, addRobot(t, w, blue, spawner.Location().Add(dir)))
	}

	w.Step([]actions.Bound{actions.Bind(spawner.ID(), actions.NewStartSpawn())})
	for range 10 {
		w.Step(nil)
	}
	assert.Len(t, w.ByKind(models.KindRobot), 4)
	assert.Equal(t, 1, spawner.Countdown())
	assert.True(t, spawner.Spawning())

	w.Remove(blockers[2])
	w.Step(nil)

	assert.False(t, spawner.Spawning())
	assert.Len(t, w.At(spawner.Location().Add(spatial.Down)), 1)
}

func TestSecondStartSpawnIsRejected(t *testing.T) {
	w := newDuel(t)
	spawner := w.ByKind(models.KindSpawner)[0].(*models.Spawner)

	w.ApplyActions([]actions.Bound{actions.Bind(spawner.ID(), actions.NewStartSpawn())})
	err := actions.NewStartSpawn().Perform(spawner)

	require.ErrorIs(t, err, models.ErrAlreadySpawning)
	assert.Equal(t, models.SpawnCountdown, spawner.Countdown())
}

func TestPowerSourceRegeneratesAndDrains(t *testing.T) {
	w := newDuel(t)
	source := models.NewPowerSource(spatial.Pt(20, 20))
	require.NoError(t, w.Add(source))
	r := addRobot(t, w, red, spatial.Pt(20, 21))

	w.Step([]actions.Bound{actions.Bind(r.ID(), actions.Attack{Victim: source.ID()})})
	assert.Equal(t, models.PowerSourceMaxHealth-models.PowerPerHit, source.Health())
	assert.Equal(t, models.PowerPerHit, r.Power())

	w.PreTick()
	assert.Equal(t, models.PowerSourceMaxHealth-models.PowerPerHit+1, source.Health())
}

func TestMatchEndsWithSoleOwner(t *testing.T) {
	w := New(nil)
	require.NoError(t, w.Add(models.NewSpawner(red, spatial.Pt(1, 1))))
	bs := models.NewSpawner(blue, spatial.Pt(30, 30))
	require.NoError(t, w.Add(bs))
	require.NoError(t, w.Add(models.NewPowerSource(spatial.Pt(5, 5))))

	assert.False(t, w.PostTick())
	w.Remove(bs)
	assert.True(t, w.PostTick())

	assert.Equal(t, StatusEnded, w.Status())
	winner, ok := w.Winner()
	require.True(t, ok)
	assert.True(t, winner.Equal(models.Player{Name: "red"}))

	tick := w.Tick()
	w.PostTick()
	assert.Equal(t, tick, w.Tick(), "an ended world never advances")
}

func TestMatchWithNoOwnersIsADraw(t *testing.T) {
	w := New(nil)
	require.NoError(t, w.Add(models.NewPowerSource(spatial.Pt(5, 5))))

	assert.True(t, w.PostTick())
	_, ok := w.Winner()
	assert.False(t, ok)
}

func TestMaxTicksEndsInDraw(t *testing.T) {
	w := New(nil, WithMaxTicks(3))
	require.NoError(t, w.Add(models.NewSpawner(red, spatial.Pt(1, 1))))
	require.NoError(t, w.Add(models.NewSpawner(blue, spatial.Pt(30, 30))))

	assert.False(t, w.PostTick())
	assert.False(t, w.PostTick())
	assert.True(t, w.PostTick())
	assert.Equal(t, int64(3), w.Tick())
	_, ok := w.Winner()
	assert.False(t, ok)
}

func TestCloneIsIndependent(t *testing.T) {
	w := newDuel(t)
	orig := addRobot(t, w, red, spatial.Pt(5, 5))
	spawner := w.ByKind(models.KindSpawner)[0].(*models.Spawner)
	require.NoError(t, spawner.StartSpawn(models.NewEntityID()))

	clone := w.Clone()
	assert.Equal(t, w.Digest(), clone.Digest())
	assert.Equal(t, w.Tick(), clone.Tick())

	e, ok := clone.Get(orig.ID())
	require.True(t, ok)
	cr := e.(*models.Robot)
	assert.NotSame(t, orig, cr)
	assert.Same(t, clone, cr.Host())

	require.True(t, cr.Move(spatial.Right))
	cr.SetHealth(2)
	clone.Step(nil)

	assert.Equal(t, spatial.Pt(5, 5), orig.Location())
	assert.Equal(t, models.RobotMaxHealth, orig.Health())
	assert.Same(t, w, orig.Host())
	assert.Equal(t, models.SpawnCountdown, spawner.Countdown())
	assert.NotEqual(t, w.Digest(), clone.Digest())
}

func TestDigestIgnoresInsertionOrder(t *testing.T) {
	a := models.NewRobot(red, spatial.Pt(1, 1))
	b := models.NewRobot(blue, spatial.Pt(2, 2))

	w1 := New(nil)
	require.NoError(t, w1.Add(a.Clone()))
	require.NoError(t, w1.Add(b.Clone()))
	w2 := New(nil)
	require.NoError(t, w2.Add(b.Clone()))
	require.NoError(t, w2.Add(a.Clone()))

	assert.Equal(t, w1.Digest(), w2.Digest())
}

func TestNewMatchLayout(t *testing.T) {
	players := []models.Player{{Name: "a"}, {Name: "b"}, {Name: "c"}, {Name: "d"}}
	w, err := NewMatch(players, nil, []spatial.Point{spatial.Pt(0, 25)})
	require.NoError(t, err)

	spawners := w.ByKind(models.KindSpawner)
	require.Len(t, spawners, 4)
	for i, s := range spawners {
		assert.Equal(t, StartPositions()[i], s.Location())
		assert.Equal(t, players[i], s.(models.Owned).Owner())
	}
	assert.Len(t, w.ByKind(models.KindPowerSource), 1)

	_, err = NewMatch(append(players, models.Player{Name: "e"}), nil, nil)
	require.ErrorIs(t, err, ErrTooManyPlayers)

	blocked := TerrainFromWalls([]Rect{{X: 12, Y: 12, W: 1, H: 1}})
	_, err = NewMatch(players, blocked, nil)
	require.ErrorIs(t, err, ErrBlockedStart)
}
