package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/robotgame/internal/core/observability/log"
	"github.com/zeusync/robotgame/internal/core/spatial"
	"github.com/zeusync/robotgame/internal/core/world"
)

const sample = `
match_id: cup
agents:
  - name: red
    script: hunter
  - name: blue
    script: sleeper
tick_period: 250ms
think_deadline: 500ms
max_ticks: 300
log_level: debug
spectator:
  enabled: false
terrain:
  walls:
    - {x: 0, y: 0, w: 3, h: 2}
power_sources:
  - {x: 25, y: 25}
  - {x: -1, y: 51}
`

func TestDefaultIsValid(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	assert.Len(t, c.Agents, MaxAgents)
	assert.Equal(t, time.Second, c.TickPeriod)
	assert.Equal(t, 2*time.Second, c.ThinkDeadline)
	assert.Equal(t, int64(5000), c.MaxTicks)
	assert.Equal(t, "127.0.0.1:8090", c.Spectator.Addr)
}

func TestLoadYAML(t *testing.T) {
	c, err := LoadYAML(strings.NewReader(sample))
	require.NoError(t, err)

	assert.Equal(t, "cup", c.MatchID)
	require.Len(t, c.Agents, 2)
	assert.Equal(t, Agent{Name: "blue", Script: "sleeper"}, c.Agents[1])
	assert.Equal(t, 250*time.Millisecond, c.TickPeriod)
	assert.Equal(t, 500*time.Millisecond, c.ThinkDeadline)
	assert.Equal(t, int64(300), c.MaxTicks)
	assert.Equal(t, log.LevelDebug, c.Level())
	assert.False(t, c.Spectator.Enabled)
	// Untouched keys keep their defaults.
	assert.Equal(t, "127.0.0.1:8090", c.Spectator.Addr)
	assert.True(t, c.Terrain.Generate)

	timing := c.Timing()
	assert.Equal(t, "cup", timing.MatchID)
	assert.Equal(t, c.TickPeriod, timing.TickPeriod)
	assert.Len(t, c.Players(), 2)
}

func TestArenaFromWalls(t *testing.T) {
	c, err := LoadYAML(strings.NewReader(sample + "\n"))
	require.NoError(t, err)
	c.Terrain.Generate = false

	terrain, sources := c.Arena()
	assert.True(t, terrain.IsWall(spatial.Pt(2, 1)))
	assert.False(t, terrain.IsWall(spatial.Pt(3, 0)))
	assert.Equal(t, []spatial.Point{spatial.Pt(25, 25), spatial.Pt(49, 1)}, sources)
}

func TestArenaGeneratedIsDeterministic(t *testing.T) {
	c := Default()
	t1, s1 := c.Arena()
	t2, s2 := c.Arena()
	assert.Equal(t, t1.Walls(), t2.Walls())
	assert.Equal(t, s1, s2)
	assert.Len(t, s1, c.Terrain.Sources)

	_, err := world.NewMatch(c.Players(), t1, s1)
	require.NoError(t, err)
}

func TestValidateRejects(t *testing.T) {
	cases := map[string]func(c *MatchConfig){
		"zero tick period":   func(c *MatchConfig) { c.TickPeriod = 0 },
		"negative deadline":  func(c *MatchConfig) { c.ThinkDeadline = -time.Second },
		"negative max ticks": func(c *MatchConfig) { c.MaxTicks = -1 },
		"no agents":          func(c *MatchConfig) { c.Agents = nil },
		"five agents": func(c *MatchConfig) {
			c.Agents = append(c.Agents, Agent{Name: "purple", Script: "idle"})
		},
		"duplicate names": func(c *MatchConfig) { c.Agents[1].Name = "RED" },
		"blank name":      func(c *MatchConfig) { c.Agents[0].Name = " " },
		"missing script":  func(c *MatchConfig) { c.Agents[0].Script = "" },
		"spectator addr":  func(c *MatchConfig) { c.Spectator.Addr = "" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := Default()
			mutate(c)
			assert.ErrorIs(t, c.Validate(), ErrInvalidConfig)
		})
	}
}

func TestLoadYAMLRejectsUnknownKeys(t *testing.T) {
	_, err := LoadYAML(strings.NewReader("tick_periood: 1s\n"))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "match.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))

	c, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "cup", c.MatchID)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
