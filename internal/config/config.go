package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/zeusync/robotgame/internal/core/match"
	"github.com/zeusync/robotgame/internal/core/models"
	"github.com/zeusync/robotgame/internal/core/observability/log"
	"github.com/zeusync/robotgame/internal/core/spatial"
	"github.com/zeusync/robotgame/internal/core/world"
)

const MaxAgents = 4

type Agent struct {
	Name   string `yaml:"name"`
	Script string `yaml:"script"`
}

type Spectator struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// Terrain describes the arena. With Generate set, a cave is generated from
// Seed with Sources power sources, and Walls and the top-level power sources
// are ignored.
type Terrain struct {
	Walls    []world.Rect `yaml:"walls"`
	Generate bool         `yaml:"generate"`
	Seed     uint64       `yaml:"seed"`
	Sources  int          `yaml:"sources"`
}

type MatchConfig struct {
	MatchID       string          `yaml:"match_id"`
	Agents        []Agent         `yaml:"agents"`
	TickPeriod    time.Duration   `yaml:"tick_period"`
	ThinkDeadline time.Duration   `yaml:"think_deadline"`
	MaxTicks      int64           `yaml:"max_ticks"`
	LogLevel      string          `yaml:"log_level"`
	Spectator     Spectator       `yaml:"spectator"`
	Terrain       Terrain         `yaml:"terrain"`
	PowerSources  []spatial.Point `yaml:"power_sources"`
}

func Default() *MatchConfig {
	timing := match.DefaultConfig()
	return &MatchConfig{
		MatchID: "local",
		Agents: []Agent{
			{Name: "red", Script: "forager"},
			{Name: "blue", Script: "hunter"},
			{Name: "green", Script: "forager"},
			{Name: "yellow", Script: "hunter"},
		},
		TickPeriod:    timing.TickPeriod,
		ThinkDeadline: timing.ThinkDeadline,
		MaxTicks:      5000,
		LogLevel:      "info",
		Spectator: Spectator{
			Enabled: true,
			Addr:    "127.0.0.1:8090",
		},
		Terrain: Terrain{
			Generate: true,
			Seed:     1,
			Sources:  4,
		},
	}
}

// LoadYAML reads a config from r. Keys missing from the document keep their
// Default values.
func LoadYAML(r io.Reader) (*MatchConfig, error) {
	c := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func LoadFile(path string) (*MatchConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()
	return LoadYAML(f)
}

func (c *MatchConfig) Validate() error {
	if c.TickPeriod <= 0 || c.ThinkDeadline <= 0 {
		return fmt.Errorf("%w: tick_period and think_deadline must be positive", ErrInvalidConfig)
	}
	if c.MaxTicks < 0 {
		return fmt.Errorf("%w: max_ticks must not be negative", ErrInvalidConfig)
	}
	if len(c.Agents) == 0 || len(c.Agents) > MaxAgents {
		return fmt.Errorf("%w: need 1 to %d agents, got %d", ErrInvalidConfig, MaxAgents, len(c.Agents))
	}
	seen := make(map[string]struct{}, len(c.Agents))
	for i, a := range c.Agents {
		if strings.TrimSpace(a.Name) == "" {
			return fmt.Errorf("%w: agent %d has no name", ErrInvalidConfig, i)
		}
		if a.Script == "" {
			return fmt.Errorf("%w: agent %q has no script", ErrInvalidConfig, a.Name)
		}
		key := models.Player{Name: a.Name}.Key()
		if _, dup := seen[key]; dup {
			return fmt.Errorf("%w: duplicate agent %q", ErrInvalidConfig, a.Name)
		}
		seen[key] = struct{}{}
	}
	if c.Spectator.Enabled && c.Spectator.Addr == "" {
		return fmt.Errorf("%w: spectator enabled without addr", ErrInvalidConfig)
	}
	if c.Terrain.Generate && c.Terrain.Sources < 0 {
		return fmt.Errorf("%w: terrain.sources must not be negative", ErrInvalidConfig)
	}
	return nil
}

func (c *MatchConfig) Timing() match.Config {
	return match.Config{
		MatchID:       c.MatchID,
		TickPeriod:    c.TickPeriod,
		ThinkDeadline: c.ThinkDeadline,
	}
}

func (c *MatchConfig) Level() log.Level {
	return log.ParseLevel(c.LogLevel)
}

func (c *MatchConfig) Players() []models.Player {
	players := make([]models.Player, len(c.Agents))
	for i, a := range c.Agents {
		players[i] = models.Player{Name: a.Name}
	}
	return players
}
