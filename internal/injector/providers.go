package injector

import (
	"fmt"

	"github.com/google/wire"

	"github.com/zeusync/robotgame/internal/config"
	"github.com/zeusync/robotgame/internal/core/agent"
	"github.com/zeusync/robotgame/internal/core/events/bus"
	"github.com/zeusync/robotgame/internal/core/match"
	"github.com/zeusync/robotgame/internal/core/observability/log"
	"github.com/zeusync/robotgame/internal/core/world"
	"github.com/zeusync/robotgame/internal/scripts"
	"github.com/zeusync/robotgame/internal/server"
)

// App is everything cmd/server runs. Spectator is nil when disabled.
type App struct {
	Config       *config.MatchConfig
	Logger       *log.Logger
	Orchestrator *match.Orchestrator
	Spectator    *server.Spectator
}

var ProviderSet = wire.NewSet(
	ProvideLogger,
	wire.Bind(new(log.Log), new(*log.Logger)),
	ProvideBus,
	ProvideWorld,
	ProvideAgents,
	ProvideOrchestrator,
	wire.Bind(new(server.Source), new(*match.Orchestrator)),
	ProvideSpectator,
	wire.Struct(new(App), "*"),
)

func ProvideLogger(cfg *config.MatchConfig) *log.Logger {
	return log.New(cfg.Level())
}

func ProvideBus() bus.EventBus {
	return bus.New()
}

func ProvideWorld(cfg *config.MatchConfig, logger log.Log) (*world.World, error) {
	terrain, sources := cfg.Arena()
	return world.NewMatch(cfg.Players(), terrain, sources,
		world.WithLogger(logger),
		world.WithMaxTicks(cfg.MaxTicks),
	)
}

func ProvideAgents(cfg *config.MatchConfig, logger log.Log) ([]match.Agent, error) {
	players := cfg.Players()
	agents := make([]match.Agent, 0, len(players))
	for i, a := range cfg.Agents {
		script, err := scripts.Lookup(a.Script)
		if err != nil {
			return nil, fmt.Errorf("agent %q: %w", a.Name, err)
		}
		agents = append(agents, agent.NewWorker(players[i], script, agent.WithLogger(logger)))
	}
	return agents, nil
}

func ProvideOrchestrator(cfg *config.MatchConfig, w *world.World, agents []match.Agent, logger log.Log, eventBus bus.EventBus) (*match.Orchestrator, error) {
	return match.New(cfg.Timing(), w, agents, logger, eventBus)
}

func ProvideSpectator(cfg *config.MatchConfig, source server.Source, eventBus bus.EventBus, logger log.Log) (*server.Spectator, error) {
	if !cfg.Spectator.Enabled {
		return nil, nil
	}
	sc := server.DefaultConfig()
	sc.ListenAddr = cfg.Spectator.Addr
	return server.NewSpectator(sc, source, eventBus, logger)
}
