package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/zeusync/robotgame/internal/core/actions"
	"github.com/zeusync/robotgame/internal/core/events/bus"
	"github.com/zeusync/robotgame/internal/core/match"
	"github.com/zeusync/robotgame/internal/core/observability/log"
	"github.com/zeusync/robotgame/internal/core/world"
)

// Source is the read-only match state the spectator serves.
// *match.Orchestrator implements it.
type Source interface {
	Snapshot() *world.World
	LastActions() []actions.Bound
}

// Config holds spectator server configuration
type Config struct {
	ListenAddr string

	// WriteTimeout bounds a single frame write to one client.
	WriteTimeout time.Duration
	// SendBuffer is the number of frames queued per client before new
	// frames are dropped for it.
	SendBuffer int

	ShutdownTimeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		ListenAddr:      "127.0.0.1:8090",
		WriteTimeout:    5 * time.Second,
		SendBuffer:      16,
		ShutdownTimeout: 5 * time.Second,
	}
}

func (c Config) Validate() error {
	if c.ListenAddr == "" || c.SendBuffer <= 0 || c.WriteTimeout <= 0 {
		return ErrInvalidConfig
	}
	return nil
}

// Spectator streams match frames to websocket clients. It never changes the
// match: inbound websocket messages are read and discarded.
type Spectator struct {
	config Config
	source Source
	logger log.Log

	subs []bus.Subscription

	mu      sync.Mutex
	clients map[*client]struct{}

	running atomic.Bool
	closed  atomic.Bool
}

func NewSpectator(config Config, source Source, eventBus bus.EventBus, logger log.Log) (*Spectator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.NewNop()
	}
	s := &Spectator{
		config:  config,
		source:  source,
		logger:  logger.With(log.Component("spectator")),
		clients: make(map[*client]struct{}),
	}
	if eventBus != nil {
		for _, typ := range []string{match.EventTickCompleted, match.EventMatchEnded} {
			sub, err := eventBus.Subscribe(typ, s.onEvent)
			if err != nil {
				s.unsubscribe()
				return nil, err
			}
			s.subs = append(s.subs, sub)
		}
	}
	return s, nil
}

// Run serves until ctx is done, then shuts the listener down and drops all
// clients.
func (s *Spectator) Run(ctx context.Context) error {
	if s.closed.Load() {
		return ErrServerClosed
	}
	if !s.running.CompareAndSwap(false, true) {
		return ErrServerAlreadyRunning
	}

	listener, err := net.Listen("tcp", s.config.ListenAddr)
	if err != nil {
		s.running.Store(false)
		return err
	}
	httpServer := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	s.logger.Info("spectator listening", log.String("addr", listener.Addr().String()))

	serveErr := make(chan error, 1)
	go func() { serveErr <- httpServer.Serve(listener) }()

	select {
	case err := <-serveErr:
		s.Close()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()
	err = httpServer.Shutdown(shutdownCtx)
	s.Close()
	s.logger.Info("spectator stopped")
	return err
}

// Close unsubscribes from the bus and disconnects every client. Safe to call
// more than once.
func (s *Spectator) Close() {
	if !s.closed.CompareAndSwap(false, true) {
		return
	}
	s.unsubscribe()

	s.mu.Lock()
	clients := s.clients
	s.clients = make(map[*client]struct{})
	s.mu.Unlock()
	for c := range clients {
		c.close()
	}
}

func (s *Spectator) unsubscribe() {
	for _, sub := range s.subs {
		_ = sub.Cancel()
	}
	s.subs = nil
}

func (s *Spectator) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

func (s *Spectator) current() Frame {
	return NewFrame(s.source.Snapshot(), s.source.LastActions())
}

func (s *Spectator) onEvent(event bus.Event) error {
	var frame Frame
	switch data := event.Data().(type) {
	case match.TickCompleted:
		frame = NewFrame(data.World, data.Applied)
	case match.MatchEnded:
		frame = s.current()
	default:
		return nil
	}
	s.broadcast(frame)
	return nil
}
