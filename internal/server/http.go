package server

import (
	"net/http"

	"github.com/zeusync/robotgame/internal/core/observability/log"
)

// Handler routes /ws to the frame stream and /snapshot to a one-off frame.
func (s *Spectator) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ws", s.handleWebSocket)
	mux.HandleFunc("GET /snapshot", s.handleSnapshot)
	return mux
}

func (s *Spectator) handleSnapshot(w http.ResponseWriter, _ *http.Request) {
	body, err := encodeFrame(s.current())
	if err != nil {
		s.logger.Error("encode frame", log.Error(err))
		http.Error(w, "encode frame", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(body); err != nil {
		s.logger.Debug("write snapshot", log.Error(err))
	}
}
