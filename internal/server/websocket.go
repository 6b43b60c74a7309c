package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/zeusync/robotgame/internal/core/observability/log"
	"github.com/zeusync/robotgame/pkg/generic"
)

var buffers = generic.NewPool(func() *bytes.Buffer { return new(bytes.Buffer) }, (*bytes.Buffer).Reset)

// encodeFrame returns the JSON encoding of f in a fresh slice, so the
// result can be shared between client queues.
func encodeFrame(f Frame) ([]byte, error) {
	buf := buffers.Get()
	defer buffers.Put(buf)
	if err := json.NewEncoder(buf).Encode(f); err != nil {
		return nil, err
	}
	return bytes.Clone(buf.Bytes()), nil
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

type client struct {
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

func (c *client) close() {
	c.once.Do(func() {
		close(c.send)
	})
}

func (s *Spectator) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debug("websocket upgrade failed", log.Error(err))
		return
	}

	first, err := encodeFrame(s.current())
	if err != nil {
		s.logger.Error("encode frame", log.Error(err))
		_ = conn.Close()
		return
	}
	c := &client{conn: conn, send: make(chan []byte, s.config.SendBuffer)}
	c.send <- first

	s.mu.Lock()
	if s.closed.Load() {
		s.mu.Unlock()
		_ = conn.Close()
		return
	}
	s.clients[c] = struct{}{}
	count := len(s.clients)
	s.mu.Unlock()
	s.logger.Info("spectator connected",
		log.String("remote_addr", conn.RemoteAddr().String()),
		log.Int("clients", count),
	)

	go s.writeLoop(c)
	s.readLoop(c)
}

// readLoop only drains control frames so close and ping are handled.
func (s *Spectator) readLoop(c *client) {
	defer s.drop(c)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *Spectator) writeLoop(c *client) {
	defer c.conn.Close()
	for msg := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			s.logger.Debug("spectator write failed", log.Error(err))
			s.drop(c)
			return
		}
	}
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
}

func (s *Spectator) drop(c *client) {
	s.mu.Lock()
	_, ok := s.clients[c]
	delete(s.clients, c)
	count := len(s.clients)
	s.mu.Unlock()
	c.close()
	if ok {
		s.logger.Info("spectator disconnected",
			log.String("remote_addr", c.conn.RemoteAddr().String()),
			log.Int("clients", count),
		)
	}
}

// broadcast queues frame for every client. A client whose buffer is full
// skips this frame.
func (s *Spectator) broadcast(frame Frame) {
	msg, err := encodeFrame(frame)
	if err != nil {
		s.logger.Error("encode frame", log.Error(err))
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		select {
		case c.send <- msg:
		default:
			s.logger.Debug("spectator too slow, frame skipped", log.Int64("tick", frame.Tick))
		}
	}
}
