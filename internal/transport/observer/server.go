// Package observer exposes the session's event stream to external viewers
// over a websocket feed. It is read-only: observers receive every published
// event as JSON but cannot inject anything back into the simulation.
package observer

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/officeday/server/internal/core/event"
)

const (
	writeWait      = 10 * time.Second
	sendBufferSize = 256
)

// Frame is one event on the wire.
type Frame struct {
	Topic   string        `json:"topic"`
	Payload event.Payload `json:"payload"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Server broadcasts bus events to websocket observers on /events. The tap
// runs on the simulation loop goroutine; slow or stalled observers get frames
// dropped rather than stalling the loop.
type Server struct {
	log      *zap.Logger
	addr     string
	upgrader websocket.Upgrader
	httpSrv  *http.Server

	mu      sync.Mutex
	clients map[*client]struct{}
}

func New(addr string, log *zap.Logger) *Server {
	s := &Server{
		log:  log,
		addr: addr,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		clients: make(map[*client]struct{}),
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/events", s.handleEvents)
	s.httpSrv = &http.Server{Addr: addr, Handler: mux}
	return s
}

// Tap returns the bus tap that feeds connected observers.
func (s *Server) Tap() event.TapFunc {
	return func(topic string, payload event.Payload) {
		data, err := json.Marshal(Frame{Topic: topic, Payload: payload})
		if err != nil {
			s.log.Error("marshal observer frame", zap.String("topic", topic), zap.Error(err))
			return
		}
		s.broadcast(data)
	}
}

func (s *Server) broadcast(data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		select {
		case c.send <- data:
		default:
			// Observer too slow: drop the frame, keep the loop moving.
		}
	}
}

// ListenAndServe blocks serving the observer endpoint. Returns
// http.ErrServerClosed after Close.
func (s *Server) ListenAndServe() error {
	s.log.Info("observer feed listening", zap.String("addr", s.addr))
	return s.httpSrv.ListenAndServe()
}

// Close disconnects all observers and shuts the listener down.
func (s *Server) Close() error {
	s.mu.Lock()
	for c := range s.clients {
		close(c.send)
		delete(s.clients, c)
	}
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("observer upgrade failed", zap.Error(err))
		return
	}
	c := &client{conn: conn, send: make(chan []byte, sendBufferSize)}

	s.mu.Lock()
	s.clients[c] = struct{}{}
	n := len(s.clients)
	s.mu.Unlock()
	s.log.Info("observer connected",
		zap.String("remote", conn.RemoteAddr().String()),
		zap.Int("observers", n))

	go s.writePump(c)
	go s.readPump(c)
}

func (s *Server) writePump(c *client) {
	defer c.conn.Close()
	for data := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			s.drop(c)
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

// readPump discards everything the observer sends; its only purpose is to
// detect the close handshake.
func (s *Server) readPump(c *client) {
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			s.drop(c)
			return
		}
	}
}

func (s *Server) drop(c *client) {
	s.mu.Lock()
	if _, ok := s.clients[c]; ok {
		delete(s.clients, c)
		close(c.send)
	}
	s.mu.Unlock()
}

// ObserverCount reports how many viewers are connected.
func (s *Server) ObserverCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}
