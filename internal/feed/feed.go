// Package feed streams ledger events to websocket subscribers. The feed
// is read-only: clients receive every event published after they connect
// and cannot send anything back.
package feed

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"solana-arb-dao/internal/events"
	"solana-arb-dao/internal/observability"
)

const (
	writeTimeout = 10 * time.Second
	pingInterval = 30 * time.Second

	// subscriberBuffer bounds the per-client event queue. A client that
	// cannot keep up starts losing events rather than blocking publishers.
	subscriberBuffer = 256
)

// Server broadcasts bus events over websocket connections.
type Server struct {
	bus      *events.Bus
	logger   *log.Logger
	upgrader websocket.Upgrader
}

// NewServer creates a websocket feed on the given bus.
func NewServer(bus *events.Bus, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		bus:    bus,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// ServeHTTP upgrades the connection and streams events until the client
// disconnects.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Printf("feed: upgrade failed: %v", err)
		return
	}

	ch, cancel := s.bus.Subscribe(subscriberBuffer)
	defer cancel()
	defer conn.Close()

	observability.DefaultMetrics.EventSubscribers.Inc()
	defer observability.DefaultMetrics.EventSubscribers.Dec()

	s.logger.Printf("feed: subscriber connected from %s", r.RemoteAddr)

	// Drain the read side so close frames and pongs are processed.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-ch:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteJSON(event); err != nil {
				s.logger.Printf("feed: write failed, dropping subscriber: %v", err)
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
