// Package server is the debug HTTP/WebSocket server fiberctl serve runs: a
// thin observation window onto a running update queue host, not a second
// implementation of anything in core. It streams CommitEvents over
// WebSocket to any number of connected viewers and exposes a Prometheus
// scrape endpoint.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/fiberqueue/updatequeue/event"
	"github.com/fiberqueue/updatequeue/logging"
)

// Server serves the debug UI's WebSocket feed and a /metrics endpoint. It
// implements http.Handler directly, so it can be dropped into any
// *http.Server (production use) or httptest.Server (tests) alike.
type Server struct {
	addr     string
	bus      *event.Feed[event.CommitEvent]
	registry *prometheus.Registry
	nodes    *NodeRegistry
	log      logging.Logger
	upgrader websocket.Upgrader
	handler  http.Handler
	http     *http.Server
}

// New returns a Server that relays bus's CommitEvents to WebSocket clients
// connecting to /events, exposes reg's collectors at /metrics, and serves
// nodes' latest snapshots at /queues/{node}. nodes may be nil, in which case
// /queues/{node} always reports 404 (used by tests that don't exercise it).
func New(addr string, bus *event.Feed[event.CommitEvent], reg *prometheus.Registry, log logging.Logger, nodes *NodeRegistry) *Server {
	if nodes == nil {
		nodes = NewNodeRegistry()
	}
	s := &Server{
		addr:     addr,
		bus:      bus,
		registry: reg,
		nodes:    nodes,
		log:      log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/events", s.handleEvents)
	mux.HandleFunc("/queues/", s.handleQueue)
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	s.handler = cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet},
	}).Handler(mux)

	s.http = &http.Server{Addr: addr, Handler: s}
	return s
}

// ServeHTTP implements http.Handler by forwarding to the CORS-wrapped mux.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Run starts the HTTP listener and blocks until ctx is canceled, then
// shuts the server down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("debug server listening", "addr", s.addr)
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.http.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", "err", err, "remote", r.RemoteAddr)
		return
	}
	defer conn.Close()

	sub := s.bus.Subscribe(16)
	defer sub.Unsubscribe()

	for {
		select {
		case evt, ok := <-sub.Chan():
			if !ok {
				return
			}
			payload, err := json.Marshal(commitEventJSON(evt))
			if err != nil {
				s.log.Error("marshal commit event", "err", err)
				continue
			}
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-r.Context().Done():
			return
		}
	}
}

// handleQueue serves GET /queues/{node}: the node's current queue depth,
// residual priority and base state, as last reported by a driver calling
// NodeRegistry.Update.
func (s *Server) handleQueue(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/queues/")
	if id == "" {
		http.Error(w, "missing node id", http.StatusBadRequest)
		return
	}
	snapshot, ok := s.nodes.Get(id)
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(snapshot); err != nil {
		s.log.Error("encode queue snapshot", "err", err)
	}
}

type commitEventJSONView struct {
	NodeID      string `json:"node_id"`
	Applied     int    `json:"applied"`
	Skipped     int    `json:"skipped"`
	ForceUpdate bool   `json:"force_update"`
	Err         string `json:"err,omitempty"`
}

func commitEventJSON(evt event.CommitEvent) commitEventJSONView {
	v := commitEventJSONView{
		NodeID:      evt.NodeID.String(),
		Applied:     evt.Applied,
		Skipped:     evt.Skipped,
		ForceUpdate: evt.ForceUpdate,
	}
	if evt.Err != nil {
		v.Err = evt.Err.Error()
	}
	return v
}
