// Package webapi exposes the live query surface named in SPEC_FULL.md §7:
// HTTP routes over the observation store, the Prometheus /metrics
// endpoint, and a websocket feed of AP/client snapshots.
//
// Grounded in the teacher's internal/adapters/web package (gorilla/mux
// routing, gorilla/websocket connection manager, periodic broadcast
// ticker), adapted from its network-graph/vulnerability feed to an
// AP/client observation feed.
package webapi

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lcalzada-xor/wmap/internal/domain"
	"github.com/lcalzada-xor/wmap/internal/store"
)

// Server serves /stats, /aps, /clients, /metrics and the /ws live feed.
type Server struct {
	Store *store.Store
	Stats *domain.Stats
	WS    *Hub
}

func NewServer(s *store.Store, stats *domain.Stats) *Server {
	return &Server{Store: s, Stats: stats, WS: NewHub()}
}

func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/stats", s.handleStats).Methods(http.MethodGet)
	r.HandleFunc("/aps", s.handleAPs).Methods(http.MethodGet)
	r.HandleFunc("/clients", s.handleClients).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/ws", s.WS.HandleWebSocket)
	return r
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.Stats.Snapshot())
}

func (s *Server) handleAPs(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.Store.AllAPs())
}

func (s *Server) handleClients(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.Store.AllClients())
}
