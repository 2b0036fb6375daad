// Package api is the HTTP façade over internal/facade (component F, spec
// §6.2). It is explicitly non-core: every handler here is a thin
// translation between JSON/query-string and the Facade interface.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"ctenex/internal/facade"
	"ctenex/internal/models"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

// Server is the HTTP server for the matching engine's core API.
type Server struct {
	listenAddr string
	facade     facade.Facade
	contracts  map[models.ContractID]models.Contract
	validate   *validator.Validate
	httpServer *http.Server
}

// NewServer builds a Server bound to listenAddr, serving f. contracts is
// the configured contract universe (spec.md §6.4); tick_size from it gates
// POST /orders (handleCreateOrder) at the façade boundary, never inside
// the engine (spec.md §6: "the engine itself does not validate ticks").
func NewServer(listenAddr string, f facade.Facade, contracts []models.Contract) *Server {
	registry := make(map[models.ContractID]models.Contract, len(contracts))
	for _, c := range contracts {
		registry[c.ID] = c
	}

	s := &Server{
		listenAddr: listenAddr,
		facade:     f,
		contracts:  registry,
		validate:   validator.New(),
	}

	router := mux.NewRouter()
	router.HandleFunc("/orders", s.handleCreateOrder).Methods(http.MethodPost)
	router.HandleFunc("/orders", s.handleListOrders).Methods(http.MethodGet)
	router.HandleFunc("/orders/{id}", s.handleCancelOrder).Methods(http.MethodDelete)
	router.HandleFunc("/trades", s.handleListTrades).Methods(http.MethodGet)
	router.HandleFunc("/contracts", s.handleListContracts).Methods(http.MethodGet)
	router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	s.httpServer = &http.Server{
		Addr:         listenAddr,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
	return s
}

// Run starts the HTTP server and blocks until it stops.
func (s *Server) Run() error {
	log.Info().Str("addr", s.listenAddr).Msg("http server starting")
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains in-flight requests.
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response body")
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}
