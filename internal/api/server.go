// Package api serves extracted company records over HTTP.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/oshima-research/edinet-cli/internal/store"
)

// Server represents the records API server.
type Server struct {
	router *chi.Mux
	server *http.Server
	port   int
}

// NewServer creates the API server over the given store.
func NewServer(st store.Store, port int) *Server {
	handler := NewHandler(st)
	router := chi.NewRouter()

	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
	}))
	router.Use(middleware.Compress(5))

	router.Get("/health", handler.Health)
	router.Route("/api", func(r chi.Router) {
		r.Get("/records", handler.ListRecords)
		r.Get("/records/{docID}", handler.GetRecord)
	})

	return &Server{router: router, port: port}
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}
