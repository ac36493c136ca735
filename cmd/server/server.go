// cmd/server/server.go
package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/chedoparti/clubsched/internal/api"
	"github.com/chedoparti/clubsched/internal/api/booking"
	"github.com/chedoparti/clubsched/internal/config"
	"github.com/chedoparti/clubsched/internal/configstore"
	"github.com/chedoparti/clubsched/internal/ratelimit"
)

func newServer(cfg *config.Config, store configstore.Store, writeLimiter *ratelimit.Limiter) *http.Server {
	router := http.NewServeMux()

	handler := api.ChainMiddleware(
		router,
		api.WithLogging,
		api.WithRecovery,
		api.WithRequestID,
	)

	registerRoutes(router, store, writeLimiter)

	return &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func registerRoutes(mux *http.ServeMux, store configstore.Store, writeLimiter *ratelimit.Limiter) {
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	handlers := booking.NewHandlers(store)
	mux.HandleFunc("GET /api/v1/slots", handlers.HandleSlots)
	mux.HandleFunc("GET /api/v1/operating-hours/open", handlers.HandleOpen)
	mux.HandleFunc("POST /api/v1/quotes", handlers.HandleQuote)
	mux.HandleFunc("GET /api/v1/schedule", handlers.HandleScheduleGet)
	mux.Handle("PUT /api/v1/schedule", writeLimiter.Middleware(http.HandlerFunc(handlers.HandleScheduleUpdate)))
	mux.HandleFunc("GET /api/v1/pricing", handlers.HandlePricingGet)
	mux.Handle("PUT /api/v1/pricing", writeLimiter.Middleware(http.HandlerFunc(handlers.HandlePricingUpdate)))
}
