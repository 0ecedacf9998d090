package ui

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

// Admin is the operator listener: health and profiling, kept off the public port.
type Admin struct {
	router    *chi.Mux
	resources Resources
}

// NewAdmin creates the admin router. Profiling routes are mounted only when
// enabled.
func NewAdmin(res Resources, profiling bool) *Admin {
	a := &Admin{
		router:    chi.NewRouter(),
		resources: res,
	}
	a.router.Use(middleware.Recoverer)
	a.router.Get("/healthz", a.handleHealth)
	if profiling {
		a.router.Mount("/debug", middleware.Profiler())
	}
	return a
}

// ServeHTTP makes Admin an http.Handler.
func (a *Admin) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.router.ServeHTTP(w, r)
}

// Run serves the admin listener until ctx is cancelled.
func (a *Admin) Run(ctx context.Context, addr string) error {
	log.Info().Str("addr", addr).Msg("[Admin] starting health and pprof listener")
	return serve(ctx, &http.Server{
		Addr:              addr,
		Handler:           a,
		ReadHeaderTimeout: 10 * time.Second,
	})
}

// handleHealth reports resource load state; 503 until both are loaded.
func (a *Admin) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := a.resources.Status()
	code := http.StatusOK
	state := "ok"
	if !status.Ready() {
		code = http.StatusServiceUnavailable
		state = "degraded"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(map[string]interface{}{
		"status":    state,
		"resources": status,
	}); err != nil {
		log.Warn().Err(err).Msg("[Admin] failed to write health response")
	}
}
