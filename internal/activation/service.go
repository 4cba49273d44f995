// Attendify SyncBridge - Event-Management Data Synchronization
// Copyright 2026 Attendify
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/attendify/syncbridge

package activation

import (
	"crypto/subtle"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/crypto/bcrypt"

	"github.com/attendify/syncbridge/internal/config"
	"github.com/attendify/syncbridge/internal/logging"
)

// Service answers mint calls from peer systems: it hashes a freshly minted
// activation key and hands the hash back so the peer can complete its user
// creation. It also hosts /metrics and /healthz for the whole process.
type Service struct {
	secret string
}

// NewService creates the activation HTTP service.
func NewService(cfg config.ActivationConfig) *Service {
	return &Service{secret: cfg.SharedSecret}
}

// Router builds the chi router for the service.
func (s *Service) Router(cfg config.ServerConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(httprate.LimitByIP(cfg.RateLimitReqs, cfg.RateLimitWindow))
		r.Post("/set-activation-key", s.handleSetActivationKey)
	})

	return r
}

func (s *Service) handleSetActivationKey(w http.ResponseWriter, r *http.Request) {
	if s.secret == "" || !secureEqual(r.Header.Get(SharedSecretHeader), s.secret) {
		logging.Warn().Str("remote", r.RemoteAddr).Msg("activation call with bad shared secret")
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	var req mintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ActivationKey == "" {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.ActivationKey), bcrypt.DefaultCost)
	if err != nil {
		logging.Error().Err(err).Msg("hash activation key")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(mintResponse{HashedActivationKey: string(hash)}); err != nil {
		logging.Error().Err(err).Msg("encode activation response")
	}
}

func secureEqual(got, want string) bool {
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}
