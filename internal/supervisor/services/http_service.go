// Attendify SyncBridge - Event-Management Data Synchronization
// Copyright 2026 Attendify
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/attendify/syncbridge

package services

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/attendify/syncbridge/internal/config"
	"github.com/attendify/syncbridge/internal/logging"
)

// HTTPService runs the activation/metrics HTTP server under supervision.
type HTTPService struct {
	server  *http.Server
	timeout time.Duration
}

// NewHTTPService builds the service around a configured handler.
func NewHTTPService(cfg config.ServerConfig, handler http.Handler) *HTTPService {
	return &HTTPService{
		server: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       cfg.Timeout,
			WriteTimeout:      cfg.Timeout,
		},
		timeout: cfg.Timeout,
	}
}

// Serve implements suture.Service. It blocks until the context is cancelled,
// then drains the server with a fresh shutdown deadline.
func (s *HTTPService) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", s.server.Addr).Msg("http server listening")
		errCh <- s.server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return ctx.Err()
	}
}

// String implements fmt.Stringer for supervision logs.
func (s *HTTPService) String() string {
	return "http-server"
}
