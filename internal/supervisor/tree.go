// Attendify SyncBridge - Event-Management Data Synchronization
// Copyright 2026 Attendify
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/attendify/syncbridge

// Package supervisor assembles the suture supervision tree that keeps the
// queue consumers and the HTTP service running for the life of the process.
package supervisor

import (
	"context"
	"time"

	"github.com/thejerf/suture/v4"
	"github.com/thejerf/sutureslog"

	"github.com/attendify/syncbridge/internal/logging"
)

// New builds the root supervisor with restart limits tuned for long-lived
// broker consumers: a service that crashes more than five times inside the
// decay window backs off for fifteen seconds before the next start.
func New(name string) *suture.Supervisor {
	hook := (&sutureslog.Handler{Logger: logging.NewSlogLogger()}).MustHook()
	return suture.New(name, suture.Spec{
		EventHook:        hook,
		FailureThreshold: 5,
		FailureDecay:     30,
		FailureBackoff:   15 * time.Second,
		Timeout:          10 * time.Second,
	})
}

// Serve runs the tree until the context is cancelled.
func Serve(ctx context.Context, sup *suture.Supervisor) error {
	return sup.Serve(ctx)
}
