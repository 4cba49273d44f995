// Attendify SyncBridge - Event-Management Data Synchronization
// Copyright 2026 Attendify
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/attendify/syncbridge

// Package monitor publishes processing outcomes to the shared monitoring
// channel. Every publish is best effort: a monitoring failure is logged and
// counted but never propagates into message handling.
package monitor

import (
	"context"
	"time"

	"github.com/attendify/syncbridge/internal/broker"
	"github.com/attendify/syncbridge/internal/envelope"
	"github.com/attendify/syncbridge/internal/logging"
	"github.com/attendify/syncbridge/internal/metrics"
	"github.com/attendify/syncbridge/internal/routing"
)

// Sender identifies this system on the monitoring channel.
const Sender = "frontend"

// Monitor emits log documents onto a domain exchange under monitoring.log.
// A nil Monitor is valid and silently discards everything, which keeps tests
// and one-shot tools free of broker plumbing.
type Monitor struct {
	pub      broker.Publisher
	exchange string
}

// New creates a monitor that publishes onto the given exchange.
func New(pub broker.Publisher, exchange string) *Monitor {
	return &Monitor{pub: pub, exchange: exchange}
}

// Info reports a successful operation.
func (m *Monitor) Info(ctx context.Context, message string) {
	m.emit(ctx, "info", message)
}

// Error reports a failed operation.
func (m *Monitor) Error(ctx context.Context, message string) {
	m.emit(ctx, "error", message)
}

func (m *Monitor) emit(ctx context.Context, level, message string) {
	if m == nil || m.pub == nil {
		return
	}
	doc, err := envelope.EncodeLog(&envelope.LogEvent{
		Sender:    Sender,
		Timestamp: time.Now().Format("2006-01-02 15:04:05"),
		Level:     level,
		Message:   message,
	})
	if err != nil {
		metrics.MonitoringPublishFailures.Inc()
		logging.Error().Err(err).Msg("encode monitoring event")
		return
	}
	if err := m.pub.Publish(ctx, m.exchange, routing.MonitoringKey, doc); err != nil {
		metrics.MonitoringPublishFailures.Inc()
		logging.Error().Err(err).Str("exchange", m.exchange).Msg("publish monitoring event")
	}
}
