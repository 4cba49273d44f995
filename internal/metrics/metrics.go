// Attendify SyncBridge - Event-Management Data Synchronization
// Copyright 2026 Attendify
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/attendify/syncbridge

// Package metrics provides Prometheus instrumentation for SyncBridge.
//
// The acknowledge-always policy means failed mutations are dropped rather
// than retried; MessagesDropped is the primary operational signal for that
// data loss and must stay wired into every consumer.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// MessagesConsumed counts messages delivered to a consumer, by queue.
	MessagesConsumed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "syncbridge_messages_consumed_total",
			Help: "Total number of messages delivered to consumers",
		},
		[]string{"queue"},
	)

	// MessagesDropped counts messages acknowledged without a successful
	// mutation. reason: malformed, sender_loop, handler_error, unknown_operation.
	MessagesDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "syncbridge_messages_dropped_total",
			Help: "Total number of messages acknowledged and dropped without applying a mutation",
		},
		[]string{"queue", "reason"},
	)

	// MessagesApplied counts successfully applied mutations, by domain and operation.
	MessagesApplied = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "syncbridge_messages_applied_total",
			Help: "Total number of mutations applied to the store",
		},
		[]string{"domain", "operation"},
	)

	// MessagesPublished counts messages published by producers, by exchange and routing key.
	MessagesPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "syncbridge_messages_published_total",
			Help: "Total number of messages published to the broker",
		},
		[]string{"exchange", "routing_key"},
	)

	// PublishesSuppressed counts publishes skipped by the duplicate suppressor.
	PublishesSuppressed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "syncbridge_publishes_suppressed_total",
			Help: "Total number of publishes suppressed as duplicates within the fingerprint TTL",
		},
		[]string{"domain"},
	)

	// ActivationCalls counts activation-key mint calls, by outcome.
	ActivationCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "syncbridge_activation_calls_total",
			Help: "Total number of activation-key HTTP calls",
		},
		[]string{"outcome"}, // success, failure
	)

	// MonitoringPublishFailures counts best-effort monitoring publishes that failed.
	MonitoringPublishFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "syncbridge_monitoring_publish_failures_total",
			Help: "Total number of monitoring side-channel publishes that failed (never fatal)",
		},
	)

	// SuppressorErrors counts suppressor lookups that failed. The check is
	// advisory, so each of these corresponds to a publish that went out
	// without duplicate protection.
	SuppressorErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "syncbridge_suppressor_errors_total",
			Help: "Total number of failed duplicate-suppressor lookups (publish proceeded anyway)",
		},
	)

	// SuppressorEntries tracks the approximate fingerprint cache size.
	SuppressorEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "syncbridge_suppressor_entries",
			Help: "Approximate number of live fingerprint entries in the duplicate suppressor",
		},
	)
)
