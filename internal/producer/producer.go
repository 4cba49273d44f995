// Attendify SyncBridge - Event-Management Data Synchronization
// Copyright 2026 Attendify
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/attendify/syncbridge

// Package producer publishes outbound envelopes on behalf of the frontend.
//
// Every publish runs through the duplicate suppressor first: the frontend's
// save hooks fire multiple times for one logical change, and only the first
// byte-identical document within the suppression window leaves the process.
package producer

import (
	"context"
	"errors"
	"fmt"

	"github.com/attendify/syncbridge/internal/broker"
	"github.com/attendify/syncbridge/internal/dedupe"
	"github.com/attendify/syncbridge/internal/envelope"
	"github.com/attendify/syncbridge/internal/logging"
	"github.com/attendify/syncbridge/internal/metrics"
	"github.com/attendify/syncbridge/internal/routing"
)

// ErrInvalidOperation is returned when a caller asks for an operation the
// target domain does not support. Nothing is published.
var ErrInvalidOperation = errors.New("invalid operation")

// Sender is the identity stamped on every outbound envelope. Consumers on
// our own queues drop anything carrying it, which is what breaks the echo
// loop through the other systems.
const Sender = "frontend"

// Producer is the shared publish path for all domain producers.
type Producer struct {
	pub broker.Publisher
	sup dedupe.Suppressor
}

// New creates a producer. The suppressor may be nil, in which case no
// duplicate suppression is applied.
func New(pub broker.Publisher, sup dedupe.Suppressor) *Producer {
	return &Producer{pub: pub, sup: sup}
}

// emit encodes and publishes an envelope to its route. A suppressed
// duplicate is a successful no-op.
func (p *Producer) emit(ctx context.Context, operation string, env *envelope.Envelope) error {
	env.Info = envelope.Info{Sender: Sender, Operation: operation}

	domain := env.Kind()
	route, err := routing.Resolve(domain, operation)
	if err != nil {
		return fmt.Errorf("%w: %s.%s", ErrInvalidOperation, domain, operation)
	}

	doc, err := envelope.Encode(env)
	if err != nil {
		return fmt.Errorf("encode %s.%s: %w", domain, operation, err)
	}

	if p.sup != nil {
		ok, err := p.sup.ShouldPublish(dedupe.Fingerprint(doc))
		switch {
		case err != nil:
			// The suppressor is advisory. A broken cache degrades to a
			// redundant publish, never to a lost one.
			metrics.SuppressorErrors.Inc()
			logging.Warn().
				Str("domain", string(domain)).
				Str("operation", operation).
				Err(err).
				Msg("suppressor check failed, publishing anyway")
		case !ok:
			metrics.PublishesSuppressed.WithLabelValues(string(domain)).Inc()
			logging.Debug().
				Str("domain", string(domain)).
				Str("operation", operation).
				Msg("duplicate publish suppressed")
			return nil
		}
	}

	if err := p.pub.Publish(ctx, route.Exchange, route.Key, doc); err != nil {
		return err
	}
	logging.Info().
		Str("domain", string(domain)).
		Str("operation", operation).
		Str("exchange", route.Exchange).
		Str("routing_key", route.Key).
		Msg("envelope published")
	return nil
}
