// Attendify SyncBridge - Event-Management Data Synchronization
// Copyright 2026 Attendify
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/attendify/syncbridge

// Package consumer runs the queue loops that apply inbound envelopes to the
// store. Each queue has one single-threaded loop, so messages on a queue are
// applied strictly in delivery order.
package consumer

import (
	"context"
	"errors"
	"strings"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/attendify/syncbridge/internal/broker"
	"github.com/attendify/syncbridge/internal/envelope"
	"github.com/attendify/syncbridge/internal/logging"
	"github.com/attendify/syncbridge/internal/metrics"
	"github.com/attendify/syncbridge/internal/monitor"
)

// ErrUnknownOperation is returned by handlers for operations outside their
// vocabulary. The message is acknowledged and dropped.
var ErrUnknownOperation = errors.New("unknown operation")

// ownSender is the identity our producers stamp on envelopes. Deliveries
// carrying it are our own messages echoed back through an exchange and are
// dropped before any handler runs.
const ownSender = "frontend"

// Handler applies one decoded envelope.
type Handler interface {
	// Queue names the queue this handler consumes.
	Queue() string

	// Handle applies the envelope. The outcome is reported on the
	// monitoring channel either way.
	Handle(ctx context.Context, env *envelope.Envelope) error
}

// AckPolicy decides the broker disposition after a handler ran. handleErr is
// nil on success.
type AckPolicy func(d *amqp.Delivery, handleErr error) error

// AckAlways acknowledges every delivery regardless of the handler outcome.
// Failed mutations are dropped, surfaced through metrics and monitoring
// rather than redelivery; a poison message can therefore never wedge a queue.
func AckAlways(d *amqp.Delivery, _ error) error {
	return d.Ack(false)
}

// Consumer drives one queue loop.
type Consumer struct {
	broker  *broker.Broker
	handler Handler
	mon     *monitor.Monitor
	policy  AckPolicy
}

// New creates a consumer for a handler's queue. A nil policy means AckAlways,
// and a nil monitor disables outcome reporting.
func New(b *broker.Broker, h Handler, mon *monitor.Monitor, policy AckPolicy) *Consumer {
	if policy == nil {
		policy = AckAlways
	}
	return &Consumer{broker: b, handler: h, mon: mon, policy: policy}
}

// Run consumes the queue until the context is cancelled or the delivery
// stream closes.
func (c *Consumer) Run(ctx context.Context) error {
	queue := c.handler.Queue()
	sub, err := c.broker.Consume(queue)
	if err != nil {
		return err
	}
	defer sub.Close()
	logging.Info().Str("queue", queue).Msg("consumer started")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-sub.Deliveries:
			if !ok {
				return errors.New("delivery stream closed for " + queue)
			}
			if err := c.process(ctx, &d); err != nil {
				return err
			}
		}
	}
}

// process runs one delivery through decode, sender filtering, the handler and
// the ack policy. The returned error is an ack failure only; handler errors
// never escape the loop.
func (c *Consumer) process(ctx context.Context, d *amqp.Delivery) error {
	queue := c.handler.Queue()
	metrics.MessagesConsumed.WithLabelValues(queue).Inc()

	env, err := envelope.Decode(d.Body)
	if err != nil {
		metrics.MessagesDropped.WithLabelValues(queue, "malformed").Inc()
		logging.Error().Str("queue", queue).Err(err).Msg("dropping malformed message")
		c.mon.Error(ctx, "dropped malformed message on "+queue)
		return c.policy(d, err)
	}

	if strings.EqualFold(env.Info.Sender, ownSender) {
		metrics.MessagesDropped.WithLabelValues(queue, "sender_loop").Inc()
		logging.Debug().Str("queue", queue).Msg("dropping own echoed message")
		return c.policy(d, nil)
	}

	err = c.handler.Handle(ctx, env)
	switch {
	case err == nil:
		metrics.MessagesApplied.WithLabelValues(string(env.Kind()), env.Info.Operation).Inc()
		c.mon.Info(ctx, describe(env)+" applied")
	case errors.Is(err, ErrUnknownOperation):
		metrics.MessagesDropped.WithLabelValues(queue, "unknown_operation").Inc()
		logging.Warn().
			Str("queue", queue).
			Str("domain", string(env.Kind())).
			Str("operation", env.Info.Operation).
			Msg("dropping message with unknown operation")
		c.mon.Error(ctx, describe(env)+" has no handler")
	default:
		metrics.MessagesDropped.WithLabelValues(queue, "handler_error").Inc()
		logging.Error().
			Str("queue", queue).
			Str("domain", string(env.Kind())).
			Str("operation", env.Info.Operation).
			Err(err).
			Msg("handler failed, message dropped")
		c.mon.Error(ctx, describe(env)+" failed: "+err.Error())
	}
	return c.policy(d, err)
}

func describe(env *envelope.Envelope) string {
	return string(env.Kind()) + " " + env.Info.Operation + " from " + env.Info.Sender
}
