// Attendify SyncBridge - Event-Management Data Synchronization
// Copyright 2026 Attendify
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/attendify/syncbridge

// Package broker wraps the RabbitMQ connection: bounded-retry dialing,
// topology declaration and a thin publish/consume surface over amqp091.
package broker

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/attendify/syncbridge/internal/config"
	"github.com/attendify/syncbridge/internal/logging"
	"github.com/attendify/syncbridge/internal/metrics"
	"github.com/attendify/syncbridge/internal/routing"
)

// Publisher is the outbound surface handed to producers and the monitor.
type Publisher interface {
	Publish(ctx context.Context, exchange, key string, body []byte) error
}

// Broker owns a RabbitMQ connection and the channel publishes run on.
// Consumers get a private channel each through Consume.
type Broker struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

// Dial connects to RabbitMQ with a bounded constant-delay retry. The broker
// regularly comes up after the consumers in a fresh deployment, so transient
// refusals during the attempt window are expected.
func Dial(ctx context.Context, cfg config.BrokerConfig) (*Broker, error) {
	var conn *amqp.Connection

	policy := backoff.WithContext(backoff.WithMaxRetries(
		backoff.NewConstantBackOff(cfg.ConnectDelay),
		uint64(cfg.ConnectAttempts-1),
	), ctx)

	attempt := 0
	err := backoff.Retry(func() error {
		attempt++
		var dialErr error
		conn, dialErr = amqp.Dial(cfg.URL())
		if dialErr != nil {
			logging.Warn().
				Int("attempt", attempt).
				Int("max_attempts", cfg.ConnectAttempts).
				Err(dialErr).
				Msg("broker connection failed, retrying")
			return dialErr
		}
		return nil
	}, policy)
	if err != nil {
		return nil, fmt.Errorf("dial broker after %d attempts: %w", attempt, err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	logging.Info().Str("host", cfg.Host).Int("port", cfg.Port).Msg("broker connected")
	return &Broker{conn: conn, ch: ch}, nil
}

// DeclareTopology declares every exchange, queue and binding the system uses.
// Declarations are idempotent, so every process declares the full set on
// startup regardless of which side it sits on.
func (b *Broker) DeclareTopology() error {
	for _, ex := range routing.Exchanges() {
		if err := b.ch.ExchangeDeclare(ex, amqp.ExchangeDirect, true, false, false, false, nil); err != nil {
			return fmt.Errorf("declare exchange %s: %w", ex, err)
		}
	}
	for _, q := range routing.Queues() {
		if _, err := b.ch.QueueDeclare(q, true, false, false, false, nil); err != nil {
			return fmt.Errorf("declare queue %s: %w", q, err)
		}
	}
	for _, bind := range routing.Bindings() {
		if err := b.ch.QueueBind(bind.Queue, bind.Key, bind.Exchange, false, nil); err != nil {
			return fmt.Errorf("bind %s to %s/%s: %w", bind.Queue, bind.Exchange, bind.Key, err)
		}
	}
	return nil
}

// Publish sends a document to an exchange and routing key. Messages are
// persistent text/xml with a fresh message id.
func (b *Broker) Publish(ctx context.Context, exchange, key string, body []byte) error {
	err := b.ch.PublishWithContext(ctx, exchange, key, false, false, amqp.Publishing{
		ContentType:  "text/xml",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Timestamp:    time.Now(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish to %s/%s: %w", exchange, key, err)
	}
	metrics.MessagesPublished.WithLabelValues(exchange, key).Inc()
	return nil
}

// Subscription is one queue's delivery stream on its own channel. Closing it
// releases the channel; the connection stays up for the other streams.
type Subscription struct {
	ch         *amqp.Channel
	Deliveries <-chan amqp.Delivery
}

// Close shuts the subscription's channel down.
func (s *Subscription) Close() error {
	return s.ch.Close()
}

// Consume opens a delivery stream for a queue with manual acknowledgements.
// Each stream gets a private channel so a channel-level error on one queue
// cannot take the other queues down with it.
func (b *Broker) Consume(queue string) (*Subscription, error) {
	ch, err := b.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel for %s: %w", queue, err)
	}
	// One unacked message at a time keeps per-queue processing strictly
	// ordered even if a future consumer runs with more workers.
	if err := ch.Qos(1, 0, false); err != nil {
		ch.Close()
		return nil, fmt.Errorf("set qos for %s: %w", queue, err)
	}
	deliveries, err := ch.Consume(queue, "", false, false, false, false, nil)
	if err != nil {
		ch.Close()
		return nil, fmt.Errorf("consume %s: %w", queue, err)
	}
	return &Subscription{ch: ch, Deliveries: deliveries}, nil
}

// Close shuts the channel and connection down.
func (b *Broker) Close() error {
	if err := b.ch.Close(); err != nil {
		b.conn.Close()
		return fmt.Errorf("close channel: %w", err)
	}
	return b.conn.Close()
}

// NotifyClose registers for connection-level close notifications so the
// supervisor can restart the consuming service when the broker drops.
func (b *Broker) NotifyClose() <-chan *amqp.Error {
	return b.conn.NotifyClose(make(chan *amqp.Error, 1))
}
