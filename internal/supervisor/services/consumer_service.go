// Attendify SyncBridge - Event-Management Data Synchronization
// Copyright 2026 Attendify
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/attendify/syncbridge

// Package services wraps the long-running parts of the process as suture
// services.
package services

import (
	"context"

	"github.com/attendify/syncbridge/internal/consumer"
)

// ConsumerService runs one queue consumer under supervision. When the loop
// returns with an error, suture restarts the service and the consumer
// reattaches to its queue.
type ConsumerService struct {
	name     string
	consumer *consumer.Consumer
}

// NewConsumerService wraps a consumer.
func NewConsumerService(name string, c *consumer.Consumer) *ConsumerService {
	return &ConsumerService{name: name, consumer: c}
}

// Serve implements suture.Service.
func (s *ConsumerService) Serve(ctx context.Context) error {
	return s.consumer.Run(ctx)
}

// String implements fmt.Stringer for supervision logs.
func (s *ConsumerService) String() string {
	return s.name
}
