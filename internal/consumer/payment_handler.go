// Attendify SyncBridge - Event-Management Data Synchronization
// Copyright 2026 Attendify
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/attendify/syncbridge

package consumer

import (
	"context"
	"fmt"

	"github.com/attendify/syncbridge/internal/envelope"
	"github.com/attendify/syncbridge/internal/routing"
)

// PaymentStore is the store surface the payment handler needs.
type PaymentStore interface {
	CreateEventPayment(ctx context.Context, p *envelope.EventPayment) error
	UpdateEventPayment(ctx context.Context, p *envelope.EventPayment) error
	DeleteEventPayment(ctx context.Context, userUID, eventUID string) error
}

// PaymentHandler applies entrance-fee payments from frontend.invoice.
type PaymentHandler struct {
	store PaymentStore
}

// NewPaymentHandler creates the invoice queue handler.
func NewPaymentHandler(store PaymentStore) *PaymentHandler {
	return &PaymentHandler{store: store}
}

// Queue implements Handler.
func (h *PaymentHandler) Queue() string {
	return routing.QueueInvoice
}

// Handle implements Handler.
func (h *PaymentHandler) Handle(ctx context.Context, env *envelope.Envelope) error {
	p := env.EventPayment
	if p == nil {
		return fmt.Errorf("%w: %s on invoice queue", ErrUnknownOperation, env.Kind())
	}
	switch env.Info.Operation {
	case "create_event_payment":
		return h.store.CreateEventPayment(ctx, p)
	case "update_event_payment":
		return h.store.UpdateEventPayment(ctx, p)
	case "delete_event_payment":
		return h.store.DeleteEventPayment(ctx, p.UID, p.EventID)
	default:
		return fmt.Errorf("%w: event_payment.%s", ErrUnknownOperation, env.Info.Operation)
	}
}

// TabStore is the store surface the tab handler needs.
type TabStore interface {
	CreateTab(ctx context.Context, t *envelope.Tab) error
	UpdateTab(ctx context.Context, t *envelope.Tab) error
	DeleteTab(ctx context.Context, userUID, eventUID string) error
}

// TabHandler applies bar tabs from frontend.sale.
type TabHandler struct {
	store TabStore
}

// NewTabHandler creates the sale queue handler.
func NewTabHandler(store TabStore) *TabHandler {
	return &TabHandler{store: store}
}

// Queue implements Handler.
func (h *TabHandler) Queue() string {
	return routing.QueueSale
}

// Handle implements Handler.
func (h *TabHandler) Handle(ctx context.Context, env *envelope.Envelope) error {
	t := env.Tab
	if t == nil {
		return fmt.Errorf("%w: %s on sale queue", ErrUnknownOperation, env.Kind())
	}
	switch env.Info.Operation {
	case "create":
		return h.store.CreateTab(ctx, t)
	case "update":
		return h.store.UpdateTab(ctx, t)
	case "delete":
		return h.store.DeleteTab(ctx, t.UID, t.EventID)
	default:
		return fmt.Errorf("%w: tab.%s", ErrUnknownOperation, env.Info.Operation)
	}
}
