// Attendify SyncBridge - Event-Management Data Synchronization
// Copyright 2026 Attendify
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/attendify/syncbridge

package producer

import (
	"context"
	"fmt"

	"github.com/attendify/syncbridge/internal/envelope"
)

// CompanyProducer publishes company lifecycle envelopes.
type CompanyProducer struct {
	*Producer
}

// NewCompanyProducer creates a company producer.
func NewCompanyProducer(p *Producer) *CompanyProducer {
	return &CompanyProducer{Producer: p}
}

// Produce publishes a company envelope for create, update or delete.
func (cp *CompanyProducer) Produce(ctx context.Context, operation string, c *envelope.Company) error {
	switch operation {
	case "create", "update", "delete":
	default:
		return fmt.Errorf("%w: company.%s", ErrInvalidOperation, operation)
	}
	return cp.emit(ctx, operation, &envelope.Envelope{
		Companies: &envelope.Companies{Company: *c},
	})
}

// EventProducer publishes event and session lifecycle envelopes.
type EventProducer struct {
	*Producer
}

// NewEventProducer creates an event producer.
func NewEventProducer(p *Producer) *EventProducer {
	return &EventProducer{Producer: p}
}

// ProduceEvent publishes an event envelope for create, update or delete.
func (ep *EventProducer) ProduceEvent(ctx context.Context, operation string, e *envelope.Event) error {
	switch operation {
	case "create", "update", "delete":
	default:
		return fmt.Errorf("%w: event.%s", ErrInvalidOperation, operation)
	}
	return ep.emit(ctx, operation, &envelope.Envelope{Event: e})
}

// ProduceSession publishes a session envelope for create, update or delete.
func (ep *EventProducer) ProduceSession(ctx context.Context, operation string, s *envelope.Session) error {
	switch operation {
	case "create", "update", "delete":
	default:
		return fmt.Errorf("%w: session.%s", ErrInvalidOperation, operation)
	}
	return ep.emit(ctx, operation, &envelope.Envelope{Session: s})
}

// LinkProducer publishes company-membership envelopes directly, for flows
// where the link changes without a user profile save.
type LinkProducer struct {
	*Producer
}

// NewLinkProducer creates a membership producer.
func NewLinkProducer(p *Producer) *LinkProducer {
	return &LinkProducer{Producer: p}
}

// Produce publishes a company_employee envelope for register or unregister.
func (lp *LinkProducer) Produce(ctx context.Context, operation string, e *envelope.CompanyEmployee) error {
	switch operation {
	case "register", "unregister":
	default:
		return fmt.Errorf("%w: company_employee.%s", ErrInvalidOperation, operation)
	}
	return lp.emit(ctx, operation, &envelope.Envelope{CompanyEmployee: e})
}

// RegistrationProducer publishes event and session attendance envelopes.
type RegistrationProducer struct {
	*Producer
}

// NewRegistrationProducer creates an attendance producer.
func NewRegistrationProducer(p *Producer) *RegistrationProducer {
	return &RegistrationProducer{Producer: p}
}

// ProduceEvent publishes an event_attendee envelope.
func (rp *RegistrationProducer) ProduceEvent(ctx context.Context, operation string, a *envelope.EventAttendee) error {
	switch operation {
	case "register", "unregister":
	default:
		return fmt.Errorf("%w: event_attendee.%s", ErrInvalidOperation, operation)
	}
	return rp.emit(ctx, operation, &envelope.Envelope{EventAttendee: a})
}

// ProduceSession publishes a session_attendee envelope.
func (rp *RegistrationProducer) ProduceSession(ctx context.Context, operation string, a *envelope.SessionAttendee) error {
	switch operation {
	case "register", "unregister":
	default:
		return fmt.Errorf("%w: session_attendee.%s", ErrInvalidOperation, operation)
	}
	return rp.emit(ctx, operation, &envelope.Envelope{SessionAttendee: a})
}

// PaymentProducer publishes payment and tab envelopes to their queues.
type PaymentProducer struct {
	*Producer
}

// NewPaymentProducer creates a payment producer.
func NewPaymentProducer(p *Producer) *PaymentProducer {
	return &PaymentProducer{Producer: p}
}

// ProducePayment publishes an event_payment envelope. The payment vocabulary
// keeps its historical suffixed operation names on the wire.
func (pp *PaymentProducer) ProducePayment(ctx context.Context, operation string, p *envelope.EventPayment) error {
	switch operation {
	case "create_event_payment", "update_event_payment", "delete_event_payment":
	default:
		return fmt.Errorf("%w: event_payment.%s", ErrInvalidOperation, operation)
	}
	return pp.emit(ctx, operation, &envelope.Envelope{EventPayment: p})
}

// ProduceTab publishes a tab envelope.
func (pp *PaymentProducer) ProduceTab(ctx context.Context, operation string, t *envelope.Tab) error {
	switch operation {
	case "create", "update", "delete":
	default:
		return fmt.Errorf("%w: tab.%s", ErrInvalidOperation, operation)
	}
	return pp.emit(ctx, operation, &envelope.Envelope{Tab: t})
}
