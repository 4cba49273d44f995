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

// EventStore is the store surface the event handler needs.
type EventStore interface {
	UpsertEvent(ctx context.Context, e *envelope.Event) error
	DeleteEvent(ctx context.Context, uid string) error
	RegisterEventAttendee(ctx context.Context, userUID, eventUID string) error
	UnregisterEventAttendee(ctx context.Context, userUID, eventUID string) error
}

// EventHandler applies event and attendance envelopes from frontend.event.
type EventHandler struct {
	store EventStore
}

// NewEventHandler creates the event queue handler.
func NewEventHandler(store EventStore) *EventHandler {
	return &EventHandler{store: store}
}

// Queue implements Handler.
func (h *EventHandler) Queue() string {
	return routing.QueueEvent
}

// Handle implements Handler.
func (h *EventHandler) Handle(ctx context.Context, env *envelope.Envelope) error {
	op := env.Info.Operation

	if a := env.EventAttendee; a != nil {
		switch op {
		case "register":
			return h.store.RegisterEventAttendee(ctx, a.UID, a.EventID)
		case "unregister":
			return h.store.UnregisterEventAttendee(ctx, a.UID, a.EventID)
		default:
			return fmt.Errorf("%w: event_attendee.%s", ErrUnknownOperation, op)
		}
	}

	if env.Event == nil {
		return fmt.Errorf("%w: %s on event queue", ErrUnknownOperation, env.Kind())
	}
	switch op {
	case "create", "update":
		// Events converge on the latest announced body whatever the
		// operation says, so replays and reordered create/update pairs
		// both end in the same row.
		return h.store.UpsertEvent(ctx, env.Event)
	case "delete":
		return h.store.DeleteEvent(ctx, env.Event.UID)
	default:
		return fmt.Errorf("%w: event.%s", ErrUnknownOperation, op)
	}
}

// SessionStore is the store surface the session handler needs.
type SessionStore interface {
	UpsertSession(ctx context.Context, s *envelope.Session) error
	DeleteSession(ctx context.Context, uid string) error
	RegisterSessionAttendee(ctx context.Context, userUID, sessionUID string) error
	UnregisterSessionAttendee(ctx context.Context, userUID, sessionUID string) error
}

// SessionHandler applies session and attendance envelopes from
// frontend.session.
type SessionHandler struct {
	store SessionStore
}

// NewSessionHandler creates the session queue handler.
func NewSessionHandler(store SessionStore) *SessionHandler {
	return &SessionHandler{store: store}
}

// Queue implements Handler.
func (h *SessionHandler) Queue() string {
	return routing.QueueSession
}

// Handle implements Handler.
func (h *SessionHandler) Handle(ctx context.Context, env *envelope.Envelope) error {
	op := env.Info.Operation

	if a := env.SessionAttendee; a != nil {
		switch op {
		case "register":
			return h.store.RegisterSessionAttendee(ctx, a.UID, a.SessionID)
		case "unregister":
			return h.store.UnregisterSessionAttendee(ctx, a.UID, a.SessionID)
		default:
			return fmt.Errorf("%w: session_attendee.%s", ErrUnknownOperation, op)
		}
	}

	if env.Session == nil {
		return fmt.Errorf("%w: %s on session queue", ErrUnknownOperation, env.Kind())
	}
	switch op {
	case "create", "update":
		return h.store.UpsertSession(ctx, env.Session)
	case "delete":
		return h.store.DeleteSession(ctx, env.Session.UID)
	default:
		return fmt.Errorf("%w: session.%s", ErrUnknownOperation, op)
	}
}
