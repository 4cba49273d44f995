// Attendify SyncBridge - Event-Management Data Synchronization
// Copyright 2026 Attendify
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/attendify/syncbridge

// Package routing maps (domain, operation) pairs onto the broker topology the
// Attendify systems agreed on: four direct exchanges with per-consumer queue
// bindings, plus two queues that payments and tabs are published to directly.
package routing

import (
	"errors"
	"fmt"

	"github.com/attendify/syncbridge/internal/envelope"
)

// ErrUnknownRoute is returned when no route exists for a (domain, operation)
// pair. Producers treat it as a caller error; nothing is published.
var ErrUnknownRoute = errors.New("unknown route")

// Exchange names.
const (
	ExchangeUserManagement = "user-management"
	ExchangeCompany        = "company"
	ExchangeEvent          = "event"
	ExchangeSession        = "session"
)

// Queue names consumed by this system.
const (
	QueueUser    = "frontend.user"
	QueueCompany = "frontend.company"
	QueueEvent   = "frontend.event"
	QueueSession = "frontend.session"
	QueueInvoice = "frontend.invoice"
	QueueSale    = "frontend.sale"
)

// MonitoringKey is bound on every exchange and feeds the monitoring consumer.
const MonitoringKey = "monitoring.log"

// MailQueue receives activation-mail documents for the mailing service.
const MailQueue = "user.passwordGenerated"

// Route is a publish target. An empty Exchange means publish to the default
// exchange with Key as the queue name.
type Route struct {
	Exchange string
	Key      string
}

var routes = map[envelope.Domain]map[string]Route{
	envelope.DomainUser: {
		"create": {ExchangeUserManagement, "user.register"},
		"update": {ExchangeUserManagement, "user.update"},
		"delete": {ExchangeUserManagement, "user.delete"},
	},
	envelope.DomainCompany: {
		"create": {ExchangeCompany, "company.create"},
		"update": {ExchangeCompany, "company.update"},
		"delete": {ExchangeCompany, "company.delete"},
	},
	envelope.DomainCompanyEmployee: {
		"register":   {ExchangeCompany, "company.register"},
		"unregister": {ExchangeCompany, "company.unregister"},
	},
	envelope.DomainEvent: {
		"create": {ExchangeEvent, "event.create"},
		"update": {ExchangeEvent, "event.update"},
		"delete": {ExchangeEvent, "event.delete"},
	},
	envelope.DomainSession: {
		"create": {ExchangeSession, "session.create"},
		"update": {ExchangeSession, "session.update"},
		"delete": {ExchangeSession, "session.delete"},
	},
	envelope.DomainEventAttendee: {
		"register":   {ExchangeEvent, "event.register"},
		"unregister": {ExchangeEvent, "event.unregister"},
	},
	envelope.DomainSessionAttendee: {
		"register":   {ExchangeSession, "session.register"},
		"unregister": {ExchangeSession, "session.unregister"},
	},
	// Payments and tabs bypass the exchanges and go straight to the
	// consuming queues.
	envelope.DomainEventPayment: {
		"create_event_payment": {"", QueueInvoice},
		"update_event_payment": {"", QueueInvoice},
		"delete_event_payment": {"", QueueInvoice},
	},
	envelope.DomainTab: {
		"create": {"", QueueSale},
		"update": {"", QueueSale},
		"delete": {"", QueueSale},
	},
}

// Resolve returns the publish target for a domain and operation.
func Resolve(domain envelope.Domain, operation string) (Route, error) {
	ops, ok := routes[domain]
	if !ok {
		return Route{}, fmt.Errorf("%w: domain %q", ErrUnknownRoute, domain)
	}
	r, ok := ops[operation]
	if !ok {
		return Route{}, fmt.Errorf("%w: %s.%s", ErrUnknownRoute, domain, operation)
	}
	return r, nil
}

// Binding ties a queue to an exchange under a routing key.
type Binding struct {
	Queue    string
	Exchange string
	Key      string
}

// Exchanges lists every direct exchange the topology declares.
func Exchanges() []string {
	return []string{ExchangeUserManagement, ExchangeCompany, ExchangeEvent, ExchangeSession}
}

// Queues lists every queue the topology declares, consuming and direct-publish
// targets alike.
func Queues() []string {
	return []string{QueueUser, QueueCompany, QueueEvent, QueueSession, QueueInvoice, QueueSale, MailQueue}
}

// Bindings returns the full queue binding set for this system's consumers.
// Every route that targets an exchange is bound into the queue owning that
// domain, and monitoring.log is deliberately absent: the monitoring consumer
// is a separate deployment with its own bindings.
func Bindings() []Binding {
	return []Binding{
		{QueueUser, ExchangeUserManagement, "user.register"},
		{QueueUser, ExchangeUserManagement, "user.update"},
		{QueueUser, ExchangeUserManagement, "user.delete"},

		{QueueCompany, ExchangeCompany, "company.create"},
		{QueueCompany, ExchangeCompany, "company.update"},
		{QueueCompany, ExchangeCompany, "company.delete"},
		{QueueCompany, ExchangeCompany, "company.register"},
		{QueueCompany, ExchangeCompany, "company.unregister"},

		{QueueEvent, ExchangeEvent, "event.create"},
		{QueueEvent, ExchangeEvent, "event.update"},
		{QueueEvent, ExchangeEvent, "event.delete"},
		{QueueEvent, ExchangeEvent, "event.register"},
		{QueueEvent, ExchangeEvent, "event.unregister"},

		{QueueSession, ExchangeSession, "session.create"},
		{QueueSession, ExchangeSession, "session.update"},
		{QueueSession, ExchangeSession, "session.delete"},
		{QueueSession, ExchangeSession, "session.register"},
		{QueueSession, ExchangeSession, "session.unregister"},
	}
}
