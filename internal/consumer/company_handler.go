// Attendify SyncBridge - Event-Management Data Synchronization
// Copyright 2026 Attendify
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/attendify/syncbridge

package consumer

import (
	"context"
	"fmt"

	"github.com/attendify/syncbridge/internal/envelope"
	"github.com/attendify/syncbridge/internal/logging"
	"github.com/attendify/syncbridge/internal/routing"
)

// CompanyStore is the store surface the company handler needs.
type CompanyStore interface {
	CreateCompany(ctx context.Context, c *envelope.Company) error
	UpdateCompany(ctx context.Context, c *envelope.Company) error
	DeleteCompany(ctx context.Context, uid string) error
	LinkEmployee(ctx context.Context, userUID, companyID string) (bool, error)
	UnlinkEmployee(ctx context.Context, userUID, companyID string) (bool, error)
}

// CompanyHandler applies company and membership envelopes from
// frontend.company.
type CompanyHandler struct {
	store CompanyStore
}

// NewCompanyHandler creates the company queue handler.
func NewCompanyHandler(store CompanyStore) *CompanyHandler {
	return &CompanyHandler{store: store}
}

// Queue implements Handler.
func (h *CompanyHandler) Queue() string {
	return routing.QueueCompany
}

// Handle implements Handler.
func (h *CompanyHandler) Handle(ctx context.Context, env *envelope.Envelope) error {
	op := env.Info.Operation

	if e := env.CompanyEmployee; e != nil {
		switch op {
		case "register", "unregister":
			return h.link(ctx, op, e)
		default:
			return fmt.Errorf("%w: company_employee.%s", ErrUnknownOperation, op)
		}
	}

	if env.Companies == nil {
		return fmt.Errorf("%w: %s on company queue", ErrUnknownOperation, env.Kind())
	}
	c := &env.Companies.Company
	switch op {
	case "create":
		return h.store.CreateCompany(ctx, c)
	case "update":
		return h.store.UpdateCompany(ctx, c)
	case "delete":
		return h.store.DeleteCompany(ctx, c.UID)
	default:
		return fmt.Errorf("%w: company.%s", ErrUnknownOperation, op)
	}
}

// link applies a membership change. User and membership messages travel on
// different exchanges with no cross-queue ordering, so an unresolvable user
// is a logged no-op rather than an error.
func (h *CompanyHandler) link(ctx context.Context, op string, e *envelope.CompanyEmployee) error {
	var applied bool
	var err error
	if op == "register" {
		applied, err = h.store.LinkEmployee(ctx, e.UID, e.CompanyID)
	} else {
		applied, err = h.store.UnlinkEmployee(ctx, e.UID, e.CompanyID)
	}
	if err != nil {
		return err
	}
	if !applied {
		logging.Warn().
			Str("uid", e.UID).
			Str("company_id", e.CompanyID).
			Str("operation", op).
			Msg("membership change for unknown user, skipped")
	}
	return nil
}
