// Attendify SyncBridge - Event-Management Data Synchronization
// Copyright 2026 Attendify
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/attendify/syncbridge

package producer

import (
	"context"
	"fmt"

	"github.com/attendify/syncbridge/internal/envelope"
	"github.com/attendify/syncbridge/internal/logging"
)

// oldCompanyVATAttr remembers the company VAT a user was last announced
// with, so the next save can detect a membership change.
const oldCompanyVATAttr = "old_company_vat_number"

// AttrStore is the slice of the store the user producer needs to track
// company membership between saves.
type AttrStore interface {
	GetUserAttr(ctx context.Context, uid, name string) (string, error)
	SetUserAttr(ctx context.Context, uid, name, value string) error
	DeleteUserAttr(ctx context.Context, uid, name string) error
}

// UserProducer publishes user lifecycle envelopes and the company-membership
// envelopes a profile change implies.
type UserProducer struct {
	*Producer
	attrs AttrStore
}

// NewUserProducer creates a user producer.
func NewUserProducer(p *Producer, attrs AttrStore) *UserProducer {
	return &UserProducer{Producer: p, attrs: attrs}
}

// Produce publishes a user envelope. The company VAT on the profile is
// compared with the last announced one on every operation, delete included,
// and membership messages are published before the user message so consumers
// see the link change first.
func (up *UserProducer) Produce(ctx context.Context, operation string, u *envelope.User) error {
	switch operation {
	case "create", "update", "delete":
		if err := up.syncCompanyLink(ctx, u); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: user.%s", ErrInvalidOperation, operation)
	}
	return up.emit(ctx, operation, &envelope.Envelope{User: u})
}

func (up *UserProducer) syncCompanyLink(ctx context.Context, u *envelope.User) error {
	oldVAT, err := up.attrs.GetUserAttr(ctx, u.UID, oldCompanyVATAttr)
	if err != nil {
		return err
	}
	newVAT := u.Company.VATNumber
	if oldVAT == newVAT {
		return nil
	}

	logging.Info().
		Str("uid", u.UID).
		Str("old_vat", oldVAT).
		Str("new_vat", newVAT).
		Msg("user company membership changed")

	if oldVAT != "" {
		err := up.emit(ctx, "unregister", &envelope.Envelope{
			CompanyEmployee: &envelope.CompanyEmployee{UID: u.UID, CompanyID: oldVAT},
		})
		if err != nil {
			return err
		}
	}
	if newVAT != "" {
		err := up.emit(ctx, "register", &envelope.Envelope{
			CompanyEmployee: &envelope.CompanyEmployee{UID: u.UID, CompanyID: newVAT},
		})
		if err != nil {
			return err
		}
		return up.attrs.SetUserAttr(ctx, u.UID, oldCompanyVATAttr, newVAT)
	}
	return up.attrs.DeleteUserAttr(ctx, u.UID, oldCompanyVATAttr)
}
