// Attendify SyncBridge - Event-Management Data Synchronization
// Copyright 2026 Attendify
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/attendify/syncbridge

package store

import (
	"context"
	"fmt"

	"github.com/attendify/syncbridge/internal/envelope"
)

// CreateCompany inserts a company row. A duplicate uid is an error: a company
// is announced by exactly one system of record, so a second create signals a
// real fault worth surfacing on the monitoring channel.
func (s *Store) CreateCompany(ctx context.Context, c *envelope.Company) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO companies (uid, company_number, name, vat_number,
			street, number, postcode, city,
			billing_street, billing_number, billing_postcode, billing_city,
			email, phone, owner_uid)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
		ON CONFLICT (uid) DO NOTHING`,
		c.UID,
		envelope.Sanitize(c.CompanyNumber),
		envelope.Sanitize(c.Name),
		envelope.Sanitize(c.VATNumber),
		envelope.Sanitize(c.Address.Street),
		envelope.Sanitize(c.Address.Number),
		envelope.Sanitize(c.Address.Postcode),
		envelope.Sanitize(c.Address.City),
		envelope.Sanitize(c.BillingAddress.Street),
		envelope.Sanitize(c.BillingAddress.Number),
		envelope.Sanitize(c.BillingAddress.Postcode),
		envelope.Sanitize(c.BillingAddress.City),
		envelope.Sanitize(c.Email),
		envelope.Sanitize(c.Phone),
		c.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("create company %s: %w", c.UID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("create company %s: %w", c.UID, err)
	}
	if n == 0 {
		return fmt.Errorf("create company %s: %w", c.UID, ErrCompanyExists)
	}
	return nil
}

// UpdateCompany applies the non-empty fields of the body to an existing row.
func (s *Store) UpdateCompany(ctx context.Context, c *envelope.Company) error {
	clause, args := setClause([]colVal{
		{col: "company_number", val: envelope.Sanitize(c.CompanyNumber)},
		{col: "name", val: envelope.Sanitize(c.Name)},
		{col: "vat_number", val: envelope.Sanitize(c.VATNumber)},
		{col: "street", val: envelope.Sanitize(c.Address.Street)},
		{col: "number", val: envelope.Sanitize(c.Address.Number)},
		{col: "postcode", val: envelope.Sanitize(c.Address.Postcode)},
		{col: "city", val: envelope.Sanitize(c.Address.City)},
		{col: "billing_street", val: envelope.Sanitize(c.BillingAddress.Street)},
		{col: "billing_number", val: envelope.Sanitize(c.BillingAddress.Number)},
		{col: "billing_postcode", val: envelope.Sanitize(c.BillingAddress.Postcode)},
		{col: "billing_city", val: envelope.Sanitize(c.BillingAddress.City)},
		{col: "email", val: envelope.Sanitize(c.Email)},
		{col: "phone", val: envelope.Sanitize(c.Phone)},
		{col: "owner_uid", val: c.OwnerID},
	})
	if clause == "" {
		return nil
	}
	args = append(args, c.UID)
	res, err := s.db.ExecContext(ctx,
		fmt.Sprintf("UPDATE companies SET %s WHERE uid = $%d", clause, len(args)), args...)
	if err != nil {
		return fmt.Errorf("update company %s: %w", c.UID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update company %s: %w", c.UID, err)
	}
	if n == 0 {
		return fmt.Errorf("update company %s: %w", c.UID, ErrCompanyNotFound)
	}
	return nil
}

// DeleteCompany removes a company row and its employee links.
func (s *Store) DeleteCompany(ctx context.Context, uid string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM user_company WHERE company_uid = $1`, uid); err != nil {
		return fmt.Errorf("delete company links %s: %w", uid, err)
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM companies WHERE uid = $1`, uid); err != nil {
		return fmt.Errorf("delete company %s: %w", uid, err)
	}
	return nil
}

// Employee link attributes. Both are set to the company identifier on
// register and cleared on unregister, so the producer's change detection and
// the consumed state read the same value.
const (
	attrCompanyVAT    = "company_vat_number"
	attrOldCompanyVAT = "old_company_vat_number"
)

// LinkEmployee links a user to a company. The user may not have propagated
// here yet, since user and membership messages travel on different exchanges;
// in that case linked is false and nothing is written.
func (s *Store) LinkEmployee(ctx context.Context, userUID, companyID string) (linked bool, err error) {
	exists, err := s.UserExists(ctx, userUID)
	if err != nil || !exists {
		return false, err
	}
	if err := s.SetUserAttr(ctx, userUID, attrCompanyVAT, companyID); err != nil {
		return false, err
	}
	if err := s.SetUserAttr(ctx, userUID, attrOldCompanyVAT, companyID); err != nil {
		return false, err
	}
	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO user_company (user_uid, company_uid) VALUES ($1, $2)
		ON CONFLICT DO NOTHING`, userUID, companyID); err != nil {
		return false, fmt.Errorf("link %s to company %s: %w", userUID, companyID, err)
	}
	return true, nil
}

// UnlinkEmployee removes a user's company link and clears the link
// attributes. An unknown user reports unlinked false.
func (s *Store) UnlinkEmployee(ctx context.Context, userUID, companyID string) (unlinked bool, err error) {
	exists, err := s.UserExists(ctx, userUID)
	if err != nil || !exists {
		return false, err
	}
	if err := s.DeleteUserAttr(ctx, userUID, attrCompanyVAT); err != nil {
		return false, err
	}
	if err := s.DeleteUserAttr(ctx, userUID, attrOldCompanyVAT); err != nil {
		return false, err
	}
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM user_company WHERE user_uid = $1 AND company_uid = $2`, userUID, companyID); err != nil {
		return false, fmt.Errorf("unlink %s from company %s: %w", userUID, companyID, err)
	}
	return true, nil
}
