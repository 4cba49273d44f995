// Attendify SyncBridge - Event-Management Data Synchronization
// Copyright 2026 Attendify
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/attendify/syncbridge

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/attendify/syncbridge/internal/envelope"
)

// CreateUser inserts a user row. A uid that already exists is not an error:
// the row is left untouched and created reports false, because external
// systems re-announce users they did not originate.
func (s *Store) CreateUser(ctx context.Context, u *envelope.User) (created bool, err error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO users (uid, first_name, last_name, date_of_birth, phone_number,
			title, email, password, street, number, bus_number, city, province,
			country, postal_code, company_vat, from_company, is_admin, email_registered)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)
		ON CONFLICT (uid) DO NOTHING`,
		u.UID,
		envelope.Sanitize(u.FirstName),
		envelope.Sanitize(u.LastName),
		u.DateOfBirth,
		envelope.Sanitize(u.PhoneNumber),
		envelope.Sanitize(u.Title),
		envelope.Sanitize(u.Email),
		u.Password,
		envelope.Sanitize(u.Address.Street),
		envelope.Sanitize(u.Address.Number),
		envelope.Sanitize(u.Address.BusNumber),
		envelope.Sanitize(u.Address.City),
		envelope.Sanitize(u.Address.Province),
		envelope.Sanitize(u.Address.Country),
		envelope.Sanitize(u.Address.PostalCode),
		envelope.Sanitize(u.Company.VATNumber),
		envelope.AsBool(u.FromCompany),
		envelope.AsBool(u.IsAdmin),
		envelope.AsBool(u.EmailRegistered),
	)
	if err != nil {
		return false, fmt.Errorf("create user %s: %w", u.UID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("create user %s: %w", u.UID, err)
	}
	return n > 0, nil
}

// UpdateUser applies the non-empty fields of the body to an existing row.
func (s *Store) UpdateUser(ctx context.Context, u *envelope.User) error {
	clause, args := setClause([]colVal{
		{col: "first_name", val: envelope.Sanitize(u.FirstName)},
		{col: "last_name", val: envelope.Sanitize(u.LastName)},
		{col: "date_of_birth", val: u.DateOfBirth},
		{col: "phone_number", val: envelope.Sanitize(u.PhoneNumber)},
		{col: "title", val: envelope.Sanitize(u.Title)},
		{col: "email", val: envelope.Sanitize(u.Email)},
		{col: "password", val: u.Password},
		{col: "street", val: envelope.Sanitize(u.Address.Street)},
		{col: "number", val: envelope.Sanitize(u.Address.Number)},
		{col: "bus_number", val: envelope.Sanitize(u.Address.BusNumber)},
		{col: "city", val: envelope.Sanitize(u.Address.City)},
		{col: "province", val: envelope.Sanitize(u.Address.Province)},
		{col: "country", val: envelope.Sanitize(u.Address.Country)},
		{col: "postal_code", val: envelope.Sanitize(u.Address.PostalCode)},
		{col: "company_vat", val: envelope.Sanitize(u.Company.VATNumber)},
	})
	if clause == "" {
		return nil
	}
	args = append(args, u.UID)
	res, err := s.db.ExecContext(ctx,
		fmt.Sprintf("UPDATE users SET %s WHERE uid = $%d", clause, len(args)), args...)
	if err != nil {
		return fmt.Errorf("update user %s: %w", u.UID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update user %s: %w", u.UID, err)
	}
	if n == 0 {
		return fmt.Errorf("update user %s: %w", u.UID, ErrUserNotFound)
	}
	return nil
}

// DeleteUser removes a user row and all its attributes. Deleting an unknown
// uid is a no-op; deletes cross systems more than once.
func (s *Store) DeleteUser(ctx context.Context, uid string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM user_attrs WHERE uid = $1`, uid); err != nil {
		return fmt.Errorf("delete user attrs %s: %w", uid, err)
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE uid = $1`, uid); err != nil {
		return fmt.Errorf("delete user %s: %w", uid, err)
	}
	return nil
}

// UserExists reports whether a uid has a row.
func (s *Store) UserExists(ctx context.Context, uid string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM users WHERE uid = $1`, uid).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("user exists %s: %w", uid, err)
	}
	return true, nil
}

// GetUserAttr returns a named attribute for a user, or "" when unset.
func (s *Store) GetUserAttr(ctx context.Context, uid, name string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM user_attrs WHERE uid = $1 AND name = $2`, uid, name).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get attr %s.%s: %w", uid, name, err)
	}
	return value, nil
}

// SetUserAttr upserts a named attribute for a user.
func (s *Store) SetUserAttr(ctx context.Context, uid, name, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_attrs (uid, name, value) VALUES ($1, $2, $3)
		ON CONFLICT (uid, name) DO UPDATE SET value = EXCLUDED.value`,
		uid, name, value)
	if err != nil {
		return fmt.Errorf("set attr %s.%s: %w", uid, name, err)
	}
	return nil
}

// DeleteUserAttr removes a named attribute for a user.
func (s *Store) DeleteUserAttr(ctx context.Context, uid, name string) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM user_attrs WHERE uid = $1 AND name = $2`, uid, name); err != nil {
		return fmt.Errorf("delete attr %s.%s: %w", uid, name, err)
	}
	return nil
}
