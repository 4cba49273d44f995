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
	"github.com/attendify/syncbridge/internal/logging"
)

// CreateEventPayment inserts a payment row. A second create for the same
// (user, event) pair is an error: payments are financial records and a
// duplicate create means an upstream fault.
func (s *Store) CreateEventPayment(ctx context.Context, p *envelope.EventPayment) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO event_payments (user_uid, event_uid, entrance_fee, entrance_paid, paid_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_uid, event_uid) DO NOTHING`,
		p.UID, p.EventID,
		envelope.AsFloat(p.EntranceFee),
		envelope.AsBool(p.EntrancePaid),
		p.PaidAt,
	)
	if err != nil {
		return fmt.Errorf("create payment %s/%s: %w", p.UID, p.EventID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("create payment %s/%s: %w", p.UID, p.EventID, err)
	}
	if n == 0 {
		return fmt.Errorf("create payment %s/%s: %w", p.UID, p.EventID, ErrPaymentExists)
	}
	return nil
}

// UpdateEventPayment applies the payment body to an existing row. The paid
// flag is always applied; fee and timestamp only when present.
func (s *Store) UpdateEventPayment(ctx context.Context, p *envelope.EventPayment) error {
	clause, args := setClause([]colVal{
		{col: "entrance_paid", val: envelope.AsBool(p.EntrancePaid), force: true},
		{col: "entrance_fee", val: feeOrSkip(p.EntranceFee)},
		{col: "paid_at", val: p.PaidAt},
	})
	args = append(args, p.UID, p.EventID)
	res, err := s.db.ExecContext(ctx,
		fmt.Sprintf("UPDATE event_payments SET %s WHERE user_uid = $%d AND event_uid = $%d",
			clause, len(args)-1, len(args)), args...)
	if err != nil {
		return fmt.Errorf("update payment %s/%s: %w", p.UID, p.EventID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update payment %s/%s: %w", p.UID, p.EventID, err)
	}
	if n == 0 {
		return fmt.Errorf("update payment %s/%s: %w", p.UID, p.EventID, ErrPaymentNotFound)
	}
	return nil
}

// feeOrSkip keeps the empty-string skip semantics of setClause for a numeric
// wire leaf.
func feeOrSkip(s string) any {
	if s == "" {
		return ""
	}
	return envelope.AsFloat(s)
}

// DeleteEventPayment removes a payment row. A missing row is logged and
// skipped: deletes for the secondary flows cross systems more than once.
func (s *Store) DeleteEventPayment(ctx context.Context, userUID, eventUID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM event_payments WHERE user_uid = $1 AND event_uid = $2`, userUID, eventUID)
	if err != nil {
		return fmt.Errorf("delete payment %s/%s: %w", userUID, eventUID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete payment %s/%s: %w", userUID, eventUID, err)
	}
	if n == 0 {
		logging.Warn().Str("uid", userUID).Str("event_id", eventUID).Msg("payment delete for missing row, skipped")
	}
	return nil
}

// CreateTab appends a tab with its items. Tabs are not idempotent on purpose:
// a user opens many tabs at the same event, so every create is a new row.
func (s *Store) CreateTab(ctx context.Context, t *envelope.Tab) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("create tab %s/%s: %w", t.UID, t.EventID, err)
	}
	defer tx.Rollback()

	var tabID int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO tabs (user_uid, event_uid, created_at, is_paid)
		VALUES ($1, $2, $3, $4) RETURNING id`,
		t.UID, t.EventID, t.Timestamp, envelope.AsBool(t.IsPaid)).Scan(&tabID)
	if err != nil {
		return fmt.Errorf("create tab %s/%s: %w", t.UID, t.EventID, err)
	}
	if err := insertTabItems(ctx, tx, tabID, t.Items.Items); err != nil {
		return fmt.Errorf("create tab %s/%s: %w", t.UID, t.EventID, err)
	}
	return tx.Commit()
}

// UpdateTab targets the most recent tab for the (user, event) pair and
// replaces its item list wholesale.
func (s *Store) UpdateTab(ctx context.Context, t *envelope.Tab) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("update tab %s/%s: %w", t.UID, t.EventID, err)
	}
	defer tx.Rollback()

	tabID, err := latestTabID(ctx, tx, t.UID, t.EventID)
	if err != nil {
		return fmt.Errorf("update tab %s/%s: %w", t.UID, t.EventID, err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE tabs SET is_paid = $1 WHERE id = $2`,
		envelope.AsBool(t.IsPaid), tabID); err != nil {
		return fmt.Errorf("update tab %s/%s: %w", t.UID, t.EventID, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM tab_items WHERE tab_id = $1`, tabID); err != nil {
		return fmt.Errorf("update tab %s/%s: %w", t.UID, t.EventID, err)
	}
	if err := insertTabItems(ctx, tx, tabID, t.Items.Items); err != nil {
		return fmt.Errorf("update tab %s/%s: %w", t.UID, t.EventID, err)
	}
	return tx.Commit()
}

// DeleteTab removes the most recent tab for the (user, event) pair. Items go
// with it via the cascade. A missing tab is logged and skipped.
func (s *Store) DeleteTab(ctx context.Context, userUID, eventUID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("delete tab %s/%s: %w", userUID, eventUID, err)
	}
	defer tx.Rollback()

	tabID, err := latestTabID(ctx, tx, userUID, eventUID)
	if errors.Is(err, ErrTabNotFound) {
		logging.Warn().Str("uid", userUID).Str("event_id", eventUID).Msg("tab delete for missing row, skipped")
		return nil
	}
	if err != nil {
		return fmt.Errorf("delete tab %s/%s: %w", userUID, eventUID, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM tabs WHERE id = $1`, tabID); err != nil {
		return fmt.Errorf("delete tab %s/%s: %w", userUID, eventUID, err)
	}
	return tx.Commit()
}

func latestTabID(ctx context.Context, tx *sql.Tx, userUID, eventUID string) (int64, error) {
	var id int64
	err := tx.QueryRowContext(ctx, `
		SELECT id FROM tabs WHERE user_uid = $1 AND event_uid = $2
		ORDER BY id DESC LIMIT 1`, userUID, eventUID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrTabNotFound
	}
	if err != nil {
		return 0, err
	}
	return id, nil
}

func insertTabItems(ctx context.Context, tx *sql.Tx, tabID int64, items []envelope.TabItem) error {
	for _, item := range items {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO tab_items (tab_id, item_name, quantity, price)
			VALUES ($1, $2, $3, $4)`,
			tabID,
			envelope.Sanitize(item.ItemName),
			envelope.AsInt(item.Quantity),
			envelope.AsFloat(item.Price)); err != nil {
			return err
		}
	}
	return nil
}
