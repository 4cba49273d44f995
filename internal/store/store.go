// Attendify SyncBridge - Event-Management Data Synchronization
// Copyright 2026 Attendify
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/attendify/syncbridge

// Package store persists the synchronized entities in PostgreSQL.
//
// Consumers feed wire bodies straight in; the store owns the mapping onto
// relational rows and the per-entity duplicate policies. All mutations are
// idempotent at the message level except tab creation, which is an append by
// contract.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/cenkalti/backoff/v4"
	_ "github.com/lib/pq"

	"github.com/attendify/syncbridge/internal/config"
	"github.com/attendify/syncbridge/internal/logging"
)

// Sentinel errors for per-entity duplicate and missing-row policies.
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrCompanyExists   = errors.New("company already exists")
	ErrCompanyNotFound = errors.New("company not found")
	ErrPaymentExists   = errors.New("payment already exists")
	ErrPaymentNotFound = errors.New("payment not found")
	ErrTabNotFound     = errors.New("tab not found")
)

// Store wraps the SQL connection pool.
type Store struct {
	db *sql.DB
}

// Open connects to PostgreSQL with a bounded constant-delay retry and applies
// the schema. The database container is often still initializing when the
// consumers start, so refusals during the attempt window are expected.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*Store, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(
		backoff.NewConstantBackOff(cfg.ConnectDelay),
		uint64(cfg.ConnectAttempts-1),
	), ctx)

	attempt := 0
	err = backoff.Retry(func() error {
		attempt++
		pingErr := db.PingContext(ctx)
		if pingErr != nil {
			logging.Warn().
				Int("attempt", attempt).
				Int("max_attempts", cfg.ConnectAttempts).
				Err(pingErr).
				Msg("database ping failed, retrying")
		}
		return pingErr
	}, policy)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database after %d attempts: %w", attempt, err)
	}

	s := &Store{db: db}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}

	logging.Info().Str("host", cfg.Host).Str("name", cfg.Name).Msg("database connected")
	return s, nil
}

// NewWithDB wraps an existing connection pool. Used by tests.
func NewWithDB(db *sql.DB) *Store {
	return &Store{db: db}
}

// Close closes the pool.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate(ctx context.Context) error {
	for i, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema statement %d: %w", i, err)
		}
	}
	return nil
}

// setClause builds a SET clause for the given column/value pairs, skipping
// empty values so partial updates never blank a field the sender omitted.
func setClause(pairs []colVal) (string, []any) {
	var cols []string
	var args []any
	for _, p := range pairs {
		if p.skip() {
			continue
		}
		args = append(args, p.val)
		cols = append(cols, fmt.Sprintf("%s = $%d", p.col, len(args)))
	}
	return strings.Join(cols, ", "), args
}

type colVal struct {
	col string
	val any

	// force includes the column even when the value is empty. Used for
	// booleans and server-derived values.
	force bool
}

func (p colVal) skip() bool {
	if p.force {
		return false
	}
	s, ok := p.val.(string)
	return ok && s == ""
}
