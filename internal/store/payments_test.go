// Attendify SyncBridge - Event-Management Data Synchronization
// Copyright 2026 Attendify
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/attendify/syncbridge

package store

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/attendify/syncbridge/internal/envelope"
)

func TestUpdateTabReplacesItemsWholesale(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	st := NewWithDB(db)

	// The existing tab holds a Cola item; the update carries only a Fanta.
	// The old item list must be dropped and the new one written, all on the
	// most recent tab for the pair.
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id FROM tabs`).
		WithArgs("u-1", "e-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))
	mock.ExpectExec(`UPDATE tabs SET is_paid`).
		WithArgs(true, int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM tab_items`).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO tab_items`).
		WithArgs(int64(7), "Fanta", int64(2), 3.0).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	tab := &envelope.Tab{
		UID:     "u-1",
		EventID: "e-1",
		IsPaid:  "true",
		Items: envelope.TabItems{Items: []envelope.TabItem{
			{ItemName: "Fanta", Quantity: "2", Price: "3.00"},
		}},
	}
	if err := st.UpdateTab(context.Background(), tab); err != nil {
		t.Fatalf("UpdateTab failed: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestUpdateTabMissingRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	st := NewWithDB(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id FROM tabs`).
		WithArgs("u-1", "e-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	tab := &envelope.Tab{UID: "u-1", EventID: "e-1"}
	if err := st.UpdateTab(context.Background(), tab); !errors.Is(err, ErrTabNotFound) {
		t.Fatalf("got %v, want ErrTabNotFound", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestDeleteTabMissingRowSkipped(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	st := NewWithDB(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id FROM tabs`).
		WithArgs("u-1", "e-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	if err := st.DeleteTab(context.Background(), "u-1", "e-1"); err != nil {
		t.Fatalf("delete for a missing tab must be a no-op: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
