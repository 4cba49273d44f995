// Attendify SyncBridge - Event-Management Data Synchronization
// Copyright 2026 Attendify
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/attendify/syncbridge

package store

// schema is applied in order on startup. Every statement is idempotent so
// concurrent consumers can race the migration safely.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id               SERIAL PRIMARY KEY,
		uid              TEXT NOT NULL UNIQUE,
		first_name       TEXT NOT NULL DEFAULT '',
		last_name        TEXT NOT NULL DEFAULT '',
		date_of_birth    TEXT NOT NULL DEFAULT '',
		phone_number     TEXT NOT NULL DEFAULT '',
		title            TEXT NOT NULL DEFAULT '',
		email            TEXT NOT NULL DEFAULT '',
		password         TEXT NOT NULL DEFAULT '',
		street           TEXT NOT NULL DEFAULT '',
		number           TEXT NOT NULL DEFAULT '',
		bus_number       TEXT NOT NULL DEFAULT '',
		city             TEXT NOT NULL DEFAULT '',
		province         TEXT NOT NULL DEFAULT '',
		country          TEXT NOT NULL DEFAULT '',
		postal_code      TEXT NOT NULL DEFAULT '',
		company_vat      TEXT NOT NULL DEFAULT '',
		from_company     BOOLEAN NOT NULL DEFAULT FALSE,
		is_admin         BOOLEAN NOT NULL DEFAULT FALSE,
		email_registered BOOLEAN NOT NULL DEFAULT FALSE
	)`,

	`CREATE TABLE IF NOT EXISTS user_attrs (
		uid   TEXT NOT NULL,
		name  TEXT NOT NULL,
		value TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (uid, name)
	)`,

	`CREATE TABLE IF NOT EXISTS companies (
		id              SERIAL PRIMARY KEY,
		uid             TEXT NOT NULL UNIQUE,
		company_number  TEXT NOT NULL DEFAULT '',
		name            TEXT NOT NULL DEFAULT '',
		vat_number      TEXT NOT NULL DEFAULT '',
		street          TEXT NOT NULL DEFAULT '',
		number          TEXT NOT NULL DEFAULT '',
		postcode        TEXT NOT NULL DEFAULT '',
		city            TEXT NOT NULL DEFAULT '',
		billing_street  TEXT NOT NULL DEFAULT '',
		billing_number  TEXT NOT NULL DEFAULT '',
		billing_postcode TEXT NOT NULL DEFAULT '',
		billing_city    TEXT NOT NULL DEFAULT '',
		email           TEXT NOT NULL DEFAULT '',
		phone           TEXT NOT NULL DEFAULT '',
		owner_uid       TEXT NOT NULL DEFAULT ''
	)`,

	`CREATE TABLE IF NOT EXISTS user_company (
		user_uid    TEXT NOT NULL,
		company_uid TEXT NOT NULL,
		PRIMARY KEY (user_uid, company_uid)
	)`,

	`CREATE TABLE IF NOT EXISTS events (
		id             SERIAL PRIMARY KEY,
		uid            TEXT NOT NULL UNIQUE,
		title          TEXT NOT NULL DEFAULT '',
		description    TEXT NOT NULL DEFAULT '',
		location       TEXT NOT NULL DEFAULT '',
		start_date     TEXT NOT NULL DEFAULT '',
		end_date       TEXT NOT NULL DEFAULT '',
		start_time     TEXT NOT NULL DEFAULT '',
		end_time       TEXT NOT NULL DEFAULT '',
		organizer_name TEXT NOT NULL DEFAULT '',
		organizer_uid  TEXT NOT NULL DEFAULT '',
		entrance_fee   NUMERIC(10,2) NOT NULL DEFAULT 0
	)`,

	`CREATE TABLE IF NOT EXISTS sessions (
		id            SERIAL PRIMARY KEY,
		uid           TEXT NOT NULL UNIQUE,
		event_uid     TEXT NOT NULL DEFAULT '',
		title         TEXT NOT NULL DEFAULT '',
		description   TEXT NOT NULL DEFAULT '',
		date          TEXT NOT NULL DEFAULT '',
		start_time    TEXT NOT NULL DEFAULT '',
		end_time      TEXT NOT NULL DEFAULT '',
		location      TEXT NOT NULL DEFAULT '',
		max_attendees INTEGER NOT NULL DEFAULT 0,
		speaker_name  TEXT NOT NULL DEFAULT '',
		speaker_bio   TEXT NOT NULL DEFAULT ''
	)`,

	`CREATE TABLE IF NOT EXISTS user_event (
		user_uid  TEXT NOT NULL,
		event_uid TEXT NOT NULL,
		PRIMARY KEY (user_uid, event_uid)
	)`,

	`CREATE TABLE IF NOT EXISTS user_session (
		user_uid    TEXT NOT NULL,
		session_uid TEXT NOT NULL,
		PRIMARY KEY (user_uid, session_uid)
	)`,

	`CREATE TABLE IF NOT EXISTS event_payments (
		id            SERIAL PRIMARY KEY,
		user_uid      TEXT NOT NULL,
		event_uid     TEXT NOT NULL,
		entrance_fee  NUMERIC(10,2) NOT NULL DEFAULT 0,
		entrance_paid BOOLEAN NOT NULL DEFAULT FALSE,
		paid_at       TEXT NOT NULL DEFAULT '',
		UNIQUE (user_uid, event_uid)
	)`,

	`CREATE TABLE IF NOT EXISTS tabs (
		id         SERIAL PRIMARY KEY,
		user_uid   TEXT NOT NULL,
		event_uid  TEXT NOT NULL,
		created_at TEXT NOT NULL DEFAULT '',
		is_paid    BOOLEAN NOT NULL DEFAULT FALSE
	)`,

	`CREATE TABLE IF NOT EXISTS tab_items (
		id        SERIAL PRIMARY KEY,
		tab_id    INTEGER NOT NULL REFERENCES tabs(id) ON DELETE CASCADE,
		item_name TEXT NOT NULL DEFAULT '',
		quantity  INTEGER NOT NULL DEFAULT 0,
		price     NUMERIC(10,2) NOT NULL DEFAULT 0
	)`,

	`CREATE INDEX IF NOT EXISTS idx_tabs_user_event ON tabs (user_uid, event_uid)`,
}
