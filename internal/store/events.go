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

// UpsertEvent inserts or fully replaces an event row. Events have a single
// system of record upstream, so create and update collapse into one upsert
// and replays converge on the latest body.
func (s *Store) UpsertEvent(ctx context.Context, e *envelope.Event) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO events (uid, title, description, location, start_date, end_date,
			start_time, end_time, organizer_name, organizer_uid, entrance_fee)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		ON CONFLICT (uid) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			location = EXCLUDED.location,
			start_date = EXCLUDED.start_date,
			end_date = EXCLUDED.end_date,
			start_time = EXCLUDED.start_time,
			end_time = EXCLUDED.end_time,
			organizer_name = EXCLUDED.organizer_name,
			organizer_uid = EXCLUDED.organizer_uid,
			entrance_fee = EXCLUDED.entrance_fee`,
		e.UID,
		envelope.Sanitize(e.Title),
		envelope.Sanitize(e.Description),
		envelope.Sanitize(e.Location),
		e.StartDate,
		e.EndDate,
		e.StartTime,
		e.EndTime,
		envelope.Sanitize(e.OrganizerName),
		e.OrganizerUID,
		envelope.AsFloat(e.EntranceFee),
	)
	if err != nil {
		return fmt.Errorf("upsert event %s: %w", e.UID, err)
	}
	return nil
}

// DeleteEvent removes an event, its sessions and all attendee registrations.
func (s *Store) DeleteEvent(ctx context.Context, uid string) error {
	if _, err := s.db.ExecContext(ctx, `
		DELETE FROM user_session WHERE session_uid IN
			(SELECT uid FROM sessions WHERE event_uid = $1)`, uid); err != nil {
		return fmt.Errorf("delete event session registrations %s: %w", uid, err)
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE event_uid = $1`, uid); err != nil {
		return fmt.Errorf("delete event sessions %s: %w", uid, err)
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM user_event WHERE event_uid = $1`, uid); err != nil {
		return fmt.Errorf("delete event registrations %s: %w", uid, err)
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM events WHERE uid = $1`, uid); err != nil {
		return fmt.Errorf("delete event %s: %w", uid, err)
	}
	return nil
}

// UpsertSession inserts or fully replaces a session row.
func (s *Store) UpsertSession(ctx context.Context, sess *envelope.Session) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (uid, event_uid, title, description, date,
			start_time, end_time, location, max_attendees, speaker_name, speaker_bio)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		ON CONFLICT (uid) DO UPDATE SET
			event_uid = EXCLUDED.event_uid,
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			date = EXCLUDED.date,
			start_time = EXCLUDED.start_time,
			end_time = EXCLUDED.end_time,
			location = EXCLUDED.location,
			max_attendees = EXCLUDED.max_attendees,
			speaker_name = EXCLUDED.speaker_name,
			speaker_bio = EXCLUDED.speaker_bio`,
		sess.UID,
		sess.EventID,
		envelope.Sanitize(sess.Title),
		envelope.Sanitize(sess.Description),
		sess.Date,
		sess.StartTime,
		sess.EndTime,
		envelope.Sanitize(sess.Location),
		envelope.AsInt(sess.MaxAttendees),
		envelope.Sanitize(sess.Speaker.Name),
		envelope.Sanitize(sess.Speaker.Bio),
	)
	if err != nil {
		return fmt.Errorf("upsert session %s: %w", sess.UID, err)
	}
	return nil
}

// DeleteSession removes a session and its attendee registrations.
func (s *Store) DeleteSession(ctx context.Context, uid string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM user_session WHERE session_uid = $1`, uid); err != nil {
		return fmt.Errorf("delete session registrations %s: %w", uid, err)
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE uid = $1`, uid); err != nil {
		return fmt.Errorf("delete session %s: %w", uid, err)
	}
	return nil
}

// RegisterEventAttendee records a user's registration for an event.
func (s *Store) RegisterEventAttendee(ctx context.Context, userUID, eventUID string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_event (user_uid, event_uid) VALUES ($1, $2)
		ON CONFLICT DO NOTHING`, userUID, eventUID)
	if err != nil {
		return fmt.Errorf("register %s for event %s: %w", userUID, eventUID, err)
	}
	return nil
}

// UnregisterEventAttendee removes a user's registration for an event.
func (s *Store) UnregisterEventAttendee(ctx context.Context, userUID, eventUID string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM user_event WHERE user_uid = $1 AND event_uid = $2`, userUID, eventUID)
	if err != nil {
		return fmt.Errorf("unregister %s from event %s: %w", userUID, eventUID, err)
	}
	return nil
}

// RegisterSessionAttendee records a user's registration for a session.
func (s *Store) RegisterSessionAttendee(ctx context.Context, userUID, sessionUID string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_session (user_uid, session_uid) VALUES ($1, $2)
		ON CONFLICT DO NOTHING`, userUID, sessionUID)
	if err != nil {
		return fmt.Errorf("register %s for session %s: %w", userUID, sessionUID, err)
	}
	return nil
}

// UnregisterSessionAttendee removes a user's registration for a session.
func (s *Store) UnregisterSessionAttendee(ctx context.Context, userUID, sessionUID string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM user_session WHERE user_uid = $1 AND session_uid = $2`, userUID, sessionUID)
	if err != nil {
		return fmt.Errorf("unregister %s from session %s: %w", userUID, sessionUID, err)
	}
	return nil
}
