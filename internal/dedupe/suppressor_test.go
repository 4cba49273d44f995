// Attendify SyncBridge - Event-Management Data Synchronization
// Copyright 2026 Attendify
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/attendify/syncbridge

package dedupe

import (
	"testing"
	"time"
)

func TestFingerprintStability(t *testing.T) {
	a := Fingerprint([]byte("<attendify><info/></attendify>"))
	b := Fingerprint([]byte("<attendify><info/></attendify>"))
	c := Fingerprint([]byte("<attendify><info></info></attendify>"))
	if a != b {
		t.Error("identical payloads must fingerprint identically")
	}
	if a == c {
		t.Error("differing payloads must fingerprint differently")
	}
	if len(a) != 64 {
		t.Errorf("fingerprint length = %d, want 64 hex chars", len(a))
	}
}

func testSuppressor(t *testing.T, s Suppressor) {
	t.Helper()
	fp := Fingerprint([]byte("payload-1"))

	ok, err := s.ShouldPublish(fp)
	if err != nil || !ok {
		t.Fatalf("first sighting: ok=%v err=%v, want true nil", ok, err)
	}
	ok, err = s.ShouldPublish(fp)
	if err != nil || ok {
		t.Fatalf("duplicate within TTL: ok=%v err=%v, want false nil", ok, err)
	}

	other := Fingerprint([]byte("payload-2"))
	ok, err = s.ShouldPublish(other)
	if err != nil || !ok {
		t.Fatalf("distinct fingerprint: ok=%v err=%v, want true nil", ok, err)
	}

	time.Sleep(150 * time.Millisecond)
	ok, err = s.ShouldPublish(fp)
	if err != nil || !ok {
		t.Fatalf("after TTL expiry: ok=%v err=%v, want true nil", ok, err)
	}
}

func TestMemorySuppressor(t *testing.T) {
	s := NewMemory(100 * time.Millisecond)
	defer s.Close()
	testSuppressor(t, s)
}

func TestBadgerSuppressor(t *testing.T) {
	s, err := NewBadger(100 * time.Millisecond)
	if err != nil {
		t.Fatalf("NewBadger failed: %v", err)
	}
	defer s.Close()
	testSuppressor(t, s)
}
