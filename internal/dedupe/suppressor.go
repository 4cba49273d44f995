// Attendify SyncBridge - Event-Management Data Synchronization
// Copyright 2026 Attendify
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/attendify/syncbridge

// Package dedupe suppresses duplicate publishes. WordPress hooks fire several
// times for one logical save, so a producer asks the suppressor before every
// publish: the first sighting of a fingerprint within the TTL wins, the rest
// are dropped.
package dedupe

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/attendify/syncbridge/internal/metrics"
)

// Suppressor decides whether a payload may be published.
type Suppressor interface {
	// ShouldPublish records the fingerprint and reports true exactly once
	// per TTL window for a given fingerprint.
	ShouldPublish(fingerprint string) (bool, error)

	// Close releases backend resources.
	Close() error
}

// Fingerprint derives the suppression key for a payload. Two payloads that
// are byte-identical after the envelope is encoded collide on purpose; a
// changed field anywhere produces a new fingerprint.
func Fingerprint(payload []byte) string {
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

// Memory is a map-backed suppressor with periodic cleanup. It is the fallback
// backend for tests and for deployments that cannot spare the Badger arena.
type Memory struct {
	mu      sync.Mutex
	seen    map[string]time.Time
	ttl     time.Duration
	stop    chan struct{}
	stopped sync.Once
}

// NewMemory creates a memory suppressor with the given TTL.
func NewMemory(ttl time.Duration) *Memory {
	m := &Memory{
		seen: make(map[string]time.Time),
		ttl:  ttl,
		stop: make(chan struct{}),
	}
	go m.cleanupLoop()
	return m
}

// ShouldPublish implements Suppressor.
func (m *Memory) ShouldPublish(fingerprint string) (bool, error) {
	now := time.Now()
	m.mu.Lock()
	defer m.mu.Unlock()
	if expiry, ok := m.seen[fingerprint]; ok && now.Before(expiry) {
		return false, nil
	}
	m.seen[fingerprint] = now.Add(m.ttl)
	metrics.SuppressorEntries.Set(float64(len(m.seen)))
	return true, nil
}

// Close implements Suppressor.
func (m *Memory) Close() error {
	m.stopped.Do(func() { close(m.stop) })
	return nil
}

func (m *Memory) cleanupLoop() {
	interval := m.ttl
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-m.stop:
			return
		case now := <-ticker.C:
			m.mu.Lock()
			for fp, expiry := range m.seen {
				if now.After(expiry) {
					delete(m.seen, fp)
				}
			}
			metrics.SuppressorEntries.Set(float64(len(m.seen)))
			m.mu.Unlock()
		}
	}
}

// Badger is a suppressor backed by an in-memory Badger store. Entry expiry is
// delegated to Badger's native TTL, so there is no cleanup goroutine to run.
type Badger struct {
	db  *badger.DB
	ttl time.Duration
}

// NewBadger creates a Badger-backed suppressor.
func NewBadger(ttl time.Duration) (*Badger, error) {
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return &Badger{db: db, ttl: ttl}, nil
}

// ShouldPublish implements Suppressor.
func (b *Badger) ShouldPublish(fingerprint string) (bool, error) {
	key := []byte(fingerprint)
	publish := false
	err := b.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		if err == nil {
			return nil
		}
		if err != badger.ErrKeyNotFound {
			return err
		}
		publish = true
		entry := badger.NewEntry(key, []byte{1}).WithTTL(b.ttl)
		return txn.SetEntry(entry)
	})
	if err != nil {
		return false, fmt.Errorf("suppressor lookup: %w", err)
	}
	return publish, nil
}

// Close implements Suppressor.
func (b *Badger) Close() error {
	return b.db.Close()
}
