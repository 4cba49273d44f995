// Attendify SyncBridge - Event-Management Data Synchronization
// Copyright 2026 Attendify
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/attendify/syncbridge

package activation

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/crypto/bcrypt"

	"github.com/attendify/syncbridge/internal/config"
)

func serverConfig() config.ServerConfig {
	return config.ServerConfig{RateLimitReqs: 100, RateLimitWindow: time.Minute}
}

func TestMintKey(t *testing.T) {
	a, err := MintKey()
	if err != nil {
		t.Fatalf("MintKey failed: %v", err)
	}
	b, err := MintKey()
	if err != nil {
		t.Fatalf("MintKey failed: %v", err)
	}
	if len(a) != 32 {
		t.Errorf("key length = %d, want 32 hex chars", len(a))
	}
	if a == b {
		t.Error("two minted keys must differ")
	}
}

func TestServiceHashesKey(t *testing.T) {
	svc := NewService(config.ActivationConfig{SharedSecret: "s3cret"})
	ts := httptest.NewServer(svc.Router(serverConfig()))
	defer ts.Close()

	body, _ := json.Marshal(map[string]string{"activation_key": "abcd1234"})
	req, _ := http.NewRequest(http.MethodPost, ts.URL+"/set-activation-key", bytes.NewReader(body))
	req.Header.Set(SharedSecretHeader, "s3cret")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var out struct {
		HashedActivationKey string `json:"hashed_activation_key"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(out.HashedActivationKey), []byte("abcd1234")); err != nil {
		t.Errorf("returned hash does not verify: %v", err)
	}
}

func TestServiceRejectsBadSecret(t *testing.T) {
	svc := NewService(config.ActivationConfig{SharedSecret: "s3cret"})
	ts := httptest.NewServer(svc.Router(serverConfig()))
	defer ts.Close()

	body, _ := json.Marshal(map[string]string{"activation_key": "abcd1234"})
	req, _ := http.NewRequest(http.MethodPost, ts.URL+"/set-activation-key", bytes.NewReader(body))
	req.Header.Set(SharedSecretHeader, "wrong")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("status = %d, want 403", resp.StatusCode)
	}
}

func TestClientExchange(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(SharedSecretHeader) != "s3cret" {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		var req struct {
			ActivationKey string `json:"activation_key"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		json.NewEncoder(w).Encode(map[string]string{"hashed_activation_key": "hash-of-" + req.ActivationKey})
	}))
	defer ts.Close()

	c := NewClient(config.ActivationConfig{
		SharedSecret: "s3cret",
		Endpoint:     ts.URL,
		Timeout:      time.Second,
	})
	hash, err := c.Exchange(context.Background(), "key-1")
	if err != nil {
		t.Fatalf("Exchange failed: %v", err)
	}
	if hash != "hash-of-key-1" {
		t.Errorf("hash = %q", hash)
	}
}

func TestClientExchangeFailures(t *testing.T) {
	t.Run("missing secret", func(t *testing.T) {
		c := NewClient(config.ActivationConfig{Endpoint: "http://localhost:1", Timeout: time.Second})
		if _, err := c.Exchange(context.Background(), "k"); !errors.Is(err, ErrSecretMissing) {
			t.Errorf("got %v, want ErrSecretMissing", err)
		}
	})

	t.Run("peer error status", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "nope", http.StatusInternalServerError)
		}))
		defer ts.Close()
		c := NewClient(config.ActivationConfig{SharedSecret: "s", Endpoint: ts.URL, Timeout: time.Second})
		if _, err := c.Exchange(context.Background(), "k"); !errors.Is(err, ErrActivationFailed) {
			t.Errorf("got %v, want ErrActivationFailed", err)
		}
	})

	t.Run("empty hash", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte(`{"hashed_activation_key":""}`))
		}))
		defer ts.Close()
		c := NewClient(config.ActivationConfig{SharedSecret: "s", Endpoint: ts.URL, Timeout: time.Second})
		if _, err := c.Exchange(context.Background(), "k"); !errors.Is(err, ErrActivationFailed) {
			t.Errorf("got %v, want ErrActivationFailed", err)
		}
	})
}

func TestLink(t *testing.T) {
	c := NewClient(config.ActivationConfig{BaseURL: "https://frontend.example"})
	link := c.Link("abcd", "ada+test@example.com")
	if !strings.HasPrefix(link, "https://frontend.example/account-activeren/?key=abcd&login=") {
		t.Errorf("link = %q", link)
	}
	if !strings.Contains(link, "ada%2Btest%40example.com") {
		t.Errorf("email not query-escaped: %q", link)
	}
}
