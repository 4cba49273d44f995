// Attendify SyncBridge - Event-Management Data Synchronization
// Copyright 2026 Attendify
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/attendify/syncbridge

// Package activation implements the account-activation key flow: the consumer
// side mints a key and asks the frontend to store its hash, and the service
// side answers that call for keys minted by peers.
package activation

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/goccy/go-json"

	"github.com/attendify/syncbridge/internal/config"
	"github.com/attendify/syncbridge/internal/metrics"
)

// Errors reported by the mint call.
var (
	ErrActivationFailed = errors.New("activation key exchange failed")
	ErrSecretMissing    = errors.New("activation shared secret not configured")
)

// SharedSecretHeader authenticates mint calls between peers.
const SharedSecretHeader = "X-Shared-Secret"

// Client mints activation keys and exchanges them for their stored hash.
type Client struct {
	cfg  config.ActivationConfig
	http *http.Client
}

// NewClient creates a mint client. The timeout from the config is always
// enforced on the outbound call.
func NewClient(cfg config.ActivationConfig) *Client {
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

// MintKey generates a fresh random activation key.
func MintKey() (string, error) {
	raw := make([]byte, 16)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("mint activation key: %w", err)
	}
	return hex.EncodeToString(raw), nil
}

type mintRequest struct {
	ActivationKey string `json:"activation_key"`
}

type mintResponse struct {
	HashedActivationKey string `json:"hashed_activation_key"`
}

// Exchange posts a minted key to the configured endpoint and returns the
// hash the peer stored. Any failure aborts the surrounding user creation.
func (c *Client) Exchange(ctx context.Context, key string) (string, error) {
	if c.cfg.SharedSecret == "" {
		return "", ErrSecretMissing
	}

	body, err := json.Marshal(mintRequest{ActivationKey: key})
	if err != nil {
		return "", fmt.Errorf("%w: encode request: %v", ErrActivationFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: build request: %v", ErrActivationFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(SharedSecretHeader, c.cfg.SharedSecret)

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.ActivationCalls.WithLabelValues("failure").Inc()
		return "", fmt.Errorf("%w: %v", ErrActivationFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.ActivationCalls.WithLabelValues("failure").Inc()
		return "", fmt.Errorf("%w: status %d", ErrActivationFailed, resp.StatusCode)
	}

	var out mintResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		metrics.ActivationCalls.WithLabelValues("failure").Inc()
		return "", fmt.Errorf("%w: decode response: %v", ErrActivationFailed, err)
	}
	if out.HashedActivationKey == "" {
		metrics.ActivationCalls.WithLabelValues("failure").Inc()
		return "", fmt.Errorf("%w: empty hash in response", ErrActivationFailed)
	}

	metrics.ActivationCalls.WithLabelValues("success").Inc()
	return out.HashedActivationKey, nil
}

// Link builds the activation link a user receives by mail.
func (c *Client) Link(key, email string) string {
	return c.cfg.BaseURL + "/account-activeren/?key=" + key + "&login=" + url.QueryEscape(email)
}
