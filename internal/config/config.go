// Attendify SyncBridge - Event-Management Data Synchronization
// Copyright 2026 Attendify
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/attendify/syncbridge

// Package config loads SyncBridge configuration with layered sources:
// built-in defaults, an optional YAML file, then environment variables.
package config

import (
	"fmt"
	"time"
)

// Config is the root configuration for SyncBridge.
type Config struct {
	Broker     BrokerConfig     `koanf:"broker"`
	Database   DatabaseConfig   `koanf:"database"`
	Activation ActivationConfig `koanf:"activation"`
	Dedupe     DedupeConfig     `koanf:"dedupe"`
	Server     ServerConfig     `koanf:"server"`
	Logging    LoggingConfig    `koanf:"logging"`
}

// BrokerConfig holds RabbitMQ connection settings.
type BrokerConfig struct {
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`
	VHost    string `koanf:"vhost"`

	// ConnectAttempts and ConnectDelay bound connection establishment.
	// After the attempts are exhausted the process exits.
	ConnectAttempts int           `koanf:"connect_attempts"`
	ConnectDelay    time.Duration `koanf:"connect_delay"`
}

// URL renders the amqp connection URL.
func (c BrokerConfig) URL() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%d/%s", c.User, c.Password, c.Host, c.Port, c.VHost)
}

// DatabaseConfig holds the relational store connection settings.
type DatabaseConfig struct {
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	Name     string `koanf:"name"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`
	SSLMode  string `koanf:"ssl_mode"`

	ConnectAttempts int           `koanf:"connect_attempts"`
	ConnectDelay    time.Duration `koanf:"connect_delay"`
}

// DSN renders the lib/pq connection string.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		c.Host, c.Port, c.Name, c.User, c.Password, c.SSLMode)
}

// ActivationConfig holds settings for the activation-key endpoint and client.
type ActivationConfig struct {
	// SharedSecret authenticates the mint call. Required when trusted-sender
	// user creation is in play.
	SharedSecret string `koanf:"shared_secret"`

	// Endpoint is the URL the consumer calls to hash a freshly minted key.
	Endpoint string `koanf:"endpoint"`

	// BaseURL is the externally reachable site root used to build
	// activation links embedded in mail messages.
	BaseURL string `koanf:"base_url"`

	// Timeout bounds the outbound HTTP call. Always enforced.
	Timeout time.Duration `koanf:"timeout"`
}

// DedupeConfig holds duplicate-suppressor settings.
type DedupeConfig struct {
	// TTL is the fingerprint cooldown window.
	TTL time.Duration `koanf:"ttl"`

	// Backend selects the fingerprint cache: badger or memory.
	Backend string `koanf:"backend"`
}

// ServerConfig holds the HTTP server settings (activation endpoint, /metrics).
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port"`
	Timeout time.Duration `koanf:"timeout"`

	// RateLimitReqs requests per RateLimitWindow per client IP on the
	// activation endpoint.
	RateLimitReqs   int           `koanf:"rate_limit_reqs"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`
}

// Addr renders the listen address.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// Validate checks settings that have no usable zero value.
func (c *Config) Validate() error {
	if c.Broker.Host == "" {
		return fmt.Errorf("broker.host is required")
	}
	if c.Broker.Port <= 0 || c.Broker.Port > 65535 {
		return fmt.Errorf("broker.port %d out of range", c.Broker.Port)
	}
	if c.Database.Host == "" {
		return fmt.Errorf("database.host is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("database.name is required")
	}
	if c.Broker.ConnectAttempts < 1 || c.Database.ConnectAttempts < 1 {
		return fmt.Errorf("connect_attempts must be at least 1")
	}
	if c.Dedupe.TTL <= 0 {
		return fmt.Errorf("dedupe.ttl must be positive")
	}
	switch c.Dedupe.Backend {
	case "badger", "memory":
	default:
		return fmt.Errorf("dedupe.backend must be badger or memory, got %q", c.Dedupe.Backend)
	}
	if c.Activation.Timeout <= 0 {
		return fmt.Errorf("activation.timeout must be positive")
	}
	return nil
}
