// Attendify SyncBridge - Event-Management Data Synchronization
// Copyright 2026 Attendify
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/attendify/syncbridge

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in
// order of priority. The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/syncbridge/config.yaml",
	"/etc/syncbridge/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config with all defaults applied. Broker and
// database retry constants match the behavior the external systems expect:
// five attempts, three seconds apart, then give up.
func defaultConfig() *Config {
	return &Config{
		Broker: BrokerConfig{
			Host:            "rabbitmq",
			Port:            5672,
			User:            "guest",
			Password:        "guest",
			VHost:           "/",
			ConnectAttempts: 5,
			ConnectDelay:    3 * time.Second,
		},
		Database: DatabaseConfig{
			Host:            "db",
			Port:            5432,
			Name:            "attendify",
			User:            "attendify",
			Password:        "",
			SSLMode:         "disable",
			ConnectAttempts: 5,
			ConnectDelay:    3 * time.Second,
		},
		Activation: ActivationConfig{
			SharedSecret: "",
			Endpoint:     "",
			BaseURL:      "",
			Timeout:      10 * time.Second,
		},
		Dedupe: DedupeConfig{
			TTL:     5 * time.Second,
			Backend: "badger",
		},
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8085,
			Timeout:         30 * time.Second,
			RateLimitReqs:   30,
			RateLimitWindow: time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load loads configuration using koanf with layered sources:
//  1. Defaults (struct above)
//  2. Optional YAML config file
//  3. Environment variables (highest priority)
func Load() (*Config, error) {
	k := koanf.New(".")

	defaults := defaultConfig()
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", configPath, err)
		}
	}

	envProvider := env.Provider("", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// envTransformFunc maps environment variable names to koanf config paths.
// Legacy names match what the deployment already exports for the PHP stack,
// so the Go consumers can run against the same environment unchanged.
func envTransformFunc(key string) string {
	key = strings.ToLower(key)

	envMappings := map[string]string{
		// Broker: legacy RABBITMQ_* names
		"rabbitmq_host":             "broker.host",
		"rabbitmq_amqp_port":        "broker.port",
		"rabbitmq_user":             "broker.user",
		"rabbitmq_password":         "broker.password",
		"rabbitmq_vhost":            "broker.vhost",
		"broker_connect_attempts":   "broker.connect_attempts",
		"broker_connect_delay":      "broker.connect_delay",

		// Database: legacy LOCAL_DB_* names plus explicit ones
		"db_host":           "database.host",
		"db_port":           "database.port",
		"db_name":           "database.name",
		"local_db_user":     "database.user",
		"local_db_password": "database.password",
		"db_ssl_mode":       "database.ssl_mode",

		// Activation key flow
		"my_api_shared_secret": "activation.shared_secret",
		"activation_endpoint":  "activation.endpoint",
		"wordpress_host":       "activation.base_url",
		"activation_timeout":   "activation.timeout",

		// Duplicate suppressor
		"dedupe_ttl":     "dedupe.ttl",
		"dedupe_backend": "dedupe.backend",

		// HTTP server
		"http_host":         "server.host",
		"http_port":         "server.port",
		"http_timeout":      "server.timeout",
		"rate_limit_reqs":   "server.rate_limit_reqs",
		"rate_limit_window": "server.rate_limit_window",

		// Logging
		"log_level":  "logging.level",
		"log_format": "logging.format",
	}

	if mapped, ok := envMappings[key]; ok {
		return mapped
	}

	// Unmapped keys are skipped so random environment variables do not
	// pollute the config.
	return ""
}
