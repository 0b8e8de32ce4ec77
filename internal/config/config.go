/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config covers process level configuration read from environment variables.
type Config struct {
	Environment string
	HTTPBind    string
	HTTPPort    int
	MetricsBind string

	// LayoutPath optionally points at a YAML plant layout file. Empty means
	// the built-in default layout.
	LayoutPath string

	// Tracing configuration
	TracingEnabled    bool
	OTLPEndpoint      string
	TracingSampleRate float64
}

// Load reads environment variables, applies defaults, and validates the result.
func Load() (*Config, error) {
	cfg := &Config{
		Environment: getEnv("VIDAR_ENV", "development"),
		HTTPBind:    getEnv("VIDAR_HTTP_BIND", "0.0.0.0"),
		HTTPPort:    getEnvInt("VIDAR_HTTP_PORT", 8080),
		MetricsBind: getEnv("VIDAR_METRICS_BIND", "127.0.0.1:9000"),
		LayoutPath:  getEnv("VIDAR_LAYOUT_PATH", ""),

		TracingEnabled:    getEnvBool("VIDAR_TRACING_ENABLED", false),
		OTLPEndpoint:      getEnv("VIDAR_OTLP_ENDPOINT", "localhost:4317"),
		TracingSampleRate: getEnvFloat("VIDAR_TRACING_SAMPLE_RATE", 1.0),
	}

	if cfg.HTTPPort < 1 || cfg.HTTPPort > 65535 {
		return nil, fmt.Errorf("VIDAR_HTTP_PORT must be in 1..65535, got %d", cfg.HTTPPort)
	}

	if cfg.TracingSampleRate < 0 || cfg.TracingSampleRate > 1 {
		return nil, fmt.Errorf("VIDAR_TRACING_SAMPLE_RATE must be in 0..1, got %g", cfg.TracingSampleRate)
	}

	return cfg, nil
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if val := os.Getenv(key); val != "" {
		val = strings.ToLower(strings.TrimSpace(val))
		if val == "true" || val == "1" || val == "yes" {
			return true
		}
		if val == "false" || val == "0" || val == "no" {
			return false
		}
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseFloat(val, 64); err == nil {
			return parsed
		}
	}
	return def
}
