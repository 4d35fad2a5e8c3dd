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

// Database backend selection.
type DatabaseBackend string

const (
	DatabasePostgres DatabaseBackend = "postgres"
	DatabaseMySQL    DatabaseBackend = "mysql"
	DatabaseSQLite   DatabaseBackend = "sqlite"
)

// Config covers process level configuration read from environment variables.
type Config struct {
	Environment string
	HTTPBind    string
	HTTPPort    int

	DBBackend DatabaseBackend
	DBDSN     string

	JWTSigningKey string
	AuthDisabled  bool // Skip API auth entirely; development only

	TokenTTLMinutes int // Lifetime of bearer tokens issued for API keys
}

// Load reads environment variables, applies defaults, and validates the result.
func Load() (*Config, error) {
	cfg := &Config{
		Environment:     getEnv("WEEKWEAVE_ENV", "development"),
		HTTPBind:        getEnv("WEEKWEAVE_HTTP_BIND", "0.0.0.0"),
		HTTPPort:        getEnvInt("WEEKWEAVE_HTTP_PORT", 8080),
		DBBackend:       DatabaseBackend(getEnv("WEEKWEAVE_DB_BACKEND", string(DatabaseSQLite))),
		DBDSN:           getEnv("WEEKWEAVE_DB_DSN", "weekweave.db"),
		JWTSigningKey:   getEnv("WEEKWEAVE_JWT_SIGNING_KEY", ""),
		AuthDisabled:    getEnvBool("WEEKWEAVE_AUTH_DISABLED", false),
		TokenTTLMinutes: getEnvInt("WEEKWEAVE_TOKEN_TTL_MINUTES", 60),
	}

	if cfg.DBBackend != DatabasePostgres && cfg.DBBackend != DatabaseMySQL && cfg.DBBackend != DatabaseSQLite {
		return nil, fmt.Errorf("unsupported database backend %q", cfg.DBBackend)
	}

	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("WEEKWEAVE_DB_DSN must be provided")
	}

	if cfg.AuthDisabled && strings.EqualFold(cfg.Environment, "production") {
		return nil, fmt.Errorf("WEEKWEAVE_AUTH_DISABLED cannot be set in production")
	}

	if !cfg.AuthDisabled && cfg.JWTSigningKey == "" {
		return nil, fmt.Errorf("WEEKWEAVE_JWT_SIGNING_KEY must be provided unless auth is disabled")
	}

	if cfg.TokenTTLMinutes <= 0 {
		return nil, fmt.Errorf("WEEKWEAVE_TOKEN_TTL_MINUTES must be positive")
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
