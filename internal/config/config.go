// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container shared by the
// campaign client and the dev realtime server. It is populated by merging
// values from environment variables, command-line flags, and an optional
// JSON file.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env: direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds token signing settings used by the dev server.
	App App `envPrefix:"APP_"`

	// Storage holds the journal database settings of the dev server.
	Storage Storage `envPrefix:"STORAGE_"`

	// Server holds the listen address and stream settings of the dev server.
	Server Server `envPrefix:"SERVER_"`

	// Remote holds the realtime backend the client mirrors.
	Remote Remote `envPrefix:"REMOTE_"`

	// Mirror holds the timeouts of the local cache primitives.
	Mirror Mirror `envPrefix:"MIRROR_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged on top of the values
	// already loaded from environment variables and flags.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`

	// IssueTokenFor is a flag-only dev server setting: when set, the server
	// prints a signed token for this player id and exits.
	IssueTokenFor string
}

// Storage groups the configuration for the storage backends.
type Storage struct {
	// DB holds the journal database connection settings.
	DB DB `envPrefix:"DB_"`
}

// App holds the custom token settings of the dev server.
type App struct {
	// TokenSignKey is the HMAC key used to sign and verify campaign tokens.
	// An empty key disables token verification on the dev server.
	// Env: APP_TOKEN_SIGN_KEY
	TokenSignKey string `env:"TOKEN_SIGN_KEY"`

	// TokenIssuer is the "iss" claim embedded in every issued token and
	// checked on every authenticated request.
	// Env: APP_TOKEN_ISSUER
	TokenIssuer string `env:"TOKEN_ISSUER"`

	// TokenDuration specifies how long an issued token remains valid
	// (e.g. "1h", "30m").
	// Env: APP_TOKEN_DURATION
	TokenDuration time.Duration `env:"TOKEN_DURATION"`
}

// Server holds network settings for the dev realtime server.
type Server struct {
	// HTTPAddress is the TCP address on which the HTTP server listens,
	// in "host:port" format (e.g. "0.0.0.0:8080").
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// KeepAlive is the interval between keep-alive events on open streams.
	// Env: SERVER_KEEP_ALIVE
	KeepAlive time.Duration `env:"KEEP_ALIVE"`
}

// DB holds connection settings for the journal database.
type DB struct {
	// DSN is the SQLite data source name of the journal
	// (e.g. "file:campaign.db" or "/var/lib/mirror/campaign.db").
	// An empty DSN runs the dev server without persistence.
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`
}

// Remote holds the connection settings of the mirrored realtime backend.
type Remote struct {
	// URL is the base URL of the backend (e.g. "http://localhost:8080").
	// Env: REMOTE_URL
	URL string `env:"URL"`

	// AuthToken is the campaign custom token used to log in.
	// Env: REMOTE_AUTH_TOKEN
	AuthToken string `env:"AUTH_TOKEN"`

	// RequestTimeout bounds every non-streaming request.
	// Env: REMOTE_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Mirror holds the timeouts of the local cache primitives.
type Mirror struct {
	// CreateTimeout bounds how long a Create waits for its record to arrive
	// back from the backend.
	// Env: MIRROR_CREATE_TIMEOUT
	CreateTimeout time.Duration `env:"CREATE_TIMEOUT"`

	// ReadyTimeout bounds the initial hydration of the whole campaign.
	// Env: MIRROR_READY_TIMEOUT
	ReadyTimeout time.Duration `env:"READY_TIMEOUT"`
}

// GetStructuredConfig loads and merges the configuration from all available
// sources in the following priority order (last source wins for non-zero
// fields):
//  1. Environment variables
//  2. Command-line flags parsed from args
//  3. JSON file (path resolved from sources 1 and 2)
func GetStructuredConfig(args []string) (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags(args).
		withJSON().
		build()
}
