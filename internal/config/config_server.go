// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"time"
)

// Defaults applied to unset dev server settings.
const (
	DefaultServerAddress = "localhost:8080"
	DefaultTokenIssuer   = "campaign-mirror"
	DefaultTokenDuration = 24 * time.Hour
	DefaultKeepAlive     = 30 * time.Second
)

// ServerConfig is the configuration of the dev realtime server assembled
// from [StructuredConfig].
type ServerConfig struct {
	App     App
	Storage Storage
	Server  Server

	// IssueTokenFor, when set, asks the server to print a token and exit.
	IssueTokenFor string
}

// GetServerConfig builds and validates the dev server view of the merged
// configuration. args are the command-line arguments without the program
// name.
func GetServerConfig(args []string) (*ServerConfig, error) {
	cfg, err := GetStructuredConfig(args)
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	serverCfg := newServerConfig(cfg)
	return serverCfg, serverCfg.validate()
}

func newServerConfig(cfg *StructuredConfig) *ServerConfig {
	serverCfg := &ServerConfig{
		App:           cfg.App,
		Storage:       cfg.Storage,
		Server:        cfg.Server,
		IssueTokenFor: cfg.IssueTokenFor,
	}

	if serverCfg.Server.HTTPAddress == "" {
		serverCfg.Server.HTTPAddress = DefaultServerAddress
	}
	if serverCfg.Server.KeepAlive == 0 {
		serverCfg.Server.KeepAlive = DefaultKeepAlive
	}
	if serverCfg.App.TokenIssuer == "" {
		serverCfg.App.TokenIssuer = DefaultTokenIssuer
	}
	if serverCfg.App.TokenDuration == 0 {
		serverCfg.App.TokenDuration = DefaultTokenDuration
	}

	return serverCfg
}
