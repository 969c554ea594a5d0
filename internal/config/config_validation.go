// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"net/url"
	"strings"
)

func (cfg *ClientConfig) validate() error {
	u, err := url.Parse(cfg.Remote.URL)
	if cfg.Remote.URL == "" || err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: remote url %q", ErrInvalidRemoteConfigs, cfg.Remote.URL)
	}

	if cfg.Remote.RequestTimeout < 0 {
		return fmt.Errorf("%w: negative request timeout", ErrInvalidRemoteConfigs)
	}

	if cfg.Mirror.CreateTimeout < 0 || cfg.Mirror.ReadyTimeout < 0 {
		return fmt.Errorf("%w: negative timeout", ErrInvalidMirrorConfigs)
	}

	return nil
}

func (cfg *ServerConfig) validate() error {
	var addr NetAddress
	if err := addr.Set(cfg.Server.HTTPAddress); err != nil {
		return fmt.Errorf("%w: address %q: %w", ErrInvalidServerConfigs, cfg.Server.HTTPAddress, err)
	}

	if cfg.Server.KeepAlive < 0 || cfg.App.TokenDuration < 0 {
		return fmt.Errorf("%w: negative duration", ErrInvalidServerConfigs)
	}

	if cfg.IssueTokenFor != "" && cfg.App.TokenSignKey == "" {
		return fmt.Errorf("%w: issuing a token needs a sign key", ErrInvalidServerConfigs)
	}

	// Only SQLite journals are supported; URL-style DSNs name other drivers.
	if strings.Contains(cfg.Storage.DB.DSN, "://") {
		return fmt.Errorf("%w: unsupported dsn %q", ErrInvalidStorageConfigs, cfg.Storage.DB.DSN)
	}

	return nil
}
