package config

import "errors"

// Validation errors returned by the client and server config views when
// required configuration groups are incomplete or invalid.
var (
	// ErrInvalidRemoteConfigs indicates invalid remote backend settings
	// (for example, a missing or non-HTTP URL, or a negative timeout).
	ErrInvalidRemoteConfigs = errors.New("invalid remote configuration")
	// ErrInvalidMirrorConfigs indicates invalid cache timeouts.
	ErrInvalidMirrorConfigs = errors.New("invalid mirror configuration")
	// ErrInvalidServerConfigs indicates invalid dev server settings
	// (for example, a missing listen address, or a token request without a
	// sign key).
	ErrInvalidServerConfigs = errors.New("invalid server configuration")
	// ErrInvalidStorageConfigs indicates an unsupported journal DSN.
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
)
