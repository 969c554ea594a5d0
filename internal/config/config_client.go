package config

import (
	"fmt"
	"time"
)

// Defaults applied to unset client settings.
const (
	DefaultRequestTimeout = 15 * time.Second
	DefaultCreateTimeout  = 30 * time.Second
	DefaultReadyTimeout   = time.Minute
)

// ClientConfig is the configuration of the campaign client assembled from
// [StructuredConfig].
type ClientConfig struct {
	// Remote contains the backend address, token and request timeout.
	Remote Remote
	// Mirror contains the cache timeouts.
	Mirror Mirror
}

// GetClientConfig builds and validates the client view of the merged
// configuration. args are the command-line arguments without the program
// name.
func GetClientConfig(args []string) (*ClientConfig, error) {
	cfg, err := GetStructuredConfig(args)
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := newClientConfig(cfg)
	return clientCfg, clientCfg.validate()
}

func newClientConfig(cfg *StructuredConfig) *ClientConfig {
	clientCfg := &ClientConfig{
		Remote: cfg.Remote,
		Mirror: cfg.Mirror,
	}

	if clientCfg.Remote.RequestTimeout == 0 {
		clientCfg.Remote.RequestTimeout = DefaultRequestTimeout
	}
	if clientCfg.Mirror.CreateTimeout == 0 {
		clientCfg.Mirror.CreateTimeout = DefaultCreateTimeout
	}
	if clientCfg.Mirror.ReadyTimeout == 0 {
		clientCfg.Mirror.ReadyTimeout = DefaultReadyTimeout
	}

	return clientCfg
}
