package config

import (
	"fmt"
	"time"
)

const defaultMaxHeaderBytes = 1 << 20

// HTTPConfig configures the REST listener.
type HTTPConfig struct {
	Port           int `koanf:"port"`
	MaxHeaderBytes int `koanf:"maxHeaderBytes"`
	Timeout        struct {
		Read       time.Duration `koanf:"read"`
		Write      time.Duration `koanf:"write"`
		Idle       time.Duration `koanf:"idle"`
		ReadHeader time.Duration `koanf:"readHeader"`
	} `koanf:"timeout"`
}

// Validate requires every timeout to be set. MaxHeaderBytes defaults to 1 MiB.
func (c *HTTPConfig) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid HTTP server port: %d", c.Port)
	}
	timeouts := []struct {
		name  string
		value time.Duration
	}{
		{"read", c.Timeout.Read},
		{"write", c.Timeout.Write},
		{"idle", c.Timeout.Idle},
		{"read header", c.Timeout.ReadHeader},
	}
	for _, t := range timeouts {
		if t.value <= 0 {
			return fmt.Errorf("invalid HTTP server %s timeout: %v", t.name, t.value)
		}
	}
	switch {
	case c.MaxHeaderBytes < 0:
		return fmt.Errorf("invalid HTTP server max header bytes: %d", c.MaxHeaderBytes)
	case c.MaxHeaderBytes == 0:
		c.MaxHeaderBytes = defaultMaxHeaderBytes
	}
	return nil
}
