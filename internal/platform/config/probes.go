package config

import (
	"log"
	"time"
)

// ProbesConfig controls how often storage health is re-checked for the gRPC health service.
type ProbesConfig struct {
	Interval time.Duration `koanf:"interval"`
}

const defaultProbeInterval = 10 * time.Second

func (c *ProbesConfig) Validate() error {
	if c.Interval <= 0 {
		log.Println("Using default value for probes.interval")
		c.Interval = defaultProbeInterval
	}
	return nil
}
