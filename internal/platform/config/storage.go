package config

import "fmt"

const (
	// DriverPostgres keeps products, users and roles in PostgreSQL.
	DriverPostgres = "postgres"
	// DriverMemory keeps everything in process memory, seeded with the demo catalog.
	DriverMemory = "memory"
)

type StorageConfig struct {
	Driver string `koanf:"driver"`
}

func (c *StorageConfig) Validate() error {
	switch c.Driver {
	case "":
		c.Driver = DriverPostgres
		return nil
	case DriverPostgres, DriverMemory:
		return nil
	default:
		return fmt.Errorf("unknown storage driver: %q", c.Driver)
	}
}
