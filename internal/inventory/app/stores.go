package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/abgdnv/inventory/internal/config"
	"github.com/abgdnv/inventory/internal/inventory/migrations"
	"github.com/abgdnv/inventory/internal/inventory/store"
	"github.com/abgdnv/inventory/internal/platform/bootstrap"
	platformcfg "github.com/abgdnv/inventory/internal/platform/config"
)

// Stores groups the storage backends selected by storage.driver.
type Stores struct {
	Products store.ProductStore
	Users    store.UserStore
	close    func()
}

// Close releases the connection pool, if any.
func (s *Stores) Close() {
	if s.close != nil {
		s.close()
	}
}

// SetupStores opens the configured storage. For postgres it creates the process-wide pool
// and applies the embedded migrations when database.migrate is set.
func SetupStores(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Stores, error) {
	switch cfg.Storage.Driver {
	case platformcfg.DriverMemory:
		products, users := store.NewSeededInMemoryStores()
		logger.Warn("Using in-memory storage, data is lost on restart")
		return &Stores{Products: products, Users: users}, nil
	case platformcfg.DriverPostgres:
		if cfg.Database.Migrate {
			if err := migrations.Up(cfg.Database.URL, logger); err != nil {
				return nil, err
			}
		}
		dbPool, err := bootstrap.NewDbPool(ctx, cfg.Database.URL, cfg.Database.Timeout, cfg.Database.MaxConns)
		if err != nil {
			return nil, fmt.Errorf("failed to create database connection pool: %w", err)
		}
		logger.Info("Successfully connected to the database!")
		return &Stores{
			Products: store.NewPgStore(dbPool, cfg.Database.TxTimeout),
			Users:    store.NewPgUserStore(dbPool),
			close:    dbPool.Close,
		}, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
