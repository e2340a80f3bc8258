package app

import (
	"context"
	"log/slog"

	"github.com/abgdnv/inventory/internal/config"
	"github.com/abgdnv/inventory/internal/platform/messaging"
	"github.com/abgdnv/inventory/internal/platform/nats"
	"github.com/abgdnv/inventory/internal/platform/resilience"
)

// SetupPublisher connects to NATS and returns a circuit-breaking JetStream publisher,
// or a no-op publisher when NATS is disabled. The returned func closes the connection.
func SetupPublisher(ctx context.Context, cfg *config.Config, logger *slog.Logger) (messaging.Publisher, func(), error) {
	if !cfg.Nats.Enabled {
		logger.Info("NATS disabled, sale events are not published")
		return messaging.NoopPublisher{}, func() {}, nil
	}
	nc, err := nats.NewClient(cfg.Nats.Url, cfg.Nats.Timeout)
	if err != nil {
		return nil, nil, err
	}
	js, err := nats.NewJetStreamContext(nc)
	if err != nil {
		return nil, nil, err
	}
	if err := nats.EnsureStream(ctx, js, cfg.Nats.Stream, messaging.ProductsSoldSubject); err != nil {
		nc.Close()
		return nil, nil, err
	}
	logger.Info("Connected to NATS", "url", nc.ConnectedUrlRedacted(), "stream", cfg.Nats.Stream)

	publisher := resilience.NewBreakerPublisher("nats-publisher", nats.NewNatsPublisher(js), cfg.Resilience.CircuitBreaker)
	return publisher, func() {
		if err := nc.Drain(); err != nil {
			logger.Warn("failed to drain NATS connection", "error", err)
		}
	}, nil
}
