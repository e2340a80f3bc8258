package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/abgdnv/inventory/internal/config"
	"github.com/abgdnv/inventory/internal/platform/telemetry"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupTelemetry installs the tracer and meter providers enabled in cfg.
// It returns the /metrics handler (nil when metrics are disabled) and a shutdown func flushing both providers.
func SetupTelemetry(ctx context.Context, serviceName string, cfg *config.Config, logger *slog.Logger) (http.Handler, func(context.Context) error, error) {
	var shutdowns []func(context.Context) error
	shutdown := func(ctx context.Context) error {
		var errs []error
		for _, fn := range shutdowns {
			errs = append(errs, fn(ctx))
		}
		return errors.Join(errs...)
	}

	if cfg.Telemetry.Traces.Enabled {
		tp, err := telemetry.NewTracerProvider(ctx, serviceName, cfg.Telemetry)
		if err != nil {
			return nil, nil, err
		}
		shutdowns = append(shutdowns, tp.Shutdown)
		logger.Info("Tracing enabled", "endpoint", cfg.Telemetry.Traces.OtlpHttp.Endpoint)
	}

	if !cfg.Telemetry.Metrics.Enabled {
		return nil, shutdown, nil
	}
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	mp, err := telemetry.NewMeterProvider(serviceName, registry)
	if err != nil {
		_ = shutdown(ctx)
		return nil, nil, err
	}
	shutdowns = append(shutdowns, mp.Shutdown)
	logger.Info("Metrics enabled", "path", "/metrics")
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{}), shutdown, nil
}
