// Package main runs the inventory HTTP API with its gRPC health server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "net/http/pprof"

	"github.com/abgdnv/inventory/internal/config"
	"github.com/abgdnv/inventory/internal/inventory/app"
	"github.com/abgdnv/inventory/internal/inventory/service"
	"github.com/abgdnv/inventory/internal/platform/bootstrap"
	"github.com/abgdnv/inventory/internal/platform/config/configloader"
	"github.com/abgdnv/inventory/internal/platform/server"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
)

const serviceName = "inventory"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Printf("application run failed: %v", err)
		os.Exit(1)
	}
	log.Println("application stopped gracefully")
}

// run loads the configuration, opens storage and messaging, and serves HTTP, gRPC and pprof until ctx is cancelled.
func run(ctx context.Context) error {
	cfg, err := configloader.Load[*config.Config](serviceName)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	log.Printf("Configuration loaded: %v", cfg)

	logger := bootstrap.NewLogger(cfg.Log.Level)
	slog.SetDefault(logger)

	metricsHandler, shutdownTelemetry, err := app.SetupTelemetry(ctx, serviceName, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to set up telemetry: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), cfg.Shutdown.Timeout)
		defer cancel()
		if err := shutdownTelemetry(flushCtx); err != nil {
			logger.Warn("failed to flush telemetry", "error", err)
		}
	}()

	stores, err := app.SetupStores(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer stores.Close()

	publisher, closePublisher, err := app.SetupPublisher(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to set up event publisher: %w", err)
	}
	defer closePublisher()

	deps := app.SetupDependencies(stores, publisher, logger, service.WithPublishTimeout(cfg.Nats.Timeout))
	deps.MetricsHandler = metricsHandler
	healthServer := health.NewServer()

	g, gCtx := errgroup.WithContext(ctx)
	serveHTTP(gCtx, g, "HTTP", app.SetupHttpServer(deps, cfg), cfg.Shutdown.Timeout, logger)
	serveGRPC(gCtx, g, app.SetupGrpcServer(healthServer, cfg.GRPC.ReflectionEnabled, logger), cfg.GRPC.Addr(), cfg.Shutdown.Timeout, logger)
	if cfg.PProf.Enabled {
		pprofServer := &http.Server{Addr: cfg.PProf.Addr, ReadHeaderTimeout: cfg.HTTPServer.Timeout.ReadHeader}
		serveHTTP(gCtx, g, "pprof", pprofServer, cfg.Shutdown.Timeout, logger)
	}
	// keep the gRPC health status in sync with storage
	g.Go(func() error {
		err := server.RunHealthProbe(gCtx, healthServer, stores.Products, cfg.Probes.Interval, logger)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("errgroup encountered an error: %w", err)
	}
	return nil
}

// serveHTTP runs srv in g and shuts it down within timeout once ctx is done.
// In-flight sales get the whole timeout to commit.
func serveHTTP(ctx context.Context, g *errgroup.Group, name string, srv *http.Server, timeout time.Duration, logger *slog.Logger) {
	g.Go(func() error {
		logger.Info(name+" server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("%s server failed: %w", name, err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutting down " + name + " server...")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
}

// serveGRPC runs srv on addr and stops it gracefully once ctx is done, forcing a stop after timeout.
func serveGRPC(ctx context.Context, g *errgroup.Group, srv *grpc.Server, addr string, timeout time.Duration, logger *slog.Logger) {
	g.Go(func() error {
		lis, err := net.Listen("tcp", addr)
		if err != nil {
			return fmt.Errorf("failed to listen on gRPC port: %w", err)
		}
		logger.Info("gRPC server listening", slog.String("addr", addr))
		return srv.Serve(lis)
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutting down gRPC server...")
		stopped := make(chan struct{})
		go func() {
			srv.GracefulStop()
			close(stopped)
		}()
		select {
		case <-stopped:
			return nil
		case <-time.After(timeout):
			logger.Warn("gRPC server graceful stop timed out, forcing stop")
			srv.Stop()
			return fmt.Errorf("grpc server graceful stop timed out")
		}
	})
}
