// Package app wires the inventory service together.
package app

import (
	"log/slog"
	"net/http"

	"github.com/abgdnv/inventory/internal/config"
	"github.com/abgdnv/inventory/internal/inventory/service"
	"github.com/abgdnv/inventory/internal/inventory/transport/rest"
	"github.com/abgdnv/inventory/internal/platform/messaging"
	"github.com/abgdnv/inventory/internal/platform/server"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
)

type Dependencies struct {
	ProductService service.ProductService
	UserService    service.UserService
	Pinger         server.Pinger
	// MetricsHandler serves /metrics. Nil disables the route.
	MetricsHandler http.Handler
	AllowedOrigins []string
	Logger         *slog.Logger
}

func SetupDependencies(stores *Stores, publisher messaging.Publisher, logger *slog.Logger, productOpts ...service.ProductOption) *Dependencies {
	return &Dependencies{
		ProductService: service.NewProductService(stores.Products, publisher, logger, productOpts...),
		UserService:    service.NewUserService(stores.Users),
		Pinger:         stores.Products,
		Logger:         logger,
	}
}

// SetupHttpHandler builds the router with every route and middleware.
// Used by E2E tests to run the API on an httptest server.
func SetupHttpHandler(deps *Dependencies) http.Handler {
	mux := server.NewChiRouter(deps.Logger, deps.AllowedOrigins)
	wireRoutes(mux, deps)
	return otelhttp.NewHandler(mux, "inventory-http",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	)
}

func wireRoutes(mux *chi.Mux, deps *Dependencies) {
	validate := validator.New()
	rest.NewHealthHandler(deps.Pinger, deps.Logger).RegisterRoutes(mux)
	rest.NewProductHandler(deps.ProductService, validate, deps.Logger).RegisterRoutes(mux)
	rest.NewUserHandler(deps.UserService, validate, deps.Logger).RegisterRoutes(mux)
	if deps.MetricsHandler != nil {
		mux.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}
}

// SetupHttpServer creates and configures the HTTP server.
func SetupHttpServer(deps *Dependencies, cfg *config.Config) *http.Server {
	deps.AllowedOrigins = cfg.CORS.AllowedOrigins
	mux := SetupHttpHandler(deps)

	httpCfg := server.HTTPConfig{
		Port:           cfg.HTTPServer.Port,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		ReadTimeout:    cfg.HTTPServer.Timeout.Read,
		WriteTimeout:   cfg.HTTPServer.Timeout.Write,
		IdleTimeout:    cfg.HTTPServer.Timeout.Idle,
		ReadHeader:     cfg.HTTPServer.Timeout.ReadHeader,
	}

	return server.NewHTTPServer(httpCfg, mux)
}

// SetupGrpcServer creates the gRPC server exposing the standard health service.
func SetupGrpcServer(hs *health.Server, reflectionEnabled bool, logger *slog.Logger) *grpc.Server {
	return server.NewGRPCServer(logger, reflectionEnabled, server.HealthRegistration(hs))
}
