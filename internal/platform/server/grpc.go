package server

import (
	"context"
	"log/slog"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"
)

// RegistrationFunc registers a service on the gRPC server.
type RegistrationFunc func(*grpc.Server)

// NewGRPCServer builds a gRPC server that logs every unary call at debug level.
// Reflection is registered only when enabled.
func NewGRPCServer(logger *slog.Logger, enableReflection bool, registrations ...RegistrationFunc) *grpc.Server {
	s := grpc.NewServer(grpc.ChainUnaryInterceptor(unaryCallLogger(logger.With("component", "grpc"))))
	for _, register := range registrations {
		register(s)
	}
	if enableReflection {
		reflection.Register(s)
	}
	return s
}

// unaryCallLogger logs method, status code and latency. Failed calls other than
// NotFound are logged at warn.
func unaryCallLogger(logger *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		code := status.Code(err)
		level := slog.LevelDebug
		if code != codes.OK && code != codes.NotFound {
			level = slog.LevelWarn
		}
		logger.Log(ctx, level, "gRPC call",
			"method", info.FullMethod,
			"code", code.String(),
			"duration", time.Since(start))
		return resp, err
	}
}
