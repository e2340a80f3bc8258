package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

type stubPinger struct {
	healthy atomic.Bool
}

func (p *stubPinger) Ping(_ context.Context) error {
	if p.healthy.Load() {
		return nil
	}
	return errors.New("database unreachable")
}

func servingStatus(t *testing.T, hs *health.Server) healthpb.HealthCheckResponse_ServingStatus {
	t.Helper()
	resp, err := hs.Check(context.Background(), &healthpb.HealthCheckRequest{})
	require.NoError(t, err)
	return resp.GetStatus()
}

func Test_RunHealthProbe(t *testing.T) {
	// given
	hs := health.NewServer()
	pinger := &stubPinger{}
	pinger.healthy.Store(true)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	// when
	go func() {
		done <- RunHealthProbe(ctx, hs, pinger, 10*time.Millisecond, logger)
	}()

	// then
	assert.Eventually(t, func() bool {
		return servingStatus(t, hs) == healthpb.HealthCheckResponse_SERVING
	}, time.Second, 5*time.Millisecond)

	pinger.healthy.Store(false)
	assert.Eventually(t, func() bool {
		return servingStatus(t, hs) == healthpb.HealthCheckResponse_NOT_SERVING
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("probe did not stop after cancellation")
	}
}
