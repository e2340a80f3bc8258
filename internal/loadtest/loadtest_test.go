package loadtest

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/abgdnv/inventory/internal/config"
	"github.com/abgdnv/inventory/internal/inventory/app"
	platformcfg "github.com/abgdnv/inventory/internal/platform/config"
	"github.com/abgdnv/inventory/internal/platform/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	var cfg config.Config
	cfg.Storage.Driver = platformcfg.DriverMemory
	stores, err := app.SetupStores(context.Background(), &cfg, logger)
	require.NoError(t, err)
	srv := httptest.NewServer(app.SetupHttpHandler(app.SetupDependencies(stores, messaging.NoopPublisher{}, logger)))
	t.Cleanup(srv.Close)
	return srv
}

func Test_Runner_Run(t *testing.T) {
	testCases := []struct {
		name             string
		productID        int64
		requests         int
		expectedAccepted int
		expectedFinal    int32
	}{
		// seeded product 10 has stock 5, product 2 has stock 50
		{name: "oversubscribed", productID: 10, requests: 40, expectedAccepted: 5, expectedFinal: 0},
		{name: "undersubscribed", productID: 2, requests: 20, expectedAccepted: 20, expectedFinal: 30},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			srv := newServer(t)
			runner := NewRunner(Options{
				BaseURL:     srv.URL,
				ProductID:   tc.productID,
				Requests:    tc.requests,
				Concurrency: 8,
				Timeout:     5 * time.Second,
			}, slog.New(slog.NewTextHandler(io.Discard, nil)))

			// when
			report, err := runner.Run(context.Background())

			// then
			require.NoError(t, err)
			assert.Equal(t, tc.expectedAccepted, report.Accepted)
			assert.Equal(t, tc.requests-tc.expectedAccepted, report.Rejected)
			assert.Equal(t, tc.expectedFinal, report.FinalStock)
			assert.True(t, report.Consistent())
		})
	}
}

func Test_Runner_UnknownProduct(t *testing.T) {
	srv := newServer(t)
	runner := NewRunner(Options{BaseURL: srv.URL, ProductID: 999, Requests: 1, Concurrency: 1, Timeout: time.Second},
		slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err := runner.Run(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "product 999 not found")
}

func Test_Report_Consistent(t *testing.T) {
	testCases := []struct {
		name     string
		report   Report
		expected bool
	}{
		{name: "exact", report: Report{Requests: 10, Accepted: 5, Rejected: 5, InitialStock: 5, FinalStock: 0}, expected: true},
		{name: "lost update", report: Report{Requests: 10, Accepted: 5, Rejected: 5, InitialStock: 5, FinalStock: 1}, expected: false},
		{name: "oversold", report: Report{Requests: 10, Accepted: 6, Rejected: 4, InitialStock: 5, FinalStock: -1}, expected: false},
		{name: "failures rolled back", report: Report{Requests: 10, Accepted: 4, Rejected: 5, Failed: 1, InitialStock: 4, FinalStock: 0}, expected: true},
		{name: "failure with stock left and no rejections", report: Report{Requests: 3, Accepted: 2, Failed: 1, InitialStock: 5, FinalStock: 3}, expected: true},
		{name: "rejected while stock remains", report: Report{Requests: 10, Accepted: 2, Rejected: 7, Failed: 1, InitialStock: 5, FinalStock: 3}, expected: false},
		{name: "too few accepted", report: Report{Requests: 10, Accepted: 3, Rejected: 7, InitialStock: 5, FinalStock: 2}, expected: false},
		{name: "not found", report: Report{Requests: 1, NotFound: 1, InitialStock: 5, FinalStock: 5}, expected: false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.report.Consistent())
		})
	}
}

func Test_Render(t *testing.T) {
	var buf bytes.Buffer

	Render(&buf, &Report{ProductID: 3, Requests: 10, Accepted: 5, Rejected: 5, InitialStock: 5, FinalStock: 0})

	out := buf.String()
	assert.Contains(t, out, "Sell load test, product 3")
	assert.Contains(t, out, "accepted (200)")
	assert.Contains(t, out, "PASS")
	assert.NotContains(t, out, "FAIL")
}

func Test_Render_RefusedSales(t *testing.T) {
	var buf bytes.Buffer

	Render(&buf, &Report{ProductID: 3, Requests: 10, Accepted: 2, Rejected: 7, Failed: 1, InitialStock: 5, FinalStock: 3})

	out := buf.String()
	assert.Contains(t, out, "accepted + failed >= min(requests, initial)")
	assert.Contains(t, out, "FAIL")
}
