// Package loadtest fires concurrent sales at a running inventory API and checks the stock afterwards.
package loadtest

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/abgdnv/inventory/internal/inventory/service"
	"github.com/go-resty/resty/v2"
	"golang.org/x/sync/errgroup"
)

type Options struct {
	BaseURL     string
	ProductID   int64
	Requests    int
	Concurrency int
	Timeout     time.Duration
}

// Report summarises one run.
type Report struct {
	ProductID    int64
	Requests     int
	Accepted     int
	Rejected     int
	NotFound     int
	Failed       int
	InitialStock int32
	FinalStock   int32
	Elapsed      time.Duration
}

// ExpectedAccepted is min(requests, initial stock), the number of sales a correct server accepts
// when none of them fail.
func (r *Report) ExpectedAccepted() int {
	return min(r.Requests, max(int(r.InitialStock), 0))
}

// StockConserved reports whether every accepted sale, and only those, left the stock.
func (r *Report) StockConserved() bool {
	return int(r.InitialStock)-r.Accepted == int(r.FinalStock)
}

// NoLostSales reports whether every sale the stock allowed was either accepted or failed,
// and no request was rejected while units remained. Stock never grows during a run,
// so a rejection with a positive final stock is a refused sale.
func (r *Report) NoLostSales() bool {
	if r.Accepted+r.Failed < r.ExpectedAccepted() {
		return false
	}
	return r.FinalStock <= 0 || r.Rejected == 0
}

// Consistent reports whether the run shows neither overselling nor lost sales.
func (r *Report) Consistent() bool {
	if !r.StockConserved() || r.FinalStock < 0 || r.NotFound > 0 {
		return false
	}
	return r.NoLostSales()
}

type Runner struct {
	client *resty.Client
	opts   Options
	logger *slog.Logger
}

func NewRunner(opts Options, logger *slog.Logger) *Runner {
	client := resty.New().
		SetBaseURL(opts.BaseURL).
		SetTimeout(opts.Timeout).
		SetHeader("Accept", "application/json")
	return &Runner{client: client, opts: opts, logger: logger}
}

// Run reads the initial stock, sends the sales with bounded concurrency and reads the final stock.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	initial, err := r.stock(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read initial stock: %w", err)
	}

	var accepted, rejected, notFound, failed atomic.Int64
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(max(r.opts.Concurrency, 1))

	start := time.Now()
	for range r.opts.Requests {
		g.Go(func() error {
			resp, err := r.client.R().
				SetContext(gCtx).
				SetPathParam("id", strconv.FormatInt(r.opts.ProductID, 10)).
				Post("/api/products/{id}/sell")
			switch {
			case err != nil:
				r.logger.Debug("sell request failed", "error", err)
				failed.Add(1)
			case resp.StatusCode() == http.StatusOK:
				accepted.Add(1)
			case resp.StatusCode() == http.StatusBadRequest:
				rejected.Add(1)
			case resp.StatusCode() == http.StatusNotFound:
				notFound.Add(1)
			default:
				r.logger.Debug("sell request failed", "status", resp.StatusCode(), "body", resp.String())
				failed.Add(1)
			}
			return gCtx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	elapsed := time.Since(start)

	final, err := r.stock(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read final stock: %w", err)
	}
	return &Report{
		ProductID:    r.opts.ProductID,
		Requests:     r.opts.Requests,
		Accepted:     int(accepted.Load()),
		Rejected:     int(rejected.Load()),
		NotFound:     int(notFound.Load()),
		Failed:       int(failed.Load()),
		InitialStock: initial,
		FinalStock:   final,
		Elapsed:      elapsed,
	}, nil
}

func (r *Runner) stock(ctx context.Context) (int32, error) {
	var products []service.ProductDto
	resp, err := r.client.R().SetContext(ctx).SetResult(&products).Get("/api/products")
	if err != nil {
		return 0, err
	}
	if resp.IsError() {
		return 0, fmt.Errorf("unexpected status %d listing products", resp.StatusCode())
	}
	for _, p := range products {
		if p.ID == r.opts.ProductID {
			return p.Stock, nil
		}
	}
	return 0, fmt.Errorf("product %d not found", r.opts.ProductID)
}
