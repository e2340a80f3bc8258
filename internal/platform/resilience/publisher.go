// Package resilience guards outbound calls with a circuit breaker.
package resilience

import (
	"context"
	"errors"

	"github.com/abgdnv/inventory/internal/platform/config"
	"github.com/abgdnv/inventory/internal/platform/messaging"
	"github.com/sony/gobreaker/v2"
)

var _ messaging.Publisher = (*BreakerPublisher)(nil)

// BreakerPublisher fails fast with gobreaker.ErrOpenState while the broker is considered down.
type BreakerPublisher struct {
	next messaging.Publisher
	cb   *gobreaker.CircuitBreaker[any]
}

func NewBreakerPublisher(name string, next messaging.Publisher, cfg config.CircuitBreakerConfig) *BreakerPublisher {
	st := gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			total := counts.TotalSuccesses + counts.TotalFailures
			return counts.ConsecutiveFailures > cfg.ConsecutiveFailures ||
				(total > cfg.ConsecutiveFailures &&
					float64(counts.TotalFailures)/float64(total)*100 > float64(cfg.ErrorRatePercent))
		},
		IsSuccessful: func(err error) bool {
			// a cancelled caller says nothing about the broker
			return err == nil || errors.Is(err, context.Canceled)
		},
	}
	return &BreakerPublisher{next: next, cb: gobreaker.NewCircuitBreaker[any](st)}
}

func (p *BreakerPublisher) Publish(ctx context.Context, event messaging.Event) error {
	_, err := p.cb.Execute(func() (any, error) {
		return nil, p.next.Publish(ctx, event)
	})
	return err
}

// State reports the breaker state, mainly for logs and tests.
func (p *BreakerPublisher) State() gobreaker.State {
	return p.cb.State()
}
