package config

import (
	"fmt"
	"strings"
	"time"
)

// ResilienceConfig holds the breaker guarding the sale-event publisher.
type ResilienceConfig struct {
	CircuitBreaker CircuitBreakerConfig `koanf:"circuitbreaker"`
}

// CircuitBreakerConfig trips the publisher after ConsecutiveFailures in a row, or when
// ErrorRatePercent of the attempts in the current window failed.
type CircuitBreakerConfig struct {
	ConsecutiveFailures uint32        `koanf:"consecutivefailures"`
	ErrorRatePercent    int           `koanf:"errorratepercent"`
	OpenTimeout         time.Duration `koanf:"opentimeout"`
}

const (
	defaultConsecutiveFailures = 5
	defaultErrorRatePercent    = 60
	defaultOpenTimeout         = 10 * time.Second
)

func (c *ResilienceConfig) String() string {
	cb := c.CircuitBreaker
	var b strings.Builder
	b.WriteString("\n--- Sale Event Circuit Breaker ---\n")
	b.WriteString(fmt.Sprintf("  resilience.circuitbreaker: trips after %d failures or %d%% errors, reopens after %v\n",
		cb.ConsecutiveFailures, cb.ErrorRatePercent, cb.OpenTimeout))
	return b.String()
}

// Validate fills unset thresholds with defaults and rejects an out of range error rate.
func (c *ResilienceConfig) Validate() error {
	cb := &c.CircuitBreaker
	if cb.ConsecutiveFailures == 0 {
		cb.ConsecutiveFailures = defaultConsecutiveFailures
	}
	if cb.ErrorRatePercent == 0 {
		cb.ErrorRatePercent = defaultErrorRatePercent
	}
	if cb.ErrorRatePercent < 0 || cb.ErrorRatePercent > 100 {
		return fmt.Errorf("resilience.circuitbreaker.errorratepercent must be between 1 and 100, got %d", cb.ErrorRatePercent)
	}
	switch {
	case cb.OpenTimeout < 0:
		return fmt.Errorf("resilience.circuitbreaker.opentimeout must be positive, got %v", cb.OpenTimeout)
	case cb.OpenTimeout == 0:
		cb.OpenTimeout = defaultOpenTimeout
	}
	return nil
}
