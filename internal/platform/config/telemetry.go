package config

import (
	"fmt"
	"strings"
	"time"
)

const defaultOtlpTimeout = 5 * time.Second

// TelemetryConfig configures trace export and the Prometheus endpoint.
type TelemetryConfig struct {
	Traces  TracesConfig  `koanf:"traces"`
	Metrics MetricsConfig `koanf:"metrics"`
}

type TracesConfig struct {
	Enabled  bool           `koanf:"enabled"`
	OtlpHttp OtlpHttpConfig `koanf:"otlphttp"`
}

type OtlpHttpConfig struct {
	Endpoint string        `koanf:"endpoint"`
	Insecure bool          `koanf:"insecure"`
	Timeout  time.Duration `koanf:"timeout"`
}

// MetricsConfig toggles the Prometheus /metrics endpoint.
type MetricsConfig struct {
	Enabled bool `koanf:"enabled"`
}

func (c *TelemetryConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- Telemetry ---\n")
	if c.Traces.Enabled {
		o := c.Traces.OtlpHttp
		b.WriteString(fmt.Sprintf("  telemetry.traces: otlp/http %s (insecure=%t, timeout=%v)\n", o.Endpoint, o.Insecure, o.Timeout))
	} else {
		b.WriteString("  telemetry.traces: disabled\n")
	}
	b.WriteString(fmt.Sprintf("  telemetry.metrics: /metrics enabled=%t\n", c.Metrics.Enabled))
	return b.String()
}

// Validate requires an OTLP endpoint when tracing is on. The export timeout defaults to 5s.
func (c *TelemetryConfig) Validate() error {
	if !c.Traces.Enabled {
		return nil
	}
	o := &c.Traces.OtlpHttp
	if o.Endpoint == "" {
		return fmt.Errorf("OTel endpoint is not configured")
	}
	if strings.Contains(o.Endpoint, "://") {
		return fmt.Errorf("telemetry.traces.otlphttp.endpoint must be host:port without a scheme, got %q", o.Endpoint)
	}
	switch {
	case o.Timeout < 0:
		return fmt.Errorf("telemetry timeout must not be negative: %v", o.Timeout)
	case o.Timeout == 0:
		o.Timeout = defaultOtlpTimeout
	}
	return nil
}
