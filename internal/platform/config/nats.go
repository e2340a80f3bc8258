package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

const (
	defaultNatsTimeout = 5 * time.Second
	defaultNatsStream  = "INVENTORY"
)

// NATSConfig configures the JetStream connection that carries sale events.
type NATSConfig struct {
	Enabled bool          `koanf:"enabled"`
	Url     string        `koanf:"url"`
	Timeout time.Duration `koanf:"timeout"`
	Stream  string        `koanf:"stream"`
}

func (c *NATSConfig) String() string {
	if !c.Enabled {
		return "\n--- NATS ---\n  nats.enabled: false\n"
	}
	var b strings.Builder
	b.WriteString("\n--- NATS ---\n")
	b.WriteString(fmt.Sprintf("  nats.url: %s\n", natsURLForLog(c.Url)))
	b.WriteString(fmt.Sprintf("  nats.timeout: %s\n", c.Timeout))
	b.WriteString(fmt.Sprintf("  nats.stream: %s\n", c.Stream))
	return b.String()
}

// Validate checks the connection settings when NATS is enabled.
// Timeout and stream fall back to 5s and INVENTORY.
func (c *NATSConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Url == "" {
		return fmt.Errorf("NATS URL is not configured")
	}
	for _, server := range strings.Split(c.Url, ",") {
		u, err := url.Parse(strings.TrimSpace(server))
		if err != nil || (u.Scheme != "nats" && u.Scheme != "tls") || u.Host == "" {
			return fmt.Errorf("invalid NATS URL %q: expected nats://host:port or tls://host:port", natsURLForLog(server))
		}
	}
	if c.Timeout < 0 {
		return fmt.Errorf("nats timeout must not be negative: %v", c.Timeout)
	}
	if c.Timeout == 0 {
		c.Timeout = defaultNatsTimeout
	}
	if c.Stream == "" {
		c.Stream = defaultNatsStream
	}
	// JetStream rejects these characters in stream names.
	if strings.ContainsAny(c.Stream, ".*> \t") {
		return fmt.Errorf("invalid NATS stream name: %q", c.Stream)
	}
	return nil
}

// natsURLForLog hides user info, which NATS URLs may carry as user:password or a token.
func natsURLForLog(raw string) string {
	if strings.Contains(raw, "@") {
		return MaskURL(raw)
	}
	return raw
}
