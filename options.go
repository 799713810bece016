package dwjdbc

import (
	"fmt"
	"net/http"
)

// Option represents a configuration option
type Option func(*Client)

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithAuthToken sets the bearer token for the Authorization header. An
// empty token means no Authorization header is sent.
func WithAuthToken(token string) Option {
	return func(c *Client) {
		c.authToken = token
	}
}

// WithParsers replaces the parser registry. Order matters: it encodes
// server-response preference, highest priority first.
func WithParsers(parsers ...StreamParser) Option {
	return func(c *Client) {
		c.parsers = parsers
	}
}

// WithSpillThreshold sets the byte count past which a response body spills
// from memory to a temporary file.
func WithSpillThreshold(n int) Option {
	return func(c *Client) {
		c.spillThreshold = n
	}
}

// WithTransport sets a custom base RoundTripper for the per-call HTTP
// clients. Timeout and redirect policy still apply on top of it.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.transport = rt
	}
}

// WithMetrics enables Prometheus metrics collection on the default registerer.
func WithMetrics() Option {
	return func(c *Client) {
		c.metrics = NewMetricsCollector()
	}
}

// WithMetricsCollector sets a custom metrics collector
func WithMetricsCollector(collector *MetricsCollector) Option {
	return func(c *Client) {
		c.metrics = collector
	}
}

// WithLogger sets a custom logger for debug output
func WithLogger(logger Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug enables debug logging of the request lifecycle.
func WithDebug() Option {
	return func(c *Client) {
		c.debug = true
	}
}

// WithSimpleLogger enables debug logging with a simple console logger
func WithSimpleLogger() Option {
	return func(c *Client) {
		c.debug = true
		c.logger = NewSimpleLogger()
	}
}

// ValidateConfiguration validates the client configuration and returns an error if invalid
func (c *Client) ValidateConfiguration() error {
	var errors []string

	errors = append(errors, c.validateEndpointConfig()...)
	errors = append(errors, c.validateParserConfig()...)
	errors = append(errors, c.validateBufferConfig()...)
	errors = append(errors, c.validateHeaderConfig()...)

	if len(errors) > 0 {
		return fmt.Errorf("validation errors: %v", errors)
	}
	return nil
}

func (c *Client) validateEndpointConfig() []string {
	var errors []string

	if c.endpoint == nil {
		errors = append(errors, "endpoint must be a valid URL")
	} else if c.endpoint.Scheme != "http" && c.endpoint.Scheme != "https" {
		errors = append(errors, fmt.Sprintf("endpoint scheme %q is not http or https", c.endpoint.Scheme))
	}

	return errors
}

func (c *Client) validateParserConfig() []string {
	var errors []string

	if len(c.parsers) == 0 {
		errors = append(errors, "at least one parser must be registered")
	}
	for i, p := range c.parsers {
		if p == nil {
			errors = append(errors, fmt.Sprintf("parsers[%d] cannot be nil", i))
		}
	}

	return errors
}

func (c *Client) validateBufferConfig() []string {
	var errors []string

	if c.spillThreshold <= 0 {
		errors = append(errors, "spillThreshold must be positive")
	}

	return errors
}

func (c *Client) validateHeaderConfig() []string {
	var errors []string

	if c.userAgent == "" {
		errors = append(errors, "userAgent must not be empty")
	}

	return errors
}
