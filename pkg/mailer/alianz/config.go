package alianz

import (
	"errors"
	"time"

	"github.com/dmitrymomot/alianzmail/pkg/validator"
)

// Default configuration values.
const (
	DefaultEndpoint     = "https://api.alianzmail.com/v1/mail/send"
	DefaultTimeout      = 30 * time.Second
	DefaultMaxRedirects = 10
	DefaultUserAgent    = "alianzmail-go"
)

// Config holds transport configuration. It decodes with viper through the
// mapstructure tags.
type Config struct {
	// Endpoint is the full URL of the send endpoint.
	Endpoint string `mapstructure:"endpoint" validate:"required,url"`

	// UserAgent is sent with every request.
	UserAgent string `mapstructure:"user_agent"`

	// Timeout bounds a whole exchange, redirects included.
	Timeout time.Duration `mapstructure:"timeout" validate:"gte=0"`

	// MaxRedirects caps followed redirects. Zero means the default,
	// a negative value disables redirects.
	MaxRedirects int `mapstructure:"max_redirects"`

	// InsecureSkipVerify disables TLS certificate verification.
	// Only for test endpoints with self-signed certificates.
	InsecureSkipVerify bool `mapstructure:"insecure_skip_verify"`
}

// applyDefaults fills in default values for empty config fields.
func (c *Config) applyDefaults() {
	if c.Endpoint == "" {
		c.Endpoint = DefaultEndpoint
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.MaxRedirects == 0 {
		c.MaxRedirects = DefaultMaxRedirects
	}
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
}

func (c *Config) validate() error {
	if err := validator.Validate(c); err != nil {
		return errors.Join(ErrInvalidConfig, err)
	}
	return nil
}
