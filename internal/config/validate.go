package config

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/hay-kot/criterio"
	"github.com/rs/zerolog"
)

var (
	validBackends = []string{BackendPlaceholder, BackendGoogleTasks}
	validPolicies = []string{"confirm", "confirm-then-apply", "optimistic"}
)

// Validate checks the settings and returns criterio.FieldErrors for every
// invalid field.
func (c *Config) Validate() error {
	return criterio.ValidateStruct(
		criterio.Run("backend", c.Backend, oneOf(validBackends)),
		criterio.Run("base_url", c.BaseURL, httpURL),
		criterio.Run("policy", strings.ToLower(strings.TrimSpace(c.Policy)), oneOf(validPolicies)),
		criterio.Run("timeout", c.Timeout, duration),
		criterio.Run("log_level", c.LogLevel, logLevel),
		c.validateLimits(),
		c.validateGoogle(),
	)
}

func (c *Config) validateLimits() error {
	var errs criterio.FieldErrorsBuilder
	if c.PageSize < 1 {
		errs = errs.Append("page_size", fmt.Errorf("must be at least 1, got %d", c.PageSize))
	}
	return errs.ToError()
}

func (c *Config) validateGoogle() error {
	if c.Backend != BackendGoogleTasks {
		return nil
	}
	var errs criterio.FieldErrorsBuilder
	if strings.TrimSpace(c.Google.ListID) == "" {
		errs = errs.Append("google.list_id", fmt.Errorf("required for the %s backend", BackendGoogleTasks))
	}
	return errs.ToError()
}

func oneOf(allowed []string) func(string) error {
	return func(v string) error {
		if slices.Contains(allowed, v) {
			return nil
		}
		return fmt.Errorf("must be one of %s, got %q", strings.Join(allowed, ", "), v)
	}
}

func httpURL(v string) error {
	if v == "" {
		return nil // backend default
	}
	u, err := url.Parse(v)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("missing host")
	}
	return nil
}

func duration(v string) error {
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("invalid duration %q", v)
	}
	if d <= 0 {
		return fmt.Errorf("must be positive, got %s", v)
	}
	return nil
}

func logLevel(v string) error {
	if _, err := zerolog.ParseLevel(v); err != nil {
		return fmt.Errorf("unknown log level %q", v)
	}
	return nil
}
