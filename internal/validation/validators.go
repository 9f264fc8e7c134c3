package validation

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/ulule/limiter/v3"
)

var (
	// Validate is a shared validator instance
	Validate *validator.Validate
)

func init() {
	Validate = validator.New()

	if err := Validate.RegisterValidation("origin", validateOrigin); err != nil {
		panic(fmt.Sprintf("failed to register origin validator: %v", err))
	}
	if err := Validate.RegisterValidation("ratelimit_rate", validateRateLimit); err != nil {
		panic(fmt.Sprintf("failed to register ratelimit_rate validator: %v", err))
	}
}

// validateOrigin accepts a serialized origin: scheme and host, no path, query or fragment.
func validateOrigin(fl validator.FieldLevel) bool {
	return ValidateOrigin(fl.Field().String()) == nil
}

func validateRateLimit(fl validator.FieldLevel) bool {
	return ValidateRateLimit(fl.Field().String()) == nil
}

// ValidateOrigin checks that value is an origin such as "https://app.example.com" or
// "http://localhost:3000".
func ValidateOrigin(value string) error {
	u, err := url.Parse(value)
	if err != nil {
		return fmt.Errorf("invalid origin %q: %w", value, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid origin %q: scheme must be http or https", value)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid origin %q: missing host", value)
	}
	if (u.Path != "" && u.Path != "/") || u.RawQuery != "" || u.Fragment != "" || u.User != nil {
		return fmt.Errorf("invalid origin %q: must not contain path, query, fragment or credentials", value)
	}
	if strings.HasSuffix(value, "/") {
		return fmt.Errorf("invalid origin %q: trailing slash never matches a browser Origin header", value)
	}
	return nil
}

// ValidateRateLimit checks a limiter rate such as "5-S", "100-M" or "1000-H".
func ValidateRateLimit(value string) error {
	if _, err := limiter.NewRateFromFormatted(value); err != nil {
		return fmt.Errorf("invalid rate %q (expected <limit>-<S|M|H|D>): %w", value, err)
	}
	return nil
}
