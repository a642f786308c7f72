package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report configuration keys rather than Go field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("mapstructure"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

// MissingError lists every required configuration key without a value.
type MissingError struct {
	Keys []string
}

func (e *MissingError) Error() string {
	return fmt.Sprintf("missing required configuration: %s (set them in the config file, as flags or as %s_* environment variables)",
		strings.Join(e.Keys, ", "), EnvPrefix)
}

// Validate checks the configuration. Missing required keys are reported
// together in a *MissingError; other violations are joined into one error.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("failed to validate config: %w", err)
	}

	var missing []string
	var invalid []error
	for _, fe := range verrs {
		key := fieldKey(fe)
		if fe.Tag() == "required" {
			missing = append(missing, key)
			continue
		}
		invalid = append(invalid, fmt.Errorf("invalid %s %v: must satisfy %s", key, fe.Value(), constraint(fe)))
	}

	if len(missing) > 0 {
		return &MissingError{Keys: missing}
	}
	return errors.Join(invalid...)
}

// fieldKey turns "Config.timeouts.poll_interval" into "timeouts.poll_interval".
func fieldKey(fe validator.FieldError) string {
	_, key, found := strings.Cut(fe.Namespace(), ".")
	if !found {
		return fe.Field()
	}
	return key
}

func constraint(fe validator.FieldError) string {
	if fe.Param() == "" {
		return fe.Tag()
	}
	return fe.Tag() + "=" + fe.Param()
}
