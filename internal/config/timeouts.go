package config

import (
	"os"
	"strconv"
	"time"
)

// Timeouts holds the wait budgets of asynchronous operations.
// These values can be customized via environment variables.
type Timeouts struct {
	OperationWait time.Duration `mapstructure:"operation_wait" yaml:"operation_wait" validate:"gt=0"` // Budget of one poll session
	PollInterval  time.Duration `mapstructure:"poll_interval" yaml:"poll_interval" validate:"gt=0"`   // Sleep between two polls
}

// Paging bounds list calls.
type Paging struct {
	MaxPages int   `mapstructure:"max_pages" yaml:"max_pages" validate:"min=1"`
	PageSize int64 `mapstructure:"page_size" yaml:"page_size" validate:"min=1,max=500"`
}

// LoadTimeouts loads timeout configuration from environment variables.
// If an environment variable is not set or invalid, a default value is used.
//
// Environment Variables:
//   - GCE_TIMEOUT_OPERATION_WAIT (default: 600s)
//   - GCE_POLL_INTERVAL (default: 2s)
func LoadTimeouts() *Timeouts {
	return &Timeouts{
		OperationWait: parseDuration("GCE_TIMEOUT_OPERATION_WAIT", 600*time.Second),
		PollInterval:  parseDuration("GCE_POLL_INTERVAL", 2*time.Second),
	}
}

// LoadPaging loads list limits from environment variables.
//
// Environment Variables:
//   - GCE_MAX_PAGES (default: 20)
//   - GCE_PAGE_SIZE (default: 100)
func LoadPaging() *Paging {
	return &Paging{
		MaxPages: parseInt("GCE_MAX_PAGES", 20),
		PageSize: int64(parseInt("GCE_PAGE_SIZE", 100)),
	}
}

// TestTimeouts returns short timeouts for use in tests.
func TestTimeouts() *Timeouts {
	return &Timeouts{
		OperationWait: 100 * time.Millisecond,
		PollInterval:  10 * time.Millisecond,
	}
}

// parseDuration parses a duration from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseDuration(envVar string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}

	return d
}

// parseInt parses an integer from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseInt(envVar string, defaultVal int) int {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}

	return i
}
