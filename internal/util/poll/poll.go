package poll

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"k8s.io/utils/clock"
)

// Snapshot is one observation of a remote status.
type Snapshot struct {
	Status string
	// Errors is only meaningful once Status equals the desired status.
	Errors []StatusError
}

// StatusError is a single (code, message) failure carried by a snapshot.
type StatusError struct {
	Code    string
	Message string
}

// FetchFunc returns the current status of the remote object.
type FetchFunc func(ctx context.Context) (Snapshot, error)

// Observer receives progress notifications from a poll session.
type Observer interface {
	// StatusChanged is called when an observed status differs from the previous one.
	StatusChanged(status string)
	// Heartbeat is called when the observed status is unchanged.
	Heartbeat(status string)
}

type nopObserver struct{}

func (nopObserver) StatusChanged(string) {}
func (nopObserver) Heartbeat(string)     {}

// Config holds poll configuration.
type Config struct {
	Timeout  time.Duration
	Interval time.Duration
	Clock    clock.Clock
	Observer Observer
}

// Option is a functional option for poll configuration.
type Option func(*Config)

// WithTimeout sets the wall-clock budget of the session.
func WithTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.Timeout = d
	}
}

// WithInterval sets the sleep between two polls.
func WithInterval(d time.Duration) Option {
	return func(c *Config) {
		c.Interval = d
	}
}

// WithClock sets the clock used for sleeping and measuring elapsed time.
func WithClock(clk clock.Clock) Option {
	return func(c *Config) {
		c.Clock = clk
	}
}

// WithObserver sets the receiver of status change and heartbeat notifications.
func WithObserver(o Observer) Option {
	return func(c *Config) {
		if o != nil {
			c.Observer = o
		}
	}
}

// Until calls fetch until the returned status equals desired or the timeout
// elapses, sleeping Interval between polls.
//
// Reaching desired with a non-empty error list yields an *OperationError.
// Running out of time yields a *TimeoutError and no further poll is issued.
// A fetch error or a cancelled context ends the session immediately.
func Until(ctx context.Context, fetch FetchFunc, desired string, opts ...Option) error {
	cfg := &Config{
		Timeout:  10 * time.Minute,
		Interval: 2 * time.Second,
		Clock:    clock.RealClock{},
		Observer: nopObserver{},
	}

	for _, opt := range opts {
		opt(cfg)
	}

	start := cfg.Clock.Now()
	lastStatus := ""

	for polls := 0; ; polls++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("polling cancelled after %d polls: %w", polls, err)
		}

		snap, err := fetch(ctx)
		if err != nil {
			return fmt.Errorf("failed to fetch status: %w", err)
		}

		if snap.Status == desired {
			if len(snap.Errors) > 0 {
				return &OperationError{Status: snap.Status, Errors: snap.Errors}
			}
			return nil
		}

		if snap.Status != lastStatus {
			lastStatus = snap.Status
			cfg.Observer.StatusChanged(snap.Status)
		} else {
			cfg.Observer.Heartbeat(snap.Status)
		}

		cfg.Clock.Sleep(cfg.Interval)

		if elapsed := cfg.Clock.Since(start); elapsed >= cfg.Timeout {
			return &TimeoutError{
				Desired:    desired,
				LastStatus: lastStatus,
				Timeout:    cfg.Timeout,
				Polls:      polls + 1,
			}
		}
	}
}

// OperationError reports a session that reached its desired status while
// carrying failures.
type OperationError struct {
	Status string
	Errors []StatusError
}

func (e *OperationError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, se := range e.Errors {
		parts = append(parts, fmt.Sprintf("%s: %s", se.Code, se.Message))
	}
	return fmt.Sprintf("operation reached %s with errors: %s", e.Status, strings.Join(parts, "; "))
}

// TimeoutError reports a session that did not reach its desired status in time.
type TimeoutError struct {
	Desired    string
	LastStatus string
	Timeout    time.Duration
	Polls      int
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("request did not reach %s in %s (last status %q after %d polls); check the Google Cloud Console for more info",
		e.Desired, e.Timeout, e.LastStatus, e.Polls)
}

// IsTimeout checks if an error is a poll timeout.
func IsTimeout(err error) bool {
	var timeoutErr *TimeoutError
	return errors.As(err, &timeoutErr)
}

// IsOperationError checks if an error is an operation that finished with failures.
func IsOperationError(err error) bool {
	var opErr *OperationError
	return errors.As(err, &opErr)
}
