// Package handlers implements the business logic for CLI commands.
//
// Each handler loads the configuration, builds a provisioning.Manager
// against the Compute Engine API and renders the result. Collaborators are
// package-level factory variables so tests can replace them.
package handlers

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/go-logr/logr"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/pflag"

	"github.com/imamik/gcectl/internal/config"
	"github.com/imamik/gcectl/internal/platform/gce"
	"github.com/imamik/gcectl/internal/provisioning"
	"github.com/imamik/gcectl/internal/ui/console"
)

// MetricsFileEnv names the file that receives the run's metrics in the
// Prometheus text format.
const MetricsFileEnv = "GCECTL_METRICS_FILE"

// Session carries the global command-line state into a handler.
type Session struct {
	ConfigPath string
	Flags      *pflag.FlagSet
	Verbosity  int
	AssumeYes  bool
	Out        io.Writer // results
	Err        io.Writer // progress, prompts and logs
}

// Factory function variables - can be replaced in tests.
var (
	// loadConfig resolves the configuration from file, environment and flags.
	loadConfig = config.Load

	// newGateway creates the Compute Engine client.
	newGateway = func(cfg *config.Config) gce.Gateway {
		return gce.NewRealClient(
			gce.WithCredentialsFile(cfg.CredentialsFile),
			gce.WithEndpoint(cfg.Endpoint),
		)
	}

	// newReporter creates the console reporter.
	newReporter = func(s Session) provisioning.Reporter {
		return console.NewReporter(s.Err, console.WithAssumeYes(s.AssumeYes))
	}

	// newManager creates the lifecycle manager.
	newManager = provisioning.NewManager
)

// run is the state shared by one handler invocation.
type run struct {
	cfg      *config.Config
	mgr      *provisioning.Manager
	reporter provisioning.Reporter
	log      logr.Logger
	registry *prometheus.Registry
	out      io.Writer
}

func start(s Session) (*run, error) {
	cfg, err := loadConfig(s.ConfigPath, s.Flags)
	if err != nil {
		return nil, err
	}

	log := newLogger(s.Err, s.Verbosity)
	registry := prometheus.NewRegistry()
	reporter := newReporter(s)

	mgr := newManager(newGateway(cfg), cfg.Project, cfg.Zone,
		provisioning.WithReporter(reporter),
		provisioning.WithLogger(log),
		provisioning.WithMetrics(provisioning.NewMetrics(registry)),
		provisioning.WithTimeouts(cfg.Timeouts),
		provisioning.WithPaging(cfg.Paging),
	)
	log.V(1).Info("configuration loaded", "project", cfg.Project, "zone", cfg.Zone, "output", cfg.Output)

	return &run{cfg: cfg, mgr: mgr, reporter: reporter, log: log, registry: registry, out: s.Out}, nil
}

// finish flushes metrics and turns a declined confirmation into a clean exit.
func (r *run) finish(err error) error {
	if path := os.Getenv(MetricsFileEnv); path != "" {
		if werr := prometheus.WriteToTextfile(path, r.registry); werr != nil {
			r.log.Error(werr, "failed to write metrics", "path", path)
		}
	}

	if errors.Is(err, provisioning.ErrAborted) {
		r.reporter.Report(provisioning.LevelInfo, "Aborted.")
		return nil
	}
	return err
}

// newLogger backs logr with a tint handler. Each -v enables one more logr
// verbosity level.
func newLogger(w io.Writer, verbosity int) logr.Logger {
	handler := tint.NewHandler(w, &tint.Options{
		Level:      slog.Level(-verbosity),
		TimeFormat: time.Kitchen,
		NoColor:    !isTerminal(w),
	})
	return logr.FromSlogHandler(handler)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func wrap(action string, err error) error {
	if err == nil || errors.Is(err, provisioning.ErrAborted) {
		return err
	}
	return fmt.Errorf("failed to %s: %w", action, err)
}
