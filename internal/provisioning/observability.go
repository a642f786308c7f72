package provisioning

import (
	"fmt"
	"log"

	"github.com/go-logr/logr"

	"github.com/imamik/gcectl/internal/util/pager"
	"github.com/imamik/gcectl/internal/util/poll"
)

// Level classifies a message sent to a Reporter.
type Level int

const (
	// LevelInfo is a regular progress message.
	LevelInfo Level = iota
	// LevelWarn is a non-fatal condition such as a truncated listing.
	LevelWarn
	// LevelError is a failure the user must see.
	LevelError
	// LevelStatus announces a new remote status while waiting.
	LevelStatus
	// LevelProgress is a heartbeat emitted while the remote status is unchanged.
	LevelProgress
)

func (l Level) String() string {
	switch l {
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	case LevelStatus:
		return "status"
	case LevelProgress:
		return "progress"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// Reporter is the presentation port of the lifecycle workflows.
type Reporter interface {
	// Report shows a message to the user.
	Report(level Level, msg string)

	// Confirm asks the user to approve a destructive action.
	// A false result without error means the user declined.
	Confirm(prompt string) (bool, error)
}

// LogReporter implements Reporter using the standard log package.
// Heartbeats are dropped. Confirmations are answered with AssumeYes.
type LogReporter struct {
	AssumeYes bool
}

// NewLogReporter creates a new log-based reporter.
func NewLogReporter(assumeYes bool) *LogReporter {
	return &LogReporter{AssumeYes: assumeYes}
}

// Report implements Reporter.
func (r *LogReporter) Report(level Level, msg string) {
	switch level {
	case LevelProgress:
		return
	case LevelWarn, LevelError:
		log.Printf("%s: %s", level, msg)
	default:
		log.Print(msg)
	}
}

// Confirm implements Reporter.
func (r *LogReporter) Confirm(prompt string) (bool, error) {
	log.Printf("%s? %t", prompt, r.AssumeYes)
	return r.AssumeYes, nil
}

// statusObserver forwards poll notifications to a Reporter.
type statusObserver struct {
	reporter Reporter
}

var _ poll.Observer = statusObserver{}

func (o statusObserver) StatusChanged(status string) {
	o.reporter.Report(LevelStatus, fmt.Sprintf("Current status: %s.", status))
}

func (o statusObserver) Heartbeat(string) {
	o.reporter.Report(LevelProgress, ".")
}

// pageObserver forwards pager notifications to a Reporter, the log and the metrics.
type pageObserver struct {
	resource string
	reporter Reporter
	log      logr.Logger
	metrics  *Metrics
}

var _ pager.Observer = pageObserver{}

func (o pageObserver) PageFetched(index, items int) {
	o.log.V(1).Info("fetched page", "resource", o.resource, "page", index, "items", items)
	o.metrics.recordPage(o.resource)
}

func (o pageObserver) Truncated(maxPages int) {
	o.reporter.Report(LevelWarn,
		fmt.Sprintf("Max pages (%d) reached, but more %s exist - truncating results...", maxPages, o.resource))
}
