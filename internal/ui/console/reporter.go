package console

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"

	"github.com/imamik/gcectl/internal/provisioning"
)

// ErrNotInteractive is returned by Confirm when no terminal is available
// to ask the question and auto-confirmation was not requested.
var ErrNotInteractive = errors.New("confirmation required but stdin is not a terminal (pass --yes to confirm)")

// Reporter renders workflow messages on a writer and asks confirmations on
// the terminal.
type Reporter struct {
	mu         sync.Mutex
	out        io.Writer
	styles     styles
	assumeYes  bool
	inProgress bool

	// Replaceable for tests.
	interactive func() bool
	ask         func(prompt string) (bool, error)
}

// Option configures a Reporter.
type Option func(*Reporter)

// WithAssumeYes makes Confirm answer yes without prompting.
func WithAssumeYes(yes bool) Option {
	return func(r *Reporter) {
		r.assumeYes = yes
	}
}

// WithPrompt replaces the interactive prompt and the terminal check.
func WithPrompt(ask func(prompt string) (bool, error)) Option {
	return func(r *Reporter) {
		r.ask = ask
		r.interactive = func() bool { return true }
	}
}

// NewReporter creates a Reporter writing to out.
func NewReporter(out io.Writer, opts ...Option) *Reporter {
	r := &Reporter{
		out:         out,
		styles:      newStyles(out),
		interactive: stdinIsTerminal,
		ask:         askConfirm,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var _ provisioning.Reporter = (*Reporter)(nil)

// Report writes msg styled by level. Progress messages are appended to the
// current line until the next non-progress message.
func (r *Reporter) Report(level provisioning.Level, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if level == provisioning.LevelProgress {
		fmt.Fprint(r.out, r.styles.progress.Render(msg))
		r.inProgress = true
		return
	}
	r.endProgress()

	var line string
	switch level {
	case provisioning.LevelWarn:
		line = r.styles.warning.Render(warnMark + " " + msg)
	case provisioning.LevelError:
		line = r.styles.failure.Render(crossMark + " " + msg)
	case provisioning.LevelStatus:
		line = r.styles.status.Render(infoMark + " " + msg)
	default:
		if isCompletion(msg) {
			line = r.styles.success.Render(checkMark + " " + msg)
		} else {
			line = r.styles.info.Render(msg)
		}
	}
	fmt.Fprintln(r.out, line)
}

// Confirm asks prompt as a yes/no question.
func (r *Reporter) Confirm(prompt string) (bool, error) {
	if r.assumeYes {
		return true, nil
	}
	if !r.interactive() {
		return false, ErrNotInteractive
	}

	r.mu.Lock()
	r.endProgress()
	r.mu.Unlock()

	ok, err := r.ask(prompt)
	if errors.Is(err, huh.ErrUserAborted) {
		return false, nil
	}
	return ok, err
}

// endProgress terminates a line of progress dots. Callers hold mu.
func (r *Reporter) endProgress() {
	if r.inProgress {
		fmt.Fprintln(r.out)
		r.inProgress = false
	}
}

func isCompletion(msg string) bool {
	for _, suffix := range []string{"created!", "deleted.", "successfully."} {
		if strings.HasSuffix(msg, suffix) {
			return true
		}
	}
	return false
}

func stdinIsTerminal() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func askConfirm(prompt string) (bool, error) {
	var ok bool
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(prompt + "?").
				Affirmative("Yes").
				Negative("No").
				Value(&ok),
		),
	).Run()
	return ok, err
}
