package console

import (
	"bytes"
	"errors"
	"testing"

	"github.com/charmbracelet/huh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/gcectl/internal/provisioning"
)

func TestReporter_Report(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	r := NewReporter(&buf)

	r.Report(provisioning.LevelInfo, "Creating instance...")
	r.Report(provisioning.LevelStatus, "Current status: PROVISIONING.")
	r.Report(provisioning.LevelProgress, ".")
	r.Report(provisioning.LevelProgress, ".")
	r.Report(provisioning.LevelStatus, "Current status: RUNNING.")
	r.Report(provisioning.LevelWarn, "Max pages (20) reached")
	r.Report(provisioning.LevelError, "QUOTA_EXCEEDED: too many CPUs")
	r.Report(provisioning.LevelInfo, "Instance created!")

	want := "Creating instance...\n" +
		"[..] Current status: PROVISIONING.\n" +
		"..\n" +
		"[..] Current status: RUNNING.\n" +
		"[??] Max pages (20) reached\n" +
		"[!!] QUOTA_EXCEEDED: too many CPUs\n" +
		"[OK] Instance created!\n"
	assert.Equal(t, want, buf.String())
}

func TestReporter_ConfirmAssumeYes(t *testing.T) {
	t.Parallel()
	r := NewReporter(&bytes.Buffer{}, WithAssumeYes(true))
	r.interactive = func() bool {
		t.Fatal("terminal must not be checked")
		return false
	}

	ok, err := r.Confirm("Delete the disk 'z:d'")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestReporter_ConfirmRefusesWithoutTerminal(t *testing.T) {
	t.Parallel()
	r := NewReporter(&bytes.Buffer{})
	r.interactive = func() bool { return false }

	ok, err := r.Confirm("Delete the disk 'z:d'")
	require.ErrorIs(t, err, ErrNotInteractive)
	assert.False(t, ok)
}

func TestReporter_ConfirmPrompts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		answer  bool
		err     error
		wantOK  bool
		wantErr bool
	}{
		{name: "yes", answer: true, wantOK: true},
		{name: "no", answer: false, wantOK: false},
		{name: "ctrl-c counts as no", err: huh.ErrUserAborted, wantOK: false},
		{name: "prompt failure", err: errors.New("tty closed"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			var asked string
			r := NewReporter(&buf, WithPrompt(func(prompt string) (bool, error) {
				asked = prompt
				return tt.answer, tt.err
			}))
			r.Report(provisioning.LevelProgress, ".")

			ok, err := r.Confirm("Delete the instance 'z:vm'")

			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, "Delete the instance 'z:vm'", asked)
			assert.Equal(t, ".\n", buf.String(), "pending progress line is closed before prompting")
		})
	}
}

func TestRenderTable(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer

	out := RenderTable(&buf, []string{"NAME", "STATUS"}, [][]string{
		{"web-1", "RUNNING"},
		{"db-1", "TERMINATED"},
	})

	for _, s := range []string{"NAME", "STATUS", "web-1", "RUNNING", "db-1", "TERMINATED"} {
		assert.Contains(t, out, s)
	}
	assert.NotContains(t, out, "\x1b[", "no color codes for a non-terminal writer")
}
