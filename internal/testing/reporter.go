package testing

import (
	"strings"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/imamik/gcectl/internal/provisioning"
)

// Message is one recorded Report call.
type Message struct {
	Level provisioning.Level
	Text  string
}

// RecordingReporter records reported messages and answers confirmations with Answer.
type RecordingReporter struct {
	mu       sync.Mutex
	Messages []Message
	Prompts  []string
	Answer   bool
	Err      error
}

var _ provisioning.Reporter = (*RecordingReporter)(nil)

// Report implements provisioning.Reporter.
func (r *RecordingReporter) Report(level provisioning.Level, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Messages = append(r.Messages, Message{Level: level, Text: msg})
}

// Confirm implements provisioning.Reporter.
func (r *RecordingReporter) Confirm(prompt string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Prompts = append(r.Prompts, prompt)
	return r.Answer, r.Err
}

// At returns the texts reported at level, in order.
func (r *RecordingReporter) At(level provisioning.Level) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, m := range r.Messages {
		if m.Level == level {
			out = append(out, m.Text)
		}
	}
	return out
}

// Contains reports whether any message at level contains substr.
func (r *RecordingReporter) Contains(level provisioning.Level, substr string) bool {
	for _, text := range r.At(level) {
		if strings.Contains(text, substr) {
			return true
		}
	}
	return false
}

// MockReporter is a testify mock of provisioning.Reporter.
type MockReporter struct {
	mock.Mock
}

var _ provisioning.Reporter = (*MockReporter)(nil)

// Report implements provisioning.Reporter.
func (m *MockReporter) Report(level provisioning.Level, msg string) {
	m.Called(level, msg)
}

// Confirm implements provisioning.Reporter.
func (m *MockReporter) Confirm(prompt string) (bool, error) {
	args := m.Called(prompt)
	return args.Bool(0), args.Error(1)
}
