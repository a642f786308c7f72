package provisioning

import (
	"errors"

	"github.com/imamik/gcectl/internal/util/poll"
)

// ErrAborted is returned when the user declines a confirmation.
var ErrAborted = errors.New("aborted by user")

// Metric result labels.
const (
	resultSuccess  = "success"
	resultNotFound = "not_found"
	resultAborted  = "aborted"
	resultInvalid  = "invalid"
	resultTimeout  = "timeout"
	resultFailed   = "failed"
)

func resultLabel(err error) string {
	switch {
	case err == nil:
		return resultSuccess
	case errors.Is(err, ErrAborted):
		return resultAborted
	case IsValidationError(err):
		return resultInvalid
	case poll.IsTimeout(err):
		return resultTimeout
	default:
		return resultFailed
	}
}
