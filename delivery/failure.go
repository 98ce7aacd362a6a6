package delivery

import (
	"errors"
	"fmt"

	"github.com/byceps/announce/id"
)

// ErrUnexpectedStatus is wrapped by a WebhookFailure whose target answered
// with a status other than the expected one.
var ErrUnexpectedStatus = errors.New("announce: unexpected response status")

// WebhookFailure reports a delivery the target did not accept: either a
// status mismatch or a transport error (StatusCode 0).
type WebhookFailure struct {
	WebhookID  id.ID
	StatusCode int
	Err        error
}

func (f *WebhookFailure) Error() string {
	if f.StatusCode != 0 {
		return fmt.Sprintf("announce: webhook %s failed with status %d: %v", f.WebhookID, f.StatusCode, f.Err)
	}
	return fmt.Sprintf("announce: webhook %s failed: %v", f.WebhookID, f.Err)
}

func (f *WebhookFailure) Unwrap() error { return f.Err }

// Status returns the response status, 0 if none was received.
func (f *WebhookFailure) Status() int { return f.StatusCode }
