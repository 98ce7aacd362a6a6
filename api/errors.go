package api

import (
	"errors"
	"net/http"

	"github.com/byceps/announce"
	"github.com/byceps/announce/event"
	"github.com/byceps/announce/webhook"
)

// ErrInvalidRequest marks malformed input that never reached a service.
var ErrInvalidRequest = errors.New("invalid request")

func invalidRequest(msg string) error {
	return &requestError{msg: msg}
}

type requestError struct{ msg string }

func (e *requestError) Error() string { return e.msg }
func (e *requestError) Unwrap() error { return ErrInvalidRequest }

// statusFor maps an error to the HTTP status the admin API answers with.
func statusFor(err error) int {
	var (
		validation *webhook.ValidationError
		failure    *announce.WebhookFailure
	)

	switch {
	case errors.Is(err, announce.ErrWebhookNotFound),
		errors.Is(err, announce.ErrJobNotFound),
		errors.Is(err, announce.ErrFailureNotFound):
		return http.StatusNotFound
	case errors.As(err, &validation),
		errors.Is(err, ErrInvalidRequest),
		errors.Is(err, announce.ErrWebhookConfigMalformed),
		errors.Is(err, announce.ErrUnknownEventName),
		errors.Is(err, announce.ErrUnregisteredEvent),
		errors.Is(err, event.ErrUnknownKind):
		return http.StatusBadRequest
	case errors.As(err, &failure):
		return http.StatusBadGateway
	case errors.Is(err, announce.ErrStopped):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
