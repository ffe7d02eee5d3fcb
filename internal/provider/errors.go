// file: internal/provider/errors.go
// version: 1.0.0
// guid: 4e1a7c39-8d2b-4f65-b0e3-5a9c1d7f2b86

package provider

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jdfalk/asset-store/internal/models"
)

// Sentinel errors, one per error kind. Use errors.Is against a *ProviderError.
var (
	ErrProviderDisabled = errors.New("provider not enabled")
	ErrAuth             = errors.New("provider rejected credentials")
	ErrRateLimited      = errors.New("provider rate limit exceeded")
	ErrServer           = errors.New("provider server error")
	ErrExtendedOutage   = errors.New("provider extended outage")
	ErrTransient        = errors.New("transient network error")
	ErrRequest          = errors.New("provider rejected request")
	ErrTransform        = errors.New("unexpected provider response")
)

// ErrorKind classifies a provider failure.
type ErrorKind string

const (
	KindDisabled       ErrorKind = "disabled"
	KindAuth           ErrorKind = "auth"
	KindRateLimited    ErrorKind = "rate_limited"
	KindServer         ErrorKind = "server"
	KindExtendedOutage ErrorKind = "extended_outage"
	KindTransient      ErrorKind = "network"
	KindRequest        ErrorKind = "request"
	KindTransform      ErrorKind = "transform"
)

var kindSentinels = map[ErrorKind]error{
	KindDisabled:       ErrProviderDisabled,
	KindAuth:           ErrAuth,
	KindRateLimited:    ErrRateLimited,
	KindServer:         ErrServer,
	KindExtendedOutage: ErrExtendedOutage,
	KindTransient:      ErrTransient,
	KindRequest:        ErrRequest,
	KindTransform:      ErrTransform,
}

// ProviderError is the typed failure returned by every adapter operation.
// Message is safe to show to end users.
type ProviderError struct {
	Provider   models.ProviderName
	StatusCode int
	Kind       ErrorKind
	Message    string
	Err        error
}

func (e *ProviderError) Error() string {
	return e.Message
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel for the error's kind.
func (e *ProviderError) Is(target error) bool {
	return kindSentinels[e.Kind] == target
}

// Retryable reports whether the retry policy allows another attempt.
func (e *ProviderError) Retryable() bool {
	switch e.Kind {
	case KindRateLimited, KindServer, KindTransient:
		return true
	default:
		return false
	}
}

// classifyStatus maps a non-2xx status onto a ProviderError. 522 is a
// Cloudflare origin timeout and is terminal.
func classifyStatus(name models.ProviderName, display string, status int, body string) *ProviderError {
	e := &ProviderError{Provider: name, StatusCode: status}
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		e.Kind = KindAuth
		e.Message = fmt.Sprintf("%s rejected the API key (HTTP %d). Check the key in asset store settings.", display, status)
	case status == http.StatusTooManyRequests:
		e.Kind = KindRateLimited
		e.Message = fmt.Sprintf("%s rate limit exceeded (HTTP 429). Please wait before searching again.", display)
	case status == 522:
		e.Kind = KindExtendedOutage
		e.Message = fmt.Sprintf("%s is unreachable (HTTP 522: origin connection timed out). This usually means extended maintenance on %s's side; try again later.", display, display)
	case status >= 500:
		e.Kind = KindServer
		e.Message = fmt.Sprintf("%s server error (HTTP %d). Please try again later.", display, status)
	default:
		e.Kind = KindRequest
		e.Message = fmt.Sprintf("%s request failed (HTTP %d)", display, status)
		if body != "" {
			e.Message += ": " + body
		}
	}
	return e
}

func disabledError(name models.ProviderName, display string) *ProviderError {
	return &ProviderError{
		Provider: name,
		Kind:     KindDisabled,
		Message:  fmt.Sprintf("%s provider is not enabled (missing API key or disabled in settings)", display),
	}
}

func transformError(name models.ProviderName, display string, err error) *ProviderError {
	return &ProviderError{
		Provider: name,
		Kind:     KindTransform,
		Message:  fmt.Sprintf("%s returned an unexpected response: %v", display, err),
		Err:      err,
	}
}

func networkError(name models.ProviderName, display string, err error, transient bool) *ProviderError {
	kind := KindTransient
	if !transient {
		kind = KindRequest
	}
	return &ProviderError{
		Provider: name,
		Kind:     kind,
		Message:  fmt.Sprintf("%s network error: %v", display, err),
		Err:      err,
	}
}
