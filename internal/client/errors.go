package client

import (
	"errors"
	"fmt"
)

// Kind classifies a fetch failure.
type Kind string

// Fetch failure kinds.
const (
	// KindNetwork covers connection failures, timeouts and unreadable files.
	KindNetwork Kind = "network"
	// KindStatus is a response with a non-2xx status code.
	KindStatus Kind = "status"
	// KindPayload is a response that could not be turned into a holdings list.
	KindPayload Kind = "payload"
	// KindCanceled is a fetch abandoned because its context was canceled.
	KindCanceled Kind = "canceled"
)

// Sentinel errors matched with errors.Is against a *FetchError.
var (
	ErrNetwork    = errors.New("network error")
	ErrStatus     = errors.New("unexpected HTTP status")
	ErrPayload    = errors.New("invalid holdings payload")
	ErrCanceled   = errors.New("fetch canceled")
	ErrNoSnapshot = errors.New("no usable snapshot")
)

// FetchError describes a failed holdings fetch.
type FetchError struct {
	Kind Kind
	URL  string

	// StatusCode is set for KindStatus.
	StatusCode int

	// Body holds the start of the response body for KindStatus.
	Body string

	Err error
}

func (e *FetchError) Error() string {
	switch e.Kind {
	case KindStatus:
		msg := fmt.Sprintf("fetching %s: HTTP %d", e.URL, e.StatusCode)
		if e.Body != "" {
			msg += ": " + e.Body
		}
		return msg
	case KindCanceled:
		return fmt.Sprintf("fetching %s: canceled", e.URL)
	default:
		if e.Err == nil {
			return fmt.Sprintf("fetching %s: %s error", e.URL, e.Kind)
		}
		return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
	}
}

// Unwrap exposes both the underlying cause and the kind sentinel.
func (e *FetchError) Unwrap() []error {
	errs := []error{e.Kind.sentinel()}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

func (k Kind) sentinel() error {
	switch k {
	case KindStatus:
		return ErrStatus
	case KindPayload:
		return ErrPayload
	case KindCanceled:
		return ErrCanceled
	default:
		return ErrNetwork
	}
}

// KindOf returns the kind of a fetch error, or "" when err is not one.
func KindOf(err error) Kind {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return ""
}

func newFetchError(kind Kind, url string, err error) *FetchError {
	return &FetchError{Kind: kind, URL: url, Err: err}
}
