package types

import (
	"errors"
	"fmt"
)

var (
	// ErrUnreachable is returned when a listing page cannot be fetched
	ErrUnreachable = errors.New("listing page unreachable")

	// ErrPageUnavailable is returned when the listing is removed, paused or ended
	ErrPageUnavailable = errors.New("listing page no longer available")

	// ErrMissingURL is returned when a catalog entry or request carries no listing URL
	ErrMissingURL = errors.New("listing URL is required")

	// ErrUnauthorized is returned when the catalog backend rejects the credentials or token
	ErrUnauthorized = errors.New("catalog backend rejected credentials")
)

// FetchErrorKind distinguishes the two ways fetching a listing can fail.
type FetchErrorKind int

const (
	// Unreachable covers network, timeout and DNS failures.
	Unreachable FetchErrorKind = iota
	// Unavailable means the server answered that the listing is gone.
	Unavailable
)

func (k FetchErrorKind) String() string {
	switch k {
	case Unavailable:
		return "unavailable"
	default:
		return "unreachable"
	}
}

// FetchError is returned by the document fetcher.
type FetchError struct {
	Kind FetchErrorKind
	URL  string
	Err  error
}

func (e *FetchError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("fetch %s: %s", e.URL, e.Kind)
	}
	return fmt.Sprintf("fetch %s: %s: %v", e.URL, e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match a FetchError against ErrUnreachable or ErrPageUnavailable.
func (e *FetchError) Is(target error) bool {
	switch target {
	case ErrUnreachable:
		return e.Kind == Unreachable
	case ErrPageUnavailable:
		return e.Kind == Unavailable
	}
	return false
}

// ExtractionFailure is returned when the extraction engine refuses a document.
type ExtractionFailure struct {
	URL    string
	Reason string
}

func (e *ExtractionFailure) Error() string {
	return fmt.Sprintf("extract %s: page unavailable: %s", e.URL, e.Reason)
}

// Is matches ErrPageUnavailable.
func (e *ExtractionFailure) Is(target error) bool {
	return target == ErrPageUnavailable
}
