package session

import "errors"

var (
	// ErrProviderRequired is returned when a byte provider is not provided.
	ErrProviderRequired = errors.New("byte provider required")

	// ErrContinuationRepositoryRequired is returned when a continuation repository is not provided.
	ErrContinuationRepositoryRequired = errors.New("continuation repository required")

	// ErrNoContinuation is returned by FindNext when there is nothing to resume.
	ErrNoContinuation = errors.New("no search to continue")

	// ErrBusy is returned when the session is already running a search.
	ErrBusy = errors.New("a search is already running")
)
