package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrPaginationInvariant signals a batch response spanning more than one page.
	// The batch budget is mistuned; retrying cannot help.
	ErrPaginationInvariant = errors.New("provider returned more than one page")
	// ErrEmptyBatch signals that shrinking a batch to fit the length budget would empty it.
	ErrEmptyBatch = errors.New("batch would be empty")
	// ErrNoData signals that a query produced no observations.
	ErrNoData = errors.New("no data")
	// ErrProvider signals an indicator provider failure.
	ErrProvider = errors.New("indicator provider error")
	// ErrRateLimited signals a rate limit hit.
	ErrRateLimited = errors.New("rate limited")
	// ErrInvalidConfig signals unusable pipeline settings.
	ErrInvalidConfig = errors.New("invalid config")
)

// PageCountError wraps ErrPaginationInvariant with the offending request.
type PageCountError struct {
	Pages    int
	SourceID string
	Codes    string
}

func (e *PageCountError) Error() string {
	return fmt.Sprintf("%s: got %d pages for source %s indicators %s",
		ErrPaginationInvariant.Error(), e.Pages, e.SourceID, e.Codes)
}

func (e *PageCountError) Unwrap() error { return ErrPaginationInvariant }

// NewPageCountError creates a pagination invariant error.
func NewPageCountError(pages int, sourceID, codes string) error {
	return &PageCountError{Pages: pages, SourceID: sourceID, Codes: codes}
}

// IsFatal reports whether err is a configuration-fatal error that must not be retried.
func IsFatal(err error) bool {
	return errors.Is(err, ErrPaginationInvariant) ||
		errors.Is(err, ErrEmptyBatch) ||
		errors.Is(err, ErrInvalidConfig)
}
