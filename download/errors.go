package download

import (
	"errors"
	"fmt"
	"net"
	"net/http"
)

var (
	ErrNoViableURL       = errors.New("no viable URL")
	ErrNeedsReview       = fmt.Errorf("%w: variants need manual review", ErrNoViableURL)
	ErrForbidden         = errors.New("forbidden (403)")
	ErrTimeout           = errors.New("request timed out")
	ErrUnexpectedContent = errors.New("unexpected content")

	errTransport = errors.New("request failed")
)

// HTTPStatusError is a non-2xx response other than 403.
type HTTPStatusError struct {
	Code   int
	Status string
}

func (e *HTTPStatusError) Error() string {
	if e.Status != "" {
		return "HTTP " + e.Status
	}
	return fmt.Sprintf("HTTP %d", e.Code)
}

// Temporary returns true for responses worth retrying: rate limiting and server errors.
func (e *HTTPStatusError) Temporary() bool {
	return e.Code == http.StatusTooManyRequests || e.Code >= 500
}

// WriteError means the response was fine but the file could not be written.
type WriteError struct {
	Name string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to write %v: %v", e.Name, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

func transportError(err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	return fmt.Errorf("%w: %w", errTransport, err)
}

func isRetryable(err error) bool {
	var statusErr *HTTPStatusError
	switch {
	case errors.Is(err, ErrTimeout), errors.Is(err, errTransport):
		return true
	case errors.As(err, &statusErr):
		return statusErr.Temporary()
	default:
		return false
	}
}

func checkStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusForbidden:
		return ErrForbidden
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return &HTTPStatusError{Code: resp.StatusCode, Status: resp.Status}
	default:
		return nil
	}
}
