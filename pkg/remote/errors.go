package remote

import (
	"fmt"
	"net/http"

	"github.com/brandonnguyen11/rosterAI/pkg/apperrors"
	"github.com/brandonnguyen11/rosterAI/pkg/retry"
)

// Error is a failed call to a remote service. It always matches
// apperrors.ErrRemoteUnavailable under errors.Is.
type Error struct {
	Service    string
	StatusCode int // 0 when no response was received
	Retryable  bool
	Cause      error
}

var _ retry.RetryableError = (*Error)(nil)

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s returned status %d", e.Service, e.StatusCode)
	}
	return fmt.Sprintf("%s request failed: %v", e.Service, e.Cause)
}

func (e *Error) IsRetryable() bool {
	return e.Retryable
}

// HTTPStatus lets retry bucket repeated failures by status code.
func (e *Error) HTTPStatus() int {
	return e.StatusCode
}

func (e *Error) Unwrap() []error {
	if e.Cause == nil {
		return []error{apperrors.ErrRemoteUnavailable}
	}
	return []error{apperrors.ErrRemoteUnavailable, e.Cause}
}

// retryableStatus reports whether a response status is worth retrying.
func retryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}
