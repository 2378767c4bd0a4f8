package batch

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aws/smithy-go"
)

// Sentinel errors for service operations.
var (
	// ErrNotFound indicates the job, queue, or log stream does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAccessDenied indicates insufficient permissions.
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidCredentials indicates authentication failed or the token expired.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrThrottled indicates the request was rate limited by the service.
	ErrThrottled = errors.New("request throttled")

	// ErrUnavailable indicates a server side failure.
	ErrUnavailable = errors.New("service unavailable")
)

// ServiceError wraps a failed Job Service or Log Service call with context.
type ServiceError struct {
	// Op is the operation that failed (e.g. "ListJobs", "GetLogEvents").
	Op string

	// Target is the queue, job id, or stream the call addressed.
	Target string

	// Kind is one of the sentinel errors above, or nil when unclassified.
	Kind error

	// Err is the underlying SDK error.
	Err error
}

// Error implements the error interface.
func (e *ServiceError) Error() string {
	if e.Target != "" {
		return fmt.Sprintf("batch %s %s: %v", e.Op, e.Target, e.Err)
	}
	return fmt.Sprintf("batch %s: %v", e.Op, e.Err)
}

// Unwrap exposes both the classification and the SDK error to errors.Is/As.
func (e *ServiceError) Unwrap() []error {
	if e.Kind == nil {
		return []error{e.Err}
	}
	return []error{e.Kind, e.Err}
}

// IsThrottled returns true if the error indicates rate limiting.
func IsThrottled(err error) bool {
	return errors.Is(err, ErrThrottled)
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func wrapError(op, target string, err error) error {
	if err == nil {
		return nil
	}
	return &ServiceError{Op: op, Target: target, Kind: classify(err), Err: err}
}

func classify(err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "ResourceNotFoundException", "NotFoundException":
			return ErrNotFound
		case "AccessDeniedException", "AccessDenied":
			return ErrAccessDenied
		case "UnrecognizedClientException", "InvalidSignatureException", "ExpiredTokenException", "InvalidClientTokenId":
			return ErrInvalidCredentials
		case "ThrottlingException", "TooManyRequestsException", "Throttling", "RequestLimitExceeded":
			return ErrThrottled
		case "ServerException", "ServiceUnavailableException", "InternalFailure":
			return ErrUnavailable
		}
		return nil
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "Throttling") || strings.Contains(msg, "429"):
		return ErrThrottled
	case strings.Contains(msg, "AccessDenied") || strings.Contains(msg, "403"):
		return ErrAccessDenied
	case strings.Contains(msg, "ResourceNotFound"):
		return ErrNotFound
	}
	return nil
}
