package analysis

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FailureMessage is the only message callers ever see for a failed analysis
const FailureMessage = "Failed to analyze book list"

var (
	// ErrAnalysisFailed matches every error returned by Analyze
	ErrAnalysisFailed = errors.New(FailureMessage)

	ErrMissingCredential = errors.New("gemini api key is not configured")
	ErrEmptyResponse     = errors.New("no response from gemini")
	ErrMalformedResponse = errors.New("malformed analysis response")
	ErrTransport         = errors.New("gemini request failed")
	// ErrInvalidRequest is returned when the book list cannot be serialized (e.g. a NaN price)
	ErrInvalidRequest = errors.New("analysis request could not be built")
	// ErrRateLimited is a transport failure caused by quota exhaustion
	ErrRateLimited = fmt.Errorf("%w: rate limited", ErrTransport)
)

// Error is the uniform failure returned to callers.
// It exposes the failure kind for errors.Is but never the underlying cause.
type Error struct {
	Kind error
	// ctxErr is set when the caller's context ended the request
	ctxErr error
}

func (e *Error) Error() string {
	return FailureMessage
}

func (e *Error) Is(target error) bool {
	return target == ErrAnalysisFailed
}

func (e *Error) Unwrap() []error {
	if e.ctxErr != nil {
		return []error{e.Kind, e.ctxErr}
	}
	return []error{e.Kind}
}

// classifyTransportError maps a generator failure onto a failure kind
func classifyTransportError(ctx context.Context, err error) *Error {
	failure := &Error{Kind: ErrTransport}
	if isRateLimitError(err) {
		failure.Kind = ErrRateLimited
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		failure.ctxErr = ctxErr
	} else if errors.Is(err, context.DeadlineExceeded) {
		failure.ctxErr = context.DeadlineExceeded
	}
	return failure
}

// isRateLimitError checks if the error is a Gemini API rate limit error
func isRateLimitError(err error) bool {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusTooManyRequests || apiErr.Status == "RESOURCE_EXHAUSTED"
	}
	// Check for gRPC ResourceExhausted status
	if s, ok := status.FromError(err); ok {
		return s.Code() == codes.ResourceExhausted
	}
	// Plain text errors only count when they carry a status name, never a bare number
	errStr := err.Error()
	return strings.Contains(errStr, "ResourceExhausted") ||
		strings.Contains(errStr, "RESOURCE_EXHAUSTED") ||
		strings.Contains(errStr, "Too Many Requests") ||
		strings.Contains(errStr, "rate limit exceeded")
}
