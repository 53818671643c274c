package pagespeed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// Kind identifies a caller-facing error category.
type Kind string

const (
	KindMissingInput       Kind = "missing_input"
	KindInvalidURL         Kind = "invalid_url"
	KindInvalidStrategy    Kind = "invalid_strategy"
	KindMalformedPayload   Kind = "malformed_upstream_payload"
	KindBadUpstreamRequest Kind = "bad_upstream_request"
	KindCredential         Kind = "credential_error"
	KindRateLimited        Kind = "upstream_rate_limited"
	KindUpstream           Kind = "upstream_error"
	KindTimeout            Kind = "timeout"
	KindInternal           Kind = "internal_error"
)

// Error is the classified error surfaced to callers. Message is always safe
// to echo in a response; the wrapped cause is for logs only.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Details []string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

func newError(kind Kind, status int, message string) *Error {
	return &Error{Kind: kind, Status: status, Message: message}
}

func validationError(kind Kind, message string) *Error {
	return newError(kind, http.StatusBadRequest, message)
}

func malformedError(message string) *Error {
	return newError(KindMalformedPayload, http.StatusInternalServerError, message)
}

func internalError(message string, cause error) *Error {
	e := newError(KindInternal, http.StatusInternalServerError, message)
	e.cause = cause
	return e
}

// upstreamErrorEnvelope mirrors the provider's documented error body:
// {"error": {"code": 400, "message": "...", "errors": [{"message": "..."}]}}.
type upstreamErrorEnvelope struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Errors  []struct {
			Message string `json:"message"`
			Reason  string `json:"reason"`
		} `json:"errors"`
	} `json:"error"`
}

// classifyStatus maps a non-2xx upstream response to the caller-facing
// taxonomy. The 403 branch deliberately drops the upstream text so quota and
// key internals never reach a caller.
func classifyStatus(statusCode int, body []byte) *Error {
	var env upstreamErrorEnvelope
	_ = json.Unmarshal(body, &env)

	message := env.Error.Message
	if message == "" {
		message = fmt.Sprintf("upstream returned status %d", statusCode)
	}

	switch statusCode {
	case http.StatusBadRequest:
		e := newError(KindBadUpstreamRequest, http.StatusBadRequest, message)
		for _, sub := range env.Error.Errors {
			if sub.Message != "" {
				e.Details = append(e.Details, sub.Message)
			}
		}
		return e
	case http.StatusForbidden:
		return newError(KindCredential, http.StatusInternalServerError,
			"the analysis service is not authorized to query the audit provider")
	case http.StatusTooManyRequests:
		return newError(KindRateLimited, http.StatusTooManyRequests,
			"the audit provider is rate limiting requests, try again later")
	default:
		return newError(KindUpstream, http.StatusBadGateway, message)
	}
}

// classifyTransport maps a failed round trip (no HTTP response) to the
// taxonomy. Deadline and net timeouts become KindTimeout, everything else is
// the internal catch-all.
func classifyTransport(err error) *Error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		e := newError(KindTimeout, http.StatusGatewayTimeout, "the audit provider did not respond in time")
		e.cause = err
		return e
	}
	return internalError("failed to reach the audit provider", err)
}
