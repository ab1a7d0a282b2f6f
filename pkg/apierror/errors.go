package apierror

import (
	"context"
	"net"
	"net/http"

	"github.com/pkg/errors"
)

// Kind classifies client-side failures.
type Kind string

const (
	KindHTTP        Kind = "http"
	KindAuth        Kind = "auth"
	KindAuthExpired Kind = "auth_expired"
	KindValidation  Kind = "validation"
	KindNetwork     Kind = "network"
	KindTimeout     Kind = "timeout"
	KindCanceled    Kind = "canceled"
	KindDecode      Kind = "decode"
)

// Error is the single error type surfaced by the client layer. Message is always
// a normalized, user-presentable string.
type Error struct {
	Kind    Kind   `json:"kind"`
	Status  int    `json:"status,omitempty"`
	Message string `json:"message"`
	Body    []byte `json:"-"`
	Cause   error  `json:"-"`
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Cause }

// FromResponse builds an error for a non-2xx response.
func FromResponse(status int, body []byte) *Error {
	kind := KindHTTP
	if status == http.StatusBadRequest {
		kind = KindValidation
	}
	return &Error{Kind: kind, Status: status, Message: FormatMessage(body), Body: body}
}

// AuthFailed marks a rejected login.
func AuthFailed(status int, body []byte) *Error {
	return &Error{Kind: KindAuth, Status: status, Message: FormatMessage(body), Body: body}
}

func AuthExpired(cause error) *Error {
	return &Error{Kind: KindAuthExpired, Message: "Your session has ended. Please sign in again.", Cause: cause}
}

func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

func Decode(cause error) *Error {
	return &Error{Kind: KindDecode, Message: FallbackMessage, Cause: cause}
}

// FromTransport classifies an error returned before any response was read.
func FromTransport(ctx context.Context, err error) *Error {
	ctxErr := ctx.Err()
	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctxErr, context.DeadlineExceeded) || isNetTimeout(err):
		return &Error{Kind: KindTimeout, Message: "The request timed out. Please try again.", Cause: err}
	case errors.Is(err, context.Canceled) || errors.Is(ctxErr, context.Canceled):
		return &Error{Kind: KindCanceled, Message: "The request was canceled.", Cause: err}
	default:
		return &Error{Kind: KindNetwork, Message: "Unable to reach the server. Check your connection.", Cause: err}
	}
}

func isNetTimeout(err error) bool {
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// KindOf returns the kind of err, or "" when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// Message returns the presentable message for any error.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return FormatMessage([]byte(err.Error()))
}

func (k Kind) String() string { return string(k) }
