package domain

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindInternal Kind = iota
	KindBadRequest
	KindForbidden
	KindNotFound
	KindAlreadyExists
	KindConflict
	KindUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindBadRequest:
		return "bad_request"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindAlreadyExists:
		return "already_exists"
	case KindConflict:
		return "conflict"
	case KindUnavailable:
		return "unavailable"
	default:
		return "internal"
	}
}

// Error is a failure the caller can act on. Anything else is internal.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	return e.Msg
}

func NewError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of the first *Error in the chain, KindInternal if there is none.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// Message returns the client facing message of err, empty for internal errors.
func Message(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Msg
	}
	return ""
}

var (
	ErrNotFound      = &Error{Kind: KindNotFound, Msg: "not found"}
	ErrAlreadyExists = &Error{Kind: KindAlreadyExists, Msg: "already exists"}

	ErrOrderNotFound      = &Error{Kind: KindNotFound, Msg: "order not found"}
	ErrAddressNotFound    = &Error{Kind: KindBadRequest, Msg: "billing address not found"}
	ErrUserNotFound       = &Error{Kind: KindBadRequest, Msg: "user not found"}
	ErrCartEmpty          = &Error{Kind: KindBadRequest, Msg: "cart is empty"}
	ErrInvalidSignature   = &Error{Kind: KindBadRequest, Msg: "webhook error"}
	ErrUnhandledEventType = &Error{Kind: KindBadRequest, Msg: "unhandled event type"}
	ErrInvalidTransition  = &Error{Kind: KindConflict, Msg: "invalid order status transition"}
	ErrForbidden          = &Error{Kind: KindForbidden, Msg: "forbidden"}
	ErrPaymentGateway     = &Error{Kind: KindUnavailable, Msg: "payment gateway error"}
	ErrGatewayTimeout     = &Error{Kind: KindUnavailable, Msg: "payment gateway timed out"}
)

type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomeForbidden
	OutcomeBadRequest
)

// Verdict is the result of a guard: ok, forbidden or bad request with a reason.
type Verdict struct {
	Outcome Outcome
	Reason  string
}

func Allow() Verdict {
	return Verdict{Outcome: OutcomeOK}
}

func Forbid(reason string) Verdict {
	return Verdict{Outcome: OutcomeForbidden, Reason: reason}
}

func Reject(format string, args ...any) Verdict {
	return Verdict{Outcome: OutcomeBadRequest, Reason: fmt.Sprintf(format, args...)}
}

func (v Verdict) OK() bool {
	return v.Outcome == OutcomeOK
}

func (v Verdict) Err() error {
	switch v.Outcome {
	case OutcomeOK:
		return nil
	case OutcomeForbidden:
		return &Error{Kind: KindForbidden, Msg: v.Reason}
	default:
		return &Error{Kind: KindBadRequest, Msg: v.Reason}
	}
}
