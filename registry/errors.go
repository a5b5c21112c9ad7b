package registry

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

type Kind int

const (
	KindUnavailable Kind = iota
	KindNotFound
	KindTimeout
	KindDecode
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindTimeout:
		return "timeout"
	case KindDecode:
		return "decode failure"
	default:
		return "unavailable"
	}
}

// Sentinels matched by errors.Is against an *Error of the same kind.
var (
	ErrUnavailable = &Error{Kind: KindUnavailable}
	ErrNotFound    = &Error{Kind: KindNotFound}
	ErrTimeout     = &Error{Kind: KindTimeout}
	ErrDecode      = &Error{Kind: KindDecode}
)

// Error describes a failed registry call. StatusCode is zero when no response was received.
type Error struct {
	Kind       Kind
	Op         string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	msg := "registry " + e.Kind.String()
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// KindOf reports the kind of a registry error; ok is false for other errors.
func KindOf(err error) (Kind, bool) {
	var re *Error
	if errors.As(err, &re) {
		return re.Kind, true
	}
	return 0, false
}

func statusError(op string, code int) error {
	kind := KindUnavailable
	if code == http.StatusNotFound {
		kind = KindNotFound
	}
	return &Error{Kind: kind, Op: op, StatusCode: code}
}

func transportError(op string, err error) error {
	if isTimeout(err) {
		return &Error{Kind: KindTimeout, Op: op, Err: err}
	}
	return &Error{Kind: KindUnavailable, Op: op, Err: err}
}

func decodeError(op string, err error) error {
	if isTimeout(err) {
		return &Error{Kind: KindTimeout, Op: op, Err: err}
	}
	return &Error{Kind: KindDecode, Op: op, Err: err}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
