package api

import (
	"context"
	"errors"
	"fmt"

	"github.com/anonto42/snapgram/backend/internal/auth"
	"github.com/anonto42/snapgram/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Kind classifies a failure for the caller
type Kind uint8

const (
	KindInternal Kind = iota
	KindInvalid
	KindNotFound
	KindUnauthorized
	KindConflict
	KindTransient
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindNotFound:
		return "not_found"
	case KindUnauthorized:
		return "unauthorized"
	case KindConflict:
		return "conflict"
	case KindTransient:
		return "transient"
	default:
		return "internal"
	}
}

var (
	// ErrInvalidInput is wrapped by validation failures raised in the adapter
	ErrInvalidInput = errors.New("invalid input")

	// ErrFederatedLoginDisabled is returned when no token verifier is configured
	ErrFederatedLoginDisabled = errors.New("federated login is not configured")
)

// Error is returned by every API operation
type Error struct {
	Op   string
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf reports the kind of err. Errors not raised by the adapter are
// classified from the store sentinels they wrap.
func KindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return classify(err)
}

func classify(err error) Kind {
	switch {
	case errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrFederatedLoginDisabled),
		errors.Is(err, repositories.ErrInvalidID):
		return KindInvalid
	case errors.Is(err, repositories.ErrNotFound):
		return KindNotFound
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrSessionNotFound),
		errors.Is(err, auth.ErrSessionExpired):
		return KindUnauthorized
	case errors.Is(err, auth.ErrEmailTaken),
		errors.Is(err, repositories.ErrDuplicate),
		errors.Is(err, repositories.ErrConflict):
		return KindConflict
	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled),
		mongo.IsTimeout(err),
		mongo.IsNetworkError(err):
		return KindTransient
	default:
		return KindInternal
	}
}

// fail logs err under op and returns it as an *Error.
func (a *API) fail(op string, err error) error {
	kind := KindOf(err)
	fields := []zap.Field{zap.String("op", op), zap.Stringer("kind", kind), zap.Error(err)}
	if kind == KindInternal || kind == KindTransient {
		a.logger.Error("operation failed", fields...)
	} else {
		a.logger.Warn("operation failed", fields...)
	}
	return &Error{Op: op, Kind: kind, Err: err}
}

func (a *API) invalid(op, format string, args ...interface{}) error {
	return a.fail(op, fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...)))
}
