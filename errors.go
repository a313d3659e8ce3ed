package iotmqtt

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

var (
	// ErrNotConnected is returned when an operation needs an engine that has not been created
	// or a connection that is not open.
	ErrNotConnected = errors.New("[IOTMQTT] client is not connected")

	// ErrInvalidServerURI is returned when the server uri can not be parsed.
	ErrInvalidServerURI = errors.New("[IOTMQTT] invalid server uri")

	// ErrInvalidOptions is returned when connect options fail validation.
	ErrInvalidOptions = errors.New("[IOTMQTT] invalid connect options")

	// ErrInvalidQoS is returned for QoS levels other than 0, 1 and 2.
	ErrInvalidQoS = errors.New("[IOTMQTT] invalid qos")
)

// Op names the client operation an Error belongs to.
type Op string

const (
	OpConnect     Op = "connect"
	OpPublish     Op = "publish"
	OpSubscribe   Op = "subscribe"
	OpUnsubscribe Op = "unsubscribe"
)

// Error is the error type returned by every backend. It carries the reason code
// reported by the engine, 0 when there is none, and the root cause.
type Error struct {
	Op    Op
	Code  int
	cause error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("[IOTMQTT] %s failed", e.Op)
	if e.Code != 0 {
		msg += fmt.Sprintf(" (reason code %d)", e.Code)
	}
	if e.cause != nil {
		msg += ": " + e.cause.Error()
	}
	return msg
}

// Unwrap returns the root cause.
func (e *Error) Unwrap() error {
	return e.cause
}

// ReasonCode returns the engine reason code, 0 if none was reported.
func (e *Error) ReasonCode() int {
	return e.Code
}

func newError(op Op, code int, cause error) error {
	return errors.WithStackDepth(&Error{Op: op, Code: code, cause: cause}, 2)
}

// NewConnectionError wraps a connect, reconnect or disconnect failure.
func NewConnectionError(code int, cause error) error {
	return newError(OpConnect, code, cause)
}

// NewPublishError wraps a publish failure.
func NewPublishError(code int, cause error) error {
	return newError(OpPublish, code, cause)
}

// NewSubscribeError wraps a subscribe failure.
func NewSubscribeError(code int, cause error) error {
	return newError(OpSubscribe, code, cause)
}

// NewUnsubscribeError wraps an unsubscribe failure.
func NewUnsubscribeError(code int, cause error) error {
	return newError(OpUnsubscribe, code, cause)
}

func isOp(err error, op Op) bool {
	var e *Error
	return errors.As(err, &e) && e.Op == op
}

// IsConnectionError reports whether err is a connection Error.
func IsConnectionError(err error) bool { return isOp(err, OpConnect) }

// IsPublishError reports whether err is a publish Error.
func IsPublishError(err error) bool { return isOp(err, OpPublish) }

// IsSubscribeError reports whether err is a subscribe Error.
func IsSubscribeError(err error) bool { return isOp(err, OpSubscribe) }

// IsUnsubscribeError reports whether err is an unsubscribe Error.
func IsUnsubscribeError(err error) bool { return isOp(err, OpUnsubscribe) }

// ReasonCode returns the engine reason code carried by err, 0 if there is none.
func ReasonCode(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return 0
}
