package awsiot

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

var (
	// ErrTimeout is returned when a request is not acknowledged in time.
	ErrTimeout = errors.New("[AWSIOT] request timed out")

	// ErrNotConnected is returned for requests issued while the connection is not open.
	ErrNotConnected = errors.New("[AWSIOT] client is not connected")

	// ErrInvalidEndpoint is returned for endpoints that can not be used.
	ErrInvalidEndpoint = errors.New("[AWSIOT] invalid endpoint")

	// ErrKeyAlias is returned when the key store does not hold the requested alias.
	ErrKeyAlias = errors.New("[AWSIOT] key alias not found")

	// ErrThrottled is returned when the publish rate limit rejects a message.
	ErrThrottled = errors.New("[AWSIOT] publish rate exceeded")

	// ErrRejected is returned when the broker refuses a subscription.
	ErrRejected = errors.New("[AWSIOT] subscription rejected")
)

// Error is returned when the engine fails a request. Code is the MQTT return
// code when the broker reported one.
type Error struct {
	Code  int
	cause error
}

func newError(code int, cause error) error {
	return errors.WithStackDepth(&Error{Code: code, cause: cause}, 1)
}

func (e *Error) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("[AWSIOT] request failed (code %d): %v", e.Code, e.cause)
	}
	return fmt.Sprintf("[AWSIOT] request failed: %v", e.cause)
}

func (e *Error) Unwrap() error {
	return e.cause
}
