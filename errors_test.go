package iotmqtt

import (
	stderrors "errors"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
)

func TestErrorTaxonomy(t *testing.T) {
	cause := errors.New("broken pipe")

	err := NewConnectionError(5, cause)
	assert.True(t, IsConnectionError(err))
	assert.False(t, IsPublishError(err))
	assert.Equal(t, 5, ReasonCode(err))
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, "[IOTMQTT] connect failed (reason code 5): broken pipe", err.Error())

	err = NewPublishError(0, cause)
	assert.True(t, IsPublishError(err))
	assert.Equal(t, 0, ReasonCode(err))
	assert.Equal(t, "[IOTMQTT] publish failed: broken pipe", err.Error())

	assert.True(t, IsSubscribeError(NewSubscribeError(0, cause)))
	assert.True(t, IsUnsubscribeError(NewUnsubscribeError(0, nil)))
	assert.Equal(t, "[IOTMQTT] unsubscribe failed", NewUnsubscribeError(0, nil).Error())
}

func TestErrorSurvivesWrapping(t *testing.T) {
	err := errors.Wrap(NewSubscribeError(128, ErrNotConnected), "subscribing to telemetry")

	assert.True(t, IsSubscribeError(err))
	assert.Equal(t, 128, ReasonCode(err))
	assert.True(t, errors.Is(err, ErrNotConnected))

	var e *Error
	assert.True(t, errors.As(err, &e))
	assert.Equal(t, OpSubscribe, e.Op)
	assert.Equal(t, 128, e.ReasonCode())
}

func TestReasonCodeOfPlainError(t *testing.T) {
	assert.Equal(t, 0, ReasonCode(errors.New("plain")))
	assert.Equal(t, 0, ReasonCode(nil))
}

func TestSentinelsMatchWithStandardErrors(t *testing.T) {
	err := (&ConnectOptions{}).Validate()
	assert.True(t, stderrors.Is(err, ErrInvalidOptions))
	assert.Contains(t, err.Error(), "ServerURI")

	err = (&ConnectOptions{}).SetServerURI("tcp://[::1")
	assert.True(t, stderrors.Is(err, ErrInvalidServerURI))

	err = (&ConnectOptions{}).SetServerURI("localhost")
	assert.True(t, stderrors.Is(err, ErrInvalidServerURI))
}
