package iotmqtt

import (
	"github.com/cockroachdb/errors"
)

// State represents the client connection state.
type State uint32

// Client states.
const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	default:
		return "unknown"
	}
}

// ConnectResult tells the caller how a connect call ended when it did not fail.
type ConnectResult int

const (
	// ConnectResultConnected means the client is connected.
	ConnectResultConnected ConnectResult = iota

	// ConnectResultTimedOut means the connection was not confirmed within the
	// poll budget. No error is returned for this outcome; the client stays
	// disconnected until the engine catches up or Reconnect is called.
	ConnectResultTimedOut

	// ConnectResultPending means a connect was issued without waiting for it.
	ConnectResultPending

	// ConnectResultSkipped means nothing was done because no engine exists yet.
	ConnectResultSkipped
)

func (r ConnectResult) String() string {
	switch r {
	case ConnectResultConnected:
		return "connected"
	case ConnectResultTimedOut:
		return "timed out"
	case ConnectResultPending:
		return "pending"
	case ConnectResultSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// QoS is the MQTT quality of service level.
type QoS byte

const (
	AtMostOnce  QoS = 0
	AtLeastOnce QoS = 1
	ExactlyOnce QoS = 2
)

// Valid reports whether q is 0, 1 or 2.
func (q QoS) Valid() bool {
	return q <= ExactlyOnce
}

// CheckQoS returns ErrInvalidQoS for levels above 2.
func CheckQoS(q QoS) error {
	if !q.Valid() {
		return errors.Wrapf(ErrInvalidQoS, "qos %d", q)
	}
	return nil
}
