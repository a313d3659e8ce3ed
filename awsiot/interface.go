// Package awsiot is an MQTT engine for AWS IoT Core built on paho with mutual
// TLS.
//
// Unlike a plain paho client it works with one-shot request objects: every
// Message carries its own CompletionHandler that learns whether that publish
// succeeded, failed or timed out, and every Topic carries the handler for the
// messages it receives.
package awsiot

//go:generate mockgen -source=interface.go -destination=../mock/awsiot/mock_awsiot.go

import (
	"context"
	"time"
)

// Engine is the surface of Client used by adapters.
type Engine interface {
	// SetConnectionTimeout bounds the handshake. It must be called before the first Connect.
	SetConnectionTimeout(d time.Duration)

	// SetKeepAliveInterval sets the keep alive interval. It must be called before the first Connect.
	SetKeepAliveInterval(d time.Duration)

	// SetPublishTimeout bounds how long a publish waits for its acknowledgement
	// before its handler is told it timed out.
	SetPublishTimeout(d time.Duration)

	// SetConnectionLostHandler sets the function called when an open connection drops.
	SetConnectionLostHandler(h func(err error))

	// Connect connects and waits for the broker to accept or refuse the session.
	Connect(ctx context.Context) error

	// Disconnect closes the connection.
	Disconnect(ctx context.Context) error

	// ConnectionStatus returns the current connection status.
	ConnectionStatus() ConnectionStatus

	// Publish sends m without waiting for its acknowledgement. When it returns
	// nil, exactly one of the message's completion methods is called later.
	Publish(ctx context.Context, m *Message) error

	// Subscribe subscribes to t and waits up to timeout for the acknowledgement.
	Subscribe(ctx context.Context, t *Topic, timeout time.Duration) error

	// Unsubscribe unsubscribes from topic and waits up to timeout for the acknowledgement.
	Unsubscribe(ctx context.Context, topic string, timeout time.Duration) error

	// Close releases the completion workers. The engine must not be connected again afterwards.
	Close()
}
