package iotmqtt

//go:generate mockgen -source=interface.go -destination=mock/mock_iotmqtt.go
//go:generate mockgen -package mock_mqtt -destination=mock/mqtt/mock_mqtt_client.go github.com/eclipse/paho.mqtt.golang Client,Token

import (
	"context"
)

// Callback is notified of asynchronous client events.
//
// Backends invoke it from their own goroutines, so implementations must be
// safe to call concurrently with the goroutine issuing Publish/Subscribe.
type Callback interface {
	// OnSuccess is called when a publish is delivered.
	OnSuccess()

	// OnFailure is called when a publish fails.
	OnFailure()

	// OnTimeout is called when an operation times out or the connection is lost.
	// The cause is passed if known.
	OnTimeout(cause error)

	// OnMessage is called when the client receives a message.
	OnMessage(topic string, msg Message)
}

// Client is an interface that defines the methods for interacting with an MQTT broker,
// regardless of the backend used underneath.
type Client interface {
	// SetConnectOptions sets the options used by Connect if the client has not been connected.
	SetConnectOptions(opts *ConnectOptions)

	// ConnectOptions returns the options used to connect.
	ConnectOptions() *ConnectOptions

	// SetCallback sets the callback notified for events.
	SetCallback(cb Callback)

	// Callback returns the callback in use.
	Callback() Callback

	// Connect connects using the options set earlier, or defaults resolved from
	// configuration when none were set.
	Connect(ctx context.Context) (ConnectResult, error)

	// ConnectWith connects using the given options.
	ConnectWith(ctx context.Context, opts *ConnectOptions) (ConnectResult, error)

	// IsConnected returns true if the client is currently connected to the broker.
	IsConnected() bool

	// State returns the connection state reported by the backend.
	State() State

	// Reconnect reconnects if the connection has been closed.
	Reconnect(ctx context.Context) error

	// Disconnect disconnects from the broker.
	Disconnect(ctx context.Context) error

	// ClientID returns the client id used to connect.
	ClientID() string

	// SetClientID sets the client id used to connect.
	SetClientID(clientID string)

	// Publish publishes a byte payload to the topic with the given QoS.
	Publish(ctx context.Context, topic string, payload []byte, qos QoS) error

	// PublishString publishes a string payload to the topic with the given QoS.
	PublishString(ctx context.Context, topic string, payload string, qos QoS) error

	// PublishObject publishes the canonical JSON form of payload to the topic with the given QoS.
	PublishObject(ctx context.Context, topic string, payload any, qos QoS) error

	// Subscribe subscribes to the topic with the backend default QoS.
	Subscribe(ctx context.Context, topic string) error

	// SubscribeQoS subscribes to the topic with the given QoS.
	SubscribeQoS(ctx context.Context, topic string, qos QoS) error

	// Unsubscribe unsubscribes from the topic.
	Unsubscribe(ctx context.Context, topic string) error
}

// CallbackFuncs adapts plain functions to Callback. Nil members are skipped.
type CallbackFuncs struct {
	Success func()
	Failure func()
	Timeout func(cause error)
	Message func(topic string, msg Message)
}

var _ Callback = CallbackFuncs{}

func (f CallbackFuncs) OnSuccess() {
	if f.Success != nil {
		f.Success()
	}
}

func (f CallbackFuncs) OnFailure() {
	if f.Failure != nil {
		f.Failure()
	}
}

func (f CallbackFuncs) OnTimeout(cause error) {
	if f.Timeout != nil {
		f.Timeout(cause)
	}
}

func (f CallbackFuncs) OnMessage(topic string, msg Message) {
	if f.Message != nil {
		f.Message(topic, msg)
	}
}
