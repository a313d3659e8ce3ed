package awsadapter

import (
	"time"

	iotmqtt "github.com/xizhibei/go-iotmqtt"
	"github.com/xizhibei/go-iotmqtt/awsiot"
	"github.com/xizhibei/go-iotmqtt/config"
	"github.com/xizhibei/go-iotmqtt/telemetry"
)

type options struct {
	operationTimeout time.Duration
	provider         config.Provider
	telemetry        telemetry.Telemetry
	engineFactory    EngineFactory
	engineOptions    []awsiot.Option

	breakerFailures uint32
	breakerTimeout  time.Duration
}

// Option configures an Adapter.
type Option func(o *options)

func defaultOptions() *options {
	return &options{
		operationTimeout: iotmqtt.DefaultOperationTimeout,
	}
}

// WithOperationTimeout bounds the subscribe and unsubscribe acknowledgement wait.
func WithOperationTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.operationTimeout = d
		}
	}
}

// WithConfigProvider sets where default connect options come from.
// Without it the default properties file is loaded on first use.
func WithConfigProvider(p config.Provider) Option {
	return func(o *options) {
		o.provider = p
	}
}

// WithTelemetry records spans and metrics for every operation.
func WithTelemetry(t telemetry.Telemetry) Option {
	return func(o *options) {
		o.telemetry = t
	}
}

// WithEngineFactory replaces the awsiot engine constructor.
func WithEngineFactory(f EngineFactory) Option {
	return func(o *options) {
		o.engineFactory = f
	}
}

// WithEngineOptions passes options to the default awsiot engine.
func WithEngineOptions(opts ...awsiot.Option) Option {
	return func(o *options) {
		o.engineOptions = append(o.engineOptions, opts...)
	}
}

// WithReconnectBreaker stops Reconnect from reaching the broker for timeout
// after failures consecutive failed attempts, so reconnect loops driven from
// OnTimeout do not hammer the endpoint.
func WithReconnectBreaker(failures uint32, timeout time.Duration) Option {
	return func(o *options) {
		o.breakerFailures = failures
		o.breakerTimeout = timeout
	}
}
