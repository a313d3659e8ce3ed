package mqttadapter

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	iotmqtt "github.com/xizhibei/go-iotmqtt"
	"github.com/xizhibei/go-iotmqtt/config"
	"github.com/xizhibei/go-iotmqtt/telemetry"
)

type options struct {
	pollAttempts  int
	pollInterval  time.Duration
	quiesce       uint
	provider      config.Provider
	telemetry     telemetry.Telemetry
	engineFactory EngineFactory
	store         mqtt.Store
	enableDebug   bool
}

// Option configures an Adapter.
type Option func(o *options)

func defaultOptions() *options {
	return &options{
		pollAttempts:  iotmqtt.DefaultConnectPollAttempts,
		pollInterval:  iotmqtt.DefaultConnectPollInterval,
		quiesce:       iotmqtt.DefaultDisconnectQuiesce,
		engineFactory: mqtt.NewClient,
	}
}

// WithPollAttempts sets how many times Connect checks the connection after the handshake is issued.
func WithPollAttempts(n int) Option {
	return func(o *options) {
		if n < 0 {
			n = 0
		}
		o.pollAttempts = n
	}
}

// WithPollInterval sets the pause between two connection checks.
func WithPollInterval(d time.Duration) Option {
	return func(o *options) {
		o.pollInterval = d
	}
}

// WithDisconnectQuiesce sets the milliseconds given to in-flight work on Disconnect.
func WithDisconnectQuiesce(ms uint) Option {
	return func(o *options) {
		o.quiesce = ms
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

// WithEngineFactory replaces the paho client constructor.
func WithEngineFactory(f EngineFactory) Option {
	return func(o *options) {
		if f != nil {
			o.engineFactory = f
		}
	}
}

// WithStore sets the paho message store.
func WithStore(store mqtt.Store) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithFileStore keeps in-flight messages under dir in the temp directory.
// An empty dir picks a random one.
func WithFileStore(dir string) Option {
	return func(o *options) {
		if dir == "" {
			dir = fmt.Sprintf("%d", rand.Intn(100000))
		}
		o.store = mqtt.NewFileStore(filepath.Join(os.TempDir(), dir))
	}
}

// WithDebug routes the paho internal loggers to stderr.
func WithDebug(debug bool) Option {
	return func(o *options) {
		o.enableDebug = debug
	}
}
