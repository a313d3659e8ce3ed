package awsiot

import (
	"crypto/tls"
	"crypto/x509"
	"runtime"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

const (
	// DefaultPublishTimeout bounds the wait for a publish acknowledgement.
	DefaultPublishTimeout = 10 * time.Second

	// DefaultConnectionTimeout bounds the handshake.
	DefaultConnectionTimeout = 30 * time.Second

	// DefaultKeepAliveInterval is the keep alive interval sent to the broker.
	DefaultKeepAliveInterval = 600 * time.Second

	// AWS IoT Core accepts 100 publishes per second on one connection.
	defaultLimiterDuration = time.Second
	defaultLimiterCount    = 100
)

type options struct {
	engineFactory   func(o *mqtt.ClientOptions) mqtt.Client
	workerNum       int
	limiterDuration time.Duration
	limiterCount    int
	limiterReject   bool
	rootCAs         *x509.CertPool
	tlsConfig       *tls.Config
	autoReconnect   bool
	cleanSession    bool
	quiesce         uint
}

// Option configures a Client.
type Option func(o *options)

func defaultOptions() *options {
	return &options{
		engineFactory:   mqtt.NewClient,
		workerNum:       runtime.NumCPU(),
		limiterDuration: defaultLimiterDuration,
		limiterCount:    defaultLimiterCount,
		cleanSession:    true,
		quiesce:         250,
	}
}

// WithWorkerNum sets how many workers run completion handlers.
func WithWorkerNum(count int) Option {
	return func(o *options) {
		if count > 0 {
			o.workerNum = count
		}
	}
}

// WithPublishLimiter allows count publishes per duration d.
func WithPublishLimiter(d time.Duration, count int) Option {
	return func(o *options) {
		o.limiterDuration = d
		o.limiterCount = count
	}
}

// WithLimiterReject makes Publish fail with ErrThrottled instead of waiting
// when the rate limit is reached.
func WithLimiterReject() Option {
	return func(o *options) {
		o.limiterReject = true
	}
}

// WithRootCAs sets the pool used to verify the broker certificate.
func WithRootCAs(pool *x509.CertPool) Option {
	return func(o *options) {
		o.rootCAs = pool
	}
}

// WithTLSConfig replaces the TLS configuration derived from the key store.
func WithTLSConfig(cfg *tls.Config) Option {
	return func(o *options) {
		o.tlsConfig = cfg
	}
}

// WithAutoReconnect lets paho restore dropped connections. The status is
// Reconnecting meanwhile.
func WithAutoReconnect(enable bool) Option {
	return func(o *options) {
		o.autoReconnect = enable
	}
}

// WithCleanSession sets the clean session flag, true by default.
func WithCleanSession(clean bool) Option {
	return func(o *options) {
		o.cleanSession = clean
	}
}

// WithEngineFactory replaces the paho client constructor.
func WithEngineFactory(f func(o *mqtt.ClientOptions) mqtt.Client) Option {
	return func(o *options) {
		if f != nil {
			o.engineFactory = f
		}
	}
}
