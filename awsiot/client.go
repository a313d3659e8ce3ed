package awsiot

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/Jeffail/tunny"
	"github.com/cockroachdb/errors"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/xizhibei/go-iotmqtt/keystore"
	"go.uber.org/atomic"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/time/rate"
)

// alpnProtocol lets AWS IoT accept MQTT with client certificates on port 443.
const alpnProtocol = "x-amzn-mqtt-ca"

// subscribeFailure is the SUBACK return code for a refused subscription.
const subscribeFailure = 0x80

// Client is an AWS IoT MQTT client.
type Client struct {
	endpoint *url.URL
	clientID string
	keyStore *keystore.KeyStore

	connectionTimeout atomic.Duration
	keepAliveInterval atomic.Duration
	publishTimeout    atomic.Duration

	// mu serializes Connect and Disconnect.
	mu     sync.Mutex
	engine mqtt.Client
	status atomic.Int32
	onLost atomic.Pointer[func(err error)]

	opts    *options
	limiter *rate.Limiter

	// poolMu guards workerPool against use after Close.
	poolMu     sync.RWMutex
	workerPool *tunny.Pool
	closed     bool

	log *zap.SugaredLogger
}

var _ Engine = (*Client)(nil)

// NewClient creates a client for endpoint, usually the account specific
// "xxx-ats.iot.<region>.amazonaws.com". An endpoint without a scheme uses
// ssl on port 8883. keyAlias, when set, must name the key store's certificate.
//
// Plain tcp endpoints are accepted only without a key store, for brokers
// that stand in for AWS IoT in tests.
func NewClient(endpoint, clientID string, ks *keystore.KeyStore, keyAlias string, options ...Option) (*Client, error) {
	u, err := parseEndpoint(endpoint)
	if err != nil {
		return nil, err
	}
	if ks != nil && !isSecure(u.Scheme) {
		return nil, errors.Wrapf(ErrInvalidEndpoint, "%s does not support client certificates", u.Scheme)
	}
	if ks != nil && keyAlias != "" && keyAlias != ks.Alias {
		return nil, errors.Wrapf(ErrKeyAlias, "%q", keyAlias)
	}
	if clientID == "" {
		return nil, errors.New("[AWSIOT] client id is required")
	}

	o := defaultOptions()
	for _, option := range options {
		option(o)
	}

	c := &Client{
		endpoint:   u,
		clientID:   clientID,
		keyStore:   ks,
		opts:       o,
		limiter:    rate.NewLimiter(rate.Every(o.limiterDuration/time.Duration(max(o.limiterCount, 1))), max(o.limiterCount, 1)),
		workerPool: tunny.NewCallback(o.workerNum),
		log:        zap.S().With("module", "awsiot", "clientId", clientID),
	}
	c.connectionTimeout.Store(DefaultConnectionTimeout)
	c.keepAliveInterval.Store(DefaultKeepAliveInterval)
	c.publishTimeout.Store(DefaultPublishTimeout)
	return c, nil
}

func parseEndpoint(endpoint string) (*url.URL, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return nil, errors.Wrap(ErrInvalidEndpoint, "empty")
	}
	if !strings.Contains(endpoint, "://") {
		endpoint = "ssl://" + endpoint
	}

	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, errors.WithSecondaryError(errors.Wrapf(ErrInvalidEndpoint, "parse %q", endpoint), err)
	}
	u.Scheme = strings.ToLower(u.Scheme)
	if u.Host == "" {
		return nil, errors.Wrapf(ErrInvalidEndpoint, "%q has no host", endpoint)
	}

	if u.Port() == "" {
		switch u.Scheme {
		case "ssl", "tls", "mqtts", "tcps":
			u.Host = net.JoinHostPort(u.Hostname(), "8883")
		case "tcp", "mqtt":
			u.Host = net.JoinHostPort(u.Hostname(), "1883")
		case "wss":
			u.Host = net.JoinHostPort(u.Hostname(), "443")
		case "ws":
			u.Host = net.JoinHostPort(u.Hostname(), "80")
		default:
			return nil, errors.Wrapf(ErrInvalidEndpoint, "unsupported scheme %q", u.Scheme)
		}
	}
	return u, nil
}

func isSecure(scheme string) bool {
	switch scheme {
	case "ssl", "tls", "mqtts", "tcps", "wss":
		return true
	}
	return false
}

// Endpoint returns the broker url the client connects to.
func (c *Client) Endpoint() string {
	return c.endpoint.String()
}

// ClientID returns the client id.
func (c *Client) ClientID() string {
	return c.clientID
}

func (c *Client) SetConnectionTimeout(d time.Duration) {
	if d > 0 {
		c.connectionTimeout.Store(d)
	}
}

func (c *Client) SetKeepAliveInterval(d time.Duration) {
	if d > 0 {
		c.keepAliveInterval.Store(d)
	}
}

func (c *Client) SetPublishTimeout(d time.Duration) {
	if d > 0 {
		c.publishTimeout.Store(d)
	}
}

func (c *Client) SetConnectionLostHandler(h func(err error)) {
	c.onLost.Store(&h)
}

func (c *Client) ConnectionStatus() ConnectionStatus {
	return ConnectionStatus(c.status.Load())
}

func (c *Client) setStatus(s ConnectionStatus) {
	old := ConnectionStatus(c.status.Swap(int32(s)))
	if old != s {
		c.log.Debugf("Status %s -> %s", old, s)
	}
}

func (c *Client) tlsConfig() *tls.Config {
	if !isSecure(c.endpoint.Scheme) {
		return nil
	}

	var cfg *tls.Config
	if c.opts.tlsConfig != nil {
		cfg = c.opts.tlsConfig.Clone()
	} else {
		cfg = c.keyStore.TLSConfig(c.opts.rootCAs)
	}
	if cfg.ServerName == "" {
		cfg.ServerName = c.endpoint.Hostname()
	}
	if c.endpoint.Port() == "443" && c.keyStore != nil && len(cfg.NextProtos) == 0 {
		cfg.NextProtos = []string{alpnProtocol}
	}
	return cfg
}

func (c *Client) newEngine() mqtt.Client {
	co := mqtt.NewClientOptions().
		AddBroker(c.endpoint.String()).
		SetClientID(c.clientID).
		SetCleanSession(c.opts.cleanSession).
		SetConnectTimeout(c.connectionTimeout.Load()).
		SetKeepAlive(c.keepAliveInterval.Load()).
		SetAutoReconnect(c.opts.autoReconnect).
		SetConnectRetry(false).
		SetOnConnectHandler(func(mqtt.Client) {
			c.setStatus(Connected)
		}).
		SetReconnectingHandler(func(mqtt.Client, *mqtt.ClientOptions) {
			c.setStatus(Reconnecting)
		}).
		SetConnectionLostHandler(c.handleConnectionLost)

	if cfg := c.tlsConfig(); cfg != nil {
		co.SetTLSConfig(cfg)
	}

	return c.opts.engineFactory(co)
}

func (c *Client) handleConnectionLost(_ mqtt.Client, err error) {
	if c.opts.autoReconnect {
		c.setStatus(Reconnecting)
	} else {
		c.setStatus(Disconnected)
	}
	c.log.Warnf("Connection lost: %v", err)

	if h := c.onLost.Load(); h != nil && *h != nil {
		(*h)(err)
	}
}

// Connect connects and waits until the broker accepts or refuses the session,
// or ctx is done. It does nothing when already connected.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ConnectionStatus() == Connected {
		return nil
	}
	if c.engine == nil {
		c.engine = c.newEngine()
	}

	c.setStatus(Connecting)
	c.log.Infof("Connecting %s", c.endpoint.Host)

	token := c.engine.Connect()
	select {
	case <-ctx.Done():
		c.setStatus(Disconnected)
		return newError(0, ctx.Err())
	case <-token.Done():
	}

	if err := token.Error(); err != nil {
		c.setStatus(Disconnected)
		code := 0
		if ct, ok := token.(*mqtt.ConnectToken); ok {
			code = int(ct.ReturnCode())
		}
		return newError(code, err)
	}

	c.setStatus(Connected)
	c.log.Infof("Connected %s", c.endpoint.Host)
	return nil
}

// Disconnect closes the connection.
func (c *Client) Disconnect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.engine == nil {
		return newError(0, ErrNotConnected)
	}

	c.engine.Disconnect(c.opts.quiesce)
	c.setStatus(Disconnected)
	c.log.Infof("Disconnected %s", c.endpoint.Host)
	return nil
}

// Close releases the completion workers. Completions arriving afterwards run
// on the goroutine that observed them.
func (c *Client) Close() {
	c.poolMu.Lock()
	defer c.poolMu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	c.workerPool.Close()
}

func (c *Client) dispatch(fn func()) {
	c.poolMu.RLock()
	defer c.poolMu.RUnlock()

	if c.closed {
		fn()
		return
	}
	c.workerPool.Process(fn)
}

func (c *Client) connectedEngine() (mqtt.Client, error) {
	if c.ConnectionStatus() != Connected {
		return nil, newError(0, ErrNotConnected)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.engine == nil {
		return nil, newError(0, ErrNotConnected)
	}
	return c.engine, nil
}

// Publish sends m and returns without waiting for the acknowledgement. When it
// returns nil, m.Handler is told exactly once whether the publish succeeded,
// failed or was not acknowledged within the publish timeout. When it returns
// an error the handler is not called.
func (c *Client) Publish(ctx context.Context, m *Message) error {
	if m == nil {
		return errors.New("[AWSIOT] nil message")
	}

	engine, err := c.connectedEngine()
	if err != nil {
		return err
	}

	if c.opts.limiterReject {
		if !c.limiter.Allow() {
			return newError(0, ErrThrottled)
		}
	} else if err := c.limiter.Wait(ctx); err != nil {
		return newError(0, errors.WithSecondaryError(errors.Wrap(ErrThrottled, "wait for limiter"), err))
	}

	token := engine.Publish(m.Topic, m.QoS, false, m.Payload)
	go c.awaitPublish(m, token, token.Done(), c.publishTimeout.Load())
	return nil
}

func (c *Client) awaitPublish(m *Message, token mqtt.Token, done <-chan struct{}, timeout time.Duration) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	outcome, err := OutcomeSuccess, error(nil)
	select {
	case <-done:
		if err = token.Error(); err != nil {
			outcome = OutcomeFailure
		}
	case <-timer.C:
		outcome, err = OutcomeTimeout, ErrTimeout
	}

	if outcome != OutcomeSuccess {
		c.log.Warnf("Publish to %s ended with %s: %v", m.Topic, outcome, err)
	}

	c.dispatch(func() {
		defer func() {
			if i := recover(); i != nil {
				err := fmt.Errorf("panic in completion handler for %s %v", m.Topic, i)
				c.log.Desugar().WithOptions(zap.AddStacktrace(zapcore.ErrorLevel)).Sugar().Error(err)
			}
		}()
		m.complete(outcome, err)
	})
}

// Subscribe subscribes to t and waits up to timeout for the acknowledgement.
// A missing acknowledgement yields ErrTimeout; a refusal yields *Error.
func (c *Client) Subscribe(ctx context.Context, t *Topic, timeout time.Duration) error {
	if t == nil {
		return errors.New("[AWSIOT] nil topic")
	}

	engine, err := c.connectedEngine()
	if err != nil {
		return err
	}

	var handler mqtt.MessageHandler
	if t.Handler != nil {
		handler = func(_ mqtt.Client, pm mqtt.Message) {
			t.Handler(&Message{Topic: pm.Topic(), QoS: pm.Qos(), Payload: pm.Payload()})
		}
	}

	c.log.Debugf("Subscribe topic=%s qos=%d", t.Name, t.QoS)
	token := engine.Subscribe(t.Name, t.QoS, handler)
	if err := c.await(ctx, token, timeout, "subscribe "+t.Name); err != nil {
		return err
	}

	if st, ok := token.(*mqtt.SubscribeToken); ok {
		if code, found := st.Result()[t.Name]; found && code == subscribeFailure {
			return newError(subscribeFailure, errors.Wrapf(ErrRejected, "%s", t.Name))
		}
	}
	return nil
}

// Unsubscribe unsubscribes from topic and waits up to timeout for the
// acknowledgement. A missing acknowledgement yields ErrTimeout.
func (c *Client) Unsubscribe(ctx context.Context, topic string, timeout time.Duration) error {
	engine, err := c.connectedEngine()
	if err != nil {
		return err
	}

	c.log.Debugf("Unsubscribe topic=%s", topic)
	return c.await(ctx, engine.Unsubscribe(topic), timeout, "unsubscribe "+topic)
}

func (c *Client) await(ctx context.Context, token mqtt.Token, timeout time.Duration, what string) error {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return newError(0, ctx.Err())
	case <-timer.C:
		return errors.Wrapf(ErrTimeout, "%s after %s", what, timeout)
	case <-token.Done():
		if err := token.Error(); err != nil {
			return newError(0, err)
		}
		return nil
	}
}
