package awsadapter

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/sony/gobreaker"
	iotmqtt "github.com/xizhibei/go-iotmqtt"
	"github.com/xizhibei/go-iotmqtt/awsiot"
	"github.com/xizhibei/go-iotmqtt/config"
	"github.com/xizhibei/go-iotmqtt/telemetry"
	"go.uber.org/atomic"
	"go.uber.org/zap"
)

type callbackRef struct {
	cb iotmqtt.Callback
}

type engineRef struct {
	engine awsiot.Engine
}

// Adapter is the AWS IoT Core client.
//
// The engine is built on the first Connect from the options in effect at that
// moment and reused afterwards, so endpoint, key store and client id are fixed
// from then on.
type Adapter struct {
	// mu serializes engine creation and connection changes.
	mu             sync.Mutex
	engine         atomic.Pointer[engineRef]
	defaultOptions *iotmqtt.ConnectOptions

	connectOptions atomic.Pointer[iotmqtt.ConnectOptions]
	callback       atomic.Pointer[callbackRef]
	clientID       atomic.String

	breaker *gobreaker.CircuitBreaker

	opts *options
	log  *zap.SugaredLogger
}

// New creates an Adapter. Nothing touches the network until Connect.
func New(opts ...Option) *Adapter {
	o := defaultOptions()
	for _, fn := range opts {
		fn(o)
	}

	a := &Adapter{
		opts: o,
		log:  zap.S().With("module", "awsadapter"),
	}

	if o.engineFactory == nil {
		o.engineFactory = a.newEngine
	}

	if o.breakerFailures > 0 {
		failures := o.breakerFailures
		a.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "awsadapter-reconnect",
			MaxRequests: 1,
			Interval:    0,
			Timeout:     o.breakerTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= failures
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				a.log.Warnf("Reconnect breaker %s: %s -> %s", name, from, to)
			},
		})
	}

	return a
}

func (a *Adapter) SetConnectOptions(opts *iotmqtt.ConnectOptions) {
	a.connectOptions.Store(opts)
}

func (a *Adapter) ConnectOptions() *iotmqtt.ConnectOptions {
	return a.connectOptions.Load()
}

func (a *Adapter) SetCallback(cb iotmqtt.Callback) {
	a.callback.Store(&callbackRef{cb: cb})
}

func (a *Adapter) Callback() iotmqtt.Callback {
	if ref := a.callback.Load(); ref != nil {
		return ref.cb
	}
	return nil
}

func (a *Adapter) ClientID() string {
	return a.clientID.Load()
}

func (a *Adapter) SetClientID(clientID string) {
	a.clientID.Store(clientID)
}

func (a *Adapter) currentEngine() awsiot.Engine {
	if ref := a.engine.Load(); ref != nil {
		return ref.engine
	}
	return nil
}

// IsConnected returns true only when the engine reports CONNECTED.
func (a *Adapter) IsConnected() bool {
	engine := a.currentEngine()
	return engine != nil && engine.ConnectionStatus() == awsiot.Connected
}

func (a *Adapter) State() iotmqtt.State {
	engine := a.currentEngine()
	if engine == nil {
		return iotmqtt.StateDisconnected
	}
	switch engine.ConnectionStatus() {
	case awsiot.Connected:
		return iotmqtt.StateConnected
	case awsiot.Connecting, awsiot.Reconnecting:
		return iotmqtt.StateConnecting
	default:
		return iotmqtt.StateDisconnected
	}
}

// Connect connects with the options set earlier or, when there are none, with
// options derived from the configuration provider, and blocks until the broker
// accepts or refuses the session. It does nothing when already connected.
func (a *Adapter) Connect(ctx context.Context) (res iotmqtt.ConnectResult, err error) {
	ctx, done := telemetry.Track(ctx, a.opts.telemetry, string(iotmqtt.OpConnect))
	defer func() { done(err) }()

	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.connect(ctx); err != nil {
		return iotmqtt.ConnectResultTimedOut, err
	}
	return iotmqtt.ConnectResultConnected, nil
}

func (a *Adapter) connect(ctx context.Context) error {
	engine := a.currentEngine()
	if engine != nil && engine.ConnectionStatus() == awsiot.Connected {
		return nil
	}

	if engine == nil {
		opts := a.connectOptions.Load()
		if opts == nil {
			var err error
			opts, err = a.resolveDefaults()
			if err != nil {
				return iotmqtt.NewConnectionError(0, err)
			}
			a.connectOptions.Store(opts)
		}

		if err := opts.Validate(); err != nil {
			return iotmqtt.NewConnectionError(0, err)
		}

		clientID := opts.ClientID
		if clientID == "" {
			clientID = a.ClientID()
		}
		if clientID == "" {
			clientID = "iotmqtt-" + uuid.NewString()
			a.log.Infof("No client id configured, using %s", clientID)
		}
		a.SetClientID(clientID)

		e, err := a.opts.engineFactory(opts, clientID)
		if err != nil {
			return iotmqtt.NewConnectionError(0, err)
		}
		if opts.ConnectionTimeout > 0 {
			e.SetConnectionTimeout(opts.ConnectionTimeout)
		}
		if opts.KeepAliveInterval > 0 {
			e.SetKeepAliveInterval(opts.KeepAliveInterval)
		}
		e.SetPublishTimeout(a.opts.operationTimeout)
		e.SetConnectionLostHandler(a.handleConnectionLost)

		engine = e
		a.engine.Store(&engineRef{engine: engine})
		a.log.Infof("Connecting %s as %s", opts.PrintableURI(), clientID)
	}

	if err := engine.Connect(ctx); err != nil {
		return iotmqtt.NewConnectionError(codeOf(err), err)
	}
	a.log.Infof("Connected")
	return nil
}

// ConnectWith stores opts and connects. Options only shape the engine when it
// has not been created yet.
func (a *Adapter) ConnectWith(ctx context.Context, opts *iotmqtt.ConnectOptions) (iotmqtt.ConnectResult, error) {
	if err := opts.Validate(); err != nil {
		return iotmqtt.ConnectResultTimedOut, iotmqtt.NewConnectionError(0, err)
	}
	a.connectOptions.Store(opts)
	return a.Connect(ctx)
}

// Reconnect connects again when the connection has been closed. With a
// reconnect breaker configured, attempts are refused while the breaker is open.
func (a *Adapter) Reconnect(ctx context.Context) (err error) {
	ctx, done := telemetry.Track(ctx, a.opts.telemetry, "reconnect")
	defer func() { done(err) }()

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.breaker == nil {
		return a.connect(ctx)
	}

	_, err = a.breaker.Execute(func() (interface{}, error) {
		return nil, a.connect(ctx)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return iotmqtt.NewConnectionError(0, err)
	}
	return err
}

// Disconnect closes the connection. It fails with ErrNotConnected when Connect
// has never created the engine.
func (a *Adapter) Disconnect(ctx context.Context) (err error) {
	ctx, done := telemetry.Track(ctx, a.opts.telemetry, "disconnect")
	defer func() { done(err) }()

	a.mu.Lock()
	defer a.mu.Unlock()

	engine := a.currentEngine()
	if engine == nil {
		return iotmqtt.NewConnectionError(0, iotmqtt.ErrNotConnected)
	}
	if err := engine.Disconnect(ctx); err != nil {
		return iotmqtt.NewConnectionError(codeOf(err), err)
	}
	a.log.Infof("Disconnected")
	return nil
}

// Close disconnects when needed and releases the engine and its completion
// workers. A later Connect builds a new engine from the current options.
func (a *Adapter) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	engine := a.currentEngine()
	if engine == nil {
		return nil
	}
	a.engine.Store(nil)

	var err error
	if engine.ConnectionStatus() != awsiot.Disconnected {
		if dErr := engine.Disconnect(context.Background()); dErr != nil {
			err = iotmqtt.NewConnectionError(codeOf(dErr), dErr)
		}
	}
	engine.Close()
	a.log.Infof("Closed")
	return err
}

// Publish issues payload as a one-shot message. Its outcome is reported to the
// callback that is set when Publish is called, exactly once.
func (a *Adapter) Publish(ctx context.Context, topic string, payload []byte, qos iotmqtt.QoS) (err error) {
	ctx, done := telemetry.Track(ctx, a.opts.telemetry, string(iotmqtt.OpPublish))
	defer func() { done(err) }()

	if err := iotmqtt.CheckQoS(qos); err != nil {
		return iotmqtt.NewPublishError(0, err)
	}
	engine := a.currentEngine()
	if engine == nil {
		return iotmqtt.NewPublishError(0, iotmqtt.ErrNotConnected)
	}

	a.log.Debugf("Publish topic=%s qos=%d size=%d", topic, qos, len(payload))
	m := awsiot.NewMessage(topic, byte(qos), payload, &publishCompletion{
		topic: topic,
		cb:    a.Callback(),
	})
	if err := engine.Publish(ctx, m); err != nil {
		return iotmqtt.NewPublishError(codeOf(err), err)
	}
	return nil
}

func (a *Adapter) PublishString(ctx context.Context, topic string, payload string, qos iotmqtt.QoS) error {
	return a.Publish(ctx, topic, []byte(payload), qos)
}

// PublishObject publishes the canonical JSON encoding of payload.
func (a *Adapter) PublishObject(ctx context.Context, topic string, payload any, qos iotmqtt.QoS) error {
	data, err := iotmqtt.EncodeObject(payload)
	if err != nil {
		return iotmqtt.NewPublishError(0, err)
	}
	return a.Publish(ctx, topic, data, qos)
}

// Subscribe subscribes with QoS 0.
func (a *Adapter) Subscribe(ctx context.Context, topic string) error {
	return a.SubscribeQoS(ctx, topic, DefaultSubscribeQoS)
}

// SubscribeQoS subscribes to topic and waits for the acknowledgement up to the
// operation timeout. Messages are delivered to the callback's OnMessage.
func (a *Adapter) SubscribeQoS(ctx context.Context, topic string, qos iotmqtt.QoS) (err error) {
	ctx, done := telemetry.Track(ctx, a.opts.telemetry, string(iotmqtt.OpSubscribe))
	defer func() { done(err) }()

	if err := iotmqtt.CheckQoS(qos); err != nil {
		return iotmqtt.NewSubscribeError(0, err)
	}
	engine := a.currentEngine()
	if engine == nil {
		return iotmqtt.NewSubscribeError(0, iotmqtt.ErrNotConnected)
	}

	a.log.Debugf("Subscribe topic=%s qos=%d", topic, qos)
	t := awsiot.NewTopic(topic, byte(qos), a.handleMessage)
	if err := engine.Subscribe(ctx, t, a.opts.operationTimeout); err != nil {
		return iotmqtt.NewSubscribeError(codeOf(err), err)
	}
	return nil
}

// Unsubscribe waits for the acknowledgement up to the operation timeout. A
// timeout is reported the same way as a refusal.
func (a *Adapter) Unsubscribe(ctx context.Context, topic string) (err error) {
	ctx, done := telemetry.Track(ctx, a.opts.telemetry, string(iotmqtt.OpUnsubscribe))
	defer func() { done(err) }()

	engine := a.currentEngine()
	if engine == nil {
		return iotmqtt.NewUnsubscribeError(0, iotmqtt.ErrNotConnected)
	}

	a.log.Debugf("Unsubscribe topic=%s", topic)
	if err := engine.Unsubscribe(ctx, topic, a.opts.operationTimeout); err != nil {
		return iotmqtt.NewUnsubscribeError(codeOf(err), err)
	}
	return nil
}

// resolveDefaults derives options from the configuration provider once and
// caches them.
func (a *Adapter) resolveDefaults() (*iotmqtt.ConnectOptions, error) {
	if a.defaultOptions != nil {
		return a.defaultOptions, nil
	}

	provider := a.opts.provider
	if provider == nil {
		p, err := config.Load()
		if err != nil {
			return nil, err
		}
		provider = p
	}

	opts, clientID, err := config.AWSOptions(provider)
	if err != nil {
		return nil, err
	}
	a.defaultOptions = opts
	if clientID != "" && a.ClientID() == "" {
		a.SetClientID(clientID)
	}
	return opts, nil
}

func (a *Adapter) newEngine(opts *iotmqtt.ConnectOptions, clientID string) (awsiot.Engine, error) {
	engineOpts := a.opts.engineOptions
	if opts.TLSConfig != nil {
		engineOpts = append(engineOpts[:len(engineOpts):len(engineOpts)], awsiot.WithTLSConfig(opts.TLSConfig))
	}
	client, err := awsiot.NewClient(opts.ServerURI, clientID, opts.KeyStore, opts.KeyAlias, engineOpts...)
	if err != nil {
		return nil, err
	}
	return client, nil
}

func (a *Adapter) handleMessage(m *awsiot.Message) {
	cb := a.Callback()
	if cb == nil {
		a.log.Debugf("No callback, dropping message on %s", m.Topic)
		return
	}
	cb.OnMessage(m.Topic, iotmqtt.NewMessage(m.Topic, m.Payload, iotmqtt.QoS(m.QoS)))
}

func (a *Adapter) handleConnectionLost(err error) {
	a.log.Warnf("Connection lost: %v", err)
	cb := a.Callback()
	if cb == nil {
		return
	}
	cb.OnTimeout(err)
}

// publishCompletion forwards the outcome of one publish to the callback bound
// when it was issued.
type publishCompletion struct {
	topic string
	cb    iotmqtt.Callback
}

func (p *publishCompletion) OnSuccess() {
	if p.cb != nil {
		p.cb.OnSuccess()
	}
}

func (p *publishCompletion) OnFailure() {
	if p.cb != nil {
		p.cb.OnFailure()
	}
}

func (p *publishCompletion) OnTimeout() {
	if p.cb != nil {
		p.cb.OnTimeout(errors.Wrapf(awsiot.ErrTimeout, "publish to %s", p.topic))
	}
}

// codeOf returns the engine return code carried by err, 0 if none.
func codeOf(err error) int {
	var e *awsiot.Error
	if errors.As(err, &e) {
		return e.Code
	}
	return 0
}
