package mqttadapter

import (
	"context"
	stdlog "log"
	"os"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	iotmqtt "github.com/xizhibei/go-iotmqtt"
	"github.com/xizhibei/go-iotmqtt/config"
	"github.com/xizhibei/go-iotmqtt/telemetry"
	"go.uber.org/atomic"
	"go.uber.org/zap"
)

type callbackRef struct {
	cb iotmqtt.Callback
}

type engineRef struct {
	client mqtt.Client
}

// Adapter is the generic broker client.
//
// The paho client is created on the first Connect and reused afterwards. Its
// handlers read the adapter's current callback and options, so SetCallback and
// ConnectWith take effect on the existing client. The broker uri and client id
// are fixed once the client exists.
type Adapter struct {
	// mu serializes engine creation and connection changes.
	mu             sync.Mutex
	engine         atomic.Pointer[engineRef]
	defaultOptions *iotmqtt.ConnectOptions

	connectOptions atomic.Pointer[iotmqtt.ConnectOptions]
	callback       atomic.Pointer[callbackRef]
	clientID       atomic.String
	connecting     atomic.Bool

	opts *options
	log  *zap.SugaredLogger
}

// New creates an Adapter. Nothing touches the network until Connect.
func New(opts ...Option) *Adapter {
	o := defaultOptions()
	for _, fn := range opts {
		fn(o)
	}

	if o.enableDebug {
		mqtt.DEBUG = stdlog.New(os.Stderr, "DEBUG - ", stdlog.LstdFlags)
		mqtt.CRITICAL = stdlog.New(os.Stderr, "CRITICAL - ", stdlog.LstdFlags)
		mqtt.WARN = stdlog.New(os.Stderr, "WARN - ", stdlog.LstdFlags)
		mqtt.ERROR = stdlog.New(os.Stderr, "ERROR - ", stdlog.LstdFlags)
	}

	return &Adapter{
		opts: o,
		log:  zap.S().With("module", "mqttadapter"),
	}
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

// IsConnected returns false until the engine exists and its connection is open.
func (a *Adapter) IsConnected() bool {
	engine := a.currentEngine()
	return engine != nil && engine.IsConnectionOpen()
}

func (a *Adapter) State() iotmqtt.State {
	if a.IsConnected() {
		return iotmqtt.StateConnected
	}
	if a.connecting.Load() {
		return iotmqtt.StateConnecting
	}
	return iotmqtt.StateDisconnected
}

// Connect connects with the options set earlier or, when there are none, with
// options derived from the configuration provider. It does nothing when the
// client is already connected.
//
// After the handshake is issued the connection is checked up to the configured
// number of times. If it is still not open, ConnectResultTimedOut is returned
// with a nil error and the client stays disconnected. A refused handshake or a
// cancelled ctx fails with a connection error.
func (a *Adapter) Connect(ctx context.Context) (res iotmqtt.ConnectResult, err error) {
	ctx, done := telemetry.Track(ctx, a.opts.telemetry, string(iotmqtt.OpConnect))
	defer func() { done(err) }()

	a.mu.Lock()
	defer a.mu.Unlock()

	engine := a.currentEngine()
	if engine != nil && engine.IsConnectionOpen() {
		return iotmqtt.ConnectResultConnected, nil
	}

	opts := a.connectOptions.Load()
	if opts == nil {
		opts, err = a.resolveDefaults()
		if err != nil {
			return iotmqtt.ConnectResultTimedOut, iotmqtt.NewConnectionError(0, err)
		}
		a.connectOptions.Store(opts)
	}

	if err := opts.Validate(); err != nil {
		return iotmqtt.ConnectResultTimedOut, iotmqtt.NewConnectionError(0, err)
	}

	if engine == nil {
		engine, err = a.newEngine(opts)
		if err != nil {
			return iotmqtt.ConnectResultTimedOut, iotmqtt.NewConnectionError(0, err)
		}
		a.engine.Store(&engineRef{client: engine})
	}

	a.log.Infof("Connecting %s as %s", opts.PrintableURI(), a.ClientID())

	a.connecting.Store(true)
	defer a.connecting.Store(false)

	return a.waitConnected(ctx, engine, engine.Connect())
}

func (a *Adapter) waitConnected(ctx context.Context, engine mqtt.Client, token mqtt.Token) (iotmqtt.ConnectResult, error) {
	tokenDone := token.Done()
	for i := 0; ; i++ {
		if engine.IsConnectionOpen() {
			return iotmqtt.ConnectResultConnected, nil
		}
		if i == a.opts.pollAttempts {
			break
		}

		timer := time.NewTimer(a.opts.pollInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return iotmqtt.ConnectResultTimedOut, iotmqtt.NewConnectionError(0, errors.Wrap(ctx.Err(), "[IOTMQTT] connect wait interrupted"))
		case <-tokenDone:
			timer.Stop()
			if err := token.Error(); err != nil {
				return iotmqtt.ConnectResultTimedOut, iotmqtt.NewConnectionError(returnCode(token), err)
			}
			// A completed token without error still leaves the connection to be
			// confirmed by the next check.
			tokenDone = nil
		case <-timer.C:
		}
	}

	a.log.Warnf("Connection not open after %d checks", a.opts.pollAttempts)
	return iotmqtt.ConnectResultTimedOut, nil
}

// ConnectWith stores opts and issues a connect on the existing engine without
// waiting for it. When no engine has been created yet it does nothing and
// returns ConnectResultSkipped.
func (a *Adapter) ConnectWith(ctx context.Context, opts *iotmqtt.ConnectOptions) (res iotmqtt.ConnectResult, err error) {
	ctx, done := telemetry.Track(ctx, a.opts.telemetry, string(iotmqtt.OpConnect))
	defer func() { done(err) }()

	a.mu.Lock()
	defer a.mu.Unlock()

	engine := a.currentEngine()
	if engine == nil {
		a.log.Warnf("ConnectWith ignored, call Connect first")
		return iotmqtt.ConnectResultSkipped, nil
	}

	if err := opts.Validate(); err != nil {
		return iotmqtt.ConnectResultTimedOut, iotmqtt.NewConnectionError(0, err)
	}
	a.connectOptions.Store(opts)

	if err := ctx.Err(); err != nil {
		return iotmqtt.ConnectResultTimedOut, iotmqtt.NewConnectionError(0, errors.Wrap(err, "[IOTMQTT] connect"))
	}

	token := engine.Connect()
	if err := tokenError(token); err != nil {
		return iotmqtt.ConnectResultTimedOut, iotmqtt.NewConnectionError(returnCode(token), err)
	}
	if engine.IsConnectionOpen() {
		return iotmqtt.ConnectResultConnected, nil
	}
	return iotmqtt.ConnectResultPending, nil
}

// Reconnect issues a connect on the existing engine when it is not connected.
func (a *Adapter) Reconnect(ctx context.Context) (err error) {
	ctx, done := telemetry.Track(ctx, a.opts.telemetry, "reconnect")
	defer func() { done(err) }()

	a.mu.Lock()
	defer a.mu.Unlock()

	engine := a.currentEngine()
	if engine == nil {
		return iotmqtt.NewConnectionError(0, iotmqtt.ErrNotConnected)
	}
	if engine.IsConnectionOpen() {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return iotmqtt.NewConnectionError(0, errors.Wrap(err, "[IOTMQTT] reconnect"))
	}

	a.log.Infof("Reconnecting")
	token := engine.Connect()
	if err := tokenError(token); err != nil {
		return iotmqtt.NewConnectionError(returnCode(token), err)
	}
	return nil
}

// Disconnect closes the connection. It fails with ErrNotConnected when Connect
// has never created the engine.
func (a *Adapter) Disconnect(ctx context.Context) (err error) {
	_, done := telemetry.Track(ctx, a.opts.telemetry, "disconnect")
	defer func() { done(err) }()

	a.mu.Lock()
	defer a.mu.Unlock()

	engine := a.currentEngine()
	if engine == nil {
		return iotmqtt.NewConnectionError(0, iotmqtt.ErrNotConnected)
	}

	engine.Disconnect(a.opts.quiesce)
	a.log.Infof("Disconnected")
	return nil
}

func (a *Adapter) currentEngine() mqtt.Client {
	if ref := a.engine.Load(); ref != nil {
		return ref.client
	}
	return nil
}

// Publish hands payload to the engine. Delivery is asynchronous and its
// outcome is not reported.
func (a *Adapter) Publish(ctx context.Context, topic string, payload []byte, qos iotmqtt.QoS) (err error) {
	_, done := telemetry.Track(ctx, a.opts.telemetry, string(iotmqtt.OpPublish))
	defer func() { done(err) }()

	if err := iotmqtt.CheckQoS(qos); err != nil {
		return iotmqtt.NewPublishError(0, err)
	}
	engine := a.currentEngine()
	if engine == nil {
		return iotmqtt.NewPublishError(0, iotmqtt.ErrNotConnected)
	}

	a.log.Debugf("Publish topic=%s qos=%d size=%d", topic, qos, len(payload))
	if err := tokenError(engine.Publish(topic, byte(qos), false, payload)); err != nil {
		return iotmqtt.NewPublishError(0, err)
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

// Subscribe subscribes with QoS 1.
func (a *Adapter) Subscribe(ctx context.Context, topic string) error {
	return a.SubscribeQoS(ctx, topic, DefaultSubscribeQoS)
}

// SubscribeQoS subscribes to topic. Messages are delivered to the callback's
// OnMessage.
func (a *Adapter) SubscribeQoS(ctx context.Context, topic string, qos iotmqtt.QoS) (err error) {
	_, done := telemetry.Track(ctx, a.opts.telemetry, string(iotmqtt.OpSubscribe))
	defer func() { done(err) }()

	if err := iotmqtt.CheckQoS(qos); err != nil {
		return iotmqtt.NewSubscribeError(0, err)
	}
	engine := a.currentEngine()
	if engine == nil {
		return iotmqtt.NewSubscribeError(0, iotmqtt.ErrNotConnected)
	}

	a.log.Debugf("Subscribe topic=%s qos=%d", topic, qos)
	// A nil handler routes messages to the default publish handler.
	if err := tokenError(engine.Subscribe(topic, byte(qos), nil)); err != nil {
		return iotmqtt.NewSubscribeError(0, err)
	}
	return nil
}

func (a *Adapter) Unsubscribe(ctx context.Context, topic string) (err error) {
	_, done := telemetry.Track(ctx, a.opts.telemetry, string(iotmqtt.OpUnsubscribe))
	defer func() { done(err) }()

	engine := a.currentEngine()
	if engine == nil {
		return iotmqtt.NewUnsubscribeError(0, iotmqtt.ErrNotConnected)
	}

	a.log.Debugf("Unsubscribe topic=%s", topic)
	if err := tokenError(engine.Unsubscribe(topic)); err != nil {
		return iotmqtt.NewUnsubscribeError(0, err)
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

	opts, clientID, err := config.GenericOptions(provider)
	if err != nil {
		return nil, err
	}
	a.defaultOptions = opts
	if clientID != "" && a.ClientID() == "" {
		a.SetClientID(clientID)
	}
	return opts, nil
}

func (a *Adapter) newEngine(opts *iotmqtt.ConnectOptions) (mqtt.Client, error) {
	broker, err := opts.BrokerURI()
	if err != nil {
		return nil, err
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

	printable := opts.PrintableURI()
	co := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetCleanSession(opts.CleanSession).
		SetAutoReconnect(false).
		SetConnectRetry(false).
		SetCredentialsProvider(a.credentials).
		SetDefaultPublishHandler(a.handleMessage).
		SetConnectionLostHandler(a.handleConnectionLost).
		SetOnConnectHandler(func(mqtt.Client) {
			a.log.Infof("Connected %s", printable)
		})

	if opts.ConnectionTimeout > 0 {
		co.SetConnectTimeout(opts.ConnectionTimeout)
	}
	if opts.KeepAliveInterval > 0 {
		co.SetKeepAlive(opts.KeepAliveInterval)
	}

	tlsConfig := opts.TLSConfig
	if tlsConfig == nil && opts.KeyStore != nil {
		tlsConfig = opts.KeyStore.TLSConfig(nil)
	}
	if tlsConfig != nil {
		co.SetTLSConfig(tlsConfig)
	}

	if w := opts.Will; w != nil {
		co.SetBinaryWill(w.Topic, w.Payload, byte(w.QoS), w.Retained)
	}

	if a.opts.store != nil {
		co.SetStore(a.opts.store)
	}

	return a.opts.engineFactory(co), nil
}

// credentials supplies the username and password of the current options on
// every handshake.
func (a *Adapter) credentials() (string, string) {
	opts := a.connectOptions.Load()
	if opts == nil {
		return "", ""
	}
	return opts.Username, opts.Password
}

func (a *Adapter) handleMessage(_ mqtt.Client, m mqtt.Message) {
	cb := a.Callback()
	if cb == nil {
		a.log.Debugf("No callback, dropping message on %s", m.Topic())
		return
	}
	cb.OnMessage(m.Topic(), iotmqtt.FromPaho(m))
}

func (a *Adapter) handleConnectionLost(_ mqtt.Client, err error) {
	a.log.Warnf("Connection lost: %v", err)
	cb := a.Callback()
	if cb == nil {
		return
	}
	cb.OnTimeout(err)
}

// tokenError returns the error of a token that has already completed, nil
// when it is still in flight.
func tokenError(t mqtt.Token) error {
	select {
	case <-t.Done():
		return t.Error()
	default:
		return nil
	}
}

// returnCode extracts the CONNACK return code from a connect token.
func returnCode(t mqtt.Token) int {
	if ct, ok := t.(*mqtt.ConnectToken); ok {
		return int(ct.ReturnCode())
	}
	return 0
}
