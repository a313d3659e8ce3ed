package awsadapter

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/suite"
	iotmqtt "github.com/xizhibei/go-iotmqtt"
	"github.com/xizhibei/go-iotmqtt/awsiot"
	"github.com/xizhibei/go-iotmqtt/config"
	"github.com/xizhibei/go-iotmqtt/keystore"
	mock_iotmqtt "github.com/xizhibei/go-iotmqtt/mock"
	mock_awsiot "github.com/xizhibei/go-iotmqtt/mock/awsiot"
	"github.com/xizhibei/go-iotmqtt/telemetry"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

type AdapterTestSuite struct {
	suite.Suite
	ctx      context.Context
	mockCtrl *gomock.Controller
	engine   *mock_awsiot.MockEngine
	callback *mock_iotmqtt.MockCallback
	tel      *telemetry.TestTelemetry

	mu          sync.Mutex
	status      awsiot.ConnectionStatus
	lostHandler func(error)

	factoryOpts     *iotmqtt.ConnectOptions
	factoryClientID string
	factoryCalls    int
	adapter         *Adapter
}

func TestAdapterTestSuite(t *testing.T) {
	suite.Run(t, new(AdapterTestSuite))
}

func (s *AdapterTestSuite) SetupSuite() {
	log, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	zap.ReplaceGlobals(log)
}

func (s *AdapterTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.mockCtrl = gomock.NewController(s.T())
	s.engine = mock_awsiot.NewMockEngine(s.mockCtrl)
	s.callback = mock_iotmqtt.NewMockCallback(s.mockCtrl)
	s.tel = telemetry.NewTestTelemetry(s.T())
	s.status = awsiot.Disconnected
	s.lostHandler = nil
	s.factoryOpts = nil
	s.factoryClientID = ""
	s.factoryCalls = 0

	s.engine.EXPECT().ConnectionStatus().DoAndReturn(func() awsiot.ConnectionStatus {
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.status
	}).AnyTimes()

	dir := s.T().TempDir()
	certPath, keyPath := keystore.WriteTestPair(s.T(), dir, "thing-1")

	s.adapter = s.newAdapter(config.Map{Values: map[string]string{
		config.KeyEndpoint:          "abc-ats.iot.us-east-1.amazonaws.com",
		config.KeyClientID:          "thing-1",
		config.KeyCertPath:          certPath,
		config.KeyPrivateKeyPath:    keyPath,
		config.KeyConnectionTimeout: "5",
	}})
}

func (s *AdapterTestSuite) newAdapter(p config.Provider, opts ...Option) *Adapter {
	opts = append([]Option{
		WithOperationTimeout(50 * time.Millisecond),
		WithTelemetry(s.tel),
		WithConfigProvider(p),
		WithEngineFactory(func(o *iotmqtt.ConnectOptions, clientID string) (awsiot.Engine, error) {
			s.factoryCalls++
			s.factoryOpts = o
			s.factoryClientID = clientID
			return s.engine, nil
		}),
	}, opts...)
	a := New(opts...)
	a.SetCallback(s.callback)
	return a
}

func (s *AdapterTestSuite) setStatus(status awsiot.ConnectionStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = status
}

func (s *AdapterTestSuite) expectEngineSetup() {
	s.engine.EXPECT().SetConnectionTimeout(5 * time.Second)
	s.engine.EXPECT().SetPublishTimeout(50 * time.Millisecond)
	s.engine.EXPECT().SetConnectionLostHandler(gomock.Any()).Do(func(h func(error)) {
		s.lostHandler = h
	})
}

// connect brings the adapter to the connected state through the default path.
func (s *AdapterTestSuite) connect() {
	s.expectEngineSetup()
	s.engine.EXPECT().Connect(gomock.Any()).DoAndReturn(func(context.Context) error {
		s.setStatus(awsiot.Connected)
		return nil
	})
	res, err := s.adapter.Connect(s.ctx)
	s.Require().NoError(err)
	s.Require().Equal(iotmqtt.ConnectResultConnected, res)
}

// capturePublish records the next published message.
func (s *AdapterTestSuite) capturePublish() <-chan *awsiot.Message {
	ch := make(chan *awsiot.Message, 1)
	s.engine.EXPECT().Publish(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, m *awsiot.Message) error {
		ch <- m
		return nil
	})
	return ch
}

func (s *AdapterTestSuite) TestNotConnectedBeforeConnect() {
	s.False(s.adapter.IsConnected())
	s.Equal(iotmqtt.StateDisconnected, s.adapter.State())
	s.Nil(s.adapter.ConnectOptions())
}

func (s *AdapterTestSuite) TestConnectUsesConfigDefaults() {
	s.connect()

	s.Equal(1, s.factoryCalls)
	s.Equal("thing-1", s.factoryClientID)
	s.Equal("thing-1", s.adapter.ClientID())
	s.Equal("ssl://abc-ats.iot.us-east-1.amazonaws.com", s.factoryOpts.ServerURI)
	s.NotNil(s.factoryOpts.KeyStore)
	s.Equal("thing-1", s.factoryOpts.KeyAlias)

	s.True(s.adapter.IsConnected())
	s.Equal(iotmqtt.StateConnected, s.adapter.State())
	s.Equal(uint64(1), s.tel.OperationCount(s.ctx, "connect", telemetry.StatusOK))
}

func (s *AdapterTestSuite) TestConnectIsNoopWhenConnected() {
	s.connect()

	res, err := s.adapter.Connect(s.ctx)
	s.NoError(err)
	s.Equal(iotmqtt.ConnectResultConnected, res)
	s.Equal(1, s.factoryCalls)
}

func (s *AdapterTestSuite) TestConnectRefused() {
	s.expectEngineSetup()
	s.engine.EXPECT().Connect(gomock.Any()).Return(&awsiot.Error{Code: 5})

	res, err := s.adapter.Connect(s.ctx)
	s.Error(err)
	s.Equal(iotmqtt.ConnectResultTimedOut, res)
	s.True(iotmqtt.IsConnectionError(err))
	s.False(s.adapter.IsConnected())
	s.Equal(uint64(1), s.tel.OperationCount(s.ctx, "connect", telemetry.StatusError))
}

func (s *AdapterTestSuite) TestConnectInvalidOptions() {
	s.adapter.SetConnectOptions(&iotmqtt.ConnectOptions{})

	_, err := s.adapter.Connect(s.ctx)
	s.True(iotmqtt.IsConnectionError(err))
	s.Equal(0, s.factoryCalls)
}

func (s *AdapterTestSuite) TestConnectGeneratesClientID() {
	a := s.newAdapter(config.Map{Values: map[string]string{
		config.KeyEndpoint: "tcp://localhost:1883",
	}})
	s.engine.EXPECT().SetPublishTimeout(gomock.Any())
	s.engine.EXPECT().SetConnectionLostHandler(gomock.Any())
	s.engine.EXPECT().Connect(gomock.Any()).Return(nil)

	_, err := a.Connect(s.ctx)
	s.NoError(err)
	s.Regexp(`^iotmqtt-`, a.ClientID())
	s.Equal(a.ClientID(), s.factoryClientID)
}

func (s *AdapterTestSuite) TestConnectWith() {
	opts, err := iotmqtt.NewConnectOptions("ssl://other-ats.iot.eu-west-1.amazonaws.com:8883")
	s.Require().NoError(err)
	opts.ClientID = "thing-2"
	opts.KeepAliveInterval = 30 * time.Second

	s.engine.EXPECT().SetKeepAliveInterval(30 * time.Second)
	s.engine.EXPECT().SetPublishTimeout(gomock.Any())
	s.engine.EXPECT().SetConnectionLostHandler(gomock.Any())
	s.engine.EXPECT().Connect(gomock.Any()).DoAndReturn(func(context.Context) error {
		s.setStatus(awsiot.Connected)
		return nil
	})

	res, err := s.adapter.ConnectWith(s.ctx, opts)
	s.NoError(err)
	s.Equal(iotmqtt.ConnectResultConnected, res)
	s.Same(opts, s.adapter.ConnectOptions())
	s.Same(opts, s.factoryOpts)
	s.Equal("thing-2", s.adapter.ClientID())
}

func (s *AdapterTestSuite) TestState() {
	s.connect()

	s.setStatus(awsiot.Reconnecting)
	s.Equal(iotmqtt.StateConnecting, s.adapter.State())
	s.False(s.adapter.IsConnected())

	s.setStatus(awsiot.Disconnected)
	s.Equal(iotmqtt.StateDisconnected, s.adapter.State())
}

func (s *AdapterTestSuite) TestDisconnect() {
	err := s.adapter.Disconnect(s.ctx)
	s.True(iotmqtt.IsConnectionError(err))
	s.ErrorIs(err, iotmqtt.ErrNotConnected)

	s.connect()
	s.engine.EXPECT().Disconnect(gomock.Any()).Return(nil)
	s.NoError(s.adapter.Disconnect(s.ctx))

	s.engine.EXPECT().Disconnect(gomock.Any()).Return(awsiot.ErrNotConnected)
	s.True(iotmqtt.IsConnectionError(s.adapter.Disconnect(s.ctx)))
}

func (s *AdapterTestSuite) TestReconnect() {
	s.connect()
	s.setStatus(awsiot.Disconnected)

	s.engine.EXPECT().Connect(gomock.Any()).Return(nil)
	s.NoError(s.adapter.Reconnect(s.ctx))
	s.Equal(1, s.factoryCalls)
	s.Equal(uint64(1), s.tel.OperationCount(s.ctx, "reconnect", telemetry.StatusOK))

	s.setStatus(awsiot.Disconnected)
	s.engine.EXPECT().Connect(gomock.Any()).Return(awsiot.ErrTimeout)
	s.True(iotmqtt.IsConnectionError(s.adapter.Reconnect(s.ctx)))
	s.Equal(uint64(1), s.tel.OperationCount(s.ctx, "reconnect", telemetry.StatusError))
}

func (s *AdapterTestSuite) TestCloseBeforeConnect() {
	s.NoError(s.adapter.Close())
	s.Equal(0, s.factoryCalls)
}

func (s *AdapterTestSuite) TestCloseReleasesEngine() {
	s.connect()

	gomock.InOrder(
		s.engine.EXPECT().Disconnect(gomock.Any()).DoAndReturn(func(context.Context) error {
			s.setStatus(awsiot.Disconnected)
			return nil
		}),
		s.engine.EXPECT().Close(),
	)
	s.NoError(s.adapter.Close())
	s.False(s.adapter.IsConnected())
	s.NoError(s.adapter.Close())

	err := s.adapter.Disconnect(s.ctx)
	s.ErrorIs(err, iotmqtt.ErrNotConnected)

	// A later connect builds a fresh engine.
	s.connect()
	s.Equal(2, s.factoryCalls)
}

func (s *AdapterTestSuite) TestCloseSkipsDisconnectWhenAlreadyDown() {
	s.connect()
	s.setStatus(awsiot.Disconnected)

	s.engine.EXPECT().Close()
	s.NoError(s.adapter.Close())
}

func (s *AdapterTestSuite) TestReconnectBreakerOpens() {
	a := s.newAdapter(config.Map{Values: map[string]string{
		config.KeyEndpoint: "tcp://localhost:1883",
	}}, WithReconnectBreaker(2, time.Hour))

	s.engine.EXPECT().SetPublishTimeout(gomock.Any())
	s.engine.EXPECT().SetConnectionLostHandler(gomock.Any())
	s.engine.EXPECT().Connect(gomock.Any()).Return(awsiot.ErrTimeout).Times(2)

	s.True(iotmqtt.IsConnectionError(a.Reconnect(s.ctx)))
	s.True(iotmqtt.IsConnectionError(a.Reconnect(s.ctx)))

	err := a.Reconnect(s.ctx)
	s.True(iotmqtt.IsConnectionError(err))
	s.ErrorIs(err, gobreaker.ErrOpenState)
	s.Equal(uint64(3), s.tel.OperationCount(s.ctx, "reconnect", telemetry.StatusError))
}

func (s *AdapterTestSuite) TestOperationsBeforeConnect() {
	s.True(iotmqtt.IsPublishError(s.adapter.PublishString(s.ctx, "t", "x", iotmqtt.AtMostOnce)))
	s.True(iotmqtt.IsSubscribeError(s.adapter.Subscribe(s.ctx, "t")))
	s.True(iotmqtt.IsUnsubscribeError(s.adapter.Unsubscribe(s.ctx, "t")))
}

func (s *AdapterTestSuite) TestPublishReportsOutcomeToCallback() {
	s.connect()

	published := s.capturePublish()
	s.NoError(s.adapter.PublishString(s.ctx, "things/1/data", "hello", iotmqtt.AtLeastOnce))
	m := <-published
	s.Equal("things/1/data", m.Topic)
	s.Equal(byte(1), m.QoS)
	s.Equal([]byte("hello"), m.Payload)

	s.callback.EXPECT().OnSuccess()
	m.Handler.OnSuccess()
}

func (s *AdapterTestSuite) TestPublishOutcomeGoesToCallbackAtIssue() {
	s.connect()

	published := s.capturePublish()
	s.NoError(s.adapter.Publish(s.ctx, "t", []byte("x"), iotmqtt.AtMostOnce))
	m := <-published

	other := mock_iotmqtt.NewMockCallback(s.mockCtrl)
	s.adapter.SetCallback(other)

	s.callback.EXPECT().OnFailure()
	m.Handler.OnFailure()
}

func (s *AdapterTestSuite) TestPublishTimeoutOutcome() {
	s.connect()

	published := s.capturePublish()
	s.NoError(s.adapter.PublishObject(s.ctx, "t", map[string]int{"a": 1}, iotmqtt.AtMostOnce))
	m := <-published
	s.Equal(`{"a":1}`, string(m.Payload))

	s.callback.EXPECT().OnTimeout(gomock.Any()).Do(func(cause error) {
		s.ErrorIs(cause, awsiot.ErrTimeout)
	})
	m.Handler.OnTimeout()
}

func (s *AdapterTestSuite) TestConcurrentPublishesReportTheirOwnOutcome() {
	s.connect()

	first := mock_iotmqtt.NewMockCallback(s.mockCtrl)
	second := mock_iotmqtt.NewMockCallback(s.mockCtrl)

	published := make(chan *awsiot.Message, 2)
	s.engine.EXPECT().Publish(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, m *awsiot.Message) error {
		published <- m
		return nil
	}).Times(2)

	s.adapter.SetCallback(first)
	s.NoError(s.adapter.PublishString(s.ctx, "a", "1", iotmqtt.AtMostOnce))
	s.adapter.SetCallback(second)
	s.NoError(s.adapter.PublishString(s.ctx, "b", "2", iotmqtt.AtMostOnce))

	ma, mb := <-published, <-published
	second.EXPECT().OnFailure()
	first.EXPECT().OnSuccess()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() { defer wg.Done(); mb.Handler.OnFailure() }()
	go func() { defer wg.Done(); ma.Handler.OnSuccess() }()
	wg.Wait()
}

func (s *AdapterTestSuite) TestPublishErrors() {
	s.connect()

	err := s.adapter.Publish(s.ctx, "t", nil, iotmqtt.QoS(3))
	s.True(iotmqtt.IsPublishError(err))
	s.ErrorIs(err, iotmqtt.ErrInvalidQoS)

	s.engine.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(awsiot.ErrThrottled)
	err = s.adapter.Publish(s.ctx, "t", nil, iotmqtt.AtMostOnce)
	s.True(iotmqtt.IsPublishError(err))
	s.ErrorIs(err, awsiot.ErrThrottled)
}

func (s *AdapterTestSuite) TestSubscribeDefaultsToQoS0() {
	s.connect()

	var topic *awsiot.Topic
	s.engine.EXPECT().Subscribe(gomock.Any(), gomock.Any(), 50*time.Millisecond).
		DoAndReturn(func(_ context.Context, t *awsiot.Topic, _ time.Duration) error {
			topic = t
			return nil
		})
	s.NoError(s.adapter.Subscribe(s.ctx, "things/+/cmd"))
	s.Require().NotNil(topic)
	s.Equal("things/+/cmd", topic.Name)
	s.Equal(byte(0), topic.QoS)

	s.callback.EXPECT().OnMessage("things/1/cmd", gomock.Any()).Do(func(_ string, msg iotmqtt.Message) {
		s.Equal("reboot", msg.String())
		s.Equal(iotmqtt.AtLeastOnce, msg.QoS())
	})
	topic.Handler(&awsiot.Message{Topic: "things/1/cmd", QoS: 1, Payload: []byte("reboot")})

	s.adapter.SetCallback(nil)
	topic.Handler(&awsiot.Message{Topic: "things/1/cmd"})
}

func (s *AdapterTestSuite) TestSubscribeErrors() {
	s.connect()

	s.engine.EXPECT().Subscribe(gomock.Any(), gomock.Any(), gomock.Any()).Return(awsiot.ErrTimeout)
	err := s.adapter.SubscribeQoS(s.ctx, "t", iotmqtt.AtLeastOnce)
	s.True(iotmqtt.IsSubscribeError(err))

	s.engine.EXPECT().Subscribe(gomock.Any(), gomock.Any(), gomock.Any()).Return(&awsiot.Error{Code: 0x80})
	err = s.adapter.SubscribeQoS(s.ctx, "t", iotmqtt.AtLeastOnce)
	s.True(iotmqtt.IsSubscribeError(err))
	s.Equal(0x80, iotmqtt.ReasonCode(err))
}

func (s *AdapterTestSuite) TestUnsubscribeTimeoutAndFailureLookTheSame() {
	s.connect()

	s.engine.EXPECT().Unsubscribe(gomock.Any(), "t", 50*time.Millisecond).Return(nil)
	s.NoError(s.adapter.Unsubscribe(s.ctx, "t"))

	s.engine.EXPECT().Unsubscribe(gomock.Any(), "t", gomock.Any()).Return(awsiot.ErrTimeout)
	s.True(iotmqtt.IsUnsubscribeError(s.adapter.Unsubscribe(s.ctx, "t")))

	s.engine.EXPECT().Unsubscribe(gomock.Any(), "t", gomock.Any()).Return(errors.New("boom"))
	s.True(iotmqtt.IsUnsubscribeError(s.adapter.Unsubscribe(s.ctx, "t")))
}

func (s *AdapterTestSuite) TestConnectionLostCallsOnTimeout() {
	s.connect()
	s.Require().NotNil(s.lostHandler)

	lost := errors.New("EOF")
	s.callback.EXPECT().OnTimeout(lost)
	s.lostHandler(lost)
}

func (s *AdapterTestSuite) TestDefaultEngineFactory() {
	dir := s.T().TempDir()
	certPath, keyPath := keystore.WriteTestPair(s.T(), dir, "thing-1")
	ks, err := keystore.Load(certPath, keyPath)
	s.Require().NoError(err)

	a := New()
	engine, err := a.newEngine(&iotmqtt.ConnectOptions{
		ServerURI: "ssl://abc-ats.iot.us-east-1.amazonaws.com:8883",
		KeyStore:  ks,
		KeyAlias:  "thing-1",
	}, "thing-1")
	s.Require().NoError(err)

	client, ok := engine.(*awsiot.Client)
	s.Require().True(ok)
	s.Equal("thing-1", client.ClientID())
	s.Equal(awsiot.Disconnected, client.ConnectionStatus())
	client.Close()

	_, err = a.newEngine(&iotmqtt.ConnectOptions{
		ServerURI: "tcp://localhost:1883",
		KeyStore:  ks,
		KeyAlias:  "thing-1",
	}, "thing-1")
	s.ErrorIs(err, awsiot.ErrInvalidEndpoint)
}
