package awsiot

import (
	"sync"
)

// CompletionHandler learns the outcome of one publish.
type CompletionHandler interface {
	OnSuccess()
	OnFailure()
	OnTimeout()
}

// CompletionFuncs adapts plain functions to CompletionHandler. Nil members are skipped.
type CompletionFuncs struct {
	Success func()
	Failure func()
	Timeout func()
}

func (f CompletionFuncs) OnSuccess() {
	if f.Success != nil {
		f.Success()
	}
}

func (f CompletionFuncs) OnFailure() {
	if f.Failure != nil {
		f.Failure()
	}
}

func (f CompletionFuncs) OnTimeout() {
	if f.Timeout != nil {
		f.Timeout()
	}
}

// Outcome is how a publish ended.
type Outcome int

const (
	OutcomePending Outcome = iota
	OutcomeSuccess
	OutcomeFailure
	OutcomeTimeout
)

func (o Outcome) String() string {
	switch o {
	case OutcomePending:
		return "pending"
	case OutcomeSuccess:
		return "success"
	case OutcomeFailure:
		return "failure"
	case OutcomeTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// Message is a one-shot publish request, or a message received on a Topic.
// A Message must not be published twice.
type Message struct {
	Topic   string
	QoS     byte
	Payload []byte

	// Handler receives the outcome of the publish, may be nil.
	Handler CompletionHandler

	once    sync.Once
	mu      sync.Mutex
	outcome Outcome
	err     error
}

// NewMessage creates a publish request.
func NewMessage(topic string, qos byte, payload []byte, handler CompletionHandler) *Message {
	return &Message{
		Topic:   topic,
		QoS:     qos,
		Payload: payload,
		Handler: handler,
	}
}

// Outcome returns how the publish ended so far and the engine error on failure.
func (m *Message) Outcome() (Outcome, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.outcome, m.err
}

// complete records the outcome and notifies the handler. Only the first call
// has any effect; it reports whether this call was the one.
func (m *Message) complete(outcome Outcome, err error) bool {
	fired := false
	m.once.Do(func() {
		fired = true

		m.mu.Lock()
		m.outcome = outcome
		m.err = err
		m.mu.Unlock()

		if m.Handler == nil {
			return
		}
		switch outcome {
		case OutcomeSuccess:
			m.Handler.OnSuccess()
		case OutcomeFailure:
			m.Handler.OnFailure()
		case OutcomeTimeout:
			m.Handler.OnTimeout()
		}
	})
	return fired
}

// Topic is a one-shot subscription request.
type Topic struct {
	Name string
	QoS  byte

	// Handler is called for every message received on the subscription.
	Handler func(m *Message)
}

// NewTopic creates a subscription request.
func NewTopic(name string, qos byte, handler func(m *Message)) *Topic {
	return &Topic{Name: name, QoS: qos, Handler: handler}
}
