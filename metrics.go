package iotmqtt

import "github.com/prometheus/client_golang/prometheus"

// Callback event label values.
const (
	EventSuccess = "success"
	EventFailure = "failure"
	EventTimeout = "timeout"
	EventMessage = "message"
)

// NewCallbackEventsCounter creates the counter used by InstrumentCallback.
// The caller registers it.
func NewCallbackEventsCounter(namespace string) *prometheus.CounterVec {
	return prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "mqtt_callback",
			Name:      "events_total",
			Help:      "Number of events delivered to the MQTT client callback.",
		},
		[]string{"event"},
	)
}

type instrumentedCallback struct {
	next   Callback
	events *prometheus.CounterVec
}

// InstrumentCallback counts every event by its "event" label before passing it to next.
// next may be nil, in which case events are only counted.
func InstrumentCallback(next Callback, events *prometheus.CounterVec) Callback {
	return &instrumentedCallback{next: next, events: events}
}

func (c *instrumentedCallback) OnSuccess() {
	c.events.WithLabelValues(EventSuccess).Inc()
	if c.next != nil {
		c.next.OnSuccess()
	}
}

func (c *instrumentedCallback) OnFailure() {
	c.events.WithLabelValues(EventFailure).Inc()
	if c.next != nil {
		c.next.OnFailure()
	}
}

func (c *instrumentedCallback) OnTimeout(cause error) {
	c.events.WithLabelValues(EventTimeout).Inc()
	if c.next != nil {
		c.next.OnTimeout(cause)
	}
}

func (c *instrumentedCallback) OnMessage(topic string, msg Message) {
	c.events.WithLabelValues(EventMessage).Inc()
	if c.next != nil {
		c.next.OnMessage(topic, msg)
	}
}
