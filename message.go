package iotmqtt

import (
	"bytes"
	"encoding/json"

	"github.com/cockroachdb/errors"
	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// Message is an immutable MQTT message. It satisfies mqtt.Message, so it can be
// handed to code written against paho.
type Message struct {
	topic     string
	payload   []byte
	qos       QoS
	retained  bool
	duplicate bool
	messageID uint16
}

var _ mqtt.Message = Message{}

// NewMessage creates a message, copying payload.
func NewMessage(topic string, payload []byte, qos QoS) Message {
	return Message{
		topic:   topic,
		payload: bytes.Clone(payload),
		qos:     qos,
	}
}

// FromPaho copies a paho message.
func FromPaho(m mqtt.Message) Message {
	return Message{
		topic:     m.Topic(),
		payload:   bytes.Clone(m.Payload()),
		qos:       QoS(m.Qos()),
		retained:  m.Retained(),
		duplicate: m.Duplicate(),
		messageID: m.MessageID(),
	}
}

func (m Message) Topic() string { return m.topic }

// Payload returns a copy of the payload.
func (m Message) Payload() []byte { return bytes.Clone(m.payload) }

func (m Message) QoS() QoS { return m.qos }

// Qos returns the QoS as paho expects it.
func (m Message) Qos() byte { return byte(m.qos) }

func (m Message) Retained() bool { return m.retained }

func (m Message) Duplicate() bool { return m.duplicate }

func (m Message) MessageID() uint16 { return m.messageID }

// Ack is a no-op; acknowledgement is handled by the engine.
func (m Message) Ack() {}

func (m Message) String() string { return string(m.payload) }

// EncodeObject returns the bytes sent for a structured payload.
// Byte slices and strings pass through untouched, anything else is encoded as
// compact JSON without HTML escaping, which is the payload's canonical string form.
func EncodeObject(payload any) ([]byte, error) {
	switch v := payload.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	case json.RawMessage:
		return v, nil
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(payload); err != nil {
		return nil, errors.Wrap(err, "[IOTMQTT] encode payload")
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
