// Package mqttadapter implements iotmqtt.Client for any MQTT 3.1/3.1.1 broker
// on top of the paho client.
//
// The paho client has a single global listener and no per-call completion
// events, so the adapter surfaces inbound messages and connection loss only.
// Connect issues the handshake and then polls the connection a bounded number
// of times; running out of attempts is reported as ConnectResultTimedOut rather
// than as an error.
package mqttadapter

import (
	mqtt "github.com/eclipse/paho.mqtt.golang"
	iotmqtt "github.com/xizhibei/go-iotmqtt"
)

// EngineFactory creates the underlying paho client from fully prepared options.
type EngineFactory func(opts *mqtt.ClientOptions) mqtt.Client

// DefaultSubscribeQoS is used by Subscribe when no QoS is given.
const DefaultSubscribeQoS = iotmqtt.AtLeastOnce

var _ iotmqtt.Client = (*Adapter)(nil)
