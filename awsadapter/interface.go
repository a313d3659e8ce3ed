// Package awsadapter implements iotmqtt.Client for AWS IoT Core on top of the
// awsiot engine.
//
// Every publish carries its own completion handler, so this backend reports
// the outcome of each publish through OnSuccess, OnFailure or OnTimeout of the
// callback that was set when the publish was issued.
package awsadapter

import (
	"io"

	iotmqtt "github.com/xizhibei/go-iotmqtt"
	"github.com/xizhibei/go-iotmqtt/awsiot"
)

// EngineFactory creates the engine for the resolved options and client id.
type EngineFactory func(opts *iotmqtt.ConnectOptions, clientID string) (awsiot.Engine, error)

// DefaultSubscribeQoS is used by Subscribe when no QoS is given.
const DefaultSubscribeQoS = iotmqtt.AtMostOnce

var (
	_ iotmqtt.Client = (*Adapter)(nil)
	_ io.Closer      = (*Adapter)(nil)
)
