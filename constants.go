package iotmqtt

import "time"

const (
	// DefaultConnectPollAttempts is how many times the generic backend checks
	// the connection after issuing a connect.
	DefaultConnectPollAttempts = 10

	// DefaultConnectPollInterval is the pause between two connection checks.
	DefaultConnectPollInterval = time.Second

	// DefaultOperationTimeout bounds subscribe/unsubscribe acknowledgement and
	// publish completion on the AWS IoT backend.
	DefaultOperationTimeout = 10 * time.Second

	// DefaultDisconnectQuiesce is the time, in milliseconds, to let pending work
	// finish on disconnect.
	DefaultDisconnectQuiesce = 1000

	// ManagedCloudHostSuffix marks hostnames that get a secure scheme by default.
	ManagedCloudHostSuffix = "amazonaws.com"

	// SecureScheme is prepended to managed cloud hostnames given without a scheme.
	SecureScheme = "ssl"
)
