package awsiot

// ConnectionStatus is the state of the connection to AWS IoT.
type ConnectionStatus int32

const (
	Disconnected ConnectionStatus = iota
	Connecting
	Connected
	// Reconnecting is reported while the engine restores a dropped connection on its own.
	Reconnecting
)

func (s ConnectionStatus) String() string {
	switch s {
	case Disconnected:
		return "DISCONNECTED"
	case Connecting:
		return "CONNECTING"
	case Connected:
		return "CONNECTED"
	case Reconnecting:
		return "RECONNECTING"
	default:
		return "UNKNOWN"
	}
}
