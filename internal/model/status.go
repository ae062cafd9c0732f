package model

// ConnState represents the state of the remote connection
type ConnState string

const (
	// StateDisconnected means no session exists
	StateDisconnected ConnState = "Disconnected"

	// StateConnecting means a connect probe is in flight
	StateConnecting ConnState = "Connecting"

	// StateConnected means an authenticated session is active
	StateConnected ConnState = "Connected"
)

// String returns the string representation of ConnState
func (cs ConnState) String() string {
	return string(cs)
}

// IsConnected returns true if an active session exists
func (cs ConnState) IsConnected() bool {
	return cs == StateConnected
}
