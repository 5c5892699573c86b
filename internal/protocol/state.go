package protocol

// ConnectionState tracks a transport leg's lifecycle. Transitions are
// CONNECTING -> OPEN -> CLOSED; CLOSED is terminal for a given attempt and a
// new attempt starts over at CONNECTING.
type ConnectionState int32

const (
	StateConnecting ConnectionState = iota
	StateOpen
	StateClosed
)

func (s ConnectionState) String() string {
	switch s {
	case StateConnecting:
		return "CONNECTING"
	case StateOpen:
		return "OPEN"
	case StateClosed:
		return "CLOSED"
	default:
		return "UNKNOWN"
	}
}
