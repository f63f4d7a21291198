package broker

// Event names pushed over live connections.
const (
	EventNotification = "notification"
	EventMessage      = "message"
)

// Event is one unit of fan-out: a named payload pushed to every member of a
// room. The payload is kept opaque here; transports decide how to encode it
// on the wire.
type Event struct {
	Name    string `json:"type"`
	Payload any    `json:"payload"`
}
