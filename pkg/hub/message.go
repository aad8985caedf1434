// Package hub provides a thread-safe websocket broadcast hub
// using the idiomatic Go channel-based fan-out pattern.
package hub

// Message is one JSON payload to be broadcast to clients.
type Message struct {
	// Kind lets clients subscribe to a subset of messages. Empty reaches
	// every client.
	Kind string
	Data []byte
}

// NewJSONMessage creates a message from pre-encoded JSON
func NewJSONMessage(kind string, data []byte) Message {
	return Message{Kind: kind, Data: data}
}
