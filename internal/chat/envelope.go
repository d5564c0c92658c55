package chat

import (
	"encoding/json"
)

// Client to server events.
const (
	EventNewUser     = "newUser"
	EventChatMessage = "chatMessage"
)

// Server to client events.
const (
	EventUserConnected    = "userConnected"
	EventUserDisconnected = "userDisconnected"
	EventMessage          = "message"
	EventError            = "error"
)

// Envelope is the JSON frame exchanged over the socket in both directions.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// ChatMessage is the payload of a "message" broadcast.
type ChatMessage struct {
	UserEmail string `json:"userEmail"`
	Message   string `json:"message"`
}

func encodeFrame(event string, data any) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Event: event, Data: raw})
}

// DecodeString reads the envelope payload as a plain string.
func (e Envelope) DecodeString() (string, error) {
	var s string
	if err := json.Unmarshal(e.Data, &s); err != nil {
		return "", err
	}
	return s, nil
}
