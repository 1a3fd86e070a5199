package websocket

import "encoding/json"

// Message defines the structure for websocket messages.
type Message struct {
	Action  string      `json:"action"`
	Payload interface{} `json:"payload"`
}

// NewMessage marshals an action/payload frame.
func NewMessage(action string, payload interface{}) []byte {
	data, _ := json.Marshal(Message{Action: action, Payload: payload})
	return data
}

// NewErrorMessage builds an error frame for the client.
func NewErrorMessage(message string) []byte {
	return NewMessage("error", map[string]string{"message": message})
}
