package transport

import "encoding/json"

// Envelope is the standard API response wrapper used for both success and error payloads.
// Data is omitted on errors and rendered as null for successes without a body.
type Envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

var jsonNull = json.RawMessage("null")

// NewSuccess returns a success envelope.
func NewSuccess(message string, data interface{}) Envelope {
	raw, err := json.Marshal(data)
	if err != nil {
		raw = jsonNull
	}
	return Envelope{
		Success: true,
		Message: message,
		Data:    raw,
	}
}

// NewError returns an error envelope.
func NewError(message string) Envelope {
	return Envelope{
		Success: false,
		Message: message,
	}
}

// String returns the JSON representation (best-effort) for logging purposes.
func (e Envelope) String() string {
	out, err := json.Marshal(e)
	if err != nil {
		return "{}"
	}
	return string(out)
}

// Health is the unauthenticated liveness payload.
type Health struct {
	Status    string          `json:"status"`
	Timestamp string          `json:"timestamp"`
	Services  map[string]bool `json:"services,omitempty"`
}
