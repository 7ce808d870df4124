package events

import "encoding/json"

// Event name constants
const (
	SessionUpdated = "session.updated"
	SessionRemoved = "session.removed"
	ConfigUpdated  = "config.updated"
)

// Event is a generic SSE event from daemon.
type Event struct {
	Name string          // SSE event name
	Data json.RawMessage // Raw JSON payload
}

// SessionEvent is the payload of session.updated and session.removed.
type SessionEvent struct {
	Session string `json:"session"`
	Reason  string `json:"reason"`
	Ts      int64  `json:"ts"`
}

// ConfigEvent is the payload of config.updated.
type ConfigEvent struct {
	ColorMode string `json:"colorMode"`
	Ts        int64  `json:"ts"`
}

// DecodeAs decodes the event payload into the caller-specified generic type T.
// It ignores the event name and simply unmarshals Data into T. If Data is empty,
// it returns the zero value of T with a nil error.
//
// Example:
//
//	payload, err := events.DecodeAs[events.SessionEvent](ev)
//	if err != nil { /* handle */ }
//	fmt.Println(payload.Session, payload.Reason)
func DecodeAs[T any](e Event) (T, error) {
	var zero T
	if len(e.Data) == 0 {
		return zero, nil
	}
	var v T
	if err := json.Unmarshal(e.Data, &v); err != nil {
		return zero, err
	}
	return v, nil
}
