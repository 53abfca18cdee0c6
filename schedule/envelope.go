package schedule

import (
	"encoding/json"
	"time"
)

type rawEnvelope struct {
	Context struct {
		EventID   string    `json:"eventId"`
		Timestamp time.Time `json:"timestamp"`
	} `json:"context"`
}

// tickTime pulls the tick timestamp out of the raw envelope, falling back
// to the current time when the envelope omits it.
func tickTime(payload []byte) (time.Time, error) {
	var raw rawEnvelope
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &raw); err != nil {
			return time.Time{}, err
		}
	}
	if raw.Context.Timestamp.IsZero() {
		return time.Now(), nil
	}
	return raw.Context.Timestamp, nil
}
