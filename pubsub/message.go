// Package pubsub declares message-triggered functions. A declaration pairs
// a topic with a handler; at invocation time the raw transport event is
// rewrapped so the handler sees a Message whose payload decodes lazily into
// a typed value.
package pubsub

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"time"
	"unicode/utf8"
)

// DecodeError reports a message payload that could not be decoded. It wraps
// the underlying base64 or JSON parser error so malformed-input problems
// are distinguishable from handler bugs.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return "pubsub: decoding message payload: " + e.Err.Error()
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Message is the envelope around a single published message. Data carries
// the payload as transported: base64-encoded UTF-8 JSON. JSON exposes the
// decoded form.
type Message struct {
	// ID is the opaque identifier assigned by the transport.
	ID string

	// Data is the base64-encoded payload.
	Data string

	// Attributes are the key/value attributes published with the message.
	Attributes map[string]string

	// OrderingKey groups messages that must be delivered in order. Empty
	// when the message was published without one.
	OrderingKey string

	// PublishTime is when the message was published. Defaults to the time
	// the envelope was constructed when the wire form omits it.
	PublishTime time.Time

	// decoded holds the memoized result of a successful decode. hasDecoded
	// distinguishes "decoded to nil" from "not yet decoded"; a failed decode
	// leaves both untouched so the next access retries.
	decoded    any
	hasDecoded bool
}

// NewMessageFromValue builds an envelope whose typed value is already known.
// JSON returns v directly without ever touching the wire payload; Data is
// populated with the base64 JSON serialization of v so the envelope still
// round-trips through the wire format.
func NewMessageFromValue(id string, v any) (*Message, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, &DecodeError{Err: err}
	}
	return &Message{
		ID:          id,
		Data:        base64.StdEncoding.EncodeToString(raw),
		PublishTime: time.Now(),
		decoded:     v,
		hasDecoded:  true,
	}, nil
}

// JSON returns the decoded payload. The first successful decode is memoized
// and returned unchanged on every later call; a failed decode is not cached,
// so each access retries until decode succeeds.
func (m *Message) JSON() (any, error) {
	if m.hasDecoded {
		return m.decoded, nil
	}

	raw, err := base64.StdEncoding.DecodeString(m.Data)
	if err != nil {
		return nil, &DecodeError{Err: err}
	}
	if !utf8.Valid(raw) {
		return nil, &DecodeError{Err: errors.New("payload is not valid UTF-8")}
	}

	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, &DecodeError{Err: err}
	}

	m.decoded = v
	m.hasDecoded = true
	return v, nil
}

// wireMessage is the on-wire shape. Attributes and orderingKey are omitted
// entirely when empty; messageId, data, and publishTime always appear.
type wireMessage struct {
	MessageID   string            `json:"messageId"`
	Data        string            `json:"data"`
	PublishTime time.Time         `json:"publishTime"`
	Attributes  map[string]string `json:"attributes,omitempty"`
	OrderingKey string            `json:"orderingKey,omitempty"`
}

// MarshalJSON implements json.Marshaler. The decoded value is derived state
// and never transmitted.
func (m *Message) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireMessage{
		MessageID:   m.ID,
		Data:        m.Data,
		PublishTime: m.PublishTime,
		Attributes:  m.Attributes,
		OrderingKey: m.OrderingKey,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (m *Message) UnmarshalJSON(data []byte) error {
	var w wireMessage
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	m.ID = w.MessageID
	m.Data = w.Data
	m.Attributes = w.Attributes
	m.OrderingKey = w.OrderingKey
	m.PublishTime = w.PublishTime
	if m.PublishTime.IsZero() {
		m.PublishTime = time.Now()
	}
	m.decoded = nil
	m.hasDecoded = false
	return nil
}
