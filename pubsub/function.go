package pubsub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	functions "github.com/Jayother24/firebase-functions"
	"github.com/Jayother24/firebase-functions/internal/identity"
)

// EventTypePublish is the event type recorded for message-triggered
// functions.
const EventTypePublish = "google.pubsub.topic.publish"

// ErrMissingTopic is returned when a declaration omits the topic.
var ErrMissingTopic = errors.New("pubsub: topic is required")

// Event is what a handler receives: the delivery context of the raw event
// with its nested raw message replaced by a decoder envelope.
type Event struct {
	// EventID is the unique delivery identifier.
	EventID string

	// Timestamp is when the event entered the transport.
	Timestamp time.Time

	// Message wraps the published payload.
	Message *Message
}

// Handler processes a single decoded event.
type Handler func(ctx context.Context, e Event) error

// PublishOptions configures a message-triggered declaration. Topic is the
// trigger key; the embedded RuntimeOptions take part in the generic merge.
type PublishOptions struct {
	// Topic the function subscribes to.
	Topic string

	functions.RuntimeOptions
}

// Function is the callable artifact returned by a message-trigger
// declaration.
type Function struct {
	// Run is the original, undecorated handler. Tests can call it directly
	// with a prebuilt Event, bypassing envelope decoding.
	Run Handler

	topic    string
	global   functions.RuntimeOptions
	specific functions.RuntimeOptions
	endpoint functions.ManifestEndpoint
}

// OnPublish declares a function triggered by messages published to topic.
func OnPublish(topic string, h Handler) (*Function, error) {
	return Publish(PublishOptions{Topic: topic}, h)
}

// Publish declares a message-triggered function with explicit options.
func Publish(opts PublishOptions, h Handler) (*Function, error) {
	if opts.Topic == "" {
		return nil, ErrMissingTopic
	}
	if h == nil {
		return nil, errors.New("pubsub: handler is required")
	}

	global := functions.Defaults()
	endpoint := functions.MergeEndpoint(global, opts.RuntimeOptions)
	endpoint.EventTrigger = &functions.EventTrigger{
		EventType:    EventTypePublish,
		EventFilters: map[string]string{"topic": opts.Topic},
		Retry:        functions.MergeRetry(global, opts.RuntimeOptions),
	}

	return &Function{
		Run:      h,
		topic:    opts.Topic,
		global:   global,
		specific: opts.RuntimeOptions,
		endpoint: endpoint,
	}, nil
}

// Topic returns the topic the function subscribes to.
func (f *Function) Topic() string { return f.topic }

// Endpoint returns the manifest endpoint compiled at declaration time.
func (f *Function) Endpoint() functions.ManifestEndpoint { return f.endpoint }

// TriggerAnnotation builds the legacy trigger annotation. It is rebuilt on
// every call and re-reads the project identity, so the synthesized resource
// path reflects the environment at access time, not at declaration time.
func (f *Function) TriggerAnnotation() (functions.Annotation, error) {
	resource, err := identity.TopicResource(f.topic)
	if err != nil {
		return nil, fmt.Errorf("pubsub: building trigger annotation: %w", err)
	}

	ann := functions.MergeAnnotation(f.global, f.specific)
	ann["eventTrigger"] = map[string]any{
		"eventType": EventTypePublish,
		"resource":  resource,
	}
	return ann, nil
}

// rawEvent is the transport envelope delivered by the runtime.
type rawEvent struct {
	Context rawContext      `json:"context"`
	Data    json.RawMessage `json:"data"`
}

type rawContext struct {
	EventID   string    `json:"eventId"`
	Timestamp time.Time `json:"timestamp"`
	EventType string    `json:"eventType"`
}

// Invoke is the runtime wrapper. It parses the raw envelope, substitutes
// the nested raw message with a decoder envelope, and hands the rewritten
// event to the original handler. The delivery context passes through
// untouched, and the handler's result is propagated unchanged.
func (f *Function) Invoke(ctx context.Context, payload []byte) error {
	var raw rawEvent
	if err := json.Unmarshal(payload, &raw); err != nil {
		return fmt.Errorf("pubsub: decoding event envelope: %w", err)
	}

	var msg Message
	if len(raw.Data) > 0 {
		if err := json.Unmarshal(raw.Data, &msg); err != nil {
			return fmt.Errorf("pubsub: decoding event message: %w", err)
		}
	}

	return f.Run(ctx, Event{
		EventID:   raw.Context.EventID,
		Timestamp: raw.Context.Timestamp,
		Message:   &msg,
	})
}
