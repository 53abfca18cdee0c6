// Package schedule declares functions triggered on a cron schedule. A
// scheduled function is deployed as an event trigger over a synthesized
// per-job topic; the schedule itself travels in the manifest.
package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	functions "github.com/Jayother24/firebase-functions"
	"github.com/Jayother24/firebase-functions/internal/identity"
)

// ScheduledLabel marks scheduled endpoints in deployment metadata.
const ScheduledLabel = "deployment-scheduled"

// topicPrefix prefixes the synthesized topic that carries schedule ticks.
const topicPrefix = "firebase-schedule-"

// ErrMissingName is returned when a declaration omits the job name.
var ErrMissingName = errors.New("schedule: job name is required")

// cronParser accepts standard five-field expressions plus descriptors such
// as @daily.
var cronParser = cron.NewParser(
	cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// Event is what a handler receives for one schedule tick.
type Event struct {
	// JobName is the declared schedule job name.
	JobName string

	// ScheduledTime is when the tick fired.
	ScheduledTime time.Time
}

// Handler processes one schedule tick.
type Handler func(ctx context.Context, e Event) error

// Options configures a scheduled declaration.
type Options struct {
	// Schedule is the cron expression. Required.
	Schedule string

	// TimeZone the expression is evaluated in. Defaults to UTC.
	TimeZone string

	functions.RuntimeOptions
}

// Function is the callable artifact returned by a scheduled declaration.
type Function struct {
	// Run is the original, undecorated handler.
	Run Handler

	name     string
	schedule string
	timeZone string
	global   functions.RuntimeOptions
	specific functions.RuntimeOptions
	endpoint functions.ManifestEndpoint
}

// OnSchedule declares a scheduled function with default options.
func OnSchedule(name, expression string, h Handler) (*Function, error) {
	return Schedule(name, Options{Schedule: expression}, h)
}

// Schedule declares a scheduled function with explicit options. The cron
// expression and time zone are validated at declaration time.
func Schedule(name string, opts Options, h Handler) (*Function, error) {
	if name == "" {
		return nil, ErrMissingName
	}
	if h == nil {
		return nil, errors.New("schedule: handler is required")
	}
	if opts.Schedule == "" {
		return nil, fmt.Errorf("schedule: %q: cron expression is required", name)
	}
	if _, err := cronParser.Parse(opts.Schedule); err != nil {
		return nil, fmt.Errorf("schedule: %q: parsing cron expression: %w", name, err)
	}
	if opts.TimeZone != "" {
		if _, err := time.LoadLocation(opts.TimeZone); err != nil {
			return nil, fmt.Errorf("schedule: %q: invalid time zone: %w", name, err)
		}
	}

	global := functions.Defaults()
	endpoint := functions.MergeEndpoint(global, opts.RuntimeOptions)
	endpoint.ScheduleTrigger = &functions.ScheduleTrigger{
		Schedule: opts.Schedule,
		TimeZone: opts.TimeZone,
		Retry:    functions.MergeRetry(global, opts.RuntimeOptions),
	}
	endpoint.Labels[ScheduledLabel] = "true"

	return &Function{
		Run:      h,
		name:     name,
		schedule: opts.Schedule,
		timeZone: opts.TimeZone,
		global:   global,
		specific: opts.RuntimeOptions,
		endpoint: endpoint,
	}, nil
}

// Topic returns the synthesized topic name that carries this job's ticks.
func (f *Function) Topic() string { return topicPrefix + f.name }

// Endpoint returns the manifest endpoint compiled at declaration time.
func (f *Function) Endpoint() functions.ManifestEndpoint { return f.endpoint }

// TriggerAnnotation builds the legacy trigger annotation: an event trigger
// over the synthesized topic, with the scheduled-identifying label. The
// project identity is re-read on every call.
func (f *Function) TriggerAnnotation() (functions.Annotation, error) {
	resource, err := identity.TopicResource(f.Topic())
	if err != nil {
		return nil, fmt.Errorf("schedule: building trigger annotation: %w", err)
	}

	ann := functions.MergeAnnotation(f.global, f.specific)
	ann["eventTrigger"] = map[string]any{
		"eventType": "google.pubsub.topic.publish",
		"resource":  resource,
	}

	labels, _ := ann["labels"].(map[string]string)
	if labels == nil {
		labels = map[string]string{}
	}
	labels[ScheduledLabel] = "true"
	ann["labels"] = labels

	return ann, nil
}

// Invoke is the runtime wrapper: it extracts the tick time from the raw
// envelope and hands the handler a typed Event.
func (f *Function) Invoke(ctx context.Context, payload []byte) error {
	tick, err := tickTime(payload)
	if err != nil {
		return fmt.Errorf("schedule: decoding event envelope: %w", err)
	}
	return f.Run(ctx, Event{JobName: f.name, ScheduledTime: tick})
}
