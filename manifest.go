package functions

// ManifestEndpoint is the structured deployment descriptor for a single
// declared function. Unlike Annotation it is built once at declaration time
// and attached to the returned artifact as a static value.
type ManifestEndpoint struct {
	Platform          string            `json:"platform" yaml:"platform"`
	Region            []string          `json:"region,omitempty" yaml:"region,omitempty"`
	AvailableMemoryMB *int              `json:"availableMemoryMb,omitempty" yaml:"availableMemoryMb,omitempty"`
	TimeoutSeconds    *int              `json:"timeoutSeconds,omitempty" yaml:"timeoutSeconds,omitempty"`
	Concurrency       *int              `json:"concurrency,omitempty" yaml:"concurrency,omitempty"`
	MinInstances      *int              `json:"minInstances,omitempty" yaml:"minInstances,omitempty"`
	MaxInstances      *int              `json:"maxInstances,omitempty" yaml:"maxInstances,omitempty"`
	ServiceAccount    string            `json:"serviceAccount,omitempty" yaml:"serviceAccount,omitempty"`
	Labels            map[string]string `json:"labels" yaml:"labels"`
	EventTrigger      *EventTrigger     `json:"eventTrigger,omitempty" yaml:"eventTrigger,omitempty"`
	HTTPSTrigger      *HTTPSTrigger     `json:"httpsTrigger,omitempty" yaml:"httpsTrigger,omitempty"`
	ScheduleTrigger   *ScheduleTrigger  `json:"scheduleTrigger,omitempty" yaml:"scheduleTrigger,omitempty"`
}

// EventTrigger describes an event-driven trigger in the manifest shape.
type EventTrigger struct {
	EventType    string            `json:"eventType" yaml:"eventType"`
	EventFilters map[string]string `json:"eventFilters" yaml:"eventFilters"`
	Retry        bool              `json:"retry" yaml:"retry"`
}

// HTTPSTrigger describes a direct HTTP trigger in the manifest shape.
type HTTPSTrigger struct {
	AllowInsecure bool `json:"allowInsecure" yaml:"allowInsecure"`
}

// ScheduleTrigger describes a scheduled trigger in the manifest shape.
type ScheduleTrigger struct {
	Schedule string `json:"schedule" yaml:"schedule"`
	TimeZone string `json:"timeZone,omitempty" yaml:"timeZone,omitempty"`
	Retry    bool   `json:"retry" yaml:"retry"`
}

// endpointFields projects one option layer into the endpoint shape.
// Pointer fields are copied so a later mutation of the options cannot leak
// into an already-built endpoint.
func endpointFields(o RuntimeOptions) ManifestEndpoint {
	ep := ManifestEndpoint{Platform: Platform}
	ep.Region = o.regionList()
	ep.AvailableMemoryMB = copyInt(o.MemoryMB)
	ep.TimeoutSeconds = copyInt(o.TimeoutSeconds)
	ep.Concurrency = copyInt(o.Concurrency)
	ep.MinInstances = copyInt(o.MinInstances)
	ep.MaxInstances = copyInt(o.MaxInstances)
	ep.ServiceAccount = o.ServiceAccount
	if o.Labels != nil {
		ep.Labels = mergeLabels(nil, o.Labels)
	}
	return ep
}

// MergeEndpoint merges a global option layer with a declaration-specific
// layer into a manifest endpoint, with the same precedence rules as
// MergeAnnotation: specific fields override when present, labels union.
// The two shapes merge independently because they normalize some options
// differently (regions, timeout formatting).
func MergeEndpoint(global, specific RuntimeOptions) ManifestEndpoint {
	merged := endpointFields(global)
	over := endpointFields(specific)

	if over.Region != nil {
		merged.Region = over.Region
	}
	if over.AvailableMemoryMB != nil {
		merged.AvailableMemoryMB = over.AvailableMemoryMB
	}
	if over.TimeoutSeconds != nil {
		merged.TimeoutSeconds = over.TimeoutSeconds
	}
	if over.Concurrency != nil {
		merged.Concurrency = over.Concurrency
	}
	if over.MinInstances != nil {
		merged.MinInstances = over.MinInstances
	}
	if over.MaxInstances != nil {
		merged.MaxInstances = over.MaxInstances
	}
	if over.ServiceAccount != "" {
		merged.ServiceAccount = over.ServiceAccount
	}
	if over.Labels != nil {
		merged.Labels = mergeLabels(merged.Labels, over.Labels)
	}
	if merged.Labels == nil {
		merged.Labels = map[string]string{}
	}
	return merged
}

// MergeRetry resolves the retry flag for event-driven triggers. The flag
// defaults to false and is overridden only when a layer explicitly set it,
// so Retry pointing at false is honored rather than dropped.
func MergeRetry(global, specific RuntimeOptions) bool {
	retry := false
	if global.Retry != nil {
		retry = *global.Retry
	}
	if specific.Retry != nil {
		retry = *specific.Retry
	}
	return retry
}

func copyInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
