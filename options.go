package functions

import "sync"

// RuntimeOptions configures how a declared function is deployed and run.
// Numeric and boolean fields are pointers so that an explicit zero value
// (for example Retry pointing at false) survives the merge; a nil pointer
// means "not set" and lets the other layer's value through.
type RuntimeOptions struct {
	// Region is a single deployment region. Regions takes precedence when
	// both are set.
	Region string

	// Regions is an ordered list of deployment regions.
	Regions []string

	// MemoryMB is the amount of memory available to the function, in
	// megabytes.
	MemoryMB *int

	// TimeoutSeconds is the maximum execution time for a single invocation.
	TimeoutSeconds *int

	// Concurrency is the number of requests a single instance may handle
	// at once.
	Concurrency *int

	// MinInstances is the number of instances kept warm.
	MinInstances *int

	// MaxInstances caps how far the function may scale out.
	MaxInstances *int

	// ServiceAccount is the identity the function runs as.
	ServiceAccount string

	// Labels are attached to the deployed function. Labels merge additively
	// across layers; on key collision the more specific layer wins.
	Labels map[string]string

	// Retry requests redelivery of failed events. Only meaningful for
	// event-driven triggers.
	Retry *bool
}

// Int returns a pointer to n, for populating optional numeric fields.
func Int(n int) *int { return &n }

// Bool returns a pointer to b, for populating optional boolean fields.
func Bool(b bool) *bool { return &b }

// regionList normalizes the scalar/list region pair into a single ordered
// list. Returns nil when no region is configured.
func (o RuntimeOptions) regionList() []string {
	if len(o.Regions) > 0 {
		out := make([]string, len(o.Regions))
		copy(out, o.Regions)
		return out
	}
	if o.Region != "" {
		return []string{o.Region}
	}
	return nil
}

var (
	defaultsMu sync.RWMutex
	defaults   RuntimeOptions
)

// SetDefaults installs process-wide default runtime options. Every
// declaration merges these with its own options, with the declaration's
// values winning field by field.
func SetDefaults(o RuntimeOptions) {
	defaultsMu.Lock()
	defer defaultsMu.Unlock()
	defaults = o
}

// Defaults returns the current process-wide default runtime options.
func Defaults() RuntimeOptions {
	defaultsMu.RLock()
	defer defaultsMu.RUnlock()
	return defaults
}
