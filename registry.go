package functions

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"
)

// Function is the common surface every declared function artifact exposes:
// a static manifest endpoint and a trigger annotation recomputed per read.
type Function interface {
	Endpoint() ManifestEndpoint
	TriggerAnnotation() (Annotation, error)
}

// HTTPFunction is a declared function invoked directly with an HTTP request.
type HTTPFunction interface {
	Function
	http.Handler
}

// EventFunction is a declared function invoked with a raw transport-encoded
// event envelope.
type EventFunction interface {
	Function
	Invoke(ctx context.Context, payload []byte) error
}

var (
	registryMu sync.RWMutex
	registry   = map[string]Function{}
)

// Register records a declared function under a deployment name. Names must
// be unique within the process.
func Register(name string, fn Function) error {
	if name == "" {
		return fmt.Errorf("functions: register: name is required")
	}
	if fn == nil {
		return fmt.Errorf("functions: register %q: function is nil", name)
	}

	registryMu.Lock()
	defer registryMu.Unlock()

	if _, ok := registry[name]; ok {
		return fmt.Errorf("functions: register %q: already registered", name)
	}
	registry[name] = fn

	log.Debug().
		Str("function", name).
		Msg("Function registered")

	return nil
}

// Lookup returns the registered function with the given name.
func Lookup(name string) (Function, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	fn, ok := registry[name]
	return fn, ok
}

// Registered returns all registered functions keyed by name.
func Registered() map[string]Function {
	registryMu.RLock()
	defer registryMu.RUnlock()

	out := make(map[string]Function, len(registry))
	for name, fn := range registry {
		out[name] = fn
	}
	return out
}

// Names returns the registered function names in sorted order.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Reset removes all registered functions. Intended for tests.
func Reset() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = map[string]Function{}
}

// ManifestSpecVersion is the version tag carried by the compiled manifest.
const ManifestSpecVersion = "v1alpha1"

// Manifest is the full deployment manifest for every registered function.
type Manifest struct {
	SpecVersion string                      `json:"specVersion" yaml:"specVersion"`
	Endpoints   map[string]ManifestEndpoint `json:"endpoints" yaml:"endpoints"`
}

// BuildManifest compiles the manifest from the current registry contents.
func BuildManifest() Manifest {
	registryMu.RLock()
	defer registryMu.RUnlock()

	m := Manifest{
		SpecVersion: ManifestSpecVersion,
		Endpoints:   make(map[string]ManifestEndpoint, len(registry)),
	}
	for name, fn := range registry {
		m.Endpoints[name] = fn.Endpoint()
	}
	return m
}
