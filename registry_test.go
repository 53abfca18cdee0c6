package functions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFunction struct {
	endpoint ManifestEndpoint
}

func (s *stubFunction) Endpoint() ManifestEndpoint { return s.endpoint }

func (s *stubFunction) TriggerAnnotation() (Annotation, error) {
	return Annotation{"platform": Platform}, nil
}

func TestRegister(t *testing.T) {
	t.Cleanup(Reset)
	Reset()

	fn := &stubFunction{endpoint: ManifestEndpoint{Platform: Platform}}
	require.NoError(t, Register("greeter", fn))

	got, ok := Lookup("greeter")
	require.True(t, ok)
	assert.Same(t, fn, got.(*stubFunction))

	assert.Error(t, Register("greeter", fn), "duplicate names must be rejected")
	assert.Error(t, Register("", fn))
	assert.Error(t, Register("nilfn", nil))
}

func TestNames_Sorted(t *testing.T) {
	t.Cleanup(Reset)
	Reset()

	for _, name := range []string{"zeta", "alpha", "mid"} {
		require.NoError(t, Register(name, &stubFunction{}))
	}

	assert.Equal(t, []string{"alpha", "mid", "zeta"}, Names())
}

func TestBuildManifest(t *testing.T) {
	t.Cleanup(Reset)
	Reset()

	labels := map[string]string{"env": "prod"}
	require.NoError(t, Register("worker", &stubFunction{endpoint: ManifestEndpoint{
		Platform: Platform,
		Labels:   labels,
		EventTrigger: &EventTrigger{
			EventType:    "google.pubsub.topic.publish",
			EventFilters: map[string]string{"topic": "jobs"},
		},
	}}))

	m := BuildManifest()
	assert.Equal(t, ManifestSpecVersion, m.SpecVersion)
	require.Contains(t, m.Endpoints, "worker")
	assert.Equal(t, "jobs", m.Endpoints["worker"].EventTrigger.EventFilters["topic"])
}
