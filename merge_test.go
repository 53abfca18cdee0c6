package functions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeAnnotation(t *testing.T) {
	tests := []struct {
		name     string
		global   RuntimeOptions
		specific RuntimeOptions
		want     Annotation
	}{
		{
			name:     "both layers empty",
			global:   RuntimeOptions{},
			specific: RuntimeOptions{},
			want: Annotation{
				"platform": "gcfv1",
				"labels":   map[string]string{},
			},
		},
		{
			name:     "specific region overrides global, labels union",
			global:   RuntimeOptions{Region: "us-central1", Labels: map[string]string{"a": "1"}},
			specific: RuntimeOptions{Region: "eu-west1", Labels: map[string]string{"b": "2"}},
			want: Annotation{
				"platform": "gcfv1",
				"regions":  []string{"eu-west1"},
				"labels":   map[string]string{"a": "1", "b": "2"},
			},
		},
		{
			name:     "label key collision favors specific",
			global:   RuntimeOptions{Labels: map[string]string{"env": "prod", "team": "core"}},
			specific: RuntimeOptions{Labels: map[string]string{"env": "staging"}},
			want: Annotation{
				"platform": "gcfv1",
				"labels":   map[string]string{"env": "staging", "team": "core"},
			},
		},
		{
			name:     "global fields survive when specific is silent",
			global:   RuntimeOptions{MemoryMB: Int(256), TimeoutSeconds: Int(60)},
			specific: RuntimeOptions{TimeoutSeconds: Int(120)},
			want: Annotation{
				"platform":          "gcfv1",
				"availableMemoryMb": 256,
				"timeout":           "120s",
				"labels":            map[string]string{},
			},
		},
		{
			name:     "explicit zero is present, not absent",
			global:   RuntimeOptions{MinInstances: Int(3)},
			specific: RuntimeOptions{MinInstances: Int(0)},
			want: Annotation{
				"platform":     "gcfv1",
				"minInstances": 0,
				"labels":       map[string]string{},
			},
		},
		{
			name:     "regions list wins over region scalar",
			global:   RuntimeOptions{},
			specific: RuntimeOptions{Region: "us-east1", Regions: []string{"eu-west1", "eu-west2"}},
			want: Annotation{
				"platform": "gcfv1",
				"regions":  []string{"eu-west1", "eu-west2"},
				"labels":   map[string]string{},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MergeAnnotation(tt.global, tt.specific)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMergeAnnotation_FreshPerCall(t *testing.T) {
	global := RuntimeOptions{Labels: map[string]string{"a": "1"}}
	specific := RuntimeOptions{}

	first := MergeAnnotation(global, specific)
	first["labels"].(map[string]string)["a"] = "mutated"

	second := MergeAnnotation(global, specific)
	assert.Equal(t, "1", second["labels"].(map[string]string)["a"])
}

func TestMergeEndpoint(t *testing.T) {
	global := RuntimeOptions{
		Region:   "us-central1",
		MemoryMB: Int(256),
		Labels:   map[string]string{"a": "1"},
	}
	specific := RuntimeOptions{
		Region:         "eu-west1",
		TimeoutSeconds: Int(30),
		Labels:         map[string]string{"b": "2"},
	}

	ep := MergeEndpoint(global, specific)

	assert.Equal(t, Platform, ep.Platform)
	assert.Equal(t, []string{"eu-west1"}, ep.Region)
	require.NotNil(t, ep.AvailableMemoryMB)
	assert.Equal(t, 256, *ep.AvailableMemoryMB)
	require.NotNil(t, ep.TimeoutSeconds)
	assert.Equal(t, 30, *ep.TimeoutSeconds)
	assert.Equal(t, map[string]string{"a": "1", "b": "2"}, ep.Labels)
	assert.Nil(t, ep.EventTrigger)
	assert.Nil(t, ep.HTTPSTrigger)
}

func TestMergeEndpoint_EmptyLayers(t *testing.T) {
	ep := MergeEndpoint(RuntimeOptions{}, RuntimeOptions{})

	assert.Equal(t, Platform, ep.Platform)
	assert.NotNil(t, ep.Labels)
	assert.Empty(t, ep.Labels)
	assert.Nil(t, ep.Region)
	assert.Nil(t, ep.AvailableMemoryMB)
}

func TestMergeEndpoint_PointerIsolation(t *testing.T) {
	mem := 512
	global := RuntimeOptions{MemoryMB: &mem}

	ep := MergeEndpoint(global, RuntimeOptions{})
	mem = 1024

	require.NotNil(t, ep.AvailableMemoryMB)
	assert.Equal(t, 512, *ep.AvailableMemoryMB)
}

func TestMergeRetry(t *testing.T) {
	tests := []struct {
		name     string
		global   RuntimeOptions
		specific RuntimeOptions
		want     bool
	}{
		{"absent everywhere defaults false", RuntimeOptions{}, RuntimeOptions{}, false},
		{"specific true", RuntimeOptions{}, RuntimeOptions{Retry: Bool(true)}, true},
		{"global true", RuntimeOptions{Retry: Bool(true)}, RuntimeOptions{}, true},
		{"specific false overrides global true", RuntimeOptions{Retry: Bool(true)}, RuntimeOptions{Retry: Bool(false)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MergeRetry(tt.global, tt.specific))
		})
	}
}

func TestDefaults(t *testing.T) {
	t.Cleanup(func() { SetDefaults(RuntimeOptions{}) })

	SetDefaults(RuntimeOptions{Region: "us-central1"})
	assert.Equal(t, "us-central1", Defaults().Region)
}
