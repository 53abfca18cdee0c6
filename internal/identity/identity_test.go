package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProject(t *testing.T) {
	t.Setenv(ProjectEnvVar, "proj-1")

	p, err := Project()
	require.NoError(t, err)
	assert.Equal(t, "proj-1", p)
}

func TestProject_Unset(t *testing.T) {
	t.Setenv(ProjectEnvVar, "")

	_, err := Project()
	assert.ErrorIs(t, err, ErrProjectUnset)
}

func TestTopicResource(t *testing.T) {
	t.Setenv(ProjectEnvVar, "proj-1")

	r, err := TopicResource("my-topic")
	require.NoError(t, err)
	assert.Equal(t, "projects/proj-1/topics/my-topic", r)
}

func TestTopicResource_Unset(t *testing.T) {
	t.Setenv(ProjectEnvVar, "")

	_, err := TopicResource("my-topic")
	assert.ErrorIs(t, err, ErrProjectUnset)
}
