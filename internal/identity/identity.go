// Package identity reads the process-wide project identity used when
// synthesizing deployment resource paths.
package identity

import (
	"errors"
	"fmt"
	"os"
)

// ProjectEnvVar is the environment variable carrying the deploying project's
// identifier.
const ProjectEnvVar = "GCLOUD_PROJECT"

// ErrProjectUnset is returned when the project identity is not configured.
var ErrProjectUnset = errors.New("identity: " + ProjectEnvVar + " is not set")

// Project returns the identifier of the deploying project. The value is
// read from the environment on every call so metadata accessors always see
// the live value.
func Project() (string, error) {
	if p := os.Getenv(ProjectEnvVar); p != "" {
		return p, nil
	}
	return "", ErrProjectUnset
}

// TopicResource synthesizes the fully qualified resource path for a topic
// in the current project.
func TopicResource(topic string) (string, error) {
	project, err := Project()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("projects/%s/topics/%s", project, topic), nil
}
