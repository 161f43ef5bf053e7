//go:build gcloud

package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var (
	ErrInvalidTargetURL      = errors.New("GCLOUD_TARGET_URL must be an absolute https URL")
	ErrInvalidServiceAccount = errors.New("GCLOUD_SERVICE_ACCOUNT_EMAIL must be a service account email")
)

// Environment variables come from the Cloud Run service definition.
func loadDotEnv() {}

// Validate checks the Cloud Tasks settings. The target URL receives the
// delivery callbacks, so it must be reachable over https.
func (c *TaskQueueConfig) Validate() error {
	var errs []error

	required := []struct {
		env   string
		value string
	}{
		{"GCLOUD_PROJECT_ID", c.GCloudProjectID},
		{"GCLOUD_LOCATION_ID", c.GCloudLocationID},
		{"GCLOUD_QUEUE_ID", c.GCloudQueueID},
		{"GCLOUD_TARGET_URL", c.GCloudTargetURL},
	}
	for _, r := range required {
		if r.value == "" {
			errs = append(errs, fmt.Errorf("%s is required", r.env))
		}
	}

	if c.GCloudTargetURL != "" {
		u, err := url.Parse(c.GCloudTargetURL)
		if err != nil || u.Scheme != "https" || u.Host == "" {
			errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidTargetURL, c.GCloudTargetURL))
		}
	}

	if c.ServiceAccountEmail != "" && !strings.Contains(c.ServiceAccountEmail, "@") {
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidServiceAccount, c.ServiceAccountEmail))
	}

	if len(errs) > 0 {
		return fmt.Errorf("task queue configuration errors: %w", errors.Join(errs...))
	}

	return nil
}
