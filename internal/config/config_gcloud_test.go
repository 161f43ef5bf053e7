//go:build gcloud

package config

import (
	"errors"
	"testing"
)

func TestTaskQueueConfigValidate(t *testing.T) {
	valid := TaskQueueConfig{
		GCloudProjectID:     "primind",
		GCloudLocationID:    "asia-northeast1",
		GCloudQueueID:       "engagement",
		GCloudTargetURL:     "https://engagement.example.com/api/v1/notifications/delivered",
		ServiceAccountEmail: "tasks@primind.iam.gserviceaccount.com",
	}

	tests := []struct {
		name    string
		mutate  func(*TaskQueueConfig)
		wantErr error
		wantOK  bool
	}{
		{
			name:   "valid",
			mutate: func(*TaskQueueConfig) {},
			wantOK: true,
		},
		{
			name:   "no service account",
			mutate: func(c *TaskQueueConfig) { c.ServiceAccountEmail = "" },
			wantOK: true,
		},
		{
			name:    "plain http target",
			mutate:  func(c *TaskQueueConfig) { c.GCloudTargetURL = "http://engagement.example.com/delivered" },
			wantErr: ErrInvalidTargetURL,
		},
		{
			name:    "relative target",
			mutate:  func(c *TaskQueueConfig) { c.GCloudTargetURL = "/api/v1/notifications/delivered" },
			wantErr: ErrInvalidTargetURL,
		},
		{
			name:    "service account without domain",
			mutate:  func(c *TaskQueueConfig) { c.ServiceAccountEmail = "tasks" },
			wantErr: ErrInvalidServiceAccount,
		},
		{
			name:   "missing project",
			mutate: func(c *TaskQueueConfig) { c.GCloudProjectID = "" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantOK {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatal("Validate() error = nil, want error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
