//go:build !gcloud

package config

import (
	"errors"
	"io/fs"
	"log/slog"

	"github.com/joho/godotenv"
)

// loadDotEnv reads .env into the process environment. Variables already set
// take precedence.
func loadDotEnv() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to load .env file", slog.String("error", err.Error()))
	}
}

// Validate accepts an empty PRIMIND_TASKS_URL; the server then falls back to
// an in-memory queue.
func (c *TaskQueueConfig) Validate() error {
	if c.PrimindTasksURL != "" && c.QueueName == "" {
		return errors.New("TASK_QUEUE_NAME is required when PRIMIND_TASKS_URL is set")
	}
	return nil
}
