package config

import (
	"log/slog"
	"os"
	"strconv"

	"github.com/KasumiMercury/primind-engagement-notifications/internal/observability/logging"
)

type Config struct {
	Port       string
	LogLevel   slog.Level
	TaskQueue  TaskQueueConfig
	Redis      *RedisConfig
	Engagement *EngagementConfig
}

type TaskQueueConfig struct {
	PrimindTasksURL string
	QueueName       string

	GCloudProjectID     string
	GCloudLocationID    string
	GCloudQueueID       string
	GCloudTargetURL     string
	ServiceAccountEmail string

	MaxRetries int
}

func Load() (*Config, error) {
	loadDotEnv()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	queueName := os.Getenv("TASK_QUEUE_NAME")
	if queueName == "" {
		queueName = "engagement"
	}

	maxRetries := 3
	if v := os.Getenv("TASK_QUEUE_MAX_RETRIES"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			maxRetries = parsed
		}
	}

	redisConfig, err := LoadRedisConfig()
	if err != nil {
		return nil, err
	}

	engagementConfig, err := LoadEngagementConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Port:     port,
		LogLevel: logging.ParseLevel(os.Getenv("LOG_LEVEL")),
		TaskQueue: TaskQueueConfig{
			PrimindTasksURL: os.Getenv("PRIMIND_TASKS_URL"),
			QueueName:       queueName,

			GCloudProjectID:     os.Getenv("GCLOUD_PROJECT_ID"),
			GCloudLocationID:    os.Getenv("GCLOUD_LOCATION_ID"),
			GCloudQueueID:       os.Getenv("GCLOUD_QUEUE_ID"),
			GCloudTargetURL:     os.Getenv("GCLOUD_TARGET_URL"),
			ServiceAccountEmail: os.Getenv("GCLOUD_SERVICE_ACCOUNT_EMAIL"),

			MaxRetries: maxRetries,
		},
		Redis:      redisConfig,
		Engagement: engagementConfig,
	}, nil
}
