package taskqueue

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"time"
)

//go:generate mockgen -source=task_queue.go -destination=mock.go -package=taskqueue

type TaskQueue interface {
	RegisterNotification(ctx context.Context, task *NotificationTask) (*TaskResponse, error)
	DeleteTask(ctx context.Context, taskID string) error
}

var invalidTaskIDChars = regexp.MustCompile(`[^A-Za-z0-9_-]`)

const maxReadableTaskIDLen = 400

// TaskID derives the delivery task name for one occurrence of a pending
// notification. Queue backends reject reused names for a while after
// deletion, so the fire time is part of the name.
func TaskID(userID, notificationID string, fireAt time.Time) string {
	readable := invalidTaskIDChars.ReplaceAllString(userID+"_"+notificationID, "-")
	if len(readable) > maxReadableTaskIDLen {
		readable = readable[:maxReadableTaskIDLen]
	}

	sum := sha256.Sum256([]byte(userID + "\x00" + notificationID))

	return fmt.Sprintf("%s-%s-%d", readable, hex.EncodeToString(sum[:4]), fireAt.Unix())
}

func backoff(attempt int) time.Duration {
	return time.Duration(1<<uint(attempt-1)) * 100 * time.Millisecond
}

// wait sleeps for the backoff of attempt or returns early with ctx's error.
func wait(ctx context.Context, attempt int) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(backoff(attempt)):
		return nil
	}
}
