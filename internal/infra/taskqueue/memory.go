package taskqueue

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryQueue keeps tasks in process. It backs local runs without a task
// service and tests.
type MemoryQueue struct {
	mu    sync.Mutex
	tasks map[string]NotificationTask
	now   func() time.Time
}

func NewMemoryQueue() *MemoryQueue {
	return &MemoryQueue{
		tasks: make(map[string]NotificationTask),
		now:   time.Now,
	}
}

func (q *MemoryQueue) RegisterNotification(_ context.Context, task *NotificationTask) (*TaskResponse, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	now := q.now()
	if existing, ok := q.tasks[task.TaskID]; ok {
		return &TaskResponse{Name: existing.TaskID, ScheduleTime: existing.ScheduleAt, CreateTime: now}, nil
	}

	q.tasks[task.TaskID] = *task

	return &TaskResponse{
		Name:         task.TaskID,
		ScheduleTime: task.ScheduleAt,
		CreateTime:   now,
	}, nil
}

func (q *MemoryQueue) DeleteTask(_ context.Context, taskID string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	delete(q.tasks, taskID)
	return nil
}

// Tasks returns the queued tasks ordered by schedule time.
func (q *MemoryQueue) Tasks() []NotificationTask {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]NotificationTask, 0, len(q.tasks))
	for _, t := range q.tasks {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ScheduleAt.Equal(out[j].ScheduleAt) {
			return out[i].ScheduleAt.Before(out[j].ScheduleAt)
		}
		return out[i].TaskID < out[j].TaskID
	})
	return out
}

// Due removes and returns tasks scheduled at or before now.
func (q *MemoryQueue) Due(now time.Time) []NotificationTask {
	q.mu.Lock()
	defer q.mu.Unlock()

	var due []NotificationTask
	for id, t := range q.tasks {
		if !t.ScheduleAt.After(now) {
			due = append(due, t)
			delete(q.tasks, id)
		}
	}
	sort.Slice(due, func(i, j int) bool {
		return due[i].ScheduleAt.Before(due[j].ScheduleAt)
	})
	return due
}
