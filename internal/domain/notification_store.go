package domain

import "context"

//go:generate mockgen -source=notification_store.go -destination=notification_store_mock.go -package=domain

// PendingReader lists the scheduled but undelivered notifications of a user.
type PendingReader interface {
	PendingNotifications(ctx context.Context, userID string) ([]PendingNotification, error)
}

// NotificationStore is the only way scheduled notifications are mutated.
type NotificationStore interface {
	PendingReader
	Schedule(ctx context.Context, userID string, notification PendingNotification) error
	Remove(ctx context.Context, userID string, ids []string) error
}

// PendingRepository persists pending notifications.
type PendingRepository interface {
	PendingReader
	GetPending(ctx context.Context, userID, id string) (*PendingNotification, error)
	SavePending(ctx context.Context, userID string, notification PendingNotification) error
	DeletePending(ctx context.Context, userID string, ids []string) error
}
