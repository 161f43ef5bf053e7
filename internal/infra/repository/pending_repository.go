package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/KasumiMercury/primind-engagement-notifications/internal/domain"
)

type pendingRepository struct {
	client redis.UniversalClient
	keys   keyspace

	// Pending hashes expire a while after the last write so abandoned users
	// do not accumulate.
	ttl time.Duration
}

func NewPendingRepository(client redis.UniversalClient, opts ...Option) domain.PendingRepository {
	o := newOptions(opts)

	return &pendingRepository{
		client: client,
		keys:   o.keys,
		ttl:    o.pendingTTL,
	}
}

// PendingNotifications returns the user's pending set ordered by identifier.
// Undecodable fields are skipped.
func (r *pendingRepository) PendingNotifications(ctx context.Context, userID string) ([]domain.PendingNotification, error) {
	fields, err := r.client.HGetAll(ctx, r.keys.pending(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRedisConnection, err)
	}

	notifications := make([]domain.PendingNotification, 0, len(fields))
	for id, raw := range fields {
		var n domain.PendingNotification
		if err := json.Unmarshal([]byte(raw), &n); err != nil {
			slog.WarnContext(ctx, "skipping undecodable pending notification",
				slog.String("event", "pending.decode.fail"),
				slog.String("user_id", userID),
				slog.String("notification_id", id),
				slog.String("error", err.Error()),
			)
			continue
		}
		notifications = append(notifications, n)
	}

	sort.Slice(notifications, func(i, j int) bool {
		return notifications[i].ID < notifications[j].ID
	})

	return notifications, nil
}

func (r *pendingRepository) GetPending(ctx context.Context, userID, id string) (*domain.PendingNotification, error) {
	raw, err := r.client.HGet(ctx, r.keys.pending(userID), id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrNotificationNotFound
		}
		return nil, fmt.Errorf("%w: %w", ErrRedisConnection, err)
	}

	var n domain.PendingNotification
	if err := json.Unmarshal(raw, &n); err != nil {
		return nil, ErrInvalidNotificationData
	}

	return &n, nil
}

// SavePending writes the notification under its identifier, replacing any
// previous record with the same identifier.
func (r *pendingRepository) SavePending(ctx context.Context, userID string, notification domain.PendingNotification) error {
	if notification.ID == "" {
		return ErrInvalidNotificationData
	}

	data, err := json.Marshal(notification)
	if err != nil {
		return ErrInvalidNotificationData
	}

	key := r.keys.pending(userID)

	pipe := r.client.TxPipeline()
	pipe.HSet(ctx, key, notification.ID, data)
	pipe.Expire(ctx, key, r.ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrRedisConnection, err)
	}

	return nil
}

// DeletePending removes the given identifiers. Unknown identifiers are
// ignored.
func (r *pendingRepository) DeletePending(ctx context.Context, userID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	if err := r.client.HDel(ctx, r.keys.pending(userID), ids...).Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrRedisConnection, err)
	}

	return nil
}
