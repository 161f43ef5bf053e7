package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/KasumiMercury/primind-engagement-notifications/internal/domain"
)

type userStateRepository struct {
	client redis.UniversalClient
	keys   keyspace
}

func NewUserStateRepository(client redis.UniversalClient, opts ...Option) domain.UserStateRepository {
	return &userStateRepository{
		client: client,
		keys:   newOptions(opts).keys,
	}
}

func (r *userStateRepository) GetUserState(ctx context.Context, userID string) (*domain.UserState, error) {
	raw, err := r.client.Get(ctx, r.keys.state(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrUserStateNotFound
		}
		return nil, fmt.Errorf("%w: %w", ErrRedisConnection, err)
	}

	var state domain.UserState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, ErrInvalidUserStateData
	}

	return &state, nil
}

// SaveUserState stores the state and adds the user to the index used by the
// daily window.
func (r *userStateRepository) SaveUserState(ctx context.Context, state *domain.UserState) error {
	if state == nil || state.UserID == "" {
		return ErrInvalidUserStateData
	}

	data, err := json.Marshal(state)
	if err != nil {
		return ErrInvalidUserStateData
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, r.keys.state(state.UserID), data, 0)
	pipe.SAdd(ctx, r.keys.users(), state.UserID)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrRedisConnection, err)
	}

	return nil
}

func (r *userStateRepository) ListUserIDs(ctx context.Context) ([]string, error) {
	ids, err := r.client.SMembers(ctx, r.keys.users()).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRedisConnection, err)
	}

	return ids, nil
}
