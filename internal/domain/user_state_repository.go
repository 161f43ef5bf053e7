package domain

import "context"

//go:generate mockgen -source=user_state_repository.go -destination=user_state_repository_mock.go -package=domain

type UserStateRepository interface {
	GetUserState(ctx context.Context, userID string) (*UserState, error)
	SaveUserState(ctx context.Context, state *UserState) error
	ListUserIDs(ctx context.Context) ([]string, error)
}
