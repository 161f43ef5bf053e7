package repository

import (
	"errors"
	"fmt"

	"github.com/KasumiMercury/primind-engagement-notifications/internal/domain"
)

var (
	ErrRedisConnection         = errors.New("redis connection error")
	ErrInvalidNotificationData = errors.New("invalid notification data")
	ErrInvalidUserStateData    = errors.New("invalid user state data")
	ErrLockTimeout             = fmt.Errorf("timed out waiting for pass lock: %w", domain.ErrPassInProgress)
)
