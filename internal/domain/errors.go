package domain

import "errors"

var (
	ErrInvalidPriority      = errors.New("invalid priority")
	ErrUserStateNotFound    = errors.New("user state not found")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrPassInProgress       = errors.New("scheduling pass already in progress")
	ErrUnknownEvent         = errors.New("unknown engagement event")
	ErrMissingFireDate      = errors.New("notification has no fire date")
	ErrNotificationRejected = errors.New("notification rejected by throttle policy")
	ErrStaleDelivery        = errors.New("delivery task no longer matches notification")
)
