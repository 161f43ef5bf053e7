package config

import "errors"

var (
	ErrRedisAddrMissing   = errors.New("REDIS_ADDR is required")
	ErrInvalidRedisDB     = errors.New("REDIS_DB must be an integer between 0 and 15")
	ErrInvalidKeyPrefix   = errors.New("REDIS_KEY_PREFIX must be non-empty without spaces or braces")
	ErrInvalidPendingTTL  = errors.New("PENDING_TTL_HOURS must be a whole number of at least 1")
	ErrInvalidTimezone    = errors.New("DEFAULT_TIMEZONE must be an IANA timezone")
	ErrInvalidCronSpec    = errors.New("DAILY_WINDOW_CRON must be a standard cron expression")
	ErrInvalidLockBackend = errors.New("PASS_LOCK_BACKEND must be redis or memory")
)
