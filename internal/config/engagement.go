package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/robfig/cron/v3"
)

const (
	defaultTimezoneEnv  = "DEFAULT_TIMEZONE"
	dailyWindowCronEnv  = "DAILY_WINDOW_CRON"
	passLockTTLEnv      = "PASS_LOCK_TTL_SECONDS"
	passLockBackendEnv  = "PASS_LOCK_BACKEND"
	rateLimitPerSecEnv  = "RATE_LIMIT_PER_SECOND"
	rateLimitBurstEnv   = "RATE_LIMIT_BURST"
	deliveryAudienceEnv = "DELIVERY_OIDC_AUDIENCE"

	defaultTimezone        = "UTC"
	defaultDailyWindowCron = "0 6 * * *"
	defaultPassLockTTL     = 30 * time.Second
	defaultRateLimit       = 10.0
	defaultRateLimitBurst  = 20

	PassLockRedis  = "redis"
	PassLockMemory = "memory"
)

type EngagementConfig struct {
	DefaultTimezone string
	DefaultLocation *time.Location

	// DailyWindowCron is a standard five-field cron expression. Empty
	// disables the scheduled daily-window pass.
	DailyWindowCron string

	PassLockTTL     time.Duration
	PassLockBackend string

	RateLimitPerSecond float64
	RateLimitBurst     int

	// DeliveryAudience is the expected audience of the OIDC token on the
	// delivery callback. Empty disables verification.
	DeliveryAudience string
}

func LoadEngagementConfig() (*EngagementConfig, error) {
	tz := os.Getenv(defaultTimezoneEnv)
	if tz == "" {
		tz = defaultTimezone
	}

	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTimezone, tz)
	}

	dailyCron, ok := os.LookupEnv(dailyWindowCronEnv)
	if !ok {
		dailyCron = defaultDailyWindowCron
	}

	lockTTL := defaultPassLockTTL
	if v := os.Getenv(passLockTTLEnv); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			lockTTL = time.Duration(parsed) * time.Second
		}
	}

	lockBackend := os.Getenv(passLockBackendEnv)
	if lockBackend == "" {
		lockBackend = PassLockRedis
	}

	rateLimit := defaultRateLimit
	if v := os.Getenv(rateLimitPerSecEnv); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			rateLimit = parsed
		}
	}

	burst := defaultRateLimitBurst
	if v := os.Getenv(rateLimitBurstEnv); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			burst = parsed
		}
	}

	return &EngagementConfig{
		DefaultTimezone:    tz,
		DefaultLocation:    loc,
		DailyWindowCron:    dailyCron,
		PassLockTTL:        lockTTL,
		PassLockBackend:    lockBackend,
		RateLimitPerSecond: rateLimit,
		RateLimitBurst:     burst,
		DeliveryAudience:   os.Getenv(deliveryAudienceEnv),
	}, nil
}

func (c *EngagementConfig) Validate() error {
	if c == nil {
		return nil
	}

	var errs []error

	if c.DailyWindowCron != "" {
		if _, err := cron.ParseStandard(c.DailyWindowCron); err != nil {
			errs = append(errs, fmt.Errorf("%w: %v", ErrInvalidCronSpec, err))
		}
	}

	if c.PassLockBackend != PassLockRedis && c.PassLockBackend != PassLockMemory {
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidLockBackend, c.PassLockBackend))
	}

	return errors.Join(errs...)
}
