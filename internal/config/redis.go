package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	redisAddrEnv       = "REDIS_ADDR"
	redisPasswordEnv   = "REDIS_PASSWORD"
	redisDBEnv         = "REDIS_DB"
	redisTLSEnv        = "REDIS_TLS"
	redisKeyPrefixEnv  = "REDIS_KEY_PREFIX"
	pendingTTLHoursEnv = "PENDING_TTL_HOURS"

	defaultRedisAddr      = "localhost:6379"
	defaultRedisDB        = 0
	defaultRedisKeyPrefix = "engagement"
	defaultPendingTTL     = 14 * 24 * time.Hour

	// Redis only ships databases 0-15 unless reconfigured.
	maxRedisDB = 15
)

// RedisConfig holds the connection settings and the layout of the keys the
// engagement stores write.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TLS      bool

	// KeyPrefix namespaces every key, e.g. "engagement:pending:{user}".
	KeyPrefix string

	// PendingTTL expires a user's pending hash after its last write.
	PendingTTL time.Duration
}

func LoadRedisConfig() (*RedisConfig, error) {
	addr := os.Getenv(redisAddrEnv)
	if addr == "" {
		addr = defaultRedisAddr
	}

	db := defaultRedisDB
	if raw := os.Getenv(redisDBEnv); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidRedisDB, raw)
		}
		db = parsed
	}

	prefix := strings.TrimSuffix(strings.TrimSpace(os.Getenv(redisKeyPrefixEnv)), ":")
	if prefix == "" {
		prefix = defaultRedisKeyPrefix
	}

	pendingTTL := defaultPendingTTL
	if raw := os.Getenv(pendingTTLHoursEnv); raw != "" {
		hours, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPendingTTL, raw)
		}
		pendingTTL = time.Duration(hours) * time.Hour
	}

	return &RedisConfig{
		Addr:       addr,
		Password:   os.Getenv(redisPasswordEnv),
		DB:         db,
		TLS:        os.Getenv(redisTLSEnv) == "true",
		KeyPrefix:  prefix,
		PendingTTL: pendingTTL,
	}, nil
}

func (c *RedisConfig) Validate() error {
	if c == nil {
		return ErrRedisAddrMissing
	}

	var errs []error

	if c.Addr == "" {
		errs = append(errs, ErrRedisAddrMissing)
	}
	if c.DB < 0 || c.DB > maxRedisDB {
		errs = append(errs, fmt.Errorf("%w: %d", ErrInvalidRedisDB, c.DB))
	}
	if c.KeyPrefix == "" || strings.ContainsAny(c.KeyPrefix, " \t\n{}") {
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidKeyPrefix, c.KeyPrefix))
	}
	if c.PendingTTL < time.Hour {
		errs = append(errs, fmt.Errorf("%w: %s", ErrInvalidPendingTTL, c.PendingTTL))
	}

	return errors.Join(errs...)
}
