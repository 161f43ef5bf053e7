package config

import (
	"errors"
	"testing"
	"time"
)

func TestLoadEngagementConfigDefaults(t *testing.T) {
	t.Setenv(defaultTimezoneEnv, "")
	t.Setenv(passLockTTLEnv, "")
	t.Setenv(passLockBackendEnv, "")
	t.Setenv(rateLimitPerSecEnv, "")
	t.Setenv(rateLimitBurstEnv, "")

	cfg, err := LoadEngagementConfig()
	if err != nil {
		t.Fatalf("LoadEngagementConfig() error = %v", err)
	}

	if cfg.DefaultLocation != time.UTC {
		t.Errorf("DefaultLocation = %v, want UTC", cfg.DefaultLocation)
	}
	if cfg.PassLockTTL != defaultPassLockTTL {
		t.Errorf("PassLockTTL = %v, want %v", cfg.PassLockTTL, defaultPassLockTTL)
	}
	if cfg.PassLockBackend != PassLockRedis {
		t.Errorf("PassLockBackend = %q, want %q", cfg.PassLockBackend, PassLockRedis)
	}
	if cfg.RateLimitPerSecond != defaultRateLimit || cfg.RateLimitBurst != defaultRateLimitBurst {
		t.Errorf("rate limit = %v/%d, want %v/%d", cfg.RateLimitPerSecond, cfg.RateLimitBurst, defaultRateLimit, defaultRateLimitBurst)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestLoadEngagementConfigOverrides(t *testing.T) {
	t.Setenv(defaultTimezoneEnv, "Asia/Tokyo")
	t.Setenv(dailyWindowCronEnv, "")
	t.Setenv(passLockTTLEnv, "5")
	t.Setenv(passLockBackendEnv, PassLockMemory)
	t.Setenv(rateLimitPerSecEnv, "2.5")
	t.Setenv(rateLimitBurstEnv, "not-a-number")
	t.Setenv(deliveryAudienceEnv, "https://engagement.example.com")

	cfg, err := LoadEngagementConfig()
	if err != nil {
		t.Fatalf("LoadEngagementConfig() error = %v", err)
	}

	if cfg.DefaultLocation.String() != "Asia/Tokyo" {
		t.Errorf("DefaultLocation = %v, want Asia/Tokyo", cfg.DefaultLocation)
	}
	if cfg.DailyWindowCron != "" {
		t.Errorf("DailyWindowCron = %q, want empty", cfg.DailyWindowCron)
	}
	if cfg.PassLockTTL != 5*time.Second {
		t.Errorf("PassLockTTL = %v, want 5s", cfg.PassLockTTL)
	}
	if cfg.RateLimitPerSecond != 2.5 {
		t.Errorf("RateLimitPerSecond = %v, want 2.5", cfg.RateLimitPerSecond)
	}
	if cfg.RateLimitBurst != defaultRateLimitBurst {
		t.Errorf("RateLimitBurst = %d, want default %d", cfg.RateLimitBurst, defaultRateLimitBurst)
	}
	if cfg.DeliveryAudience != "https://engagement.example.com" {
		t.Errorf("DeliveryAudience = %q", cfg.DeliveryAudience)
	}
}

func TestLoadEngagementConfigInvalidTimezone(t *testing.T) {
	t.Setenv(defaultTimezoneEnv, "Mars/Olympus")

	_, err := LoadEngagementConfig()
	if !errors.Is(err, ErrInvalidTimezone) {
		t.Errorf("LoadEngagementConfig() error = %v, want %v", err, ErrInvalidTimezone)
	}
}

func TestEngagementConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *EngagementConfig
		wantErr []error
	}{
		{
			name: "valid",
			cfg:  &EngagementConfig{DailyWindowCron: "30 7 * * *", PassLockBackend: PassLockRedis},
		},
		{
			name: "disabled cron",
			cfg:  &EngagementConfig{PassLockBackend: PassLockMemory},
		},
		{
			name:    "bad cron",
			cfg:     &EngagementConfig{DailyWindowCron: "every morning", PassLockBackend: PassLockRedis},
			wantErr: []error{ErrInvalidCronSpec},
		},
		{
			name:    "bad cron and backend",
			cfg:     &EngagementConfig{DailyWindowCron: "* *", PassLockBackend: "etcd"},
			wantErr: []error{ErrInvalidCronSpec, ErrInvalidLockBackend},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if len(tt.wantErr) == 0 {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			for _, want := range tt.wantErr {
				if !errors.Is(err, want) {
					t.Errorf("Validate() error = %v, want %v", err, want)
				}
			}
		})
	}
}

func TestLoadRedisConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Setenv(redisAddrEnv, "")
		t.Setenv(redisDBEnv, "")
		t.Setenv(redisKeyPrefixEnv, "")
		t.Setenv(pendingTTLHoursEnv, "")

		cfg, err := LoadRedisConfig()
		if err != nil {
			t.Fatalf("LoadRedisConfig() error = %v", err)
		}
		if cfg.Addr != defaultRedisAddr || cfg.DB != defaultRedisDB {
			t.Errorf("LoadRedisConfig() = %+v", cfg)
		}
		if cfg.KeyPrefix != "engagement" {
			t.Errorf("KeyPrefix = %q, want engagement", cfg.KeyPrefix)
		}
		if cfg.PendingTTL != 14*24*time.Hour {
			t.Errorf("PendingTTL = %v, want 336h", cfg.PendingTTL)
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("Validate() error = %v", err)
		}
	})

	t.Run("overrides", func(t *testing.T) {
		t.Setenv(redisKeyPrefixEnv, " staging:engagement: ")
		t.Setenv(pendingTTLHoursEnv, "48")

		cfg, err := LoadRedisConfig()
		if err != nil {
			t.Fatalf("LoadRedisConfig() error = %v", err)
		}
		if cfg.KeyPrefix != "staging:engagement" {
			t.Errorf("KeyPrefix = %q, want staging:engagement", cfg.KeyPrefix)
		}
		if cfg.PendingTTL != 48*time.Hour {
			t.Errorf("PendingTTL = %v, want 48h", cfg.PendingTTL)
		}
	})

	t.Run("invalid db", func(t *testing.T) {
		t.Setenv(redisDBEnv, "one")

		if _, err := LoadRedisConfig(); !errors.Is(err, ErrInvalidRedisDB) {
			t.Errorf("LoadRedisConfig() error = %v, want %v", err, ErrInvalidRedisDB)
		}
	})

	t.Run("invalid pending ttl", func(t *testing.T) {
		t.Setenv(pendingTTLHoursEnv, "two weeks")

		if _, err := LoadRedisConfig(); !errors.Is(err, ErrInvalidPendingTTL) {
			t.Errorf("LoadRedisConfig() error = %v, want %v", err, ErrInvalidPendingTTL)
		}
	})
}

func TestRedisConfigValidate(t *testing.T) {
	valid := RedisConfig{Addr: "localhost:6379", KeyPrefix: "engagement", PendingTTL: 24 * time.Hour}

	tests := []struct {
		name    string
		mutate  func(*RedisConfig)
		wantErr []error
	}{
		{
			name:   "valid",
			mutate: func(*RedisConfig) {},
		},
		{
			name:    "missing addr",
			mutate:  func(c *RedisConfig) { c.Addr = "" },
			wantErr: []error{ErrRedisAddrMissing},
		},
		{
			name:    "db out of range",
			mutate:  func(c *RedisConfig) { c.DB = 16 },
			wantErr: []error{ErrInvalidRedisDB},
		},
		{
			name:    "hash tag in prefix",
			mutate:  func(c *RedisConfig) { c.KeyPrefix = "{engagement}" },
			wantErr: []error{ErrInvalidKeyPrefix},
		},
		{
			name:   "short ttl and empty prefix",
			mutate: func(c *RedisConfig) {
				c.KeyPrefix = ""
				c.PendingTTL = 0
			},
			wantErr: []error{ErrInvalidKeyPrefix, ErrInvalidPendingTTL},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)

			err := cfg.Validate()
			if len(tt.wantErr) == 0 {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			for _, want := range tt.wantErr {
				if !errors.Is(err, want) {
					t.Errorf("Validate() error = %v, want %v", err, want)
				}
			}
		})
	}

	var missing *RedisConfig
	if err := missing.Validate(); !errors.Is(err, ErrRedisAddrMissing) {
		t.Errorf("nil Validate() error = %v, want %v", err, ErrRedisAddrMissing)
	}
}
