package repository

import "time"

const (
	defaultKeyPrefix  = "engagement"
	defaultPendingTTL = 14 * 24 * time.Hour
)

// keyspace names every key the engagement stores write.
type keyspace struct {
	prefix string
}

func (k keyspace) pending(userID string) string {
	return k.prefix + ":pending:" + userID
}

func (k keyspace) state(userID string) string {
	return k.prefix + ":state:" + userID
}

// users is the set of users the daily window walks.
func (k keyspace) users() string {
	return k.prefix + ":users"
}

func (k keyspace) lock(userID string) string {
	return k.prefix + ":lock:" + userID
}

type options struct {
	keys       keyspace
	pendingTTL time.Duration
}

type Option func(*options)

// WithKeyPrefix namespaces the keys, e.g. "staging" yields
// "staging:pending:{user}".
func WithKeyPrefix(prefix string) Option {
	return func(o *options) {
		if prefix != "" {
			o.keys = keyspace{prefix: prefix}
		}
	}
}

// WithPendingTTL sets how long a pending hash outlives its last write.
func WithPendingTTL(ttl time.Duration) Option {
	return func(o *options) {
		if ttl > 0 {
			o.pendingTTL = ttl
		}
	}
}

func newOptions(opts []Option) options {
	o := options{
		keys:       keyspace{prefix: defaultKeyPrefix},
		pendingTTL: defaultPendingTTL,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
