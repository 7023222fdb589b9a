// Package replay provides shared replay guards for deployments that unpack
// envelopes on more than one process. Single-process deployments can use
// crypto.NonceStore instead.
package replay

import (
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v7"
	"github.com/sirupsen/logrus"

	"github.com/opd-ai/lvenvelope/crypto"
)

// DefaultPrefix namespaces nonce keys in Redis.
const DefaultPrefix = "lvenvelope/nonce/"

// minExpiry keeps a nonce for at least this long even when its envelope is
// already near the end of its window.
const minExpiry = time.Second

// ErrInvalidNonce is returned for nonces of the wrong length.
var ErrInvalidNonce = errors.New("invalid nonce")

// RedisGuard records envelope nonces in Redis with SETNX so every process
// sharing the server sees the same history. Keys expire window after the
// envelope timestamp.
type RedisGuard struct {
	client *redis.Client
	prefix string
	window time.Duration
	clock  crypto.TimeProvider
	logger *logrus.Logger
}

// NewRedisClient connects to hostport and checks the connection with PING.
func NewRedisClient(hostport, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     hostport,
		Password: password,
		DB:       db,
	})
	if _, err := client.Ping().Result(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", hostport, err)
	}
	return client, nil
}

// NewRedisGuard wraps client. window must be at least the envelope TTL plus
// any allowed future skew, or keys expire while their envelopes are still
// accepted. An empty prefix uses DefaultPrefix and a nil clock uses the
// system clock.
func NewRedisGuard(client *redis.Client, prefix string, window time.Duration, clock crypto.TimeProvider) (*RedisGuard, error) {
	if client == nil {
		return nil, errors.New("redis client is required")
	}
	if window <= 0 {
		return nil, fmt.Errorf("nonce retention window must be positive, got %v", window)
	}
	if prefix == "" {
		prefix = DefaultPrefix
	}
	if clock == nil {
		clock = crypto.DefaultTimeProvider{}
	}
	return &RedisGuard{
		client: client,
		prefix: prefix,
		window: window,
		clock:  clock,
		logger: logrus.StandardLogger(),
	}, nil
}

func (g *RedisGuard) key(nonce []byte) string {
	return g.prefix + hex.EncodeToString(nonce)
}

// expiry returns how long a nonce for an envelope created at timestamp must
// be kept.
func (g *RedisGuard) expiry(timestamp time.Time) time.Duration {
	remaining := g.window - g.clock.Since(timestamp)
	if remaining < minExpiry {
		return minExpiry
	}
	return remaining
}

// CheckAndStore records nonce and reports whether it was unseen.
func (g *RedisGuard) CheckAndStore(nonce []byte, timestamp time.Time) (bool, error) {
	if len(nonce) != crypto.NonceSize {
		return false, fmt.Errorf("%w: need %d bytes, got %d", ErrInvalidNonce, crypto.NonceSize, len(nonce))
	}

	set, err := g.client.SetNX(g.key(nonce), 1, g.expiry(timestamp)).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx: %w", err)
	}
	if !set {
		g.logger.WithFields(logrus.Fields{
			"nonce":     hex.EncodeToString(nonce[:8]),
			"timestamp": timestamp.Unix(),
		}).Warn("Replay detected: envelope nonce already used")
	}
	return set, nil
}

// Close closes the underlying client.
func (g *RedisGuard) Close() error {
	return g.client.Close()
}
