// Package config loads envelope settings from a YAML file and turns them
// into envelope.Options.
//
//	ttl: 5m
//	max_future_skew: 30s
//	cipher: aes-cbc            # or xchacha20poly1305
//	signature: ed25519         # or dilithium3
//	max_envelope_size: 8388608
//	allow_skip_verify: false
//	log_level: info
//	replay:
//	  backend: redis           # none, file or redis
//	  window: 6m
//	  redis_addr: localhost:6379
//
// Environment variables LVENVELOPE_LOG_LEVEL, LVENVELOPE_REDIS_ADDR and
// LVENVELOPE_REDIS_PASSWORD override the file.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/opd-ai/lvenvelope/crypto"
	"github.com/opd-ai/lvenvelope/envelope"
	"github.com/opd-ai/lvenvelope/limits"
	"github.com/opd-ai/lvenvelope/replay"
)

// Cipher names accepted in the cipher field.
const (
	CipherAESCBC            = "aes-cbc"
	CipherXChaCha20Poly1305 = "xchacha20poly1305"
)

// Signature schemes accepted in the signature field.
const (
	SignatureEd25519    = "ed25519"
	SignatureDilithium3 = "dilithium3"
)

// Replay backends accepted in replay.backend.
const (
	ReplayNone  = "none"
	ReplayFile  = "file"
	ReplayRedis = "redis"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the on-disk configuration.
type Config struct {
	TTL             time.Duration `yaml:"ttl"`
	MaxFutureSkew   time.Duration `yaml:"max_future_skew"`
	Cipher          string        `yaml:"cipher"`
	Signature       string        `yaml:"signature"`
	MaxEnvelopeSize int           `yaml:"max_envelope_size"`
	AllowSkipVerify bool          `yaml:"allow_skip_verify"`
	LogLevel        string        `yaml:"log_level"`
	Replay          ReplayConfig  `yaml:"replay"`
}

// ReplayConfig selects and configures the replay guard.
type ReplayConfig struct {
	Backend string `yaml:"backend"`
	// Window is how long a nonce is remembered after its envelope
	// timestamp. It must cover TTL plus MaxFutureSkew or replays late in
	// the TTL go undetected. Zero means TTL plus MaxFutureSkew plus one
	// minute.
	Window time.Duration `yaml:"window"`

	Dir string `yaml:"dir"`

	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
	RedisPrefix   string `yaml:"redis_prefix"`
}

// Default returns the configuration used when no file is given. It matches
// envelope.NewOptions except that UnpackSkipVerify is disabled.
func Default() *Config {
	return &Config{
		TTL:             envelope.DefaultTTL,
		Cipher:          CipherAESCBC,
		Signature:       SignatureEd25519,
		MaxEnvelopeSize: limits.DefaultMaxEnvelopeSize,
		LogLevel:        "info",
		Replay: ReplayConfig{
			Backend:     ReplayNone,
			RedisPrefix: replay.DefaultPrefix,
		},
	}
}

// Load reads path over the defaults, applies environment overrides and
// validates the result. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("%w: parse %s: %v", ErrInvalidConfig, path, err)
		}
	}
	ApplyEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnvOverrides replaces file values with non-empty environment values.
func ApplyEnvOverrides(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("LVENVELOPE_LOG_LEVEL")); v != "" {
		cfg.LogLevel = v
	}
	if v := strings.TrimSpace(os.Getenv("LVENVELOPE_REDIS_ADDR")); v != "" {
		cfg.Replay.RedisAddr = v
	}
	if v := os.Getenv("LVENVELOPE_REDIS_PASSWORD"); v != "" {
		cfg.Replay.RedisPassword = v
	}
}

// Validate checks field values without touching the network or disk.
func (c *Config) Validate() error {
	if c.TTL <= 0 {
		return fmt.Errorf("%w: ttl must be positive, got %v", ErrInvalidConfig, c.TTL)
	}
	if c.MaxFutureSkew < 0 {
		return fmt.Errorf("%w: max_future_skew must not be negative", ErrInvalidConfig)
	}
	if c.MaxEnvelopeSize < 0 {
		return fmt.Errorf("%w: max_envelope_size must not be negative", ErrInvalidConfig)
	}
	if _, err := cipherByName(c.Cipher); err != nil {
		return err
	}
	if _, err := SignerByName(c.Signature); err != nil {
		return err
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log_level: %v", ErrInvalidConfig, err)
	}
	if c.Replay.Window < 0 {
		return fmt.Errorf("%w: replay.window must not be negative", ErrInvalidConfig)
	}
	if floor := c.TTL + c.MaxFutureSkew; c.Replay.Window > 0 && c.Replay.Window < floor {
		return fmt.Errorf("%w: replay.window %v is shorter than ttl plus max_future_skew (%v)",
			ErrInvalidConfig, c.Replay.Window, floor)
	}

	switch c.Replay.Backend {
	case "", ReplayNone:
	case ReplayFile:
		if c.Replay.Dir == "" {
			return fmt.Errorf("%w: replay.dir is required for the file backend", ErrInvalidConfig)
		}
	case ReplayRedis:
		if c.Replay.RedisAddr == "" {
			return fmt.Errorf("%w: replay.redis_addr is required for the redis backend", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown replay backend %q", ErrInvalidConfig, c.Replay.Backend)
	}
	return nil
}

func cipherByName(name string) (crypto.Cipher, error) {
	switch name {
	case "", CipherAESCBC:
		return crypto.AESCBC{}, nil
	case CipherXChaCha20Poly1305:
		return crypto.XChaCha20Poly1305{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown cipher %q", ErrInvalidConfig, name)
	}
}

// SignerByName returns the Signer for a signature field value. An empty
// name is Ed25519.
func SignerByName(name string) (crypto.Signer, error) {
	switch name {
	case "", SignatureEd25519:
		return crypto.Ed25519Signer{}, nil
	case SignatureDilithium3:
		return crypto.Dilithium3Signer{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown signature scheme %q", ErrInvalidConfig, name)
	}
}

func (c *Config) replayWindow() time.Duration {
	if c.Replay.Window > 0 {
		return c.Replay.Window
	}
	return c.TTL + c.MaxFutureSkew + time.Minute
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Build turns the configuration into envelope options, opening the replay
// backend if one is configured. reg, when non-nil, receives the envelope
// metrics. The returned Closer releases the replay backend and must be
// closed after the last Unpack.
func (c *Config) Build(reg prometheus.Registerer) (*envelope.Options, io.Closer, error) {
	if err := c.Validate(); err != nil {
		return nil, nil, err
	}

	cipher, _ := cipherByName(c.Cipher)
	signer, _ := SignerByName(c.Signature)
	level, _ := logrus.ParseLevel(c.LogLevel)
	logger := logrus.New()
	logger.SetLevel(level)

	opts := envelope.NewOptions()
	opts.Cipher = cipher
	opts.Signer = signer
	opts.TTL = c.TTL
	opts.MaxFutureSkew = c.MaxFutureSkew
	opts.MaxEnvelopeSize = c.MaxEnvelopeSize
	opts.AllowSkipVerify = c.AllowSkipVerify
	opts.Logger = logger

	if reg != nil {
		m, err := envelope.NewMetrics(reg)
		if err != nil {
			return nil, nil, fmt.Errorf("register metrics: %w", err)
		}
		opts.Metrics = m
	}

	var closer io.Closer = nopCloser{}
	switch c.Replay.Backend {
	case ReplayFile:
		store, err := crypto.NewNonceStore(c.Replay.Dir, c.replayWindow(), nil)
		if err != nil {
			return nil, nil, fmt.Errorf("open nonce store: %w", err)
		}
		opts.ReplayGuard = store
		closer = store
	case ReplayRedis:
		client, err := replay.NewRedisClient(c.Replay.RedisAddr, c.Replay.RedisPassword, c.Replay.RedisDB)
		if err != nil {
			return nil, nil, err
		}
		guard, err := replay.NewRedisGuard(client, c.Replay.RedisPrefix, c.replayWindow(), nil)
		if err != nil {
			client.Close()
			return nil, nil, err
		}
		opts.ReplayGuard = guard
		closer = guard
	}

	logger.WithFields(logrus.Fields{
		"cipher":          c.Cipher,
		"signature":       c.Signature,
		"ttl":             c.TTL,
		"max_future_skew": c.MaxFutureSkew,
		"replay_backend":  c.Replay.Backend,
	}).Debug("Envelope options built")

	return opts, closer, nil
}
