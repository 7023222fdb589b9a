package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opd-ai/lvenvelope/crypto"
	"github.com/opd-ai/lvenvelope/envelope"
	"github.com/opd-ai/lvenvelope/limits"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lvenvelope.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, envelope.DefaultTTL, cfg.TTL)
	assert.Equal(t, limits.DefaultMaxEnvelopeSize, cfg.MaxEnvelopeSize)
	assert.False(t, cfg.AllowSkipVerify)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
ttl: 2m
max_future_skew: 30s
cipher: xchacha20poly1305
signature: dilithium3
allow_skip_verify: true
log_level: debug
replay:
  backend: file
  dir: /tmp/lvenvelope-nonces
  window: 3m
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 2*time.Minute, cfg.TTL)
	assert.Equal(t, 30*time.Second, cfg.MaxFutureSkew)
	assert.Equal(t, CipherXChaCha20Poly1305, cfg.Cipher)
	assert.Equal(t, SignatureDilithium3, cfg.Signature)
	assert.True(t, cfg.AllowSkipVerify)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, ReplayFile, cfg.Replay.Backend)
	assert.Equal(t, 3*time.Minute, cfg.Replay.Window)
	assert.Equal(t, limits.DefaultMaxEnvelopeSize, cfg.MaxEnvelopeSize, "unset keys keep defaults")
}

func TestLoadErrors(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"not yaml", "ttl: [1, 2"},
		{"bad duration", "ttl: soon"},
		{"zero ttl", "ttl: 0s"},
		{"negative skew", "max_future_skew: -1s"},
		{"unknown cipher", "cipher: rot13"},
		{"unknown signature", "signature: rsa"},
		{"bad log level", "log_level: loud"},
		{"unknown backend", "replay:\n  backend: memcached"},
		{"file without dir", "replay:\n  backend: file"},
		{"redis without addr", "replay:\n  backend: redis"},
		{"window shorter than ttl", "ttl: 5m\nreplay:\n  backend: none\n  window: 1m"},
		{"window shorter than ttl plus skew", "ttl: 5m\nmax_future_skew: 1m\nreplay:\n  window: 5m30s"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.body))
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("LVENVELOPE_LOG_LEVEL", "warn")
	t.Setenv("LVENVELOPE_REDIS_ADDR", "redis.internal:6379")

	cfg, err := Load(writeConfig(t, "log_level: debug\nreplay:\n  backend: redis\n"))
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "redis.internal:6379", cfg.Replay.RedisAddr)
}

func TestBuild(t *testing.T) {
	cfg := Default()
	cfg.Cipher = CipherXChaCha20Poly1305
	cfg.TTL = time.Minute
	cfg.AllowSkipVerify = true
	cfg.LogLevel = "error"

	reg := prometheus.NewRegistry()
	opts, closer, err := cfg.Build(reg)
	require.NoError(t, err)
	defer closer.Close()

	assert.IsType(t, crypto.XChaCha20Poly1305{}, opts.Cipher)
	assert.Equal(t, time.Minute, opts.TTL)
	assert.True(t, opts.AllowSkipVerify)
	assert.NotNil(t, opts.Metrics)
	assert.Nil(t, opts.ReplayGuard)

	s, err := envelope.New(opts)
	require.NoError(t, err)

	signer := crypto.Ed25519Signer{}
	kp, err := signer.GenerateKeyPair(nil)
	require.NoError(t, err)
	key := make([]byte, 32)

	msg, err := s.Pack("PREKEY_cfg", kp.Private, key, []byte("x"))
	require.NoError(t, err)
	_, err = s.Unpack("PREKEY_cfg", kp.Public, key, msg)
	assert.NoError(t, err)
}

func TestBuildFileReplay(t *testing.T) {
	cfg := Default()
	cfg.LogLevel = "error"
	cfg.Replay.Backend = ReplayFile
	cfg.Replay.Dir = t.TempDir()

	opts, closer, err := cfg.Build(nil)
	require.NoError(t, err)
	require.NotNil(t, opts.ReplayGuard)
	assert.Nil(t, opts.Metrics)

	s, err := envelope.New(opts)
	require.NoError(t, err)

	signer := crypto.Ed25519Signer{}
	kp, err := signer.GenerateKeyPair(nil)
	require.NoError(t, err)
	key := make([]byte, 32)

	msg, err := s.Pack("PREKEY_cfg", kp.Private, key, []byte("x"))
	require.NoError(t, err)
	_, err = s.Unpack("PREKEY_cfg", kp.Public, key, msg)
	require.NoError(t, err)
	_, err = s.Unpack("PREKEY_cfg", kp.Public, key, msg)
	assert.ErrorIs(t, err, envelope.ErrReplayDetected)

	require.NoError(t, closer.Close())
	_, err = os.Stat(filepath.Join(cfg.Replay.Dir, "envelope_nonces.dat"))
	assert.NoError(t, err, "nonce store persisted on close")
}

func TestBuildDilithium(t *testing.T) {
	cfg := Default()
	cfg.Signature = SignatureDilithium3
	cfg.LogLevel = "error"

	opts, closer, err := cfg.Build(nil)
	require.NoError(t, err)
	defer closer.Close()
	assert.IsType(t, crypto.Dilithium3Signer{}, opts.Signer)

	s, err := envelope.New(opts)
	require.NoError(t, err)
	kp, err := opts.Signer.GenerateKeyPair(nil)
	require.NoError(t, err)
	key := make([]byte, 32)

	msg, err := s.Pack("PREKEY_pq", kp.Private, key, []byte("x"))
	require.NoError(t, err)
	_, err = s.Unpack("PREKEY_pq", kp.Public, key, msg)
	assert.NoError(t, err)
}

func TestSignerByName(t *testing.T) {
	s, err := SignerByName("")
	require.NoError(t, err)
	assert.IsType(t, crypto.Ed25519Signer{}, s)

	_, err = SignerByName("rsa")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestBuildRejectsInvalid(t *testing.T) {
	cfg := Default()
	cfg.Cipher = "none"
	_, _, err := cfg.Build(nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestReplayWindow(t *testing.T) {
	cfg := Default()
	assert.Equal(t, cfg.TTL+time.Minute, cfg.replayWindow())
	cfg.MaxFutureSkew = 30 * time.Second
	assert.Equal(t, cfg.TTL+30*time.Second+time.Minute, cfg.replayWindow())
	cfg.Replay.Window = time.Hour
	assert.Equal(t, time.Hour, cfg.replayWindow())
}

func TestValidateReplayWindowCoversTTL(t *testing.T) {
	cfg := Default()
	cfg.TTL = 5 * time.Minute
	cfg.MaxFutureSkew = time.Minute
	cfg.Replay.Backend = ReplayFile
	cfg.Replay.Dir = t.TempDir()

	cfg.Replay.Window = time.Minute
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)

	cfg.Replay.Window = 6 * time.Minute
	assert.NoError(t, cfg.Validate())

	cfg.Replay.Window = 0
	assert.NoError(t, cfg.Validate())
	assert.GreaterOrEqual(t, cfg.replayWindow(), cfg.TTL+cfg.MaxFutureSkew)
}
