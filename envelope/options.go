package envelope

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/opd-ai/lvenvelope/crypto"
	"github.com/opd-ai/lvenvelope/limits"
)

// DefaultTTL is the maximum accepted envelope age.
const DefaultTTL = 5 * time.Minute

// Options configures a Sealer. Nil collaborators and zero limits fall back
// to the defaults listed in NewOptions. AllowSkipVerify has no fallback: a
// zero Options refuses UnpackSkipVerify.
type Options struct {
	Cipher crypto.Cipher
	Signer crypto.Signer
	Hash   crypto.Hasher
	Random io.Reader
	Clock  crypto.TimeProvider

	// TTL is the maximum age of an envelope on Unpack.
	TTL time.Duration
	// MaxFutureSkew rejects envelopes dated further ahead than this.
	// Zero accepts any future timestamp.
	MaxFutureSkew time.Duration
	// MaxEnvelopeSize bounds the decoded size of an incoming envelope.
	MaxEnvelopeSize int
	// AllowSkipVerify enables UnpackSkipVerify.
	AllowSkipVerify bool

	// ReplayGuard, when set, rejects envelopes whose nonce was already seen.
	ReplayGuard ReplayGuard
	// Metrics, when set, records pack/unpack outcomes.
	Metrics *Metrics
	Logger  *logrus.Logger
}

// NewOptions returns the default options: AES-CBC, Ed25519, SHA-512,
// crypto/rand, the system clock, a five minute TTL, no future-skew bound,
// no replay guard and the logrus standard logger.
func NewOptions() *Options {
	return &Options{
		Cipher:          crypto.AESCBC{},
		Signer:          crypto.Ed25519Signer{},
		Hash:            crypto.SHA512{},
		Clock:           crypto.DefaultTimeProvider{},
		TTL:             DefaultTTL,
		MaxEnvelopeSize: limits.DefaultMaxEnvelopeSize,
		AllowSkipVerify: true,
		Logger:          logrus.StandardLogger(),
	}
}

// Validate reports option values that can never produce a working Sealer.
func (o *Options) Validate() error {
	if o.TTL <= 0 {
		return fmt.Errorf("ttl must be positive, got %v", o.TTL)
	}
	if o.MaxFutureSkew < 0 {
		return errors.New("max future skew must not be negative")
	}
	if o.MaxEnvelopeSize < 0 {
		return errors.New("max envelope size must not be negative")
	}
	return nil
}

func (o Options) withDefaults() Options {
	d := NewOptions()
	if o.Cipher == nil {
		o.Cipher = d.Cipher
	}
	if o.Signer == nil {
		o.Signer = d.Signer
	}
	if o.Hash == nil {
		o.Hash = d.Hash
	}
	if o.Clock == nil {
		o.Clock = d.Clock
	}
	if o.TTL == 0 {
		o.TTL = d.TTL
	}
	if o.MaxEnvelopeSize == 0 {
		o.MaxEnvelopeSize = d.MaxEnvelopeSize
	}
	if o.Logger == nil {
		o.Logger = d.Logger
	}
	return o
}
