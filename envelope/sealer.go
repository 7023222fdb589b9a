package envelope

import (
	"encoding/hex"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/opd-ai/lvenvelope/crypto"
	"github.com/opd-ai/lvenvelope/datablock"
	"github.com/opd-ai/lvenvelope/limits"
	"github.com/opd-ai/lvenvelope/lv"
)

// Sealer packs and unpacks envelopes with a fixed set of collaborators. It
// holds no key material and no per-call state, so one Sealer may serve any
// number of goroutines and keys.
type Sealer struct {
	cipher crypto.Cipher
	signer crypto.Signer
	hash   crypto.Hasher
	random io.Reader
	clock  crypto.TimeProvider

	ttl             time.Duration
	maxFutureSkew   time.Duration
	maxEnvelopeSize int
	allowSkipVerify bool

	replay  ReplayGuard
	metrics *Metrics
	logger  *logrus.Logger
}

// New creates a Sealer. A nil opts is the same as NewOptions().
func New(opts *Options) (*Sealer, error) {
	if opts == nil {
		opts = NewOptions()
	}
	o := opts.withDefaults()
	if err := o.Validate(); err != nil {
		return nil, fmt.Errorf("invalid envelope options: %w", err)
	}
	return &Sealer{
		cipher:          o.Cipher,
		signer:          o.Signer,
		hash:            o.Hash,
		random:          o.Random,
		clock:           o.Clock,
		ttl:             o.TTL,
		maxFutureSkew:   o.MaxFutureSkew,
		maxEnvelopeSize: o.MaxEnvelopeSize,
		allowSkipVerify: o.AllowSkipVerify,
		replay:          o.ReplayGuard,
		metrics:         o.Metrics,
		logger:          o.Logger,
	}, nil
}

func (s *Sealer) log(function string) *crypto.LoggerHelper {
	return crypto.NewPackageLogger(s.logger, "envelope", function)
}

// Pack frames fields, wraps them in a data block bound to preKeyContext,
// encrypts the block under symmetricKey and signs the ciphertext with
// signingKey. The result is the lowercase hex encoding of
// LV(LV(encrypted) LV(signature)).
func (s *Sealer) Pack(preKeyContext string, signingKey, symmetricKey []byte, fields ...[]byte) (string, error) {
	out, err := s.pack(preKeyContext, signingKey, symmetricKey, fields)
	s.metrics.observePack(err)
	if err != nil {
		s.log("Pack").WithError(err, Code(err), "pack").Warn("Envelope pack failed")
		return "", err
	}
	return out, nil
}

func (s *Sealer) pack(preKeyContext string, signingKey, symmetricKey []byte, fields [][]byte) (string, error) {
	payload, err := lv.CombineValues(fields...)
	if err != nil {
		return "", fmt.Errorf("frame fields: %w", err)
	}
	payloadBytes, err := payload.MarshalBinary()
	if err != nil {
		return "", err
	}
	if err := limits.ValidateMessageSize(payloadBytes, s.maxEnvelopeSize); err != nil {
		crypto.ZeroBytes(payloadBytes)
		return "", fmt.Errorf("%w: %v", ErrInvalidData, err)
	}

	block, err := datablock.New(payloadBytes, datablock.Sources{Clock: s.clock, Random: s.random, Hash: s.hash})
	crypto.ZeroBytes(payloadBytes)
	if err != nil {
		return "", fmt.Errorf("build data block: %w", err)
	}
	if err := block.SetPreKeyContext(preKeyContext); err != nil {
		return "", err
	}

	blockLV, err := block.AsLV()
	if err != nil {
		return "", err
	}
	blockBytes, err := blockLV.MarshalBinary()
	if err != nil {
		return "", err
	}
	defer crypto.ZeroBytes(blockBytes)

	encrypted, err := s.cipher.Encrypt(symmetricKey, blockBytes)
	if err != nil {
		return "", fmt.Errorf("encrypt data block: %w", err)
	}

	signature, err := s.signer.Sign(signingKey, encrypted)
	if err != nil {
		return "", fmt.Errorf("sign encrypted block: %w", err)
	}

	envelopeLV, err := lv.CombineValues(encrypted, signature)
	if err != nil {
		return "", err
	}
	envelopeBytes, err := envelopeLV.MarshalBinary()
	if err != nil {
		return "", err
	}
	// Same bound Unpack applies to the decoded envelope.
	if err := limits.ValidateMessageSize(envelopeBytes, s.maxEnvelopeSize); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidData, err)
	}

	s.log("Pack").WithFields(crypto.OperationFields("pack", "success", logrus.Fields{
		"fields": len(fields),
	}, crypto.SecureFieldHash(signature, "signature"))).Debug("Envelope packed")

	return hex.EncodeToString(envelopeBytes), nil
}

// Unpack verifies, decrypts and validates an envelope produced by Pack and
// returns the packed fields. Checks run in a fixed order and the first
// failure is returned: transport decoding, framing, signature, decryption,
// block framing, timestamp, TTL, pre-key context, payload digest, payload
// framing and finally the replay guard if one is configured.
func (s *Sealer) Unpack(preKeyContext string, verifyKey, symmetricKey []byte, envelopeHex string) ([][]byte, error) {
	return s.unpackObserved(preKeyContext, verifyKey, symmetricKey, envelopeHex, false)
}

// UnpackSkipVerify is Unpack without the signature check, for callers that
// establish authenticity out of band. It fails with ErrVerifyRequired unless
// the Sealer was built with AllowSkipVerify.
func (s *Sealer) UnpackSkipVerify(preKeyContext string, symmetricKey []byte, envelopeHex string) ([][]byte, error) {
	return s.unpackObserved(preKeyContext, nil, symmetricKey, envelopeHex, true)
}

func (s *Sealer) unpackObserved(preKeyContext string, verifyKey, symmetricKey []byte, envelopeHex string, skipVerify bool) ([][]byte, error) {
	start := time.Now()
	fields, stage, err := s.unpack(preKeyContext, verifyKey, symmetricKey, envelopeHex, skipVerify)
	s.metrics.observeUnpack(start, err)
	if err != nil {
		s.log("Unpack").
			WithField("stage", stage).
			WithError(err, Code(err), "unpack").
			Warn("Envelope rejected")
		return nil, err
	}
	return fields, nil
}

// unpack runs the gates in order and reports the stage that failed.
func (s *Sealer) unpack(preKeyContext string, verifyKey, symmetricKey []byte, envelopeHex string, skipVerify bool) ([][]byte, string, error) {
	if skipVerify && !s.allowSkipVerify {
		return nil, "config", ErrVerifyRequired
	}

	// Decode
	if err := limits.ValidateEnvelopeHex(envelopeHex, s.maxEnvelopeSize); err != nil {
		return nil, "decode", fmt.Errorf("%w: %v", ErrInvalidData, err)
	}
	raw, err := hex.DecodeString(envelopeHex)
	if err != nil {
		return nil, "decode", fmt.Errorf("%w: %v", ErrInvalidData, err)
	}

	// Frame
	outer, err := lv.Unmarshal(raw)
	if err != nil {
		return nil, "frame", err
	}
	elements, err := outer.Expand()
	if err != nil {
		return nil, "frame", err
	}
	if len(elements) < 2 {
		return nil, "frame", fmt.Errorf("%w: envelope has %d elements, need 2", ErrInvalidData, len(elements))
	}
	encrypted := elements[0].Value()
	signature := elements[1].Value()

	// Verify
	if !skipVerify {
		ok, err := s.signer.Verify(verifyKey, encrypted, signature)
		if err != nil {
			return nil, "verify", err
		}
		if !ok {
			return nil, "verify", ErrInvalidSignature
		}
	}

	// Decrypt
	decrypted, err := s.cipher.Decrypt(symmetricKey, encrypted)
	if err != nil {
		return nil, "decrypt", err
	}
	defer crypto.ZeroBytes(decrypted)

	// Frame
	blockLV, err := lv.Unmarshal(decrypted)
	if err != nil {
		return nil, "block", err
	}
	block, err := datablock.FromLV(blockLV, s.hash)
	if err != nil {
		return nil, "block", err
	}

	// TimeParse
	created, err := block.ParseTime()
	if err != nil {
		return nil, "time", fmt.Errorf("%w: %v", ErrInvalidTimestamp, err)
	}

	// TTL
	age := s.clock.Since(created)
	if age > s.ttl {
		return nil, "ttl", fmt.Errorf("%w: age %v exceeds %v", ErrTimeExpired, age.Round(time.Second), s.ttl)
	}
	if s.maxFutureSkew > 0 && -age > s.maxFutureSkew {
		return nil, "ttl", fmt.Errorf("%w: %v ahead exceeds %v", ErrTimestampInFuture, (-age).Round(time.Second), s.maxFutureSkew)
	}

	// ContextMatch
	if block.PreKeyContext() != preKeyContext {
		return nil, "context", ErrInvalidPreKey
	}

	// DigestMatch
	if !block.CheckDataHash() {
		return nil, "digest", ErrInvalidDataHash
	}

	// Frame
	payload, err := lv.Unmarshal(block.Data())
	if err != nil {
		return nil, "payload", err
	}
	fields, err := payload.Expand()
	if err != nil {
		return nil, "payload", err
	}

	if s.replay != nil {
		fresh, err := s.replay.CheckAndStore(block.Nonce(), created)
		if err != nil {
			return nil, "replay", fmt.Errorf("replay guard: %w", err)
		}
		if !fresh {
			return nil, "replay", ErrReplayDetected
		}
	}

	s.log("Unpack").WithFields(crypto.OperationFields("unpack", "success", logrus.Fields{
		"fields": len(fields),
	})).Debug("Envelope unpacked")

	return lv.Values(fields), "", nil
}
