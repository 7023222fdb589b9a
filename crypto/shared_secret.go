package crypto

import (
	"crypto/rand"
	"fmt"
	"io"

	"github.com/flynn/noise"
	"golang.org/x/crypto/curve25519"
)

// X25519KeySize is the size of X25519 public keys, private keys and shared
// secrets.
const X25519KeySize = curve25519.ScalarSize

// KeyExchange derives a shared secret from a local private key and a peer
// public key.
type KeyExchange interface {
	GenerateKeyPair(random io.Reader) (*KeyPair, error)
	SharedSecret(privateKey, peerPublicKey []byte) ([]byte, error)
}

// X25519 implements KeyExchange with Elliptic Curve Diffie-Hellman on
// Curve25519. The 32-byte shared secret is suitable as an AES-256 or
// XChaCha20-Poly1305 key.
type X25519 struct{}

// GenerateKeyPair creates a new X25519 key pair. A nil reader uses crypto/rand.
func (X25519) GenerateKeyPair(random io.Reader) (*KeyPair, error) {
	if random == nil {
		random = rand.Reader
	}
	dh, err := noise.DH25519.GenerateKeypair(random)
	if err != nil {
		return nil, fmt.Errorf("generate x25519 key: %w", err)
	}
	return &KeyPair{Public: dh.Public, Private: dh.Private}, nil
}

// SharedSecret computes X25519(privateKey, peerPublicKey). Both inputs must
// be exactly X25519KeySize bytes; low-order peer points are rejected.
func (X25519) SharedSecret(privateKey, peerPublicKey []byte) ([]byte, error) {
	logger := NewLogger("SharedSecret").WithFields(SecureFieldHash(peerPublicKey, "peer_key"))
	logger.Debug("Computing shared secret using ECDH")

	if len(privateKey) != X25519KeySize {
		return nil, fmt.Errorf("%w: x25519 private key must be %d bytes, got %d",
			ErrInvalidKeyMaterial, X25519KeySize, len(privateKey))
	}
	if len(peerPublicKey) != X25519KeySize {
		return nil, fmt.Errorf("%w: x25519 public key must be %d bytes, got %d",
			ErrInvalidKeyMaterial, X25519KeySize, len(peerPublicKey))
	}

	// Work on a copy so the caller's key is never touched by the wipe
	privateKeyCopy := make([]byte, X25519KeySize)
	copy(privateKeyCopy, privateKey)
	defer ZeroBytes(privateKeyCopy)

	secret, err := curve25519.X25519(privateKeyCopy, peerPublicKey)
	if err != nil {
		logger.WithError(err, "key_exchange", "x25519").Warn("X25519 computation failed")
		return nil, fmt.Errorf("%w: %v", ErrInvalidKeyMaterial, err)
	}

	logger.Debug("Shared secret computed")
	return secret, nil
}
