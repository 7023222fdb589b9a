package crypto

import (
	"crypto/ed25519"
	"fmt"
	"io"
)

// SignatureSize is the size of an Ed25519 signature in bytes.
const SignatureSize = ed25519.SignatureSize

// Signer produces and checks detached signatures.
type Signer interface {
	GenerateKeyPair(random io.Reader) (*KeyPair, error)
	Sign(privateKey, message []byte) ([]byte, error)
	Verify(publicKey, message, signature []byte) (bool, error)
}

// Ed25519Signer implements Signer with deterministic Ed25519 signatures.
type Ed25519Signer struct{}

// GenerateKeyPair creates a new Ed25519 key pair. The private key is the
// 64-byte seed||public form. A nil reader uses crypto/rand.
func (Ed25519Signer) GenerateKeyPair(random io.Reader) (*KeyPair, error) {
	pub, priv, err := ed25519.GenerateKey(random)
	if err != nil {
		return nil, fmt.Errorf("generate ed25519 key: %w", err)
	}
	return &KeyPair{Public: pub, Private: priv}, nil
}

// Sign creates an Ed25519 signature for message. privateKey may be either
// the 32-byte seed or the 64-byte expanded key.
func (Ed25519Signer) Sign(privateKey, message []byte) ([]byte, error) {
	switch len(privateKey) {
	case ed25519.SeedSize:
		// Expand the seed into a temporary key and wipe it afterwards
		key := ed25519.NewKeyFromSeed(privateKey)
		defer ZeroBytes(key)
		return ed25519.Sign(key, message), nil
	case ed25519.PrivateKeySize:
		return ed25519.Sign(ed25519.PrivateKey(privateKey), message), nil
	default:
		return nil, fmt.Errorf("%w: ed25519 private key must be %d or %d bytes, got %d",
			ErrInvalidKeyMaterial, ed25519.SeedSize, ed25519.PrivateKeySize, len(privateKey))
	}
}

// Verify checks signature against message and publicKey. A signature of the
// wrong length is reported as invalid, not as an error.
func (Ed25519Signer) Verify(publicKey, message, signature []byte) (bool, error) {
	if len(publicKey) != ed25519.PublicKeySize {
		return false, fmt.Errorf("%w: ed25519 public key must be %d bytes, got %d",
			ErrInvalidKeyMaterial, ed25519.PublicKeySize, len(publicKey))
	}
	if len(signature) != SignatureSize {
		return false, nil
	}
	return ed25519.Verify(ed25519.PublicKey(publicKey), message, signature), nil
}
