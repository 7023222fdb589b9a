package crypto

import (
	"crypto/rand"
	"fmt"
	"io"

	"github.com/cloudflare/circl/sign/dilithium/mode3"
)

// Dilithium3Signer implements Signer with the post-quantum Dilithium mode 3
// scheme. Keys travel in their circl binary encoding. Signatures are
// mode3.SignatureSize bytes, so envelopes are larger than with Ed25519 but
// keep the same layout.
type Dilithium3Signer struct{}

// GenerateKeyPair creates a new Dilithium3 key pair. A nil reader uses
// crypto/rand.
func (Dilithium3Signer) GenerateKeyPair(random io.Reader) (*KeyPair, error) {
	if random == nil {
		random = rand.Reader
	}
	pk, sk, err := mode3.GenerateKey(random)
	if err != nil {
		return nil, fmt.Errorf("generate dilithium3 key: %w", err)
	}
	pub, err := pk.MarshalBinary()
	if err != nil {
		return nil, err
	}
	priv, err := sk.MarshalBinary()
	if err != nil {
		return nil, err
	}
	return &KeyPair{Public: pub, Private: priv}, nil
}

// Sign signs message with an encoded mode3 private key.
func (Dilithium3Signer) Sign(privateKey, message []byte) ([]byte, error) {
	if len(privateKey) != mode3.PrivateKeySize {
		return nil, fmt.Errorf("%w: dilithium3 private key must be %d bytes, got %d",
			ErrInvalidKeyMaterial, mode3.PrivateKeySize, len(privateKey))
	}
	var sk mode3.PrivateKey
	if err := sk.UnmarshalBinary(privateKey); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKeyMaterial, err)
	}
	sig := make([]byte, mode3.SignatureSize)
	mode3.SignTo(&sk, message, sig)
	return sig, nil
}

// Verify reports whether signature is valid for message under an encoded
// mode3 public key.
func (Dilithium3Signer) Verify(publicKey, message, signature []byte) (bool, error) {
	if len(publicKey) != mode3.PublicKeySize {
		return false, fmt.Errorf("%w: dilithium3 public key must be %d bytes, got %d",
			ErrInvalidKeyMaterial, mode3.PublicKeySize, len(publicKey))
	}
	var pk mode3.PublicKey
	if err := pk.UnmarshalBinary(publicKey); err != nil {
		return false, fmt.Errorf("%w: %v", ErrInvalidKeyMaterial, err)
	}
	if len(signature) != mode3.SignatureSize {
		return false, nil
	}
	return mode3.Verify(&pk, message, signature), nil
}
