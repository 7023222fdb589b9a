package crypto

import (
	"crypto/cipher"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
)

// XChaCha20Poly1305 implements Cipher with the XChaCha20-Poly1305 AEAD.
// Output is nonce(24) || ciphertext || tag(16). It keeps the envelope layout
// of AESCBC but also authenticates the ciphertext on its own, so a
// tampered block fails decryption even when signature checks are skipped.
type XChaCha20Poly1305 struct {
	// Random supplies nonces. Nil uses crypto/rand.
	Random io.Reader
}

// Encrypt seals plaintext under a 32-byte key with a random nonce.
func (c XChaCha20Poly1305) Encrypt(key, plaintext []byte) ([]byte, error) {
	aead, err := newXChaCha(key)
	if err != nil {
		return nil, err
	}
	nonce, err := RandomBytes(c.Random, chacha20poly1305.NonceSizeX)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(nonce)+len(plaintext)+aead.Overhead())
	out = append(out, nonce...)
	return aead.Seal(out, nonce, plaintext, nil), nil
}

// Decrypt opens nonce-prefixed ciphertext produced by Encrypt.
func (XChaCha20Poly1305) Decrypt(key, ciphertext []byte) ([]byte, error) {
	aead, err := newXChaCha(key)
	if err != nil {
		return nil, err
	}
	if len(ciphertext) < chacha20poly1305.NonceSizeX+aead.Overhead() {
		return nil, fmt.Errorf("%w: ciphertext too short (%d bytes)", ErrDecryptionFailed, len(ciphertext))
	}
	nonce := ciphertext[:chacha20poly1305.NonceSizeX]
	plain, err := aead.Open(nil, nonce, ciphertext[chacha20poly1305.NonceSizeX:], nil)
	if err != nil {
		return nil, fmt.Errorf("%w: message authentication failed", ErrDecryptionFailed)
	}
	return plain, nil
}

func newXChaCha(key []byte) (cipher.AEAD, error) {
	if len(key) != chacha20poly1305.KeySize {
		return nil, fmt.Errorf("%w: xchacha20poly1305 key must be %d bytes, got %d",
			ErrInvalidKeyMaterial, chacha20poly1305.KeySize, len(key))
	}
	return chacha20poly1305.NewX(key)
}
