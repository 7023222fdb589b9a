package crypto

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"fmt"
	"io"
)

// Cipher is a randomized symmetric cipher. Encrypt generates a fresh IV or
// nonce on every call and prepends it to the ciphertext; Decrypt expects
// that layout back.
type Cipher interface {
	Encrypt(key, plaintext []byte) ([]byte, error)
	Decrypt(key, ciphertext []byte) ([]byte, error)
}

// AESCBC implements Cipher with AES in CBC mode and PKCS#7 padding.
// Output is IV || ciphertext. The key length selects AES-128, AES-192 or
// AES-256.
//
// CBC is not authenticated: Decrypt detects padding corruption only.
// Integrity of envelopes comes from the outer signature.
type AESCBC struct {
	// Random supplies IVs. Nil uses crypto/rand.
	Random io.Reader
}

// Encrypt pads plaintext and encrypts it under key with a random IV.
func (c AESCBC) Encrypt(key, plaintext []byte) ([]byte, error) {
	block, err := newAESBlock(key)
	if err != nil {
		return nil, err
	}

	padded := pkcs7Pad(plaintext, aes.BlockSize)
	defer ZeroBytes(padded)

	iv, err := RandomBytes(c.Random, aes.BlockSize)
	if err != nil {
		return nil, err
	}

	out := make([]byte, aes.BlockSize+len(padded))
	copy(out, iv)
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out[aes.BlockSize:], padded)
	return out, nil
}

func newAESBlock(key []byte) (cipher.Block, error) {
	switch len(key) {
	case 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: aes key must be 16, 24 or 32 bytes, got %d", ErrInvalidKeyMaterial, len(key))
	}
	return aes.NewCipher(key)
}

// pkcs7Pad returns a new slice holding data followed by 1..blockSize bytes
// of padding, each equal to the padding length.
func pkcs7Pad(data []byte, blockSize int) []byte {
	padding := blockSize - len(data)%blockSize
	out := make([]byte, len(data), len(data)+padding)
	copy(out, data)
	return append(out, bytes.Repeat([]byte{byte(padding)}, padding)...)
}
