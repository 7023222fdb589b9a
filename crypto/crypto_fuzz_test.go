package crypto

import (
	"bytes"
	"testing"
)

// FuzzCipherDecrypt feeds arbitrary ciphertext to both ciphers. Decrypt must
// never panic.
func FuzzCipherDecrypt(f *testing.F) {
	f.Add(make([]byte, 32))
	f.Add([]byte{})
	f.Add(bytes.Repeat([]byte{0x10}, 48))

	key := bytes.Repeat([]byte{0x33}, 32)
	ciphers := []Cipher{AESCBC{}, XChaCha20Poly1305{}}

	f.Fuzz(func(t *testing.T, data []byte) {
		for _, c := range ciphers {
			_, _ = c.Decrypt(key, data)
		}
	})
}

// FuzzCipherRoundTrip checks Encrypt/Decrypt symmetry on arbitrary input.
func FuzzCipherRoundTrip(f *testing.F) {
	f.Add([]byte("Hello, World!"))
	f.Add([]byte(""))
	f.Add(make([]byte, 100))

	key := bytes.Repeat([]byte{0x44}, 32)
	ciphers := []Cipher{AESCBC{}, XChaCha20Poly1305{}}

	f.Fuzz(func(t *testing.T, plaintext []byte) {
		if len(plaintext) > 10000 {
			return
		}
		for _, c := range ciphers {
			ct, err := c.Encrypt(key, plaintext)
			if err != nil {
				t.Fatalf("Encrypt() error: %v", err)
			}
			got, err := c.Decrypt(key, ct)
			if err != nil {
				t.Fatalf("Decrypt() error: %v", err)
			}
			if !bytes.Equal(plaintext, got) {
				t.Errorf("round trip mismatch: got %x, want %x", got, plaintext)
			}
		}
	})
}
