package crypto

import (
	"bytes"
	"testing"
)

// BenchmarkEd25519Sign measures signing performance
func BenchmarkEd25519Sign(b *testing.B) {
	signer := Ed25519Signer{}
	kp, err := signer.GenerateKeyPair(nil)
	if err != nil {
		b.Fatal(err)
	}
	message := bytes.Repeat([]byte{0x5a}, 1024)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := signer.Sign(kp.Private, message); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkX25519SharedSecret measures ECDH performance
func BenchmarkX25519SharedSecret(b *testing.B) {
	kx := X25519{}
	alice, _ := kx.GenerateKeyPair(nil)
	bob, _ := kx.GenerateKeyPair(nil)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := kx.SharedSecret(alice.Private, bob.Public); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkAESCBCEncrypt measures encryption of a 4 KiB block
func BenchmarkAESCBCEncrypt(b *testing.B) {
	key := bytes.Repeat([]byte{0x01}, 32)
	data := bytes.Repeat([]byte{0x02}, 4096)

	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := (AESCBC{}).Encrypt(key, data); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkXChaCha20Poly1305Encrypt measures AEAD encryption of a 4 KiB block
func BenchmarkXChaCha20Poly1305Encrypt(b *testing.B) {
	key := bytes.Repeat([]byte{0x01}, 32)
	data := bytes.Repeat([]byte{0x02}, 4096)

	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := (XChaCha20Poly1305{}).Encrypt(key, data); err != nil {
			b.Fatal(err)
		}
	}
}
