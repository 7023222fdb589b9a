package envelope

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/opd-ai/lvenvelope/crypto"
)

func BenchmarkPack(b *testing.B) {
	keys := newTestKeys(60)
	s, err := New(&Options{Logger: quietLogger()})
	if err != nil {
		b.Fatal(err)
	}

	for _, size := range []int{64, 1024, 64 * 1024} {
		payload := bytes.Repeat([]byte{0xab}, size)
		b.Run(fmt.Sprintf("%dB", size), func(b *testing.B) {
			b.SetBytes(int64(size))
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := s.Pack(testContext, keys.sign, keys.symmetric, payload); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkUnpack(b *testing.B) {
	keys := newTestKeys(61)

	ciphers := []struct {
		name   string
		cipher crypto.Cipher
	}{
		{"aes-cbc", crypto.AESCBC{}},
		{"xchacha20poly1305", crypto.XChaCha20Poly1305{}},
	}

	for _, c := range ciphers {
		s, err := New(&Options{Logger: quietLogger(), Cipher: c.cipher})
		if err != nil {
			b.Fatal(err)
		}
		msg, err := s.Pack(testContext, keys.sign, keys.symmetric, bytes.Repeat([]byte{0xcd}, 1024))
		if err != nil {
			b.Fatal(err)
		}

		b.Run(c.name, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := s.Unpack(testContext, keys.verify, keys.symmetric, msg); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
