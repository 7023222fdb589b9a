package crypto

import "crypto/sha512"

// Hasher computes a fixed-length digest.
type Hasher interface {
	Sum(data []byte) []byte
	Size() int
}

// SHA512 implements Hasher with SHA-512.
type SHA512 struct{}

// Sum returns the SHA-512 digest of data.
func (SHA512) Sum(data []byte) []byte {
	d := sha512.Sum512(data)
	return d[:]
}

// Size returns 64.
func (SHA512) Size() int { return sha512.Size }
