package crypto

import (
	"crypto/rand"
	"fmt"
	"io"
)

// RandomBytes reads n bytes from random. A nil reader uses crypto/rand.
func RandomBytes(random io.Reader, n int) ([]byte, error) {
	if random == nil {
		random = rand.Reader
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(random, buf); err != nil {
		return nil, fmt.Errorf("read %d random bytes: %w", n, err)
	}
	return buf, nil
}
