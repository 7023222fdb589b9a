package crypto

import "errors"

var (
	// ErrInvalidKeyMaterial indicates key bytes of the wrong length or a key
	// the primitive refuses, such as a low-order X25519 point.
	ErrInvalidKeyMaterial = errors.New("invalid key material")

	// ErrDecryptionFailed indicates the cipher rejected the ciphertext.
	ErrDecryptionFailed = errors.New("decryption failed")
)
