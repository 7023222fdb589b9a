package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/subtle"
	"fmt"
)

// Decrypt reverses Encrypt. Short input, input that is not a whole number
// of blocks, and bad padding all fail with ErrDecryptionFailed.
func (AESCBC) Decrypt(key, ciphertext []byte) ([]byte, error) {
	block, err := newAESBlock(key)
	if err != nil {
		return nil, err
	}

	if len(ciphertext) < 2*aes.BlockSize || len(ciphertext)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("%w: ciphertext length %d is not IV plus whole blocks", ErrDecryptionFailed, len(ciphertext))
	}

	iv := ciphertext[:aes.BlockSize]
	body := ciphertext[aes.BlockSize:]
	plain := make([]byte, len(body))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plain, body)

	out, err := pkcs7Unpad(plain, aes.BlockSize)
	if err != nil {
		ZeroBytes(plain)
		return nil, err
	}
	return out, nil
}

// pkcs7Unpad strips PKCS#7 padding. All padding bytes are inspected so the
// check does not stop at the first mismatch.
func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	n := len(data)
	if n == 0 || n%blockSize != 0 {
		return nil, fmt.Errorf("%w: invalid padded length %d", ErrDecryptionFailed, n)
	}
	padding := int(data[n-1])
	if padding == 0 || padding > blockSize {
		return nil, fmt.Errorf("%w: invalid padding", ErrDecryptionFailed)
	}

	good := 1
	for i := n - padding; i < n; i++ {
		good &= subtle.ConstantTimeByteEq(data[i], byte(padding))
	}
	if good != 1 {
		return nil, fmt.Errorf("%w: invalid padding", ErrDecryptionFailed)
	}
	return data[:n-padding], nil
}
