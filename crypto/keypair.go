package crypto

// KeyPair holds raw public and private key bytes for either a signing or a
// key-exchange primitive. The layout of each slice is defined by the
// primitive that produced it.
type KeyPair struct {
	Public  []byte
	Private []byte
}
