package envelope

import "sync"

var (
	defaultOnce   sync.Once
	defaultSealer *Sealer
)

// Default returns the shared Sealer built from NewOptions.
func Default() *Sealer {
	defaultOnce.Do(func() {
		s, err := New(NewOptions())
		if err != nil {
			panic("envelope: default options are invalid: " + err.Error())
		}
		defaultSealer = s
	})
	return defaultSealer
}

// Pack packs fields with the default Sealer.
func Pack(preKeyContext string, signingKey, symmetricKey []byte, fields ...[]byte) (string, error) {
	return Default().Pack(preKeyContext, signingKey, symmetricKey, fields...)
}

// Unpack unpacks envelopeHex with the default Sealer. With skipVerify set,
// verifyKey is ignored and the signature is not checked.
func Unpack(preKeyContext string, verifyKey, symmetricKey []byte, envelopeHex string, skipVerify bool) ([][]byte, error) {
	if skipVerify {
		return Default().UnpackSkipVerify(preKeyContext, symmetricKey, envelopeHex)
	}
	return Default().Unpack(preKeyContext, verifyKey, symmetricKey, envelopeHex)
}
