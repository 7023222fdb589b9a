package crypto

import "runtime"

// ZeroBytes overwrites b with zeros so plaintext and key copies do not
// linger in memory after use. Nil and empty slices are ignored.
func ZeroBytes(b []byte) {
	if len(b) == 0 {
		return
	}
	clear(b)
	runtime.KeepAlive(b)
}

// WipeKeyPair zeroes the private half of kp. The public key is left intact.
func WipeKeyPair(kp *KeyPair) {
	if kp == nil {
		return
	}
	ZeroBytes(kp.Private)
}
