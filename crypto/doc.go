// Package crypto provides the cryptographic collaborators consumed by the
// envelope pipeline, together with their default implementations.
//
// The envelope core never calls a primitive directly. It depends on the
// small interfaces defined here, so deployments can swap in a hardware or
// platform provider without touching the framing logic:
//
//   - [Signer]: key generation, deterministic signing, verification
//   - [KeyExchange]: key pair generation and shared-secret computation
//   - [Cipher]: randomized symmetric encryption with a prepended IV/nonce
//   - [Hasher]: fixed-length digest
//   - [TimeProvider]: injectable clock
//
// Random sources are plain io.Reader values; nil always means crypto/rand.
//
// # Default Implementations
//
//	signer := crypto.Ed25519Signer{}
//	kp, _ := signer.GenerateKeyPair(nil)
//	sig, _ := signer.Sign(kp.Private, message)
//	ok, _ := signer.Verify(kp.Public, message, sig)
//
//	kx := crypto.X25519{}
//	alice, _ := kx.GenerateKeyPair(nil)
//	bob, _ := kx.GenerateKeyPair(nil)
//	key, _ := kx.SharedSecret(alice.Private, bob.Public) // 32 bytes
//
//	var c crypto.Cipher = crypto.AESCBC{}
//	ct, _ := c.Encrypt(key, plaintext) // IV || ciphertext
//	pt, _ := c.Decrypt(key, ct)
//
// [Dilithium3Signer] is a post-quantum alternative to [Ed25519Signer] with
// the same interface; only the key and signature sizes differ.
//
// [AESCBC] is the interoperable envelope wire format and is not
// authenticated on its own. [XChaCha20Poly1305] keeps the same
// nonce-prefixed layout and adds per-block authentication.
//
// # Errors
//
// Key bytes of the wrong length, or keys the primitive refuses, fail with
// [ErrInvalidKeyMaterial]. Ciphertext the cipher rejects fails with
// [ErrDecryptionFailed]. Both are sentinels meant for errors.Is.
//
// # Replay Protection
//
// [NonceStore] is an optional, caller-side cache of envelope nonces that
// persists across restarts. The envelope pipeline consults it only when one
// is configured.
//
// # Secure Memory Handling
//
// Intermediate plaintext and expanded key copies are cleared with
// [ZeroBytes] once they are no longer needed. Callers own their key
// material and should wipe it with [ZeroBytes] or [WipeKeyPair].
//
// # Thread Safety
//
// All implementations in this package are stateless or internally
// synchronized and safe for concurrent use.
package crypto
