// Package lvenvelope is the root of the LV secure envelope module. It holds
// no code; the implementation lives in the subpackages:
//
//   - lv: the length-value codec used for every layer of framing
//   - datablock: the five-field record that carries the payload inside an
//     envelope
//   - envelope: Pack and Unpack, the ordered validation gates and the error
//     codes
//   - crypto: signer, key exchange, cipher, hash and clock implementations,
//     structured logging helpers and the file-backed nonce store
//   - replay: a Redis-backed replay guard shared between processes
//   - limits: size bounds for untrusted input
//   - config: YAML configuration that builds envelope options
//
// The lvenvelope command under cmd/ exposes key generation, key derivation,
// pack and unpack for scripting and debugging.
//
// # Quick Start
//
//	kx := crypto.X25519{}
//	key, err := kx.SharedSecret(myExchange.Private, peerExchange.Public)
//	...
//	msg, err := envelope.Pack(prekeyContext, mySigning.Private, key, []byte("hello"))
//	...
//	fields, err := envelope.Unpack(prekeyContext, peerSigning.Public, key, msg, false)
//	if err != nil {
//	    log.Printf("rejected: %s", envelope.Code(err))
//	}
package lvenvelope
