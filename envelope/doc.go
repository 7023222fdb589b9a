// Package envelope implements the secure message envelope: an ordered list
// of byte-string fields sealed into a hex transport string that is
// encrypted, signed, bound to a pre-key context and only valid for a short
// time.
//
// # Wire Format
//
//	Envelope       := LV(EncryptedBlock) LV(Signature)
//	EncryptedBlock := IV || Ciphertext(serialized DataBlock)
//	DataBlock      := LV(Time) LV(Nonce) LV(PreKeyContext) LV(Data) LV(DataHash)
//	Data           := LV(field_0) ... LV(field_n-1)
//
// The envelope is sent as lowercase hex. The signature covers the encrypted
// block, so a tampered envelope is rejected before anything is decrypted.
//
// # Usage
//
//	sealer, err := envelope.New(envelope.NewOptions())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	msg, err := sealer.Pack(ctx, signingKey, sharedKey, []byte("alice"), []byte("hello"))
//	...
//	fields, err := sealer.Unpack(ctx, peerVerifyKey, sharedKey, msg)
//	if err != nil {
//	    log.Printf("rejected: %s", envelope.Code(err))
//	}
//
// The package-level Pack and Unpack functions use a shared default Sealer.
//
// # Validation Order
//
// Unpack checks, in order: hex decoding, outer framing, the signature
// (unless skipped), decryption, data block framing, the timestamp, the TTL,
// the pre-key context, the payload digest and the payload framing. The first
// failing check determines the returned error. An optional ReplayGuard runs
// last, so only fully valid envelopes consume a nonce.
//
// # Errors
//
// Every failure wraps one of the exported sentinels. Code maps an error to
// its stable string form (for example "TIME_EXPIRED") for logs, metrics and
// API responses.
package envelope
