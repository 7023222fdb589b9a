// Package limits provides centralized size limits for envelope input.
//
// # Envelope Size
//
// Unpack receives an attacker-controlled hex string. Before decoding it,
// the pipeline calls [ValidateEnvelopeHex] so that the decoded buffer and
// every allocation derived from it stay below a configured bound
// ([DefaultMaxEnvelopeSize] unless overridden).
//
//	if err := limits.ValidateEnvelopeHex(s, opts.MaxEnvelopeSize); err != nil {
//	    // ErrMessageEmpty or ErrMessageTooLarge
//	}
//
// Pack applies the same bound to the framed payload with
// [ValidateMessageSize], so a Sealer never produces an envelope it would
// refuse to unpack:
//
//	err := limits.ValidateMessageSize(payload, opts.MaxEnvelopeSize)
//
// # Error Types
//
//   - ErrMessageEmpty: Returned when an empty or nil message is provided
//   - ErrMessageTooLarge: Returned when message exceeds the specified limit
package limits
