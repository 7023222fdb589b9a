// Package lv implements the length-value (LV) record encoding used by the
// envelope protocol.
//
// An LV record is a byte string prefixed by its own length as a 4-byte
// big-endian unsigned integer:
//
//	LV := uint32_be(length) || bytes[length]
//
// Records nest: the value of one LV may itself be the concatenation of other
// marshaled records. [Combine] builds such a record from an ordered list and
// [LV.Expand] splits it back into that list. The same codec frames the
// application fields, the five-field data block and the outer envelope.
//
//	a, _ := lv.FromString("hi")
//	b, _ := lv.FromString("!")
//	combined, _ := lv.Combine(a, b)
//	raw, _ := combined.MarshalBinary() // 00 00 00 0b 00 00 00 02 68 69 00 00 00 01 21
//
//	parsed, _ := lv.Unmarshal(raw)
//	parts, _ := parsed.Expand() // ["hi", "!"]
//
// # Ownership
//
// Every constructor copies its input and [LV.Value] returns a copy, so an
// LV never aliases a caller buffer.
//
// # Errors
//
// Structurally invalid input (fewer than four header bytes, or a declared
// length running past the end of the buffer) is reported as [ErrMalformed].
// Values longer than the 32-bit length field can describe are rejected with
// [ErrTooLarge] instead of being truncated.
package lv
