package limits

import (
	"errors"
	"fmt"
)

const (
	// DefaultMaxEnvelopeSize bounds the decoded size of an incoming envelope
	// (8 MiB). It keeps hex decoding and LV expansion from allocating
	// unbounded memory on hostile input.
	DefaultMaxEnvelopeSize = 8 * 1024 * 1024
)

var (
	// ErrMessageEmpty indicates an empty message was provided
	ErrMessageEmpty = errors.New("empty message")

	// ErrMessageTooLarge indicates message exceeds maximum size
	ErrMessageTooLarge = errors.New("message too large")
)

// ValidateMessageSize validates a message against the specified maximum size.
// Returns an error with context including the actual and maximum sizes.
func ValidateMessageSize(message []byte, maxSize int) error {
	if len(message) == 0 {
		return ErrMessageEmpty
	}
	if len(message) > maxSize {
		return fmt.Errorf("%w: size %d exceeds limit %d", ErrMessageTooLarge, len(message), maxSize)
	}
	return nil
}

// ValidateEnvelopeHex checks a hex transport string before it is decoded.
// maxDecoded is the largest permitted decoded size; zero or negative means
// DefaultMaxEnvelopeSize.
func ValidateEnvelopeHex(s string, maxDecoded int) error {
	if maxDecoded <= 0 {
		maxDecoded = DefaultMaxEnvelopeSize
	}
	if len(s) == 0 {
		return ErrMessageEmpty
	}
	if len(s)/2 > maxDecoded {
		return fmt.Errorf("%w: decoded size %d exceeds limit %d", ErrMessageTooLarge, len(s)/2, maxDecoded)
	}
	return nil
}
