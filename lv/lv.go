package lv

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
)

// HeaderLen is the size of the big-endian length prefix.
const HeaderLen = 4

// MaxLength is the largest value an LV record can carry.
const MaxLength = math.MaxUint32

var (
	// ErrMalformed indicates a truncated header or a declared length that
	// runs past the end of the buffer.
	ErrMalformed = errors.New("lv: malformed record")

	// ErrTooLarge indicates a value that does not fit the 32-bit length field.
	ErrTooLarge = errors.New("lv: value too large")
)

// LV is a length-value record. The length is always derived from the value
// and cannot be set independently.
type LV struct {
	value []byte
}

// New creates a record holding a copy of value.
func New(value []byte) (*LV, error) {
	if uint64(len(value)) > MaxLength {
		return nil, fmt.Errorf("%w: %d bytes", ErrTooLarge, len(value))
	}
	l := &LV{value: make([]byte, len(value))}
	copy(l.value, value)
	return l, nil
}

// Empty returns a record with a zero-length value.
func Empty() *LV {
	return &LV{}
}

// FromString creates a record holding the bytes of s.
func FromString(s string) (*LV, error) {
	return New([]byte(s))
}

// Length returns the length of the value.
func (l *LV) Length() uint32 {
	return uint32(len(l.value))
}

// Value returns a copy of the record value.
func (l *LV) Value() []byte {
	out := make([]byte, len(l.value))
	copy(out, l.value)
	return out
}

// String returns the value interpreted as a string.
func (l *LV) String() string {
	return string(l.value)
}

// MarshalBinary returns uint32_be(length) || value.
func (l *LV) MarshalBinary() ([]byte, error) {
	return l.appendBinary(make([]byte, 0, HeaderLen+len(l.value))), nil
}

func (l *LV) appendBinary(dst []byte) []byte {
	dst = binary.BigEndian.AppendUint32(dst, uint32(len(l.value)))
	return append(dst, l.value...)
}

// UnmarshalBinary replaces the record with the first record found in data.
func (l *LV) UnmarshalBinary(data []byte) error {
	parsed, _, err := readOne(data)
	if err != nil {
		return err
	}
	l.value = parsed.value
	return nil
}

// Unmarshal reads exactly one record starting at offset 0 of data. Bytes
// after the record are ignored.
func Unmarshal(data []byte) (*LV, error) {
	l, _, err := readOne(data)
	if err != nil {
		return nil, err
	}
	return l, nil
}

// readOne parses a record at the start of data and returns the remainder.
func readOne(data []byte) (*LV, []byte, error) {
	if len(data) < HeaderLen {
		return nil, nil, fmt.Errorf("%w: need %d header bytes, have %d", ErrMalformed, HeaderLen, len(data))
	}
	n := binary.BigEndian.Uint32(data[:HeaderLen])
	rest := data[HeaderLen:]
	if uint64(n) > uint64(len(rest)) {
		return nil, nil, fmt.Errorf("%w: declared length %d exceeds remaining %d bytes", ErrMalformed, n, len(rest))
	}
	value := make([]byte, n)
	copy(value, rest[:n])
	return &LV{value: value}, rest[n:], nil
}

// Expand parses the value as a sequence of marshaled records and returns
// them in order. An empty value expands to an empty, non-nil slice.
func (l *LV) Expand() ([]*LV, error) {
	out := make([]*LV, 0)
	rest := l.value
	for len(rest) > 0 {
		item, next, err := readOne(rest)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", len(out), err)
		}
		out = append(out, item)
		rest = next
	}
	return out, nil
}

// Combine concatenates the marshaled form of each record, in order, into the
// value of a new record. Combine() returns an empty record.
func Combine(lvs ...*LV) (*LV, error) {
	size := 0
	for i, item := range lvs {
		if item == nil {
			return nil, fmt.Errorf("lv: nil record at position %d", i)
		}
		size += HeaderLen + len(item.value)
	}
	if uint64(size) > MaxLength {
		return nil, fmt.Errorf("%w: combined size %d", ErrTooLarge, size)
	}
	buf := make([]byte, 0, size)
	for _, item := range lvs {
		buf = item.appendBinary(buf)
	}
	return &LV{value: buf}, nil
}

// CombineValues wraps each byte string in a record and combines them.
func CombineValues(values ...[]byte) (*LV, error) {
	lvs := make([]*LV, 0, len(values))
	for i, v := range values {
		item, err := New(v)
		if err != nil {
			return nil, fmt.Errorf("value %d: %w", i, err)
		}
		lvs = append(lvs, item)
	}
	return Combine(lvs...)
}

// Values returns a copy of the value of every record in lvs.
func Values(lvs []*LV) [][]byte {
	out := make([][]byte, len(lvs))
	for i, item := range lvs {
		out[i] = item.Value()
	}
	return out
}

// Hex returns the lowercase hex encoding of the marshaled record.
func (l *LV) Hex() (string, error) {
	b, err := l.MarshalBinary()
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
