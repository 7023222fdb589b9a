package datablock

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/opd-ai/lvenvelope/crypto"
	"github.com/opd-ai/lvenvelope/lv"
)

// NonceSize is the number of random bytes in the Nonce field.
const NonceSize = crypto.NonceSize

// FieldCount is the fixed number of LV records in a serialized block.
const FieldCount = 5

// TimeLayout is the format of the Time field.
const TimeLayout = time.RFC3339

// ErrMalformed indicates a serialized block that does not hold exactly
// FieldCount records.
var ErrMalformed = errors.New("datablock: malformed block")

// Sources supplies the clock, randomness and digest used to build a block.
// Nil fields fall back to the system clock, crypto/rand and SHA-512.
type Sources struct {
	Clock  crypto.TimeProvider
	Random io.Reader
	Hash   crypto.Hasher
}

func (s Sources) withDefaults() Sources {
	if s.Clock == nil {
		s.Clock = crypto.DefaultTimeProvider{}
	}
	if s.Hash == nil {
		s.Hash = crypto.SHA512{}
	}
	return s
}

// DataBlock is the positional five-field record. The zero value is not
// usable; build one with New or FromLV.
type DataBlock struct {
	timestamp     *lv.LV
	nonce         *lv.LV
	preKeyContext *lv.LV
	data          *lv.LV
	dataHash      *lv.LV

	hash crypto.Hasher
}

// New builds a block around a copy of data with a fresh timestamp, a fresh
// nonce and the digest of data. PreKeyContext is left empty and must be set
// with SetPreKeyContext before serialization.
func New(data []byte, src Sources) (*DataBlock, error) {
	src = src.withDefaults()

	ts, err := lv.FromString(src.Clock.Now().UTC().Format(TimeLayout))
	if err != nil {
		return nil, err
	}

	nonceBytes, err := crypto.RandomBytes(src.Random, NonceSize)
	if err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}
	nonce, err := lv.New(nonceBytes)
	if err != nil {
		return nil, err
	}

	payload, err := lv.New(data)
	if err != nil {
		return nil, err
	}
	digest, err := lv.New(src.Hash.Sum(data))
	if err != nil {
		return nil, err
	}

	return &DataBlock{
		timestamp:     ts,
		nonce:         nonce,
		preKeyContext: lv.Empty(),
		data:          payload,
		dataHash:      digest,
		hash:          src.Hash,
	}, nil
}

// FromLV parses a block from a record whose value holds exactly FieldCount
// marshaled records. A nil hasher uses SHA-512.
func FromLV(record *lv.LV, hash crypto.Hasher) (*DataBlock, error) {
	if hash == nil {
		hash = crypto.SHA512{}
	}
	fields, err := record.Expand()
	if err != nil {
		return nil, err
	}
	if len(fields) != FieldCount {
		return nil, fmt.Errorf("%w: expected %d fields, got %d", ErrMalformed, FieldCount, len(fields))
	}
	return &DataBlock{
		timestamp:     fields[0],
		nonce:         fields[1],
		preKeyContext: fields[2],
		data:          fields[3],
		dataHash:      fields[4],
		hash:          hash,
	}, nil
}

// SetPreKeyContext binds the block to the named symmetric key.
func (db *DataBlock) SetPreKeyContext(ctx string) error {
	l, err := lv.FromString(ctx)
	if err != nil {
		return err
	}
	db.preKeyContext = l
	return nil
}

// CheckDataHash reports whether DataHash equals the digest of Data.
func (db *DataBlock) CheckDataHash() bool {
	want := db.hash.Sum(db.data.Value())
	return subtle.ConstantTimeCompare(want, db.dataHash.Value()) == 1
}

// AsLV serializes the block in field order.
func (db *DataBlock) AsLV() (*lv.LV, error) {
	return lv.Combine(db.timestamp, db.nonce, db.preKeyContext, db.data, db.dataHash)
}

// Time returns the raw Time field.
func (db *DataBlock) Time() string { return db.timestamp.String() }

// ParseTime parses the Time field.
func (db *DataBlock) ParseTime() (time.Time, error) {
	return time.Parse(TimeLayout, db.timestamp.String())
}

// Nonce returns a copy of the Nonce field.
func (db *DataBlock) Nonce() []byte { return db.nonce.Value() }

// PreKeyContext returns the PreKeyContext field.
func (db *DataBlock) PreKeyContext() string { return db.preKeyContext.String() }

// Data returns a copy of the payload.
func (db *DataBlock) Data() []byte { return db.data.Value() }

// DataHash returns a copy of the stored digest.
func (db *DataBlock) DataHash() []byte { return db.dataHash.Value() }
