package crypto

import (
	"fmt"

	"github.com/google/uuid"
)

// PreKeyPrefix is prepended to generated pre-key context identifiers.
const PreKeyPrefix = "PREKEY_"

// NewPreKeyContext returns a fresh identifier of the form
// "PREKEY_<uuidv7>" for binding envelopes to a symmetric key. Version 7
// UUIDs sort by creation time.
func NewPreKeyContext() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generate pre-key context: %w", err)
	}
	return PreKeyPrefix + id.String(), nil
}
