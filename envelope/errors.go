package envelope

import (
	"errors"

	"github.com/opd-ai/lvenvelope/crypto"
	"github.com/opd-ai/lvenvelope/datablock"
	"github.com/opd-ai/lvenvelope/lv"
)

// Every Pack/Unpack failure wraps exactly one of these sentinels. Match
// them with errors.Is, or map them to stable strings with Code.
var (
	// ErrMalformedLV indicates structurally invalid LV framing.
	ErrMalformedLV = lv.ErrMalformed

	// ErrInvalidData indicates undecodable transport encoding or an
	// envelope with fewer than two elements.
	ErrInvalidData = errors.New("invalid envelope data")

	// ErrMalformedDataBlock indicates decrypted plaintext that is not
	// exactly five LV fields.
	ErrMalformedDataBlock = datablock.ErrMalformed

	// ErrInvalidSignature indicates the signature over the encrypted block
	// did not verify. Nothing was decrypted.
	ErrInvalidSignature = errors.New("invalid signature")

	// ErrDecryptionFailed indicates the cipher rejected the encrypted block.
	ErrDecryptionFailed = crypto.ErrDecryptionFailed

	// ErrInvalidTimestamp indicates a Time field that is not RFC 3339.
	ErrInvalidTimestamp = errors.New("invalid timestamp data")

	// ErrTimeExpired indicates an envelope older than the TTL.
	ErrTimeExpired = errors.New("envelope expired")

	// ErrTimestampInFuture indicates an envelope dated further ahead than
	// MaxFutureSkew allows.
	ErrTimestampInFuture = errors.New("envelope timestamp in the future")

	// ErrInvalidPreKey indicates a PreKeyContext other than the expected
	// one; the wrong symmetric key was most likely used.
	ErrInvalidPreKey = errors.New("invalid pre-key context")

	// ErrInvalidDataHash indicates the payload digest did not match.
	ErrInvalidDataHash = errors.New("invalid data hash")

	// ErrInvalidKeyMaterial indicates key bytes of the wrong type or length.
	ErrInvalidKeyMaterial = crypto.ErrInvalidKeyMaterial

	// ErrReplayDetected indicates the replay guard has already seen the
	// envelope nonce.
	ErrReplayDetected = errors.New("envelope replay detected")

	// ErrVerifyRequired indicates UnpackSkipVerify on a Sealer that does
	// not allow it.
	ErrVerifyRequired = errors.New("signature verification required")
)

// Error codes returned by Code.
const (
	CodeMalformedLV        = "MALFORMED_LV"
	CodeInvalidData        = "INVALID_DATA"
	CodeMalformedDataBlock = "MALFORMED_DATABLOCK"
	CodeInvalidSignature   = "INVALID_SIGNATURE"
	CodeDecryptionFailed   = "DECRYPTION_FAILED"
	CodeInvalidTimestamp   = "INVALID_TIMESTAMP_DATA"
	CodeTimeExpired        = "TIME_EXPIRED"
	CodeTimestampInFuture  = "TIMESTAMP_IN_FUTURE"
	CodeInvalidPreKey      = "INVALID_PREKEY"
	CodeInvalidDataHash    = "INVALID_DATA_HASH"
	CodeInvalidKeyMaterial = "INVALID_KEY_MATERIAL"
	CodeReplayDetected     = "REPLAY_DETECTED"
	CodeVerifyRequired     = "VERIFY_REQUIRED"
	CodeInternal           = "INTERNAL"
)

var codes = []struct {
	err  error
	code string
}{
	{ErrInvalidData, CodeInvalidData},
	{ErrMalformedLV, CodeMalformedLV},
	{ErrMalformedDataBlock, CodeMalformedDataBlock},
	{ErrInvalidSignature, CodeInvalidSignature},
	{ErrDecryptionFailed, CodeDecryptionFailed},
	{ErrInvalidTimestamp, CodeInvalidTimestamp},
	{ErrTimeExpired, CodeTimeExpired},
	{ErrTimestampInFuture, CodeTimestampInFuture},
	{ErrInvalidPreKey, CodeInvalidPreKey},
	{ErrInvalidDataHash, CodeInvalidDataHash},
	{ErrInvalidKeyMaterial, CodeInvalidKeyMaterial},
	{ErrReplayDetected, CodeReplayDetected},
	{ErrVerifyRequired, CodeVerifyRequired},
}

// Code returns the stable error code for err, "" for nil and
// CodeInternal for errors outside the taxonomy.
func Code(err error) string {
	if err == nil {
		return ""
	}
	for _, c := range codes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return CodeInternal
}
