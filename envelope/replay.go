package envelope

import "time"

// ReplayGuard remembers envelope nonces. CheckAndStore returns false when
// nonce has been seen before. Implementations must be safe for concurrent
// use; crypto.NonceStore and replay.RedisGuard both satisfy it.
type ReplayGuard interface {
	CheckAndStore(nonce []byte, timestamp time.Time) (bool, error)
}
