package crypto

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// NonceSize is the length of the per-envelope nonce tracked by NonceStore.
const NonceSize = 32

const (
	nonceStoreFile   = "envelope_nonces.dat"
	nonceRecordSize  = NonceSize + 8
	nonceCleanupTick = 10 * time.Minute
)

// NonceStore remembers envelope nonces for a retention window so a
// captured envelope cannot be accepted twice. Entries are persisted to disk
// on Close and reloaded on open, so protection survives restarts.
//
//	ns, err := crypto.NewNonceStore("/var/lib/lvenvelope", 6*time.Minute, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer ns.Close()
//
//	fresh, err := ns.CheckAndStore(nonce, envelopeTime)
//
// The retention window should be at least the envelope TTL plus any allowed
// clock skew; a nonce that has aged out of the store is also outside the TTL
// and rejected by the freshness check.
//
// The store is safe for concurrent use and runs a background goroutine that
// prunes expired nonces until Close is called.
type NonceStore struct {
	mu           sync.RWMutex
	nonces       map[[NonceSize]byte]int64 // nonce -> expiry unix seconds
	saveFile     string
	window       time.Duration
	stopChan     chan struct{}
	closeOnce    sync.Once
	logger       *logrus.Logger
	timeProvider TimeProvider
}

// NewNonceStore opens (or creates) a nonce store in dataDir. Nonces are
// retained for window after their envelope timestamp, so window must be at
// least the envelope TTL plus any allowed future skew. A shorter window
// forgets nonces while their envelopes still pass the freshness check. A nil
// timeProvider uses the system clock.
func NewNonceStore(dataDir string, window time.Duration, timeProvider TimeProvider) (*NonceStore, error) {
	if window <= 0 {
		return nil, fmt.Errorf("nonce retention window must be positive, got %v", window)
	}
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	if timeProvider == nil {
		timeProvider = DefaultTimeProvider{}
	}

	ns := &NonceStore{
		nonces:       make(map[[NonceSize]byte]int64),
		saveFile:     filepath.Join(dataDir, nonceStoreFile),
		window:       window,
		stopChan:     make(chan struct{}),
		logger:       logrus.StandardLogger(),
		timeProvider: timeProvider,
	}

	if err := ns.load(); err != nil {
		// A corrupted file only loses replay history; start fresh
		ns.logger.WithError(err).Warn("Could not load nonce store, starting fresh")
	}

	go ns.cleanupLoop()

	return ns, nil
}

// CheckAndStore records nonce and reports whether it was unseen. It returns
// false for a replay. timestamp is the envelope creation time; the entry
// expires window after it.
func (ns *NonceStore) CheckAndStore(nonce []byte, timestamp time.Time) (bool, error) {
	if len(nonce) != NonceSize {
		return false, fmt.Errorf("nonce must be %d bytes, got %d", NonceSize, len(nonce))
	}
	var key [NonceSize]byte
	copy(key[:], nonce)

	ns.mu.Lock()
	defer ns.mu.Unlock()

	if _, exists := ns.nonces[key]; exists {
		ns.logger.WithFields(logrus.Fields{
			"nonce":     fmt.Sprintf("%x", key[:8]),
			"timestamp": timestamp.Unix(),
		}).Warn("Replay detected: envelope nonce already used")
		return false, nil
	}

	ns.nonces[key] = timestamp.Add(ns.window).Unix()
	return true, nil
}

func (ns *NonceStore) readNonceStoreFile() ([]byte, error) {
	data, err := os.ReadFile(ns.saveFile)
	if err != nil {
		if os.IsNotExist(err) {
			ns.logger.Debug("No existing nonce store found, starting fresh")
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read nonce store: %w", err)
	}

	if len(data) < 8 {
		return nil, fmt.Errorf("corrupted nonce store: file too small")
	}

	return data, nil
}

// load reads the persisted nonces, skipping entries that already expired.
func (ns *NonceStore) load() error {
	data, err := ns.readNonceStoreFile()
	if err != nil || data == nil {
		return err
	}

	count := binary.BigEndian.Uint64(data[0:8])
	offset := 8
	now := ns.timeProvider.Now().Unix()
	loaded := 0

	for i := uint64(0); i < count && offset+nonceRecordSize <= len(data); i++ {
		var key [NonceSize]byte
		copy(key[:], data[offset:offset+NonceSize])
		expiry, err := safeUint64ToInt64(binary.BigEndian.Uint64(data[offset+NonceSize : offset+nonceRecordSize]))
		offset += nonceRecordSize
		if err != nil {
			ns.logger.WithError(err).Warn("Invalid expiry in nonce record, skipping")
			continue
		}
		if expiry > now {
			ns.nonces[key] = expiry
			loaded++
		}
	}

	ns.logger.WithFields(logrus.Fields{
		"total_in_file": count,
		"loaded":        loaded,
	}).Debug("Nonce store loaded")

	return nil
}

// save writes the store atomically. Callers must hold ns.mu.
func (ns *NonceStore) save() error {
	buf := make([]byte, 8, 8+len(ns.nonces)*nonceRecordSize)

	written := uint64(0)
	for key, expiry := range ns.nonces {
		expiryUint, err := safeInt64ToUint64(expiry)
		if err != nil {
			ns.logger.WithError(err).Warn("Invalid expiry during save, skipping nonce")
			continue
		}
		buf = append(buf, key[:]...)
		buf = binary.BigEndian.AppendUint64(buf, expiryUint)
		written++
	}
	binary.BigEndian.PutUint64(buf[0:8], written)

	tmpFile := ns.saveFile + ".tmp"
	if err := os.WriteFile(tmpFile, buf, 0o600); err != nil {
		return fmt.Errorf("failed to write temporary nonce store: %w", err)
	}
	if err := os.Rename(tmpFile, ns.saveFile); err != nil {
		return fmt.Errorf("failed to rename nonce store: %w", err)
	}
	return nil
}

func (ns *NonceStore) cleanupLoop() {
	ticker := time.NewTicker(nonceCleanupTick)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ns.cleanup()
		case <-ns.stopChan:
			return
		}
	}
}

// cleanup removes expired nonces
func (ns *NonceStore) cleanup() {
	ns.mu.Lock()
	defer ns.mu.Unlock()

	now := ns.timeProvider.Now().Unix()
	removed := 0

	for key, expiry := range ns.nonces {
		if expiry <= now {
			delete(ns.nonces, key)
			removed++
		}
	}

	if removed > 0 {
		ns.logger.WithFields(logrus.Fields{
			"removed":   removed,
			"remaining": len(ns.nonces),
		}).Debug("Cleaned up expired nonces")
	}
}

// Close stops the cleanup loop and saves the final state. Calling Close
// more than once only saves again.
func (ns *NonceStore) Close() error {
	ns.closeOnce.Do(func() { close(ns.stopChan) })

	ns.mu.Lock()
	defer ns.mu.Unlock()
	return ns.save()
}

// Size returns the current number of stored nonces
func (ns *NonceStore) Size() int {
	ns.mu.RLock()
	defer ns.mu.RUnlock()
	return len(ns.nonces)
}
