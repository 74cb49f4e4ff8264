package storage

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	bolt "go.etcd.io/bbolt"
)

const (
	historyBucket    = "history"
	expiryValueBytes = 8
	keySeparator     = 0x00
)

// boltStore implements a Store backed by BoltDB. Keys are region, a zero
// byte and the big-endian fetch time, so a region's entries sort by age.
// Values are an 8-byte expiry followed by the JSON entry.
type boltStore struct {
	db              *bolt.DB
	cleanupMu       sync.Mutex
	lastCleanup     atomic.Int64
	entryTTL        time.Duration
	cleanupInterval time.Duration
}

// openBolt initializes a BoltDB-backed Store.
func openBolt(path string, opts Options) (Store, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bbolt db: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(historyBucket))
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("init bucket: %w", err)
	}

	store := &boltStore{
		db:              db,
		entryTTL:        opts.EntryTTL,
		cleanupInterval: opts.CleanupInterval,
	}
	store.lastCleanup.Store(time.Now().Unix())
	return store, nil
}

// Close closes the BoltDB store.
func (b *boltStore) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

// Append stores e under its region and fetch time.
func (b *boltStore) Append(e Entry) error {
	if b == nil || b.db == nil {
		return nil
	}
	if strings.TrimSpace(e.Region) == "" {
		return errors.New("history entry requires a region")
	}
	if e.FetchedAt.IsZero() {
		e.FetchedAt = time.Now().UTC()
	}

	now := time.Now()
	if err := b.maybeCleanupExpired(now); err != nil {
		return err
	}

	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode history entry: %w", err)
	}
	value := make([]byte, expiryValueBytes, expiryValueBytes+len(payload))
	binary.BigEndian.PutUint64(value, uint64(now.Add(b.entryTTL).Unix()))
	value = append(value, payload...)

	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(historyBucket))
		if bucket == nil {
			return fmt.Errorf("history bucket missing")
		}
		seq, err := bucket.NextSequence()
		if err != nil {
			return fmt.Errorf("history sequence: %w", err)
		}
		return bucket.Put(entryKey(e.Region, e.FetchedAt, seq), value)
	})
}

// History returns up to limit unexpired entries for region, newest first.
// Expired entries met on the way are deleted.
func (b *boltStore) History(region string, limit int) ([]Entry, error) {
	if b == nil || b.db == nil {
		return nil, nil
	}
	if limit <= 0 {
		return nil, nil
	}

	now := time.Now()
	if err := b.maybeCleanupExpired(now); err != nil {
		return nil, err
	}

	prefix := regionPrefix(region)
	var out []Entry
	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(historyBucket))
		if bucket == nil {
			return fmt.Errorf("history bucket missing")
		}

		cursor := bucket.Cursor()
		k, v := cursor.Seek(upperBound(prefix))
		if k == nil {
			k, v = cursor.Last()
		} else {
			k, v = cursor.Prev()
		}
		for ; k != nil && bytes.HasPrefix(k, prefix) && len(out) < limit; k, v = cursor.Prev() {
			expiry, ok := decodeExpiry(v)
			if !ok || !expiry.After(now) {
				if err := cursor.Delete(); err != nil {
					return err
				}
				continue
			}
			var e Entry
			if err := json.Unmarshal(v[expiryValueBytes:], &e); err != nil {
				return fmt.Errorf("decode history entry: %w", err)
			}
			out = append(out, e)
		}
		return nil
	})
	return out, err
}

// maybeCleanupExpired removes expired entries on a fixed cadence to avoid unbounded growth.
func (b *boltStore) maybeCleanupExpired(now time.Time) error {
	if b == nil || b.db == nil {
		return nil
	}

	last := time.Unix(b.lastCleanup.Load(), 0)
	if now.Sub(last) < b.cleanupInterval {
		return nil
	}

	b.cleanupMu.Lock()
	defer b.cleanupMu.Unlock()

	last = time.Unix(b.lastCleanup.Load(), 0)
	if now.Sub(last) < b.cleanupInterval {
		return nil
	}

	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(historyBucket))
		if bucket == nil {
			return fmt.Errorf("history bucket missing")
		}

		cursor := bucket.Cursor()
		for k, v := cursor.First(); k != nil; k, v = cursor.Next() {
			expiry, ok := decodeExpiry(v)
			if !ok || !expiry.After(now) {
				if err := cursor.Delete(); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err == nil {
		b.lastCleanup.Store(now.Unix())
	}
	return err
}

func regionPrefix(region string) []byte {
	return append([]byte(region), keySeparator)
}

// upperBound is the smallest key sorting after every key carrying prefix.
func upperBound(prefix []byte) []byte {
	out := append([]byte(nil), prefix...)
	out[len(out)-1]++
	return out
}

// entryKey orders entries by fetch time; seq keeps entries sharing a
// timestamp apart.
func entryKey(region string, at time.Time, seq uint64) []byte {
	key := regionPrefix(region)
	var suffix [16]byte
	binary.BigEndian.PutUint64(suffix[:8], uint64(at.UnixNano()))
	binary.BigEndian.PutUint64(suffix[8:], seq)
	return append(key, suffix[:]...)
}

// decodeExpiry decodes the expiry time from the head of a stored value.
func decodeExpiry(value []byte) (time.Time, bool) {
	if len(value) < expiryValueBytes {
		return time.Time{}, false
	}
	unix := int64(binary.BigEndian.Uint64(value[:expiryValueBytes]))
	if unix <= 0 {
		return time.Time{}, false
	}
	return time.Unix(unix, 0), true
}
