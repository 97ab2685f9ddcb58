package lbo

// ScenarioCache is optional, caller-owned persistence for sensitivity
// grid results, using a bucket-per-kind bbolt layout. It is the engine's
// only I/O surface anywhere, and it is only reachable from
// RunScenarioGrid when a caller supplies one — a single Engine.Run never
// touches it.
//
// Values are serialized with encoding/gob rather than protobuf: see
// DESIGN.md for why protobuf isn't wired here.

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

var bucketScenarioResults = []byte("scenario_results")

// ScenarioCache wraps a bbolt database file for scenario-grid memoization.
type ScenarioCache struct {
	db *bbolt.DB
}

// OpenScenarioCache opens (creating if necessary) a bbolt-backed cache at
// dbPath, initializing its bucket on first use.
func OpenScenarioCache(dbPath string) (*ScenarioCache, error) {
	db, err := bbolt.Open(dbPath, 0600, &bbolt.Options{Timeout: 10 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open scenario cache: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketScenarioResults)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize scenario cache bucket: %w", err)
	}

	return &ScenarioCache{db: db}, nil
}

// Close closes the underlying database file.
func (c *ScenarioCache) Close() error {
	return c.db.Close()
}

type cacheEntry struct {
	Values map[Metric]float64
}

func cacheKeyBytes(key [32]byte) []byte {
	return key[:]
}

// Get looks up a previously-cached metric value for a content-hashed
// assumptions key.
func (c *ScenarioCache) Get(key [32]byte, metric Metric) (float64, bool) {
	var entry cacheEntry
	found := false

	_ = c.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketScenarioResults)
		data := b.Get(cacheKeyBytes(key))
		if data == nil {
			return nil
		}
		dec := gob.NewDecoder(bytes.NewReader(data))
		if err := dec.Decode(&entry); err != nil {
			return nil
		}
		found = true
		return nil
	})

	if !found {
		return 0, false
	}
	v, ok := entry.Values[metric]
	return v, ok
}

// Put stores a metric value for a content-hashed assumptions key,
// merging with any previously-cached metrics for the same key so a grid
// that computes several metrics over the same cells doesn't thrash
// entries.
func (c *ScenarioCache) Put(key [32]byte, metric Metric, value float64) error {
	return c.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketScenarioResults)

		entry := cacheEntry{Values: make(map[Metric]float64)}
		if data := b.Get(cacheKeyBytes(key)); data != nil {
			dec := gob.NewDecoder(bytes.NewReader(data))
			_ = dec.Decode(&entry)
			if entry.Values == nil {
				entry.Values = make(map[Metric]float64)
			}
		}
		entry.Values[metric] = value

		var buf bytes.Buffer
		if err := gob.NewEncoder(&buf).Encode(entry); err != nil {
			return fmt.Errorf("failed to encode scenario cache entry: %w", err)
		}
		return b.Put(cacheKeyBytes(key), buf.Bytes())
	})
}
