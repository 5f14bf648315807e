// Package cache keeps compiled targets on disk and decides when they must
// be rebuilt.
//
// Two roles share the same freshness rules:
//
//  1. Cacher keeps compiled output in a temporary directory so nested
//     targets and repeated builds can skip compilation.
//  2. Writer writes final assets into each extension's cache path and,
//     when enabled, versions their file names with a build timestamp
//     recorded in a BoltDB store.
//
// An output is fresh only when the config, every source and every file
// discovered by a filter's dependency scan is strictly older than it.
package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
)

const (
	// StoreFile is the name of the timestamp database inside the timestamp path
	StoreFile = "apc_build_time.db"

	// bucketName is the BoltDB bucket name for timestamp entries
	bucketName = "timestamps"
)

// Store persists build timestamps keyed by cache name using BoltDB
type Store struct {
	db   *bbolt.DB
	path string
}

// OpenStore opens (creating if needed) the timestamp store in dir
func OpenStore(dir string) (*Store, error) {
	if dir == "" {
		dir = os.TempDir()
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create timestamp directory: %w", err)
	}

	dbPath := filepath.Join(dir, StoreFile)
	db, err := bbolt.Open(dbPath, 0o600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open timestamp database: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create timestamp bucket: %w", err)
	}

	return &Store{db: db, path: dbPath}, nil
}

// Path returns the database file path
func (s *Store) Path() string {
	return s.path
}

// Close closes the timestamp database
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}

	return nil
}

// Load returns every recorded timestamp
func (s *Store) Load() (map[string]int64, error) {
	data := make(map[string]int64)

	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))

		return b.ForEach(func(k, v []byte) error {
			var entry Entry
			if err := json.Unmarshal(v, &entry); err != nil {
				return fmt.Errorf("invalid timestamp entry %q: %w", k, err)
			}

			data[string(k)] = entry.Timestamp
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return data, nil
}

// Save replaces the whole record with data
func (s *Store) Save(data map[string]int64) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket([]byte(bucketName)); err != nil {
			return err
		}

		b, err := tx.CreateBucket([]byte(bucketName))
		if err != nil {
			return err
		}

		for name, ts := range data {
			value, err := json.Marshal(Entry{Timestamp: ts})
			if err != nil {
				return err
			}

			if err := b.Put([]byte(name), value); err != nil {
				return err
			}
		}

		return nil
	})
}

// Clear removes all recorded timestamps
func (s *Store) Clear() error {
	return s.Save(nil)
}
