// Package checkpoint persists the set of already-ingested article ids so
// interrupted ingest runs can resume without re-upserting finished rows.
// The underlying store is a local Badger database; upserts are idempotent
// anyway, so losing the checkpoint is safe, just slower.
package checkpoint

import (
	"errors"
	"fmt"

	badger "github.com/dgraph-io/badger/v4"
)

// Store records which article ids completed ingestion.
type Store struct {
	db *badger.DB
}

// Open creates or reopens the checkpoint database at path.
func Open(path string) (*Store, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open checkpoint store at %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

// Seen reports whether the article id was previously marked as processed.
func (s *Store) Seen(articleID string) (bool, error) {
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(articleID))
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checkpoint lookup failed for %s: %w", articleID, err)
	}
	return true, nil
}

// Mark records the article id as fully processed.
func (s *Store) Mark(articleID string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(articleID), []byte{1})
	})
	if err != nil {
		return fmt.Errorf("checkpoint write failed for %s: %w", articleID, err)
	}
	return nil
}

// Close flushes and closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
