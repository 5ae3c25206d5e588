package storage

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/dmitrijs2005/gophtodo/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/gophtodo/internal/logging"
)

// Entry is a single key/value write.
type Entry struct {
	Key   string
	Value []byte
}

// JSONEntry marshals v into an Entry.
func JSONEntry(key string, v any) (Entry, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return Entry{}, err
	}
	return Entry{Key: key, Value: b}, nil
}

// Store is the origin-scoped key/value store used by the credential store
// and the local task collection. Failures are logged and swallowed: reads
// report "absent", writes are dropped.
type Store struct {
	db    *sql.DB
	scope string
	log   logging.Logger
}

// NewStore binds db to scope. A nil db yields an unavailable store.
func NewStore(db *sql.DB, scope string, log logging.Logger) *Store {
	return &Store{db: db, scope: scope, log: log.With("component", "storage")}
}

// Unavailable returns a store that persists nothing.
func Unavailable(log logging.Logger) *Store {
	return NewStore(nil, "", log)
}

// Available reports whether a database backs the store.
func (s *Store) Available() bool {
	return s != nil && s.db != nil
}

func (s *Store) repo(db metadata.DBTX) metadata.Repository {
	return metadata.NewSQLiteRepository(db, s.scope)
}

// Get returns the raw value of key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool) {
	if !s.Available() {
		return nil, false
	}
	v, err := s.repo(s.db).Get(ctx, key)
	if err != nil {
		s.log.Warn(ctx, "storage read failed", "key", key, "error", err)
		return nil, false
	}
	return v, v != nil
}

// GetString returns the value of key as a string.
func (s *Store) GetString(ctx context.Context, key string) (string, bool) {
	v, ok := s.Get(ctx, key)
	if !ok || len(v) == 0 {
		return "", false
	}
	return string(v), true
}

// GetJSON decodes the value of key into dst. A value that fails to decode
// is discarded and reported as absent.
func (s *Store) GetJSON(ctx context.Context, key string, dst any) bool {
	v, ok := s.Get(ctx, key)
	if !ok {
		return false
	}
	if err := json.Unmarshal(v, dst); err != nil {
		s.log.Warn(ctx, "discarding malformed stored value", "key", key, "error", err)
		s.Delete(ctx, key)
		return false
	}
	return true
}

// Put writes all entries in one transaction.
func (s *Store) Put(ctx context.Context, entries ...Entry) {
	if !s.Available() || len(entries) == 0 {
		return
	}
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		r := s.repo(tx)
		for _, e := range entries {
			if err := r.Set(ctx, e.Key, e.Value); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.log.Warn(ctx, "storage write failed", "error", err)
	}
}

// PutString writes a string value.
func (s *Store) PutString(ctx context.Context, key, value string) {
	s.Put(ctx, Entry{Key: key, Value: []byte(value)})
}

// PutJSON writes v encoded as JSON.
func (s *Store) PutJSON(ctx context.Context, key string, v any) {
	e, err := JSONEntry(key, v)
	if err != nil {
		s.log.Warn(ctx, "storage encode failed", "key", key, "error", err)
		return
	}
	s.Put(ctx, e)
}

// Delete removes keys in one transaction. Missing keys are ignored.
func (s *Store) Delete(ctx context.Context, keys ...string) {
	if !s.Available() || len(keys) == 0 {
		return
	}
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		r := s.repo(tx)
		for _, k := range keys {
			if err := r.Delete(ctx, k); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.log.Warn(ctx, "storage delete failed", "error", err)
	}
}
