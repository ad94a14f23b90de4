// Package recent persists the list of recently opened projects.
package recent

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// DefaultLimit is the number of entries kept when no limit is configured.
const DefaultLimit = 10

// Key prefixes for the BadgerDB key scheme.
const (
	prefixEntry = "recent:"
	keySeq      = "meta:seq"
)

// Entry is one recently opened project.
type Entry struct {
	// Path is absolute, with forward slashes.
	Path     string    `json:"path" yaml:"path"`
	OpenedAt time.Time `json:"opened_at" yaml:"opened_at"`
	// Seq orders entries; higher is more recent.
	Seq uint64 `json:"seq" yaml:"-"`
}

// Store keeps recent projects in BadgerDB, most recent first, deduplicated
// by path and capped at a fixed size.
type Store struct {
	db    *badger.DB
	limit int
	now   func() time.Time
}

// Open opens (or creates) a store at dbPath keeping at most limit entries.
func Open(dbPath string, limit int) (*Store, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if err := os.MkdirAll(dbPath, 0o755); err != nil {
		return nil, fmt.Errorf("create recent dir: %w", err)
	}
	opts := badger.DefaultOptions(dbPath)
	opts.Logger = nil // suppress badger logs
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db: %w", err)
	}
	return &Store{db: db, limit: limit, now: time.Now}, nil
}

// OpenInMemory opens a store that is never written to disk.
func OpenInMemory(limit int) (*Store, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db: %w", err)
	}
	return &Store{db: db, limit: limit, now: time.Now}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Normalize returns the stored form of a project path.
func Normalize(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return strings.ReplaceAll(filepath.ToSlash(filepath.Clean(path)), `\`, "/")
}

func entryKey(path string) []byte { return []byte(prefixEntry + path) }

// Add records path as the most recently opened project. An existing entry
// for the same path moves to the front; entries past the limit are dropped.
func (s *Store) Add(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path = Normalize(path)

	return s.db.Update(func(txn *badger.Txn) error {
		seq, err := nextSeq(txn)
		if err != nil {
			return err
		}
		data, err := json.Marshal(Entry{Path: path, OpenedAt: s.now().UTC(), Seq: seq})
		if err != nil {
			return fmt.Errorf("marshal entry: %w", err)
		}
		if err := txn.Set(entryKey(path), data); err != nil {
			return fmt.Errorf("set entry: %w", err)
		}

		entries, err := scanEntries(txn)
		if err != nil {
			return err
		}
		for _, e := range entries[min(len(entries), s.limit):] {
			if err := txn.Delete(entryKey(e.Path)); err != nil {
				return fmt.Errorf("prune entry: %w", err)
			}
		}
		return nil
	})
}

// All returns every stored entry, most recent first.
func (s *Store) All(ctx context.Context) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var entries []Entry
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		entries, err = scanEntries(txn)
		return err
	})
	if err != nil {
		return nil, err
	}
	return entries[:min(len(entries), s.limit)], nil
}

// List returns the entries whose directory still exists, most recent first.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	entries, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	valid := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if info, err := os.Stat(filepath.FromSlash(e.Path)); err == nil && info.IsDir() {
			valid = append(valid, e)
		}
	}
	return valid, nil
}

// Remove deletes the entry for path, if any.
func (s *Store) Remove(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(entryKey(Normalize(path)))
	})
}

// Clear deletes every entry.
func (s *Store) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.DropPrefix([]byte(prefixEntry))
}

func nextSeq(txn *badger.Txn) (uint64, error) {
	var seq uint64
	item, err := txn.Get([]byte(keySeq))
	switch {
	case errors.Is(err, badger.ErrKeyNotFound):
	case err != nil:
		return 0, fmt.Errorf("read sequence: %w", err)
	default:
		err = item.Value(func(val []byte) error {
			if len(val) != 8 {
				return fmt.Errorf("corrupt sequence value")
			}
			seq = binary.BigEndian.Uint64(val)
			return nil
		})
		if err != nil {
			return 0, err
		}
	}
	seq++
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, seq)
	if err := txn.Set([]byte(keySeq), buf); err != nil {
		return 0, fmt.Errorf("write sequence: %w", err)
	}
	return seq, nil
}

// scanEntries returns all entries visible to txn, most recent first.
func scanEntries(txn *badger.Txn) ([]Entry, error) {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = true
	opts.Prefix = []byte(prefixEntry)
	it := txn.NewIterator(opts)
	defer it.Close()

	var entries []Entry
	for it.Seek(opts.Prefix); it.Valid(); it.Next() {
		var e Entry
		err := it.Item().Value(func(val []byte) error {
			return json.Unmarshal(val, &e)
		})
		if err != nil {
			return nil, fmt.Errorf("decode entry %s: %w", it.Item().Key(), err)
		}
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Seq > entries[j].Seq })
	return entries, nil
}
