// Package seen keeps the durable set of events already handled, so a
// recap is never posted twice across restarts.
package seen

import (
	"context"
	"errors"
	"fmt"
)

// ErrStorage is the sentinel every store failure wraps.
var ErrStorage = errors.New("seen store")

// StorageError describes a failed load or persist.
type StorageError struct {
	Op   string // "load" or "persist"
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("seen store %s %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("seen store %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() []error { return []error{ErrStorage, e.Err} }

// Entry is one handled event.
type Entry struct {
	Name string `json:"name" yaml:"name"`
	Date string `json:"date" yaml:"date"`
	ID   string `json:"id" yaml:"id"`
}

// Record is the in-memory seen set. Entries keep insertion order.
// A Record is not safe for concurrent use.
type Record struct {
	entries []Entry
	index   map[string]struct{}
}

// NewRecord returns an empty record.
func NewRecord() *Record {
	return &Record{index: make(map[string]struct{})}
}

// Contains reports whether id has been recorded.
func (r *Record) Contains(id string) bool {
	_, ok := r.index[id]
	return ok
}

// Append adds e and reports whether it was new. Appending an id that is
// already present is a no-op.
func (r *Record) Append(e Entry) bool {
	if r.Contains(e.ID) {
		return false
	}
	r.entries = append(r.entries, e)
	r.index[e.ID] = struct{}{}
	return true
}

// Entries returns a copy of the entries in insertion order.
func (r *Record) Entries() []Entry {
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Len returns the number of entries.
func (r *Record) Len() int { return len(r.entries) }

// fromEntries builds a record, rejecting duplicate or empty ids.
func fromEntries(entries []Entry) (*Record, error) {
	r := NewRecord()
	for i, e := range entries {
		if e.ID == "" {
			return nil, fmt.Errorf("entry %d: empty id", i)
		}
		if !r.Append(e) {
			return nil, fmt.Errorf("entry %d: duplicate id %q", i, e.ID)
		}
	}
	return r, nil
}

// Store loads and persists a Record.
type Store interface {
	// Load returns the stored record, or an empty one if nothing exists yet.
	Load(ctx context.Context) (*Record, error)
	// Persist writes the whole record.
	Persist(ctx context.Context, r *Record) error
	// Ping reports whether the backing storage is reachable.
	Ping(ctx context.Context) error
	Close() error
}
