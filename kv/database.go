// Package kv defines the key-value storage abstraction every persistent
// component of the node is built on: the state tree's node store (which
// also holds every application sub-tree, the namespace registry's included)
// and the chain store's header/block/transaction indices. Tables are named by column-family-style constants and
// backed by either cockroachdb/pebble or syndtr/goleveldb, so callers can
// pick either without touching call sites above this package.
package kv

import "errors"

// ErrNotFound is returned by Get when the key does not exist.
var ErrNotFound = errors.New("kv: not found")

// Database is a single logical key-value store. Implementations need not be
// safe for concurrent writers sharing a Batch, but independent calls to the
// methods below must be.
type Database interface {
	Reader
	Writer

	NewBatch() Batch
	NewIterator(prefix []byte) Iterator

	Close() error
}

// Reader is the read-only subset of Database, used where a component should
// not be able to mutate state (e.g. a query-mode VM host).
type Reader interface {
	Get(key []byte) ([]byte, error)
	Has(key []byte) (bool, error)
}

// Writer is the write-only subset of Database.
type Writer interface {
	Put(key, value []byte) error
	Delete(key []byte) error
}

// Batch accumulates writes for atomic application, amortizing the fsync
// cost of committing many small writes one at a time.
type Batch interface {
	Writer

	// ValueSize returns the accumulated byte size of all queued values,
	// letting callers flush before a batch grows unbounded.
	ValueSize() int
	Write() error
	Reset()
}

// Iterator walks a key range in ascending byte order. Next must be called
// once before the first Key/Value access, mirroring database/sql.Rows.
type Iterator interface {
	Next() bool
	Key() []byte
	Value() []byte
	Error() error
	Release()
}

// schema keys are namespaced by a single-byte table prefix so every
// component's keyspace lives in one physical database without collision.
// Table prefixes are assigned in schema.go.
func prefixed(table byte, key []byte) []byte {
	buf := make([]byte, 1+len(key))
	buf[0] = table
	copy(buf[1:], key)
	return buf
}
