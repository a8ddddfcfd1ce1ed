package chainstore

import (
	"fmt"
	"sync"

	"github.com/holiman/billy"
	"github.com/odana/odana-core/primitives"
)

// SubRootRecord is one entry in the append-only sub-root log: a snapshot of
// an application account's AppRoot at the point a block committed it.
type SubRootRecord struct {
	App     primitives.Address
	SubRoot primitives.Hash
	Level   uint32
}

// SubRootLog is the durable, append-only history of every application
// sub-root ever committed, grounded on go-ethereum's blobpool use of
// holiman/billy as a shelf-indexed append-only blob store (Put returns a
// stable id; nothing is ever rewritten in place). It backs the domain
// model's requirement that a historical sub-root remain retrievable by a
// query against an old block until an external pruner reclaims it: pruning
// is Delete-by-id, left to an operator-driven sweep outside this package.
type SubRootLog struct {
	mu    sync.RWMutex
	store billy.Database
	byKey map[subRootKey]uint64
}

type subRootKey struct {
	app     primitives.Address
	subRoot primitives.Hash
}

// fixedSlotter always places records in a single size class, since
// SubRootRecord's RLP encoding is small and constant-ish in size; it is
// the simplest Shelf implementation billy accepts, grounded on the
// teacher pack's blobpool test fixtures constructing billy.Open with a
// slotter function tailored to their payload shape.
func fixedSlotter(size uint32) func() (uint32, bool) {
	done := false
	return func() (uint32, bool) {
		if done {
			return 0, false
		}
		done = true
		return size, true
	}
}

// OpenSubRootLog opens (creating if absent) the append-only sub-root log
// rooted at dir.
func OpenSubRootLog(dir string) (*SubRootLog, error) {
	l := &SubRootLog{byKey: make(map[subRootKey]uint64)}

	onRead := func(id uint64, data []byte) {
		var rec SubRootRecord
		if err := primitives.Decode(data, &rec); err != nil {
			return
		}
		l.byKey[subRootKey{rec.App, rec.SubRoot}] = id
	}

	store, err := billy.Open(billy.Options{Path: dir}, fixedSlotter(256), onRead)
	if err != nil {
		return nil, fmt.Errorf("chainstore: opening sub-root log: %w", err)
	}
	l.store = store
	return l, nil
}

// Append records that app committed subRoot at level. Appending a
// (app, subRoot) pair already present is a no-op: content-addressing means
// the same sub-root can recur (e.g. an application that never mutates
// state across two blocks) without needing a second entry.
func (l *SubRootLog) Append(rec SubRootRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	key := subRootKey{rec.App, rec.SubRoot}
	if _, ok := l.byKey[key]; ok {
		return nil
	}
	raw, err := primitives.Encode(rec)
	if err != nil {
		return fmt.Errorf("chainstore: encoding sub-root record: %w", err)
	}
	id, err := l.store.Put(raw)
	if err != nil {
		return fmt.Errorf("chainstore: appending sub-root record: %w", err)
	}
	l.byKey[key] = id
	return nil
}

// Has reports whether subRoot is currently recorded for app, i.e. whether
// it was recorded and is still retrievable rather than already pruned.
func (l *SubRootLog) Has(app primitives.Address, subRoot primitives.Hash) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.byKey[subRootKey{app, subRoot}]
	return ok
}

// Prune removes the record for (app, subRoot) from the log, the external
// pruner's entry point; it does not touch the SMT nodes a sub-root points
// to, which are reclaimed separately.
func (l *SubRootLog) Prune(app primitives.Address, subRoot primitives.Hash) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	key := subRootKey{app, subRoot}
	id, ok := l.byKey[key]
	if !ok {
		return nil
	}
	if err := l.store.Delete(id); err != nil {
		return fmt.Errorf("chainstore: pruning sub-root record: %w", err)
	}
	delete(l.byKey, key)
	return nil
}

// Close releases the underlying store's file handles.
func (l *SubRootLog) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.store.Close()
}
