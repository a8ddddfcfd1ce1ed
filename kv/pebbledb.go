package kv

import (
	"github.com/cockroachdb/pebble"
)

// PebbleDB is the production on-disk Database backend, used for the node's
// primary store (state tree nodes, chain index). Pebble is an
// embeddable, RocksDB-inspired LSM store.
type PebbleDB struct {
	db *pebble.DB
}

// OpenPebble opens (creating if absent) a PebbleDB at dir.
func OpenPebble(dir string) (*PebbleDB, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, err
	}
	return &PebbleDB{db: db}, nil
}

func (p *PebbleDB) Get(key []byte) ([]byte, error) {
	v, closer, err := p.db.Get(key)
	if err != nil {
		if err == pebble.ErrNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	out := append([]byte(nil), v...)
	closer.Close()
	return out, nil
}

func (p *PebbleDB) Has(key []byte) (bool, error) {
	_, closer, err := p.db.Get(key)
	if err != nil {
		if err == pebble.ErrNotFound {
			return false, nil
		}
		return false, err
	}
	closer.Close()
	return true, nil
}

func (p *PebbleDB) Put(key, value []byte) error {
	return p.db.Set(key, value, pebble.NoSync)
}

func (p *PebbleDB) Delete(key []byte) error {
	return p.db.Delete(key, pebble.NoSync)
}

func (p *PebbleDB) Close() error {
	return p.db.Close()
}

func (p *PebbleDB) NewBatch() Batch {
	return &pebbleBatch{batch: p.db.NewBatch()}
}

func (p *PebbleDB) NewIterator(prefix []byte) Iterator {
	upper := upperBound(prefix)
	iter, err := p.db.NewIter(&pebble.IterOptions{LowerBound: prefix, UpperBound: upper})
	if err != nil {
		return &errIterator{err: err}
	}
	return &pebbleIterator{iter: iter, started: false}
}

// upperBound returns the smallest key lexicographically greater than every
// key sharing prefix, or nil if prefix is all 0xff (an unbounded scan).
func upperBound(prefix []byte) []byte {
	if len(prefix) == 0 {
		return nil
	}
	end := append([]byte(nil), prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}

type pebbleBatch struct {
	batch *pebble.Batch
}

func (b *pebbleBatch) Put(key, value []byte) error {
	return b.batch.Set(key, value, nil)
}

func (b *pebbleBatch) Delete(key []byte) error {
	return b.batch.Delete(key, nil)
}

func (b *pebbleBatch) ValueSize() int {
	return int(b.batch.Len())
}

func (b *pebbleBatch) Write() error {
	return b.batch.Commit(pebble.NoSync)
}

func (b *pebbleBatch) Reset() {
	b.batch.Reset()
}

type pebbleIterator struct {
	iter    *pebble.Iterator
	started bool
}

func (it *pebbleIterator) Next() bool {
	if !it.started {
		it.started = true
		return it.iter.First()
	}
	return it.iter.Next()
}

func (it *pebbleIterator) Key() []byte   { return it.iter.Key() }
func (it *pebbleIterator) Value() []byte { return it.iter.Value() }
func (it *pebbleIterator) Error() error  { return it.iter.Error() }
func (it *pebbleIterator) Release()      { it.iter.Close() }

// errIterator surfaces a construction-time error through the Iterator
// interface rather than panicking or returning a nil Iterator.
type errIterator struct{ err error }

func (it *errIterator) Next() bool     { return false }
func (it *errIterator) Key() []byte    { return nil }
func (it *errIterator) Value() []byte  { return nil }
func (it *errIterator) Error() error   { return it.err }
func (it *errIterator) Release()       {}
