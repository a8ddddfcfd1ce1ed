package kv

import (
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/errors"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// LevelDB is a secondary on-disk Database backend, offered alongside
// PebbleDB so components that need a second, independently-tunable store
// (e.g. an archival index kept on slower media) can open one without
// inventing a new dependency.
type LevelDB struct {
	db *leveldb.DB
}

// OpenLevelDB opens (creating if absent) a LevelDB at dir.
func OpenLevelDB(dir string) (*LevelDB, error) {
	db, err := leveldb.OpenFile(dir, nil)
	if err != nil {
		return nil, err
	}
	return &LevelDB{db: db}, nil
}

func (l *LevelDB) Get(key []byte) ([]byte, error) {
	v, err := l.db.Get(key, nil)
	if err != nil {
		if err == errors.ErrNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return v, nil
}

func (l *LevelDB) Has(key []byte) (bool, error) {
	return l.db.Has(key, nil)
}

func (l *LevelDB) Put(key, value []byte) error {
	return l.db.Put(key, value, nil)
}

func (l *LevelDB) Delete(key []byte) error {
	return l.db.Delete(key, nil)
}

func (l *LevelDB) Close() error {
	return l.db.Close()
}

func (l *LevelDB) NewBatch() Batch {
	return &levelBatch{db: l.db, batch: new(leveldb.Batch)}
}

func (l *LevelDB) NewIterator(prefix []byte) Iterator {
	return &levelIterator{iter: l.db.NewIterator(util.BytesPrefix(prefix), nil)}
}

type levelBatch struct {
	db    *leveldb.DB
	batch *leveldb.Batch
}

func (b *levelBatch) Put(key, value []byte) error {
	b.batch.Put(key, value)
	return nil
}

func (b *levelBatch) Delete(key []byte) error {
	b.batch.Delete(key)
	return nil
}

func (b *levelBatch) ValueSize() int {
	return len(b.batch.Dump())
}

func (b *levelBatch) Write() error {
	return b.db.Write(b.batch, nil)
}

func (b *levelBatch) Reset() {
	b.batch.Reset()
}

type levelIterator struct {
	iter iterator
}

// iterator narrows goleveldb's Iterator to the subset this package needs.
type iterator interface {
	Next() bool
	Key() []byte
	Value() []byte
	Error() error
	Release()
}

func (it *levelIterator) Next() bool    { return it.iter.Next() }
func (it *levelIterator) Key() []byte   { return it.iter.Key() }
func (it *levelIterator) Value() []byte { return it.iter.Value() }
func (it *levelIterator) Error() error  { return it.iter.Error() }
func (it *levelIterator) Release()      { it.iter.Release() }
