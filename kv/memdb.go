package kv

import (
	"bytes"
	"sort"
	"sync"
)

// MemDB is a sorted in-memory Database for data that never needs to
// survive a restart; the tests use it as their backend.
type MemDB struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemDB returns an empty in-memory database.
func NewMemDB() *MemDB {
	return &MemDB{data: make(map[string][]byte)}
}

func (m *MemDB) Get(key []byte) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[string(key)]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *MemDB) Has(key []byte) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.data[string(key)]
	return ok, nil
}

func (m *MemDB) Put(key, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[string(key)] = append([]byte(nil), value...)
	return nil
}

func (m *MemDB) Delete(key []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, string(key))
	return nil
}

func (m *MemDB) Close() error { return nil }

func (m *MemDB) NewBatch() Batch {
	return &memBatch{db: m}
}

func (m *MemDB) NewIterator(prefix []byte) Iterator {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		if bytes.HasPrefix([]byte(k), prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	entries := make([][2][]byte, len(keys))
	for i, k := range keys {
		entries[i] = [2][]byte{[]byte(k), append([]byte(nil), m.data[k]...)}
	}
	return &memIterator{entries: entries, pos: -1}
}

type memOp struct {
	key    []byte
	value  []byte
	delete bool
}

type memBatch struct {
	db   *MemDB
	ops  []memOp
	size int
}

func (b *memBatch) Put(key, value []byte) error {
	b.ops = append(b.ops, memOp{key: append([]byte(nil), key...), value: append([]byte(nil), value...)})
	b.size += len(key) + len(value)
	return nil
}

func (b *memBatch) Delete(key []byte) error {
	b.ops = append(b.ops, memOp{key: append([]byte(nil), key...), delete: true})
	b.size += len(key)
	return nil
}

func (b *memBatch) ValueSize() int { return b.size }

func (b *memBatch) Write() error {
	b.db.mu.Lock()
	defer b.db.mu.Unlock()
	for _, op := range b.ops {
		if op.delete {
			delete(b.db.data, string(op.key))
			continue
		}
		b.db.data[string(op.key)] = op.value
	}
	return nil
}

func (b *memBatch) Reset() {
	b.ops = b.ops[:0]
	b.size = 0
}

type memIterator struct {
	entries [][2][]byte
	pos     int
}

func (it *memIterator) Next() bool {
	it.pos++
	return it.pos < len(it.entries)
}

func (it *memIterator) Key() []byte {
	if it.pos < 0 || it.pos >= len(it.entries) {
		return nil
	}
	return it.entries[it.pos][0]
}

func (it *memIterator) Value() []byte {
	if it.pos < 0 || it.pos >= len(it.entries) {
		return nil
	}
	return it.entries[it.pos][1]
}

func (it *memIterator) Error() error { return nil }
func (it *memIterator) Release()     {}
