package kv

import "testing"

func TestMemDBPutGetDelete(t *testing.T) {
	db := NewMemDB()

	if _, err := db.Get([]byte("k")); err != ErrNotFound {
		t.Fatalf("get missing key = %v, want ErrNotFound", err)
	}

	if err := db.Put([]byte("k"), []byte("v")); err != nil {
		t.Fatal(err)
	}
	v, err := db.Get([]byte("k"))
	if err != nil || string(v) != "v" {
		t.Fatalf("get = %q, %v", v, err)
	}
	if ok, _ := db.Has([]byte("k")); !ok {
		t.Fatalf("has = false, want true")
	}

	if err := db.Delete([]byte("k")); err != nil {
		t.Fatal(err)
	}
	if ok, _ := db.Has([]byte("k")); ok {
		t.Fatalf("has after delete = true, want false")
	}
}

func TestMemDBBatch(t *testing.T) {
	db := NewMemDB()
	batch := db.NewBatch()
	batch.Put([]byte("a"), []byte("1"))
	batch.Put([]byte("b"), []byte("2"))
	batch.Delete([]byte("c"))

	if batch.ValueSize() == 0 {
		t.Fatalf("ValueSize = 0 after queuing writes")
	}
	if err := batch.Write(); err != nil {
		t.Fatal(err)
	}

	if v, _ := db.Get([]byte("a")); string(v) != "1" {
		t.Fatalf("a = %q", v)
	}
	if v, _ := db.Get([]byte("b")); string(v) != "2" {
		t.Fatalf("b = %q", v)
	}

	batch.Reset()
	if batch.ValueSize() != 0 {
		t.Fatalf("ValueSize after Reset = %d, want 0", batch.ValueSize())
	}
}

func TestMemDBIteratorPrefixAndOrder(t *testing.T) {
	db := NewMemDB()
	db.Put([]byte("app:1"), []byte("x"))
	db.Put([]byte("app:3"), []byte("y"))
	db.Put([]byte("app:2"), []byte("z"))
	db.Put([]byte("other:1"), []byte("w"))

	it := db.NewIterator([]byte("app:"))
	defer it.Release()

	var keys []string
	for it.Next() {
		keys = append(keys, string(it.Key()))
	}
	if err := it.Error(); err != nil {
		t.Fatal(err)
	}
	want := []string{"app:1", "app:2", "app:3"}
	if len(keys) != len(want) {
		t.Fatalf("keys = %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("keys[%d] = %q, want %q", i, keys[i], want[i])
		}
	}
}

func TestSchemaKeysAreNamespaced(t *testing.T) {
	node := NodeKey([]byte("abc"))
	header := HeaderKey([]byte("abc"))
	if string(node) == string(header) {
		t.Fatalf("NodeKey and HeaderKey collide for the same suffix")
	}
}
