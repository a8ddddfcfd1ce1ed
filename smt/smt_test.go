package smt

import (
	"testing"

	"github.com/odana/odana-core/primitives"
)

// memStore is a trivial in-memory Store for tests.
type memStore struct {
	nodes map[primitives.Hash][]byte
}

func newMemStore() *memStore {
	return &memStore{nodes: make(map[primitives.Hash][]byte)}
}

func (m *memStore) GetNode(hash primitives.Hash) ([]byte, bool, error) {
	raw, ok := m.nodes[hash]
	return raw, ok, nil
}

func (m *memStore) PutNode(hash primitives.Hash, raw []byte) error {
	m.nodes[hash] = append([]byte(nil), raw...)
	return nil
}

func TestEmptyTreeRoot(t *testing.T) {
	tr := New(newMemStore())
	if tr.Root() != EmptyRoot {
		t.Fatalf("empty tree root = %s, want %s", tr.Root(), EmptyRoot)
	}
}

func TestUpdateGetRoundTrip(t *testing.T) {
	tr := New(newMemStore())
	if _, err := tr.Update([]byte("alice"), []byte("100")); err != nil {
		t.Fatal(err)
	}
	if _, err := tr.Update([]byte("bob"), []byte("200")); err != nil {
		t.Fatal(err)
	}

	v, ok, err := tr.Get([]byte("alice"))
	if err != nil || !ok || string(v) != "100" {
		t.Fatalf("get alice = %q, %v, %v", v, ok, err)
	}
	v, ok, err = tr.Get([]byte("bob"))
	if err != nil || !ok || string(v) != "200" {
		t.Fatalf("get bob = %q, %v, %v", v, ok, err)
	}
	if _, ok, _ := tr.Get([]byte("carol")); ok {
		t.Fatalf("get carol should be absent")
	}
}

func TestUpdateIsOrderIndependent(t *testing.T) {
	store := newMemStore()
	a := New(store)
	a.Update([]byte("alice"), []byte("100"))
	a.Update([]byte("bob"), []byte("200"))
	a.Update([]byte("carol"), []byte("300"))

	b := New(store)
	b.Update([]byte("carol"), []byte("300"))
	b.Update([]byte("alice"), []byte("100"))
	b.Update([]byte("bob"), []byte("200"))

	if a.Root() != b.Root() {
		t.Fatalf("roots differ by insertion order: %s vs %s", a.Root(), b.Root())
	}
}

func TestDeleteRestoresEmptyRoot(t *testing.T) {
	tr := New(newMemStore())
	tr.Update([]byte("alice"), []byte("100"))
	tr.Update([]byte("bob"), []byte("200"))

	if _, err := tr.Delete([]byte("alice")); err != nil {
		t.Fatal(err)
	}
	if _, err := tr.Delete([]byte("bob")); err != nil {
		t.Fatal(err)
	}
	if tr.Root() != EmptyRoot {
		t.Fatalf("root after deleting every key = %s, want %s", tr.Root(), EmptyRoot)
	}
}

func TestDeleteMissingKeyErrors(t *testing.T) {
	tr := New(newMemStore())
	if _, err := tr.Delete([]byte("ghost")); err != ErrKeyAlreadyEmpty {
		t.Fatalf("delete of absent key = %v, want ErrKeyAlreadyEmpty", err)
	}
}

func TestProveVerify(t *testing.T) {
	tr := New(newMemStore())
	tr.Update([]byte("alice"), []byte("100"))
	tr.Update([]byte("bob"), []byte("200"))
	tr.Update([]byte("carol"), []byte("300"))

	root := tr.Root()

	proof, err := tr.Prove([]byte("bob"))
	if err != nil {
		t.Fatal(err)
	}
	if !Verify(root, []byte("bob"), []byte("200"), proof) {
		t.Fatalf("proof for bob failed to verify")
	}
	if Verify(root, []byte("bob"), []byte("wrong-value"), proof) {
		t.Fatalf("proof verified against the wrong value")
	}

	absenceProof, err := tr.Prove([]byte("dave"))
	if err != nil {
		t.Fatal(err)
	}
	if !Verify(root, []byte("dave"), nil, absenceProof) {
		t.Fatalf("non-inclusion proof for dave failed to verify")
	}
}

func TestCommitPersistsAndReopens(t *testing.T) {
	store := newMemStore()
	tr := New(store)
	tr.Update([]byte("alice"), []byte("100"))
	tr.Update([]byte("bob"), []byte("200"))
	root, err := tr.Commit()
	if err != nil {
		t.Fatal(err)
	}

	reopened := Open(store, root)
	v, ok, err := reopened.Get([]byte("alice"))
	if err != nil || !ok || string(v) != "100" {
		t.Fatalf("reopened get alice = %q, %v, %v", v, ok, err)
	}
	if reopened.Root() != root {
		t.Fatalf("reopened root = %s, want %s", reopened.Root(), root)
	}
}

func TestOpenEmptyRootSkipsStore(t *testing.T) {
	tr := Open(newMemStore(), EmptyRoot)
	if tr.Root() != EmptyRoot {
		t.Fatalf("Open(EmptyRoot) root = %s, want %s", tr.Root(), EmptyRoot)
	}
}

func TestUpdateRejectsEmptyKey(t *testing.T) {
	tr := New(newMemStore())
	if _, err := tr.Update(nil, []byte("x")); err != ErrInvalidKey {
		t.Fatalf("update with empty key = %v, want ErrInvalidKey", err)
	}
	if _, _, err := tr.Get(nil); err != ErrInvalidKey {
		t.Fatalf("get with empty key = %v, want ErrInvalidKey", err)
	}
}
