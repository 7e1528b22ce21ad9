package cache

import (
	"testing"

	"github.com/plenarlab/bt-agenda/app/store"
)

func TestKeyIndexAddAndAll(t *testing.T) {
	index := NewKeyIndex(store.NewMemoryKV())

	if err := index.Add("/json?week=3"); err != nil {
		t.Fatalf("Add() returned error: %v", err)
	}
	if err := index.Add("/ical"); err != nil {
		t.Fatalf("Add() returned error: %v", err)
	}
	// Duplicate registration is a no-op.
	if err := index.Add("/json?week=3"); err != nil {
		t.Fatalf("Add() returned error: %v", err)
	}

	keys, err := index.All()
	if err != nil {
		t.Fatalf("All() returned error: %v", err)
	}
	if len(keys) != 2 {
		t.Errorf("expected 2 keys, got %v", keys)
	}
}

func TestKeyIndexRemove(t *testing.T) {
	index := NewKeyIndex(store.NewMemoryKV())

	for _, key := range []string{"/json?week=3", "/ical", "/csv?year=2023"} {
		if err := index.Add(key); err != nil {
			t.Fatalf("Add(%q) returned error: %v", key, err)
		}
	}

	if err := index.Remove([]string{"/json?week=3", "/csv?year=2023"}); err != nil {
		t.Fatalf("Remove() returned error: %v", err)
	}

	keys, err := index.All()
	if err != nil {
		t.Fatalf("All() returned error: %v", err)
	}
	if len(keys) != 1 || keys[0] != "/ical" {
		t.Errorf("remaining keys = %v, want [/ical]", keys)
	}
}

func TestKeyIndexClear(t *testing.T) {
	index := NewKeyIndex(store.NewMemoryKV())

	if err := index.Add("/json"); err != nil {
		t.Fatalf("Add() returned error: %v", err)
	}
	if err := index.Clear(); err != nil {
		t.Fatalf("Clear() returned error: %v", err)
	}

	keys, err := index.All()
	if err != nil {
		t.Fatalf("All() returned error: %v", err)
	}
	if len(keys) != 0 {
		t.Errorf("expected empty index after clear, got %v", keys)
	}
}

func TestKeyIndexCorruptedValueStartsOver(t *testing.T) {
	kv := store.NewMemoryKV()
	if err := kv.Put("cache-keys", []byte("not json")); err != nil {
		t.Fatalf("Put() returned error: %v", err)
	}

	index := NewKeyIndex(kv)

	keys, err := index.All()
	if err != nil {
		t.Fatalf("All() returned error: %v", err)
	}
	if len(keys) != 0 {
		t.Errorf("corrupted index must read as empty, got %v", keys)
	}

	if err := index.Add("/json"); err != nil {
		t.Fatalf("Add() after corruption returned error: %v", err)
	}
	keys, err = index.All()
	if err != nil {
		t.Fatalf("All() returned error: %v", err)
	}
	if len(keys) != 1 {
		t.Errorf("expected rebuilt index with 1 key, got %v", keys)
	}
}
