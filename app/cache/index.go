package cache

import (
	"encoding/json"
	"fmt"
	"slices"
	"sync"

	"github.com/plenarlab/bt-agenda/app/store"
)

const indexKey = "cache-keys"

// KeyIndex is the persisted side-list of known cache keys. The cache
// backend has no enumeration primitive, so targeted invalidation walks
// this index instead. Append-only in normal operation; entries are
// removed when their cached response is deleted.
type KeyIndex struct {
	mu sync.Mutex
	kv store.KV
}

func NewKeyIndex(kv store.KV) *KeyIndex {
	return &KeyIndex{kv: kv}
}

// Add registers a cache key. Re-adding a known key is a no-op.
func (x *KeyIndex) Add(key string) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	keys, err := x.load()
	if err != nil {
		return err
	}

	if slices.Contains(keys, key) {
		return nil
	}

	return x.save(append(keys, key))
}

// All returns the registered cache keys.
func (x *KeyIndex) All() ([]string, error) {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.load()
}

// Remove drops the given keys from the index.
func (x *KeyIndex) Remove(remove []string) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	keys, err := x.load()
	if err != nil {
		return err
	}

	kept := keys[:0]
	for _, key := range keys {
		if !slices.Contains(remove, key) {
			kept = append(kept, key)
		}
	}

	return x.save(kept)
}

// Clear empties the index.
func (x *KeyIndex) Clear() error {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.save(nil)
}

func (x *KeyIndex) load() ([]string, error) {
	value, ok, err := x.kv.Get(indexKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load cache key index: %w", err)
	}
	if !ok {
		return nil, nil
	}

	var keys []string
	if err := json.Unmarshal(value, &keys); err != nil {
		// A corrupted index only costs stale cache entries their
		// targeted invalidation; start over.
		return nil, nil
	}

	return keys, nil
}

func (x *KeyIndex) save(keys []string) error {
	if keys == nil {
		keys = []string{}
	}

	value, err := json.Marshal(keys)
	if err != nil {
		return fmt.Errorf("failed to encode cache key index: %w", err)
	}

	if err := x.kv.Put(indexKey, value); err != nil {
		return fmt.Errorf("failed to save cache key index: %w", err)
	}

	return nil
}
