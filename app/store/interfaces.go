package store

// KV is the key-value contract the agenda partitions and the cache key
// index are persisted through. Implementations must treat values as
// opaque bytes.
type KV interface {
	// Get returns the value for key. ok is false when the key is absent.
	Get(key string) (value []byte, ok bool, err error)
	Put(key string, value []byte) error
	Delete(key string) error
	// List returns all keys starting with prefix, in ascending order.
	List(prefix string) ([]string, error)
}
