package storage

import "sync"

// MemKV is an in-memory KV for tests and throwaway sessions.
type MemKV struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemKV creates an empty in-memory store.
func NewMemKV() *MemKV {
	return &MemKV{values: make(map[string]string)}
}

// NewMemKVFrom creates an in-memory store seeded with the given values.
func NewMemKVFrom(values map[string]string) *MemKV {
	kv := NewMemKV()
	for k, v := range values {
		kv.values[k] = v
	}
	return kv
}

// GetString returns the value stored under key and whether it was present.
func (kv *MemKV) GetString(key string) (string, bool, error) {
	kv.mu.RLock()
	defer kv.mu.RUnlock()

	value, ok := kv.values[key]
	return value, ok, nil
}

// PutString stores value under key.
func (kv *MemKV) PutString(key, value string) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()

	kv.values[key] = value
	return nil
}
