package state

import (
	"context"
	"sync"
)

type KVReader interface {
	// Get returns the stored value and whether the key exists.
	Get(ctx context.Context, key []byte) ([]byte, bool, error)
}

type KVWriter interface {
	// Put overwrites any existing value.
	Put(ctx context.Context, key, value []byte) error
}

type KVReadWriter interface {
	KVReader
	KVWriter
}

// KVStore is the persistent byte storage underneath every store in this
// package.
type KVStore interface {
	KVReadWriter

	// WriteBatch applies all writes of the batch or none of them.
	WriteBatch(ctx context.Context, batch *Batch) error

	Close() error
}

// Batch is an ordered set of pending writes. Writing a key twice keeps its
// first position and the last value.
type Batch struct {
	keys   []string
	values map[string][]byte
}

func NewBatch() *Batch {
	return &Batch{values: make(map[string][]byte)}
}

func (b *Batch) Put(key, value []byte) {
	k := string(key)
	if _, ok := b.values[k]; !ok {
		b.keys = append(b.keys, k)
	}
	b.values[k] = append([]byte(nil), value...)
}

func (b *Batch) Get(key []byte) ([]byte, bool) {
	v, ok := b.values[string(key)]
	return v, ok
}

func (b *Batch) Len() int {
	return len(b.keys)
}

func (b *Batch) Range(fn func(key string, value []byte)) {
	for _, k := range b.keys {
		fn(k, b.values[k])
	}
}

// MemKV is an in-memory KVStore.
type MemKV struct {
	mu sync.RWMutex
	m  map[string][]byte
}

func NewMemKV() *MemKV {
	return &MemKV{m: make(map[string][]byte)}
}

func (kv *MemKV) Get(_ context.Context, key []byte) ([]byte, bool, error) {
	kv.mu.RLock()
	defer kv.mu.RUnlock()

	v, ok := kv.m[string(key)]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (kv *MemKV) Put(_ context.Context, key, value []byte) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()

	kv.m[string(key)] = append([]byte(nil), value...)
	return nil
}

func (kv *MemKV) WriteBatch(_ context.Context, batch *Batch) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()

	batch.Range(func(k string, v []byte) {
		kv.m[k] = append([]byte(nil), v...)
	})
	return nil
}

func (kv *MemKV) Len() int {
	kv.mu.RLock()
	defer kv.mu.RUnlock()
	return len(kv.m)
}

func (kv *MemKV) Close() error {
	return nil
}
