package state

import (
	"context"
	"errors"
)

var ErrTxDone = errors.New("transaction has already been committed or discarded")

// Tx buffers writes on top of a KVStore. Reads observe the buffered writes.
// Nothing reaches the store until Commit.
type Tx struct {
	store KVStore
	batch *Batch
	done  bool
}

func NewTx(store KVStore) *Tx {
	return &Tx{store: store, batch: NewBatch()}
}

func (tx *Tx) Get(ctx context.Context, key []byte) ([]byte, bool, error) {
	if tx.done {
		return nil, false, ErrTxDone
	}
	if v, ok := tx.batch.Get(key); ok {
		return append([]byte(nil), v...), true, nil
	}
	return tx.store.Get(ctx, key)
}

func (tx *Tx) Put(_ context.Context, key, value []byte) error {
	if tx.done {
		return ErrTxDone
	}
	tx.batch.Put(key, value)
	return nil
}

// Pending returns the number of buffered keys.
func (tx *Tx) Pending() int {
	return tx.batch.Len()
}

func (tx *Tx) Commit(ctx context.Context) error {
	if tx.done {
		return ErrTxDone
	}
	tx.done = true
	if tx.batch.Len() == 0 {
		return nil
	}
	return tx.store.WriteBatch(ctx, tx.batch)
}

// Discard drops all buffered writes. It is safe to call after Commit.
func (tx *Tx) Discard() {
	tx.done = true
	tx.batch = NewBatch()
}
