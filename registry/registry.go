package registry

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"

	logger "github.com/sirupsen/logrus"

	"github.com/TEENet-io/swapflow/state"
)

var (
	ErrSourceNotFound     = errors.New("event source not found")
	ErrUnauthorizedSource = errors.New("event source is not registered")
)

var keyIndex = []byte("registry/index")

func opKey(index uint64) []byte {
	return []byte(fmt.Sprintf("registry/ops/%020d", index))
}

// Registry is an append-only log of event source registrations. Entries are
// numbered from 1 and never rewritten; unregistering appends a Remove copy
// of the registered entry.
type Registry struct {
	mu sync.Mutex
	kv state.KVStore
}

func New(kv state.KVStore) *Registry {
	return &Registry{kv: kv}
}

func (r *Registry) Register(ctx context.Context, src *EventSource) (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	index, err := r.append(ctx, &EventSourceOp{EventSource: *src, Op: OpCreate})
	if err != nil {
		return 0, err
	}

	logger.WithFields(logger.Fields{
		"index":     index,
		"source_id": src.SourceID,
		"chain":     src.Chain,
		"contract":  src.SmartContractAddress,
		"event":     src.EventType,
	}).Info("registered event source")
	return index, nil
}

// Unregister appends a Remove entry for the source registered at index and
// returns the index of the new entry.
func (r *Registry) Unregister(ctx context.Context, index uint64) (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	op, err := r.get(ctx, r.kv, index)
	if err != nil {
		return 0, err
	}

	removed, err := r.append(ctx, &EventSourceOp{EventSource: op.EventSource, Op: OpRemove})
	if err != nil {
		return 0, err
	}

	logger.WithFields(logger.Fields{
		"index":     removed,
		"of":        index,
		"source_id": op.EventSource.SourceID,
	}).Info("unregistered event source")
	return removed, nil
}

// SourcesFrom returns every entry from index on, inclusive, along with the
// index to pass on the next call. Index 0 is read as 1.
func (r *Registry) SourcesFrom(ctx context.Context, from uint64) (uint64, []*EventSourceOp, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	last, err := r.lastIndex(ctx, r.kv)
	if err != nil {
		return 0, nil, err
	}
	if from == 0 {
		from = 1
	}

	ops := []*EventSourceOp{}
	next := from
	for ; next <= last; next++ {
		op, err := r.get(ctx, r.kv, next)
		if err != nil {
			return 0, nil, err
		}
		ops = append(ops, op)
	}
	return next, ops, nil
}

func (r *Registry) Source(ctx context.Context, index uint64) (*EventSourceOp, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.get(ctx, r.kv, index)
}

// IsAuthorized reports whether a source registered under sourceID is live,
// i.e. has more Create than Remove entries.
func (r *Registry) IsAuthorized(ctx context.Context, sourceID uint64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	last, err := r.lastIndex(ctx, r.kv)
	if err != nil {
		return false, err
	}

	id := strconv.FormatUint(sourceID, 10)
	live := map[string]int{}
	for i := uint64(1); i <= last; i++ {
		op, err := r.get(ctx, r.kv, i)
		if err != nil {
			return false, err
		}
		if op.EventSource.SourceID != id {
			continue
		}
		switch op.Op {
		case OpCreate:
			live[op.EventSource.identity()]++
		case OpRemove:
			live[op.EventSource.identity()]--
		}
	}

	for _, n := range live {
		if n > 0 {
			return true, nil
		}
	}
	return false, nil
}

// Authorize is IsAuthorized returning ErrUnauthorizedSource instead of false.
func (r *Registry) Authorize(ctx context.Context, sourceID uint64) error {
	ok, err := r.IsAuthorized(ctx, sourceID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: source id %d", ErrUnauthorizedSource, sourceID)
	}
	return nil
}

func (r *Registry) append(ctx context.Context, op *EventSourceOp) (uint64, error) {
	tx := state.NewTx(r.kv)
	defer tx.Discard()

	last, err := r.lastIndex(ctx, tx)
	if err != nil {
		return 0, err
	}
	index := last + 1

	data, err := json.Marshal(op)
	if err != nil {
		return 0, err
	}
	if err := tx.Put(ctx, opKey(index), data); err != nil {
		return 0, err
	}
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], index)
	if err := tx.Put(ctx, keyIndex, b[:]); err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return index, nil
}

func (r *Registry) lastIndex(ctx context.Context, rd state.KVReader) (uint64, error) {
	data, ok, err := rd.Get(ctx, keyIndex)
	if err != nil || !ok {
		return 0, err
	}
	if len(data) != 8 {
		return 0, fmt.Errorf("%w: registry index of %d bytes", state.ErrInvalidRecord, len(data))
	}
	return binary.BigEndian.Uint64(data), nil
}

func (r *Registry) get(ctx context.Context, rd state.KVReader, index uint64) (*EventSourceOp, error) {
	data, ok, err := rd.Get(ctx, opKey(index))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: index %d", ErrSourceNotFound, index)
	}

	op := &EventSourceOp{}
	if err := json.Unmarshal(data, op); err != nil {
		return nil, fmt.Errorf("%w: %v", state.ErrInvalidRecord, err)
	}
	return op, nil
}
