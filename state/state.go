package state

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/TEENet-io/swapflow/etherman"
)

var (
	keyTotalEvents = []byte("total_events")

	ErrCounterOverflow = errors.New("event counter overflow")
	ErrInvalidRecord   = errors.New("invalid record")
)

const (
	eventKeyPrefix   = "events/"
	payloadKeyPrefix = "payloads/"
)

// EventKey is the lookup key of an event: the caller supplied global tx id
// followed by the event name.
func EventKey(globalTxId string, t etherman.EventType) string {
	return globalTxId + string(t)
}

// PayloadKey is the lookup key of a payload: the caller supplied global tx
// id followed by the payload type.
func PayloadKey(globalTxId string, t PayloadType) string {
	return globalTxId + string(t)
}

// EventStore keeps every decoded event, last write wins.
type EventStore struct {
	rw KVReadWriter
}

func NewEventStore(rw KVReadWriter) *EventStore {
	return &EventStore{rw: rw}
}

func (s *EventStore) Put(ctx context.Context, globalTxId string, rec *EventRecord) error {
	if err := rec.validate(); err != nil {
		return err
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return s.rw.Put(ctx, []byte(eventKeyPrefix+EventKey(globalTxId, rec.Type)), data)
}

func (s *EventStore) Get(ctx context.Context, globalTxId string, t etherman.EventType) (*EventRecord, bool, error) {
	data, ok, err := s.rw.Get(ctx, []byte(eventKeyPrefix+EventKey(globalTxId, t)))
	if err != nil || !ok {
		return nil, false, err
	}

	rec := &EventRecord{}
	if err := json.Unmarshal(data, rec); err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	if err := rec.validate(); err != nil {
		return nil, false, err
	}
	return rec, true, nil
}

// PayloadStore keeps the payloads awaiting a signature, last write wins.
type PayloadStore struct {
	rw KVReadWriter
}

func NewPayloadStore(rw KVReadWriter) *PayloadStore {
	return &PayloadStore{rw: rw}
}

func (s *PayloadStore) Put(ctx context.Context, globalTxId string, rec *PayloadRecord) error {
	if err := rec.validate(); err != nil {
		return err
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return s.rw.Put(ctx, []byte(payloadKeyPrefix+PayloadKey(globalTxId, rec.Type)), data)
}

func (s *PayloadStore) Get(ctx context.Context, globalTxId string, t PayloadType) (*PayloadRecord, bool, error) {
	data, ok, err := s.rw.Get(ctx, []byte(payloadKeyPrefix+PayloadKey(globalTxId, t)))
	if err != nil || !ok {
		return nil, false, err
	}

	rec := &PayloadRecord{}
	if err := json.Unmarshal(data, rec); err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	if err := rec.validate(); err != nil {
		return nil, false, err
	}
	if rec.Type != t {
		return nil, false, fmt.Errorf("%w: stored %q under %q", ErrInvalidRecord, rec.Type, t)
	}
	return rec, true, nil
}

// EventCounter counts successfully ingested events.
type EventCounter struct {
	rw KVReadWriter
}

func NewEventCounter(rw KVReadWriter) *EventCounter {
	return &EventCounter{rw: rw}
}

func (c *EventCounter) Get(ctx context.Context) (uint64, error) {
	data, ok, err := c.rw.Get(ctx, keyTotalEvents)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, nil
	}
	if len(data) != 8 {
		return 0, fmt.Errorf("%w: counter of %d bytes", ErrInvalidRecord, len(data))
	}
	return binary.BigEndian.Uint64(data), nil
}

// Increment adds one and returns the new count. It never wraps around.
func (c *EventCounter) Increment(ctx context.Context) (uint64, error) {
	n, err := c.Get(ctx)
	if err != nil {
		return 0, err
	}
	if n == math.MaxUint64 {
		return 0, ErrCounterOverflow
	}
	n++

	var b [8]byte
	binary.BigEndian.PutUint64(b[:], n)
	if err := c.rw.Put(ctx, keyTotalEvents, b[:]); err != nil {
		return 0, err
	}
	return n, nil
}

// SaveEvent records ev under globalTxId, stores the payload derived from it
// and bumps the event counter. rw is expected to be a Tx so that a failure
// in any step leaves the store untouched.
func SaveEvent(ctx context.Context, rw KVReadWriter, globalTxId string, ev etherman.Event) (*EventRecord, *PayloadRecord, error) {
	evRec, err := NewEventRecord(ev)
	if err != nil {
		return nil, nil, err
	}
	payload, err := DerivePayload(ev)
	if err != nil {
		return nil, nil, err
	}

	if err := NewEventStore(rw).Put(ctx, globalTxId, evRec); err != nil {
		return nil, nil, err
	}
	if err := NewPayloadStore(rw).Put(ctx, globalTxId, payload); err != nil {
		return nil, nil, err
	}
	if _, err := NewEventCounter(rw).Increment(ctx); err != nil {
		return nil, nil, err
	}

	return evRec, payload, nil
}
