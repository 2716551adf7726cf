// Package notifier forwards committed swap records to downstream relayers.
package notifier

import (
	"context"
	"sync"
)

type Publisher interface {
	Publish(ctx context.Context, key string, value []byte) error
	Close() error
}

// Nop drops everything. Used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, string, []byte) error { return nil }
func (Nop) Close() error                                  { return nil }

type Message struct {
	Key   string
	Value []byte
}

// Memory keeps published messages in order. It is meant for tests and
// local runs.
type Memory struct {
	mu   sync.Mutex
	msgs []Message
	err  error
}

func NewMemory() *Memory {
	return &Memory{}
}

// FailWith makes every following Publish return err.
func (m *Memory) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *Memory) Publish(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.msgs = append(m.msgs, Message{Key: key, Value: append([]byte(nil), value...)})
	return nil
}

func (m *Memory) Messages() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Message(nil), m.msgs...)
}

func (m *Memory) Close() error { return nil }
