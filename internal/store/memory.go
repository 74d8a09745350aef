package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// Memory is an in-process Store used by tests and throwaway demo runs.
type Memory struct {
	mu      sync.Mutex
	records map[string][]byte
	stamps  map[string]time.Time
	now     func() time.Time
	seq     int
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		records: make(map[string][]byte),
		stamps:  make(map[string]time.Time),
		now:     time.Now,
	}
}

func memKey(kind, id string) string {
	return kind + "\x00" + id
}

func (m *Memory) Get(ctx context.Context, kind, id string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.records[memKey(kind, id)]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), data...), nil
}

func (m *Memory) List(ctx context.Context, kind string) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	prefix := kind + "\x00"
	var out []Record
	for key, data := range m.records {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		out = append(out, Record{
			Kind:      kind,
			ID:        strings.TrimPrefix(key, prefix),
			Data:      append([]byte(nil), data...),
			UpdatedAt: m.stamps[key],
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

// Update stages writes in an overlay and applies them only when fn succeeds,
// so a failing transaction leaves the store untouched.
func (m *Memory) Update(ctx context.Context, fn func(Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	tx := &memTx{store: m, writes: make(map[string][]byte)}
	if err := fn(tx); err != nil {
		return err
	}
	for _, key := range tx.order {
		data := tx.writes[key]
		if data == nil {
			delete(m.records, key)
			delete(m.stamps, key)
			continue
		}
		m.records[key] = data
		// Successive writes in one Update keep their relative order in List.
		m.seq++
		m.stamps[key] = m.now().Add(time.Duration(m.seq))
	}
	return nil
}

func (m *Memory) Close() error { return nil }

type memTx struct {
	store  *Memory
	writes map[string][]byte // nil value marks a delete
	order  []string
}

func (t *memTx) stage(key string, data []byte) {
	if _, ok := t.writes[key]; !ok {
		t.order = append(t.order, key)
	}
	t.writes[key] = data
}

func (t *memTx) Get(kind, id string) ([]byte, error) {
	key := memKey(kind, id)
	if data, ok := t.writes[key]; ok {
		if data == nil {
			return nil, ErrNotFound
		}
		return append([]byte(nil), data...), nil
	}
	data, ok := t.store.records[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), data...), nil
}

func (t *memTx) Put(kind, id string, data []byte) error {
	t.stage(memKey(kind, id), append([]byte(nil), data...))
	return nil
}

func (t *memTx) Delete(kind, id string) error {
	t.stage(memKey(kind, id), nil)
	return nil
}
