package kv

import (
	"context"
	"maps"
	"slices"
	"sync"
)

// Memory is a process-local Backend.  It does not survive restart and is
// meant for tests and throwaway runs.
type Memory struct {
	mu    sync.Mutex
	maps  map[string]*memMap
	cells map[string]*memCell
}

// NewMemory returns an empty in-memory backend.
func NewMemory() *Memory {
	return &Memory{
		maps:  make(map[string]*memMap),
		cells: make(map[string]*memCell),
	}
}

func (b *Memory) Map(_ context.Context, name string) (SortedMap, error) {
	if err := validName(name); err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	m, ok := b.maps[name]
	if !ok {
		m = &memMap{data: make(map[uint64][]byte)}
		b.maps[name] = m
	}
	return m, nil
}

func (b *Memory) Cell(_ context.Context, name string) (Cell, error) {
	if err := validName(name); err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	c, ok := b.cells[name]
	if !ok {
		c = &memCell{}
		b.cells[name] = c
	}
	return c, nil
}

type memMap struct {
	mu   sync.RWMutex
	data map[uint64][]byte
}

func (m *memMap) Get(_ context.Context, key uint64) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return slices.Clone(v), ok, nil
}

func (m *memMap) Insert(_ context.Context, key uint64, value []byte) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	prev, ok := m.data[key]
	m.data[key] = slices.Clone(value)
	return prev, ok, nil
}

func (m *memMap) Remove(_ context.Context, key uint64) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	prev, ok := m.data[key]
	delete(m.data, key)
	return prev, ok, nil
}

func (m *memMap) Scan(_ context.Context) ([]Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := slices.Sorted(maps.Keys(m.data))
	out := make([]Entry, 0, len(keys))
	for _, k := range keys {
		out = append(out, Entry{Key: k, Value: slices.Clone(m.data[k])})
	}
	return out, nil
}

type memCell struct {
	mu sync.Mutex
	v  uint64
}

func (c *memCell) Get(_ context.Context) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.v, nil
}

func (c *memCell) Set(_ context.Context, v uint64) error {
	c.mu.Lock()
	c.v = v
	c.mu.Unlock()
	return nil
}
