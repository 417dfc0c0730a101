package repository

import (
	"context"
	"fmt"
	"sync"
)

// Memory is an in-process Repository. Records are kept in insertion order.
type Memory[T any] struct {
	mu    sync.RWMutex
	items []T
	index map[int64]int
	id    func(T) int64
	clone func(T) T
}

// NewMemory returns an empty store. id extracts the primary key; clone, when
// non-nil, deep-copies records crossing the store boundary so callers never
// share slices with stored state.
func NewMemory[T any](id func(T) int64, clone func(T) T) *Memory[T] {
	if clone == nil {
		clone = func(v T) T { return v }
	}
	return &Memory[T]{
		index: map[int64]int{},
		id:    id,
		clone: clone,
	}
}

func (m *Memory[T]) List(ctx context.Context) ([]T, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]T, len(m.items))
	for i, it := range m.items {
		out[i] = m.clone(it)
	}
	return out, nil
}

func (m *Memory[T]) Get(ctx context.Context, id int64) (T, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i, ok := m.index[id]
	if !ok {
		var zero T
		return zero, fmt.Errorf("get %d: %w", id, ErrNotFound)
	}
	return m.clone(m.items[i]), nil
}

func (m *Memory[T]) Insert(ctx context.Context, item T) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.id(item)
	if _, ok := m.index[id]; ok {
		return fmt.Errorf("insert %d: %w", id, ErrExists)
	}
	m.index[id] = len(m.items)
	m.items = append(m.items, m.clone(item))
	return nil
}

func (m *Memory[T]) Update(ctx context.Context, item T) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.id(item)
	i, ok := m.index[id]
	if !ok {
		return fmt.Errorf("update %d: %w", id, ErrNotFound)
	}
	m.items[i] = m.clone(item)
	return nil
}

// Len reports how many records are stored.
func (m *Memory[T]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}
