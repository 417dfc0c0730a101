package idempotency

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MemoryStore is an in-process Store for the memory backend and tests.
type MemoryStore struct {
	mu        sync.Mutex
	records   map[string]Record
	ttlWindow time.Duration
	lease     time.Duration
	nowFunc   func() time.Time
}

func NewMemoryStore(ttlWindow time.Duration) *MemoryStore {
	if ttlWindow <= 0 {
		ttlWindow = DefaultTTL
	}
	return &MemoryStore{
		records:   map[string]Record{},
		ttlWindow: ttlWindow,
		lease:     DefaultLease,
		nowFunc:   time.Now,
	}
}

func (m *MemoryStore) CreateIfNotExists(ctx context.Context, c Claim) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.nowFunc()
	if rec, ok := m.records[c.Key]; ok && !rec.Expired(now) && !rec.Abandoned(now) {
		return false, nil
	}
	m.records[c.Key] = Record{
		IdempotencyKey: c.Key,
		Status:         StatusInProgress,
		Fingerprint:    c.Fingerprint,
		ClaimToken:     c.Token,
		CreatedAt:      now,
		UpdatedAt:      now,
		LeaseUntil:     now.Add(m.lease).Unix(),
		ExpiresAt:      now.Add(m.ttlWindow).Unix(),
	}
	return true, nil
}

func (m *MemoryStore) Get(ctx context.Context, key string) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.records[key]
	if !ok || rec.Expired(m.nowFunc()) {
		return nil, nil
	}
	return &rec, nil
}

func (m *MemoryStore) MarkDone(ctx context.Context, key, responseBody string, responseStatus int) error {
	return m.update(key, func(r *Record) {
		r.Status = StatusDone
		r.ResponseBody = responseBody
		r.ResponseStatus = responseStatus
	})
}

func (m *MemoryStore) MarkFailed(ctx context.Context, key, note string) error {
	return m.update(key, func(r *Record) {
		r.Status = StatusFailed
		r.Note = note
	})
}

func (m *MemoryStore) Release(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.records[key]
	if !ok || rec.Status != StatusInProgress {
		return nil
	}
	now := m.nowFunc()
	rec.LeaseUntil = now.Unix()
	rec.UpdatedAt = now
	m.records[key] = rec
	return nil
}

func (m *MemoryStore) update(key string, fn func(*Record)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.records[key]
	if !ok {
		return fmt.Errorf("idempotency key %q not found", key)
	}
	fn(&rec)
	rec.UpdatedAt = m.nowFunc()
	m.records[key] = rec
	return nil
}
