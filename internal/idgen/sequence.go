package idgen

import (
	"context"
	"sync"
)

// Sequence names used by the services.
const (
	Customers  = "customers"
	Orders     = "orders"
	OrderItems = "order_items"
)

// Sequence hands out monotonically increasing ids per name. Ids are never reused.
type Sequence interface {
	Next(ctx context.Context, name string) (int64, error)
	// EnsureAtLeast raises the named counter to n when it is lower, so that
	// records inserted with explicit ids (seed data) are never reissued.
	EnsureAtLeast(ctx context.Context, name string, n int64) error
}

// Counter is an in-memory Sequence.
type Counter struct {
	mu     sync.Mutex
	values map[string]int64
}

func NewCounter() *Counter {
	return &Counter{values: map[string]int64{}}
}

func (c *Counter) Next(ctx context.Context, name string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[name]++
	return c.values[name], nil
}

func (c *Counter) EnsureAtLeast(ctx context.Context, name string, n int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.values[name] < n {
		c.values[name] = n
	}
	return nil
}
