package repository

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get and Update when no record has the id.
var ErrNotFound = errors.New("record not found")

// ErrExists is returned by Insert when a record with the id is already stored.
var ErrExists = errors.New("record already exists")

// Repository is the storage contract behind every backing collection.
// List returns records in insertion order for the memory backend; callers
// must not rely on order and sort through the query engine instead.
type Repository[T any] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id int64) (T, error)
	Insert(ctx context.Context, item T) error
	Update(ctx context.Context, item T) error
}
