package products

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/imrishuroy/go-sales-orders/internal/apperr"
	"github.com/imrishuroy/go-sales-orders/internal/query"
	"github.com/imrishuroy/go-sales-orders/internal/repository"
)

// Repository is the product backing collection.
type Repository = repository.Repository[Product]

// NewMemoryRepository returns an empty in-memory product collection.
func NewMemoryRepository() *repository.Memory[Product] {
	return repository.NewMemory(func(p Product) int64 { return p.ID }, nil)
}

// Codec maps products onto DynamoDB items.
func Codec() repository.Codec[Product, Item] {
	return repository.Codec[Product, Item]{
		ID:       func(p Product) int64 { return p.ID },
		ToItem:   ToItem,
		FromItem: FromItem,
	}
}

// Service answers catalog queries.
type Service struct {
	repo     Repository
	pageSize int
}

// NewService creates a new products Service. defaultPageSize applies when a
// query leaves the page size unset.
func NewService(repo Repository, defaultPageSize int) *Service {
	return &Service{repo: repo, pageSize: defaultPageSize}
}

// Spec filters products by name, sku or style number and orders them by name.
func Spec() query.Spec[Product] {
	byName := query.NameCollator()
	return query.Spec[Product]{
		Match: func(p Product, search string) bool {
			return query.ContainsFold(p.Name, search) ||
				query.ContainsFold(p.SKU, search) ||
				query.ContainsFold(p.StyleNumber, search)
		},
		Compare: func(a, b Product) int {
			if c := byName(a.Name, b.Name); c != 0 {
				return c
			}
			return cmp.Compare(a.ID, b.ID)
		},
	}
}

// List returns one page of products. Params.Status is ignored.
func (s *Service) List(ctx context.Context, p query.Params) (query.Page[Product], error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return query.Page[Product]{}, fmt.Errorf("list products: %w", err)
	}
	p.Status = ""
	return query.Run(all, p.Normalize(s.pageSize), Spec()), nil
}

// Get returns one product, or an error wrapping apperr.ErrNotFound.
func (s *Service) Get(ctx context.Context, id int64) (Product, error) {
	p, err := s.repo.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return Product{}, apperr.NotFound("product", id)
	}
	if err != nil {
		return Product{}, fmt.Errorf("get product %d: %w", id, err)
	}
	return p, nil
}

// Categories lists the distinct product categories in ascending order.
func (s *Service) Categories(ctx context.Context) ([]string, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	seen := map[string]bool{}
	out := []string{}
	for _, p := range all {
		if p.Category == "" || seen[p.Category] {
			continue
		}
		seen[p.Category] = true
		out = append(out, p.Category)
	}
	sort.Strings(out)
	return out, nil
}

// Count reports how many products are in the catalog.
func (s *Service) Count(ctx context.Context) (int, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list products: %w", err)
	}
	return len(all), nil
}
