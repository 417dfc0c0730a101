package customers

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/imrishuroy/go-sales-orders/internal/apperr"
	"github.com/imrishuroy/go-sales-orders/internal/events"
	"github.com/imrishuroy/go-sales-orders/internal/idgen"
	"github.com/imrishuroy/go-sales-orders/internal/query"
	"github.com/imrishuroy/go-sales-orders/internal/repository"
	"github.com/imrishuroy/go-sales-orders/internal/validation"
)

// Repository is the customer backing collection.
type Repository = repository.Repository[Customer]

// NewMemoryRepository returns an empty in-memory customer collection.
func NewMemoryRepository() *repository.Memory[Customer] {
	return repository.NewMemory(func(c Customer) int64 { return c.ID }, nil)
}

// Codec maps customers onto DynamoDB items. The struct carries its own
// dynamodbav tags so no separate item type is needed.
func Codec() repository.Codec[Customer, Customer] {
	return repository.Codec[Customer, Customer]{
		ID:       func(c Customer) int64 { return c.ID },
		ToItem:   func(c Customer) Customer { return c },
		FromItem: func(c Customer) (Customer, error) { return c, nil },
	}
}

// Service owns customer reads and registration. Create is serialized so the
// email uniqueness check and the insert cannot interleave.
type Service struct {
	mu       sync.Mutex
	repo     Repository
	seq      idgen.Sequence
	pub      events.Publisher
	validate *validatorv10.Validate
	pageSize int
}

// NewService creates a new customers Service. A nil pub drops events.
func NewService(repo Repository, seq idgen.Sequence, pub events.Publisher, defaultPageSize int) *Service {
	if pub == nil {
		pub = events.Nop{}
	}
	return &Service{
		repo:     repo,
		seq:      seq,
		pub:      pub,
		validate: validation.New(),
		pageSize: defaultPageSize,
	}
}

// Spec filters customers by name, email or phone and orders them by name.
func Spec() query.Spec[Customer] {
	byName := query.NameCollator()
	return query.Spec[Customer]{
		Match: func(c Customer, search string) bool {
			return query.ContainsFold(c.Name, search) ||
				query.ContainsFold(c.Email, search) ||
				query.ContainsFold(c.Phone, search)
		},
		Compare: func(a, b Customer) int {
			if c := byName(a.Name, b.Name); c != 0 {
				return c
			}
			return cmp.Compare(a.ID, b.ID)
		},
	}
}

// List returns one page of customers. Params.Status is ignored.
func (s *Service) List(ctx context.Context, p query.Params) (query.Page[Customer], error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return query.Page[Customer]{}, fmt.Errorf("list customers: %w", err)
	}
	p.Status = ""
	return query.Run(all, p.Normalize(s.pageSize), Spec()), nil
}

// Get returns one customer, or an error wrapping apperr.ErrNotFound.
func (s *Service) Get(ctx context.Context, id int64) (Customer, error) {
	c, err := s.repo.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return Customer{}, apperr.NotFound("customer", id)
	}
	if err != nil {
		return Customer{}, fmt.Errorf("get customer %d: %w", id, err)
	}
	return c, nil
}

// Create validates and stores a new customer with a fresh id and a zero
// order count. Emails are unique, compared case-insensitively.
func (s *Service) Create(ctx context.Context, in NewCustomer) (Customer, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	if err := s.validate.Struct(in); err != nil {
		return Customer{}, validation.Errors(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.repo.List(ctx)
	if err != nil {
		return Customer{}, fmt.Errorf("list customers: %w", err)
	}
	for _, c := range all {
		if strings.EqualFold(c.Email, in.Email) {
			return Customer{}, apperr.NewValidationError("email", "is already in use")
		}
	}

	id, err := s.seq.Next(ctx, idgen.Customers)
	if err != nil {
		return Customer{}, fmt.Errorf("next customer id: %w", err)
	}
	c := Customer{
		ID:      id,
		Name:    in.Name,
		Email:   in.Email,
		Phone:   in.Phone,
		Company: in.Company,
		Address: in.Address,
		Notes:   in.Notes,
	}
	if err := s.repo.Insert(ctx, c); err != nil {
		return Customer{}, fmt.Errorf("insert customer %d: %w", id, err)
	}

	ev := events.New(events.TypeCustomerCreated)
	ev.CustomerID = c.ID
	events.Emit(ctx, s.pub, ev)

	return c, nil
}

// Count reports how many customers exist.
func (s *Service) Count(ctx context.Context) (int, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list customers: %w", err)
	}
	return len(all), nil
}
