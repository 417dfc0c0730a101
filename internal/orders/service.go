package orders

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/imrishuroy/go-sales-orders/internal/accounts"
	"github.com/imrishuroy/go-sales-orders/internal/apperr"
	"github.com/imrishuroy/go-sales-orders/internal/customers"
	"github.com/imrishuroy/go-sales-orders/internal/events"
	"github.com/imrishuroy/go-sales-orders/internal/idgen"
	"github.com/imrishuroy/go-sales-orders/internal/products"
	"github.com/imrishuroy/go-sales-orders/internal/query"
	"github.com/imrishuroy/go-sales-orders/internal/repository"
	"github.com/imrishuroy/go-sales-orders/internal/validation"
)

// Repository is the order backing collection.
type Repository = repository.Repository[Order]

// UserSource supplies the sales representative stamped on new orders.
type UserSource interface {
	CurrentUser(ctx context.Context) accounts.User
}

// Service owns order reads and writes. Create and UpdateStatus are
// serialized by one mutex.
type Service struct {
	mu        sync.Mutex
	repo      Repository
	customers customers.Repository
	catalog   products.Repository
	users     UserSource
	seq       idgen.Sequence
	pub       events.Publisher
	validate  *validatorv10.Validate
	pageSize  int
	nowFunc   func() time.Time
}

// NewService creates a new orders Service.
func NewService(
	repo Repository,
	customerRepo customers.Repository,
	catalog products.Repository,
	users UserSource,
	seq idgen.Sequence,
	pub events.Publisher,
	defaultPageSize int,
) *Service {
	if pub == nil {
		pub = events.Nop{}
	}
	return &Service{
		repo:      repo,
		customers: customerRepo,
		catalog:   catalog,
		users:     users,
		seq:       seq,
		pub:       pub,
		validate:  validation.New(),
		pageSize:  defaultPageSize,
		nowFunc:   time.Now,
	}
}

// Spec filters orders by status and by customer name or order id, newest first.
func Spec() query.Spec[Order] {
	return query.Spec[Order]{
		Status: func(o Order) string { return o.Status },
		Match: func(o Order, search string) bool {
			return query.ContainsFold(o.Customer.Name, search) ||
				strings.Contains(strconv.FormatInt(o.ID, 10), search)
		},
		Compare: func(a, b Order) int {
			if c := b.OrderDate.Compare(a.OrderDate); c != 0 {
				return c
			}
			return cmp.Compare(a.ID, b.ID)
		},
	}
}

// List returns one page of orders.
func (s *Service) List(ctx context.Context, p query.Params) (query.Page[Order], error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return query.Page[Order]{}, fmt.Errorf("list orders: %w", err)
	}
	return query.Run(all, p.Normalize(s.pageSize), Spec()), nil
}

// ListByCustomer returns one page of the orders placed by customerID.
// An unknown customer yields an empty page.
func (s *Service) ListByCustomer(ctx context.Context, customerID int64, p query.Params) (query.Page[Order], error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return query.Page[Order]{}, fmt.Errorf("list orders: %w", err)
	}
	mine := make([]Order, 0, len(all))
	for _, o := range all {
		if o.Customer.ID == customerID {
			mine = append(mine, o)
		}
	}
	return query.Run(mine, p.Normalize(s.pageSize), Spec()), nil
}

// Recent returns the n most recent orders.
func (s *Service) Recent(ctx context.Context, n int) ([]Order, error) {
	page, err := s.List(ctx, query.Params{Page: 0, PageSize: n})
	if err != nil {
		return nil, err
	}
	return page.Content, nil
}

// Get returns one order, or an error wrapping apperr.ErrNotFound.
func (s *Service) Get(ctx context.Context, id int64) (Order, error) {
	o, err := s.repo.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return Order{}, apperr.NotFound("order", id)
	}
	if err != nil {
		return Order{}, fmt.Errorf("get order %d: %w", id, err)
	}
	return o, nil
}

// Create validates req, resolves the customer and every product, prices
// the lines and stores a PENDING order. Nothing is written when any step
// fails.
func (s *Service) Create(ctx context.Context, req validation.CreateOrderRequest) (Order, error) {
	if err := s.validate.Struct(req); err != nil {
		return Order{}, validation.Errors(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	customer, err := s.customers.Get(ctx, req.CustomerID)
	if errors.Is(err, repository.ErrNotFound) {
		return Order{}, apperr.NotFound("customer", req.CustomerID)
	}
	if err != nil {
		return Order{}, fmt.Errorf("get customer %d: %w", req.CustomerID, err)
	}

	items := make([]OrderItem, 0, len(req.OrderItems))
	for _, in := range req.OrderItems {
		product, err := s.catalog.Get(ctx, in.ProductID)
		if errors.Is(err, repository.ErrNotFound) {
			return Order{}, apperr.NotFound("product", in.ProductID)
		}
		if err != nil {
			return Order{}, fmt.Errorf("get product %d: %w", in.ProductID, err)
		}
		unitPrice := product.Price
		if in.UnitPrice != nil {
			unitPrice = *in.UnitPrice
		}
		items = append(items, OrderItem{Product: product, Quantity: in.Quantity, UnitPrice: unitPrice})
	}

	totals := Price(LinesOf(items))

	id, err := s.seq.Next(ctx, idgen.Orders)
	if err != nil {
		return Order{}, fmt.Errorf("next order id: %w", err)
	}
	for i := range items {
		itemID, err := s.seq.Next(ctx, idgen.OrderItems)
		if err != nil {
			return Order{}, fmt.Errorf("next order item id: %w", err)
		}
		items[i].ID = itemID
	}

	order := Order{
		ID:                   id,
		Customer:             customer,
		OrderDate:            s.nowFunc().UTC(),
		ExpectedDeliveryDate: req.ExpectedDeliveryDate.UTC(),
		Status:               StatusPending,
		OrderItems:           items,
		Subtotal:             totals.Subtotal,
		Tax:                  totals.Tax,
		ShippingCost:         totals.ShippingCost,
		Total:                totals.Total,
		BillingAddress:       customer.Address,
		ShippingAddress:      customer.Address,
	}
	if s.users != nil {
		order.SalesRepresentative = s.users.CurrentUser(ctx)
	}

	if err := s.repo.Insert(ctx, order); err != nil {
		return Order{}, fmt.Errorf("insert order %d: %w", id, err)
	}

	ev := events.New(events.TypeOrderCreated)
	ev.OrderID = order.ID
	ev.CustomerID = customer.ID
	ev.Status = order.Status
	ev.Total = order.Total
	ev.ItemCount = len(order.OrderItems)
	events.Emit(ctx, s.pub, ev)

	return order, nil
}

// UpdateStatus moves an order to status. No transition rules apply beyond
// status being one of Statuses.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status string) (Order, error) {
	if !ValidStatus(status) {
		return Order{}, apperr.NewValidationError("status",
			fmt.Sprintf("must be one of [%s]", strings.Join(Statuses, " ")))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	order, err := s.Get(ctx, id)
	if err != nil {
		return Order{}, err
	}
	order.Status = status
	if err := s.repo.Update(ctx, order); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return Order{}, apperr.NotFound("order", id)
		}
		return Order{}, fmt.Errorf("update order %d: %w", id, err)
	}

	ev := events.New(events.TypeOrderStatusChanged)
	ev.OrderID = order.ID
	ev.CustomerID = order.Customer.ID
	ev.Status = status
	events.Emit(ctx, s.pub, ev)

	return order, nil
}
