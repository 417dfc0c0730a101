package dashboard

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/imrishuroy/go-sales-orders/internal/customers"
	"github.com/imrishuroy/go-sales-orders/internal/orders"
	"github.com/imrishuroy/go-sales-orders/internal/products"
)

const (
	// RecentLimit is how many orders the dashboard shows as recent activity.
	RecentLimit = 5
	// TopLimit caps the top products and top customers rankings.
	TopLimit = 5
)

// Stats are the dashboard headline numbers.
type Stats struct {
	TotalOrders       int             `json:"totalOrders"`
	TotalCustomers    int             `json:"totalCustomers"`
	TotalProducts     int             `json:"totalProducts"`
	TotalRevenue      decimal.Decimal `json:"totalRevenue"`
	AverageOrderValue decimal.Decimal `json:"averageOrderValue"`
	OrdersByStatus    map[string]int  `json:"ordersByStatus"`
}

// DailySales is the revenue of one UTC calendar day.
type DailySales struct {
	Date   string          `json:"date"`
	Sales  decimal.Decimal `json:"sales"`
	Orders int             `json:"orders"`
}

type TopProduct struct {
	ProductID int64           `json:"productId"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Revenue   decimal.Decimal `json:"revenue"`
}

type TopCustomer struct {
	CustomerID int64           `json:"customerId"`
	Name       string          `json:"name"`
	Orders     int             `json:"orders"`
	TotalSpent decimal.Decimal `json:"totalSpent"`
}

// Analytics summarises the orders placed inside a time window.
type Analytics struct {
	Start             *time.Time      `json:"start,omitempty"`
	End               *time.Time      `json:"end,omitempty"`
	TotalSales        decimal.Decimal `json:"totalSales"`
	TotalOrders       int             `json:"totalOrders"`
	AverageOrderValue decimal.Decimal `json:"averageOrderValue"`
	SalesByDate       []DailySales    `json:"salesByDate"`
	OrdersByStatus    map[string]int  `json:"ordersByStatus"`
	TopProducts       []TopProduct    `json:"topProducts"`
	TopCustomers      []TopCustomer   `json:"topCustomers"`
}

// SalesMetrics is the revenue of the current day, week, month and year.
// Each period runs from its first day through the end of today, in UTC.
// Weeks start on Monday.
type SalesMetrics struct {
	TodaySales decimal.Decimal `json:"todaySales"`
	WeekSales  decimal.Decimal `json:"weekSales"`
	MonthSales decimal.Decimal `json:"monthSales"`
	YearSales  decimal.Decimal `json:"yearSales"`
}

// Service derives read-only summaries from the repositories.
type Service struct {
	orders    *orders.Service
	ordersRaw orders.Repository
	customers customers.Repository
	products  products.Repository
	nowFunc   func() time.Time
}

func NewService(orderSvc *orders.Service, orderRepo orders.Repository, customerRepo customers.Repository, productRepo products.Repository) *Service {
	return &Service{
		orders:    orderSvc,
		ordersRaw: orderRepo,
		customers: customerRepo,
		products:  productRepo,
		nowFunc:   time.Now,
	}
}

// Stats computes totals over every stored record.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	all, err := s.ordersRaw.List(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("list orders: %w", err)
	}
	cs, err := s.customers.List(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("list customers: %w", err)
	}
	ps, err := s.products.List(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("list products: %w", err)
	}

	revenue := sumTotals(all)
	return Stats{
		TotalOrders:       len(all),
		TotalCustomers:    len(cs),
		TotalProducts:     len(ps),
		TotalRevenue:      revenue,
		AverageOrderValue: average(revenue, len(all)),
		OrdersByStatus:    countByStatus(all),
	}, nil
}

// RecentOrders returns the newest orders, newest first.
func (s *Service) RecentOrders(ctx context.Context) ([]orders.Order, error) {
	return s.orders.Recent(ctx, RecentLimit)
}

// Analytics summarises orders whose order date lies in [start, end].
// A zero start or end leaves that side of the window open.
func (s *Service) Analytics(ctx context.Context, start, end time.Time) (Analytics, error) {
	all, err := s.ordersRaw.List(ctx)
	if err != nil {
		return Analytics{}, fmt.Errorf("list orders: %w", err)
	}

	window := make([]orders.Order, 0, len(all))
	for _, o := range all {
		if !start.IsZero() && o.OrderDate.Before(start) {
			continue
		}
		if !end.IsZero() && o.OrderDate.After(end) {
			continue
		}
		window = append(window, o)
	}

	total := sumTotals(window)
	out := Analytics{
		TotalSales:        total,
		TotalOrders:       len(window),
		AverageOrderValue: average(total, len(window)),
		SalesByDate:       salesByDate(window),
		OrdersByStatus:    countByStatus(window),
		TopProducts:       topProducts(window),
		TopCustomers:      topCustomers(window),
	}
	if !start.IsZero() {
		out.Start = &start
	}
	if !end.IsZero() {
		out.End = &end
	}
	return out, nil
}

// SalesMetrics sums order totals over the calendar periods containing today.
func (s *Service) SalesMetrics(ctx context.Context) (SalesMetrics, error) {
	all, err := s.ordersRaw.List(ctx)
	if err != nil {
		return SalesMetrics{}, fmt.Errorf("list orders: %w", err)
	}

	now := s.nowFunc().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	end := today.AddDate(0, 0, 1)
	sales := func(from time.Time) decimal.Decimal {
		sum := decimal.Zero
		for _, o := range all {
			if !o.OrderDate.Before(from) && o.OrderDate.Before(end) {
				sum = sum.Add(o.Total)
			}
		}
		return sum
	}

	return SalesMetrics{
		TodaySales: sales(today),
		WeekSales:  sales(today.AddDate(0, 0, -daysSinceMonday(today))),
		MonthSales: sales(time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)),
		YearSales:  sales(time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)),
	}, nil
}

func daysSinceMonday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

func sumTotals(list []orders.Order) decimal.Decimal {
	sum := decimal.Zero
	for _, o := range list {
		sum = sum.Add(o.Total)
	}
	return sum
}

// average rounds to cents; an empty set averages to zero.
func average(sum decimal.Decimal, n int) decimal.Decimal {
	if n == 0 {
		return decimal.Zero
	}
	return sum.DivRound(decimal.NewFromInt(int64(n)), 2)
}

// countByStatus always reports every status, zero counts included.
func countByStatus(list []orders.Order) map[string]int {
	out := make(map[string]int, len(orders.Statuses))
	for _, st := range orders.Statuses {
		out[st] = 0
	}
	for _, o := range list {
		out[o.Status]++
	}
	return out
}

func salesByDate(list []orders.Order) []DailySales {
	byDay := map[string]*DailySales{}
	for _, o := range list {
		day := o.OrderDate.UTC().Format(time.DateOnly)
		d, ok := byDay[day]
		if !ok {
			d = &DailySales{Date: day, Sales: decimal.Zero}
			byDay[day] = d
		}
		d.Sales = d.Sales.Add(o.Total)
		d.Orders++
	}

	out := make([]DailySales, 0, len(byDay))
	for _, d := range byDay {
		out = append(out, *d)
	}
	slices.SortFunc(out, func(a, b DailySales) int { return cmp.Compare(a.Date, b.Date) })
	return out
}

func topProducts(list []orders.Order) []TopProduct {
	byID := map[int64]*TopProduct{}
	for _, o := range list {
		for _, it := range o.OrderItems {
			p, ok := byID[it.Product.ID]
			if !ok {
				p = &TopProduct{ProductID: it.Product.ID, Name: it.Product.Name, Revenue: decimal.Zero}
				byID[it.Product.ID] = p
			}
			p.Quantity += it.Quantity
			p.Revenue = p.Revenue.Add(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))))
		}
	}

	out := make([]TopProduct, 0, len(byID))
	for _, p := range byID {
		out = append(out, *p)
	}
	slices.SortFunc(out, func(a, b TopProduct) int {
		if c := cmp.Compare(b.Quantity, a.Quantity); c != 0 {
			return c
		}
		if c := b.Revenue.Cmp(a.Revenue); c != 0 {
			return c
		}
		return cmp.Compare(a.ProductID, b.ProductID)
	})
	return out[:min(len(out), TopLimit)]
}

func topCustomers(list []orders.Order) []TopCustomer {
	byID := map[int64]*TopCustomer{}
	for _, o := range list {
		c, ok := byID[o.Customer.ID]
		if !ok {
			c = &TopCustomer{CustomerID: o.Customer.ID, Name: o.Customer.Name, TotalSpent: decimal.Zero}
			byID[o.Customer.ID] = c
		}
		c.Orders++
		c.TotalSpent = c.TotalSpent.Add(o.Total)
	}

	out := make([]TopCustomer, 0, len(byID))
	for _, c := range byID {
		out = append(out, *c)
	}
	slices.SortFunc(out, func(a, b TopCustomer) int {
		if c := b.TotalSpent.Cmp(a.TotalSpent); c != 0 {
			return c
		}
		return cmp.Compare(a.CustomerID, b.CustomerID)
	})
	return out[:min(len(out), TopLimit)]
}
