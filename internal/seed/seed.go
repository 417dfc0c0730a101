// Package seed holds the canned dashboard records loaded at startup.
package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/imrishuroy/go-sales-orders/internal/accounts"
	"github.com/imrishuroy/go-sales-orders/internal/customers"
	"github.com/imrishuroy/go-sales-orders/internal/idgen"
	"github.com/imrishuroy/go-sales-orders/internal/orders"
	"github.com/imrishuroy/go-sales-orders/internal/products"
	"github.com/imrishuroy/go-sales-orders/internal/repository"
)

// deliveryWindow separates a seeded order date from its expected delivery.
const deliveryWindow = 7 * 24 * time.Hour

// Data is a full set of canned records.
type Data struct {
	Admin     accounts.User
	Profile   accounts.Profile
	Company   accounts.Company
	Customers []customers.Customer
	Products  []products.Product
	Orders    []orders.Order
}

// Default returns the demo data set: one admin, three customers, eight
// products and four orders. Order totals are priced with orders.Price.
func Default() Data {
	admin := accounts.User{ID: 1, Name: "Admin User", Email: "admin@example.com", Role: accounts.RoleAdmin}

	cs := []customers.Customer{
		{
			ID: 1, Name: "Acme Corporation", Email: "contact@acme.com", Phone: "555-123-4567", Company: "Acme Corp",
			Address:    customers.Address{Street: "123 Main St", City: "Anytown", State: "CA", ZipCode: "12345", Country: "USA"},
			OrderCount: 5,
		},
		{
			ID: 2, Name: "Globex Industries", Email: "info@globex.com", Phone: "555-987-6543", Company: "Globex",
			Address:    customers.Address{Street: "456 Tech Blvd", City: "Silicon Valley", State: "CA", ZipCode: "94123", Country: "USA"},
			OrderCount: 3,
		},
		{
			ID: 3, Name: "Stark Enterprises", Email: "sales@stark.com", Phone: "555-789-0123", Company: "Stark",
			Address:    customers.Address{Street: "789 Innovation Way", City: "Metropolis", State: "NY", ZipCode: "10001", Country: "USA"},
			OrderCount: 8,
		},
	}

	ps := []products.Product{
		product(1, "Premium T-Shirt", "High-quality cotton t-shirt", "TS-001", "ST-1001", "Apparel", "29.99", 100),
		product(2, "Designer Jeans", "Slim fit designer jeans", "DJ-002", "ST-2002", "Apparel", "89.99", 50),
		product(3, "Leather Jacket", "Genuine leather jacket", "LJ-003", "ST-3003", "Outerwear", "199.99", 25),
		product(4, "Running Shoes", "Lightweight running shoes", "RS-004", "ST-4004", "Footwear", "119.99", 75),
		product(5, "Winter Coat", "Warm winter coat with hood", "WC-005", "ST-5005", "Outerwear", "149.99", 30),
		product(6, "Casual Socks", "Pack of 5 casual socks", "CS-006", "ST-6006", "Accessories", "14.99", 200),
		product(7, "Dress Shirt", "Formal dress shirt", "DS-007", "ST-7007", "Apparel", "59.99", 80),
		product(8, "Sunglasses", "UV protection sunglasses", "SG-008", "ST-8008", "Accessories", "79.99", 40),
	}

	type line struct {
		itemID  int64
		product int
		qty     int
	}
	mk := func(id int64, c customers.Customer, placed string, status string, lines ...line) orders.Order {
		date, err := time.Parse(time.RFC3339, placed)
		if err != nil {
			panic(err)
		}
		items := make([]orders.OrderItem, len(lines))
		for i, l := range lines {
			p := ps[l.product-1]
			items[i] = orders.OrderItem{ID: l.itemID, Product: p, Quantity: l.qty, UnitPrice: p.Price}
		}
		t := orders.Price(orders.LinesOf(items))
		return orders.Order{
			ID:                   id,
			Customer:             c,
			OrderDate:            date,
			ExpectedDeliveryDate: date.Add(deliveryWindow),
			Status:               status,
			OrderItems:           items,
			Subtotal:             t.Subtotal,
			Tax:                  t.Tax,
			ShippingCost:         t.ShippingCost,
			Total:                t.Total,
			SalesRepresentative:  admin,
			BillingAddress:       c.Address,
			ShippingAddress:      c.Address,
		}
	}

	placed := []orders.Order{
		mk(1, cs[0], "2023-05-15T10:30:00Z", orders.StatusDelivered, line{1, 1, 2}, line{2, 2, 1}),
		mk(2, cs[1], "2023-05-16T14:45:00Z", orders.StatusShipped, line{3, 3, 1}),
		mk(3, cs[2], "2023-05-17T09:15:00Z", orders.StatusConfirmed, line{4, 4, 2}, line{5, 5, 1}, line{6, 6, 3}),
		mk(4, cs[0], "2023-05-18T16:30:00Z", orders.StatusPending, line{7, 7, 1}, line{8, 8, 1}),
	}

	return Data{
		Admin: admin,
		Profile: accounts.Profile{
			Username: "johndoe",
			Email:    "john.doe@example.com",
			Bio:      "I'm a sales manager with over 5 years of experience in the industry.",
		},
		Company: accounts.Company{
			Name:    "Acme Inc.",
			Website: "https://acme.com",
			Address: "123 Main St, Anytown, USA",
			TaxID:   "123-45-6789",
		},
		Customers: cs,
		Products:  ps,
		Orders:    placed,
	}
}

// Settings returns the seeded profile and company as the default settings record.
func (d Data) Settings() accounts.Settings {
	return accounts.Settings{ID: accounts.SettingsID, Profile: d.Profile, Company: d.Company}
}

func product(id int64, name, desc, sku, style, category, price string, stock int) products.Product {
	return products.Product{
		ID:            id,
		Name:          name,
		Description:   desc,
		SKU:           sku,
		StyleNumber:   style,
		Category:      category,
		Price:         decimal.RequireFromString(price),
		StockQuantity: stock,
	}
}

// Load inserts d into the repositories and raises the id sequences past
// every seeded id. Records that already exist are left untouched, so Load
// is safe to run against a table that was seeded before.
func Load(
	ctx context.Context,
	d Data,
	customerRepo customers.Repository,
	productRepo products.Repository,
	orderRepo orders.Repository,
	seq idgen.Sequence,
) error {
	var maxCustomer, maxOrder, maxItem int64

	for _, c := range d.Customers {
		if err := insert(ctx, customerRepo, c); err != nil {
			return fmt.Errorf("seed customer %d: %w", c.ID, err)
		}
		maxCustomer = max(maxCustomer, c.ID)
	}
	for _, p := range d.Products {
		if err := insert(ctx, productRepo, p); err != nil {
			return fmt.Errorf("seed product %d: %w", p.ID, err)
		}
	}
	for _, o := range d.Orders {
		if err := insert(ctx, orderRepo, o); err != nil {
			return fmt.Errorf("seed order %d: %w", o.ID, err)
		}
		maxOrder = max(maxOrder, o.ID)
		for _, it := range o.OrderItems {
			maxItem = max(maxItem, it.ID)
		}
	}

	for name, n := range map[string]int64{
		idgen.Customers:  maxCustomer,
		idgen.Orders:     maxOrder,
		idgen.OrderItems: maxItem,
	} {
		if err := seq.EnsureAtLeast(ctx, name, n); err != nil {
			return fmt.Errorf("raise %s sequence: %w", name, err)
		}
	}

	zap.L().Info("seed data loaded",
		zap.Int("customers", len(d.Customers)),
		zap.Int("products", len(d.Products)),
		zap.Int("orders", len(d.Orders)),
	)
	return nil
}

func insert[T any](ctx context.Context, repo repository.Repository[T], item T) error {
	err := repo.Insert(ctx, item)
	if errors.Is(err, repository.ErrExists) {
		return nil
	}
	return err
}
