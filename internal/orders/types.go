package orders

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/imrishuroy/go-sales-orders/internal/accounts"
	"github.com/imrishuroy/go-sales-orders/internal/customers"
	"github.com/imrishuroy/go-sales-orders/internal/products"
)

// Order statuses. Any status may move to any other.
const (
	StatusPending   = "PENDING"
	StatusConfirmed = "CONFIRMED"
	StatusShipped   = "SHIPPED"
	StatusDelivered = "DELIVERED"
	StatusCancelled = "CANCELLED"
)

// Statuses lists every order status in lifecycle order.
var Statuses = []string{StatusPending, StatusConfirmed, StatusShipped, StatusDelivered, StatusCancelled}

// ValidStatus reports whether s is a known order status.
func ValidStatus(s string) bool {
	return slices.Contains(Statuses, s)
}

// OrderItem is one order line. Product is a copy taken when the order was
// placed; later catalog changes do not reach it.
type OrderItem struct {
	ID        int64            `json:"id"`
	Product   products.Product `json:"product"`
	Quantity  int              `json:"quantity"`
	UnitPrice decimal.Decimal  `json:"unitPrice"`
}

// Order is a placed sales order. Customer, SalesRepresentative and both
// addresses are snapshots. Money fields are computed once at creation.
type Order struct {
	ID                   int64              `json:"id"`
	Customer             customers.Customer `json:"customer"`
	OrderDate            time.Time          `json:"orderDate"`
	ExpectedDeliveryDate time.Time          `json:"expectedDeliveryDate"`
	Status               string             `json:"status"`
	OrderItems           []OrderItem        `json:"orderItems"`
	Subtotal             decimal.Decimal    `json:"subtotal"`
	Tax                  decimal.Decimal    `json:"tax"`
	ShippingCost         decimal.Decimal    `json:"shippingCost"`
	Total                decimal.Decimal    `json:"total"`
	SalesRepresentative  accounts.User      `json:"salesRepresentative"`
	BillingAddress       customers.Address  `json:"billingAddress"`
	ShippingAddress      customers.Address  `json:"shippingAddress"`
}

// Clone returns a copy that shares no slices with o.
func (o Order) Clone() Order {
	o.OrderItems = slices.Clone(o.OrderItems)
	return o
}
