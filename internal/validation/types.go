package validation

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item represents a single requested order line.
type Item struct {
	ProductID int64            `json:"productId" validate:"required,gt=0"`
	Quantity  int              `json:"quantity" validate:"required,min=1"` // must be >= 1
	UnitPrice *decimal.Decimal `json:"unitPrice,omitempty"`                // defaults to catalog price
}

// CreateOrderRequest is the payload for POST /api/orders
type CreateOrderRequest struct {
	CustomerID           int64      `json:"customerId" validate:"required,gt=0"`
	ExpectedDeliveryDate *time.Time `json:"expectedDeliveryDate" validate:"required"`
	OrderItems           []Item     `json:"orderItems" validate:"required,min=1,dive"` // at least one item
}

// UpdateStatusRequest is the payload for PATCH /api/orders/:id/status
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=PENDING CONFIRMED SHIPPED DELIVERED CANCELLED"`
}

// AddressRequest mirrors customers.Address on the wire.
type AddressRequest struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
}

// CreateCustomerRequest is the payload for POST /api/customers
type CreateCustomerRequest struct {
	Name    string         `json:"name" validate:"required"`
	Email   string         `json:"email" validate:"required,email"`
	Phone   string         `json:"phone" validate:"required"`
	Company string         `json:"company"`
	Address AddressRequest `json:"address"`
	Notes   string         `json:"notes"`
}

// ListQuery carries the paging query string shared by every list endpoint.
type ListQuery struct {
	Page   int    `form:"page" json:"page" validate:"min=0"`
	Size   int    `form:"size" json:"size" validate:"omitempty,min=1,max=100"`
	Search string `form:"search" json:"search"`
	Status string `form:"status" json:"status" validate:"omitempty,oneof=PENDING CONFIRMED SHIPPED DELIVERED CANCELLED"`
}

// AnalyticsQuery bounds the analytics window. Both ends are optional.
type AnalyticsQuery struct {
	Start string `form:"start" json:"start"`
	End   string `form:"end" json:"end"`
}

// ProfileRequest is the payload for PUT /api/settings/profile
type ProfileRequest struct {
	Username string `json:"username" validate:"required,min=2"`
	Email    string `json:"email" validate:"required,email"`
	Bio      string `json:"bio" validate:"max=160"`
}

// CompanyRequest is the payload for PUT /api/settings/company
type CompanyRequest struct {
	Name    string `json:"name" validate:"required,min=2"`
	Website string `json:"website" validate:"omitempty,url"`
	Address string `json:"address" validate:"required,min=5"`
	TaxID   string `json:"taxId"`
}
