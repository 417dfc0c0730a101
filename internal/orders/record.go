package orders

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/imrishuroy/go-sales-orders/internal/accounts"
	"github.com/imrishuroy/go-sales-orders/internal/customers"
	"github.com/imrishuroy/go-sales-orders/internal/products"
	"github.com/imrishuroy/go-sales-orders/internal/repository"
)

// Record represents the item stored in the Orders DynamoDB table.
// Money is kept as decimal strings.
type Record struct {
	ID                   int64              `dynamodbav:"id"` // PK
	Customer             customers.Customer `dynamodbav:"customer"`
	OrderDate            time.Time          `dynamodbav:"order_date"`
	ExpectedDeliveryDate time.Time          `dynamodbav:"expected_delivery_date"`
	Status               string             `dynamodbav:"status"` // PENDING | CONFIRMED | SHIPPED | DELIVERED | CANCELLED
	Items                []ItemRecord       `dynamodbav:"items"`
	Subtotal             string             `dynamodbav:"subtotal"`
	Tax                  string             `dynamodbav:"tax"`
	ShippingCost         string             `dynamodbav:"shipping_cost"`
	Total                string             `dynamodbav:"total"`
	SalesRepresentative  accounts.User      `dynamodbav:"sales_representative"`
	BillingAddress       customers.Address  `dynamodbav:"billing_address"`
	ShippingAddress      customers.Address  `dynamodbav:"shipping_address"`
}

// ItemRecord is the stored shape of one order line.
type ItemRecord struct {
	ID        int64         `dynamodbav:"id"`
	Product   products.Item `dynamodbav:"product"`
	Quantity  int           `dynamodbav:"quantity"`
	UnitPrice string        `dynamodbav:"unit_price"`
}

func toRecord(o Order) Record {
	items := make([]ItemRecord, len(o.OrderItems))
	for i, it := range o.OrderItems {
		items[i] = ItemRecord{
			ID:        it.ID,
			Product:   products.ToItem(it.Product),
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice.String(),
		}
	}
	return Record{
		ID:                   o.ID,
		Customer:             o.Customer,
		OrderDate:            o.OrderDate,
		ExpectedDeliveryDate: o.ExpectedDeliveryDate,
		Status:               o.Status,
		Items:                items,
		Subtotal:             o.Subtotal.String(),
		Tax:                  o.Tax.String(),
		ShippingCost:         o.ShippingCost.String(),
		Total:                o.Total.String(),
		SalesRepresentative:  o.SalesRepresentative,
		BillingAddress:       o.BillingAddress,
		ShippingAddress:      o.ShippingAddress,
	}
}

func fromRecord(r Record) (Order, error) {
	m := moneyParser{order: r.ID}
	items := make([]OrderItem, len(r.Items))
	for i, it := range r.Items {
		p, err := products.FromItem(it.Product)
		if err != nil {
			return Order{}, fmt.Errorf("order %d item %d: %w", r.ID, it.ID, err)
		}
		items[i] = OrderItem{
			ID:        it.ID,
			Product:   p,
			Quantity:  it.Quantity,
			UnitPrice: m.parse("unit_price", it.UnitPrice),
		}
	}
	o := Order{
		ID:                   r.ID,
		Customer:             r.Customer,
		OrderDate:            r.OrderDate,
		ExpectedDeliveryDate: r.ExpectedDeliveryDate,
		Status:               r.Status,
		OrderItems:           items,
		Subtotal:             m.parse("subtotal", r.Subtotal),
		Tax:                  m.parse("tax", r.Tax),
		ShippingCost:         m.parse("shipping_cost", r.ShippingCost),
		Total:                m.parse("total", r.Total),
		SalesRepresentative:  r.SalesRepresentative,
		BillingAddress:       r.BillingAddress,
		ShippingAddress:      r.ShippingAddress,
	}
	if m.err != nil {
		return Order{}, m.err
	}
	return o, nil
}

// moneyParser keeps the first decode error so a record is parsed in one pass.
type moneyParser struct {
	order int64
	err   error
}

func (m *moneyParser) parse(field, s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil && m.err == nil {
		m.err = fmt.Errorf("order %d: %s %q: %w", m.order, field, s, err)
	}
	return d
}

// Codec maps orders onto DynamoDB items.
func Codec() repository.Codec[Order, Record] {
	return repository.Codec[Order, Record]{
		ID:       func(o Order) int64 { return o.ID },
		ToItem:   toRecord,
		FromItem: fromRecord,
	}
}

// NewMemoryRepository returns an empty in-memory order collection that
// copies item slices on the way in and out.
func NewMemoryRepository() *repository.Memory[Order] {
	return repository.NewMemory(func(o Order) int64 { return o.ID }, Order.Clone)
}
