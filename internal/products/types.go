package products

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry. Products are read-only once loaded.
type Product struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	SKU           string          `json:"sku"`
	StyleNumber   string          `json:"styleNumber"`
	Category      string          `json:"category"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stockQuantity"`
}

// Item is the DynamoDB shape of a Product. Price is stored as a decimal
// string so it round-trips without float error.
type Item struct {
	ID            int64  `dynamodbav:"id"` // PK
	Name          string `dynamodbav:"name"`
	Description   string `dynamodbav:"description,omitempty"`
	SKU           string `dynamodbav:"sku"`
	StyleNumber   string `dynamodbav:"style_number"`
	Category      string `dynamodbav:"category"`
	Price         string `dynamodbav:"price"`
	StockQuantity int    `dynamodbav:"stock_quantity"`
}

// ToItem converts a Product to its stored shape.
func ToItem(p Product) Item {
	return Item{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		SKU:           p.SKU,
		StyleNumber:   p.StyleNumber,
		Category:      p.Category,
		Price:         p.Price.String(),
		StockQuantity: p.StockQuantity,
	}
}

// FromItem converts a stored item back to a Product.
func FromItem(it Item) (Product, error) {
	price, err := decimal.NewFromString(it.Price)
	if err != nil {
		return Product{}, fmt.Errorf("product %d: price %q: %w", it.ID, it.Price, err)
	}
	return Product{
		ID:            it.ID,
		Name:          it.Name,
		Description:   it.Description,
		SKU:           it.SKU,
		StyleNumber:   it.StyleNumber,
		Category:      it.Category,
		Price:         price,
		StockQuantity: it.StockQuantity,
	}, nil
}
