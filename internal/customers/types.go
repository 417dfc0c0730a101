package customers

// Address is embedded by value in customers and orders.
type Address struct {
	Street  string `json:"street" dynamodbav:"street"`
	City    string `json:"city" dynamodbav:"city"`
	State   string `json:"state" dynamodbav:"state"`
	ZipCode string `json:"zipCode" dynamodbav:"zip_code"`
	Country string `json:"country" dynamodbav:"country"`
}

// Customer is a buyer account. OrderCount is a display counter only and is
// not recomputed when orders are created.
type Customer struct {
	ID         int64   `json:"id" dynamodbav:"id"` // PK
	Name       string  `json:"name" dynamodbav:"name"`
	Email      string  `json:"email" dynamodbav:"email"`
	Phone      string  `json:"phone" dynamodbav:"phone"`
	Company    string  `json:"company" dynamodbav:"company"`
	Address    Address `json:"address" dynamodbav:"address"`
	Notes      string  `json:"notes,omitempty" dynamodbav:"notes,omitempty"`
	OrderCount int     `json:"orderCount" dynamodbav:"order_count"`
}

// NewCustomer is the input to Service.Create.
type NewCustomer struct {
	Name    string  `validate:"required"`
	Email   string  `validate:"required,email"`
	Phone   string  `validate:"required"`
	Company string
	Address Address
	Notes   string
}
