package seed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imrishuroy/go-sales-orders/internal/customers"
	"github.com/imrishuroy/go-sales-orders/internal/idgen"
	"github.com/imrishuroy/go-sales-orders/internal/orders"
	"github.com/imrishuroy/go-sales-orders/internal/products"
)

func TestDefault_OrdersArePriced(t *testing.T) {
	for _, o := range Default().Orders {
		want := orders.Price(orders.LinesOf(o.OrderItems))
		assert.True(t, o.Total.Equal(want.Total), "order %d total %s", o.ID, o.Total)
		assert.True(t, o.Total.Equal(o.Subtotal.Add(o.Tax).Add(o.ShippingCost)))
		assert.Equal(t, o.Customer.Address, o.ShippingAddress)
	}
}

func TestLoad_RaisesSequencesAndIsRepeatable(t *testing.T) {
	ctx := context.Background()
	cs := customers.NewMemoryRepository()
	ps := products.NewMemoryRepository()
	ords := orders.NewMemoryRepository()
	seq := idgen.NewCounter()

	require.NoError(t, Load(ctx, Default(), cs, ps, ords, seq))
	require.NoError(t, Load(ctx, Default(), cs, ps, ords, seq))

	assert.Equal(t, 3, cs.Len())
	assert.Equal(t, 8, ps.Len())
	assert.Equal(t, 4, ords.Len())

	next, err := seq.Next(ctx, idgen.Orders)
	require.NoError(t, err)
	assert.Equal(t, int64(5), next)

	next, err = seq.Next(ctx, idgen.OrderItems)
	require.NoError(t, err)
	assert.Equal(t, int64(9), next)

	next, err = seq.Next(ctx, idgen.Customers)
	require.NoError(t, err)
	assert.Equal(t, int64(4), next)
}
