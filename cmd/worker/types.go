package main

// CloudWatch metric names and dimensions written by the worker.
const (
	MetricOrdersCreated      = "OrdersCreated"
	MetricOrderRevenue       = "OrderRevenue"
	MetricOrderItems         = "OrderItems"
	MetricOrderStatusChanged = "OrderStatusChanged"
	MetricCustomersCreated   = "CustomersCreated"

	DimensionStatus = "Status"
)

// dedupScope namespaces processed event ids in the idempotency store.
const dedupScope = "events"
