package main

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imrishuroy/go-sales-orders/internal/aws"
	domain "github.com/imrishuroy/go-sales-orders/internal/events"
	"github.com/imrishuroy/go-sales-orders/internal/idempotency"
)

// --- mock implementations ---

type mockCloudWatch struct {
	calls []*cloudwatch.PutMetricDataInput
	err   error
}

func (m *mockCloudWatch) PutMetricData(ctx context.Context, in *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.calls = append(m.calls, in)
	return &cloudwatch.PutMetricDataOutput{}, nil
}

func (m *mockCloudWatch) datums() []cwtypes.MetricDatum {
	var out []cwtypes.MetricDatum
	for _, c := range m.calls {
		out = append(out, c.MetricData...)
	}
	return out
}

func newTestProcessor() (*Processor, *mockCloudWatch, *idempotency.MemoryStore) {
	cw := &mockCloudWatch{}
	seen := idempotency.NewMemoryStore(time.Hour)
	return NewProcessor(aws.NewMetrics(cw, "Test"), seen), cw, seen
}

func sqsEvent(t *testing.T, evs ...domain.Event) events.SQSEvent {
	t.Helper()
	var out events.SQSEvent
	for i, ev := range evs {
		b, err := json.Marshal(ev)
		require.NoError(t, err)
		out.Records = append(out.Records, events.SQSMessage{MessageId: ev.ID + "-" + string(rune('a'+i)), Body: string(b)})
	}
	return out
}

func orderCreated(id string) domain.Event {
	ev := domain.New(domain.TypeOrderCreated)
	ev.ID = id
	ev.OrderID = 5
	ev.Total = decimal.RequireFromString("179.967")
	ev.ItemCount = 2
	return ev
}

func metricValue(t *testing.T, datums []cwtypes.MetricDatum, name string) float64 {
	t.Helper()
	var sum float64
	found := false
	for _, d := range datums {
		if d.MetricName != nil && *d.MetricName == name {
			found = true
			sum += *d.Value
		}
	}
	if !found {
		t.Fatalf("metric %s not emitted", name)
	}
	return sum
}

// --- test cases ---

func TestProcessor_EmitsMetrics(t *testing.T) {
	p, cw, _ := newTestProcessor()

	status := domain.New(domain.TypeOrderStatusChanged)
	status.OrderID = 1
	status.Status = "SHIPPED"
	customer := domain.New(domain.TypeCustomerCreated)
	customer.CustomerID = 4

	err := p.Handle(context.Background(), sqsEvent(t, orderCreated("e1"), status, customer))
	require.NoError(t, err)
	require.Len(t, cw.calls, 1)
	assert.Equal(t, "Test", *cw.calls[0].Namespace)

	datums := cw.datums()
	assert.Equal(t, 1.0, metricValue(t, datums, MetricOrdersCreated))
	assert.InDelta(t, 179.967, metricValue(t, datums, MetricOrderRevenue), 1e-9)
	assert.Equal(t, 2.0, metricValue(t, datums, MetricOrderItems))
	assert.Equal(t, 1.0, metricValue(t, datums, MetricCustomersCreated))

	for _, d := range datums {
		if *d.MetricName == MetricOrderStatusChanged {
			require.Len(t, d.Dimensions, 1)
			assert.Equal(t, DimensionStatus, *d.Dimensions[0].Name)
			assert.Equal(t, "SHIPPED", *d.Dimensions[0].Value)
		}
	}
}

func TestProcessor_DuplicateEventCountedOnce(t *testing.T) {
	p, cw, seen := newTestProcessor()
	ctx := context.Background()

	require.NoError(t, p.Handle(ctx, sqsEvent(t, orderCreated("dup"))))
	require.NoError(t, p.Handle(ctx, sqsEvent(t, orderCreated("dup"))))

	assert.Equal(t, 1.0, metricValue(t, cw.datums(), MetricOrdersCreated))

	rec, err := seen.Get(ctx, dedupScope+":dup")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, idempotency.StatusDone, rec.Status)
}

func TestProcessor_RetriesAfterMetricsFailure(t *testing.T) {
	p, cw, seen := newTestProcessor()
	ctx := context.Background()

	cw.err = errors.New("throttled")
	err := p.Handle(ctx, sqsEvent(t, orderCreated("retry")))
	require.Error(t, err)

	rec, err := seen.Get(ctx, dedupScope+":retry")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.NotEqual(t, idempotency.StatusDone, rec.Status)

	// redelivery after the outage is counted
	cw.err = nil
	require.NoError(t, p.Handle(ctx, sqsEvent(t, orderCreated("retry"))))
	assert.Equal(t, 1.0, metricValue(t, cw.datums(), MetricOrdersCreated))
}

func TestProcessor_SkipsEventClaimedByConcurrentDelivery(t *testing.T) {
	p, cw, seen := newTestProcessor()
	ctx := context.Background()

	// another invocation is counting the same event right now
	created, err := seen.CreateIfNotExists(ctx, idempotency.NewClaim(dedupScope+":busy", ""))
	require.NoError(t, err)
	require.True(t, created)

	require.NoError(t, p.Handle(ctx, sqsEvent(t, orderCreated("busy"))))
	assert.Empty(t, cw.datums())
}

func TestProcessor_MalformedBodyReleasesEarlierClaims(t *testing.T) {
	p, cw, _ := newTestProcessor()
	ctx := context.Background()

	good := sqsEvent(t, orderCreated("first"))
	batch := events.SQSEvent{Records: append(good.Records, events.SQSMessage{MessageId: "bad", Body: "{not json"})}
	require.Error(t, p.Handle(ctx, batch))
	assert.Empty(t, cw.calls)

	// the redelivered good message is still counted
	require.NoError(t, p.Handle(ctx, sqsEvent(t, orderCreated("first"))))
	assert.Equal(t, 1.0, metricValue(t, cw.datums(), MetricOrdersCreated))
}

func TestProcessor_MalformedBodyFailsBatch(t *testing.T) {
	p, cw, _ := newTestProcessor()

	ev := events.SQSEvent{Records: []events.SQSMessage{{MessageId: "bad", Body: "{not json"}}}
	if err := p.Handle(context.Background(), ev); err == nil {
		t.Fatalf("expected error for malformed body")
	}

	ev = events.SQSEvent{Records: []events.SQSMessage{{MessageId: "noid", Body: `{"type":"order.created"}`}}}
	if err := p.Handle(context.Background(), ev); err == nil {
		t.Fatalf("expected error for missing event id")
	}
	if len(cw.calls) != 0 {
		t.Fatalf("expected no metric calls, got %d", len(cw.calls))
	}
}

func TestProcessor_UnknownTypeSkipped(t *testing.T) {
	p, cw, _ := newTestProcessor()

	ev := domain.New("inventory.adjusted")
	if err := p.Handle(context.Background(), sqsEvent(t, ev)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cw.datums()) != 0 {
		t.Fatalf("expected no datums, got %d", len(cw.datums()))
	}
}

func TestProcessor_DuplicateWithinBatch(t *testing.T) {
	p, cw, _ := newTestProcessor()

	require.NoError(t, p.Handle(context.Background(), sqsEvent(t, orderCreated("twice"), orderCreated("twice"))))
	assert.Equal(t, 1.0, metricValue(t, cw.datums(), MetricOrdersCreated))
}
