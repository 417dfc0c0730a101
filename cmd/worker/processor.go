package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-lambda-go/events"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"go.uber.org/zap"

	"github.com/imrishuroy/go-sales-orders/internal/aws"
	domain "github.com/imrishuroy/go-sales-orders/internal/events"
	"github.com/imrishuroy/go-sales-orders/internal/idempotency"
)

// Processor turns domain events from SQS into CloudWatch business metrics.
type Processor struct {
	metrics *aws.Metrics
	seen    idempotency.Store
}

// NewProcessor creates a new worker processor. seen records which event
// ids were already counted so redelivered messages are not double counted.
// An event whose claim is IN_PROGRESS is being counted by a concurrent
// delivery and is skipped; a claim abandoned past its lease is taken over.
func NewProcessor(metrics *aws.Metrics, seen idempotency.Store) *Processor {
	return &Processor{metrics: metrics, seen: seen}
}

// Handle receives an SQS batch event and processes each message.
// Any malformed message fails the whole batch so Lambda retries it; after
// too many attempts SQS moves it to the DLQ.
func (p *Processor) Handle(ctx context.Context, ev events.SQSEvent) error {
	zap.L().Debug("received SQS batch", zap.Int("records", len(ev.Records)))

	var (
		datums  []cwtypes.MetricDatum
		claimed []string
	)
	for _, rec := range ev.Records {
		var msg domain.Event
		if err := json.Unmarshal([]byte(rec.Body), &msg); err != nil {
			p.release(ctx, claimed)
			return fmt.Errorf("invalid message body %s: %w", rec.MessageId, err)
		}
		if msg.ID == "" {
			p.release(ctx, claimed)
			return fmt.Errorf("message %s has no event id", rec.MessageId)
		}

		key := dedupScope + ":" + msg.ID
		fresh, err := p.seen.CreateIfNotExists(ctx, idempotency.NewClaim(key, ""))
		if err != nil {
			p.release(ctx, claimed)
			return fmt.Errorf("claim %s: %w", key, err)
		}
		if !fresh {
			zap.L().Info("skipping event counted or being counted elsewhere", zap.String("event_id", msg.ID))
			continue
		}
		claimed = append(claimed, key)

		d, ok := toMetrics(msg)
		if !ok {
			zap.L().Warn("ignoring unknown event type", zap.String("type", msg.Type), zap.String("event_id", msg.ID))
		}
		datums = append(datums, d...)
	}

	if err := p.metrics.Put(ctx, datums); err != nil {
		p.release(ctx, claimed)
		return err
	}
	for _, key := range claimed {
		if err := p.seen.MarkDone(ctx, key, "", 0); err != nil {
			zap.L().Error("mark event done", zap.String("key", key), zap.Error(err))
		}
	}

	zap.L().Info("recorded metrics", zap.Int("events", len(claimed)), zap.Int("datums", len(datums)))
	return nil
}

// release frees the claims of a batch that will be redelivered, so the
// retry counts those events instead of waiting out the lease.
func (p *Processor) release(ctx context.Context, keys []string) {
	ctx = context.WithoutCancel(ctx)
	for _, key := range keys {
		if err := p.seen.Release(ctx, key); err != nil {
			zap.L().Error("release event claim", zap.String("key", key), zap.Error(err))
		}
	}
}

func toMetrics(ev domain.Event) ([]cwtypes.MetricDatum, bool) {
	ts := ev.OccurredAt
	count := func(name string, dims ...cwtypes.Dimension) cwtypes.MetricDatum {
		return cwtypes.MetricDatum{
			MetricName: &name,
			Dimensions: dims,
			Timestamp:  &ts,
			Unit:       cwtypes.StandardUnitCount,
			Value:      float64Ptr(1),
		}
	}

	switch ev.Type {
	case domain.TypeOrderCreated:
		revenue := ev.Total.InexactFloat64()
		items := float64(ev.ItemCount)
		return []cwtypes.MetricDatum{
			count(MetricOrdersCreated),
			{MetricName: strPtr(MetricOrderRevenue), Timestamp: &ts, Unit: cwtypes.StandardUnitNone, Value: &revenue},
			{MetricName: strPtr(MetricOrderItems), Timestamp: &ts, Unit: cwtypes.StandardUnitCount, Value: &items},
		}, true
	case domain.TypeOrderStatusChanged:
		return []cwtypes.MetricDatum{
			count(MetricOrderStatusChanged, cwtypes.Dimension{Name: strPtr(DimensionStatus), Value: strPtr(ev.Status)}),
		}, true
	case domain.TypeCustomerCreated:
		return []cwtypes.MetricDatum{count(MetricCustomersCreated)}, true
	}
	return nil, false
}

func strPtr(s string) *string { return &s }

func float64Ptr(f float64) *float64 { return &f }
