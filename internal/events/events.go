package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Event types published after successful writes.
const (
	TypeOrderCreated       = "order.created"
	TypeOrderStatusChanged = "order.status_changed"
	TypeCustomerCreated    = "customer.created"
)

// Event is the payload sent from the API -> SQS -> worker.
type Event struct {
	ID            string          `json:"event_id"`
	Type          string          `json:"type"`
	OrderID       int64           `json:"order_id,omitempty"`
	CustomerID    int64           `json:"customer_id,omitempty"`
	Status        string          `json:"status,omitempty"`
	Total         decimal.Decimal `json:"total,omitzero"`
	ItemCount     int             `json:"item_count,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	OccurredAt    time.Time       `json:"occurred_at"`
}

// New stamps an event with a fresh id and the current time.
func New(eventType string) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
	}
}

// Publisher delivers events. Implementations must not block the caller for long;
// the services treat delivery as best effort.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// Nop drops every event. Used when no queue is configured.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

type correlationKey struct{}

// WithCorrelationID attaches a request id that publishers copy onto events.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationKey{}, id)
}

// CorrelationID returns the request id stored by WithCorrelationID.
func CorrelationID(ctx context.Context) string {
	id, _ := ctx.Value(correlationKey{}).(string)
	return id
}

// Emit stamps ev with the request correlation id and publishes it. Failures
// are logged and swallowed so a queue outage never fails a committed write.
func Emit(ctx context.Context, pub Publisher, ev Event) {
	if pub == nil {
		return
	}
	if ev.CorrelationID == "" {
		ev.CorrelationID = CorrelationID(ctx)
	}
	if err := pub.Publish(ctx, ev); err != nil {
		zap.L().Warn("publish event failed",
			zap.String("event_id", ev.ID),
			zap.String("type", ev.Type),
			zap.Error(err),
		)
	}
}
