package repository

import (
	"context"
	"sync/atomic"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Attachment builds a write that the DynamoDB backend commits in the same
// transaction as an Insert. It receives the item being inserted.
type Attachment func(item any) (types.TransactWriteItem, error)

type attachmentKey struct{}

type attachmentSlot struct {
	fn   Attachment
	used atomic.Bool
}

// WithAttachment returns a context whose next DynamoDB Insert also commits
// fn's write. The attachment is used at most once. The memory backend has
// no transactions and ignores it.
func WithAttachment(ctx context.Context, fn Attachment) context.Context {
	return context.WithValue(ctx, attachmentKey{}, &attachmentSlot{fn: fn})
}

func takeAttachment(ctx context.Context) Attachment {
	slot, ok := ctx.Value(attachmentKey{}).(*attachmentSlot)
	if !ok || slot.fn == nil || !slot.used.CompareAndSwap(false, true) {
		return nil
	}
	return slot.fn
}
