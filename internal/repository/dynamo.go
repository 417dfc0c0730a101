package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/imrishuroy/go-sales-orders/internal/aws"
)

// KeyAttribute is the numeric partition key every table uses.
const KeyAttribute = "id"

// Codec converts between a domain record and its DynamoDB item shape.
// R must carry `dynamodbav` tags and an "id" number attribute. FromItem
// fails on stored values that do not decode, such as a malformed price.
type Codec[T any, R any] struct {
	ID       func(T) int64
	ToItem   func(T) R
	FromItem func(R) (T, error)
}

// Dynamo is a Repository backed by one DynamoDB table.
type Dynamo[T any, R any] struct {
	client    aws.DynamoDBAPI
	tableName string
	codec     Codec[T, R]
}

// NewDynamo binds a Dynamo repository to a table.
func NewDynamo[T any, R any](client aws.DynamoDBAPI, tableName string, codec Codec[T, R]) *Dynamo[T, R] {
	return &Dynamo[T, R]{
		client:    client,
		tableName: tableName,
		codec:     codec,
	}
}

func (d *Dynamo[T, R]) key(id int64) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		KeyAttribute: &types.AttributeValueMemberN{Value: strconv.FormatInt(id, 10)},
	}
}

// List scans the whole table. Collections here are small dashboards, not
// analytics tables, so a full scan is acceptable.
func (d *Dynamo[T, R]) List(ctx context.Context) ([]T, error) {
	var out []T
	p := dyn.NewScanPaginator(d.client, &dyn.ScanInput{TableName: &d.tableName})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", d.tableName, err)
		}
		var recs []R
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &recs); err != nil {
			return nil, fmt.Errorf("unmarshal %s items: %w", d.tableName, err)
		}
		for _, r := range recs {
			item, err := d.codec.FromItem(r)
			if err != nil {
				return nil, fmt.Errorf("decode %s item: %w", d.tableName, err)
			}
			out = append(out, item)
		}
	}
	return out, nil
}

func (d *Dynamo[T, R]) Get(ctx context.Context, id int64) (T, error) {
	var zero T
	out, err := d.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &d.tableName,
		Key:       d.key(id),
	})
	if err != nil {
		return zero, fmt.Errorf("get item: %w", err)
	}
	if len(out.Item) == 0 {
		return zero, fmt.Errorf("get %d: %w", id, ErrNotFound)
	}
	var rec R
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return zero, fmt.Errorf("unmarshal item: %w", err)
	}
	item, err := d.codec.FromItem(rec)
	if err != nil {
		return zero, fmt.Errorf("decode item %d: %w", id, err)
	}
	return item, nil
}

// Insert stores a new item. When ctx carries an Attachment the item and
// the attached write are committed in one transaction.
func (d *Dynamo[T, R]) Insert(ctx context.Context, item T) error {
	id := d.codec.ID(item)
	if attach := takeAttachment(ctx); attach != nil {
		return d.insertWith(ctx, item, attach)
	}
	err := d.put(ctx, item, "attribute_not_exists(id)")
	if isConditionFailed(err) {
		return fmt.Errorf("insert %d: %w", id, ErrExists)
	}
	return err
}

func (d *Dynamo[T, R]) Update(ctx context.Context, item T) error {
	id := d.codec.ID(item)
	err := d.put(ctx, item, "attribute_exists(id)")
	if isConditionFailed(err) {
		return fmt.Errorf("update %d: %w", id, ErrNotFound)
	}
	return err
}

func (d *Dynamo[T, R]) put(ctx context.Context, item T, condition string) error {
	av, err := attributevalue.MarshalMap(d.codec.ToItem(item))
	if err != nil {
		return fmt.Errorf("marshal item: %w", err)
	}
	_, err = d.client.PutItem(ctx, &dyn.PutItemInput{
		TableName:           &d.tableName,
		Item:                av,
		ConditionExpression: &condition,
	})
	if err != nil {
		return fmt.Errorf("put item: %w", err)
	}
	return nil
}

// insertWith mirrors the orders + idempotency TransactWriteItems: the new
// item and the attached write succeed or fail together.
func (d *Dynamo[T, R]) insertWith(ctx context.Context, item T, attach Attachment) error {
	id := d.codec.ID(item)
	av, err := attributevalue.MarshalMap(d.codec.ToItem(item))
	if err != nil {
		return fmt.Errorf("marshal item: %w", err)
	}
	extra, err := attach(item)
	if err != nil {
		return fmt.Errorf("attached write: %w", err)
	}

	_, err = d.client.TransactWriteItems(ctx, &dyn.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				Put: &types.Put{
					TableName:           &d.tableName,
					Item:                av,
					ConditionExpression: awsString("attribute_not_exists(id)"),
				},
			},
			extra,
		},
	})
	if err != nil {
		var tce *types.TransactionCanceledException
		if errors.As(err, &tce) {
			if len(tce.CancellationReasons) > 0 && deref(tce.CancellationReasons[0].Code) == "ConditionalCheckFailed" {
				return fmt.Errorf("insert %d: %w", id, ErrExists)
			}
			return fmt.Errorf("insert %d: transaction canceled: %w", id, err)
		}
		return fmt.Errorf("transact write: %w", err)
	}
	return nil
}

func isConditionFailed(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	return err != nil && errors.As(err, &ccf)
}

func awsString(s string) *string { return &s }

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
