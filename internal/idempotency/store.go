package idempotency

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"

	"github.com/imrishuroy/go-sales-orders/internal/aws"
)

// claimCondition lets a new request take over a key whose TTL has passed
// but which DynamoDB has not evicted yet, or whose IN_PROGRESS claim was
// abandoned past its lease.
const claimCondition = "attribute_not_exists(idempotency_key) OR expires_at <= :now OR (#s = :inprog AND lease_until <= :now)"

// DynamoStore encapsulates idempotency operations against DynamoDB.
type DynamoStore struct {
	client    aws.DynamoDBAPI
	tableName string
	ttlWindow time.Duration // TTL window when creating entries
	lease     time.Duration
	nowFunc   func() time.Time
}

// NewDynamoStore returns a configured DynamoStore.
// tableName: DynamoDB table name for idempotency entries.
// ttlWindow: TTL window (e.g., 48*time.Hour); zero uses DefaultTTL.
func NewDynamoStore(client aws.DynamoDBAPI, tableName string, ttlWindow time.Duration) *DynamoStore {
	if ttlWindow <= 0 {
		ttlWindow = DefaultTTL
	}
	return &DynamoStore{
		client:    client,
		tableName: tableName,
		ttlWindow: ttlWindow,
		lease:     DefaultLease,
		nowFunc:   time.Now,
	}
}

// CreateIfNotExists creates an IN_PROGRESS record if no live record holds the key.
// Returns (true, nil) if created, (false, nil) if the key is taken.
func (s *DynamoStore) CreateIfNotExists(ctx context.Context, c Claim) (bool, error) {
	now := s.nowFunc()
	rec := Record{
		IdempotencyKey: c.Key,
		Status:         StatusInProgress,
		Fingerprint:    c.Fingerprint,
		ClaimToken:     c.Token,
		CreatedAt:      now,
		UpdatedAt:      now,
		LeaseUntil:     now.Add(s.lease).Unix(),
		ExpiresAt:      now.Add(s.ttlWindow).Unix(),
	}

	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return false, fmt.Errorf("marshal record: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName:           &s.tableName,
		Item:                item,
		ConditionExpression: awsString(claimCondition),
		ExpressionAttributeNames: map[string]string{
			"#s": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":now":    &types.AttributeValueMemberN{Value: strconv.FormatInt(now.Unix(), 10)},
			":inprog": &types.AttributeValueMemberS{Value: StatusInProgress},
		},
	})
	if err != nil {
		var sc smithy.APIError
		if errors.As(err, &sc) && sc.ErrorCode() == "ConditionalCheckFailedException" {
			return false, nil
		}
		return false, fmt.Errorf("put item: %w", err)
	}
	return true, nil
}

// Get retrieves a live record by key. Missing or expired keys return (nil, nil).
func (s *DynamoStore) Get(ctx context.Context, key string) (*Record, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName:      &s.tableName,
		Key:            s.key(key),
		ConsistentRead: awsBool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var rec Record
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal item: %w", err)
	}
	if rec.Expired(s.nowFunc()) {
		return nil, nil
	}
	return &rec, nil
}

// MarkDone sets status to DONE and stores the response body & status.
func (s *DynamoStore) MarkDone(ctx context.Context, key, responseBody string, responseStatus int) error {
	now := s.nowFunc()
	_, err := s.client.UpdateItem(ctx, &dyn.UpdateItemInput{
		TableName:        &s.tableName,
		Key:              s.key(key),
		UpdateExpression: awsString("SET #s = :done, response_body = :rb, response_status = :rs, updated_at = :ua"),
		ExpressionAttributeNames: map[string]string{
			"#s": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":done": &types.AttributeValueMemberS{Value: StatusDone},
			":rb":   &types.AttributeValueMemberS{Value: responseBody},
			":rs":   &types.AttributeValueMemberN{Value: strconv.Itoa(responseStatus)},
			":ua":   &types.AttributeValueMemberS{Value: now.Format(time.RFC3339)},
		},
		ReturnValues: types.ReturnValueUpdatedNew,
	})
	if err != nil {
		return fmt.Errorf("update item (mark done): %w", err)
	}
	return nil
}

// MarkFailed marks the record FAILED and stores a note.
func (s *DynamoStore) MarkFailed(ctx context.Context, key, note string) error {
	now := s.nowFunc()
	_, err := s.client.UpdateItem(ctx, &dyn.UpdateItemInput{
		TableName:        &s.tableName,
		Key:              s.key(key),
		UpdateExpression: awsString("SET #s = :failed, note = :n, updated_at = :ua"),
		ExpressionAttributeNames: map[string]string{
			"#s": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":failed": &types.AttributeValueMemberS{Value: StatusFailed},
			":n":      &types.AttributeValueMemberS{Value: note},
			":ua":     &types.AttributeValueMemberS{Value: now.Format(time.RFC3339)},
		},
		ReturnValues: types.ReturnValueUpdatedNew,
	})
	if err != nil {
		return fmt.Errorf("update item (mark failed): %w", err)
	}
	return nil
}

// Release ends an IN_PROGRESS claim by moving its lease to now. A record
// that is no longer IN_PROGRESS is left alone.
func (s *DynamoStore) Release(ctx context.Context, key string) error {
	now := s.nowFunc()
	_, err := s.client.UpdateItem(ctx, &dyn.UpdateItemInput{
		TableName:           &s.tableName,
		Key:                 s.key(key),
		UpdateExpression:    awsString("SET lease_until = :now, updated_at = :ua"),
		ConditionExpression: awsString("#s = :inprog"),
		ExpressionAttributeNames: map[string]string{
			"#s": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":now":    &types.AttributeValueMemberN{Value: strconv.FormatInt(now.Unix(), 10)},
			":ua":     &types.AttributeValueMemberS{Value: now.Format(time.RFC3339)},
			":inprog": &types.AttributeValueMemberS{Value: StatusInProgress},
		},
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return nil
		}
		return fmt.Errorf("update item (release): %w", err)
	}
	return nil
}

// DoneWrite is the MarkDone update as a transaction item. It only applies
// while c still owns the IN_PROGRESS record, so an attempt whose lease was
// taken over cannot commit its resource.
func (s *DynamoStore) DoneWrite(c Claim, responseBody string, responseStatus int) types.TransactWriteItem {
	now := s.nowFunc()
	return types.TransactWriteItem{
		Update: &types.Update{
			TableName:           &s.tableName,
			Key:                 s.key(c.Key),
			UpdateExpression:    awsString("SET #s = :done, response_body = :rb, response_status = :rs, updated_at = :ua"),
			ConditionExpression: awsString("claim_token = :tok AND #s = :inprog"),
			ExpressionAttributeNames: map[string]string{
				"#s": "status",
			},
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":done":   &types.AttributeValueMemberS{Value: StatusDone},
				":rb":     &types.AttributeValueMemberS{Value: responseBody},
				":rs":     &types.AttributeValueMemberN{Value: strconv.Itoa(responseStatus)},
				":ua":     &types.AttributeValueMemberS{Value: now.Format(time.RFC3339)},
				":tok":    &types.AttributeValueMemberS{Value: c.Token},
				":inprog": &types.AttributeValueMemberS{Value: StatusInProgress},
			},
		},
	}
}

func (s *DynamoStore) key(key string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"idempotency_key": &types.AttributeValueMemberS{Value: key},
	}
}

func awsString(s string) *string { return &s }

func awsBool(b bool) *bool { return &b }
