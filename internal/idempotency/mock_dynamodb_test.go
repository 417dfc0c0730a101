package idempotency

import (
	"context"
	"errors"
	"strconv"
	"sync"

	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// simpleMock is a very small in-memory mock for PutItem/GetItem/UpdateItem used in unit tests.
// It understands only the expressions DynamoStore sends.
type simpleMock struct {
	mu            sync.Mutex
	table         map[string]map[string]types.AttributeValue
	putCalls      int
	getCalls      int
	updateCalls   int
	transactCalls int
	failPut       error
	failUpdate    error
}

func newSimpleMock() *simpleMock {
	return &simpleMock{
		table: map[string]map[string]types.AttributeValue{},
	}
}

func keyOf(m map[string]types.AttributeValue) (string, error) {
	attr, ok := m["idempotency_key"].(*types.AttributeValueMemberS)
	if !ok {
		return "", errors.New("missing key")
	}
	return attr.Value, nil
}

func num(av types.AttributeValue) int64 {
	n, ok := av.(*types.AttributeValueMemberN)
	if !ok {
		return 0
	}
	v, _ := strconv.ParseInt(n.Value, 10, 64)
	return v
}

func str(av types.AttributeValue) string {
	s, ok := av.(*types.AttributeValueMemberS)
	if !ok {
		return ""
	}
	return s.Value
}

func (m *simpleMock) PutItem(ctx context.Context, params *dyn.PutItemInput, optFns ...func(*dyn.Options)) (*dyn.PutItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.putCalls++
	if m.failPut != nil {
		return nil, m.failPut
	}
	k, err := keyOf(params.Item)
	if err != nil {
		return nil, err
	}
	if params.ConditionExpression != nil && *params.ConditionExpression == claimCondition {
		if existing, ok := m.table[k]; ok {
			now := num(params.ExpressionAttributeValues[":now"])
			expired := num(existing["expires_at"]) <= now
			lease, hasLease := existing["lease_until"]
			abandoned := str(existing["status"]) == StatusInProgress && hasLease && num(lease) <= now
			if !expired && !abandoned {
				return nil, &types.ConditionalCheckFailedException{}
			}
		}
	}
	m.table[k] = params.Item
	return &dyn.PutItemOutput{}, nil
}

func (m *simpleMock) GetItem(ctx context.Context, params *dyn.GetItemInput, optFns ...func(*dyn.Options)) (*dyn.GetItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getCalls++
	k, err := keyOf(params.Key)
	if err != nil {
		return nil, err
	}
	item, ok := m.table[k]
	if !ok {
		return &dyn.GetItemOutput{}, nil
	}
	return &dyn.GetItemOutput{Item: item}, nil
}

func (m *simpleMock) UpdateItem(ctx context.Context, params *dyn.UpdateItemInput, optFns ...func(*dyn.Options)) (*dyn.UpdateItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updateCalls++
	if m.failUpdate != nil {
		return nil, m.failUpdate
	}
	item, err := m.apply(params.Key, params.ConditionExpression, params.ExpressionAttributeValues)
	if err != nil {
		return nil, err
	}
	return &dyn.UpdateItemOutput{Attributes: item}, nil
}

// apply evaluates the conditions DynamoStore sends and maps the update
// placeholders onto attributes.
func (m *simpleMock) apply(key map[string]types.AttributeValue, cond *string, values map[string]types.AttributeValue) (map[string]types.AttributeValue, error) {
	k, err := keyOf(key)
	if err != nil {
		return nil, err
	}
	item, ok := m.table[k]
	if !ok {
		return nil, errors.New("item not found")
	}
	if cond != nil {
		if str(item["status"]) != StatusInProgress {
			return nil, &types.ConditionalCheckFailedException{}
		}
		if tok, ok := values[":tok"]; ok && str(item["claim_token"]) != str(tok) {
			return nil, &types.ConditionalCheckFailedException{}
		}
	}
	for placeholder, attr := range map[string]string{
		":rb":     "response_body",
		":rs":     "response_status",
		":ua":     "updated_at",
		":n":      "note",
		":done":   "status",
		":failed": "status",
		":now":    "lease_until",
	} {
		if v, ok := values[placeholder]; ok {
			item[attr] = v
		}
	}
	m.table[k] = item
	return item, nil
}

func (m *simpleMock) Scan(ctx context.Context, params *dyn.ScanInput, optFns ...func(*dyn.Options)) (*dyn.ScanOutput, error) {
	return &dyn.ScanOutput{}, nil
}

// TransactWriteItems applies Update items only; each condition failure
// cancels the whole transaction.
func (m *simpleMock) TransactWriteItems(ctx context.Context, params *dyn.TransactWriteItemsInput, optFns ...func(*dyn.Options)) (*dyn.TransactWriteItemsOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transactCalls++
	for _, ti := range params.TransactItems {
		if ti.Update == nil {
			continue
		}
		if _, err := m.apply(ti.Update.Key, ti.Update.ConditionExpression, ti.Update.ExpressionAttributeValues); err != nil {
			return nil, &types.TransactionCanceledException{}
		}
	}
	return &dyn.TransactWriteItemsOutput{}, nil
}
