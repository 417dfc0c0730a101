package repository

import (
	"context"
	"errors"
	"sort"
	"sync"

	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// mockDynamo stores items per table keyed by the numeric "id" attribute.
// It understands the two condition expressions the repository issues.
type mockDynamo struct {
	mu     sync.Mutex
	tables map[string]map[string]map[string]types.AttributeValue
	scans  int

	// attached collects the non-Put writes of committed transactions.
	attached []types.TransactWriteItem
	// rejectAttached cancels every transaction on its second write.
	rejectAttached bool
}

func newMockDynamo() *mockDynamo {
	return &mockDynamo{
		tables: map[string]map[string]map[string]types.AttributeValue{},
	}
}

func (m *mockDynamo) ensureTable(tbl string) map[string]map[string]types.AttributeValue {
	if _, ok := m.tables[tbl]; !ok {
		m.tables[tbl] = map[string]map[string]types.AttributeValue{}
	}
	return m.tables[tbl]
}

func pkOf(item map[string]types.AttributeValue) (string, error) {
	v, ok := item[KeyAttribute].(*types.AttributeValueMemberN)
	if !ok {
		return "", errors.New("no numeric id attribute")
	}
	return v.Value, nil
}

func (m *mockDynamo) PutItem(ctx context.Context, params *dyn.PutItemInput, optFns ...func(*dyn.Options)) (*dyn.PutItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ok, err := m.checkPut(*params.TableName, params.Item, params.ConditionExpression)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &types.ConditionalCheckFailedException{}
	}
	m.ensureTable(*params.TableName)[mustPK(params.Item)] = params.Item
	return &dyn.PutItemOutput{}, nil
}

// checkPut evaluates the two condition expressions the repository issues.
func (m *mockDynamo) checkPut(tbl string, item map[string]types.AttributeValue, cond *string) (bool, error) {
	pk, err := pkOf(item)
	if err != nil {
		return false, err
	}
	_, exists := m.ensureTable(tbl)[pk]
	if cond == nil {
		return true, nil
	}
	switch *cond {
	case "attribute_not_exists(id)":
		return !exists, nil
	case "attribute_exists(id)":
		return exists, nil
	}
	return true, nil
}

func mustPK(item map[string]types.AttributeValue) string {
	pk, _ := pkOf(item)
	return pk
}

func (m *mockDynamo) TransactWriteItems(ctx context.Context, params *dyn.TransactWriteItemsInput, optFns ...func(*dyn.Options)) (*dyn.TransactWriteItemsOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	reasons := make([]types.CancellationReason, len(params.TransactItems))
	cancelled := false
	for i, ti := range params.TransactItems {
		reasons[i].Code = awsString("None")
		switch {
		case ti.Put != nil:
			ok, err := m.checkPut(*ti.Put.TableName, ti.Put.Item, ti.Put.ConditionExpression)
			if err != nil {
				return nil, err
			}
			if !ok {
				reasons[i].Code = awsString("ConditionalCheckFailed")
				cancelled = true
			}
		case m.rejectAttached:
			reasons[i].Code = awsString("ConditionalCheckFailed")
			cancelled = true
		}
	}
	if cancelled {
		return nil, &types.TransactionCanceledException{CancellationReasons: reasons}
	}

	for _, ti := range params.TransactItems {
		if ti.Put != nil {
			m.ensureTable(*ti.Put.TableName)[mustPK(ti.Put.Item)] = ti.Put.Item
			continue
		}
		m.attached = append(m.attached, ti)
	}
	return &dyn.TransactWriteItemsOutput{}, nil
}

func (m *mockDynamo) GetItem(ctx context.Context, params *dyn.GetItemInput, optFns ...func(*dyn.Options)) (*dyn.GetItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	table := m.ensureTable(*params.TableName)
	pk, err := pkOf(params.Key)
	if err != nil {
		return nil, err
	}
	item, ok := table[pk]
	if !ok {
		return &dyn.GetItemOutput{}, nil
	}
	return &dyn.GetItemOutput{Item: item}, nil
}

func (m *mockDynamo) UpdateItem(ctx context.Context, params *dyn.UpdateItemInput, optFns ...func(*dyn.Options)) (*dyn.UpdateItemOutput, error) {
	return nil, errors.New("UpdateItem not supported by repository mock")
}

func (m *mockDynamo) Scan(ctx context.Context, params *dyn.ScanInput, optFns ...func(*dyn.Options)) (*dyn.ScanOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scans++
	table := m.ensureTable(*params.TableName)
	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	items := make([]map[string]types.AttributeValue, 0, len(keys))
	for _, k := range keys {
		items = append(items, table[k])
	}
	return &dyn.ScanOutput{Items: items, Count: int32(len(items))}, nil
}
