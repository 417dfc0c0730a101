package idgen

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/imrishuroy/go-sales-orders/internal/aws"
)

// DynamoCounter keeps one item per sequence in a counters table:
// {name: S (PK), value: N}.
type DynamoCounter struct {
	client    aws.DynamoDBAPI
	tableName string
}

func NewDynamoCounter(client aws.DynamoDBAPI, tableName string) *DynamoCounter {
	return &DynamoCounter{client: client, tableName: tableName}
}

func (d *DynamoCounter) key(name string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"name": &types.AttributeValueMemberS{Value: name},
	}
}

// Next atomically increments the counter and returns the new value.
func (d *DynamoCounter) Next(ctx context.Context, name string) (int64, error) {
	out, err := d.client.UpdateItem(ctx, &dyn.UpdateItemInput{
		TableName:                 &d.tableName,
		Key:                       d.key(name),
		UpdateExpression:          awsString("ADD #v :inc"),
		ExpressionAttributeNames:  map[string]string{"#v": "value"},
		ExpressionAttributeValues: map[string]types.AttributeValue{":inc": &types.AttributeValueMemberN{Value: "1"}},
		ReturnValues:              types.ReturnValueUpdatedNew,
	})
	if err != nil {
		return 0, fmt.Errorf("increment sequence %s: %w", name, err)
	}
	v, ok := out.Attributes["value"].(*types.AttributeValueMemberN)
	if !ok {
		return 0, fmt.Errorf("sequence %s: missing value attribute", name)
	}
	n, err := strconv.ParseInt(v.Value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("sequence %s: %w", name, err)
	}
	return n, nil
}

func (d *DynamoCounter) EnsureAtLeast(ctx context.Context, name string, n int64) error {
	_, err := d.client.UpdateItem(ctx, &dyn.UpdateItemInput{
		TableName:                 &d.tableName,
		Key:                       d.key(name),
		UpdateExpression:          awsString("SET #v = :n"),
		ConditionExpression:       awsString("attribute_not_exists(#v) OR #v < :n"),
		ExpressionAttributeNames:  map[string]string{"#v": "value"},
		ExpressionAttributeValues: map[string]types.AttributeValue{":n": &types.AttributeValueMemberN{Value: strconv.FormatInt(n, 10)}},
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			// already at or above n
			return nil
		}
		return fmt.Errorf("raise sequence %s: %w", name, err)
	}
	return nil
}

func awsString(s string) *string { return &s }
