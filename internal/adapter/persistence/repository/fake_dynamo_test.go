package repository

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// fakeDynamo is an in-memory DynamoAPI for one table. It understands the
// condition expressions used by the repositories in this package.
type fakeDynamo struct {
	mu       sync.Mutex
	keyAttrs []string
	items    map[string]map[string]types.AttributeValue
	err      error
	puts     []*dynamodb.PutItemInput
}

func newFakeDynamo(keyAttrs ...string) *fakeDynamo {
	return &fakeDynamo{keyAttrs: keyAttrs, items: map[string]map[string]types.AttributeValue{}}
}

func (f *fakeDynamo) key(item map[string]types.AttributeValue) string {
	parts := make([]string, 0, len(f.keyAttrs))
	for _, a := range f.keyAttrs {
		if s, ok := item[a].(*types.AttributeValueMemberS); ok {
			parts = append(parts, s.Value)
		}
	}
	return strings.Join(parts, "|")
}

func (f *fakeDynamo) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.puts = append(f.puts, in)
	k := f.key(in.Item)
	if existing, ok := f.items[k]; ok && in.ConditionExpression != nil {
		cond := aws.ToString(in.ConditionExpression)
		expired := false
		if strings.Contains(cond, "#exp < :now") {
			exp, _ := existing["expires_at"].(*types.AttributeValueMemberN)
			now, _ := in.ExpressionAttributeValues[":now"].(*types.AttributeValueMemberN)
			if exp != nil && now != nil {
				e, _ := strconv.ParseInt(exp.Value, 10, 64)
				n, _ := strconv.ParseInt(now.Value, 10, 64)
				expired = e < n
			}
		}
		if !expired {
			return nil, &types.ConditionalCheckFailedException{Message: aws.String("The conditional request failed")}
		}
	}
	f.items[k] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamo) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return &dynamodb.GetItemOutput{Item: f.items[f.key(in.Key)]}, nil
}

func (f *fakeDynamo) DeleteItem(_ context.Context, in *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	k := f.key(in.Key)
	existing, ok := f.items[k]
	if !ok {
		return &dynamodb.DeleteItemOutput{}, nil
	}
	if in.ConditionExpression != nil {
		want, _ := in.ExpressionAttributeValues[":pid"].(*types.AttributeValueMemberS)
		got, _ := existing["payment_id"].(*types.AttributeValueMemberS)
		if want == nil || got == nil || want.Value != got.Value {
			return nil, &types.ConditionalCheckFailedException{Message: aws.String("The conditional request failed")}
		}
	}
	delete(f.items, k)
	return &dynamodb.DeleteItemOutput{}, nil
}
