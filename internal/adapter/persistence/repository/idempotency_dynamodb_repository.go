package repository

import (
	"context"
	"strconv"
	"time"

	"ozpay/internal/domain/entities"
	"ozpay/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const defaultIdempotencyTableName = "idempotency_keys"

type reservationItem struct {
	Key         string `dynamodbav:"idempotency_key"`
	PaymentID   string `dynamodbav:"payment_id"`
	Fingerprint string `dynamodbav:"fingerprint"`
	CreatedAt   string `dynamodbav:"created_at"`
	ExpiresAt   int64  `dynamodbav:"expires_at"`
}

// IdempotencyDynamoRepository stores idempotency reservations.
//
// Table requirements:
//   - PK: idempotency_key (string)
//   - TTL attribute: expires_at (epoch seconds)
//
// DynamoDB TTL deletion is lazy, so expired items are filtered on read and
// overwritten on reserve.

type IdempotencyDynamoRepository struct {
	ddb       DynamoAPI
	tableName string
	ttl       time.Duration
	now       func() time.Time
}

var _ interfaces.IIdempotencyStore = (*IdempotencyDynamoRepository)(nil)

func NewIdempotencyDynamoRepository(ddb DynamoAPI, tableName string, ttl time.Duration) *IdempotencyDynamoRepository {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &IdempotencyDynamoRepository{
		ddb:       ddb,
		tableName: tableOrDefault(tableName, defaultIdempotencyTableName),
		ttl:       ttl,
		now:       time.Now,
	}
}

func (r *IdempotencyDynamoRepository) Reserve(ctx context.Context, res entities.IdempotencyReservation) (bool, error) {
	now := r.now()
	av, err := attributevalue.MarshalMap(reservationItem{
		Key:         res.Key,
		PaymentID:   res.PaymentID,
		Fingerprint: res.Fingerprint,
		CreatedAt:   formatTime(res.CreatedAt),
		ExpiresAt:   now.Add(r.ttl).Unix(),
	})
	if err != nil {
		return false, err
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(#k) OR #exp < :now"),
		ExpressionAttributeNames: map[string]string{
			"#k":   "idempotency_key",
			"#exp": "expires_at",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":now": &types.AttributeValueMemberN{Value: strconv.FormatInt(now.Unix(), 10)},
		},
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *IdempotencyDynamoRepository) Find(ctx context.Context, key string) (entities.IdempotencyReservation, bool, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"idempotency_key": &types.AttributeValueMemberS{Value: key},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.IdempotencyReservation{}, false, err
	}
	if len(out.Item) == 0 {
		return entities.IdempotencyReservation{}, false, nil
	}

	var it reservationItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.IdempotencyReservation{}, false, err
	}
	if it.ExpiresAt > 0 && it.ExpiresAt < r.now().Unix() {
		return entities.IdempotencyReservation{}, false, nil
	}
	return entities.IdempotencyReservation{
		Key:         it.Key,
		PaymentID:   it.PaymentID,
		Fingerprint: it.Fingerprint,
		CreatedAt:   parseTime(it.CreatedAt),
	}, true, nil
}

// Release deletes the reservation only while it still belongs to paymentID.
func (r *IdempotencyDynamoRepository) Release(ctx context.Context, key, paymentID string) error {
	_, err := r.ddb.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"idempotency_key": &types.AttributeValueMemberS{Value: key},
		},
		ConditionExpression: aws.String("#pid = :pid"),
		ExpressionAttributeNames: map[string]string{
			"#pid": "payment_id",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pid": &types.AttributeValueMemberS{Value: paymentID},
		},
	})
	if err != nil && !isConditionalCheckFailed(err) {
		return err
	}
	return nil
}
