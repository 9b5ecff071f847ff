package repository

import (
	"context"
	"fmt"

	"ozpay/internal/domain/entities"
	"ozpay/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/shopspring/decimal"
)

const defaultPaymentsTableName = "payments"

type paymentItem struct {
	ID             string            `dynamodbav:"id"`
	TenantID       string            `dynamodbav:"tenant_id"`
	Amount         string            `dynamodbav:"amount"`
	Currency       string            `dynamodbav:"currency"`
	Method         string            `dynamodbav:"method"`
	Status         string            `dynamodbav:"status"`
	TransactionRef string            `dynamodbav:"transaction_ref,omitempty"`
	IdempotencyKey string            `dynamodbav:"idempotency_key,omitempty"`
	Attempts       int               `dynamodbav:"attempts"`
	Metadata       map[string]string `dynamodbav:"metadata,omitempty"`
	CreatedAt      string            `dynamodbav:"created_at"`
	UpdatedAt      string            `dynamodbav:"updated_at"`
}

// PaymentDynamoRepository persists Payment entities in DynamoDB.
//
// Table requirements:
//   - PK: id (string)
//
// Amounts are stored as decimal strings so no precision is lost.

type PaymentDynamoRepository struct {
	ddb       DynamoAPI
	tableName string
}

var _ interfaces.IPaymentRepository = (*PaymentDynamoRepository)(nil)

func NewPaymentDynamoRepository(ddb DynamoAPI, tableName string) *PaymentDynamoRepository {
	return &PaymentDynamoRepository{
		ddb:       ddb,
		tableName: tableOrDefault(tableName, defaultPaymentsTableName),
	}
}

func (r *PaymentDynamoRepository) Save(ctx context.Context, p entities.Payment) (entities.Payment, error) {
	av, err := attributevalue.MarshalMap(toPaymentItem(p))
	if err != nil {
		return entities.Payment{}, err
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(#id)"),
		ExpressionAttributeNames: map[string]string{
			"#id": "id",
		},
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return entities.Payment{}, fmt.Errorf("payment %s: %w", p.ID, interfaces.ErrAlreadyExists)
		}
		return entities.Payment{}, err
	}
	return p, nil
}

func (r *PaymentDynamoRepository) FindByID(ctx context.Context, id string) (entities.Payment, bool, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.Payment{}, false, err
	}
	if len(out.Item) == 0 {
		return entities.Payment{}, false, nil
	}

	var it paymentItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.Payment{}, false, err
	}
	p, err := fromPaymentItem(it)
	if err != nil {
		return entities.Payment{}, false, err
	}
	return p, true, nil
}

func toPaymentItem(p entities.Payment) paymentItem {
	return paymentItem{
		ID:             p.ID,
		TenantID:       p.TenantID,
		Amount:         p.Amount.StringFixed(2),
		Currency:       p.Currency,
		Method:         p.Method,
		Status:         string(p.Status),
		TransactionRef: p.TransactionRef,
		IdempotencyKey: p.IdempotencyKey,
		Attempts:       p.Attempts,
		Metadata:       p.Metadata,
		CreatedAt:      formatTime(p.CreatedAt),
		UpdatedAt:      formatTime(p.UpdatedAt),
	}
}

func fromPaymentItem(it paymentItem) (entities.Payment, error) {
	amount, err := decimal.NewFromString(it.Amount)
	if err != nil {
		return entities.Payment{}, fmt.Errorf("payment %s: invalid stored amount: %w", it.ID, err)
	}
	return entities.Payment{
		ID:             it.ID,
		TenantID:       it.TenantID,
		Amount:         amount,
		Currency:       it.Currency,
		Method:         it.Method,
		Status:         entities.PaymentStatus(it.Status),
		TransactionRef: it.TransactionRef,
		IdempotencyKey: it.IdempotencyKey,
		Attempts:       it.Attempts,
		Metadata:       it.Metadata,
		CreatedAt:      parseTime(it.CreatedAt),
		UpdatedAt:      parseTime(it.UpdatedAt),
	}, nil
}
