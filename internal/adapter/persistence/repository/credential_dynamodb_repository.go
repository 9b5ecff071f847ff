package repository

import (
	"context"

	"ozpay/internal/domain/entities"
	"ozpay/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const defaultCredentialsTableName = "gateway_credentials"

type credentialItem struct {
	TenantID    string `dynamodbav:"tenant_id"`
	GatewayName string `dynamodbav:"gateway_name"`
	ID          string `dynamodbav:"id"`
	Ciphertext  []byte `dynamodbav:"ciphertext"`
	Active      bool   `dynamodbav:"active"`
	CreatedAt   string `dynamodbav:"created_at"`
	UpdatedAt   string `dynamodbav:"updated_at"`
}

// CredentialDynamoRepository persists encrypted gateway credentials.
//
// Table requirements:
//   - PK: tenant_id (string)
//   - SK: gateway_name (string)

type CredentialDynamoRepository struct {
	ddb       DynamoAPI
	tableName string
}

var _ interfaces.ICredentialRepository = (*CredentialDynamoRepository)(nil)

func NewCredentialDynamoRepository(ddb DynamoAPI, tableName string) *CredentialDynamoRepository {
	return &CredentialDynamoRepository{
		ddb:       ddb,
		tableName: tableOrDefault(tableName, defaultCredentialsTableName),
	}
}

func (r *CredentialDynamoRepository) FindCredential(ctx context.Context, tenantID, gatewayName string) (entities.GatewayCredential, bool, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"tenant_id":    &types.AttributeValueMemberS{Value: tenantID},
			"gateway_name": &types.AttributeValueMemberS{Value: gatewayName},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.GatewayCredential{}, false, err
	}
	if len(out.Item) == 0 {
		return entities.GatewayCredential{}, false, nil
	}

	var it credentialItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.GatewayCredential{}, false, err
	}
	return entities.GatewayCredential{
		ID:          it.ID,
		TenantID:    it.TenantID,
		GatewayName: it.GatewayName,
		Ciphertext:  it.Ciphertext,
		Active:      it.Active,
		CreatedAt:   parseTime(it.CreatedAt),
		UpdatedAt:   parseTime(it.UpdatedAt),
	}, true, nil
}

// SaveCredential is an upsert on (tenant_id, gateway_name).
func (r *CredentialDynamoRepository) SaveCredential(ctx context.Context, c entities.GatewayCredential) (entities.GatewayCredential, error) {
	av, err := attributevalue.MarshalMap(credentialItem{
		TenantID:    c.TenantID,
		GatewayName: c.GatewayName,
		ID:          c.ID,
		Ciphertext:  c.Ciphertext,
		Active:      c.Active,
		CreatedAt:   formatTime(c.CreatedAt),
		UpdatedAt:   formatTime(c.UpdatedAt),
	})
	if err != nil {
		return entities.GatewayCredential{}, err
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	})
	if err != nil {
		return entities.GatewayCredential{}, err
	}
	return c, nil
}
