package interfaces

import (
	"context"

	"ozpay/internal/domain/entities"
)

// ICredentialRepository abstracts persistence of encrypted gateway credentials.
//
// The (tenant, gateway name) pair is the key, so SaveCredential is an upsert.

type ICredentialRepository interface {
	FindCredential(ctx context.Context, tenantID, gatewayName string) (entities.GatewayCredential, bool, error)
	SaveCredential(ctx context.Context, c entities.GatewayCredential) (entities.GatewayCredential, error)
}
