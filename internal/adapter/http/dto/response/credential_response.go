package response

import (
	"time"

	"ozpay/internal/usecase"
)

// CredentialResponse never carries credential values, only their key names.
type CredentialResponse struct {
	ID          string    `json:"id"`
	TenantID    string    `json:"tenant_id" example:"tenant-1"`
	GatewayName string    `json:"gateway_name" example:"pix"`
	Keys        []string  `json:"keys" example:"access_token"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func FromCredentialDescription(d usecase.CredentialDescription) CredentialResponse {
	keys := d.Keys
	if keys == nil {
		keys = []string{}
	}
	return CredentialResponse{
		ID:          d.ID,
		TenantID:    d.TenantID,
		GatewayName: d.GatewayName,
		Keys:        keys,
		Active:      d.Active,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}
