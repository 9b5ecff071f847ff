package response

import (
	"time"

	"ozpay/internal/domain/entities"
)

type PaymentResponse struct {
	PaymentID      string            `json:"payment_id" example:"0b7d7f0e-1c59-4bd6-9a51-6f4c4d0b5a11"`
	TenantID       string            `json:"tenant_id" example:"tenant-1"`
	Status         string            `json:"status" example:"APPROVED"`
	Amount         string            `json:"amount" example:"150.00"`
	Currency       string            `json:"currency" example:"BRL"`
	Method         string            `json:"method" example:"pix"`
	TransactionRef string            `json:"transaction_ref,omitempty" example:"1319224815"`
	Attempts       int               `json:"attempts" example:"1"`
	Metadata       map[string]string `json:"metadata,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

func FromPayment(p entities.Payment) PaymentResponse {
	return PaymentResponse{
		PaymentID:      p.ID,
		TenantID:       p.TenantID,
		Status:         string(p.Status),
		Amount:         p.Amount.StringFixed(2),
		Currency:       p.Currency,
		Method:         p.Method,
		TransactionRef: p.TransactionRef,
		Attempts:       p.Attempts,
		Metadata:       p.Metadata,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}
