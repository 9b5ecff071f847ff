package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"ozpay/internal/domain/entities"
	"ozpay/internal/usecase/interfaces"

	"github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/payment"
	"github.com/mercadopago/sdk-go/pkg/requester"
	"go.uber.org/zap"
)

const (
	MercadoPagoName = "mercadopago"

	// CredentialAccessToken is the key of the seller token in the tenant credential set.
	CredentialAccessToken = "access_token"

	// MethodCard is sent to Mercado Pago as the card brand found under MetadataCardBrand.
	MethodCard        = "card"
	MetadataCardBrand = "card_brand"
)

var (
	ErrMissingMercadoPagoAccessToken = errors.New("missing mercado pago access_token credential")
	ErrMissingCardBrand              = errors.New("card payments require card_brand metadata")
)

// PaymentCreator is the part of the Mercado Pago payment client used here.
type PaymentCreator interface {
	Create(ctx context.Context, request payment.Request) (*payment.Response, error)
}

// ClientFactory builds a payment client for one tenant's access token.
type ClientFactory func(accessToken string) (PaymentCreator, error)

func NewMercadoPagoClient(accessToken string) (PaymentCreator, error) {
	return NewMercadoPagoClientFactory(nil)(accessToken)
}

// NewMercadoPagoClientFactory builds clients that send through next (nil for
// the default HTTP client) with stable provider idempotency keys.
func NewMercadoPagoClientFactory(next requester.Requester) ClientFactory {
	r := NewIdempotentRequester(next)
	return func(accessToken string) (PaymentCreator, error) {
		cfg, err := config.New(accessToken, config.WithHTTPClient(r))
		if err != nil {
			return nil, err
		}
		return payment.NewClient(cfg), nil
	}
}

// MercadoPagoGateway submits payments with the tenant's own seller token.
// A client is built per submission because tokens differ per tenant.
type MercadoPagoGateway struct {
	newClient ClientFactory
	log       *zap.Logger
}

var _ interfaces.IPaymentGateway = (*MercadoPagoGateway)(nil)

func NewMercadoPagoGateway(factory ClientFactory, log *zap.Logger) *MercadoPagoGateway {
	if factory == nil {
		factory = NewMercadoPagoClient
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &MercadoPagoGateway{newClient: factory, log: log.With(zap.String("component", "mercadopago_gateway"))}
}

func (g *MercadoPagoGateway) Name() string { return MercadoPagoName }

func (g *MercadoPagoGateway) Submit(ctx context.Context, s interfaces.GatewaySubmission) (entities.GatewayOutcome, error) {
	token := strings.TrimSpace(s.Credentials.Get(CredentialAccessToken))
	if token == "" {
		return entities.GatewayOutcome{}, fmt.Errorf("%w: %w", interfaces.ErrGatewayPermanent, ErrMissingMercadoPagoAccessToken)
	}
	client, err := g.newClient(token)
	if err != nil {
		return entities.GatewayOutcome{}, fmt.Errorf("%w: sdk config: %w", interfaces.ErrGatewayPermanent, err)
	}

	req, err := buildPaymentRequest(s)
	if err != nil {
		return entities.GatewayOutcome{}, fmt.Errorf("%w: %w", interfaces.ErrGatewayPermanent, err)
	}

	submissionKey := s.IdempotencyKey
	if submissionKey == "" {
		submissionKey = s.PaymentID
	}
	providerKey := ProviderIdempotencyKey(submissionKey)

	logger := g.log.With(zap.String("payment_id", s.PaymentID), zap.String("method", s.Method))
	logger.Debug("mercadopago_create_start", zap.String("provider_idempotency_key", providerKey))

	resp, err := client.Create(withProviderIdempotencyKey(ctx, providerKey), req)
	if err != nil {
		if ctx.Err() != nil {
			return entities.GatewayOutcome{}, ctx.Err()
		}
		if reason, ok := classifyProviderError(err); ok {
			logger.Warn("mercadopago_create_rejected", zap.String("reason", reason), zap.Error(err))
			return entities.GatewayOutcome{}, fmt.Errorf("%w: %s: %w", interfaces.ErrGatewayPermanent, reason, err)
		}
		logger.Warn("mercadopago_create_failed", zap.Error(err))
		return entities.TransientFailure(retryAfterFromError(err)), nil
	}
	if resp == nil {
		return entities.TransientFailure(0), nil
	}

	ref := fmt.Sprintf("%d", resp.ID)
	logger.Info("mercadopago_create_done",
		zap.String("provider_payment_id", ref),
		zap.String("provider_status", resp.Status),
		zap.String("provider_status_detail", resp.StatusDetail),
	)
	return outcomeFromStatus(ref, resp.Status, resp.StatusDetail), nil
}

// buildPaymentRequest assembles the provider payload as JSON and decodes it
// into the SDK request, the same shape callers of the REST API send.
func buildPaymentRequest(s interfaces.GatewaySubmission) (payment.Request, error) {
	methodID, err := providerMethodID(s)
	if err != nil {
		return payment.Request{}, err
	}
	amount, _ := s.Amount.Float64()
	body := map[string]any{
		"transaction_amount": amount,
		"payment_method_id":  methodID,
		"external_reference": s.PaymentID,
		"description":        s.Description,
		"metadata": map[string]any{
			"tenant_id":       s.TenantID,
			"idempotency_key": s.IdempotencyKey,
			"currency":        s.Currency,
		},
	}
	if strings.TrimSpace(s.Description) == "" {
		body["description"] = fmt.Sprintf("Payment %s", s.PaymentID)
	}
	if s.MethodToken != "" {
		body["token"] = s.MethodToken
		body["installments"] = 1
	}
	if s.PayerEmail != "" {
		body["payer"] = map[string]any{"email": s.PayerEmail, "type": "customer"}
	}

	raw, err := json.Marshal(body)
	if err != nil {
		return payment.Request{}, err
	}
	var req payment.Request
	if err := json.Unmarshal(raw, &req); err != nil {
		return payment.Request{}, err
	}
	return req, nil
}

func providerMethodID(s interfaces.GatewaySubmission) (string, error) {
	if s.Method != MethodCard {
		return s.Method, nil
	}
	brand := strings.ToLower(strings.TrimSpace(s.Metadata[MetadataCardBrand]))
	if brand == "" {
		return "", ErrMissingCardBrand
	}
	return brand, nil
}

// outcomeFromStatus maps provider statuses. Anything that is not an
// authorization is reported as a decline carrying the provider detail;
// asynchronous settlement (pending, in_process) is not followed up.
func outcomeFromStatus(ref, status, detail string) entities.GatewayOutcome {
	switch strings.ToLower(status) {
	case "approved", "authorized":
		return entities.Approved(ref)
	}
	reason := strings.TrimSpace(detail)
	if reason == "" {
		reason = strings.ToLower(status)
	}
	return entities.Declined(ref, reason)
}

func classifyProviderError(err error) (string, bool) {
	switch {
	case isGatewayCustomerNotFound(err):
		return "customer_not_found", true
	case isGatewayInvalidUsers(err):
		return "invalid_users", true
	case isGatewayUnauthorized(err):
		return "unauthorized", true
	case isGatewayBadRequest(err):
		return "bad_request", true
	}
	return "", false
}

func isGatewayBadRequest(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "\"error\":\"bad_request\"") || strings.Contains(msg, "\"status\":400")
}

func isGatewayUnauthorized(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "\"error\":\"unauthorized\"") || strings.Contains(msg, "\"status\":401") ||
		strings.Contains(msg, "\"status\":403")
}

func isGatewayInvalidUsers(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "invalid users involved") || strings.Contains(msg, "\"code\":2034")
}

func isGatewayCustomerNotFound(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "customer not found") || strings.Contains(msg, "\"code\":2002")
}

func retryAfterFromError(err error) time.Duration {
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "\"status\":429") || strings.Contains(msg, "too_many_requests") {
		return time.Second
	}
	return 0
}
