package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ozpay/internal/domain/entities"
	"ozpay/internal/pkg/logging"
	"ozpay/internal/usecase/interfaces"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var (
	ErrValidation          = errors.New("invalid payment request")
	ErrCredentialNotFound  = errors.New("gateway credential not found")
	ErrCredentialAccess    = errors.New("gateway credential could not be accessed")
	ErrIdempotencyConflict = errors.New("idempotency key reused with a different request")
	ErrPaymentInProgress   = errors.New("payment with this idempotency key is still in progress")
	ErrPaymentNotFound     = errors.New("payment not found")
	ErrInvalidPaymentID    = errors.New("invalid payment id")
)

const (
	paymentTracerName = "ozpay/usecase"

	failureGatewayRejected = "gateway_rejected"
	failureInvalidResponse = "invalid_gateway_response"
)

// IPaymentUseCase is the orchestration boundary exposed to the HTTP layer.
//
//   - Process: validate -> PENDING payment -> credentials -> gateway -> terminal state -> persist
//   - GetByID: read back a persisted payment

type IPaymentUseCase interface {
	Process(ctx context.Context, intent entities.PaymentIntent) (entities.Payment, error)
	GetByID(ctx context.Context, id string) (entities.Payment, error)
}

// PaymentDeps groups the collaborators of PaymentUseCase.
type PaymentDeps struct {
	Payments    interfaces.IPaymentRepository
	Idempotency interfaces.IIdempotencyStore
	Credentials interfaces.ICredentialRepository
	Vault       interfaces.ICredentialVault
	Gateways    *GatewayRegistry
	Validator   interfaces.IPaymentValidator
	Metrics     interfaces.IPaymentMetrics
	Logger      *zap.Logger

	// Now and NewID default to time.Now and uuid.NewString.
	Now   func() time.Time
	NewID func() string
}

type PaymentUseCase struct {
	payments    interfaces.IPaymentRepository
	idempotency interfaces.IIdempotencyStore
	credentials interfaces.ICredentialRepository
	vault       interfaces.ICredentialVault
	gateways    *GatewayRegistry
	validator   interfaces.IPaymentValidator
	metrics     interfaces.IPaymentMetrics
	log         *zap.Logger
	tracer      trace.Tracer
	policy      RetryPolicy
	now         func() time.Time
	newID       func() string
}

var _ IPaymentUseCase = (*PaymentUseCase)(nil)

func NewPaymentUseCase(deps PaymentDeps, policy RetryPolicy) *PaymentUseCase {
	u := &PaymentUseCase{
		payments:    deps.Payments,
		idempotency: deps.Idempotency,
		credentials: deps.Credentials,
		vault:       deps.Vault,
		gateways:    deps.Gateways,
		validator:   deps.Validator,
		metrics:     deps.Metrics,
		log:         deps.Logger,
		tracer:      otel.Tracer(paymentTracerName),
		policy:      policy.withDefaults(),
		now:         deps.Now,
		newID:       deps.NewID,
	}
	if u.metrics == nil {
		u.metrics = nopMetrics{}
	}
	if u.log == nil {
		u.log = zap.NewNop()
	}
	u.log = u.log.With(zap.String("component", "payment_usecase"))
	if u.now == nil {
		u.now = time.Now
	}
	if u.newID == nil {
		u.newID = uuid.NewString
	}
	if u.gateways == nil {
		u.gateways = NewGatewayRegistry()
	}
	return u
}

// Process runs one payment intent through its gateway and returns the persisted record.
func (u *PaymentUseCase) Process(ctx context.Context, intent entities.PaymentIntent) (_ entities.Payment, err error) {
	start := time.Now()
	ctx, span := u.tracer.Start(ctx, "PaymentUseCase.Process", trace.WithAttributes(
		attribute.String("tenant.id", intent.TenantID),
		attribute.String("payment.method", intent.Method),
	))
	logger := logging.FromContextOr(ctx, u.log).With(
		zap.String("tenant_id", intent.TenantID),
		zap.String("method", intent.Method),
	)
	status := "error"
	defer func() {
		span.SetAttributes(attribute.String("payment.status", status))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, status)
		} else {
			span.SetStatus(codes.Ok, status)
		}
		span.End()
		u.metrics.PaymentProcessed(intent.Method, status, time.Since(start))
	}()

	logger.Info("payment_process_start", zap.String("currency", intent.Currency))

	if u.validator != nil {
		if vErr := u.validator.Validate(intent); vErr != nil {
			logger.Info("payment_validation_failed", zap.Error(vErr))
			return entities.Payment{}, fmt.Errorf("%w: %w", ErrValidation, vErr)
		}
	}
	if u.payments == nil || u.idempotency == nil || u.credentials == nil || u.vault == nil {
		logger.Error("payment_usecase_not_configured")
		return entities.Payment{}, errors.New("payment use case not configured")
	}

	p, err := entities.NewPayment(u.newID(), intent.TenantID, intent.Amount, intent.Currency, intent.Method, intent.Metadata, u.now())
	if err != nil {
		logger.Info("payment_rejected", zap.Error(err))
		return entities.Payment{}, err
	}
	logger = logger.With(zap.String("payment_id", p.ID))
	span.SetAttributes(attribute.String("payment.id", p.ID))

	fingerprint := Fingerprint(intent)
	p.IdempotencyKey = IdempotencyKey(intent, fingerprint)

	// Known keys replay the stored payment without touching credentials.
	if _, found, findErr := u.idempotency.Find(ctx, p.IdempotencyKey); findErr != nil {
		logger.Error("payment_idempotency_lookup_failed", zap.Error(findErr))
		return entities.Payment{}, fmt.Errorf("load idempotency reservation: %w", findErr)
	} else if found {
		existing, dupErr := u.replayDuplicate(ctx, p.IdempotencyKey, fingerprint, logger)
		if dupErr != nil {
			return entities.Payment{}, dupErr
		}
		status = string(existing.Status)
		return existing, nil
	}

	creds, err := u.resolveCredentials(ctx, p.TenantID, p.Method, logger)
	if err != nil {
		return entities.Payment{}, err
	}

	gateway, err := u.gateways.Resolve(p.Method)
	if err != nil {
		logger.Error("payment_gateway_unknown", zap.Bool("alert", true), zap.Error(err))
		return entities.Payment{}, err
	}

	reserved, err := u.idempotency.Reserve(ctx, entities.IdempotencyReservation{
		Key:         p.IdempotencyKey,
		PaymentID:   p.ID,
		Fingerprint: fingerprint,
		CreatedAt:   p.CreatedAt,
	})
	if err != nil {
		logger.Error("payment_idempotency_reserve_failed", zap.Error(err))
		return entities.Payment{}, fmt.Errorf("reserve idempotency key: %w", err)
	}
	if !reserved {
		existing, dupErr := u.replayDuplicate(ctx, p.IdempotencyKey, fingerprint, logger)
		if dupErr != nil {
			return entities.Payment{}, dupErr
		}
		status = string(existing.Status)
		return existing, nil
	}

	submission := interfaces.GatewaySubmission{
		PaymentID:      p.ID,
		TenantID:       p.TenantID,
		Amount:         p.Amount,
		Currency:       p.Currency,
		Method:         p.Method,
		MethodToken:    intent.MethodToken,
		PayerEmail:     intent.PayerEmail,
		Description:    intent.Description,
		IdempotencyKey: p.IdempotencyKey,
		Metadata:       intent.Metadata,
		Credentials:    creds,
	}
	cancelErr := u.runAttempts(ctx, gateway, p, submission, logger)
	if cancelErr != nil && !p.IsTerminal() {
		// transition bug; nothing unresolved may be written
		u.release(ctx, p, logger)
		return entities.Payment{}, cancelErr
	}

	persistCtx := ctx
	if ctx.Err() != nil {
		var cancel context.CancelFunc
		persistCtx, cancel = context.WithTimeout(context.WithoutCancel(ctx), u.policy.PersistTimeout)
		defer cancel()
	}
	saved, err := u.payments.Save(persistCtx, *p)
	if err != nil {
		logger.Error("payment_persist_failed", zap.String("status", string(p.Status)), zap.Error(err))
		u.release(persistCtx, p, logger)
		return entities.Payment{}, fmt.Errorf("persist payment: %w", err)
	}

	status = string(saved.Status)
	logger.Info("payment_process_done",
		zap.String("status", status),
		zap.Int("attempts", saved.Attempts),
		zap.String("transaction_ref", saved.TransactionRef),
		zap.Duration("latency", time.Since(start)),
	)
	if cancelErr != nil {
		return saved, fmt.Errorf("payment processing interrupted: %w", cancelErr)
	}
	return saved, nil
}

// runAttempts drives p from PENDING to a terminal state. The returned error is
// the caller's cancellation (p is FAILED by then) or a transition error.
func (u *PaymentUseCase) runAttempts(ctx context.Context, gw interfaces.IPaymentGateway, p *entities.Payment, s interfaces.GatewaySubmission, logger *zap.Logger) error {
	for {
		if err := ctx.Err(); err != nil {
			logger.Warn("payment_cancelled_before_attempt", zap.Int("attempts", p.Attempts))
			if fErr := p.Fail(entities.FailureRequestCancelled, u.now()); fErr != nil {
				return fErr
			}
			return err
		}
		if err := p.RecordAttempt(); err != nil {
			return err
		}

		outcome, gwErr := u.attempt(ctx, gw, s, p.Attempts, logger)
		switch {
		case gwErr != nil:
			return p.Fail(failureReason(gwErr), u.now())
		case outcome.Kind == entities.OutcomeApproved:
			return p.Approve(outcome.TransactionRef, u.now())
		case outcome.Kind == entities.OutcomeDeclined:
			return p.Decline(outcome.TransactionRef, outcome.DeclineReason, u.now())
		}

		if p.Attempts >= u.policy.MaxAttempts {
			logger.Warn("payment_retries_exhausted", zap.Int("attempts", p.Attempts))
			return p.Fail(entities.FailureRetriesExhausted, u.now())
		}

		delay := u.policy.Backoff(p.Attempts, outcome.RetryAfter)
		logger.Info("payment_retry_scheduled", zap.Int("attempt", p.Attempts), zap.Duration("backoff", delay))
		if err := sleepContext(ctx, delay); err != nil {
			logger.Warn("payment_cancelled_during_backoff", zap.Int("attempts", p.Attempts), zap.Error(err))
			if fErr := p.Fail(entities.FailureRequestCancelled, u.now()); fErr != nil {
				return fErr
			}
			return err
		}
	}
}

type permanentGatewayError struct {
	reason string
	err    error
}

func (e *permanentGatewayError) Error() string { return e.reason + ": " + e.err.Error() }
func (e *permanentGatewayError) Unwrap() error { return e.err }

func failureReason(err error) string {
	var pe *permanentGatewayError
	if errors.As(err, &pe) {
		return pe.reason
	}
	return failureGatewayRejected
}

// attempt performs exactly one gateway call bounded by GatewayTimeout. Any
// error other than a permanent rejection, including the timeout, is reported
// as a transient failure.
func (u *PaymentUseCase) attempt(ctx context.Context, gw interfaces.IPaymentGateway, s interfaces.GatewaySubmission, n int, logger *zap.Logger) (entities.GatewayOutcome, error) {
	callCtx, cancel := context.WithTimeout(ctx, u.policy.GatewayTimeout)
	defer cancel()

	callCtx, span := u.tracer.Start(callCtx, "Gateway.Submit", trace.WithAttributes(
		attribute.String("gateway.name", gw.Name()),
		attribute.Int("payment.attempt", n),
	))
	defer span.End()

	start := time.Now()
	outcome, err := gw.Submit(callCtx, s)
	elapsed := time.Since(start)

	switch {
	case err != nil && errors.Is(err, interfaces.ErrGatewayPermanent):
		span.RecordError(err)
		u.metrics.GatewayCall(gw.Name(), "rejected", elapsed)
		logger.Warn("payment_gateway_rejected", zap.Int("attempt", n), zap.Error(err))
		return entities.GatewayOutcome{}, &permanentGatewayError{reason: failureGatewayRejected, err: err}
	case err != nil:
		span.RecordError(err)
		logger.Warn("payment_gateway_error", zap.Int("attempt", n), zap.Duration("latency", elapsed), zap.Error(err))
		outcome = entities.TransientFailure(0)
	case outcome.Kind == entities.OutcomeApproved || outcome.Kind == entities.OutcomeDeclined:
		if strings.TrimSpace(outcome.TransactionRef) == "" {
			err = fmt.Errorf("%w: %s verdict without transaction reference", interfaces.ErrGatewayPermanent, outcome.Kind)
			u.metrics.GatewayCall(gw.Name(), "invalid", elapsed)
			logger.Error("payment_gateway_invalid_response", zap.Int("attempt", n), zap.Error(err))
			return entities.GatewayOutcome{}, &permanentGatewayError{reason: failureInvalidResponse, err: err}
		}
	case outcome.Kind != entities.OutcomeTransientFailure:
		logger.Warn("payment_gateway_unknown_outcome", zap.Int("attempt", n), zap.String("outcome", string(outcome.Kind)))
		outcome = entities.TransientFailure(outcome.RetryAfter)
	}

	span.SetAttributes(attribute.String("gateway.outcome", string(outcome.Kind)))
	u.metrics.GatewayCall(gw.Name(), string(outcome.Kind), elapsed)
	logger.Info("payment_gateway_attempt",
		zap.Int("attempt", n),
		zap.String("outcome", string(outcome.Kind)),
		zap.Duration("latency", elapsed),
	)
	return outcome, nil
}

func (u *PaymentUseCase) resolveCredentials(ctx context.Context, tenantID, gatewayName string, logger *zap.Logger) (entities.CredentialSet, error) {
	ctx, cancel := context.WithTimeout(ctx, u.policy.CredentialTimeout)
	defer cancel()

	cred, found, err := u.credentials.FindCredential(ctx, tenantID, gatewayName)
	if err != nil {
		u.metrics.CredentialFailure("lookup_error")
		logger.Error("payment_credential_lookup_failed", zap.Error(err))
		return nil, fmt.Errorf("resolve credential: %w", err)
	}
	if !found || !cred.Active {
		u.metrics.CredentialFailure("not_found")
		logger.Error("payment_credential_not_found", zap.Bool("alert", true), zap.Bool("inactive", found))
		return nil, fmt.Errorf("%w: tenant %s gateway %s", ErrCredentialNotFound, tenantID, gatewayName)
	}

	set, err := u.vault.Reveal(cred.Ciphertext)
	if err != nil {
		u.metrics.CredentialFailure("reveal_failed")
		logger.Error("payment_credential_access_failed", zap.Bool("alert", true), zap.String("credential_id", cred.ID), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrCredentialAccess, err)
	}
	if len(set) == 0 {
		u.metrics.CredentialFailure("empty")
		logger.Error("payment_credential_empty", zap.Bool("alert", true), zap.String("credential_id", cred.ID))
		return nil, fmt.Errorf("%w: empty credential set", ErrCredentialAccess)
	}
	return set, nil
}

// awaitExisting observes the payment created by the request that owns key.
func (u *PaymentUseCase) replayDuplicate(ctx context.Context, key, fingerprint string, logger *zap.Logger) (entities.Payment, error) {
	logger.Info("payment_duplicate_request", zap.String("idempotency_key", key))
	existing, err := u.awaitExisting(ctx, key, fingerprint)
	if err != nil {
		u.metrics.DuplicateRequest("rejected")
		return entities.Payment{}, err
	}
	u.metrics.DuplicateRequest("replayed")
	return existing, nil
}

func (u *PaymentUseCase) awaitExisting(ctx context.Context, key, fingerprint string) (entities.Payment, error) {
	waitCtx, cancel := context.WithTimeout(ctx, u.policy.IdempotencyWait)
	defer cancel()

	for {
		r, found, err := u.idempotency.Find(waitCtx, key)
		if err != nil && waitCtx.Err() == nil {
			return entities.Payment{}, fmt.Errorf("load idempotency reservation: %w", err)
		}
		if err == nil && !found {
			return entities.Payment{}, fmt.Errorf("%w: reservation released, retry the request", ErrPaymentInProgress)
		}
		if err == nil && found {
			if r.Fingerprint != fingerprint {
				return entities.Payment{}, ErrIdempotencyConflict
			}
			p, ok, findErr := u.payments.FindByID(waitCtx, r.PaymentID)
			if findErr != nil && waitCtx.Err() == nil {
				return entities.Payment{}, fmt.Errorf("load payment: %w", findErr)
			}
			if findErr == nil && ok {
				return p, nil
			}
		}

		if err := sleepContext(waitCtx, u.policy.IdempotencyPoll); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return entities.Payment{}, ctxErr
			}
			return entities.Payment{}, ErrPaymentInProgress
		}
	}
}

func (u *PaymentUseCase) release(ctx context.Context, p *entities.Payment, logger *zap.Logger) {
	if err := u.idempotency.Release(ctx, p.IdempotencyKey, p.ID); err != nil {
		logger.Warn("payment_idempotency_release_failed", zap.Error(err))
	}
}

func (u *PaymentUseCase) GetByID(ctx context.Context, id string) (entities.Payment, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.Payment{}, ErrInvalidPaymentID
	}
	if u.payments == nil {
		return entities.Payment{}, errors.New("payment repository not configured")
	}

	p, found, err := u.payments.FindByID(ctx, id)
	if err != nil {
		return entities.Payment{}, err
	}
	if !found {
		return entities.Payment{}, ErrPaymentNotFound
	}
	return p, nil
}

type nopMetrics struct{}

func (nopMetrics) PaymentProcessed(string, string, time.Duration) {}
func (nopMetrics) GatewayCall(string, string, time.Duration)      {}
func (nopMetrics) CredentialFailure(string)                       {}
func (nopMetrics) DuplicateRequest(string)                        {}
