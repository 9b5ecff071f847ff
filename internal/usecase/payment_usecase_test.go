package usecase

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"ozpay/internal/adapter/persistence/memory"
	"ozpay/internal/domain/entities"
	"ozpay/internal/infrastructure/vault"
	"ozpay/internal/pkg/logging"
	"ozpay/internal/usecase/interfaces"
	mock_interfaces "ozpay/internal/usecase/interfaces/mocks"

	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func testPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:       3,
		GatewayTimeout:    time.Second,
		BackoffBase:       time.Millisecond,
		BackoffMax:        5 * time.Millisecond,
		CredentialTimeout: time.Second,
		PersistTimeout:    time.Second,
		IdempotencyWait:   200 * time.Millisecond,
		IdempotencyPoll:   5 * time.Millisecond,
	}
}

func validIntent() entities.PaymentIntent {
	return entities.PaymentIntent{
		TenantID:       "tenant-1",
		Amount:         decimal.RequireFromString("10.50"),
		Currency:       "BRL",
		Method:         "card",
		MethodToken:    "tok_visa",
		PayerEmail:     "payer@test.com",
		IdempotencyKey: "order-1",
		Metadata:       map[string]string{"order_id": "o-1"},
	}
}

type harness struct {
	store    *memory.Store
	vault    *vault.Vault
	registry *GatewayRegistry
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	key, err := vault.GenerateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	v, err := vault.NewFromBase64(key)
	if err != nil {
		t.Fatalf("vault: %v", err)
	}
	return &harness{store: memory.NewStore(), vault: v, registry: NewGatewayRegistry()}
}

func (h *harness) putCredential(t *testing.T, tenantID, gatewayName string, active bool) {
	t.Helper()
	blob, err := h.vault.Protect(entities.CredentialSet{"access_token": "APP_USR-secret"})
	if err != nil {
		t.Fatalf("protect: %v", err)
	}
	_, err = h.store.SaveCredential(context.Background(), entities.GatewayCredential{
		ID: "cred-1", TenantID: tenantID, GatewayName: gatewayName, Ciphertext: blob, Active: active,
	})
	if err != nil {
		t.Fatalf("save credential: %v", err)
	}
}

func (h *harness) register(t *testing.T, method string, gw interfaces.IPaymentGateway) {
	t.Helper()
	if err := h.registry.Register(method, gw); err != nil {
		t.Fatalf("register: %v", err)
	}
}

func (h *harness) useCase(policy RetryPolicy) *PaymentUseCase {
	return NewPaymentUseCase(PaymentDeps{
		Payments:    h.store,
		Idempotency: h.store,
		Credentials: h.store,
		Vault:       h.vault,
		Gateways:    h.registry,
	}, policy)
}

func newGateway(ctrl *gomock.Controller) *mock_interfaces.MockIPaymentGateway {
	gw := mock_interfaces.NewMockIPaymentGateway(ctrl)
	gw.EXPECT().Name().Return("card-gateway").AnyTimes()
	return gw
}

func TestPaymentUseCase_Process_Outcomes(t *testing.T) {
	t.Run("approved on first attempt", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		h := newHarness(t)
		h.putCredential(t, "tenant-1", "card", true)
		gw := newGateway(ctrl)
		h.register(t, "card", gw)

		gw.EXPECT().Submit(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, s interfaces.GatewaySubmission) (entities.GatewayOutcome, error) {
			if s.Credentials.Get("access_token") != "APP_USR-secret" {
				t.Errorf("gateway did not receive revealed credentials")
			}
			if s.Amount.String() != "10.5" || s.Currency != "BRL" || s.MethodToken != "tok_visa" {
				t.Errorf("unexpected submission %+v", s)
			}
			if s.IdempotencyKey != "8:tenant-1#key#order-1" {
				t.Errorf("unexpected idempotency key %q", s.IdempotencyKey)
			}
			return entities.Approved("tx-1"), nil
		}).Times(1)

		p, err := h.useCase(testPolicy()).Process(context.Background(), validIntent())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.Status != entities.PaymentStatusApproved || p.TransactionRef != "tx-1" || p.Attempts != 1 {
			t.Fatalf("unexpected payment %+v", p)
		}
		stored, ok, _ := h.store.FindByID(context.Background(), p.ID)
		if !ok || stored.Status != entities.PaymentStatusApproved {
			t.Fatalf("approved payment was not persisted: %+v", stored)
		}
		if stored.Metadata["order_id"] != "o-1" {
			t.Fatalf("metadata lost: %v", stored.Metadata)
		}
	})

	t.Run("declined keeps the reference and reason", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		h := newHarness(t)
		h.putCredential(t, "tenant-1", "card", true)
		gw := newGateway(ctrl)
		h.register(t, "card", gw)

		gw.EXPECT().Submit(gomock.Any(), gomock.Any()).Return(entities.Declined("tx-2", "insufficient_funds"), nil).Times(1)

		p, err := h.useCase(testPolicy()).Process(context.Background(), validIntent())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.Status != entities.PaymentStatusDeclined || p.TransactionRef != "tx-2" {
			t.Fatalf("unexpected payment %+v", p)
		}
		if p.Metadata[entities.MetadataDeclineReason] != "insufficient_funds" {
			t.Fatalf("decline reason missing: %v", p.Metadata)
		}
	})

	t.Run("transient then approved", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		h := newHarness(t)
		h.putCredential(t, "tenant-1", "card", true)
		gw := newGateway(ctrl)
		h.register(t, "card", gw)

		gomock.InOrder(
			gw.EXPECT().Submit(gomock.Any(), gomock.Any()).Return(entities.TransientFailure(0), nil),
			gw.EXPECT().Submit(gomock.Any(), gomock.Any()).Return(entities.Approved("tx-3"), nil),
		)

		p, err := h.useCase(testPolicy()).Process(context.Background(), validIntent())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.Status != entities.PaymentStatusApproved || p.Attempts != 2 {
			t.Fatalf("unexpected payment %+v", p)
		}
	})

	t.Run("three transient failures exhaust retries", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		h := newHarness(t)
		h.putCredential(t, "tenant-1", "card", true)
		gw := newGateway(ctrl)
		h.register(t, "card", gw)

		gw.EXPECT().Submit(gomock.Any(), gomock.Any()).Return(entities.TransientFailure(0), nil).Times(3)

		p, err := h.useCase(testPolicy()).Process(context.Background(), validIntent())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.Status != entities.PaymentStatusFailed || p.Attempts != 3 {
			t.Fatalf("unexpected payment %+v", p)
		}
		if p.TransactionRef != "" {
			t.Fatalf("failed payment must not carry a reference")
		}
		if p.Metadata[entities.MetadataFailureReason] != entities.FailureRetriesExhausted {
			t.Fatalf("unexpected failure reason: %v", p.Metadata)
		}
		if _, ok, _ := h.store.FindByID(context.Background(), p.ID); !ok {
			t.Fatalf("failed payment must be persisted")
		}
	})

	t.Run("gateway errors are retried", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		h := newHarness(t)
		h.putCredential(t, "tenant-1", "card", true)
		gw := newGateway(ctrl)
		h.register(t, "card", gw)

		gomock.InOrder(
			gw.EXPECT().Submit(gomock.Any(), gomock.Any()).Return(entities.GatewayOutcome{}, errors.New("connection reset")),
			gw.EXPECT().Submit(gomock.Any(), gomock.Any()).Return(entities.Approved("tx-4"), nil),
		)

		p, err := h.useCase(testPolicy()).Process(context.Background(), validIntent())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.Status != entities.PaymentStatusApproved || p.Attempts != 2 {
			t.Fatalf("unexpected payment %+v", p)
		}
	})

	t.Run("permanent gateway error fails immediately", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		h := newHarness(t)
		h.putCredential(t, "tenant-1", "card", true)
		gw := newGateway(ctrl)
		h.register(t, "card", gw)

		gw.EXPECT().Submit(gomock.Any(), gomock.Any()).Return(entities.GatewayOutcome{}, interfaces.ErrGatewayPermanent).Times(1)

		p, err := h.useCase(testPolicy()).Process(context.Background(), validIntent())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.Status != entities.PaymentStatusFailed || p.Attempts != 1 {
			t.Fatalf("unexpected payment %+v", p)
		}
		if p.Metadata[entities.MetadataFailureReason] != failureGatewayRejected {
			t.Fatalf("unexpected failure reason: %v", p.Metadata)
		}
	})

	t.Run("verdict without reference is invalid", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		h := newHarness(t)
		h.putCredential(t, "tenant-1", "card", true)
		gw := newGateway(ctrl)
		h.register(t, "card", gw)

		gw.EXPECT().Submit(gomock.Any(), gomock.Any()).Return(entities.Approved(" "), nil).Times(1)

		p, err := h.useCase(testPolicy()).Process(context.Background(), validIntent())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.Status != entities.PaymentStatusFailed || p.Metadata[entities.MetadataFailureReason] != failureInvalidResponse {
			t.Fatalf("unexpected payment %+v", p)
		}
	})

	t.Run("slow gateway counts as transient", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		h := newHarness(t)
		h.putCredential(t, "tenant-1", "card", true)
		gw := newGateway(ctrl)
		h.register(t, "card", gw)

		gw.EXPECT().Submit(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, _ interfaces.GatewaySubmission) (entities.GatewayOutcome, error) {
			<-ctx.Done()
			return entities.GatewayOutcome{}, ctx.Err()
		}).Times(2)

		policy := testPolicy()
		policy.MaxAttempts = 2
		policy.GatewayTimeout = 10 * time.Millisecond

		p, err := h.useCase(policy).Process(context.Background(), validIntent())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.Status != entities.PaymentStatusFailed || p.Metadata[entities.MetadataFailureReason] != entities.FailureRetriesExhausted {
			t.Fatalf("unexpected payment %+v", p)
		}
	})
}

func TestPaymentUseCase_Process_Rejections(t *testing.T) {
	t.Run("validator error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		validator := mock_interfaces.NewMockIPaymentValidator(ctrl)
		payments := mock_interfaces.NewMockIPaymentRepository(ctrl)
		gw := newGateway(ctrl)
		registry := NewGatewayRegistry()
		_ = registry.Register("card", gw)

		validator.EXPECT().Validate(gomock.Any()).Return(errors.New("tenant_id is required"))

		uc := NewPaymentUseCase(PaymentDeps{Payments: payments, Gateways: registry, Validator: validator}, testPolicy())
		_, err := uc.Process(context.Background(), validIntent())
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("expected ErrValidation, got %v", err)
		}
	})

	cases := []struct {
		name     string
		amount   string
		currency string
		wantErr  error
	}{
		{name: "zero amount", amount: "0", currency: "BRL", wantErr: entities.ErrInvalidPayment},
		{name: "negative amount", amount: "-1.00", currency: "BRL", wantErr: entities.ErrInvalidPayment},
		{name: "sub-cent amount", amount: "0.001", currency: "BRL", wantErr: entities.ErrInvalidPayment},
		{name: "lowercase currency", amount: "1.00", currency: "brl", wantErr: entities.ErrInvalidPayment},
		{name: "smallest valid amount", amount: "0.01", currency: "BRL"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			h := newHarness(t)
			h.putCredential(t, "tenant-1", "card", true)
			gw := newGateway(ctrl)
			h.register(t, "card", gw)

			if tc.wantErr == nil {
				gw.EXPECT().Submit(gomock.Any(), gomock.Any()).Return(entities.Approved("tx"), nil).Times(1)
			}

			intent := validIntent()
			intent.Amount = decimal.RequireFromString(tc.amount)
			intent.Currency = tc.currency

			p, err := h.useCase(testPolicy()).Process(context.Background(), intent)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil || p.Status != entities.PaymentStatusApproved {
				t.Fatalf("expected approval, got %+v err=%v", p, err)
			}
		})
	}

	t.Run("credential absent", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		h := newHarness(t)
		payments := mock_interfaces.NewMockIPaymentRepository(ctrl)
		gw := newGateway(ctrl)
		h.register(t, "card", gw)

		core, logs := observer.New(zapcore.InfoLevel)
		uc := NewPaymentUseCase(PaymentDeps{
			Payments: payments, Idempotency: h.store, Credentials: h.store, Vault: h.vault,
			Gateways: h.registry, Logger: zap.New(core),
		}, testPolicy())

		_, err := uc.Process(context.Background(), validIntent())
		if !errors.Is(err, ErrCredentialNotFound) {
			t.Fatalf("expected ErrCredentialNotFound, got %v", err)
		}
		alerts := logs.FilterMessage("payment_credential_not_found").FilterField(zap.Bool("alert", true))
		if alerts.Len() != 1 || alerts.All()[0].Level != zapcore.ErrorLevel {
			t.Fatalf("expected one error-level alert, got %d", alerts.Len())
		}
	})

	t.Run("credential inactive", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		h := newHarness(t)
		h.putCredential(t, "tenant-1", "card", false)
		h.register(t, "card", newGateway(ctrl))

		_, err := h.useCase(testPolicy()).Process(context.Background(), validIntent())
		if !errors.Is(err, ErrCredentialNotFound) {
			t.Fatalf("expected ErrCredentialNotFound, got %v", err)
		}
	})

	t.Run("credential for another tenant", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		h := newHarness(t)
		h.putCredential(t, "tenant-2", "card", true)
		h.register(t, "card", newGateway(ctrl))

		_, err := h.useCase(testPolicy()).Process(context.Background(), validIntent())
		if !errors.Is(err, ErrCredentialNotFound) {
			t.Fatalf("expected ErrCredentialNotFound, got %v", err)
		}
	})

	t.Run("credential cannot be decrypted", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		h := newHarness(t)
		h.register(t, "card", newGateway(ctrl))
		_, _ = h.store.SaveCredential(context.Background(), entities.GatewayCredential{
			ID: "cred-x", TenantID: "tenant-1", GatewayName: "card", Ciphertext: []byte("garbage"), Active: true,
		})
		metrics := mock_interfaces.NewMockIPaymentMetrics(ctrl)
		metrics.EXPECT().CredentialFailure("reveal_failed").Times(1)
		metrics.EXPECT().PaymentProcessed("card", "error", gomock.Any()).Times(1)

		uc := NewPaymentUseCase(PaymentDeps{
			Payments: h.store, Idempotency: h.store, Credentials: h.store, Vault: h.vault,
			Gateways: h.registry, Metrics: metrics,
		}, testPolicy())

		_, err := uc.Process(context.Background(), validIntent())
		if !errors.Is(err, ErrCredentialAccess) {
			t.Fatalf("expected ErrCredentialAccess, got %v", err)
		}
		if !errors.Is(err, vault.ErrCrypto) {
			t.Fatalf("expected wrapped vault.ErrCrypto, got %v", err)
		}
	})

	t.Run("credential lookup error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		h := newHarness(t)
		h.register(t, "card", newGateway(ctrl))
		creds := mock_interfaces.NewMockICredentialRepository(ctrl)
		creds.EXPECT().FindCredential(gomock.Any(), "tenant-1", "card").Return(entities.GatewayCredential{}, false, errors.New("db down"))

		uc := NewPaymentUseCase(PaymentDeps{
			Payments: h.store, Idempotency: h.store, Credentials: creds, Vault: h.vault, Gateways: h.registry,
		}, testPolicy())

		_, err := uc.Process(context.Background(), validIntent())
		if err == nil || errors.Is(err, ErrCredentialNotFound) || errors.Is(err, ErrCredentialAccess) {
			t.Fatalf("expected plain storage error, got %v", err)
		}
	})

	t.Run("unknown method", func(t *testing.T) {
		h := newHarness(t)
		h.putCredential(t, "tenant-1", "crypto", true)

		intent := validIntent()
		intent.Method = "crypto"
		_, err := h.useCase(testPolicy()).Process(context.Background(), intent)
		if !errors.Is(err, ErrUnknownGateway) {
			t.Fatalf("expected ErrUnknownGateway, got %v", err)
		}
	})
}

func TestPaymentUseCase_Process_Idempotency(t *testing.T) {
	t.Run("replay returns the stored payment", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		h := newHarness(t)
		h.putCredential(t, "tenant-1", "card", true)
		gw := newGateway(ctrl)
		h.register(t, "card", gw)
		gw.EXPECT().Submit(gomock.Any(), gomock.Any()).Return(entities.Approved("tx-1"), nil).Times(1)

		uc := h.useCase(testPolicy())
		first, err := uc.Process(context.Background(), validIntent())
		if err != nil {
			t.Fatalf("first: %v", err)
		}
		second, err := uc.Process(context.Background(), validIntent())
		if err != nil {
			t.Fatalf("second: %v", err)
		}
		if first.ID != second.ID || second.TransactionRef != "tx-1" {
			t.Fatalf("expected replay of %s, got %+v", first.ID, second)
		}
	})

	t.Run("replay after the credential is deactivated", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		h := newHarness(t)
		h.putCredential(t, "tenant-1", "card", true)
		gw := newGateway(ctrl)
		h.register(t, "card", gw)
		gw.EXPECT().Submit(gomock.Any(), gomock.Any()).Return(entities.Approved("tx-1"), nil).Times(1)

		uc := h.useCase(testPolicy())
		first, err := uc.Process(context.Background(), validIntent())
		if err != nil {
			t.Fatalf("first: %v", err)
		}
		h.putCredential(t, "tenant-1", "card", false)

		second, err := uc.Process(context.Background(), validIntent())
		if err != nil {
			t.Fatalf("replay: %v", err)
		}
		if second.ID != first.ID || second.Status != entities.PaymentStatusApproved {
			t.Fatalf("expected replay of %s, got %+v", first.ID, second)
		}

		fresh := validIntent()
		fresh.IdempotencyKey = "order-2"
		if _, err := uc.Process(context.Background(), fresh); !errors.Is(err, ErrCredentialNotFound) {
			t.Fatalf("new request should need an active credential, got %v", err)
		}
	})

	t.Run("replay after the credential becomes unreadable", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		h := newHarness(t)
		h.putCredential(t, "tenant-1", "card", true)
		gw := newGateway(ctrl)
		h.register(t, "card", gw)
		gw.EXPECT().Submit(gomock.Any(), gomock.Any()).Return(entities.Declined("tx-1", "do_not_honor"), nil).Times(1)

		uc := h.useCase(testPolicy())
		first, err := uc.Process(context.Background(), validIntent())
		if err != nil {
			t.Fatalf("first: %v", err)
		}
		_, _ = h.store.SaveCredential(context.Background(), entities.GatewayCredential{
			ID: "cred-1", TenantID: "tenant-1", GatewayName: "card", Ciphertext: []byte("garbage"), Active: true,
		})

		second, err := uc.Process(context.Background(), validIntent())
		if err != nil || second.ID != first.ID {
			t.Fatalf("expected replay of %s, got %+v err=%v", first.ID, second, err)
		}
	})

	t.Run("replay without caller key uses the fingerprint", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		h := newHarness(t)
		h.putCredential(t, "tenant-1", "card", true)
		gw := newGateway(ctrl)
		h.register(t, "card", gw)
		gw.EXPECT().Submit(gomock.Any(), gomock.Any()).Return(entities.Declined("tx-1", "do_not_honor"), nil).Times(1)

		intent := validIntent()
		intent.IdempotencyKey = ""
		uc := h.useCase(testPolicy())
		first, _ := uc.Process(context.Background(), intent)
		second, err := uc.Process(context.Background(), intent)
		if err != nil || first.ID != second.ID {
			t.Fatalf("expected replay, got %+v err=%v", second, err)
		}
	})

	t.Run("same key with a different request conflicts", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		h := newHarness(t)
		h.putCredential(t, "tenant-1", "card", true)
		gw := newGateway(ctrl)
		h.register(t, "card", gw)
		gw.EXPECT().Submit(gomock.Any(), gomock.Any()).Return(entities.Approved("tx-1"), nil).Times(1)

		uc := h.useCase(testPolicy())
		if _, err := uc.Process(context.Background(), validIntent()); err != nil {
			t.Fatalf("first: %v", err)
		}
		changed := validIntent()
		changed.Amount = decimal.RequireFromString("99.00")
		if _, err := uc.Process(context.Background(), changed); !errors.Is(err, ErrIdempotencyConflict) {
			t.Fatalf("expected ErrIdempotencyConflict, got %v", err)
		}
	})

	t.Run("reservation without a payment is in progress", func(t *testing.T) {
		h := newHarness(t)
		h.putCredential(t, "tenant-1", "card", true)
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		h.register(t, "card", newGateway(ctrl))

		intent := validIntent()
		fp := Fingerprint(intent)
		_, _ = h.store.Reserve(context.Background(), entities.IdempotencyReservation{
			Key: IdempotencyKey(intent, fp), PaymentID: "someone-else", Fingerprint: fp,
		})

		policy := testPolicy()
		policy.IdempotencyWait = 20 * time.Millisecond
		_, err := h.useCase(policy).Process(context.Background(), intent)
		if !errors.Is(err, ErrPaymentInProgress) {
			t.Fatalf("expected ErrPaymentInProgress, got %v", err)
		}
	})

	t.Run("concurrent duplicates call the gateway once", func(t *testing.T) {
		h := newHarness(t)
		h.putCredential(t, "tenant-1", "card", true)
		gw := &countingGateway{delay: 20 * time.Millisecond}
		h.register(t, "card", gw)
		uc := h.useCase(testPolicy())

		const n = 16
		ids := make([]string, n)
		errs := make([]error, n)
		var wg sync.WaitGroup
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				p, err := uc.Process(context.Background(), validIntent())
				ids[i], errs[i] = p.ID, err
			}(i)
		}
		wg.Wait()

		if got := atomic.LoadInt32(&gw.calls); got != 1 {
			t.Fatalf("expected exactly one gateway call, got %d", got)
		}
		for i := range ids {
			if errs[i] != nil {
				t.Fatalf("request %d: %v", i, errs[i])
			}
			if ids[i] != ids[0] {
				t.Fatalf("request %d observed payment %s, want %s", i, ids[i], ids[0])
			}
		}
	})

	t.Run("persist failure releases the reservation", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		h := newHarness(t)
		h.putCredential(t, "tenant-1", "card", true)
		gw := newGateway(ctrl)
		h.register(t, "card", gw)
		payments := mock_interfaces.NewMockIPaymentRepository(ctrl)

		gw.EXPECT().Submit(gomock.Any(), gomock.Any()).Return(entities.Approved("tx-1"), nil)
		payments.EXPECT().Save(gomock.Any(), gomock.Any()).Return(entities.Payment{}, errors.New("throttled"))

		uc := NewPaymentUseCase(PaymentDeps{
			Payments: payments, Idempotency: h.store, Credentials: h.store, Vault: h.vault, Gateways: h.registry,
		}, testPolicy())

		if _, err := uc.Process(context.Background(), validIntent()); err == nil {
			t.Fatalf("expected persist error")
		}
		intent := validIntent()
		if _, ok, _ := h.store.Find(context.Background(), IdempotencyKey(intent, Fingerprint(intent))); ok {
			t.Fatalf("reservation should be released after a persist failure")
		}
	})
}

func TestPaymentUseCase_Process_Cancellation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	h := newHarness(t)
	h.putCredential(t, "tenant-1", "card", true)
	gw := newGateway(ctrl)
	h.register(t, "card", gw)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	gw.EXPECT().Submit(gomock.Any(), gomock.Any()).DoAndReturn(func(context.Context, interfaces.GatewaySubmission) (entities.GatewayOutcome, error) {
		cancel()
		return entities.TransientFailure(0), nil
	}).Times(1)

	policy := testPolicy()
	policy.BackoffBase = time.Second
	policy.BackoffMax = time.Second

	start := time.Now()
	p, err := h.useCase(policy).Process(ctx, validIntent())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if time.Since(start) > 500*time.Millisecond {
		t.Fatalf("cancellation did not interrupt the backoff")
	}
	if p.Status != entities.PaymentStatusFailed || p.Metadata[entities.MetadataFailureReason] != entities.FailureRequestCancelled {
		t.Fatalf("unexpected payment %+v", p)
	}
	if stored, ok, _ := h.store.FindByID(context.Background(), p.ID); !ok || stored.Status != entities.PaymentStatusFailed {
		t.Fatalf("cancelled payment must still be persisted")
	}
}

func TestPaymentUseCase_UsesContextLogger(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	h := newHarness(t)
	h.putCredential(t, "tenant-1", "card", true)
	gw := newGateway(ctrl)
	h.register(t, "card", gw)
	gw.EXPECT().Submit(gomock.Any(), gomock.Any()).Return(entities.Approved("tx-1"), nil)

	core, logs := observer.New(zapcore.InfoLevel)
	ctx := logging.ContextWithLogger(context.Background(), zap.New(core).With(zap.String("request_id", "req-1")))

	if _, err := h.useCase(testPolicy()).Process(ctx, validIntent()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	done := logs.FilterMessage("payment_process_done").FilterField(zap.String("request_id", "req-1"))
	if done.Len() != 1 {
		t.Fatalf("expected request scoped completion log, got %d", done.Len())
	}
	for _, e := range logs.All() {
		for _, f := range e.Context {
			if f.String == "APP_USR-secret" {
				t.Fatalf("credential value leaked into log %q", e.Message)
			}
		}
	}
}

func TestPaymentUseCase_GetByID(t *testing.T) {
	h := newHarness(t)
	uc := h.useCase(testPolicy())
	ctx := context.Background()

	if _, err := uc.GetByID(ctx, " "); !errors.Is(err, ErrInvalidPaymentID) {
		t.Fatalf("expected ErrInvalidPaymentID, got %v", err)
	}
	if _, err := uc.GetByID(ctx, "missing"); !errors.Is(err, ErrPaymentNotFound) {
		t.Fatalf("expected ErrPaymentNotFound, got %v", err)
	}

	_, _ = h.store.Save(ctx, entities.Payment{ID: "pay-1", Status: entities.PaymentStatusFailed})
	p, err := uc.GetByID(ctx, "pay-1")
	if err != nil || p.ID != "pay-1" {
		t.Fatalf("unexpected result %+v err=%v", p, err)
	}
}

type countingGateway struct {
	calls int32
	delay time.Duration
}

func (g *countingGateway) Name() string { return "counting" }

func (g *countingGateway) Submit(ctx context.Context, _ interfaces.GatewaySubmission) (entities.GatewayOutcome, error) {
	n := atomic.AddInt32(&g.calls, 1)
	select {
	case <-ctx.Done():
		return entities.GatewayOutcome{}, ctx.Err()
	case <-time.After(g.delay):
	}
	return entities.Approved("tx-" + string(rune('0'+n))), nil
}
