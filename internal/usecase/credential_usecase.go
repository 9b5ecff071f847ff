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
	"go.uber.org/zap"
)

var ErrInvalidCredential = errors.New("invalid gateway credential")

// SaveCredentialInput carries plaintext secrets only as far as the vault.
type SaveCredentialInput struct {
	TenantID    string
	GatewayName string
	Credentials entities.CredentialSet
}

// CredentialDescription is what may be shown about a stored credential.
type CredentialDescription struct {
	ID          string
	TenantID    string
	GatewayName string
	Keys        []string
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type ICredentialUseCase interface {
	Save(ctx context.Context, in SaveCredentialInput) (CredentialDescription, error)
	Describe(ctx context.Context, tenantID, gatewayName string) (CredentialDescription, error)
	Deactivate(ctx context.Context, tenantID, gatewayName string) (CredentialDescription, error)
}

type CredentialUseCase struct {
	repo  interfaces.ICredentialRepository
	vault interfaces.ICredentialVault
	log   *zap.Logger
	now   func() time.Time
}

var _ ICredentialUseCase = (*CredentialUseCase)(nil)

func NewCredentialUseCase(repo interfaces.ICredentialRepository, vault interfaces.ICredentialVault, log *zap.Logger) *CredentialUseCase {
	if log == nil {
		log = zap.NewNop()
	}
	return &CredentialUseCase{
		repo:  repo,
		vault: vault,
		log:   log.With(zap.String("component", "credential_usecase")),
		now:   time.Now,
	}
}

// Save protects the set and upserts it for (tenant, gateway). An existing
// record keeps its ID and CreatedAt and is re-activated.
func (u *CredentialUseCase) Save(ctx context.Context, in SaveCredentialInput) (CredentialDescription, error) {
	tenantID, gatewayName, err := credentialKey(in.TenantID, in.GatewayName)
	if err != nil {
		return CredentialDescription{}, err
	}
	if len(in.Credentials) == 0 {
		return CredentialDescription{}, fmt.Errorf("%w: credential set is empty", ErrInvalidCredential)
	}
	for _, k := range in.Credentials.Keys() {
		if strings.TrimSpace(k) == "" {
			return CredentialDescription{}, fmt.Errorf("%w: empty credential key", ErrInvalidCredential)
		}
	}
	if u.repo == nil || u.vault == nil {
		return CredentialDescription{}, errors.New("credential use case not configured")
	}
	logger := logging.FromContextOr(ctx, u.log).With(
		zap.String("tenant_id", tenantID),
		zap.String("gateway", gatewayName),
	)

	blob, err := u.vault.Protect(in.Credentials)
	if err != nil {
		logger.Error("credential_protect_failed", zap.Bool("alert", true), zap.Error(err))
		return CredentialDescription{}, fmt.Errorf("%w: %w", ErrCredentialAccess, err)
	}

	now := u.now().UTC()
	cred := entities.GatewayCredential{
		ID:          uuid.NewString(),
		TenantID:    tenantID,
		GatewayName: gatewayName,
		Ciphertext:  blob,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	existing, found, err := u.repo.FindCredential(ctx, tenantID, gatewayName)
	if err != nil {
		return CredentialDescription{}, fmt.Errorf("load credential: %w", err)
	}
	if found {
		cred.ID = existing.ID
		cred.CreatedAt = existing.CreatedAt
	}

	saved, err := u.repo.SaveCredential(ctx, cred)
	if err != nil {
		logger.Error("credential_save_failed", zap.Error(err))
		return CredentialDescription{}, fmt.Errorf("save credential: %w", err)
	}

	keys := in.Credentials.Keys()
	logger.Info("credential_saved", zap.String("credential_id", saved.ID), zap.Strings("keys", keys), zap.Bool("rotated", found))
	return describe(saved, keys), nil
}

// Describe returns metadata and key names; values stay sealed.
func (u *CredentialUseCase) Describe(ctx context.Context, tenantID, gatewayName string) (CredentialDescription, error) {
	cred, err := u.load(ctx, tenantID, gatewayName)
	if err != nil {
		return CredentialDescription{}, err
	}
	set, err := u.vault.Reveal(cred.Ciphertext)
	if err != nil {
		logging.FromContextOr(ctx, u.log).Error("credential_access_failed",
			zap.Bool("alert", true),
			zap.String("credential_id", cred.ID),
			zap.Error(err),
		)
		return CredentialDescription{}, fmt.Errorf("%w: %w", ErrCredentialAccess, err)
	}
	return describe(cred, set.Keys()), nil
}

// Deactivate keeps the record for audit but makes it invisible to payments.
func (u *CredentialUseCase) Deactivate(ctx context.Context, tenantID, gatewayName string) (CredentialDescription, error) {
	cred, err := u.load(ctx, tenantID, gatewayName)
	if err != nil {
		return CredentialDescription{}, err
	}
	if !cred.Active {
		return describe(cred, nil), nil
	}
	cred.Active = false
	cred.UpdatedAt = u.now().UTC()

	saved, err := u.repo.SaveCredential(ctx, cred)
	if err != nil {
		return CredentialDescription{}, fmt.Errorf("save credential: %w", err)
	}
	logging.FromContextOr(ctx, u.log).Info("credential_deactivated",
		zap.String("tenant_id", saved.TenantID),
		zap.String("gateway", saved.GatewayName),
		zap.String("credential_id", saved.ID),
	)
	return describe(saved, nil), nil
}

func (u *CredentialUseCase) load(ctx context.Context, tenantID, gatewayName string) (entities.GatewayCredential, error) {
	tenantID, gatewayName, err := credentialKey(tenantID, gatewayName)
	if err != nil {
		return entities.GatewayCredential{}, err
	}
	if u.repo == nil || u.vault == nil {
		return entities.GatewayCredential{}, errors.New("credential use case not configured")
	}
	cred, found, err := u.repo.FindCredential(ctx, tenantID, gatewayName)
	if err != nil {
		return entities.GatewayCredential{}, fmt.Errorf("load credential: %w", err)
	}
	if !found {
		return entities.GatewayCredential{}, ErrCredentialNotFound
	}
	return cred, nil
}

func credentialKey(tenantID, gatewayName string) (string, string, error) {
	tenantID = strings.TrimSpace(tenantID)
	gatewayName = strings.TrimSpace(gatewayName)
	if tenantID == "" {
		return "", "", fmt.Errorf("%w: tenant_id is required", ErrInvalidCredential)
	}
	if gatewayName == "" {
		return "", "", fmt.Errorf("%w: gateway_name is required", ErrInvalidCredential)
	}
	return tenantID, gatewayName, nil
}

func describe(c entities.GatewayCredential, keys []string) CredentialDescription {
	return CredentialDescription{
		ID:          c.ID,
		TenantID:    c.TenantID,
		GatewayName: c.GatewayName,
		Keys:        keys,
		Active:      c.Active,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}
