package handlers

import (
	"errors"
	"net/http"

	"ozpay/internal/adapter/http/dto/request"
	"ozpay/internal/adapter/http/dto/response"
	"ozpay/internal/pkg/logging"
	"ozpay/internal/usecase"
	"ozpay/pkg"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CredentialHandler administers tenant gateway credentials. Responses only
// ever carry key names.

type CredentialHandler struct {
	usecase usecase.ICredentialUseCase
}

func NewCredentialHandler(uc usecase.ICredentialUseCase) *CredentialHandler {
	return &CredentialHandler{usecase: uc}
}

// PutCredentials godoc
// @Summary      Store gateway credentials
// @Tags         credentials
// @Accept       json
// @Produce      json
// @Security     Bearer
// @Param        tenant_id     path      string                        true  "Tenant ID"
// @Param        gateway_name  path      string                        true  "Payment method the credentials serve"
// @Param        credentials   body      request.PutCredentialRequest  true  "Credential set"
// @Success      200           {object}  response.CredentialResponse
// @Failure      400           {object}  pkg.HTTPError
// @Failure      401           {object}  pkg.HTTPError
// @Failure      500           {object}  pkg.HTTPError
// @Router       /tenants/{tenant_id}/gateways/{gateway_name}/credentials [put]
func (h *CredentialHandler) PutCredentials(c *gin.Context) {
	ctx := c.Request.Context()

	var req request.PutCredentialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		appErr := pkg.NewDomainError("INVALID_REQUEST", "Invalid request body", err, http.StatusBadRequest)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	desc, err := h.usecase.Save(ctx, usecase.SaveCredentialInput{
		TenantID:    c.Param("tenant_id"),
		GatewayName: c.Param("gateway_name"),
		Credentials: req.Credentials,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	logging.FromContext(ctx).Info("gateway_credential_saved",
		zap.String("tenant_id", desc.TenantID),
		zap.String("gateway_name", desc.GatewayName),
		zap.Strings("keys", desc.Keys),
	)
	c.JSON(http.StatusOK, response.FromCredentialDescription(desc))
}

// GetCredentials godoc
// @Summary      Describe gateway credentials
// @Tags         credentials
// @Produce      json
// @Security     Bearer
// @Param        tenant_id     path      string  true  "Tenant ID"
// @Param        gateway_name  path      string  true  "Payment method the credentials serve"
// @Success      200           {object}  response.CredentialResponse
// @Failure      401           {object}  pkg.HTTPError
// @Failure      404           {object}  pkg.HTTPError
// @Router       /tenants/{tenant_id}/gateways/{gateway_name}/credentials [get]
func (h *CredentialHandler) GetCredentials(c *gin.Context) {
	desc, err := h.usecase.Describe(c.Request.Context(), c.Param("tenant_id"), c.Param("gateway_name"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromCredentialDescription(desc))
}

// DeleteCredentials godoc
// @Summary      Deactivate gateway credentials
// @Tags         credentials
// @Produce      json
// @Security     Bearer
// @Param        tenant_id     path      string  true  "Tenant ID"
// @Param        gateway_name  path      string  true  "Payment method the credentials serve"
// @Success      200           {object}  response.CredentialResponse
// @Failure      401           {object}  pkg.HTTPError
// @Failure      404           {object}  pkg.HTTPError
// @Router       /tenants/{tenant_id}/gateways/{gateway_name}/credentials [delete]
func (h *CredentialHandler) DeleteCredentials(c *gin.Context) {
	ctx := c.Request.Context()

	desc, err := h.usecase.Deactivate(ctx, c.Param("tenant_id"), c.Param("gateway_name"))
	if err != nil {
		h.fail(c, err)
		return
	}

	logging.FromContext(ctx).Info("gateway_credential_deactivated",
		zap.String("tenant_id", desc.TenantID),
		zap.String("gateway_name", desc.GatewayName),
	)
	c.JSON(http.StatusOK, response.FromCredentialDescription(desc))
}

func (h *CredentialHandler) fail(c *gin.Context, err error) {
	appErr := mapCredentialError(err)
	logger := logging.FromContext(c.Request.Context())
	if appErr.HTTPStatus >= http.StatusInternalServerError {
		logger.Error("credential_request_failed", zap.String("code", appErr.Code), zap.Bool("alert", true), zap.Error(err))
	} else {
		logger.Info("credential_request_rejected", zap.String("code", appErr.Code), zap.Error(err))
	}
	c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
}

func mapCredentialError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, usecase.ErrInvalidCredential):
		return pkg.NewDomainError("INVALID_CREDENTIAL", "Invalid credential set", err, http.StatusBadRequest)
	case errors.Is(err, usecase.ErrCredentialNotFound):
		return pkg.NewDomainError("GATEWAY_CREDENTIAL_NOT_FOUND", "Gateway credentials not found", err, http.StatusNotFound)
	case errors.Is(err, usecase.ErrCredentialAccess):
		return pkg.NewDomainError("GATEWAY_CREDENTIAL_UNAVAILABLE", "Gateway credentials could not be accessed", err, http.StatusInternalServerError)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "Internal server error", err, http.StatusInternalServerError)
	}
}
