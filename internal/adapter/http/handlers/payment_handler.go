package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"ozpay/internal/adapter/http/dto/request"
	"ozpay/internal/adapter/http/dto/response"
	"ozpay/internal/domain/entities"
	"ozpay/internal/pkg/logging"
	"ozpay/internal/usecase"
	"ozpay/pkg"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const HeaderIdempotencyKey = "Idempotency-Key"

// PaymentHandler handles HTTP requests for payments.

type PaymentHandler struct {
	usecase usecase.IPaymentUseCase
}

func NewPaymentHandler(uc usecase.IPaymentUseCase) *PaymentHandler {
	return &PaymentHandler{usecase: uc}
}

// CreatePayment godoc
// @Summary      Process a payment
// @Description  Routes the payment to the gateway registered for its method using the tenant's stored credentials.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header    string                         false  "Caller idempotency key"
// @Param        payment          body      request.CreatePaymentRequest   true   "Payment"
// @Success      201              {object}  response.PaymentResponse
// @Failure      400              {object}  pkg.HTTPError
// @Failure      409              {object}  pkg.HTTPError
// @Failure      422              {object}  pkg.HTTPError
// @Failure      424              {object}  pkg.HTTPError
// @Failure      500              {object}  pkg.HTTPError
// @Router       /payments [post]
func (h *PaymentHandler) CreatePayment(c *gin.Context) {
	ctx := c.Request.Context()
	logger := logging.FromContext(ctx)

	var req request.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Info("payment_request_invalid", zap.Error(err))
		appErr := pkg.NewDomainError("INVALID_REQUEST", "Invalid request body", err, http.StatusBadRequest)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	payment, err := h.usecase.Process(ctx, req.ToIntent(c.GetHeader(HeaderIdempotencyKey)))
	if err != nil {
		appErr := mapPaymentError(err)
		logPaymentError(logger, appErr, err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.Header("Location", PaymentLocation(payment.ID))
	c.JSON(http.StatusCreated, response.FromPayment(payment))
}

// GetPayment godoc
// @Summary      Get a payment
// @Tags         payments
// @Produce      json
// @Param        id   path      string  true  "Payment ID"
// @Success      200  {object}  response.PaymentResponse
// @Failure      400  {object}  pkg.HTTPError
// @Failure      404  {object}  pkg.HTTPError
// @Router       /payments/{id} [get]
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	ctx := c.Request.Context()

	payment, err := h.usecase.GetByID(ctx, c.Param("id"))
	if err != nil {
		appErr := mapPaymentError(err)
		logPaymentError(logging.FromContext(ctx), appErr, err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusOK, response.FromPayment(payment))
}

func PaymentLocation(id string) string {
	return "/v1/payments/" + id
}

func mapPaymentError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, usecase.ErrValidation), errors.Is(err, entities.ErrInvalidPayment):
		return pkg.NewDomainError("INVALID_PAYMENT", validationMessage(err), err, http.StatusBadRequest)
	case errors.Is(err, usecase.ErrInvalidPaymentID):
		return pkg.NewDomainError("INVALID_PAYMENT_ID", "Invalid payment id", err, http.StatusBadRequest)
	case errors.Is(err, usecase.ErrUnknownGateway):
		return pkg.NewDomainError("UNSUPPORTED_PAYMENT_METHOD", "No gateway is registered for this payment method", err, http.StatusUnprocessableEntity)
	case errors.Is(err, usecase.ErrCredentialNotFound):
		return pkg.NewDomainError("GATEWAY_CREDENTIAL_NOT_FOUND", "Gateway credentials are not configured for this tenant", err, http.StatusFailedDependency)
	case errors.Is(err, usecase.ErrCredentialAccess):
		return pkg.NewDomainError("GATEWAY_CREDENTIAL_UNAVAILABLE", "Gateway credentials could not be loaded", err, http.StatusInternalServerError)
	case errors.Is(err, usecase.ErrIdempotencyConflict):
		return pkg.NewDomainError("IDEMPOTENCY_KEY_CONFLICT", "Idempotency key was already used with a different request", err, http.StatusConflict)
	case errors.Is(err, usecase.ErrPaymentInProgress):
		return pkg.NewDomainError("PAYMENT_IN_PROGRESS", "A payment with this idempotency key is still being processed", err, http.StatusConflict)
	case errors.Is(err, usecase.ErrPaymentNotFound):
		return pkg.NewDomainError("PAYMENT_NOT_FOUND", "Payment not found", err, http.StatusNotFound)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return pkg.NewDomainError("REQUEST_CANCELLED", "Request was cancelled before the payment completed", err, http.StatusServiceUnavailable)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "Internal server error", err, http.StatusInternalServerError)
	}
}

// validationMessage exposes the field messages of a validation failure,
// which never contain credential material.
func validationMessage(err error) string {
	msg := err.Error()
	for _, prefix := range []string{usecase.ErrValidation.Error() + ": ", entities.ErrInvalidPayment.Error() + ": "} {
		if i := strings.Index(msg, prefix); i >= 0 {
			return "Invalid payment: " + msg[i+len(prefix):]
		}
	}
	return "Invalid payment"
}

func logPaymentError(logger *zap.Logger, appErr *pkg.AppError, err error) {
	fields := []zap.Field{zap.String("code", appErr.Code), zap.Int("status", appErr.HTTPStatus), zap.Error(err)}
	if appErr.HTTPStatus >= http.StatusInternalServerError {
		logger.Error("payment_request_failed", fields...)
		return
	}
	logger.Info("payment_request_rejected", fields...)
}
