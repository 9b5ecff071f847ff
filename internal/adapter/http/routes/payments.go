package routes

import (
	"ozpay/internal/adapter/http/handlers"

	"github.com/gin-gonic/gin"
)

const (
	PathPayments    = "/payments"
	PathCredentials = "/tenants/:tenant_id/gateways/:gateway_name/credentials"
	PathPing        = "/ping"
)

func addPaymentRoutes(rg *gin.RouterGroup, paymentHandler *handlers.PaymentHandler) {
	payments := rg.Group(PathPayments)
	{
		payments.POST("", paymentHandler.CreatePayment)
		payments.GET("/:id", paymentHandler.GetPayment)
	}
}

func addCredentialRoutes(rg *gin.RouterGroup, credentialHandler *handlers.CredentialHandler) {
	credentials := rg.Group(PathCredentials)
	{
		credentials.PUT("", credentialHandler.PutCredentials)
		credentials.GET("", credentialHandler.GetCredentials)
		credentials.DELETE("", credentialHandler.DeleteCredentials)
	}
}

// Ping godoc
// @Summary  Liveness probe
// @Tags     health
// @Produce  json
// @Success  200  {object}  map[string]string
// @Router   /ping [get]
func ping(c *gin.Context) {
	c.JSON(200, gin.H{"message": "pong"})
}

func addPingRoutes(rg *gin.RouterGroup) {
	rg.GET(PathPing, ping)
}
