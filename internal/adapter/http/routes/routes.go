package routes

import (
	"net/http"
	"time"

	_ "ozpay/docs"
	"ozpay/internal/adapter/http/handlers"
	"ozpay/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// HTTPMetrics records one observation per served request.
type HTTPMetrics interface {
	HTTPRequest(method, route string, status int, d time.Duration)
}

// Dependencies wires the router. Credentials and AdminToken are optional:
// the admin routes only exist when both are set.
type Dependencies struct {
	Payments    usecase.IPaymentUseCase
	Credentials usecase.ICredentialUseCase
	AdminToken  string

	Logger   *zap.Logger
	Metrics  HTTPMetrics
	Gatherer prometheus.Gatherer
}

// NewRouter builds the gin engine with middlewares, docs and the /v1 API.
func NewRouter(deps Dependencies) *gin.Engine {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	router := gin.New()
	setMiddlewares(router, deps)

	// Swagger documentation endpoint
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	if deps.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	v1 := router.Group("/v1")
	addPingRoutes(v1)
	addPaymentRoutes(v1, handlers.NewPaymentHandler(deps.Payments))

	if deps.Credentials != nil && deps.AdminToken != "" {
		admin := v1.Group("", adminAuth(deps.AdminToken))
		addCredentialRoutes(admin, handlers.NewCredentialHandler(deps.Credentials))
	} else {
		deps.Logger.Info("admin_routes_disabled")
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"code": "NOT_FOUND", "message": "Route not found"})
	})
	return router
}

func setMiddlewares(router *gin.Engine, deps Dependencies) {
	router.Use(recovery(deps.Logger))
	router.Use(requestContext(deps.Logger, deps.Metrics))
}
