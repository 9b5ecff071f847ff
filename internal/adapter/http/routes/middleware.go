package routes

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"ozpay/internal/pkg/logging"
	"ozpay/pkg"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	HeaderRequestID = "X-Request-ID"

	httpTracerName = "ozpay/http"
)

// requestContext extracts W3C trace headers, opens the server span and stores
// a request scoped logger in the request context.
func requestContext(base *zap.Logger, metrics HTTPMetrics) gin.HandlerFunc {
	tracer := otel.Tracer(httpTracerName)
	propagator := otel.GetTextMapPropagator()

	return func(c *gin.Context) {
		start := time.Now()

		requestID := strings.TrimSpace(c.GetHeader(HeaderRequestID))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(HeaderRequestID, requestID)

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		ctx := propagator.Extract(c.Request.Context(), propagation.HeaderCarrier(c.Request.Header))
		ctx, span := tracer.Start(ctx, c.Request.Method+" "+route,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.method", c.Request.Method),
				attribute.String("http.route", route),
				attribute.String("request.id", requestID),
			),
		)
		defer span.End()

		logger := base.With(zap.String("request_id", requestID))
		if sc := span.SpanContext(); sc.IsValid() {
			logger = logging.WithTrace(logger, sc.TraceID().String(), sc.SpanID().String())
		}
		if tenantID := c.Param("tenant_id"); tenantID != "" {
			logger = logger.With(zap.String("tenant_id", tenantID))
		}
		c.Request = c.Request.WithContext(logging.ContextWithLogger(ctx, logger))

		c.Next()

		status := c.Writer.Status()
		elapsed := time.Since(start)
		span.SetAttributes(attribute.Int("http.status_code", status))
		if metrics != nil {
			metrics.HTTPRequest(c.Request.Method, route, status, elapsed)
		}
		logger.Info("http_request",
			zap.String("method", c.Request.Method),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Duration("duration", elapsed),
		)
	}
}

func recovery(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logging.FromContextOr(c.Request.Context(), logger).Error("http_panic_recovered",
			zap.Any("panic", recovered),
			zap.String("path", c.Request.URL.Path),
		)
		appErr := pkg.NewDomainErrorSimple("INTERNAL_ERROR", "Internal server error", http.StatusInternalServerError)
		c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToHTTPError())
	})
}

// adminAuth guards the credential routes with a static bearer token.
func adminAuth(token string) gin.HandlerFunc {
	expected := []byte(token)
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		presented, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(strings.TrimSpace(presented)), expected) != 1 {
			appErr := pkg.NewDomainErrorSimple("UNAUTHORIZED", "Missing or invalid admin token", http.StatusUnauthorized)
			c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToHTTPError())
			return
		}
		c.Next()
	}
}
