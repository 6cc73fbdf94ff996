package router

import (
	"github.com/gin-gonic/gin"
	"github.com/stockroom/backend/internal/infrastructure/config"
	"github.com/stockroom/backend/internal/infrastructure/logger"
	"github.com/stockroom/backend/internal/interfaces/http/handler"
	"github.com/stockroom/backend/internal/interfaces/http/middleware"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// Options configure the engine
type Options struct {
	HTTP        config.HTTPConfig
	ServiceName string
	Tracing     bool
	// Meter records HTTP metrics when set
	Meter    metric.Meter
	Log      *zap.Logger
	Tokens   middleware.TokenParser
	Resolver middleware.CallerResolver
	Health   *handler.HealthHandler
	// RateLimiter is used when HTTP.RateLimitEnabled; the caller owns Stop
	RateLimiter *middleware.RateLimiter
}

// NewEngine builds the gin engine with the middleware chain and every route.
//
// Order: request id, recovery, access log, tracing, metrics, security headers,
// CORS, body limit, timeout; API routes then authenticate, annotate the span
// and rate limit per tenant.
func NewEngine(opts Options, h Handlers) *gin.Engine {
	middleware.SetupValidator()

	engine := gin.New()
	if len(opts.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(opts.HTTP.TrustedProxies); err != nil {
			opts.Log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = opts.HTTP.CORSAllowOrigins
	if len(opts.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = opts.HTTP.CORSAllowMethods
	}
	if len(opts.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = opts.HTTP.CORSAllowHeaders
	}

	engine.Use(
		middleware.RequestID(),
		logger.Recovery(opts.Log),
		logger.GinMiddleware(opts.Log),
		middleware.Tracing(middleware.TracingConfig{ServiceName: opts.ServiceName, Enabled: opts.Tracing}),
		middleware.SpanErrorMarker(),
		middleware.HTTPMetrics(opts.Meter),
		middleware.Secure(middleware.DefaultSecurityConfig()),
		middleware.CORS(corsConfig),
		middleware.BodyLimit(opts.HTTP.MaxBodySize),
		middleware.Timeout(opts.HTTP.RequestTimeout),
	)

	engine.GET("/health", opts.Health.Health)
	engine.GET("/api/v1/ping", opts.Health.Ping)

	r := NewRouter(engine, WithAPIVersion("v1"))
	r.Use(middleware.Authenticate(opts.Tokens, opts.Resolver), middleware.SpanAttributes())
	if opts.HTTP.RateLimitEnabled && opts.RateLimiter != nil {
		r.Use(middleware.RateLimit(opts.RateLimiter))
	}
	r.Register(DomainGroups(h)...)
	r.Setup()

	return engine
}
