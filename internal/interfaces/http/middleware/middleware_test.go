package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stockroom/backend/internal/application/guard"
	"github.com/stockroom/backend/internal/domain/identity"
	"github.com/stockroom/backend/internal/domain/shared"
	"github.com/stockroom/backend/internal/infrastructure/auth"
	"github.com/stockroom/backend/internal/infrastructure/config"
	"github.com/stockroom/backend/internal/infrastructure/logger"
	"github.com/stockroom/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type mockResolver struct {
	mock.Mock
}

func (m *mockResolver) Resolve(ctx context.Context, userID uuid.UUID) (*guard.AuthContext, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*guard.AuthContext), args.Error(1)
}

func newTokens(ttl time.Duration) *auth.TokenService {
	return auth.NewTokenService(config.JWTConfig{
		Secret:   "test-secret-key-at-least-32-chars",
		Issuer:   "stockroom-test",
		Audience: "authenticated",
		TTL:      ttl,
	})
}

func decode(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) {
		assert.Equal(t, GetRequestID(c), logger.RequestID(c.Request.Context()))
		c.Status(http.StatusOK)
	})

	w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	generated := w.Header().Get(RequestIDHeader)
	_, err := uuid.Parse(generated)
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "client-id-1")
	assert.Equal(t, "client-id-1", serve(r, req).Header().Get(RequestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, strings.Repeat("x", MaxRequestIDLength+1))
	assert.NotContains(t, serve(r, req).Header().Get(RequestIDHeader), "xxx")
}

func TestCORS(t *testing.T) {
	cfg := DefaultCORSConfig()
	cfg.AllowOrigins = []string{"https://app.stockroom.test"}
	r := gin.New()
	r.Use(CORS(cfg))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://app.stockroom.test")
	w := serve(r, req)
	assert.Equal(t, "https://app.stockroom.test", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.test")
	w = serve(r, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "https://app.stockroom.test")
	w = serve(r, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "DELETE")
}

func TestSecure(t *testing.T) {
	cfg := DefaultSecurityConfig()
	cfg.HSTSEnabled = true
	r := gin.New()
	r.Use(Secure(cfg))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "max-age=31536000; includeSubDomains", w.Header().Get("Strict-Transport-Security"))
	assert.NotEmpty(t, w.Header().Get("Content-Security-Policy"))
}

func TestBodyLimit(t *testing.T) {
	type body struct {
		Name string `json:"name"`
	}
	r := gin.New()
	r.Use(RequestID(), BodyLimit(32))
	r.POST("/", func(c *gin.Context) {
		var b body
		if err := c.ShouldBindJSON(&b); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.Status(http.StatusOK)
	})

	w := serve(r, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"ok"}`)))
	assert.Equal(t, http.StatusOK, w.Code)

	big := `{"name":"` + strings.Repeat("a", 64) + `"}`
	w = serve(r, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(big)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, dto.ErrCodeTooLarge, decode(t, w).Error.Code)

	// unknown length is cut off while reading
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(big))
	req.ContentLength = -1
	w = serve(r, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestRateLimiter(t *testing.T) {
	limiter := NewRateLimiter(2, time.Minute)
	defer limiter.Stop()
	now := time.Now()
	limiter.now = func() time.Time { return now }

	ok, left := limiter.Allow("a")
	assert.True(t, ok)
	assert.Equal(t, 1, left)
	ok, _ = limiter.Allow("a")
	assert.True(t, ok)
	ok, _ = limiter.Allow("a")
	assert.False(t, ok)

	ok, _ = limiter.Allow("b")
	assert.True(t, ok, "keys are independent")

	now = now.Add(time.Minute)
	ok, _ = limiter.Allow("a")
	assert.True(t, ok, "a new window starts")
}

func TestRateLimit_KeysByTenant(t *testing.T) {
	limiter := NewRateLimiter(1, time.Minute)
	defer limiter.Stop()

	tenantA := &guard.AuthContext{UserID: uuid.New(), TenantID: uuid.New(), Role: identity.RoleMember}
	tenantB := &guard.AuthContext{UserID: uuid.New(), TenantID: uuid.New(), Role: identity.RoleMember}
	var caller *guard.AuthContext

	r := gin.New()
	r.Use(RequestID(), func(c *gin.Context) {
		c.Request = c.Request.WithContext(guard.WithAuth(c.Request.Context(), caller))
		c.Next()
	}, RateLimit(limiter))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	caller = tenantA
	assert.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodGet, "/", nil)).Code)
	w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, dto.ErrCodeRateLimited, decode(t, w).Error.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))

	caller = tenantB
	assert.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodGet, "/", nil)).Code)
}

func authRouter(tokens TokenParser, resolver CallerResolver, level identity.PermissionLevel) *gin.Engine {
	r := gin.New()
	r.Use(RequestID(), Authenticate(tokens, resolver), RequireLevel(level))
	r.GET("/", func(c *gin.Context) {
		caller, err := guard.FromContext(c.Request.Context())
		if err != nil {
			c.Status(http.StatusTeapot)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"tenant":     caller.TenantID.String(),
			"log_tenant": logger.TenantID(c.Request.Context()),
			"user":       c.GetString(UserIDKey),
		})
	})
	return r
}

func bearer(token string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestAuthenticate(t *testing.T) {
	tokens := newTokens(15 * time.Minute)
	caller := &guard.AuthContext{UserID: uuid.New(), TenantID: uuid.New(), Role: identity.RoleMember}

	t.Run("valid token resolves the caller", func(t *testing.T) {
		resolver := new(mockResolver)
		resolver.On("Resolve", mock.Anything, caller.UserID).Return(caller, nil)
		token, _, err := tokens.Issue(caller.UserID, "ann@acme.test")
		require.NoError(t, err)

		w := serve(authRouter(tokens, resolver, identity.PermissionRead), bearer(token))
		require.Equal(t, http.StatusOK, w.Code)
		var body map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, caller.TenantID.String(), body["tenant"])
		assert.Equal(t, caller.TenantID.String(), body["log_tenant"])
		assert.Equal(t, caller.UserID.String(), body["user"])
	})

	t.Run("header problems", func(t *testing.T) {
		r := authRouter(tokens, new(mockResolver), identity.PermissionRead)
		w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, dto.ErrCodeUnauthorized, decode(t, w).Error.Code)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Basic abc")
		assert.Equal(t, http.StatusUnauthorized, serve(r, req).Code)

		w = serve(r, bearer("not-a-jwt"))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, dto.ErrCodeTokenInvalid, decode(t, w).Error.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		token, _, err := newTokens(-time.Hour).Issue(caller.UserID, "")
		require.NoError(t, err)
		w := serve(authRouter(tokens, new(mockResolver), identity.PermissionRead), bearer(token))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, dto.ErrCodeTokenExpired, decode(t, w).Error.Code)
	})

	t.Run("suspended tenant", func(t *testing.T) {
		resolver := new(mockResolver)
		resolver.On("Resolve", mock.Anything, caller.UserID).Return(nil, shared.ErrTenantSuspended)
		token, _, _ := tokens.Issue(caller.UserID, "")
		w := serve(authRouter(tokens, resolver, identity.PermissionRead), bearer(token))
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, dto.ErrCodeTenantSuspended, decode(t, w).Error.Code)
	})

	t.Run("resolver failure", func(t *testing.T) {
		resolver := new(mockResolver)
		resolver.On("Resolve", mock.Anything, caller.UserID).Return(nil, errors.New("db down"))
		token, _, _ := tokens.Issue(caller.UserID, "")
		w := serve(authRouter(tokens, resolver, identity.PermissionRead), bearer(token))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "db down")
	})

	t.Run("role below the required level", func(t *testing.T) {
		viewer := &guard.AuthContext{UserID: uuid.New(), TenantID: uuid.New(), Role: identity.RoleViewer}
		resolver := new(mockResolver)
		resolver.On("Resolve", mock.Anything, viewer.UserID).Return(viewer, nil)
		token, _, _ := tokens.Issue(viewer.UserID, "")
		w := serve(authRouter(tokens, resolver, identity.PermissionWrite), bearer(token))
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, dto.ErrCodeForbidden, decode(t, w).Error.Code)
	})
}

func TestTimeout(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), Timeout(20*time.Millisecond))
	r.GET("/slow", func(c *gin.Context) {
		<-c.Request.Context().Done()
	})
	r.GET("/fast", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/slow", nil))
	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
	assert.Equal(t, dto.ErrCodeTimeout, decode(t, w).Error.Code)

	assert.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodGet, "/fast", nil)).Code)
}

func TestFormatValidationErrors(t *testing.T) {
	SetupValidator()
	type payload struct {
		Name  string `json:"name" binding:"required,max=5"`
		Email string `json:"email" binding:"omitempty,email"`
	}
	r := gin.New()
	r.Use(RequestID())
	r.POST("/", func(c *gin.Context) {
		var p payload
		if err := c.ShouldBindJSON(&p); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.Status(http.StatusOK)
	})

	w := serve(r, httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"email":"nope"}`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decode(t, w)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
	assert.NotEmpty(t, resp.Error.RequestID)
	require.Len(t, resp.Error.Details, 2)
	assert.Equal(t, "name", resp.Error.Details[0].Field)
	assert.Equal(t, "This field is required", resp.Error.Details[0].Message)
	assert.Equal(t, "Invalid email format", resp.Error.Details[1].Message)

	w = serve(r, httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"name":`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(r, httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"name":12}`)))
	resp = decode(t, w)
	require.Len(t, resp.Error.Details, 1)
	assert.Equal(t, "Invalid type", resp.Error.Details[0].Message)
}

func TestHTTPMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer func() { _ = provider.Shutdown(context.Background()) }()

	r := gin.New()
	r.Use(HTTPMetrics(provider.Meter("http.server")))
	r.GET("/items/:id", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	serve(r, httptest.NewRequest(http.MethodGet, "/items/1", nil))
	serve(r, httptest.NewRequest(http.MethodGet, "/items/2", nil))

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "http_server_request_total" {
				continue
			}
			for _, dp := range m.Data.(metricdata.Sum[int64]).DataPoints {
				route, _ := dp.Attributes.Value("http.route")
				assert.Equal(t, "/items/:id", route.AsString())
				total += dp.Value
			}
		}
	}
	assert.Equal(t, int64(2), total)

	// nil meter is a pass-through
	r = gin.New()
	r.Use(HTTPMetrics(nil))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
	assert.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodGet, "/", nil)).Code)
}
