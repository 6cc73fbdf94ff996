package router

import (
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
	identityapp "github.com/stockroom/backend/internal/application/identity"
	"github.com/stockroom/backend/internal/domain/identity"
	"github.com/stockroom/backend/internal/infrastructure/auth"
	"github.com/stockroom/backend/internal/infrastructure/config"
	"github.com/stockroom/backend/internal/interfaces/http/dto"
	"github.com/stockroom/backend/internal/interfaces/http/handler"
	"github.com/stockroom/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(engine *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())
	assert.Equal(t, "v1", r.apiVersion)
	assert.Empty(t, r.registrars)

	r = NewRouter(gin.New(), WithAPIVersion("v2"))
	assert.Equal(t, "v2", r.apiVersion)
}

func TestDomainGroup_Methods(t *testing.T) {
	engine := gin.New()
	g := NewDomainGroup("test", "/test")
	ok := func(c *gin.Context) { c.String(http.StatusOK, c.Request.Method) }
	g.GET("/items", ok).POST("/items", ok).PUT("/items/:id", ok).DELETE("/items/:id", ok)
	g.RegisterRoutes(engine.Group("/api/v1"))

	assert.Equal(t, "test", g.Name())
	assert.Equal(t, "/test", g.Prefix())

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/test/items"},
		{http.MethodPost, "/api/v1/test/items"},
		{http.MethodPut, "/api/v1/test/items/1"},
		{http.MethodDelete, "/api/v1/test/items/1"},
	}
	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			w := serve(engine, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.method, w.Body.String())
		})
	}
}

func TestDomainGroup_MiddlewareAndSubgroups(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)
	r.Use(func(c *gin.Context) {
		c.Header("X-Api", "yes")
		c.Next()
	})

	inventory := NewDomainGroup("inventory", "/inventory")
	inventory.Use(func(c *gin.Context) {
		c.Header("X-Group", "inventory")
		c.Next()
	})
	inventory.Group("items", "/items").GET("", func(c *gin.Context) { c.String(http.StatusOK, "items") })
	r.Register(inventory).Setup()

	w := serve(engine, httptest.NewRequest(http.MethodGet, "/api/v1/inventory/items", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "items", w.Body.String())
	assert.Equal(t, "yes", w.Header().Get("X-Api"))
	assert.Equal(t, "inventory", w.Header().Get("X-Group"))
}

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

type staticResolver struct {
	auth *guard.AuthContext
}

func (r staticResolver) Resolve(_ context.Context, userID uuid.UUID) (*guard.AuthContext, error) {
	if r.auth == nil || r.auth.UserID != userID {
		return nil, errors.New("unknown user")
	}
	return r.auth, nil
}

func testEngine(t *testing.T, db error, caller *guard.AuthContext) (*gin.Engine, *auth.TokenService) {
	t.Helper()
	tokens := auth.NewTokenService(config.JWTConfig{Secret: "test-secret-key-at-least-32-chars", TTL: time.Minute})
	engine := NewEngine(Options{
		HTTP:     config.HTTPConfig{MaxBodySize: 1 << 20, RequestTimeout: 5 * time.Second},
		Log:      zap.NewNop(),
		Tokens:   tokens,
		Resolver: staticResolver{auth: caller},
		Health:   handler.NewHealthHandler("test", map[string]handler.Pinger{"database": pinger{err: db}}),
	}, Handlers{
		Me: handler.NewMeHandler(identityapp.NewMeService()),
	})
	return engine, tokens
}

func TestNewEngine_PublicRoutes(t *testing.T) {
	engine, _ := testEngine(t, nil, nil)

	w := serve(engine, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))

	w = serve(engine, httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "pong")

	down, _ := testEngine(t, errors.New("refused"), nil)
	w = serve(down, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "unhealthy")
}

func TestNewEngine_APIRequiresBearerToken(t *testing.T) {
	caller := &guard.AuthContext{
		UserID:     uuid.New(),
		TenantID:   uuid.New(),
		Role:       identity.RoleViewer,
		Email:      "viewer@acme.test",
		TenantName: "Acme",
		TenantSlug: "acme",
	}
	engine, tokens := testEngine(t, nil, caller)

	w := serve(engine, httptest.NewRequest(http.MethodGet, "/api/v1/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, dto.ErrCodeUnauthorized, resp.Error.Code)

	token, _, err := tokens.Issue(caller.UserID, caller.Email)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = serve(engine, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"slug":"acme"`)
}

func TestDomainGroups_CoverTheAPI(t *testing.T) {
	engine := gin.New()
	NewRouter(engine).Register(DomainGroups(Handlers{})...).Setup()

	registered := map[string]bool{}
	for _, route := range engine.Routes() {
		registered[route.Method+" "+route.Path] = true
	}

	want := []string{
		"GET /api/v1/me",
		"GET /api/v1/contacts",
		"POST /api/v1/customers",
		"POST /api/v1/customers/:id/deactivate",
		"GET /api/v1/items/:id/fefo",
		"POST /api/v1/items/:id/image-upload-url",
		"DELETE /api/v1/items/:id/image",
		"GET /api/v1/folders/:id/stats",
		"PUT /api/v1/locations/:id/stock",
		"GET /api/v1/sales-orders/stats/status",
		"POST /api/v1/sales-orders/:id/items/:item_id/taxes/recalculate",
		"GET /api/v1/sales-orders/:id/pick-list",
		"PUT /api/v1/pick-lists/:id/lines/:line_id",
		"POST /api/v1/pick-lists/:id/complete",
		"DELETE /api/v1/tax-rates/:id",
		"PUT /api/v1/stock-counts/:id/lines/:line_id",
		"GET /api/v1/stock-counts/:id/progress",
		"DELETE /api/v1/jobs/:id",
		"GET /api/v1/activity/:entity_type/:entity_id",
	}
	for _, route := range want {
		assert.True(t, registered[route], "missing %s", route)
	}
	for route := range registered {
		assert.True(t, strings.HasPrefix(strings.SplitN(route, " ", 2)[1], "/api/v1/"), route)
	}
}
