package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stockroom/backend/internal/application/guard"
	"github.com/stockroom/backend/internal/domain/identity"
	"github.com/stockroom/backend/internal/domain/shared"
	"github.com/stockroom/backend/internal/infrastructure/auth"
	"github.com/stockroom/backend/internal/infrastructure/logger"
	"github.com/stockroom/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

const (
	// UserIDKey holds the authenticated user id in the gin context
	UserIDKey     = "user_id"
	authHeaderKey = "Authorization"
	bearerPrefix  = "Bearer "
)

// TokenParser verifies bearer tokens
type TokenParser interface {
	Parse(token string) (*auth.Claims, error)
}

// CallerResolver turns a user id into the caller's auth context
type CallerResolver interface {
	Resolve(ctx context.Context, userID uuid.UUID) (*guard.AuthContext, error)
}

// Authenticate verifies the bearer token, resolves the caller's profile and
// tenant, and puts the auth context on the request context. Requests without
// a valid token or profile get 401, suspended tenants 403.
func Authenticate(tokens TokenParser, resolver CallerResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(authHeaderKey)
		if header == "" {
			abortWithError(c, dto.ErrCodeUnauthorized, "Missing authorization header")
			return
		}
		if !strings.HasPrefix(header, bearerPrefix) {
			abortWithError(c, dto.ErrCodeUnauthorized, "Invalid authorization header format")
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
		if token == "" {
			abortWithError(c, dto.ErrCodeUnauthorized, "Missing token")
			return
		}

		claims, err := tokens.Parse(token)
		if err != nil {
			if errors.Is(err, auth.ErrExpiredToken) {
				abortWithError(c, dto.ErrCodeTokenExpired, "Token has expired")
				return
			}
			abortWithError(c, dto.ErrCodeTokenInvalid, "Invalid token")
			return
		}
		userID, err := claims.UserID()
		if err != nil {
			abortWithError(c, dto.ErrCodeTokenInvalid, "Invalid token")
			return
		}

		ctx := c.Request.Context()
		caller, err := resolver.Resolve(ctx, userID)
		if err != nil {
			if de, ok := shared.AsDomainError(err); ok {
				abortWithError(c, dto.FromDomainCode(de.Code), de.Message)
				return
			}
			logger.L(ctx).Error("Resolving caller failed", zap.String("user_id", userID.String()), zap.Error(err))
			abortWithError(c, dto.ErrCodeInternal, "An unexpected error occurred")
			return
		}

		c.Set(UserIDKey, caller.UserID.String())
		ctx = guard.WithAuth(ctx, caller)
		ctx = logger.WithUserID(ctx, caller.UserID.String())
		ctx = logger.WithTenantID(ctx, caller.TenantID.String())
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequireLevel stops callers whose role does not grant level. Services check
// again, this only fails fast for whole route groups.
func RequireLevel(level identity.PermissionLevel) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := guard.Authorize(c.Request.Context(), level); err != nil {
			if errors.Is(err, shared.ErrForbidden) {
				abortWithError(c, dto.ErrCodeForbidden, "Insufficient permissions")
				return
			}
			abortWithError(c, dto.ErrCodeUnauthorized, "Authentication required")
			return
		}
		c.Next()
	}
}
