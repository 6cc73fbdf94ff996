// Package guard resolves who is calling, what they may do and whether a row is theirs.
// Every use case runs the same three steps: authenticate, authorize, verify ownership.
package guard

import (
	"context"

	"github.com/google/uuid"
	"github.com/stockroom/backend/internal/domain/identity"
	"github.com/stockroom/backend/internal/domain/shared"
)

// AuthContext is the resolved caller of a request
type AuthContext struct {
	UserID     uuid.UUID     `json:"user_id"`
	TenantID   uuid.UUID     `json:"tenant_id"`
	Role       identity.Role `json:"role"`
	Email      string        `json:"email"`
	FullName   string        `json:"full_name"`
	TenantName string        `json:"tenant_name"`
	TenantSlug string        `json:"tenant_slug"`
}

type authKey struct{}

// WithAuth stores the auth context on ctx
func WithAuth(ctx context.Context, auth *AuthContext) context.Context {
	return context.WithValue(ctx, authKey{}, auth)
}

// FromContext returns the caller or ErrUnauthorized
func FromContext(ctx context.Context) (*AuthContext, error) {
	auth, ok := ctx.Value(authKey{}).(*AuthContext)
	if !ok || auth == nil || auth.UserID == uuid.Nil || auth.TenantID == uuid.Nil {
		return nil, shared.ErrUnauthorized
	}
	return auth, nil
}

// Authorize resolves the caller and checks that their role grants level
func Authorize(ctx context.Context, level identity.PermissionLevel) (*AuthContext, error) {
	auth, err := FromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := auth.Require(level); err != nil {
		return nil, err
	}
	return auth, nil
}

// Can reports whether the caller's role grants level
func (a *AuthContext) Can(level identity.PermissionLevel) bool {
	return a.Role.Allows(level)
}

// Require returns ErrForbidden unless the role grants level
func (a *AuthContext) Require(level identity.PermissionLevel) error {
	if !a.Can(level) {
		return shared.ErrForbidden
	}
	return nil
}

// VerifyTenant returns NOT_FOUND for rows of another tenant, so foreign ids look
// exactly like missing ones.
func (a *AuthContext) VerifyTenant(tenantID uuid.UUID, resource string) error {
	if tenantID != a.TenantID {
		return shared.NewNotFoundError(resource)
	}
	return nil
}

// Own finishes a load by id: repository misses and foreign rows both become
// "<resource> not found", other errors pass through.
//
//	order, err := guard.Own[*trade.SalesOrder](auth, "Sales order")(repo.FindByID(ctx, id))
func Own[T shared.TenantOwned](auth *AuthContext, resource string) func(T, error) (T, error) {
	return func(row T, err error) (T, error) {
		var zero T
		if err != nil {
			if shared.IsNotFound(err) {
				return zero, shared.NewNotFoundError(resource)
			}
			return zero, err
		}
		if err := auth.VerifyTenant(row.GetTenantID(), resource); err != nil {
			return zero, err
		}
		return row, nil
	}
}
