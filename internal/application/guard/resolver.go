package guard

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/stockroom/backend/internal/domain/identity"
	"github.com/stockroom/backend/internal/domain/shared"
	"github.com/stockroom/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// Cache is the subset of the cache store the resolver needs
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// cachedAuth is what a cache entry holds. The tenant status is kept so a
// suspension takes effect once the entry expires.
type cachedAuth struct {
	AuthContext
	ProfileActive bool                  `json:"profile_active"`
	TenantStatus  identity.TenantStatus `json:"tenant_status"`
}

// Resolver loads the profile and tenant of an authenticated user
type Resolver struct {
	profiles identity.ProfileRepository
	tenants  identity.TenantRepository
	cache    Cache
	ttl      time.Duration
}

// NewResolver creates a resolver. A zero ttl disables caching.
func NewResolver(profiles identity.ProfileRepository, tenants identity.TenantRepository, cache Cache, ttl time.Duration) *Resolver {
	return &Resolver{profiles: profiles, tenants: tenants, cache: cache, ttl: ttl}
}

func cacheKey(userID uuid.UUID) string {
	return "auth:" + userID.String()
}

// Resolve returns the auth context for userID. Missing or inactive profiles are
// UNAUTHORIZED, suspended tenants are TENANT_SUSPENDED.
func (r *Resolver) Resolve(ctx context.Context, userID uuid.UUID) (*AuthContext, error) {
	entry, err := r.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !entry.ProfileActive {
		return nil, shared.NewDomainError(shared.CodeUnauthorized, "User profile is inactive")
	}
	if entry.TenantStatus != identity.TenantStatusActive {
		return nil, shared.ErrTenantSuspended
	}
	auth := entry.AuthContext
	return &auth, nil
}

func (r *Resolver) load(ctx context.Context, userID uuid.UUID) (*cachedAuth, error) {
	if entry, ok := r.fromCache(ctx, userID); ok {
		return entry, nil
	}

	profile, err := r.profiles.FindByID(ctx, userID)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.NewDomainError(shared.CodeUnauthorized, "User profile not found")
		}
		return nil, err
	}
	tenant, err := r.tenants.FindByID(ctx, profile.TenantID)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.NewDomainError(shared.CodeUnauthorized, "Organization not found")
		}
		return nil, err
	}

	entry := &cachedAuth{
		AuthContext: AuthContext{
			UserID:     profile.ID,
			TenantID:   profile.TenantID,
			Role:       profile.Role,
			Email:      profile.Email,
			FullName:   profile.FullName,
			TenantName: tenant.Name,
			TenantSlug: tenant.Slug,
		},
		ProfileActive: profile.IsActive,
		TenantStatus:  tenant.Status,
	}
	r.toCache(ctx, entry)
	return entry, nil
}

// fromCache treats every cache failure as a miss
func (r *Resolver) fromCache(ctx context.Context, userID uuid.UUID) (*cachedAuth, bool) {
	if r.cache == nil || r.ttl <= 0 {
		return nil, false
	}
	raw, ok, err := r.cache.Get(ctx, cacheKey(userID))
	if err != nil {
		logger.L(ctx).Warn("Auth cache read failed", zap.Error(err))
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var entry cachedAuth
	if err := json.Unmarshal(raw, &entry); err != nil {
		logger.L(ctx).Warn("Discarding malformed auth cache entry", zap.Error(err))
		return nil, false
	}
	return &entry, true
}

func (r *Resolver) toCache(ctx context.Context, entry *cachedAuth) {
	if r.cache == nil || r.ttl <= 0 {
		return
	}
	raw, err := json.Marshal(entry)
	if err != nil {
		return
	}
	if err := r.cache.Set(ctx, cacheKey(entry.UserID), raw, r.ttl); err != nil {
		logger.L(ctx).Warn("Auth cache write failed", zap.Error(err))
	}
}
