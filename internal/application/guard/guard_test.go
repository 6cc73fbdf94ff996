package guard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stockroom/backend/internal/domain/identity"
	"github.com/stockroom/backend/internal/domain/partner"
	"github.com/stockroom/backend/internal/domain/shared"
	"github.com/stockroom/backend/internal/infrastructure/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockProfileRepo struct {
	mock.Mock
}

func (m *mockProfileRepo) FindByID(ctx context.Context, userID uuid.UUID) (*identity.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Profile), args.Error(1)
}

func (m *mockProfileRepo) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, search string, limit int) ([]identity.Profile, error) {
	args := m.Called(ctx, tenantID, search, limit)
	return args.Get(0).([]identity.Profile), args.Error(1)
}

func (m *mockProfileRepo) Save(ctx context.Context, p *identity.Profile) error {
	return m.Called(ctx, p).Error(0)
}

type mockTenantRepo struct {
	mock.Mock
}

func (m *mockTenantRepo) FindByID(ctx context.Context, id uuid.UUID) (*identity.Tenant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Tenant), args.Error(1)
}

func (m *mockTenantRepo) FindBySlug(ctx context.Context, slug string) (*identity.Tenant, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Tenant), args.Error(1)
}

func (m *mockTenantRepo) Save(ctx context.Context, t *identity.Tenant) error {
	return m.Called(ctx, t).Error(0)
}

func fixture(t *testing.T, role identity.Role) (*identity.Tenant, *identity.Profile) {
	t.Helper()
	tenant, err := identity.NewTenant("Acme", "acme")
	require.NoError(t, err)
	profile, err := identity.NewProfile(uuid.New(), tenant.ID, "Ann@Acme.test", "Ann", role)
	require.NoError(t, err)
	return tenant, profile
}

func TestFromContext(t *testing.T) {
	_, err := FromContext(context.Background())
	assert.ErrorIs(t, err, shared.ErrUnauthorized)

	_, err = FromContext(WithAuth(context.Background(), &AuthContext{UserID: uuid.New()}))
	assert.ErrorIs(t, err, shared.ErrUnauthorized, "tenant id is required")

	want := &AuthContext{UserID: uuid.New(), TenantID: uuid.New(), Role: identity.RoleMember}
	got, err := FromContext(WithAuth(context.Background(), want))
	require.NoError(t, err)
	assert.Same(t, want, got)
}

func TestAuthorize(t *testing.T) {
	tests := []struct {
		role    identity.Role
		level   identity.PermissionLevel
		allowed bool
	}{
		{identity.RoleViewer, identity.PermissionRead, true},
		{identity.RoleViewer, identity.PermissionWrite, false},
		{identity.RoleMember, identity.PermissionWrite, true},
		{identity.RoleMember, identity.PermissionAdmin, false},
		{identity.RoleAdmin, identity.PermissionAdmin, true},
		{identity.RoleOwner, identity.PermissionAdmin, true},
	}
	for _, tt := range tests {
		t.Run(string(tt.role)+"_"+string(tt.level), func(t *testing.T) {
			ctx := WithAuth(context.Background(), &AuthContext{UserID: uuid.New(), TenantID: uuid.New(), Role: tt.role})
			_, err := Authorize(ctx, tt.level)
			if tt.allowed {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, shared.ErrForbidden)
			}
		})
	}
}

func TestOwn_RejectsOtherTenantsAsNotFound(t *testing.T) {
	auth := &AuthContext{UserID: uuid.New(), TenantID: uuid.New(), Role: identity.RoleAdmin}

	mine, err := partner.NewCustomer(auth.TenantID, "C-1", "Mine")
	require.NoError(t, err)
	theirs, err := partner.NewCustomer(uuid.New(), "C-2", "Theirs")
	require.NoError(t, err)

	got, err := Own[*partner.Customer](auth, "Customer")(mine, nil)
	require.NoError(t, err)
	assert.Same(t, mine, got)

	got, err = Own[*partner.Customer](auth, "Customer")(theirs, nil)
	assert.Nil(t, got)
	de, ok := shared.AsDomainError(err)
	require.True(t, ok)
	assert.Equal(t, shared.CodeNotFound, de.Code)
	assert.Equal(t, "Customer not found", de.Message)

	_, err = Own[*partner.Customer](auth, "Customer")(nil, shared.NewNotFoundError("row"))
	assert.Equal(t, "Customer not found", err.Error())

	boom := errors.New("connection reset")
	_, err = Own[*partner.Customer](auth, "Customer")(nil, boom)
	assert.Same(t, boom, err)
}

func TestResolver_ResolveAndCache(t *testing.T) {
	ctx := context.Background()
	tenant, profile := fixture(t, identity.RoleMember)

	profiles := new(mockProfileRepo)
	tenants := new(mockTenantRepo)
	profiles.On("FindByID", mock.Anything, profile.ID).Return(profile, nil).Once()
	tenants.On("FindByID", mock.Anything, tenant.ID).Return(tenant, nil).Once()

	store := cache.NewMemoryStore()
	defer store.Close()
	r := NewResolver(profiles, tenants, store, time.Minute)

	auth, err := r.Resolve(ctx, profile.ID)
	require.NoError(t, err)
	assert.Equal(t, tenant.ID, auth.TenantID)
	assert.Equal(t, identity.RoleMember, auth.Role)
	assert.Equal(t, "ann@acme.test", auth.Email)
	assert.Equal(t, "acme", auth.TenantSlug)

	// second call is served from the cache
	again, err := r.Resolve(ctx, profile.ID)
	require.NoError(t, err)
	assert.Equal(t, auth, again)
	profiles.AssertExpectations(t)
	tenants.AssertExpectations(t)

	assert.Equal(t, 1, store.Len())
}

func TestResolver_Rejections(t *testing.T) {
	ctx := context.Background()

	t.Run("missing profile", func(t *testing.T) {
		profiles := new(mockProfileRepo)
		profiles.On("FindByID", mock.Anything, mock.Anything).Return(nil, shared.NewNotFoundError("Profile"))
		_, err := NewResolver(profiles, new(mockTenantRepo), nil, 0).Resolve(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrUnauthorized)
	})

	t.Run("inactive profile", func(t *testing.T) {
		tenant, profile := fixture(t, identity.RoleAdmin)
		profile.IsActive = false
		profiles := new(mockProfileRepo)
		tenants := new(mockTenantRepo)
		profiles.On("FindByID", mock.Anything, profile.ID).Return(profile, nil)
		tenants.On("FindByID", mock.Anything, tenant.ID).Return(tenant, nil)
		_, err := NewResolver(profiles, tenants, nil, 0).Resolve(ctx, profile.ID)
		assert.ErrorIs(t, err, shared.ErrUnauthorized)
	})

	t.Run("suspended tenant", func(t *testing.T) {
		tenant, profile := fixture(t, identity.RoleOwner)
		tenant.Suspend()
		profiles := new(mockProfileRepo)
		tenants := new(mockTenantRepo)
		profiles.On("FindByID", mock.Anything, profile.ID).Return(profile, nil)
		tenants.On("FindByID", mock.Anything, tenant.ID).Return(tenant, nil)
		_, err := NewResolver(profiles, tenants, nil, 0).Resolve(ctx, profile.ID)
		assert.ErrorIs(t, err, shared.ErrTenantSuspended)
	})

	t.Run("repository failure passes through", func(t *testing.T) {
		boom := errors.New("db down")
		profiles := new(mockProfileRepo)
		profiles.On("FindByID", mock.Anything, mock.Anything).Return(nil, boom)
		_, err := NewResolver(profiles, new(mockTenantRepo), nil, 0).Resolve(ctx, uuid.New())
		assert.ErrorIs(t, err, boom)
	})
}
