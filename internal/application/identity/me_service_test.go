package identity

import (
	"context"
	"testing"

	"github.com/stockroom/backend/internal/domain/identity"
	"github.com/stockroom/backend/internal/domain/shared"
	"github.com/stockroom/backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeService_Me(t *testing.T) {
	svc := NewMeService()

	tests := []struct {
		role identity.Role
		want []identity.PermissionLevel
	}{
		{identity.RoleViewer, []identity.PermissionLevel{identity.PermissionRead}},
		{identity.RoleMember, []identity.PermissionLevel{identity.PermissionRead, identity.PermissionWrite}},
		{identity.RoleOwner, []identity.PermissionLevel{identity.PermissionRead, identity.PermissionWrite, identity.PermissionAdmin}},
	}
	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			me, err := svc.Me(testutil.AuthAs(tt.role))
			require.NoError(t, err)
			assert.Equal(t, tt.want, me.Permissions)
			assert.Equal(t, testutil.TestTenantID(), me.Tenant.ID)
			assert.Equal(t, "test-org", me.Tenant.Slug)
		})
	}

	_, err := svc.Me(context.Background())
	assert.ErrorIs(t, err, shared.ErrUnauthorized)
}
