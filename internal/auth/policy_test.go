package auth

import (
	"testing"

	"github.com/stretchr/testify/require"

	appErrors "github.com/samir-akhundov/expense-tracker/apperrors"
)

func TestRequireAdmin(t *testing.T) {
	require.NoError(t, RequireAdmin(Identity{AccountID: "acc-1", Role: RoleAdmin}))

	err := RequireAdmin(Identity{AccountID: "acc-2", Role: RoleStandard})
	require.Error(t, err)
	require.Equal(t, appErrors.ErrAccessDenied, appErrors.CodeOf(err))
}

func TestRequireRole(t *testing.T) {
	ident := Identity{AccountID: "acc-1", Role: RoleStandard}

	require.NoError(t, RequireRole(ident, RoleStandard))
	require.NoError(t, RequireRole(ident, RoleAdmin, RoleStandard))

	err := RequireRole(ident, RoleAdmin)
	require.Error(t, err)
	require.Equal(t, appErrors.ErrAccessDenied, appErrors.CodeOf(err))

	// empty allow-list admits nobody
	err = RequireRole(Identity{AccountID: "acc-1", Role: RoleAdmin})
	require.Error(t, err)
}
