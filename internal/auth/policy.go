package auth

import (
	appErrors "github.com/samir-akhundov/expense-tracker/apperrors"
)

// RequireRole checks a resolved identity against an allow-list of roles.
// It runs only after the gate has produced an Identity, so an
// unauthenticated caller can never observe an access-denied result.
func RequireRole(ident Identity, allowed ...Role) error {
	for _, role := range allowed {
		if ident.Role == role {
			return nil
		}
	}
	return appErrors.ErrorResponse{
		Code:    appErrors.ErrAccessDenied,
		Message: "You do not have permission to perform this action.",
	}
}

func RequireAdmin(ident Identity) error {
	return RequireRole(ident, RoleAdmin)
}
