package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	appErrors "github.com/samir-akhundov/expense-tracker/apperrors"
	"github.com/samir-akhundov/expense-tracker/internal/session"
)

type stubSessions struct {
	bound map[string]string
	fail  bool
}

func (s *stubSessions) Create(ctx context.Context, accountID string) (string, error) {
	return "tok", nil
}

func (s *stubSessions) Resolve(ctx context.Context, token string) (string, bool, error) {
	if s.fail {
		return "", false, appErrors.ErrorResponse{Code: appErrors.ErrInternal, Message: "session backend down"}
	}
	accountID, ok := s.bound[token]
	return accountID, ok, nil
}

func (s *stubSessions) Destroy(ctx context.Context, token string) error { return nil }

func (s *stubSessions) DestroyAccount(ctx context.Context, accountID string) error { return nil }

var _ session.Store = (*stubSessions)(nil)

type stubAccounts struct {
	accounts map[string]Account
	fail     bool
}

func (s *stubAccounts) GetAccountByID(ctx context.Context, id string) (Account, error) {
	if s.fail {
		return Account{}, appErrors.ErrorResponse{Code: appErrors.ErrInternal, Message: "store down"}
	}
	account, ok := s.accounts[id]
	if !ok {
		return Account{}, appErrors.ErrorResponse{Code: appErrors.ErrNotFound, Message: "Account does not exist."}
	}
	return account, nil
}

func TestResolveIdentity(t *testing.T) {
	ctx := context.Background()

	sessions := &stubSessions{bound: map[string]string{
		"tok-valid":    "acc-1",
		"tok-unbound":  "",
		"tok-orphaned": "acc-gone",
	}}
	accounts := &stubAccounts{accounts: map[string]Account{
		"acc-1": {ID: "acc-1", Email: "a@x.com", Role: RoleAdmin},
	}}
	gate := NewGate(sessions, accounts)

	ident, err := gate.ResolveIdentity(ctx, "tok-valid")
	require.NoError(t, err)
	require.Equal(t, "acc-1", ident.AccountID)
	require.Equal(t, RoleAdmin, ident.Role)
}

func TestResolveIdentityRejections(t *testing.T) {
	ctx := context.Background()

	sessions := &stubSessions{bound: map[string]string{
		"tok-unbound":  "",
		"tok-orphaned": "acc-gone",
	}}
	accounts := &stubAccounts{accounts: map[string]Account{}}
	gate := NewGate(sessions, accounts)

	cases := []struct {
		name  string
		token string
	}{
		{"no token", ""},
		{"unknown session", "tok-missing"},
		{"session without account id", "tok-unbound"},
		{"bound account no longer exists", "tok-orphaned"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := gate.ResolveIdentity(ctx, tc.token)
			require.Error(t, err)
			require.Equal(t, appErrors.ErrAuth, appErrors.CodeOf(err))
		})
	}
}

func TestResolveIdentityStoreFailureIsNotUnauthenticated(t *testing.T) {
	ctx := context.Background()

	t.Run("session backend failure", func(t *testing.T) {
		gate := NewGate(&stubSessions{fail: true}, &stubAccounts{})
		_, err := gate.ResolveIdentity(ctx, "tok-any")
		require.Error(t, err)
		require.Equal(t, appErrors.ErrInternal, appErrors.CodeOf(err))
	})

	t.Run("account store failure", func(t *testing.T) {
		sessions := &stubSessions{bound: map[string]string{"tok-valid": "acc-1"}}
		gate := NewGate(sessions, &stubAccounts{fail: true})
		_, err := gate.ResolveIdentity(ctx, "tok-valid")
		require.Error(t, err)
		require.Equal(t, appErrors.ErrInternal, appErrors.CodeOf(err))
	})
}
