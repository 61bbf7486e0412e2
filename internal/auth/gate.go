package auth

import (
	"context"
	"fmt"
	"strings"

	appErrors "github.com/samir-akhundov/expense-tracker/apperrors"
	"github.com/samir-akhundov/expense-tracker/internal/session"
)

// AccountSource is the slice of the persistent store the gate needs.
type AccountSource interface {
	GetAccountByID(ctx context.Context, id string) (Account, error)
}

// Gate resolves a request's identity from an opaque session token. A
// request is Authenticated only when the session exists, carries an
// account id, and that account is still present in the store. Backend
// failures are never downgraded to "unauthenticated".
type Gate struct {
	sessions session.Store
	accounts AccountSource
}

func NewGate(sessions session.Store, accounts AccountSource) *Gate {
	return &Gate{sessions: sessions, accounts: accounts}
}

func (g *Gate) ResolveIdentity(ctx context.Context, token string) (Identity, error) {
	if strings.TrimSpace(token) == "" {
		return Identity{}, appErrors.ErrorResponse{
			Code:    appErrors.ErrAuth,
			Message: "Session token is required, please login.",
		}
	}

	accountID, ok, err := g.sessions.Resolve(ctx, token)
	if err != nil {
		return Identity{}, fmt.Errorf("failed to resolve session: %w", err)
	}
	if !ok || accountID == "" {
		return Identity{}, appErrors.ErrorResponse{
			Code:    appErrors.ErrAuth,
			Message: "Session does not exist, please login.",
		}
	}

	account, err := g.accounts.GetAccountByID(ctx, accountID)
	if err != nil {
		if appErrors.CodeOf(err) == appErrors.ErrNotFound {
			return Identity{}, appErrors.ErrorResponse{
				Code:    appErrors.ErrAuth,
				Message: "Session account no longer exists, please login.",
			}
		}
		return Identity{}, fmt.Errorf("failed to load session account: %w", err)
	}

	return Identity{AccountID: account.ID, Role: account.Role}, nil
}
