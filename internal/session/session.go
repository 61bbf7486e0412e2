package session

import "context"

// Store tracks the binding from an opaque token to an account id.
// Expiry policy belongs to the implementation; callers only react to
// "absent". Destroying a token that is already gone is not an error.
type Store interface {
	Create(ctx context.Context, accountID string) (string, error)
	Resolve(ctx context.Context, token string) (accountID string, ok bool, err error)
	Destroy(ctx context.Context, token string) error
	// DestroyAccount drops every token bound to the account. Used when
	// the account itself is removed.
	DestroyAccount(ctx context.Context, accountID string) error
}
