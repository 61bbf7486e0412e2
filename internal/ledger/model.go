package ledger

import (
	"context"
	"time"

	"github.com/samir-akhundov/expense-tracker/internal/auth"
)

const (
	MAX_CATEGORY_NAME_LENGTH = 255
	MAX_CURRENCY_LENGTH      = 8
	MAX_NOTE_LENGTH          = 1000
	MAX_EXPENSE_AMOUNT_LIMIT = 999999999999999999

	// DefaultCurrency is the single canonical currency applied when a
	// new expense leaves the field empty.
	DefaultCurrency = "USD"
)

// Category is a shared taxonomy entry. It has an owning account, but
// any authenticated account may read it and reference it from an
// expense; only the owner or an admin may change it.
type Category struct {
	ID        string
	Name      string
	OwnerID   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Expense is a private per-owner record. Its category owner need not
// match its own owner.
type Expense struct {
	ID         string
	OwnerID    string
	CategoryID string
	Amount     float64
	Currency   string
	Date       time.Time
	Note       string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type NewExpense struct {
	CategoryID string
	Amount     float64
	Currency   string
	Date       time.Time
	Note       string
	// OwnerOverride assigns the expense to another account. Admin only.
	OwnerOverride *string
}

// ExpensePatch carries the optional fields of an update; a nil field
// keeps the stored value, a non-nil field replaces it wholesale.
type ExpensePatch struct {
	CategoryID *string
	Amount     *float64
	Currency   *string
	Date       *time.Time
	Note       *string
	// OwnerID reassigns the expense to another account. Admin only.
	OwnerID *string
}

type CategoryPatch struct {
	Name *string
	// OwnerID reassigns the category. The new owner must exist.
	OwnerID *string
}

// ExpenseFilter narrows a listing. OwnerID is forced to the caller for
// non-admin identities before the filter reaches storage.
type ExpenseFilter struct {
	OwnerID    string
	CategoryID string
	From       *time.Time
	To         *time.Time
}

// mergeExpense applies patch over existing, field by field: a supplied
// field wins, an absent field keeps the stored value. Referential
// checks on CategoryID/OwnerID happen before this runs.
func mergeExpense(existing Expense, patch ExpensePatch) Expense {
	merged := existing
	if patch.CategoryID != nil {
		merged.CategoryID = *patch.CategoryID
	}
	if patch.Amount != nil {
		merged.Amount = *patch.Amount
	}
	if patch.Currency != nil {
		merged.Currency = *patch.Currency
	}
	if patch.Date != nil {
		merged.Date = *patch.Date
	}
	if patch.Note != nil {
		merged.Note = *patch.Note
	}
	if patch.OwnerID != nil {
		merged.OwnerID = *patch.OwnerID
	}
	return merged
}

// Storage is the persistent store consumed by the ledger. Absence is
// reported with the NOT FOUND code, backend failure with INTERNAL.
// Reads are consistent after writes within one entity collection only.
type Storage interface {
	SaveAccount(ctx context.Context, account auth.Account) error
	GetAccountByID(ctx context.Context, id string) (auth.Account, error)
	GetAccountByEmail(ctx context.Context, email string) (auth.Account, error)
	UpdateAccount(ctx context.Context, account auth.Account) error
	DeleteAccount(ctx context.Context, id string) error

	SaveCategory(ctx context.Context, category Category) error
	GetCategoryByID(ctx context.Context, id string) (Category, error)
	FindCategoryByNameAndOwner(ctx context.Context, name string, ownerID string, excludeID string) (Category, bool, error)
	ListCategories(ctx context.Context) ([]Category, error)
	UpdateCategory(ctx context.Context, category Category) error
	DeleteCategory(ctx context.Context, id string) error
	DeleteCategoriesByOwner(ctx context.Context, ownerID string) error

	SaveExpense(ctx context.Context, expense Expense) error
	GetExpenseByID(ctx context.Context, id string) (Expense, error)
	ListExpenses(ctx context.Context, filter ExpenseFilter) ([]Expense, error)
	UpdateExpense(ctx context.Context, expense Expense) error
	DeleteExpense(ctx context.Context, id string) error
	DeleteExpensesByOwner(ctx context.Context, ownerID string) error
	CountExpensesByCategory(ctx context.Context, categoryID string) (int, error)
}
