package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	appErrors "github.com/samir-akhundov/expense-tracker/apperrors"
	"github.com/samir-akhundov/expense-tracker/internal/auth"
	"github.com/samir-akhundov/expense-tracker/internal/ledger"
)

func TestMemoryStorageAccountEmailUnique(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStorage()

	require.NoError(t, store.SaveAccount(ctx, auth.Account{ID: "acc-1", Email: "a@x.com"}))

	err := store.SaveAccount(ctx, auth.Account{ID: "acc-2", Email: "a@x.com"})
	require.Error(t, err)
	require.Equal(t, appErrors.ErrConflict, appErrors.CodeOf(err))

	err = store.SaveAccount(ctx, auth.Account{ID: "acc-2", Email: "b@x.com"})
	require.NoError(t, err)

	err = store.UpdateAccount(ctx, auth.Account{ID: "acc-2", Email: "a@x.com"})
	require.Error(t, err)
	require.Equal(t, appErrors.ErrConflict, appErrors.CodeOf(err))
}

func TestMemoryStorageAccountNotFound(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStorage()

	_, err := store.GetAccountByID(ctx, "missing")
	require.Equal(t, appErrors.ErrNotFound, appErrors.CodeOf(err))

	_, err = store.GetAccountByEmail(ctx, "missing@x.com")
	require.Equal(t, appErrors.ErrNotFound, appErrors.CodeOf(err))

	err = store.DeleteAccount(ctx, "missing")
	require.Equal(t, appErrors.ErrNotFound, appErrors.CodeOf(err))
}

func TestMemoryStorageCategoryNameOwnerUnique(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStorage()

	require.NoError(t, store.SaveCategory(ctx, ledger.Category{ID: "cat-1", Name: "Food", OwnerID: "acc-1"}))

	err := store.SaveCategory(ctx, ledger.Category{ID: "cat-2", Name: "Food", OwnerID: "acc-1"})
	require.Equal(t, appErrors.ErrConflict, appErrors.CodeOf(err))

	// same name with another owner is a different pair
	require.NoError(t, store.SaveCategory(ctx, ledger.Category{ID: "cat-3", Name: "Food", OwnerID: "acc-2"}))
}

func TestMemoryStorageFindCategoryExcludesSelf(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStorage()

	require.NoError(t, store.SaveCategory(ctx, ledger.Category{ID: "cat-1", Name: "Food", OwnerID: "acc-1"}))

	_, found, err := store.FindCategoryByNameAndOwner(ctx, "Food", "acc-1", "cat-1")
	require.NoError(t, err)
	require.False(t, found)

	category, found, err := store.FindCategoryByNameAndOwner(ctx, "Food", "acc-1", "")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "cat-1", category.ID)
}

func TestMemoryStorageExpenseFilters(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStorage()

	jan := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC)

	require.NoError(t, store.SaveExpense(ctx, ledger.Expense{ID: "e-1", OwnerID: "acc-1", CategoryID: "cat-1", Date: jan}))
	require.NoError(t, store.SaveExpense(ctx, ledger.Expense{ID: "e-2", OwnerID: "acc-1", CategoryID: "cat-2", Date: feb}))
	require.NoError(t, store.SaveExpense(ctx, ledger.Expense{ID: "e-3", OwnerID: "acc-2", CategoryID: "cat-1", Date: feb}))

	byOwner, err := store.ListExpenses(ctx, ledger.ExpenseFilter{OwnerID: "acc-1"})
	require.NoError(t, err)
	require.Len(t, byOwner, 2)

	byCategory, err := store.ListExpenses(ctx, ledger.ExpenseFilter{OwnerID: "acc-1", CategoryID: "cat-2"})
	require.NoError(t, err)
	require.Len(t, byCategory, 1)
	require.Equal(t, "e-2", byCategory[0].ID)

	from := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	byDate, err := store.ListExpenses(ctx, ledger.ExpenseFilter{OwnerID: "acc-1", From: &from})
	require.NoError(t, err)
	require.Len(t, byDate, 1)
	require.Equal(t, "e-2", byDate[0].ID)
}

func TestMemoryStorageCountAndCascadeHelpers(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStorage()

	require.NoError(t, store.SaveCategory(ctx, ledger.Category{ID: "cat-1", Name: "Food", OwnerID: "acc-1"}))
	require.NoError(t, store.SaveExpense(ctx, ledger.Expense{ID: "e-1", OwnerID: "acc-1", CategoryID: "cat-1"}))
	require.NoError(t, store.SaveExpense(ctx, ledger.Expense{ID: "e-2", OwnerID: "acc-2", CategoryID: "cat-1"}))

	count, err := store.CountExpensesByCategory(ctx, "cat-1")
	require.NoError(t, err)
	require.Equal(t, 2, count)

	require.NoError(t, store.DeleteExpensesByOwner(ctx, "acc-1"))
	count, err = store.CountExpensesByCategory(ctx, "cat-1")
	require.NoError(t, err)
	require.Equal(t, 1, count)

	require.NoError(t, store.DeleteCategoriesByOwner(ctx, "acc-1"))
	_, err = store.GetCategoryByID(ctx, "cat-1")
	require.Equal(t, appErrors.ErrNotFound, appErrors.CodeOf(err))
}
