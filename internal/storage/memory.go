package storage

import (
	"context"
	"sync"

	appErrors "github.com/samir-akhundov/expense-tracker/apperrors"
	"github.com/samir-akhundov/expense-tracker/internal/auth"
	"github.com/samir-akhundov/expense-tracker/internal/ledger"
)

// MemoryStorage is the in-process ledger.Storage used by tests. It
// mirrors the MySQL implementation's behavior: the same unique
// constraints, absence as NOT FOUND, copies in and out.
type MemoryStorage struct {
	mu         sync.Mutex
	accounts   map[string]auth.Account
	categories map[string]ledger.Category
	expenses   map[string]ledger.Expense
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		accounts:   make(map[string]auth.Account),
		categories: make(map[string]ledger.Category),
		expenses:   make(map[string]ledger.Expense),
	}
}

func (m *MemoryStorage) SaveAccount(ctx context.Context, account auth.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.accounts {
		if existing.Email == account.Email {
			return appErrors.ErrorResponse{
				Code:    appErrors.ErrConflict,
				Message: "The email address already exists.",
			}
		}
	}
	m.accounts[account.ID] = account
	return nil
}

func (m *MemoryStorage) GetAccountByID(ctx context.Context, id string) (auth.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	account, ok := m.accounts[id]
	if !ok {
		return auth.Account{}, appErrors.ErrorResponse{
			Code:    appErrors.ErrNotFound,
			Message: "Account does not exist.",
		}
	}
	return account, nil
}

func (m *MemoryStorage) GetAccountByEmail(ctx context.Context, email string) (auth.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, account := range m.accounts {
		if account.Email == email {
			return account, nil
		}
	}
	return auth.Account{}, appErrors.ErrorResponse{
		Code:    appErrors.ErrNotFound,
		Message: "Account does not exist.",
	}
}

func (m *MemoryStorage) UpdateAccount(ctx context.Context, account auth.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[account.ID]; !ok {
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrNotFound,
			Message: "Account does not exist.",
		}
	}
	for _, existing := range m.accounts {
		if existing.ID != account.ID && existing.Email == account.Email {
			return appErrors.ErrorResponse{
				Code:    appErrors.ErrConflict,
				Message: "The email address already exists.",
			}
		}
	}
	m.accounts[account.ID] = account
	return nil
}

func (m *MemoryStorage) DeleteAccount(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[id]; !ok {
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrNotFound,
			Message: "Account does not exist.",
		}
	}
	delete(m.accounts, id)
	return nil
}

func (m *MemoryStorage) SaveCategory(ctx context.Context, category ledger.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.categories {
		if existing.Name == category.Name && existing.OwnerID == category.OwnerID {
			return appErrors.ErrorResponse{
				Code:    appErrors.ErrConflict,
				Message: "The category already exists.",
			}
		}
	}
	m.categories[category.ID] = category
	return nil
}

func (m *MemoryStorage) GetCategoryByID(ctx context.Context, id string) (ledger.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	category, ok := m.categories[id]
	if !ok {
		return ledger.Category{}, appErrors.ErrorResponse{
			Code:    appErrors.ErrNotFound,
			Message: "Category does not exist.",
		}
	}
	return category, nil
}

func (m *MemoryStorage) FindCategoryByNameAndOwner(ctx context.Context, name string, ownerID string, excludeID string) (ledger.Category, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, category := range m.categories {
		if category.Name == name && category.OwnerID == ownerID && category.ID != excludeID {
			return category, true, nil
		}
	}
	return ledger.Category{}, false, nil
}

func (m *MemoryStorage) ListCategories(ctx context.Context) ([]ledger.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var categories []ledger.Category
	for _, category := range m.categories {
		categories = append(categories, category)
	}
	return categories, nil
}

func (m *MemoryStorage) UpdateCategory(ctx context.Context, category ledger.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.categories[category.ID]; !ok {
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrNotFound,
			Message: "Category does not exist.",
		}
	}
	for _, existing := range m.categories {
		if existing.ID != category.ID && existing.Name == category.Name && existing.OwnerID == category.OwnerID {
			return appErrors.ErrorResponse{
				Code:    appErrors.ErrConflict,
				Message: "The category already exists.",
			}
		}
	}
	m.categories[category.ID] = category
	return nil
}

func (m *MemoryStorage) DeleteCategory(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.categories[id]; !ok {
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrNotFound,
			Message: "Category does not exist.",
		}
	}
	delete(m.categories, id)
	return nil
}

func (m *MemoryStorage) DeleteCategoriesByOwner(ctx context.Context, ownerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, category := range m.categories {
		if category.OwnerID == ownerID {
			delete(m.categories, id)
		}
	}
	return nil
}

func (m *MemoryStorage) SaveExpense(ctx context.Context, expense ledger.Expense) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.expenses[expense.ID] = expense
	return nil
}

func (m *MemoryStorage) GetExpenseByID(ctx context.Context, id string) (ledger.Expense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	expense, ok := m.expenses[id]
	if !ok {
		return ledger.Expense{}, appErrors.ErrorResponse{
			Code:    appErrors.ErrNotFound,
			Message: "Expense does not exist.",
		}
	}
	return expense, nil
}

func (m *MemoryStorage) ListExpenses(ctx context.Context, filter ledger.ExpenseFilter) ([]ledger.Expense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var expenses []ledger.Expense
	for _, expense := range m.expenses {
		if filter.OwnerID != "" && expense.OwnerID != filter.OwnerID {
			continue
		}
		if filter.CategoryID != "" && expense.CategoryID != filter.CategoryID {
			continue
		}
		if filter.From != nil && expense.Date.Before(*filter.From) {
			continue
		}
		if filter.To != nil && expense.Date.After(*filter.To) {
			continue
		}
		expenses = append(expenses, expense)
	}
	return expenses, nil
}

func (m *MemoryStorage) UpdateExpense(ctx context.Context, expense ledger.Expense) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.expenses[expense.ID]; !ok {
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrNotFound,
			Message: "Expense does not exist.",
		}
	}
	m.expenses[expense.ID] = expense
	return nil
}

func (m *MemoryStorage) DeleteExpense(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.expenses[id]; !ok {
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrNotFound,
			Message: "Expense does not exist.",
		}
	}
	delete(m.expenses, id)
	return nil
}

func (m *MemoryStorage) DeleteExpensesByOwner(ctx context.Context, ownerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, expense := range m.expenses {
		if expense.OwnerID == ownerID {
			delete(m.expenses, id)
		}
	}
	return nil
}

func (m *MemoryStorage) CountExpensesByCategory(ctx context.Context, categoryID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, expense := range m.expenses {
		if expense.CategoryID == categoryID {
			count++
		}
	}
	return count, nil
}
