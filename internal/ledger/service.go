package ledger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	appErrors "github.com/samir-akhundov/expense-tracker/apperrors"
	"github.com/samir-akhundov/expense-tracker/internal/auth"
	"github.com/samir-akhundov/expense-tracker/internal/session"
)

// Ledger is the service core: account lifecycle, category and expense
// operations, and the ownership checks guarding them. Every mutating
// operation takes the caller's Identity explicitly.
type Ledger struct {
	storage  Storage
	sessions session.Store
}

func NewLedger(s Storage, sessions session.Store) Ledger {
	return Ledger{
		storage:  s,
		sessions: sessions,
	}
}

// ---- Account lifecycle ----

// Register creates the account and binds a fresh session to it. The
// email uniqueness check completes before any write.
func (l *Ledger) Register(ctx context.Context, newAccount auth.NewAccount) (auth.Account, string, error) {
	if err := newAccount.ValidateFields(); err != nil {
		return auth.Account{}, "", err
	}

	email := strings.ToLower(strings.TrimSpace(newAccount.Email))

	_, err := l.storage.GetAccountByEmail(ctx, email)
	if err == nil {
		return auth.Account{}, "", appErrors.ErrorResponse{
			Code:    appErrors.ErrConflict,
			Message: fmt.Sprintf("This '%s' email address already taken, try to register with another email.", email),
		}
	}
	if appErrors.CodeOf(err) != appErrors.ErrNotFound {
		return auth.Account{}, "", fmt.Errorf("failed to check email availability: %w", err)
	}

	hashedPassword, err := auth.HashPassword(newAccount.PasswordPlain)
	if err != nil {
		return auth.Account{}, "", fmt.Errorf("failed to hash password: %w", err)
	}

	account := auth.Account{
		ID:             uuid.New().String(),
		Email:          email,
		Name:           strings.TrimSpace(newAccount.Name),
		PasswordHashed: hashedPassword,
		Role:           auth.RoleStandard,
		CreatedAt:      time.Now().UTC(),
	}

	if err := l.storage.SaveAccount(ctx, account); err != nil {
		return auth.Account{}, "", fmt.Errorf("failed to registration: %w", err)
	}

	token, err := l.sessions.Create(ctx, account.ID)
	if err != nil {
		return account, "", fmt.Errorf("registration succeeded but failed to create session: %w | try login", err)
	}
	return account, token, nil
}

// Login verifies the credentials and binds a session. Unknown email and
// wrong password are indistinguishable to the caller.
func (l *Ledger) Login(ctx context.Context, email string, password string) (string, error) {
	account, err := l.storage.GetAccountByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if appErrors.CodeOf(err) == appErrors.ErrNotFound {
			return "", appErrors.ErrorResponse{
				Code:    appErrors.ErrInvalidCredential,
				Message: "Email or password is wrong.",
			}
		}
		return "", fmt.Errorf("failed to validate credentials: %w", err)
	}

	if !auth.ComparePasswords(account.PasswordHashed, password) {
		return "", appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidCredential,
			Message: "Email or password is wrong.",
		}
	}

	token, err := l.sessions.Create(ctx, account.ID)
	if err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}
	return token, nil
}

// Logout destroys the token. Destroying an absent token is a no-op.
func (l *Ledger) Logout(ctx context.Context, token string) error {
	if err := l.sessions.Destroy(ctx, token); err != nil {
		return fmt.Errorf("failed to logout: %w", err)
	}
	return nil
}

func (l *Ledger) GetAccount(ctx context.Context, ident auth.Identity) (auth.Account, error) {
	account, err := l.storage.GetAccountByID(ctx, ident.AccountID)
	if err != nil {
		return auth.Account{}, fmt.Errorf("failed to get account: %w", err)
	}
	return account, nil
}

// UpdateProfile patches name, email and password. Every precondition
// (current-password verification, email uniqueness) completes before
// the single account write.
func (l *Ledger) UpdateProfile(ctx context.Context, ident auth.Identity, patch auth.ProfilePatch) (auth.Account, error) {
	account, err := l.storage.GetAccountByID(ctx, ident.AccountID)
	if err != nil {
		if appErrors.CodeOf(err) == appErrors.ErrNotFound {
			return auth.Account{}, appErrors.ErrorResponse{
				Code:    appErrors.ErrAuth,
				Message: "Account no longer exists, please login.",
			}
		}
		return auth.Account{}, fmt.Errorf("failed to load account: %w", err)
	}

	updated := account

	if patch.NewPassword != nil {
		if *patch.NewPassword == "" {
			return auth.Account{}, appErrors.ErrorResponse{
				Code:    appErrors.ErrInvalidInput,
				Message: "New password cannot be empty!",
			}
		}
		if len(*patch.NewPassword) > auth.MAX_PASSWORD_LENGTH {
			return auth.Account{}, appErrors.ErrorResponse{
				Code:    appErrors.ErrInvalidInput,
				Message: fmt.Sprintf("Password so long, maximum length is %d", auth.MAX_PASSWORD_LENGTH),
			}
		}
		if patch.CurrentPassword == nil || !auth.ComparePasswords(account.PasswordHashed, *patch.CurrentPassword) {
			return auth.Account{}, appErrors.ErrorResponse{
				Code:    appErrors.ErrInvalidCredential,
				Message: "Current password is wrong.",
			}
		}
		hashedPassword, err := auth.HashPassword(*patch.NewPassword)
		if err != nil {
			return auth.Account{}, fmt.Errorf("failed to hash new password: %w", err)
		}
		updated.PasswordHashed = hashedPassword
	}

	if patch.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*patch.Email))
		if email != account.Email {
			other, err := l.storage.GetAccountByEmail(ctx, email)
			if err == nil && other.ID != account.ID {
				return auth.Account{}, appErrors.ErrorResponse{
					Code:    appErrors.ErrConflict,
					Message: fmt.Sprintf("This '%s' email address already taken.", email),
				}
			}
			if err != nil && appErrors.CodeOf(err) != appErrors.ErrNotFound {
				return auth.Account{}, fmt.Errorf("failed to check email availability: %w", err)
			}
			updated.Email = email
		}
	}

	if patch.Name != nil {
		updated.Name = strings.TrimSpace(*patch.Name)
	}

	if err := l.storage.UpdateAccount(ctx, updated); err != nil {
		return auth.Account{}, fmt.Errorf("failed to update profile: %w", err)
	}
	return updated, nil
}

// DeleteAccount removes the account together with everything it owns.
// The password re-check aborts the whole operation before any effect.
// The cascade deletes expenses first, then categories, then the account
// itself, then the account's sessions; the ordering is best effort, not
// a cross-collection transaction.
func (l *Ledger) DeleteAccount(ctx context.Context, ident auth.Identity, password string) error {
	account, err := l.storage.GetAccountByID(ctx, ident.AccountID)
	if err != nil {
		if appErrors.CodeOf(err) == appErrors.ErrNotFound {
			return appErrors.ErrorResponse{
				Code:    appErrors.ErrAuth,
				Message: "Account no longer exists.",
			}
		}
		return fmt.Errorf("failed to load account: %w", err)
	}

	if !auth.ComparePasswords(account.PasswordHashed, password) {
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidCredential,
			Message: "Password is wrong, account deletion aborted.",
		}
	}

	if err := l.storage.DeleteExpensesByOwner(ctx, account.ID); err != nil {
		return fmt.Errorf("failed to delete account expenses: %w", err)
	}
	if err := l.storage.DeleteCategoriesByOwner(ctx, account.ID); err != nil {
		return fmt.Errorf("failed to delete account categories: %w", err)
	}
	if err := l.storage.DeleteAccount(ctx, account.ID); err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	if err := l.sessions.DestroyAccount(ctx, account.ID); err != nil {
		return fmt.Errorf("account deleted but failed to destroy its sessions: %w", err)
	}
	return nil
}

// SetAccountRole promotes or demotes an account. Admin only.
func (l *Ledger) SetAccountRole(ctx context.Context, ident auth.Identity, accountID string, role auth.Role) (auth.Account, error) {
	if err := auth.RequireAdmin(ident); err != nil {
		return auth.Account{}, err
	}
	if !role.IsValid() {
		return auth.Account{}, appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: fmt.Sprintf("Unknown role: '%s', allowed roles are: %s, %s", role, auth.RoleStandard, auth.RoleAdmin),
		}
	}

	account, err := l.storage.GetAccountByID(ctx, accountID)
	if err != nil {
		return auth.Account{}, fmt.Errorf("failed to load target account: %w", err)
	}

	account.Role = role
	if err := l.storage.UpdateAccount(ctx, account); err != nil {
		return auth.Account{}, fmt.Errorf("failed to update account role: %w", err)
	}
	return account, nil
}

// ---- Categories ----

// CreateCategory is an admin operation. The owner defaults to the
// caller; an override must name an existing account. The (name, owner)
// pair is unique.
func (l *Ledger) CreateCategory(ctx context.Context, ident auth.Identity, name string, ownerOverride *string) (Category, error) {
	if err := auth.RequireAdmin(ident); err != nil {
		return Category{}, err
	}
	if err := validateCategoryName(name); err != nil {
		return Category{}, err
	}

	ownerID := ident.AccountID
	if ownerOverride != nil {
		ownerID = *ownerOverride
	}

	if _, err := l.storage.GetAccountByID(ctx, ownerID); err != nil {
		if appErrors.CodeOf(err) == appErrors.ErrNotFound {
			return Category{}, appErrors.ErrorResponse{
				Code:    appErrors.ErrNotFound,
				Message: "Target owner account does not exist.",
			}
		}
		return Category{}, fmt.Errorf("failed to check owner account: %w", err)
	}

	if _, found, err := l.storage.FindCategoryByNameAndOwner(ctx, name, ownerID, ""); err != nil {
		return Category{}, fmt.Errorf("failed to check category uniqueness: %w", err)
	} else if found {
		return Category{}, appErrors.ErrorResponse{
			Code:    appErrors.ErrConflict,
			Message: fmt.Sprintf("The owner already has a category named '%s'.", name),
		}
	}

	now := time.Now().UTC()
	category := Category{
		ID:        uuid.New().String(),
		Name:      name,
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := l.storage.SaveCategory(ctx, category); err != nil {
		return Category{}, fmt.Errorf("failed to save category: %w", err)
	}
	return category, nil
}

// UpdateCategory renames and/or reassigns a category. Uniqueness is
// re-checked against the resulting (name, owner) pair, excluding the
// category itself.
func (l *Ledger) UpdateCategory(ctx context.Context, ident auth.Identity, categoryID string, patch CategoryPatch) (Category, error) {
	category, err := l.storage.GetCategoryByID(ctx, categoryID)
	if err != nil {
		return Category{}, fmt.Errorf("failed to get category: %w", err)
	}
	if err := requireOwnerOrAdmin(ident, category.OwnerID); err != nil {
		return Category{}, err
	}

	newName := category.Name
	if patch.Name != nil {
		if err := validateCategoryName(*patch.Name); err != nil {
			return Category{}, err
		}
		newName = *patch.Name
	}

	newOwnerID := category.OwnerID
	if patch.OwnerID != nil && *patch.OwnerID != category.OwnerID {
		if _, err := l.storage.GetAccountByID(ctx, *patch.OwnerID); err != nil {
			if appErrors.CodeOf(err) == appErrors.ErrNotFound {
				return Category{}, appErrors.ErrorResponse{
					Code:    appErrors.ErrNotFound,
					Message: "Target owner account does not exist.",
				}
			}
			return Category{}, fmt.Errorf("failed to check owner account: %w", err)
		}
		newOwnerID = *patch.OwnerID
	}

	if newName != category.Name || newOwnerID != category.OwnerID {
		if _, found, err := l.storage.FindCategoryByNameAndOwner(ctx, newName, newOwnerID, category.ID); err != nil {
			return Category{}, fmt.Errorf("failed to check category uniqueness: %w", err)
		} else if found {
			return Category{}, appErrors.ErrorResponse{
				Code:    appErrors.ErrConflict,
				Message: fmt.Sprintf("The owner already has a category named '%s'.", newName),
			}
		}
	}

	category.Name = newName
	category.OwnerID = newOwnerID
	category.UpdatedAt = time.Now().UTC()

	if err := l.storage.UpdateCategory(ctx, category); err != nil {
		return Category{}, fmt.Errorf("failed to update category: %w", err)
	}
	return category, nil
}

// DeleteCategory refuses to remove a category while expenses still
// reference it; the failure carries how many.
func (l *Ledger) DeleteCategory(ctx context.Context, ident auth.Identity, categoryID string) error {
	category, err := l.storage.GetCategoryByID(ctx, categoryID)
	if err != nil {
		return fmt.Errorf("failed to get category: %w", err)
	}
	if err := requireOwnerOrAdmin(ident, category.OwnerID); err != nil {
		return err
	}

	count, err := l.storage.CountExpensesByCategory(ctx, category.ID)
	if err != nil {
		return fmt.Errorf("failed to count category expenses: %w", err)
	}
	if count > 0 {
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrPrecondition,
			Message: fmt.Sprintf("Category '%s' is still referenced by %d expense(s), delete them first.", category.Name, count),
			Count:   count,
		}
	}

	if err := l.storage.DeleteCategory(ctx, category.ID); err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return nil
}

// Category reads are public: any authenticated account may look at the
// shared taxonomy.
func (l *Ledger) GetCategory(ctx context.Context, categoryID string) (Category, error) {
	category, err := l.storage.GetCategoryByID(ctx, categoryID)
	if err != nil {
		return Category{}, fmt.Errorf("failed to get category: %w", err)
	}
	return category, nil
}

func (l *Ledger) ListCategories(ctx context.Context) ([]Category, error) {
	categories, err := l.storage.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// ---- Expenses ----

// CreateExpense checks the referenced category exists; it deliberately
// does not require the category's owner to match the expense's owner.
func (l *Ledger) CreateExpense(ctx context.Context, ident auth.Identity, newExpense NewExpense) (Expense, error) {
	if err := validateExpenseFields(newExpense.Amount, newExpense.Currency, newExpense.Note); err != nil {
		return Expense{}, err
	}

	if _, err := l.storage.GetCategoryByID(ctx, newExpense.CategoryID); err != nil {
		if appErrors.CodeOf(err) == appErrors.ErrNotFound {
			return Expense{}, appErrors.ErrorResponse{
				Code:    appErrors.ErrNotFound,
				Message: "Referenced category does not exist.",
			}
		}
		return Expense{}, fmt.Errorf("failed to check category: %w", err)
	}

	ownerID := ident.AccountID
	if newExpense.OwnerOverride != nil && *newExpense.OwnerOverride != ident.AccountID {
		if err := auth.RequireAdmin(ident); err != nil {
			return Expense{}, err
		}
		if _, err := l.storage.GetAccountByID(ctx, *newExpense.OwnerOverride); err != nil {
			if appErrors.CodeOf(err) == appErrors.ErrNotFound {
				return Expense{}, appErrors.ErrorResponse{
					Code:    appErrors.ErrNotFound,
					Message: "Target owner account does not exist.",
				}
			}
			return Expense{}, fmt.Errorf("failed to check owner account: %w", err)
		}
		ownerID = *newExpense.OwnerOverride
	}

	now := time.Now().UTC()
	expense := Expense{
		ID:         uuid.New().String(),
		OwnerID:    ownerID,
		CategoryID: newExpense.CategoryID,
		Amount:     newExpense.Amount,
		Currency:   newExpense.Currency,
		Date:       newExpense.Date,
		Note:       newExpense.Note,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if expense.Currency == "" {
		expense.Currency = DefaultCurrency
	}
	if expense.Date.IsZero() {
		expense.Date = now
	}

	if err := l.storage.SaveExpense(ctx, expense); err != nil {
		return Expense{}, fmt.Errorf("failed to save expense: %w", err)
	}
	return expense, nil
}

// UpdateExpense merges the patch over the stored record; a field left
// out of the patch keeps its value. The new category and the new owner
// are validated before anything is written.
func (l *Ledger) UpdateExpense(ctx context.Context, ident auth.Identity, expenseID string, patch ExpensePatch) (Expense, error) {
	expense, err := l.storage.GetExpenseByID(ctx, expenseID)
	if err != nil {
		return Expense{}, fmt.Errorf("failed to get expense: %w", err)
	}
	if err := requireOwnerOrAdmin(ident, expense.OwnerID); err != nil {
		return Expense{}, err
	}

	if patch.Amount != nil || patch.Currency != nil || patch.Note != nil {
		amount := expense.Amount
		if patch.Amount != nil {
			amount = *patch.Amount
		}
		currency := expense.Currency
		if patch.Currency != nil {
			currency = *patch.Currency
		}
		note := expense.Note
		if patch.Note != nil {
			note = *patch.Note
		}
		if err := validateExpenseFields(amount, currency, note); err != nil {
			return Expense{}, err
		}
	}

	if patch.CategoryID != nil && *patch.CategoryID != expense.CategoryID {
		if _, err := l.storage.GetCategoryByID(ctx, *patch.CategoryID); err != nil {
			if appErrors.CodeOf(err) == appErrors.ErrNotFound {
				return Expense{}, appErrors.ErrorResponse{
					Code:    appErrors.ErrNotFound,
					Message: "Referenced category does not exist.",
				}
			}
			return Expense{}, fmt.Errorf("failed to check category: %w", err)
		}
	}

	if patch.OwnerID != nil && *patch.OwnerID != expense.OwnerID {
		if err := auth.RequireAdmin(ident); err != nil {
			return Expense{}, err
		}
		if _, err := l.storage.GetAccountByID(ctx, *patch.OwnerID); err != nil {
			if appErrors.CodeOf(err) == appErrors.ErrNotFound {
				return Expense{}, appErrors.ErrorResponse{
					Code:    appErrors.ErrNotFound,
					Message: "Target owner account does not exist.",
				}
			}
			return Expense{}, fmt.Errorf("failed to check owner account: %w", err)
		}
	}

	merged := mergeExpense(expense, patch)
	merged.UpdatedAt = time.Now().UTC()

	if err := l.storage.UpdateExpense(ctx, merged); err != nil {
		return Expense{}, fmt.Errorf("failed to update expense: %w", err)
	}
	return merged, nil
}

func (l *Ledger) DeleteExpense(ctx context.Context, ident auth.Identity, expenseID string) error {
	expense, err := l.storage.GetExpenseByID(ctx, expenseID)
	if err != nil {
		return fmt.Errorf("failed to get expense: %w", err)
	}
	if err := requireOwnerOrAdmin(ident, expense.OwnerID); err != nil {
		return err
	}

	if err := l.storage.DeleteExpense(ctx, expense.ID); err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	return nil
}

func (l *Ledger) GetExpense(ctx context.Context, ident auth.Identity, expenseID string) (Expense, error) {
	expense, err := l.storage.GetExpenseByID(ctx, expenseID)
	if err != nil {
		return Expense{}, fmt.Errorf("failed to get expense: %w", err)
	}
	if err := requireOwnerOrAdmin(ident, expense.OwnerID); err != nil {
		return Expense{}, err
	}
	return expense, nil
}

// ListExpenses scopes the listing to the caller for standard accounts;
// an admin may name any owner in the filter.
func (l *Ledger) ListExpenses(ctx context.Context, ident auth.Identity, filter ExpenseFilter) ([]Expense, error) {
	if !ident.IsAdmin() || filter.OwnerID == "" {
		filter.OwnerID = ident.AccountID
	}

	expenses, err := l.storage.ListExpenses(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	return expenses, nil
}

// ---- shared checks ----

func requireOwnerOrAdmin(ident auth.Identity, ownerID string) error {
	if ident.AccountID == ownerID {
		return nil
	}
	if err := auth.RequireAdmin(ident); err != nil {
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrAccessDenied,
			Message: "You cannot access another account's records.",
		}
	}
	return nil
}

func validateCategoryName(name string) error {
	if strings.TrimSpace(name) == "" {
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: "Category name cannot be empty!",
		}
	}
	if len(name) > MAX_CATEGORY_NAME_LENGTH {
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: fmt.Sprintf("Category name so long, maximum length is %d", MAX_CATEGORY_NAME_LENGTH),
		}
	}
	return nil
}

func validateExpenseFields(amount float64, currency string, note string) error {
	if amount < 0 {
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: "Expense amount cannot be negative.",
		}
	}
	if amount > MAX_EXPENSE_AMOUNT_LIMIT {
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: fmt.Sprintf("Maximum allowed amount per expense is: %d", MAX_EXPENSE_AMOUNT_LIMIT),
		}
	}
	if len(currency) > MAX_CURRENCY_LENGTH {
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: fmt.Sprintf("Currency so long, maximum allowed currency length is: %d", MAX_CURRENCY_LENGTH),
		}
	}
	if len(note) > MAX_NOTE_LENGTH {
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: fmt.Sprintf("Note so long, maximum allowed length is: %d", MAX_NOTE_LENGTH),
		}
	}
	return nil
}
