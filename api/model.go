package api

import (
	"fmt"
	"net/url"
	"time"

	appErrors "github.com/samir-akhundov/expense-tracker/apperrors"
	"github.com/samir-akhundov/expense-tracker/internal/auth"
	"github.com/samir-akhundov/expense-tracker/internal/ledger"
)

// REQUESTS START:

type RegisterRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UpdateProfileRequest struct {
	Name            *string `json:"name"`
	Email           *string `json:"email"`
	CurrentPassword *string `json:"current_password"`
	NewPassword     *string `json:"new_password"`
}

type DeleteAccountRequest struct {
	Password string `json:"password"`
}

type SetRoleRequest struct {
	Role string `json:"role"`
}

type CreateCategoryRequest struct {
	Name    string  `json:"name"`
	OwnerID *string `json:"owner_id"`
}

type UpdateCategoryRequest struct {
	Name    *string `json:"name"`
	OwnerID *string `json:"owner_id"`
}

type CreateExpenseRequest struct {
	CategoryID string  `json:"category_id"`
	Amount     float64 `json:"amount"`
	Currency   string  `json:"currency"`
	Date       string  `json:"date"` // RFC3339 or YYYY-MM-DD, optional
	Note       string  `json:"note"`
	OwnerID    *string `json:"owner_id"`
}

type UpdateExpenseRequest struct {
	CategoryID *string  `json:"category_id"`
	Amount     *float64 `json:"amount"`
	Currency   *string  `json:"currency"`
	Date       *string  `json:"date"`
	Note       *string  `json:"note"`
	OwnerID    *string  `json:"owner_id"`
}

// REQUESTS END:

// RESPONSES:

type RegisterResponse struct {
	Message string      `json:"message"`
	Token   string      `json:"token"`
	Account AccountItem `json:"account"`
}

type LoginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

type AccountItem struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
}

type CategoryItem struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	OwnerID   string `json:"owner_id"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type ExpenseItem struct {
	ID         string  `json:"id"`
	OwnerID    string  `json:"owner_id"`
	CategoryID string  `json:"category_id"`
	Amount     float64 `json:"amount"`
	Currency   string  `json:"currency"`
	Date       string  `json:"date"`
	Note       string  `json:"note"`
	CreatedAt  string  `json:"created_at"`
	UpdatedAt  string  `json:"updated_at"`
}

type ListCategoriesResponse struct {
	Categories []CategoryItem `json:"categories"`
}

type ListExpensesResponse struct {
	Expenses []ExpenseItem `json:"expenses"`
}

func httpStatusFromError(err error) int {
	switch appErrors.CodeOf(err) {
	case appErrors.ErrNotFound:
		return 404 // not found
	case appErrors.ErrInvalidInput:
		return 400 // bad request
	case appErrors.ErrAuth:
		return 401 // unauthorized
	case appErrors.ErrInvalidCredential:
		return 401 // unauthorized
	case appErrors.ErrAccessDenied:
		return 403 // access denied
	case appErrors.ErrConflict:
		return 409 // conflict
	case appErrors.ErrPrecondition:
		return 412 // precondition failed
	default:
		return 500 // internal error
	}
}

func AccountToHttp(account auth.Account) AccountItem {
	return AccountItem{
		ID:        account.ID,
		Email:     account.Email,
		Name:      account.Name,
		Role:      string(account.Role),
		CreatedAt: account.CreatedAt.Format(time.RFC3339),
	}
}

func CategoryToHttp(category ledger.Category) CategoryItem {
	return CategoryItem{
		ID:        category.ID,
		Name:      category.Name,
		OwnerID:   category.OwnerID,
		CreatedAt: category.CreatedAt.Format(time.RFC3339),
		UpdatedAt: category.UpdatedAt.Format(time.RFC3339),
	}
}

func ExpenseToHttp(expense ledger.Expense) ExpenseItem {
	return ExpenseItem{
		ID:         expense.ID,
		OwnerID:    expense.OwnerID,
		CategoryID: expense.CategoryID,
		Amount:     expense.Amount,
		Currency:   expense.Currency,
		Date:       expense.Date.Format(time.RFC3339),
		Note:       expense.Note,
		CreatedAt:  expense.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  expense.UpdatedAt.Format(time.RFC3339),
	}
}

func parseDateParam(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid date: '%s', expected RFC3339 or YYYY-MM-DD", value)
}

// ExpenseFilterFromParams validates the listing query parameters. The
// owner scoping itself happens in the service, not here.
func ExpenseFilterFromParams(params url.Values) (ledger.ExpenseFilter, error) {
	var filter ledger.ExpenseFilter

	filter.OwnerID = params.Get("owner_id")
	filter.CategoryID = params.Get("category_id")

	if raw := params.Get("from"); raw != "" {
		from, err := parseDateParam(raw)
		if err != nil {
			return ledger.ExpenseFilter{}, err
		}
		filter.From = &from
	}
	if raw := params.Get("to"); raw != "" {
		to, err := parseDateParam(raw)
		if err != nil {
			return ledger.ExpenseFilter{}, err
		}
		filter.To = &to
	}
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return ledger.ExpenseFilter{}, fmt.Errorf("'to' date is before 'from' date")
	}
	return filter, nil
}
