package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/0xcafe-io/iz"

	appErrors "github.com/samir-akhundov/expense-tracker/apperrors"
	"github.com/samir-akhundov/expense-tracker/internal/auth"
	"github.com/samir-akhundov/expense-tracker/internal/contextutil"
	"github.com/samir-akhundov/expense-tracker/internal/ledger"
	"github.com/samir-akhundov/expense-tracker/logging"
)

type Api struct {
	Service *ledger.Ledger
	Gate    *auth.Gate
}

func NewApi(service *ledger.Ledger, gate *auth.Gate) *Api {
	return &Api{
		Service: service,
		Gate:    gate,
	}
}

func respondError(err error) iz.Responder {
	status := httpStatusFromError(err)
	var resp appErrors.ErrorResponse
	if errors.As(err, &resp) {
		return iz.Respond().Status(status).JSON(resp)
	}
	return iz.Respond().Status(status).Text(err.Error())
}

// authenticate resolves the caller's identity from the Authorization
// header; every handler below the gate goes through it.
func (api *Api) authenticate(ctx context.Context, r *iz.Request) (auth.Identity, error) {
	token := r.Header.Get("Authorization")
	if token == "" {
		return auth.Identity{}, appErrors.ErrorResponse{
			Code:    appErrors.ErrAuth,
			Message: "Authorization header is required.",
		}
	}
	return api.Gate.ResolveIdentity(ctx, token)
}

func (api *Api) RegisterHandler(r *iz.Request) iz.Responder {
	ctx := contextutil.WithTraceID(r.Context())

	var registerReq RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&registerReq); err != nil {
		msg := fmt.Sprintf("invalid request body: %s", err.Error())
		return iz.Respond().Status(400).Text(msg)
	}

	newAccount := auth.NewAccount{
		Email:         registerReq.Email,
		Name:          registerReq.Name,
		PasswordPlain: registerReq.Password,
	}

	account, token, err := api.Service.Register(ctx, newAccount)
	if err != nil {
		logging.Logger.Errorf("Failed to register account: %v", err)
		return respondError(err)
	}

	resp := RegisterResponse{
		Message: "Registration Completed",
		Token:   token,
		Account: AccountToHttp(account),
	}
	return iz.Respond().Status(201).JSON(resp)
}

func (api *Api) LoginHandler(r *iz.Request) iz.Responder {
	ctx := contextutil.WithTraceID(r.Context())

	var loginReq LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&loginReq); err != nil {
		return iz.Respond().Status(400).Text("invalid request body")
	}

	token, err := api.Service.Login(ctx, loginReq.Email, loginReq.Password)
	if err != nil {
		return respondError(err)
	}

	resp := LoginResponse{
		Message: "You've logged in successfully!",
		Token:   token,
	}
	return iz.Respond().Status(200).JSON(resp)
}

func (api *Api) LogoutHandler(r *iz.Request) iz.Responder {
	ctx := contextutil.WithTraceID(r.Context())

	// logout is idempotent, a missing or stale token is not an error
	token := r.Header.Get("Authorization")
	if err := api.Service.Logout(ctx, token); err != nil {
		logging.Logger.Errorf("Failed to logout: %v", err)
		return respondError(err)
	}
	return iz.Respond().Status(200).Text("Logout successful.")
}

func (api *Api) GetAccountHandler(r *iz.Request) iz.Responder {
	ctx := contextutil.WithTraceID(r.Context())

	ident, err := api.authenticate(ctx, r)
	if err != nil {
		return respondError(err)
	}

	account, err := api.Service.GetAccount(ctx, ident)
	if err != nil {
		return respondError(err)
	}
	return iz.Respond().Status(200).JSON(AccountToHttp(account))
}

func (api *Api) UpdateProfileHandler(r *iz.Request) iz.Responder {
	ctx := contextutil.WithTraceID(r.Context())

	ident, err := api.authenticate(ctx, r)
	if err != nil {
		return respondError(err)
	}

	var profileReq UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&profileReq); err != nil {
		return iz.Respond().Status(400).Text("invalid request body")
	}

	patch := auth.ProfilePatch{
		Name:            profileReq.Name,
		Email:           profileReq.Email,
		CurrentPassword: profileReq.CurrentPassword,
		NewPassword:     profileReq.NewPassword,
	}

	account, err := api.Service.UpdateProfile(ctx, ident, patch)
	if err != nil {
		return respondError(err)
	}
	return iz.Respond().Status(200).JSON(AccountToHttp(account))
}

func (api *Api) DeleteAccountHandler(r *iz.Request) iz.Responder {
	ctx := contextutil.WithTraceID(r.Context())

	ident, err := api.authenticate(ctx, r)
	if err != nil {
		return respondError(err)
	}

	var deleteReq DeleteAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&deleteReq); err != nil {
		return iz.Respond().Status(400).Text("invalid request body")
	}

	if err := api.Service.DeleteAccount(ctx, ident, deleteReq.Password); err != nil {
		logging.Logger.Errorf("Failed to delete account: %v", err)
		return respondError(err)
	}
	return iz.Respond().Status(200).Text("Account and everything it owned were removed.")
}

func (api *Api) SetAccountRoleHandler(r *iz.Request) iz.Responder {
	ctx := contextutil.WithTraceID(r.Context())

	ident, err := api.authenticate(ctx, r)
	if err != nil {
		return respondError(err)
	}

	var roleReq SetRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&roleReq); err != nil {
		return iz.Respond().Status(400).Text("invalid request body")
	}

	accountID := r.PathValue("id")
	account, err := api.Service.SetAccountRole(ctx, ident, accountID, auth.Role(roleReq.Role))
	if err != nil {
		return respondError(err)
	}
	return iz.Respond().Status(200).JSON(AccountToHttp(account))
}

func (api *Api) CreateCategoryHandler(r *iz.Request) iz.Responder {
	ctx := contextutil.WithTraceID(r.Context())

	ident, err := api.authenticate(ctx, r)
	if err != nil {
		return respondError(err)
	}

	var categoryReq CreateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&categoryReq); err != nil {
		return iz.Respond().Status(400).Text("invalid request body")
	}

	category, err := api.Service.CreateCategory(ctx, ident, categoryReq.Name, categoryReq.OwnerID)
	if err != nil {
		return respondError(err)
	}
	return iz.Respond().Status(201).JSON(CategoryToHttp(category))
}

func (api *Api) ListCategoriesHandler(r *iz.Request) iz.Responder {
	ctx := contextutil.WithTraceID(r.Context())

	if _, err := api.authenticate(ctx, r); err != nil {
		return respondError(err)
	}

	categories, err := api.Service.ListCategories(ctx)
	if err != nil {
		return respondError(err)
	}

	resp := ListCategoriesResponse{Categories: make([]CategoryItem, 0, len(categories))}
	for _, category := range categories {
		resp.Categories = append(resp.Categories, CategoryToHttp(category))
	}
	return iz.Respond().Status(200).JSON(resp)
}

func (api *Api) GetCategoryHandler(r *iz.Request) iz.Responder {
	ctx := contextutil.WithTraceID(r.Context())

	if _, err := api.authenticate(ctx, r); err != nil {
		return respondError(err)
	}

	category, err := api.Service.GetCategory(ctx, r.PathValue("id"))
	if err != nil {
		return respondError(err)
	}
	return iz.Respond().Status(200).JSON(CategoryToHttp(category))
}

func (api *Api) UpdateCategoryHandler(r *iz.Request) iz.Responder {
	ctx := contextutil.WithTraceID(r.Context())

	ident, err := api.authenticate(ctx, r)
	if err != nil {
		return respondError(err)
	}

	var categoryReq UpdateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&categoryReq); err != nil {
		return iz.Respond().Status(400).Text("invalid request body")
	}

	patch := ledger.CategoryPatch{
		Name:    categoryReq.Name,
		OwnerID: categoryReq.OwnerID,
	}

	category, err := api.Service.UpdateCategory(ctx, ident, r.PathValue("id"), patch)
	if err != nil {
		return respondError(err)
	}
	return iz.Respond().Status(200).JSON(CategoryToHttp(category))
}

func (api *Api) DeleteCategoryHandler(r *iz.Request) iz.Responder {
	ctx := contextutil.WithTraceID(r.Context())

	ident, err := api.authenticate(ctx, r)
	if err != nil {
		return respondError(err)
	}

	if err := api.Service.DeleteCategory(ctx, ident, r.PathValue("id")); err != nil {
		return respondError(err)
	}
	return iz.Respond().Status(200).Text("category deleted successfully")
}

func (api *Api) CreateExpenseHandler(r *iz.Request) iz.Responder {
	ctx := contextutil.WithTraceID(r.Context())

	ident, err := api.authenticate(ctx, r)
	if err != nil {
		return respondError(err)
	}

	var expenseReq CreateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&expenseReq); err != nil {
		return iz.Respond().Status(400).Text("invalid request body")
	}

	newExpense := ledger.NewExpense{
		CategoryID:    expenseReq.CategoryID,
		Amount:        expenseReq.Amount,
		Currency:      expenseReq.Currency,
		Note:          expenseReq.Note,
		OwnerOverride: expenseReq.OwnerID,
	}
	if expenseReq.Date != "" {
		date, err := parseDateParam(expenseReq.Date)
		if err != nil {
			return iz.Respond().Status(400).Text(err.Error())
		}
		newExpense.Date = date
	}

	expense, err := api.Service.CreateExpense(ctx, ident, newExpense)
	if err != nil {
		return respondError(err)
	}
	return iz.Respond().Status(201).JSON(ExpenseToHttp(expense))
}

func (api *Api) ListExpensesHandler(r *iz.Request) iz.Responder {
	ctx := contextutil.WithTraceID(r.Context())

	ident, err := api.authenticate(ctx, r)
	if err != nil {
		return respondError(err)
	}

	filter, err := ExpenseFilterFromParams(r.URL.Query())
	if err != nil {
		msg := fmt.Sprintf("invalid filter parameters: %s", err.Error())
		return iz.Respond().Status(400).Text(msg)
	}

	expenses, err := api.Service.ListExpenses(ctx, ident, filter)
	if err != nil {
		return respondError(err)
	}

	resp := ListExpensesResponse{Expenses: make([]ExpenseItem, 0, len(expenses))}
	for _, expense := range expenses {
		resp.Expenses = append(resp.Expenses, ExpenseToHttp(expense))
	}
	return iz.Respond().Status(200).JSON(resp)
}

func (api *Api) GetExpenseHandler(r *iz.Request) iz.Responder {
	ctx := contextutil.WithTraceID(r.Context())

	ident, err := api.authenticate(ctx, r)
	if err != nil {
		return respondError(err)
	}

	expense, err := api.Service.GetExpense(ctx, ident, r.PathValue("id"))
	if err != nil {
		return respondError(err)
	}
	return iz.Respond().Status(200).JSON(ExpenseToHttp(expense))
}

func (api *Api) UpdateExpenseHandler(r *iz.Request) iz.Responder {
	ctx := contextutil.WithTraceID(r.Context())

	ident, err := api.authenticate(ctx, r)
	if err != nil {
		return respondError(err)
	}

	var expenseReq UpdateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&expenseReq); err != nil {
		return iz.Respond().Status(400).Text("invalid request body")
	}

	patch := ledger.ExpensePatch{
		CategoryID: expenseReq.CategoryID,
		Amount:     expenseReq.Amount,
		Currency:   expenseReq.Currency,
		Note:       expenseReq.Note,
		OwnerID:    expenseReq.OwnerID,
	}
	if expenseReq.Date != nil {
		date, err := parseDateParam(*expenseReq.Date)
		if err != nil {
			return iz.Respond().Status(400).Text(err.Error())
		}
		patch.Date = &date
	}

	expense, err := api.Service.UpdateExpense(ctx, ident, r.PathValue("id"), patch)
	if err != nil {
		return respondError(err)
	}
	return iz.Respond().Status(200).JSON(ExpenseToHttp(expense))
}

func (api *Api) DeleteExpenseHandler(r *iz.Request) iz.Responder {
	ctx := contextutil.WithTraceID(r.Context())

	ident, err := api.authenticate(ctx, r)
	if err != nil {
		return respondError(err)
	}

	if err := api.Service.DeleteExpense(ctx, ident, r.PathValue("id")); err != nil {
		return respondError(err)
	}
	return iz.Respond().Status(200).Text("expense deleted successfully")
}
