package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"

	appErrors "github.com/samir-akhundov/expense-tracker/apperrors"
	"github.com/samir-akhundov/expense-tracker/internal/auth"
	"github.com/samir-akhundov/expense-tracker/internal/contextutil"
	"github.com/samir-akhundov/expense-tracker/internal/ledger"
	"github.com/samir-akhundov/expense-tracker/logging"
)

// --- INIT START --- //

func Init() (*sql.DB, error) {
	var db *sql.DB
	var err error

	username := os.Getenv("DB_USER")
	password := os.Getenv("DB_PASS")
	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	dbname := os.Getenv("DB_NAME")
	fullDsn := os.Getenv("FULL_DSN")

	if dbname == "" {
		dbname = "expense_tracker"
	}

	var adminDsn string
	if fullDsn != "" {
		parts := strings.Split(fullDsn, "/")
		adminDsn = strings.Join(parts[:len(parts)-1], "/") + "/"
	} else {
		if username == "" || password == "" || host == "" || port == "" {
			return nil, fmt.Errorf("missing required DB environment variables")
		}
		adminDsn = fmt.Sprintf("%s:%s@tcp(%s:%s)/?parseTime=true", username, password, host, port)
	}

	logging.Logger.Info("Connecting to MySQL server for initialization...")
	adminDb, err := sql.Open("mysql", adminDsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open admin mysql handle: %v", err)
	}
	connected := false
	for i := 0; i < 15; i++ {
		if err := adminDb.Ping(); err == nil {
			connected = true
			break
		}
		logging.Logger.Warnf("Database not ready, retrying... (%d/15)", i+1)
		time.Sleep(3 * time.Second)
	}
	if !connected {
		return nil, fmt.Errorf("database unreachable after multiple attempts")
	}

	var dbnameExistence string
	checkDbnameExistQuery := "SELECT SCHEMA_NAME FROM INFORMATION_SCHEMA.SCHEMATA WHERE SCHEMA_NAME = ?"
	err = adminDb.QueryRow(checkDbnameExistQuery, dbname).Scan(&dbnameExistence)

	if err == sql.ErrNoRows {
		logging.Logger.Infof("Database '%s' does not exist, creating...", dbname)
		createDbSql := fmt.Sprintf("CREATE DATABASE `%s` CHARACTER SET utf8mb4 COLLATE utf8mb4_general_ci;", dbname)
		if _, err := adminDb.Exec(createDbSql); err != nil {
			adminDb.Close()
			return nil, fmt.Errorf("failed to create database: %v", err)
		}
	} else if err != nil {
		adminDb.Close()
		return nil, fmt.Errorf("failed to check database existence: %v", err)
	}

	adminDb.Close()

	var finalDsn string
	if fullDsn != "" {
		finalDsn = fullDsn
	} else {
		finalDsn = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true", username, password, host, port, dbname)
	}

	logging.Logger.Info("Connecting to database...")
	db, err = sql.Open("mysql", finalDsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database handle: %v", err)
	}

	logging.Logger.Info("Connected to database successfully")
	logging.Logger.Info("Running migrations...")

	if err := runMigrations(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %v", err)
	}

	return db, nil
}

func runMigrations(db *sql.DB) error {
	migrationFiles, err := getMigrationFiles("db/migrations")
	if err != nil {
		return fmt.Errorf("failed to get migration files: %v", err)
	}

	lastAppliedMigration, err := getLastAppliedMigration(db)
	if err != nil {
		return fmt.Errorf("failed to get last applied migration name: %v", err)
	}

	newMigrations := filterNewMigrations(migrationFiles, lastAppliedMigration)

	if len(newMigrations) == 0 {
		logging.Logger.Info("no new migration")
		return nil
	}

	for _, migrationFile := range newMigrations {
		logging.Logger.Info("applying migration: ", migrationFile)
		migrationContent, err := os.ReadFile(filepath.Join("db/migrations/", migrationFile))
		if err != nil {
			return fmt.Errorf("failed to read this '%s' migration file, error: %v", migrationFile, err)
		}

		if err := applyMigration(db, migrationFile, string(migrationContent)); err != nil {
			return fmt.Errorf("failed to apply this '%s' migration file, error: %v", migrationFile, err)
		}
	}

	logging.Logger.Info("all migrations applied successfully")
	return nil
}

func getMigrationFiles(dir string) ([]string, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var migrationFiles []string
	for _, file := range files {
		if !file.IsDir() && strings.HasSuffix(file.Name(), ".sql") {
			migrationFiles = append(migrationFiles, file.Name())
		}
	}

	sort.Strings(migrationFiles)
	return migrationFiles, nil
}

func getLastAppliedMigration(db *sql.DB) (string, error) {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS migration (
        id INT AUTO_INCREMENT PRIMARY KEY,
        migration_name VARCHAR(255) NOT NULL UNIQUE,
        applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
    );`)

	if err != nil {
		return "", err
	}

	var lastMigration string
	err = db.QueryRow("SELECT migration_name FROM migration ORDER BY migration_name DESC LIMIT 1").Scan(&lastMigration)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return lastMigration, err
}

func filterNewMigrations(all []string, lastApplied string) []string {
	if lastApplied == "" {
		return all
	}

	var result []string
	for _, migration := range all {
		if migration > lastApplied {
			result = append(result, migration)
		}
	}
	return result
}

func applyMigration(db *sql.DB, name, sqlContent string) error {
	txn, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}

	statements := strings.Split(sqlContent, ";")

	for _, statement := range statements {
		trimmedStmt := strings.TrimSpace(statement)
		if trimmedStmt == "" {
			continue
		}

		if _, err := txn.Exec(trimmedStmt); err != nil {
			txn.Rollback()
			return fmt.Errorf("migration statement failed: %w\nStatement: %s", err, trimmedStmt)
		}
	}

	if _, err := txn.Exec("INSERT INTO migration (migration_name) VALUES (?)", name); err != nil {
		txn.Rollback()
		return fmt.Errorf("failed to record migration name: %w", err)
	}

	return txn.Commit()
}

// --- INIT END --- //

type MySQLStorage struct {
	db *sql.DB
}

func NewMySQLStorage(db *sql.DB) *MySQLStorage {
	return &MySQLStorage{db: db}
}

func isDuplicateKey(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}

func (mySql *MySQLStorage) SaveAccount(ctx context.Context, account auth.Account) error {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := "INSERT INTO account (id, email, name, hashed_password, role, created_at) VALUES (?, ?, ?, ?, ?, ?);"
	_, err := mySql.db.ExecContext(ctx, query, account.ID, account.Email, account.Name, account.PasswordHashed, string(account.Role), account.CreatedAt)
	if err != nil {
		if isDuplicateKey(err) {
			return appErrors.ErrorResponse{
				Code:    appErrors.ErrConflict,
				Message: "The email address already exists.",
			}
		}
		logging.Logger.Errorf("[TraceID=%s] | failed to save account in Storage.SaveAccount() | Error: %v", traceID, err)
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: "Registration failed, try again later.",
		}
	}
	return nil
}

func (mySql *MySQLStorage) scanAccount(row *sql.Row) (auth.Account, error) {
	var dbA dbAccount
	err := row.Scan(&dbA.ID, &dbA.Email, &dbA.Name, &dbA.PasswordHashed, &dbA.Role, &dbA.CreatedAt)
	if err != nil {
		return auth.Account{}, err
	}
	return auth.Account{
		ID:             dbA.ID,
		Email:          dbA.Email,
		Name:           dbA.Name,
		PasswordHashed: dbA.PasswordHashed,
		Role:           auth.Role(dbA.Role),
		CreatedAt:      dbA.CreatedAt,
	}, nil
}

func (mySql *MySQLStorage) GetAccountByID(ctx context.Context, id string) (auth.Account, error) {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := "SELECT id, email, name, hashed_password, role, created_at FROM account WHERE id = ?;"
	account, err := mySql.scanAccount(mySql.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return auth.Account{}, appErrors.ErrorResponse{
				Code:    appErrors.ErrNotFound,
				Message: "Account does not exist.",
			}
		}
		logging.Logger.Errorf("[TraceID=%s] | failed to get account in Storage.GetAccountByID() | Error: %v", traceID, err)
		return auth.Account{}, appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: "Failed to load account, try again later.",
		}
	}
	return account, nil
}

func (mySql *MySQLStorage) GetAccountByEmail(ctx context.Context, email string) (auth.Account, error) {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := "SELECT id, email, name, hashed_password, role, created_at FROM account WHERE email = ?;"
	account, err := mySql.scanAccount(mySql.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return auth.Account{}, appErrors.ErrorResponse{
				Code:    appErrors.ErrNotFound,
				Message: "Account does not exist.",
			}
		}
		logging.Logger.Errorf("[TraceID=%s] | failed to get account in Storage.GetAccountByEmail() | Error: %v", traceID, err)
		return auth.Account{}, appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: "Failed to load account, try again later.",
		}
	}
	return account, nil
}

func (mySql *MySQLStorage) UpdateAccount(ctx context.Context, account auth.Account) error {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := "UPDATE account SET email = ?, name = ?, hashed_password = ?, role = ? WHERE id = ?;"
	res, err := mySql.db.ExecContext(ctx, query, account.Email, account.Name, account.PasswordHashed, string(account.Role), account.ID)
	if err != nil {
		if isDuplicateKey(err) {
			return appErrors.ErrorResponse{
				Code:    appErrors.ErrConflict,
				Message: "The email address already exists.",
			}
		}
		logging.Logger.Errorf("[TraceID=%s] | failed to update account in Storage.UpdateAccount() | Error: %v", traceID, err)
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: "Failed to update account, try again later.",
		}
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to check affected rows in Storage.UpdateAccount() | Error: %v", traceID, err)
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: "Failed to update account, try again later.",
		}
	}
	if rowsAffected == 0 {
		// the row may exist with identical values; absence check keeps
		// the NOT FOUND contract honest
		var one int
		if err := mySql.db.QueryRowContext(ctx, "SELECT 1 FROM account WHERE id = ?;", account.ID).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return appErrors.ErrorResponse{
					Code:    appErrors.ErrNotFound,
					Message: "Account does not exist.",
				}
			}
			logging.Logger.Errorf("[TraceID=%s] | failed to re-check account in Storage.UpdateAccount() | Error: %v", traceID, err)
			return appErrors.ErrorResponse{
				Code:    appErrors.ErrInternal,
				Message: "Failed to update account, try again later.",
			}
		}
	}
	return nil
}

func (mySql *MySQLStorage) DeleteAccount(ctx context.Context, id string) error {
	traceID := contextutil.TraceIDFromContext(ctx)

	res, err := mySql.db.ExecContext(ctx, "DELETE FROM account WHERE id = ?;", id)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to delete account in Storage.DeleteAccount() | Error: %v", traceID, err)
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: "Failed to delete account, try again later.",
		}
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrNotFound,
			Message: "Account does not exist.",
		}
	}
	return nil
}

func (mySql *MySQLStorage) SaveCategory(ctx context.Context, category ledger.Category) error {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := "INSERT INTO category (id, name, owner_id, created_at, updated_at) VALUES (?, ?, ?, ?, ?);"
	_, err := mySql.db.ExecContext(ctx, query, category.ID, category.Name, category.OwnerID, category.CreatedAt, category.UpdatedAt)
	if err != nil {
		if isDuplicateKey(err) {
			return appErrors.ErrorResponse{
				Code:    appErrors.ErrConflict,
				Message: "The category already exists.",
			}
		}
		logging.Logger.Errorf("[TraceID=%s] | failed to save category in Storage.SaveCategory() | Error: %v", traceID, err)
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: "Failed to save the category, try again later.",
		}
	}
	return nil
}

func (mySql *MySQLStorage) GetCategoryByID(ctx context.Context, id string) (ledger.Category, error) {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := "SELECT id, name, owner_id, created_at, updated_at FROM category WHERE id = ?;"
	var dbC dbCategory
	err := mySql.db.QueryRowContext(ctx, query, id).Scan(&dbC.ID, &dbC.Name, &dbC.OwnerID, &dbC.CreatedAt, &dbC.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ledger.Category{}, appErrors.ErrorResponse{
				Code:    appErrors.ErrNotFound,
				Message: "Category does not exist.",
			}
		}
		logging.Logger.Errorf("[TraceID=%s] | failed to get category in Storage.GetCategoryByID() | Error: %v", traceID, err)
		return ledger.Category{}, appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: "Failed to load category, try again later.",
		}
	}
	return ledger.Category(dbC), nil
}

func (mySql *MySQLStorage) FindCategoryByNameAndOwner(ctx context.Context, name string, ownerID string, excludeID string) (ledger.Category, bool, error) {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := "SELECT id, name, owner_id, created_at, updated_at FROM category WHERE name = ? AND owner_id = ? AND id != ?;"
	var dbC dbCategory
	err := mySql.db.QueryRowContext(ctx, query, name, ownerID, excludeID).Scan(&dbC.ID, &dbC.Name, &dbC.OwnerID, &dbC.CreatedAt, &dbC.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ledger.Category{}, false, nil
		}
		logging.Logger.Errorf("[TraceID=%s] | failed to find category in Storage.FindCategoryByNameAndOwner() | Error: %v", traceID, err)
		return ledger.Category{}, false, appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: "Failed to check category, try again later.",
		}
	}
	return ledger.Category(dbC), true, nil
}

func (mySql *MySQLStorage) ListCategories(ctx context.Context) ([]ledger.Category, error) {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := "SELECT id, name, owner_id, created_at, updated_at FROM category ORDER BY name;"
	rows, err := mySql.db.QueryContext(ctx, query)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to list categories in Storage.ListCategories() | Error: %v", traceID, err)
		return nil, appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: "Failed to list categories, try again later.",
		}
	}
	defer rows.Close()

	var categories []ledger.Category
	for rows.Next() {
		var dbC dbCategory
		if err := rows.Scan(&dbC.ID, &dbC.Name, &dbC.OwnerID, &dbC.CreatedAt, &dbC.UpdatedAt); err != nil {
			logging.Logger.Errorf("[TraceID=%s] | failed to scan category in Storage.ListCategories() | Error: %v", traceID, err)
			return nil, appErrors.ErrorResponse{
				Code:    appErrors.ErrInternal,
				Message: "Failed to list categories, try again later.",
			}
		}
		categories = append(categories, ledger.Category(dbC))
	}
	if err := rows.Err(); err != nil {
		logging.Logger.Errorf("[TraceID=%s] | row iteration failed in Storage.ListCategories() | Error: %v", traceID, err)
		return nil, appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: "Failed to list categories, try again later.",
		}
	}
	return categories, nil
}

func (mySql *MySQLStorage) UpdateCategory(ctx context.Context, category ledger.Category) error {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := "UPDATE category SET name = ?, owner_id = ?, updated_at = ? WHERE id = ?;"
	_, err := mySql.db.ExecContext(ctx, query, category.Name, category.OwnerID, category.UpdatedAt, category.ID)
	if err != nil {
		if isDuplicateKey(err) {
			return appErrors.ErrorResponse{
				Code:    appErrors.ErrConflict,
				Message: "The category already exists.",
			}
		}
		logging.Logger.Errorf("[TraceID=%s] | failed to update category in Storage.UpdateCategory() | Error: %v", traceID, err)
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: "Failed to update category, try again later.",
		}
	}
	return nil
}

func (mySql *MySQLStorage) DeleteCategory(ctx context.Context, id string) error {
	traceID := contextutil.TraceIDFromContext(ctx)

	res, err := mySql.db.ExecContext(ctx, "DELETE FROM category WHERE id = ?;", id)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to delete category in Storage.DeleteCategory() | Error: %v", traceID, err)
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: "Failed to delete category, try again later.",
		}
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrNotFound,
			Message: "Category does not exist.",
		}
	}
	return nil
}

func (mySql *MySQLStorage) DeleteCategoriesByOwner(ctx context.Context, ownerID string) error {
	traceID := contextutil.TraceIDFromContext(ctx)

	if _, err := mySql.db.ExecContext(ctx, "DELETE FROM category WHERE owner_id = ?;", ownerID); err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to delete owner categories in Storage.DeleteCategoriesByOwner() | Error: %v", traceID, err)
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: "Failed to delete categories, try again later.",
		}
	}
	return nil
}

func (mySql *MySQLStorage) SaveExpense(ctx context.Context, expense ledger.Expense) error {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := "INSERT INTO expense (id, owner_id, category_id, amount, currency, spent_at, note, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?);"
	_, err := mySql.db.ExecContext(ctx, query, expense.ID, expense.OwnerID, expense.CategoryID, expense.Amount, expense.Currency, expense.Date, expense.Note, expense.CreatedAt, expense.UpdatedAt)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to save expense in Storage.SaveExpense() | Error: %v", traceID, err)
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: "Failed to save the expense, try again later.",
		}
	}
	return nil
}

func (mySql *MySQLStorage) GetExpenseByID(ctx context.Context, id string) (ledger.Expense, error) {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := "SELECT id, owner_id, category_id, amount, currency, spent_at, note, created_at, updated_at FROM expense WHERE id = ?;"
	var dbE dbExpense
	err := mySql.db.QueryRowContext(ctx, query, id).Scan(&dbE.ID, &dbE.OwnerID, &dbE.CategoryID, &dbE.Amount, &dbE.Currency, &dbE.Date, &dbE.Note, &dbE.CreatedAt, &dbE.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ledger.Expense{}, appErrors.ErrorResponse{
				Code:    appErrors.ErrNotFound,
				Message: "Expense does not exist.",
			}
		}
		logging.Logger.Errorf("[TraceID=%s] | failed to get expense in Storage.GetExpenseByID() | Error: %v", traceID, err)
		return ledger.Expense{}, appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: "Failed to load expense, try again later.",
		}
	}
	return ledger.Expense(dbE), nil
}

func (mySql *MySQLStorage) ListExpenses(ctx context.Context, filter ledger.ExpenseFilter) ([]ledger.Expense, error) {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := "SELECT id, owner_id, category_id, amount, currency, spent_at, note, created_at, updated_at FROM expense WHERE 1=1"
	var args []any

	if filter.OwnerID != "" {
		query += " AND owner_id = ?"
		args = append(args, filter.OwnerID)
	}
	if filter.CategoryID != "" {
		query += " AND category_id = ?"
		args = append(args, filter.CategoryID)
	}
	if filter.From != nil {
		query += " AND spent_at >= ?"
		args = append(args, *filter.From)
	}
	if filter.To != nil {
		query += " AND spent_at <= ?"
		args = append(args, *filter.To)
	}
	query += " ORDER BY spent_at DESC;"

	rows, err := mySql.db.QueryContext(ctx, query, args...)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to list expenses in Storage.ListExpenses() | Error: %v", traceID, err)
		return nil, appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: "Failed to list expenses, try again later.",
		}
	}
	defer rows.Close()

	var expenses []ledger.Expense
	for rows.Next() {
		var dbE dbExpense
		if err := rows.Scan(&dbE.ID, &dbE.OwnerID, &dbE.CategoryID, &dbE.Amount, &dbE.Currency, &dbE.Date, &dbE.Note, &dbE.CreatedAt, &dbE.UpdatedAt); err != nil {
			logging.Logger.Errorf("[TraceID=%s] | failed to scan expense in Storage.ListExpenses() | Error: %v", traceID, err)
			return nil, appErrors.ErrorResponse{
				Code:    appErrors.ErrInternal,
				Message: "Failed to list expenses, try again later.",
			}
		}
		expenses = append(expenses, ledger.Expense(dbE))
	}
	if err := rows.Err(); err != nil {
		logging.Logger.Errorf("[TraceID=%s] | row iteration failed in Storage.ListExpenses() | Error: %v", traceID, err)
		return nil, appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: "Failed to list expenses, try again later.",
		}
	}
	return expenses, nil
}

func (mySql *MySQLStorage) UpdateExpense(ctx context.Context, expense ledger.Expense) error {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := "UPDATE expense SET owner_id = ?, category_id = ?, amount = ?, currency = ?, spent_at = ?, note = ?, updated_at = ? WHERE id = ?;"
	_, err := mySql.db.ExecContext(ctx, query, expense.OwnerID, expense.CategoryID, expense.Amount, expense.Currency, expense.Date, expense.Note, expense.UpdatedAt, expense.ID)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to update expense in Storage.UpdateExpense() | Error: %v", traceID, err)
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: "Failed to update expense, try again later.",
		}
	}
	return nil
}

func (mySql *MySQLStorage) DeleteExpense(ctx context.Context, id string) error {
	traceID := contextutil.TraceIDFromContext(ctx)

	res, err := mySql.db.ExecContext(ctx, "DELETE FROM expense WHERE id = ?;", id)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to delete expense in Storage.DeleteExpense() | Error: %v", traceID, err)
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: "Failed to delete expense, try again later.",
		}
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrNotFound,
			Message: "Expense does not exist.",
		}
	}
	return nil
}

func (mySql *MySQLStorage) DeleteExpensesByOwner(ctx context.Context, ownerID string) error {
	traceID := contextutil.TraceIDFromContext(ctx)

	if _, err := mySql.db.ExecContext(ctx, "DELETE FROM expense WHERE owner_id = ?;", ownerID); err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to delete owner expenses in Storage.DeleteExpensesByOwner() | Error: %v", traceID, err)
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: "Failed to delete expenses, try again later.",
		}
	}
	return nil
}

func (mySql *MySQLStorage) CountExpensesByCategory(ctx context.Context, categoryID string) (int, error) {
	traceID := contextutil.TraceIDFromContext(ctx)

	var count int
	err := mySql.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM expense WHERE category_id = ?;", categoryID).Scan(&count)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to count expenses in Storage.CountExpensesByCategory() | Error: %v", traceID, err)
		return 0, appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: "Failed to count expenses, try again later.",
		}
	}
	return count, nil
}
