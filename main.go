package main

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/0xcafe-io/iz"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"

	"github.com/samir-akhundov/expense-tracker/api"
	"github.com/samir-akhundov/expense-tracker/internal/auth"
	"github.com/samir-akhundov/expense-tracker/internal/ledger"
	"github.com/samir-akhundov/expense-tracker/internal/session"
	"github.com/samir-akhundov/expense-tracker/internal/storage"
	"github.com/samir-akhundov/expense-tracker/logging"
)

// sessions outlive server restarts; Redis expires them on its own
const sessionTTL = 90 * 24 * time.Hour

var corsConf = cors.New(cors.Options{
	AllowedOrigins:   []string{"*"},
	AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
	AllowedHeaders:   []string{"Authorization", "Content-Type"},
	AllowCredentials: true,
})

func main() {
	if err := logging.Init("debug"); err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		return
	}

	logging.Logger.Info("application starting...")

	db, err := storage.Init()
	if err != nil {
		logging.Logger.Errorf("failed to initialize database: %v", err)
		return
	}

	store := storage.NewMySQLStorage(db)

	redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: os.Getenv("REDIS_PASS"),
		DB:       redisDB,
	})
	sessions := session.NewRedisStore(rdb, sessionTTL)

	gate := auth.NewGate(sessions, store)
	service := ledger.NewLedger(store, sessions)

	server := http.NewServeMux()
	handlers := api.NewApi(&service, gate)

	// ACCOUNT ENDPOINTS.
	server.HandleFunc("POST /api/register", iz.Bind(handlers.RegisterHandler))            // Create Account
	server.HandleFunc("POST /api/login", iz.Bind(handlers.LoginHandler))                  // Login
	server.HandleFunc("GET /api/logout", iz.Bind(handlers.LogoutHandler))                 // Logout
	server.HandleFunc("GET /api/account", iz.Bind(handlers.GetAccountHandler))            // Account Info
	server.HandleFunc("PUT /api/account", iz.Bind(handlers.UpdateProfileHandler))         // Update Profile
	server.HandleFunc("POST /api/remove-account", iz.Bind(handlers.DeleteAccountHandler)) // Remove Account and everything it owns

	// ADMIN ENDPOINTS.
	server.HandleFunc("PUT /api/admin/account/{id}/role", iz.Bind(handlers.SetAccountRoleHandler)) // Change Account Role

	// CATEGORY ENDPOINTS.
	server.HandleFunc("POST /api/category", iz.Bind(handlers.CreateCategoryHandler))        // Create Category (admin)
	server.HandleFunc("GET /api/category", iz.Bind(handlers.ListCategoriesHandler))         // List Categories (public)
	server.HandleFunc("GET /api/category/{id}", iz.Bind(handlers.GetCategoryHandler))       // Get Category by ID
	server.HandleFunc("PUT /api/category/{id}", iz.Bind(handlers.UpdateCategoryHandler))    // Update Category
	server.HandleFunc("DELETE /api/category/{id}", iz.Bind(handlers.DeleteCategoryHandler)) // Delete Category (blocked while referenced)

	// EXPENSE ENDPOINTS.
	server.HandleFunc("POST /api/expense", iz.Bind(handlers.CreateExpenseHandler))        // Create Expense
	server.HandleFunc("GET /api/expense", iz.Bind(handlers.ListExpensesHandler))          // List Expenses with filters
	server.HandleFunc("GET /api/expense/{id}", iz.Bind(handlers.GetExpenseHandler))       // Get Expense by ID
	server.HandleFunc("PUT /api/expense/{id}", iz.Bind(handlers.UpdateExpenseHandler))    // Update Expense
	server.HandleFunc("DELETE /api/expense/{id}", iz.Bind(handlers.DeleteExpenseHandler)) // Delete Expense

	port := os.Getenv("APP_PORT")
	if port == "" {
		logging.Logger.Info("APP_PORT environment variable not set, using default port 8080")
		port = "8080"
	}
	fmt.Println("Starting server on port: ", port)
	handlerWithCors := corsConf.Handler(server)
	if err := http.ListenAndServe(":"+port, handlerWithCors); err != nil {
		logging.Logger.Errorf("failed to start server: %v", err)
		return
	}
}
