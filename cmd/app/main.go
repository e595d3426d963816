package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/chris/bank-ledger/pkg/auth"
	"github.com/chris/bank-ledger/pkg/handlers"
	"github.com/chris/bank-ledger/pkg/ledger"
	"github.com/chris/bank-ledger/pkg/middleware"
	"github.com/chris/bank-ledger/pkg/models"
	"github.com/chris/bank-ledger/pkg/storage"
	ddbstore "github.com/chris/bank-ledger/pkg/storage/dynamodb"
	"github.com/chris/bank-ledger/pkg/storage/memory"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, using environment variables")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	store, err := buildStore(context.Background())
	if err != nil {
		log.Fatalf("Failed to build storage backend: %v", err)
	}

	// The BANK account accumulates all fees and must exist before the first
	// operation. Creation is conditional, so restarts are idempotent.
	if err := provisionBankAccount(context.Background(), store); err != nil {
		log.Fatalf("Failed to provision bank account: %v", err)
	}

	verifier := auth.NewVerifier(store)
	svc := ledger.New(store, verifier, logger)
	handler := handlers.New(svc, store)

	// Create a new Chi router
	router := chi.NewRouter()
	router.Use(chimiddleware.RequestID)
	router.Use(middleware.NewStructuredLogger(logger))
	router.Use(chimiddleware.Recoverer)
	handler.Routes(router)

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080" // Default port if not specified
	}

	log.Printf("Starting server on port %s", port)

	// Start the server
	err = http.ListenAndServe(":"+port, router)
	if err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// buildStore selects the storage backend. DynamoDB is the default; the
// in-memory backend serves local development.
func buildStore(ctx context.Context) (storage.Storage, error) {
	if os.Getenv("STORAGE_BACKEND") == "memory" {
		return memory.New(), nil
	}

	// AWS Session
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}

	accountsTable := os.Getenv("DYNAMODB_ACCOUNTS_TABLE_NAME")
	ledgerTable := os.Getenv("DYNAMODB_LEDGER_TABLE_NAME")
	if accountsTable == "" || ledgerTable == "" {
		return nil, errors.New("one or more DynamoDB table name environment variables are not set")
	}

	return ddbstore.New(dynamodb.NewFromConfig(cfg), accountsTable, ledgerTable), nil
}

// provisionBankAccount creates the fee-accumulating BANK account if it does
// not already exist. It has no password; fees are credited to it without
// credential checks.
func provisionBankAccount(ctx context.Context, store storage.AccountStore) error {
	err := store.CreateAccount(ctx, &models.Account{
		Username:  ledger.BankAccount,
		Version:   1,
		CreatedAt: time.Now(),
	})
	if err != nil && !errors.Is(err, storage.ErrAccountExists) {
		return err
	}
	return nil
}
