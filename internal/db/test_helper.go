package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/BalramApply/WealthStream/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// UserCreator is implemented by the stores that can open accounts.
type UserCreator interface {
	CreateUser(ctx context.Context, user *models.User) error
}

// SetupTestDB connects to TEST_DATABASE_DSN and migrates it. The test is
// skipped when the variable is unset.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN not set, skipping Postgres test")
	}

	log := logrus.New()
	log.SetOutput(testWriter{t})

	db, err := Open(context.Background(), dsn, log)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if err := Migrate(context.Background(), db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return db
}

// CleanupTestDB cleans up test data
func CleanupTestDB(t *testing.T, db *sql.DB) {
	t.Helper()
	// TRUNCATE bypasses the append-only trigger on transactions.
	_, err := db.Exec("TRUNCATE transactions, holdings, portfolios, users, products CASCADE")
	if err != nil {
		t.Logf("Warning: Failed to cleanup tables: %v", err)
	}
}

// CreateTestUser creates a test user and returns user ID
func CreateTestUser(t testing.TB, store UserCreator, name string, balance string) string {
	t.Helper()

	// Make email unique by adding timestamp
	unique := fmt.Sprintf("%s_%d", name, time.Now().UnixNano())

	user := &models.User{
		ID:     uuid.NewString(),
		Name:   name,
		Email:  unique + "@test.com",
		Wallet: models.Wallet{Balance: decimal.RequireFromString(balance)},
	}
	if err := store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return user.ID
}

// CreateTestProduct adds an active product to a Postgres catalog.
func CreateTestProduct(t testing.TB, catalog *PostgresCatalog, symbol string, price string) models.Product {
	t.Helper()

	p := models.Product{
		Name:         symbol + " Ltd",
		Category:     models.CategoryStocks,
		Symbol:       fmt.Sprintf("%s_%d", symbol, time.Now().UnixNano()),
		PricePerUnit: decimal.RequireFromString(price),
		RiskLevel:    models.RiskMedium,
		IsActive:     true,
	}
	if err := catalog.UpsertProduct(context.Background(), &p); err != nil {
		t.Fatalf("Failed to create test product: %v", err)
	}
	return p
}

// testWriter routes log output to t.Log.
type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(string(p))
	return len(p), nil
}
