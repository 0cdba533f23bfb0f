package db

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/BalramApply/WealthStream/internal/ledger"
	"github.com/BalramApply/WealthStream/internal/models"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

func newPostgresLedger(t *testing.T) (*PostgresStore, *PostgresCatalog, *ledger.Ledger) {
	t.Helper()
	return newPostgresLedgerWithPool(t, 0)
}

// newPostgresLedgerWithPool caps the pool at maxConns when it is positive.
func newPostgresLedgerWithPool(t *testing.T, maxConns int) (*PostgresStore, *PostgresCatalog, *ledger.Ledger) {
	t.Helper()
	database := SetupTestDB(t)
	if maxConns > 0 {
		database.SetMaxOpenConns(maxConns)
	}
	t.Cleanup(func() {
		CleanupTestDB(t, database)
		database.Close()
	})

	log := logrus.New()
	log.SetOutput(io.Discard)

	store := NewPostgresStore(database)
	catalog := NewPostgresCatalog(database)
	return store, catalog, ledger.New(store, catalog, ledger.WithLogger(log))
}

func TestPostgres_BuySellRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, catalog, l := newPostgresLedger(t)

	userID := CreateTestUser(t, store, "testuser", "100000")
	product := CreateTestProduct(t, catalog, "RELIANCE", "2450.50")

	_, err := l.ExecuteOrder(ctx, ledger.Order{
		UserID: userID, ProductID: product.ID, Units: decimal.NewFromInt(10), Side: models.SideBuy,
	})
	if err != nil {
		t.Fatalf("Expected buy to succeed, got error: %v", err)
	}

	res, err := l.ExecuteOrder(ctx, ledger.Order{
		UserID: userID, ProductID: product.ID, Units: decimal.NewFromInt(4), Side: models.SideSell,
	})
	if err != nil {
		t.Fatalf("Expected sell to succeed, got error: %v", err)
	}

	// 100000 - 24505 + 9802
	expectedBalance := decimal.RequireFromString("85297")
	if !res.Balance.Equal(expectedBalance) {
		t.Errorf("Expected balance %s, got %s", expectedBalance, res.Balance)
	}

	view, err := l.GetPortfolio(ctx, userID)
	if err != nil {
		t.Fatalf("Failed to read portfolio: %v", err)
	}
	if len(view.Holdings) != 1 || !view.Holdings[0].Units.Equal(decimal.NewFromInt(6)) {
		t.Errorf("Expected one holding of 6 units, got %+v", view.Holdings)
	}

	txns, err := l.Transactions(ctx, userID)
	if err != nil {
		t.Fatalf("Failed to list transactions: %v", err)
	}
	if len(txns) != 2 || txns[0].Side != models.SideSell {
		t.Fatalf("Expected sell then buy, got %+v", txns)
	}
	if txns[0].Product == nil || txns[0].Product.Symbol != product.Symbol {
		t.Errorf("Expected product details on history, got %+v", txns[0].Product)
	}
}

func TestPostgres_InsufficientBalance(t *testing.T) {
	ctx := context.Background()
	store, catalog, l := newPostgresLedger(t)

	userID := CreateTestUser(t, store, "pooruser", "100")
	product := CreateTestProduct(t, catalog, "HDFCBANK", "1650.75")

	_, err := l.ExecuteOrder(ctx, ledger.Order{
		UserID: userID, ProductID: product.ID, Units: decimal.NewFromInt(1), Side: models.SideBuy,
	})
	if !errors.Is(err, ledger.ErrInsufficientBalance) {
		t.Fatalf("Expected ErrInsufficientBalance, got %v", err)
	}

	user, _ := store.GetUser(ctx, userID)
	if !user.Wallet.Balance.Equal(decimal.NewFromInt(100)) {
		t.Errorf("Expected balance unchanged at 100, got %s", user.Wallet.Balance)
	}
}

func TestPostgres_ConcurrentBuys(t *testing.T) {
	ctx := context.Background()
	store, catalog, l := newPostgresLedger(t)

	userID := CreateTestUser(t, store, "concurrent", "1000")
	product := CreateTestProduct(t, catalog, "GOVBOND", "100")

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := l.ExecuteOrder(ctx, ledger.Order{
				UserID: userID, ProductID: product.ID, Units: decimal.NewFromInt(1), Side: models.SideBuy,
			})
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if succeeded != 10 {
		t.Errorf("Expected 10 successful buys, got %d", succeeded)
	}
	user, _ := store.GetUser(ctx, userID)
	if !user.Wallet.Balance.IsZero() {
		t.Errorf("Expected balance 0, got %s", user.Wallet.Balance)
	}
}

func TestPostgres_TransactionsAppendOnly(t *testing.T) {
	ctx := context.Background()
	store, catalog, l := newPostgresLedger(t)

	userID := CreateTestUser(t, store, "auditor", "1000")
	product := CreateTestProduct(t, catalog, "SBIBLUECHIP", "85.40")
	if _, err := l.ExecuteOrder(ctx, ledger.Order{
		UserID: userID, ProductID: product.ID, Units: decimal.NewFromInt(1), Side: models.SideBuy,
	}); err != nil {
		t.Fatalf("Buy failed: %v", err)
	}

	if _, err := store.db.ExecContext(ctx, "UPDATE transactions SET units = 2 WHERE user_id = $1", userID); err == nil {
		t.Error("Expected update of a transaction to be rejected")
	}
	if _, err := store.db.ExecContext(ctx, "DELETE FROM transactions WHERE user_id = $1", userID); err == nil {
		t.Error("Expected delete of a transaction to be rejected")
	}
}

func TestPostgresCatalog_ListAndUpsert(t *testing.T) {
	ctx := context.Background()
	_, catalog, _ := newPostgresLedger(t)

	for _, p := range ReferenceProducts() {
		p := p
		if err := catalog.UpsertProduct(ctx, &p); err != nil {
			t.Fatalf("Seed failed: %v", err)
		}
	}
	// seeding twice keeps one row per symbol
	for _, p := range ReferenceProducts() {
		p := p
		if err := catalog.UpsertProduct(ctx, &p); err != nil {
			t.Fatalf("Reseed failed: %v", err)
		}
	}

	all, err := catalog.ListProducts(ctx, "")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != len(ReferenceProducts()) {
		t.Errorf("Expected %d products, got %d", len(ReferenceProducts()), len(all))
	}

	funds, _ := catalog.ListProducts(ctx, models.CategoryMutualFunds)
	if len(funds) != 2 {
		t.Errorf("Expected 2 mutual funds, got %d", len(funds))
	}

	if _, err := catalog.GetProduct(ctx, "00000000-0000-0000-0000-000000000000"); !errors.Is(err, ledger.ErrProductNotFound) {
		t.Errorf("Expected ErrProductNotFound, got %v", err)
	}
}

func TestPostgres_ConcurrentPortfolioReadsSmallPool(t *testing.T) {
	ctx := context.Background()
	store, catalog, l := newPostgresLedgerWithPool(t, 2)

	product := CreateTestProduct(t, catalog, "ICICITECH", "142.20")
	const users = 10
	ids := make([]string, users)
	for i := range ids {
		ids[i] = CreateTestUser(t, store, fmt.Sprintf("reader%d", i), "1000")
		if _, err := l.ExecuteOrder(ctx, ledger.Order{
			UserID: ids[i], ProductID: product.ID, Units: decimal.NewFromInt(1), Side: models.SideBuy,
		}); err != nil {
			t.Fatalf("Setup buy failed: %v", err)
		}
	}

	var wg sync.WaitGroup
	errs := make(chan error, users)
	for _, id := range ids {
		wg.Add(1)
		go func() {
			defer wg.Done()
			readCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			if _, err := l.GetPortfolio(readCtx, id); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("Expected portfolio read to succeed, got %v", err)
	}
}
