package ledger_test

import (
	"io"
	"testing"

	"github.com/BalramApply/WealthStream/internal/db"
	"github.com/BalramApply/WealthStream/internal/ledger"
	"github.com/BalramApply/WealthStream/internal/models"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

type fixture struct {
	store   *db.MemoryStore
	catalog *db.MemoryCatalog
	ledger  *ledger.Ledger
	userID  string
	product models.Product
}

// newFixture returns a ledger with one user holding balance and one active
// product priced at 2450.50.
func newFixture(t testing.TB, balance string, opts ...ledger.Option) *fixture {
	t.Helper()

	store := db.NewMemoryStore()
	catalog := db.NewMemoryCatalog()
	product := catalog.Put(models.Product{
		Name:         "Reliance Industries Ltd",
		Category:     models.CategoryStocks,
		Symbol:       "RELIANCE",
		PricePerUnit: d("2450.50"),
		RiskLevel:    models.RiskMedium,
		IsActive:     true,
	})

	opts = append([]ledger.Option{ledger.WithLogger(quietLogger())}, opts...)
	return &fixture{
		store:   store,
		catalog: catalog,
		ledger:  ledger.New(store, catalog, opts...),
		userID:  db.CreateTestUser(t, store, "investor", balance),
		product: product,
	}
}

func (f *fixture) order(side models.Side, units string) ledger.Order {
	return ledger.Order{
		UserID:    f.userID,
		ProductID: f.product.ID,
		Units:     d(units),
		Side:      side,
	}
}

func (f *fixture) balance(t *testing.T) decimal.Decimal {
	t.Helper()
	u, err := f.store.GetUser(t.Context(), f.userID)
	if err != nil {
		t.Fatalf("Failed to read user: %v", err)
	}
	return u.Wallet.Balance
}

func (f *fixture) totalInvestment() decimal.Decimal {
	p := f.store.Portfolio(f.userID)
	if p == nil {
		return decimal.Zero
	}
	return p.TotalInvestment
}

func (f *fixture) transactionCount(t *testing.T) int {
	t.Helper()
	txns, err := f.store.ListTransactionsByUser(t.Context(), f.userID)
	if err != nil {
		t.Fatalf("Failed to list transactions: %v", err)
	}
	return len(txns)
}
