package ledger_test

import (
	"context"
	"errors"
	"testing"

	"github.com/BalramApply/WealthStream/internal/ledger"
	"github.com/BalramApply/WealthStream/internal/models"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
)

type brokenCatalog struct{ err error }

func (c brokenCatalog) GetProduct(context.Context, string) (*models.Product, error) {
	return nil, c.err
}

func TestExecuteOrder_LogLevels(t *testing.T) {
	f := newFixture(t, "100000")
	logger, hook := logtest.NewNullLogger()

	tests := []struct {
		name      string
		catalog   ledger.Catalog
		order     ledger.Order
		wantKind  string
		wantLevel logrus.Level
	}{
		{
			name:      "catalog unavailable",
			catalog:   brokenCatalog{err: errors.New("dial tcp: connection refused")},
			order:     f.order(models.SideBuy, "1"),
			wantKind:  "StorageFailure",
			wantLevel: logrus.ErrorLevel,
		},
		{
			name:      "unknown product",
			catalog:   emptyCatalog{},
			order:     f.order(models.SideBuy, "1"),
			wantKind:  "ProductNotFound",
			wantLevel: logrus.InfoLevel,
		},
		{
			name:      "insufficient balance",
			catalog:   f.catalog,
			order:     f.order(models.SideBuy, "1000"),
			wantKind:  "InsufficientBalance",
			wantLevel: logrus.InfoLevel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hook.Reset()
			l := ledger.New(f.store, tt.catalog, ledger.WithLogger(logger))

			_, err := l.ExecuteOrder(context.Background(), tt.order)
			if got := ledger.Kind(err); got != tt.wantKind {
				t.Fatalf("Expected kind %s, got %s (%v)", tt.wantKind, got, err)
			}
			entry := hook.LastEntry()
			if entry == nil {
				t.Fatal("Expected a log entry")
			}
			if entry.Level != tt.wantLevel {
				t.Errorf("Expected level %s, got %s", tt.wantLevel, entry.Level)
			}
		})
	}
}
