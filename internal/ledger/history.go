package ledger

import (
	"context"

	"github.com/BalramApply/WealthStream/internal/models"
	"github.com/shopspring/decimal"
)

// Transactions returns the user's transactions, newest first.
func (l *Ledger) Transactions(ctx context.Context, userID string) ([]models.Transaction, error) {
	txns, err := l.store.ListTransactionsByUser(ctx, userID)
	if err != nil {
		return nil, storageFailure("list transactions", err)
	}
	return txns, nil
}

// Balance returns the user's wallet balance.
func (l *Ledger) Balance(ctx context.Context, userID string) (decimal.Decimal, error) {
	user, err := l.store.GetUser(ctx, userID)
	if err != nil {
		return decimal.Zero, storageFailure("get user", err)
	}
	return user.Wallet.Balance, nil
}

// FormatAmount renders amount in the ledger currency.
func (l *Ledger) FormatAmount(amount decimal.Decimal) string {
	return l.money.Format(amount)
}
