package ledger

import (
	"context"

	"github.com/BalramApply/WealthStream/internal/models"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Order is a request to buy or sell units of a product.
type Order struct {
	UserID    string
	ProductID string
	Units     decimal.Decimal
	Side      models.Side
}

// OrderResult is returned for an executed order.
type OrderResult struct {
	Transaction models.Transaction
	Balance     decimal.Decimal
}

// ExecuteOrder validates the order against the current wallet and
// portfolio, records the transaction and applies it to both. All writes
// commit together. Orders of the same user run one at a time.
func (l *Ledger) ExecuteOrder(ctx context.Context, order Order) (*OrderResult, error) {
	log := l.log.WithFields(logrus.Fields{
		"user_id":    order.UserID,
		"product_id": order.ProductID,
		"side":       order.Side,
		"units":      order.Units.String(),
	})

	if !order.Side.Valid() {
		return nil, ErrInvalidSide
	}
	if !order.Units.IsPositive() {
		return nil, ErrInvalidQuantity
	}

	unlock := l.locks.Lock(order.UserID)
	defer unlock()

	product, err := l.catalog.GetProduct(ctx, order.ProductID)
	if err != nil {
		err = storageFailure("get product", err)
		logRejection(log, err)
		return nil, err
	}
	if !product.IsActive {
		log.Info("Order rejected: product inactive")
		return nil, ErrProductNotFound
	}

	// The price is read once and used for the record, the wallet and the holding.
	price := product.PricePerUnit
	totalAmount := order.Units.Mul(price)

	var result OrderResult
	err = l.store.Atomically(ctx, func(tx Tx) error {
		var err error
		switch order.Side {
		case models.SideBuy:
			result, err = l.buy(ctx, tx, order, price, totalAmount)
		case models.SideSell:
			result, err = l.sell(ctx, tx, order, price, totalAmount)
		}
		return err
	})
	if err != nil {
		err = storageFailure("execute order", err)
		logRejection(log, err)
		return nil, err
	}

	result.Transaction.Product = product.Summary()
	if l.publisher != nil {
		l.publisher.Publish(result.Transaction)
	}

	log.WithFields(logrus.Fields{
		"transaction_id": result.Transaction.ID,
		"total_amount":   totalAmount.String(),
		"balance":        result.Balance.String(),
	}).Info("Order executed")

	return &result, nil
}

// logRejection logs storage failures at Error and business rejections at Info.
func logRejection(log logrus.FieldLogger, err error) {
	if Kind(err) == "StorageFailure" {
		log.WithError(err).Error("Order failed")
		return
	}
	log.WithError(err).Info("Order rejected")
}

func (l *Ledger) buy(ctx context.Context, tx Tx, order Order, price, totalAmount decimal.Decimal) (OrderResult, error) {
	user, err := tx.GetUser(ctx, order.UserID)
	if err != nil {
		return OrderResult{}, storageFailure("get user", err)
	}
	if user.Wallet.Balance.LessThan(totalAmount) {
		return OrderResult{}, ErrInsufficientBalance
	}

	portfolio, err := tx.GetPortfolioByUser(ctx, order.UserID)
	if err != nil {
		return OrderResult{}, storageFailure("get portfolio", err)
	}
	if portfolio == nil {
		portfolio = models.NewPortfolio(l.newID(), order.UserID, l.now())
	}

	txn := l.newTransaction(order, price, totalAmount)
	if err := tx.AppendTransaction(ctx, &txn); err != nil {
		return OrderResult{}, storageFailure("append transaction", err)
	}

	user.Wallet.Balance = user.Wallet.Balance.Sub(totalAmount)
	user.UpdatedAt = txn.CreatedAt
	if err := tx.SaveUser(ctx, user); err != nil {
		return OrderResult{}, storageFailure("save user", err)
	}

	portfolio.ApplyBuy(order.ProductID, order.Units, totalAmount)
	portfolio.UpdatedAt = txn.CreatedAt
	if err := tx.SavePortfolio(ctx, portfolio); err != nil {
		return OrderResult{}, storageFailure("save portfolio", err)
	}

	return OrderResult{Transaction: txn, Balance: user.Wallet.Balance}, nil
}

func (l *Ledger) sell(ctx context.Context, tx Tx, order Order, price, totalAmount decimal.Decimal) (OrderResult, error) {
	user, err := tx.GetUser(ctx, order.UserID)
	if err != nil {
		return OrderResult{}, storageFailure("get user", err)
	}

	portfolio, err := tx.GetPortfolioByUser(ctx, order.UserID)
	if err != nil {
		return OrderResult{}, storageFailure("get portfolio", err)
	}
	if portfolio == nil {
		return OrderResult{}, ErrNoPortfolio
	}
	holding, ok := portfolio.Holding(order.ProductID)
	if !ok || holding.Units.LessThan(order.Units) {
		return OrderResult{}, ErrInsufficientUnits
	}

	txn := l.newTransaction(order, price, totalAmount)
	if err := tx.AppendTransaction(ctx, &txn); err != nil {
		return OrderResult{}, storageFailure("append transaction", err)
	}

	if err := portfolio.ApplySell(order.ProductID, order.Units); err != nil {
		return OrderResult{}, err
	}
	portfolio.UpdatedAt = txn.CreatedAt
	if err := tx.SavePortfolio(ctx, portfolio); err != nil {
		return OrderResult{}, storageFailure("save portfolio", err)
	}

	user.Wallet.Balance = user.Wallet.Balance.Add(totalAmount)
	user.UpdatedAt = txn.CreatedAt
	if err := tx.SaveUser(ctx, user); err != nil {
		return OrderResult{}, storageFailure("save user", err)
	}

	return OrderResult{Transaction: txn, Balance: user.Wallet.Balance}, nil
}

func (l *Ledger) newTransaction(order Order, price, totalAmount decimal.Decimal) models.Transaction {
	return models.Transaction{
		ID:           l.newID(),
		UserID:       order.UserID,
		ProductID:    order.ProductID,
		Side:         order.Side,
		Units:        order.Units,
		PricePerUnit: price,
		TotalAmount:  totalAmount,
		Status:       models.StatusCompleted,
		CreatedAt:    l.now(),
	}
}
