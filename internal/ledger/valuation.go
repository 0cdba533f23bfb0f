package ledger

import (
	"context"
	"errors"

	"github.com/BalramApply/WealthStream/internal/models"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// HoldingView is a holding priced at the live catalog price.
type HoldingView struct {
	models.Holding
	Product      *models.Product `json:"product,omitempty"`
	CurrentPrice decimal.Decimal `json:"current_price"`
	CurrentValue decimal.Decimal `json:"current_value"`
	Returns      decimal.Decimal `json:"returns"`
}

// Summary is the valuation of a whole portfolio.
type Summary struct {
	TotalInvested     decimal.Decimal `json:"total_invested"`
	CurrentValue      decimal.Decimal `json:"current_value"`
	Returns           decimal.Decimal `json:"returns"`
	ReturnsPercentage string          `json:"returns_percentage"`
	Display           SummaryDisplay  `json:"display"`
}

// SummaryDisplay holds the summary amounts formatted in the ledger currency.
type SummaryDisplay struct {
	TotalInvested string `json:"total_invested"`
	CurrentValue  string `json:"current_value"`
	Returns       string `json:"returns"`
}

// PortfolioView is what GetPortfolio returns.
type PortfolioView struct {
	Portfolio *models.Portfolio `json:"portfolio"`
	Holdings  []HoldingView     `json:"holdings"`
	Summary   Summary           `json:"summary"`
}

// GetPortfolio values the user's portfolio at live catalog prices. A user
// without a portfolio gets an empty one. The computed value is cached on
// the portfolio but never used as the authoritative figure.
// Products are priced with no unit of work open, since the catalog may share
// the store's connection pool.
func (l *Ledger) GetPortfolio(ctx context.Context, userID string) (*PortfolioView, error) {
	unlock := l.locks.Lock(userID)
	defer unlock()

	var portfolio *models.Portfolio
	err := l.store.Atomically(ctx, func(tx Tx) error {
		if _, err := tx.GetUser(ctx, userID); err != nil {
			return storageFailure("get user", err)
		}

		p, err := tx.GetPortfolioByUser(ctx, userID)
		if err != nil {
			return storageFailure("get portfolio", err)
		}
		if p == nil {
			p = models.NewPortfolio(l.newID(), userID, l.now())
			if err := tx.SavePortfolio(ctx, p); err != nil {
				return storageFailure("save portfolio", err)
			}
		}
		portfolio = p
		return nil
	})
	if err != nil {
		return nil, storageFailure("get portfolio", err)
	}

	holdings, currentValue, err := l.priceHoldings(ctx, portfolio.Holdings)
	if err != nil {
		return nil, err
	}
	portfolio.CurrentValue = currentValue
	portfolio.UpdatedAt = l.now()

	// Only the snapshot fields are written; holdings come from a fresh read.
	err = l.store.Atomically(ctx, func(tx Tx) error {
		fresh, err := tx.GetPortfolioByUser(ctx, userID)
		if err != nil {
			return storageFailure("get portfolio", err)
		}
		if fresh == nil {
			return nil
		}
		fresh.CurrentValue = portfolio.CurrentValue
		fresh.UpdatedAt = portfolio.UpdatedAt
		if err := tx.SavePortfolio(ctx, fresh); err != nil {
			return storageFailure("save portfolio", err)
		}
		return nil
	})
	if err != nil {
		return nil, storageFailure("cache portfolio value", err)
	}

	return &PortfolioView{
		Portfolio: portfolio,
		Holdings:  holdings,
		Summary:   l.summarize(portfolio.TotalInvestment, currentValue),
	}, nil
}

// priceHoldings resolves every holding against the catalog. A product that
// disappeared from the catalog is valued at its average buy price.
func (l *Ledger) priceHoldings(ctx context.Context, holdings []models.Holding) ([]HoldingView, decimal.Decimal, error) {
	views := make([]HoldingView, 0, len(holdings))
	total := decimal.Zero
	for _, h := range holdings {
		view := HoldingView{Holding: h, CurrentPrice: h.AvgBuyPrice}
		product, err := l.catalog.GetProduct(ctx, h.ProductID)
		switch {
		case err == nil:
			view.Product = product
			view.CurrentPrice = product.PricePerUnit
		case errors.Is(err, ErrProductNotFound):
			l.log.WithField("product_id", h.ProductID).Warn("Held product missing from catalog, valuing at cost")
		default:
			return nil, decimal.Zero, storageFailure("get product", err)
		}
		view.CurrentValue = h.Units.Mul(view.CurrentPrice)
		view.Returns = view.CurrentValue.Sub(h.TotalInvested)
		total = total.Add(view.CurrentValue)
		views = append(views, view)
	}
	return views, total, nil
}

func (l *Ledger) summarize(totalInvested, currentValue decimal.Decimal) Summary {
	returns := currentValue.Sub(totalInvested)
	pct := decimal.Zero
	if totalInvested.IsPositive() {
		pct = returns.Div(totalInvested).Mul(hundred)
	}
	return Summary{
		TotalInvested:     totalInvested,
		CurrentValue:      currentValue,
		Returns:           returns,
		ReturnsPercentage: pct.StringFixed(2),
		Display: SummaryDisplay{
			TotalInvested: l.money.Format(totalInvested),
			CurrentValue:  l.money.Format(currentValue),
			Returns:       l.money.Format(returns),
		},
	}
}
