package models

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ErrInsufficientUnits is returned when a sell exceeds the units held.
var ErrInsufficientUnits = errors.New("insufficient units")

// Holding is a user's position in one product.
// TotalInvested == Units * AvgBuyPrice after every mutation.
type Holding struct {
	ProductID     string          `json:"product_id"`
	Units         decimal.Decimal `json:"units"`
	AvgBuyPrice   decimal.Decimal `json:"avg_buy_price"`
	TotalInvested decimal.Decimal `json:"total_invested"`
}

// Portfolio is owned by one user. Holdings keep insertion order and are
// unique by product id.
type Portfolio struct {
	ID              string          `json:"id"`
	UserID          string          `json:"user_id"`
	Holdings        []Holding       `json:"holdings"`
	TotalInvestment decimal.Decimal `json:"total_investment"`
	// CurrentValue is the valuation cached at the last read. Never authoritative.
	CurrentValue decimal.Decimal `json:"current_value"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// NewPortfolio returns an empty portfolio for userID.
func NewPortfolio(id, userID string, now time.Time) *Portfolio {
	return &Portfolio{
		ID:        id,
		UserID:    userID,
		Holdings:  []Holding{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Holding returns the holding for productID.
func (p *Portfolio) Holding(productID string) (Holding, bool) {
	if i := p.indexOf(productID); i >= 0 {
		return p.Holdings[i], true
	}
	return Holding{}, false
}

func (p *Portfolio) indexOf(productID string) int {
	for i := range p.Holdings {
		if p.Holdings[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// ApplyBuy adds units bought for totalAmount using the weighted average
// cost method, then resums TotalInvestment.
func (p *Portfolio) ApplyBuy(productID string, units, totalAmount decimal.Decimal) {
	if i := p.indexOf(productID); i >= 0 {
		h := &p.Holdings[i]
		h.TotalInvested = h.TotalInvested.Add(totalAmount)
		h.Units = h.Units.Add(units)
		h.AvgBuyPrice = h.TotalInvested.Div(h.Units)
	} else {
		p.Holdings = append(p.Holdings, Holding{
			ProductID:     productID,
			Units:         units,
			AvgBuyPrice:   totalAmount.Div(units),
			TotalInvested: totalAmount,
		})
	}
	p.Recalculate()
}

// ApplySell removes units from the holding at constant average price.
// A holding reaching zero units is dropped.
func (p *Portfolio) ApplySell(productID string, units decimal.Decimal) error {
	i := p.indexOf(productID)
	if i < 0 || p.Holdings[i].Units.LessThan(units) {
		return ErrInsufficientUnits
	}
	h := &p.Holdings[i]
	h.Units = h.Units.Sub(units)
	if h.Units.IsZero() {
		p.Holdings = append(p.Holdings[:i], p.Holdings[i+1:]...)
	} else {
		h.TotalInvested = h.Units.Mul(h.AvgBuyPrice)
	}
	p.Recalculate()
	return nil
}

// Recalculate sets TotalInvestment to the sum of all holdings.
func (p *Portfolio) Recalculate() {
	total := decimal.Zero
	for _, h := range p.Holdings {
		total = total.Add(h.TotalInvested)
	}
	p.TotalInvestment = total
}

// Clone returns a deep copy of the portfolio.
func (p *Portfolio) Clone() *Portfolio {
	c := *p
	c.Holdings = make([]Holding, len(p.Holdings))
	copy(c.Holdings, p.Holdings)
	return &c
}
