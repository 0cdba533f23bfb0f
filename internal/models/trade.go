package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Side is the direction of an order: "buy" or "sell"
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// Valid reports whether s is a known order side.
func (s Side) Valid() bool {
	return s == SideBuy || s == SideSell
}

// TransactionStatus is the outcome recorded with a transaction.
type TransactionStatus string

const StatusCompleted TransactionStatus = "completed"

// Category groups products in the catalog.
type Category string

const (
	CategoryStocks      Category = "stocks"
	CategoryMutualFunds Category = "mutual_funds"
	CategoryBonds       Category = "bonds"
)

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	switch c {
	case CategoryStocks, CategoryMutualFunds, CategoryBonds:
		return true
	}
	return false
}

// RiskLevel of a product as shown in the catalog.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Wallet holds the cash balance of a user
type Wallet struct {
	Balance decimal.Decimal `json:"balance"`
}

// User owns exactly one wallet and at most one portfolio
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Wallet    Wallet    `json:"wallet"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Product is a catalog entry. PricePerUnit is the live price.
type Product struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Category     Category        `json:"category"`
	Symbol       string          `json:"symbol"`
	PricePerUnit decimal.Decimal `json:"price_per_unit"`
	Description  string          `json:"description,omitempty"`
	RiskLevel    RiskLevel       `json:"risk_level"`
	IsActive     bool            `json:"is_active"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// Summary returns the product fields attached to transactions.
func (p *Product) Summary() *ProductSummary {
	return &ProductSummary{
		ID:       p.ID,
		Symbol:   p.Symbol,
		Name:     p.Name,
		Category: p.Category,
	}
}

// ProductSummary is the product detail carried by transaction history.
type ProductSummary struct {
	ID       string   `json:"id"`
	Symbol   string   `json:"symbol"`
	Name     string   `json:"name"`
	Category Category `json:"category"`
}

// Transaction is an immutable buy or sell fact.
type Transaction struct {
	ID           string            `json:"id"`
	UserID       string            `json:"user_id"`
	ProductID    string            `json:"product_id"`
	Side         Side              `json:"type"`
	Units        decimal.Decimal   `json:"units"`
	PricePerUnit decimal.Decimal   `json:"price_per_unit"`
	TotalAmount  decimal.Decimal   `json:"total_amount"`
	Status       TransactionStatus `json:"status"`
	CreatedAt    time.Time         `json:"created_at"`
	Product      *ProductSummary   `json:"product,omitempty"`
}

// OrderRequest - what client sends to buy or sell a product
type OrderRequest struct {
	UserID    string          `json:"user_id" binding:"required"`
	ProductID string          `json:"product_id" binding:"required"`
	Units     decimal.Decimal `json:"units"`
}
