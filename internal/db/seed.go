package db

import (
	"github.com/BalramApply/WealthStream/internal/models"
	"github.com/shopspring/decimal"
)

// ReferenceProducts is the starter catalog loaded by `ledgerctl seed` and
// by the in-memory server.
func ReferenceProducts() []models.Product {
	return []models.Product{
		{
			Name:         "Reliance Industries Ltd",
			Category:     models.CategoryStocks,
			Symbol:       "RELIANCE",
			PricePerUnit: decimal.RequireFromString("2450.50"),
			Description:  "India's largest private sector company",
			RiskLevel:    models.RiskMedium,
			IsActive:     true,
		},
		{
			Name:         "HDFC Bank Ltd",
			Category:     models.CategoryStocks,
			Symbol:       "HDFCBANK",
			PricePerUnit: decimal.RequireFromString("1650.75"),
			Description:  "Leading private sector bank",
			RiskLevel:    models.RiskLow,
			IsActive:     true,
		},
		{
			Name:         "SBI Bluechip Fund",
			Category:     models.CategoryMutualFunds,
			Symbol:       "SBIBLUECHIP",
			PricePerUnit: decimal.RequireFromString("85.40"),
			Description:  "Large cap equity mutual fund",
			RiskLevel:    models.RiskMedium,
			IsActive:     true,
		},
		{
			Name:         "ICICI Prudential Technology Fund",
			Category:     models.CategoryMutualFunds,
			Symbol:       "ICICITECH",
			PricePerUnit: decimal.RequireFromString("142.20"),
			Description:  "Technology sector focused fund",
			RiskLevel:    models.RiskHigh,
			IsActive:     true,
		},
		{
			Name:         "Government Bond 2025",
			Category:     models.CategoryBonds,
			Symbol:       "GOVBOND2025",
			PricePerUnit: decimal.RequireFromString("1000.00"),
			Description:  "Government of India Bond",
			RiskLevel:    models.RiskLow,
			IsActive:     true,
		},
	}
}
