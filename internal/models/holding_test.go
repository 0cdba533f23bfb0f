package models

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestApplyBuy_NewHolding(t *testing.T) {
	p := NewPortfolio("p1", "u1", time.Now())

	p.ApplyBuy("reliance", d("10"), d("24505"))

	h, ok := p.Holding("reliance")
	if !ok {
		t.Fatal("Expected holding for reliance")
	}
	if !h.Units.Equal(d("10")) {
		t.Errorf("Expected 10 units, got %s", h.Units)
	}
	if !h.AvgBuyPrice.Equal(d("2450.50")) {
		t.Errorf("Expected avg buy price 2450.50, got %s", h.AvgBuyPrice)
	}
	if !h.TotalInvested.Equal(d("24505")) {
		t.Errorf("Expected total invested 24505, got %s", h.TotalInvested)
	}
	if !p.TotalInvestment.Equal(d("24505")) {
		t.Errorf("Expected portfolio total 24505, got %s", p.TotalInvestment)
	}
}

func TestApplyBuy_WeightedAverage(t *testing.T) {
	p := NewPortfolio("p1", "u1", time.Now())
	p.ApplyBuy("reliance", d("10"), d("24505"))
	p.ApplyBuy("reliance", d("5"), d("12500"))

	h, _ := p.Holding("reliance")
	if !h.Units.Equal(d("15")) {
		t.Errorf("Expected 15 units, got %s", h.Units)
	}
	if !h.TotalInvested.Equal(d("37005")) {
		t.Errorf("Expected total invested 37005, got %s", h.TotalInvested)
	}
	if !h.AvgBuyPrice.Equal(d("2467")) {
		t.Errorf("Expected avg buy price 2467, got %s", h.AvgBuyPrice)
	}
	if len(p.Holdings) != 1 {
		t.Errorf("Expected 1 holding, got %d", len(p.Holdings))
	}
}

func TestApplyBuy_KeepsInsertionOrder(t *testing.T) {
	p := NewPortfolio("p1", "u1", time.Now())
	p.ApplyBuy("b", d("1"), d("10"))
	p.ApplyBuy("a", d("1"), d("20"))
	p.ApplyBuy("b", d("1"), d("30"))

	got := []string{p.Holdings[0].ProductID, p.Holdings[1].ProductID}
	if got[0] != "b" || got[1] != "a" {
		t.Errorf("Expected order [b a], got %v", got)
	}
	if !p.TotalInvestment.Equal(d("60")) {
		t.Errorf("Expected portfolio total 60, got %s", p.TotalInvestment)
	}
}

func TestApplySell_PartialKeepsAverage(t *testing.T) {
	p := NewPortfolio("p1", "u1", time.Now())
	p.ApplyBuy("hdfc", d("3"), d("100"))
	before, _ := p.Holding("hdfc")

	if err := p.ApplySell("hdfc", d("1")); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	h, _ := p.Holding("hdfc")
	if !h.AvgBuyPrice.Equal(before.AvgBuyPrice) {
		t.Errorf("Expected avg buy price unchanged at %s, got %s", before.AvgBuyPrice, h.AvgBuyPrice)
	}
	if !h.Units.Equal(d("2")) {
		t.Errorf("Expected 2 units, got %s", h.Units)
	}
	want := h.Units.Mul(h.AvgBuyPrice)
	if !h.TotalInvested.Equal(want) {
		t.Errorf("Expected total invested %s, got %s", want, h.TotalInvested)
	}
	if !p.TotalInvestment.Equal(h.TotalInvested) {
		t.Errorf("Expected portfolio total %s, got %s", h.TotalInvested, p.TotalInvestment)
	}
}

func TestApplySell_AllUnitsRemovesHolding(t *testing.T) {
	p := NewPortfolio("p1", "u1", time.Now())
	p.ApplyBuy("a", d("15"), d("37005"))
	p.ApplyBuy("b", d("2"), d("200"))

	if err := p.ApplySell("a", d("15")); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if _, ok := p.Holding("a"); ok {
		t.Error("Expected holding to be removed after selling all units")
	}
	if len(p.Holdings) != 1 || p.Holdings[0].ProductID != "b" {
		t.Errorf("Expected only holding b to remain, got %+v", p.Holdings)
	}
	if !p.TotalInvestment.Equal(d("200")) {
		t.Errorf("Expected portfolio total 200, got %s", p.TotalInvestment)
	}
}

func TestApplySell_Insufficient(t *testing.T) {
	tests := []struct {
		name    string
		product string
		units   string
	}{
		{"more than held", "a", "20"},
		{"not held", "missing", "1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPortfolio("p1", "u1", time.Now())
			p.ApplyBuy("a", d("10"), d("100"))

			err := p.ApplySell(tt.product, d(tt.units))
			if !errors.Is(err, ErrInsufficientUnits) {
				t.Fatalf("Expected ErrInsufficientUnits, got %v", err)
			}
			h, _ := p.Holding("a")
			if !h.Units.Equal(d("10")) {
				t.Errorf("Expected holding unchanged at 10 units, got %s", h.Units)
			}
		})
	}
}

func TestClone_IsIndependent(t *testing.T) {
	p := NewPortfolio("p1", "u1", time.Now())
	p.ApplyBuy("a", d("1"), d("10"))

	c := p.Clone()
	c.ApplyBuy("a", d("1"), d("10"))

	h, _ := p.Holding("a")
	if !h.Units.Equal(d("1")) {
		t.Errorf("Expected original to keep 1 unit, got %s", h.Units)
	}
}
