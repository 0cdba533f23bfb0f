package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/BalramApply/WealthStream/internal/ledger"
	"github.com/google/subcommands"
)

type portfolioCmd struct {
	user string
}

func (*portfolioCmd) Name() string     { return "portfolio" }
func (*portfolioCmd) Synopsis() string { return "value a user's holdings at live prices" }
func (*portfolioCmd) Usage() string {
	return `ledgerctl portfolio -user <id>

  Prints every holding and the portfolio summary.
`
}

func (c *portfolioCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.user, "user", "", "user id")
}

func (c *portfolioCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.user == "" {
		failf("-user is required")
		return subcommands.ExitUsageError
	}

	a, err := openApp(ctx)
	if err != nil {
		failf("Error opening database: %v", err)
		return subcommands.ExitFailure
	}
	defer a.close()

	l := a.ledger()
	view, err := l.GetPortfolio(ctx, c.user)
	if err != nil {
		failf("Error reading portfolio (%s): %v", ledger.Kind(err), err)
		return subcommands.ExitFailure
	}

	fmt.Printf("%-12s %12s %14s %14s %16s %16s\n", "SYMBOL", "UNITS", "AVG PRICE", "PRICE", "VALUE", "RETURNS")
	for _, h := range view.Holdings {
		symbol := h.ProductID
		if h.Product != nil {
			symbol = h.Product.Symbol
		}
		fmt.Printf("%-12s %12s %14s %14s %16s %16s\n", symbol, h.Units,
			h.AvgBuyPrice.StringFixed(2), h.CurrentPrice.StringFixed(2),
			l.FormatAmount(h.CurrentValue), l.FormatAmount(h.Returns))
	}

	s := view.Summary
	fmt.Println()
	fmt.Printf("Invested: %s\n", s.Display.TotalInvested)
	fmt.Printf("Value:    %s\n", s.Display.CurrentValue)
	fmt.Printf("Returns:  %s (%s%%)\n", s.Display.Returns, s.ReturnsPercentage)
	return subcommands.ExitSuccess
}

type historyCmd struct {
	user string
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "list a user's transactions, newest first" }
func (*historyCmd) Usage() string {
	return `ledgerctl history -user <id>
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.user, "user", "", "user id")
}

func (c *historyCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.user == "" {
		failf("-user is required")
		return subcommands.ExitUsageError
	}

	a, err := openApp(ctx)
	if err != nil {
		failf("Error opening database: %v", err)
		return subcommands.ExitFailure
	}
	defer a.close()

	l := a.ledger()
	txns, err := l.Transactions(ctx, c.user)
	if err != nil {
		failf("Error listing transactions (%s): %v", ledger.Kind(err), err)
		return subcommands.ExitFailure
	}

	for _, t := range txns {
		symbol := t.ProductID
		if t.Product != nil {
			symbol = t.Product.Symbol
		}
		fmt.Printf("%s  %-4s %-12s %10s @ %12s  %16s\n", t.CreatedAt.Format("2006-01-02 15:04:05"),
			t.Side, symbol, t.Units, t.PricePerUnit.StringFixed(2), l.FormatAmount(t.TotalAmount))
	}
	fmt.Printf("%d transactions\n", len(txns))
	return subcommands.ExitSuccess
}
