package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/BalramApply/WealthStream/internal/ledger"
	"github.com/BalramApply/WealthStream/internal/models"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

// orderCmd serves both the buy and the sell command.
type orderCmd struct {
	side    models.Side
	user    string
	product string
	units   string
}

func (c *orderCmd) Name() string { return string(c.side) }
func (c *orderCmd) Synopsis() string {
	return fmt.Sprintf("%s units of a product at the live price", c.side)
}
func (c *orderCmd) Usage() string {
	return fmt.Sprintf(`ledgerctl %s -user <id> -product <id> -units <n>

  Executes the order against the user's wallet and portfolio.
`, c.side)
}

func (c *orderCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.user, "user", "", "user id")
	f.StringVar(&c.product, "product", "", "product id")
	f.StringVar(&c.units, "units", "", "number of units, fractions allowed")
}

func (c *orderCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.user == "" || c.product == "" {
		failf("-user and -product are required")
		return subcommands.ExitUsageError
	}
	units, err := decimal.NewFromString(c.units)
	if err != nil {
		failf("Invalid units %q", c.units)
		return subcommands.ExitUsageError
	}

	a, err := openApp(ctx)
	if err != nil {
		failf("Error opening database: %v", err)
		return subcommands.ExitFailure
	}
	defer a.close()

	l := a.ledger()
	res, err := l.ExecuteOrder(ctx, ledger.Order{
		UserID:    c.user,
		ProductID: c.product,
		Units:     units,
		Side:      c.side,
	})
	if err != nil {
		failf("Order rejected (%s): %v", ledger.Kind(err), err)
		return subcommands.ExitFailure
	}

	txn := res.Transaction
	fmt.Printf("%s %s x %s @ %s = %s\n", txn.Side, txn.Product.Symbol, txn.Units,
		l.FormatAmount(txn.PricePerUnit), l.FormatAmount(txn.TotalAmount))
	fmt.Printf("transaction %s, wallet balance %s\n", txn.ID, l.FormatAmount(res.Balance))
	return subcommands.ExitSuccess
}
