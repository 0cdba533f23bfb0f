package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/BalramApply/WealthStream/internal/db"
	"github.com/BalramApply/WealthStream/internal/models"
	"github.com/google/subcommands"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type migrateCmd struct{}

func (*migrateCmd) Name() string     { return "migrate" }
func (*migrateCmd) Synopsis() string { return "create or update the database schema" }
func (*migrateCmd) Usage() string {
	return `ledgerctl migrate

  Creates the ledger tables. Safe to run more than once.
`
}
func (*migrateCmd) SetFlags(*flag.FlagSet) {}

func (*migrateCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp(ctx)
	if err != nil {
		failf("Error opening database: %v", err)
		return subcommands.ExitFailure
	}
	defer a.close()

	if err := db.Migrate(ctx, a.db); err != nil {
		failf("Error migrating database: %v", err)
		return subcommands.ExitFailure
	}
	fmt.Println("Schema is up to date")
	return subcommands.ExitSuccess
}

type seedCmd struct{}

func (*seedCmd) Name() string     { return "seed" }
func (*seedCmd) Synopsis() string { return "load the reference product catalog" }
func (*seedCmd) Usage() string {
	return `ledgerctl seed

  Inserts the reference products, or refreshes them by symbol.
`
}
func (*seedCmd) SetFlags(*flag.FlagSet) {}

func (*seedCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp(ctx)
	if err != nil {
		failf("Error opening database: %v", err)
		return subcommands.ExitFailure
	}
	defer a.close()

	for _, p := range db.ReferenceProducts() {
		if err := a.catalog.UpsertProduct(ctx, &p); err != nil {
			failf("Error seeding %s: %v", p.Symbol, err)
			return subcommands.ExitFailure
		}
		fmt.Printf("%-12s %-36s %s\n", p.Symbol, p.ID, p.PricePerUnit.StringFixed(2))
	}
	return subcommands.ExitSuccess
}

type addUserCmd struct {
	name    string
	email   string
	balance string
}

func (*addUserCmd) Name() string     { return "adduser" }
func (*addUserCmd) Synopsis() string { return "open an account with a funded wallet" }
func (*addUserCmd) Usage() string {
	return `ledgerctl adduser -name <name> -email <email> [-balance <amount>]

  Creates a user and prints its id. The wallet starts at DEFAULT_WALLET_BALANCE
  unless -balance is given.
`
}

func (c *addUserCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "display name of the user")
	f.StringVar(&c.email, "email", "", "unique email of the user")
	f.StringVar(&c.balance, "balance", "", "opening wallet balance")
}

func (c *addUserCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.name == "" || c.email == "" {
		failf("-name and -email are required")
		return subcommands.ExitUsageError
	}

	a, err := openApp(ctx)
	if err != nil {
		failf("Error opening database: %v", err)
		return subcommands.ExitFailure
	}
	defer a.close()

	balance := a.cfg.Ledger.DefaultWalletBalance
	if c.balance != "" {
		balance, err = decimal.NewFromString(c.balance)
		if err != nil || balance.IsNegative() {
			failf("Invalid balance %q", c.balance)
			return subcommands.ExitUsageError
		}
	}

	user := &models.User{
		ID:     uuid.NewString(),
		Name:   c.name,
		Email:  c.email,
		Wallet: models.Wallet{Balance: balance},
	}
	if err := a.store.CreateUser(ctx, user); err != nil {
		failf("Error creating user: %v", err)
		return subcommands.ExitFailure
	}
	fmt.Println(user.ID)
	return subcommands.ExitSuccess
}
