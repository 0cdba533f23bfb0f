package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/BalramApply/WealthStream/internal/config"
	"github.com/BalramApply/WealthStream/internal/db"
	"github.com/BalramApply/WealthStream/internal/ledger"
	"github.com/sirupsen/logrus"
)

// app is the short lived state shared by one command run.
type app struct {
	cfg     *config.Config
	log     *logrus.Logger
	db      *sql.DB
	store   *db.PostgresStore
	catalog *db.PostgresCatalog
}

// openApp loads the configuration and connects to Postgres. The caller
// must call close.
func openApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log := cfg.NewLogger()
	// command output goes to stdout, keep logs out of it
	log.SetOutput(os.Stderr)
	if cfg.LogLevel == "info" {
		log.SetLevel(logrus.WarnLevel)
	}

	database, err := db.Open(ctx, cfg.Postgres.DSN, log)
	if err != nil {
		return nil, err
	}
	return &app{
		cfg:     cfg,
		log:     log,
		db:      database,
		store:   db.NewPostgresStore(database),
		catalog: db.NewPostgresCatalog(database),
	}, nil
}

func (a *app) close() {
	db.Close(a.db, a.log)
}

func (a *app) ledger() *ledger.Ledger {
	return ledger.New(a.store, a.catalog,
		ledger.WithLogger(a.log),
		ledger.WithCurrency(a.cfg.Ledger.Currency),
	)
}

func failf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
}
