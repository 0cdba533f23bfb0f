// Command ledgerctl administers the ledger database and places orders from
// the command line.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/BalramApply/WealthStream/internal/models"
	"github.com/google/subcommands"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")

	commander.Register(&migrateCmd{}, "database")
	commander.Register(&seedCmd{}, "database")
	commander.Register(&addUserCmd{}, "database")

	commander.Register(&orderCmd{side: models.SideBuy}, "orders")
	commander.Register(&orderCmd{side: models.SideSell}, "orders")

	commander.Register(&portfolioCmd{}, "reports")
	commander.Register(&historyCmd{}, "reports")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
