package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/chipbook/renderer"
	"github.com/google/subcommands"
)

// historyCmd holds the flags for the 'history' subcommand.
type historyCmd struct {
	from string
	to   string
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "display a player's balance history" }
func (*historyCmd) Usage() string {
	return `cbk history [-from <date>] [-to <date>] <player>

  Displays a player's completed sessions and running balance, oldest first.
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.from, "from", "", "First date of the period, inclusive")
	f.StringVar(&c.to, "to", "", "Last date of the period, inclusive")
}

func (c *historyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "a player name must be provided")
		return subcommands.ExitUsageError
	}
	period, err := parsePeriod(c.from, c.to)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	ledger, err := DecodeLedger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	player, err := resolvePlayer(ledger, f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	stats := ledger.PlayerStatistics(player.ID(), period)
	printMarkdown(renderer.HistoryMarkdown(stats))
	return subcommands.ExitSuccess
}
