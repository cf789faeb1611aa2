package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/chipbook/renderer"
	"github.com/google/subcommands"
)

// statsCmd holds the flags for the 'stats' subcommand.
type statsCmd struct {
	from string
	to   string
	csv  bool
}

func (*statsCmd) Name() string     { return "stats" }
func (*statsCmd) Synopsis() string { return "display the standings" }
func (*statsCmd) Usage() string {
	return `cbk stats [-from <date>] [-to <date>] [-csv]

  Displays every player's record over the period, ordered by total profit.
  Only completed sessions count. See 'cbk topic statistics' for how each
  figure is computed.
`
}

func (c *statsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.from, "from", "", "First date of the period, inclusive")
	f.StringVar(&c.to, "to", "", "Last date of the period, inclusive")
	f.BoolVar(&c.csv, "csv", false, "Write CSV instead of the leaderboard table")
}

func (c *statsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	stats := ledger.AllStatistics(period)
	if c.csv {
		out, err := renderer.StatisticsCSV(stats)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error rendering CSV: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Print(out)
		return subcommands.ExitSuccess
	}

	printMarkdown(renderer.StatisticsMarkdown(period, stats))
	return subcommands.ExitSuccess
}
