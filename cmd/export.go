package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/etnz/chipbook"
	"github.com/etnz/chipbook/renderer"
	"github.com/google/subcommands"
)

// exportCmd holds the flags for the 'export' subcommand.
type exportCmd struct {
	from   string
	to     string
	output string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "export player records as CSV" }
func (*exportCmd) Usage() string {
	return `cbk export [-from <date>] [-to <date>] [-o <file|dir>]

  Writes every player's record over the period as CSV, one row per
  player, for a spreadsheet to pick up. When -o names a directory the
  file inside is named after the period, like 2025-01-03_2025-06-20.csv.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.from, "from", "", "First date of the period, inclusive")
	f.StringVar(&c.to, "to", "", "Last date of the period, inclusive")
	f.StringVar(&c.output, "o", "", "File or directory to write to, stdout by default")
}

func (c *exportCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	out, err := renderer.StatisticsCSV(ledger.AllStatistics(period))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error rendering CSV: %v\n", err)
		return subcommands.ExitFailure
	}

	if c.output == "" {
		fmt.Print(out)
		return subcommands.ExitSuccess
	}
	target := c.output
	if info, err := os.Stat(target); err == nil && info.IsDir() {
		target = filepath.Join(target, exportName(ledger, period))
	}
	if err := os.WriteFile(target, []byte(out), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %q: %v\n", target, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("wrote %s\n", target)
	return subcommands.ExitSuccess
}

// exportName names the CSV after the period it covers. An unbounded period
// is clamped to the dates the books actually span.
func exportName(ledger *chipbook.Ledger, period chipbook.Range) string {
	if period.IsZero() {
		period = chipbook.NewRange(ledger.OldestSessionDate(), ledger.NewestSessionDate())
	}
	return period.Identifier() + ".csv"
}
