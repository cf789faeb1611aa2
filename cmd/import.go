package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/chipbook"
	"github.com/etnz/chipbook/renderer"
	"github.com/google/subcommands"
)

// importCmd holds the flags for the 'import' subcommand.
type importCmd struct {
	sheet     string
	readRange string
	dry       bool
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "import a results grid into the books" }
func (*importCmd) Usage() string {
	return `cbk import [-dry] <file.csv>
cbk import [-dry] -sheet <spreadsheetID> [-range <range>]

  Reads a results grid, a row per player and a column per session, and
  adopts it into the books. Previously imported sessions are replaced
  wholesale; sessions recorded live are never touched. See
  'cbk topic import-format' for the grid layout.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.sheet, "sheet", "", "Spreadsheet ID to fetch the grid from, instead of a CSV file")
	f.StringVar(&c.readRange, "range", "Results", "Range to read from the spreadsheet")
	f.BoolVar(&c.dry, "dry", false, "Report what the grid holds without touching the books")
}

func (c *importCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	grid, status := c.readGrid(f)
	if status != subcommands.ExitSuccess {
		return status
	}

	res := chipbook.ImportGrid(grid, *defaultCurrency)
	if report := renderer.ImportLogText(res); report != "" {
		fmt.Fprint(os.Stderr, report)
	}
	if !res.Success() {
		fmt.Fprintln(os.Stderr, renderer.ImportSummaryText(res))
		return subcommands.ExitFailure
	}
	if c.dry {
		fmt.Printf("%s (dry run, books unchanged)\n", renderer.ImportSummaryText(res))
		return subcommands.ExitSuccess
	}

	ledger, err := DecodeLedger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := ledger.AdoptImport(res); err != nil {
		fmt.Fprintf(os.Stderr, "Error adopting import: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := SaveLedger(ledger); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving ledger: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Println(renderer.ImportSummaryText(res))
	return subcommands.ExitSuccess
}

// readGrid fetches the grid from the spreadsheet API or reads the CSV file
// given as argument.
func (c *importCmd) readGrid(f *flag.FlagSet) ([][]any, subcommands.ExitStatus) {
	if c.sheet != "" {
		grid, err := chipbook.FetchGrid(c.sheet, c.readRange)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error fetching grid: %v\n", err)
			return nil, subcommands.ExitFailure
		}
		return grid, subcommands.ExitSuccess
	}

	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "either a CSV file or -sheet must be provided")
		return nil, subcommands.ExitUsageError
	}
	file, err := os.Open(f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening %q: %v\n", f.Arg(0), err)
		return nil, subcommands.ExitFailure
	}
	defer file.Close()

	grid, err := chipbook.ReadGridCSV(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %q: %v\n", f.Arg(0), err)
		return nil, subcommands.ExitFailure
	}
	return grid, subcommands.ExitSuccess
}
