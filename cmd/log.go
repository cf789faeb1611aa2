package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/chipbook"
	"github.com/etnz/chipbook/renderer"
	"github.com/google/subcommands"
)

// logCmd holds the flags for the 'log' subcommand.
type logCmd struct {
	from string
	to   string
}

func (*logCmd) Name() string     { return "log" }
func (*logCmd) Synopsis() string { return "review every session of a period in full" }
func (*logCmd) Usage() string {
	return `cbk log [-from <date>] [-to <date>]

  Walks the period session by session: who sat, buy-ins, cash-outs, nets
  and the zero sum check of each. The long form of 'cbk sessions'.
`
}

func (c *logCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.from, "from", "", "First date of the period, inclusive")
	f.StringVar(&c.to, "to", "", "Last date of the period, inclusive")
}

func (c *logCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	var b strings.Builder
	for s := range ledger.Sessions(chipbook.ByRange(period)) {
		md, err := renderer.SessionMarkdown(ledger, s.ID())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error rendering session %s: %v\n", s.Label(), err)
			return subcommands.ExitFailure
		}
		b.WriteString(md)
		b.WriteString("\n")
	}
	if b.Len() == 0 {
		fmt.Println("no session in the period")
		return subcommands.ExitSuccess
	}

	printMarkdown(b.String())
	return subcommands.ExitSuccess
}
