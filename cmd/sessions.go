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

// sessionsCmd holds the flags for the 'sessions' subcommand.
type sessionsCmd struct {
	from string
	to   string
}

func (*sessionsCmd) Name() string     { return "sessions" }
func (*sessionsCmd) Synopsis() string { return "list sessions, or detail one" }
func (*sessionsCmd) Usage() string {
	return `cbk sessions [-from <date>] [-to <date>] [<date>]

  Without argument, lists every session in the period in chronological
  order. Given a date, details the session played that day: seats,
  buy-ins, cash-outs, nets, and whether the books balance.
`
}

func (c *sessionsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.from, "from", "", "First date of the period, inclusive")
	f.StringVar(&c.to, "to", "", "Last date of the period, inclusive")
}

func (c *sessionsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, err := DecodeLedger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ledger: %v\n", err)
		return subcommands.ExitFailure
	}

	if f.NArg() > 0 {
		on, err := chipbook.ParseDate(f.Arg(0))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
			return subcommands.ExitUsageError
		}
		s, ok := sessionOn(ledger, on)
		if !ok {
			fmt.Fprintf(os.Stderr, "no session on %s\n", on)
			return subcommands.ExitFailure
		}
		md, err := renderer.SessionMarkdown(ledger, s.ID())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error rendering session: %v\n", err)
			return subcommands.ExitFailure
		}
		printMarkdown(md)
		return subcommands.ExitSuccess
	}

	period, err := parsePeriod(c.from, c.to)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	var sessions []chipbook.Session
	for s := range ledger.Sessions(chipbook.ByRange(period)) {
		sessions = append(sessions, s)
	}
	printMarkdown(renderer.SessionsMarkdown(ledger, sessions))
	return subcommands.ExitSuccess
}
