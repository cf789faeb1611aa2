package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/chipbook"
	"github.com/google/subcommands"
)

// resumeCmd holds the flags for the 'resume' subcommand.
type resumeCmd struct{}

func (*resumeCmd) Name() string     { return "resume" }
func (*resumeCmd) Synopsis() string { return "reopen a completed session" }
func (*resumeCmd) Usage() string {
	return `cbk resume <date>

  Reopens the session played on the given date and makes it the active
  one. Every cash-out is cleared, the buy-ins stay: record the corrected
  cash-outs and complete the session again. Imported sessions cannot be
  resumed, re-import the sheet instead.
`
}

func (c *resumeCmd) SetFlags(f *flag.FlagSet) {}

func (c *resumeCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "a session date must be provided")
		return subcommands.ExitUsageError
	}
	on, err := chipbook.ParseDate(f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}

	ledger, err := DecodeLedger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	session, ok := sessionOn(ledger, on)
	if !ok {
		fmt.Fprintf(os.Stderr, "no session on %s\n", on)
		return subcommands.ExitFailure
	}

	if err := ledger.ResumeSession(session.ID()); err != nil {
		fmt.Fprintf(os.Stderr, "Error resuming session: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := SaveLedger(ledger); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving ledger: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("resumed session %s, cash-outs cleared, it is now the active session\n", session.Label())
	return subcommands.ExitSuccess
}
