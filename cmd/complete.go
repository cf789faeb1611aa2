package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

// completeCmd holds the flags for the 'complete' subcommand.
type completeCmd struct {
	session string
}

func (*completeCmd) Name() string     { return "complete" }
func (*completeCmd) Synopsis() string { return "settle the active session" }
func (*completeCmd) Usage() string {
	return `cbk complete [-s <date>]

  Completes the active session: every seated player must have cashed out
  first. A completed session counts in the statistics and stops taking
  buy-ins; 'cbk resume' reopens it.
`
}

func (c *completeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.session, "s", "", "Session date to complete, the active session by default")
}

func (c *completeCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, err := DecodeLedger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	session, err := resolveSession(ledger, c.session)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	if unsettled := ledger.UnsettledPlayers(session.ID()); len(unsettled) > 0 {
		fmt.Fprintf(os.Stderr, "Error: %d players still on the table in session %s:\n", len(unsettled), session.Label())
		for _, p := range unsettled {
			fmt.Fprintf(os.Stderr, "  cbk cashout %s <amount>\n", p.Name())
		}
		return subcommands.ExitFailure
	}

	if err := ledger.CompleteSession(session.ID()); err != nil {
		fmt.Fprintf(os.Stderr, "Error completing session: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := SaveLedger(ledger); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving ledger: %v\n", err)
		return subcommands.ExitFailure
	}

	check := ledger.ValidateZeroSum(session.ID())
	fmt.Printf("completed session %s: %s\n", session.Label(), check)
	if !check.IsValid {
		fmt.Fprintf(os.Stderr, "Warning: %s, check the counts and fix with 'cbk resume' and 'cbk cashout'\n", check)
	}
	return subcommands.ExitSuccess
}
