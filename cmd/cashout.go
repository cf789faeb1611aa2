package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

// cashoutCmd holds the flags for the 'cashout' subcommand.
type cashoutCmd struct {
	session string
}

func (*cashoutCmd) Name() string     { return "cashout" }
func (*cashoutCmd) Synopsis() string { return "record a player's cash-out" }
func (*cashoutCmd) Usage() string {
	return `cbk cashout [-s <date>] <player> <amount>

  Records what a player left the table with, in the active session.
  Busting is 'cbk cashout <player> 0'. Recording a cash-out again
  replaces the previous value, so a miscount is fixed by running it again.
`
}

func (c *cashoutCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.session, "s", "", "Session date to record into, the active session by default")
}

func (c *cashoutCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "usage: cbk cashout [-s <date>] <player> <amount>")
		return subcommands.ExitUsageError
	}
	amount, err := parseAmount(f.Arg(1))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

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
	player, err := resolvePlayer(ledger, f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	ps, seated := seatOf(ledger, session.ID(), player.ID())
	if !seated {
		fmt.Fprintf(os.Stderr, "Error: %s is not seated in session %s\n", player.Name(), session.Label())
		return subcommands.ExitFailure
	}

	if err := ledger.SetCashOut(ps.ID(), amount); err != nil {
		fmt.Fprintf(os.Stderr, "Error recording cash-out: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := SaveLedger(ledger); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving ledger: %v\n", err)
		return subcommands.ExitFailure
	}

	ps, _ = seatOf(ledger, session.ID(), player.ID())
	fmt.Printf("%s cashed out %s from session %s, net %s\n",
		player.Name(), amount, session.Label(), ps.NetResult().SignedString())
	return subcommands.ExitSuccess
}
