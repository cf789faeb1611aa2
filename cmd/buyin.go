package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

// buyinCmd holds the flags for the 'buyin' subcommand.
type buyinCmd struct {
	session string
}

func (*buyinCmd) Name() string     { return "buyin" }
func (*buyinCmd) Synopsis() string { return "record a buy-in" }
func (*buyinCmd) Usage() string {
	return `cbk buyin [-s <date>] <player> <amount>

  Records a buy-in for a player in the active session. The first buy-in
  seats the player; later ones are rebuys. A player who already cashed out
  cannot rebuy, resume their seat with a corrected cash-out instead.
`
}

func (c *buyinCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.session, "s", "", "Session date to record into, the active session by default")
}

func (c *buyinCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "usage: cbk buyin [-s <date>] <player> <amount>")
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

	if ps, seated := seatOf(ledger, session.ID(), player.ID()); seated {
		if _, out := ps.CashOut(); out {
			fmt.Fprintf(os.Stderr, "Error: %s already cashed out of session %s, correct the cash-out instead\n",
				player.Name(), session.Label())
			return subcommands.ExitFailure
		}
		if _, err := ledger.AddBuyIn(ps.ID(), amount); err != nil {
			fmt.Fprintf(os.Stderr, "Error recording rebuy: %v\n", err)
			return subcommands.ExitFailure
		}
	} else {
		if _, err := ledger.AddPlayerToSession(session.ID(), player.ID(), amount); err != nil {
			fmt.Fprintf(os.Stderr, "Error seating player: %v\n", err)
			return subcommands.ExitFailure
		}
	}
	if err := SaveLedger(ledger); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving ledger: %v\n", err)
		return subcommands.ExitFailure
	}

	ps, _ := seatOf(ledger, session.ID(), player.ID())
	fmt.Printf("%s bought in for %s in session %s, total %s\n",
		player.Name(), amount, session.Label(), ps.TotalBuyIns())
	return subcommands.ExitSuccess
}
