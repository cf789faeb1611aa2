package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/chipbook"
	"github.com/google/subcommands"
)

// dropCmd holds the flags for the 'drop' subcommand.
type dropCmd struct {
	session string
}

func (*dropCmd) Name() string     { return "drop" }
func (*dropCmd) Synopsis() string { return "delete a session, or unseat a player" }
func (*dropCmd) Usage() string {
	return `cbk drop session <date>
cbk drop player [-s <date>] <player>

  'drop session' deletes a session and everything recorded in it.
  'drop player' removes a player's seat from the active session, buy-ins
  included, as if they never sat: use it for a seat opened by mistake.
`
}

func (c *dropCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.session, "s", "", "Session date to drop the player from, the active session by default")
}

func (c *dropCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, err := DecodeLedger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ledger: %v\n", err)
		return subcommands.ExitFailure
	}

	switch {
	case f.Arg(0) == "session" && f.NArg() == 2:
		on, err := chipbook.ParseDate(f.Arg(1))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
			return subcommands.ExitUsageError
		}
		session, ok := sessionOn(ledger, on)
		if !ok {
			fmt.Fprintf(os.Stderr, "no session on %s\n", on)
			return subcommands.ExitFailure
		}
		if err := ledger.DeleteSession(session.ID()); err != nil {
			fmt.Fprintf(os.Stderr, "Error deleting session: %v\n", err)
			return subcommands.ExitFailure
		}
		if err := SaveLedger(ledger); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving ledger: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Printf("dropped session %s and everything in it\n", session.Label())
		return subcommands.ExitSuccess

	case f.Arg(0) == "player" && f.NArg() == 2:
		session, err := resolveSession(ledger, c.session)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		player, err := resolvePlayer(ledger, f.Arg(1))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		ps, seated := seatOf(ledger, session.ID(), player.ID())
		if !seated {
			fmt.Fprintf(os.Stderr, "Error: %s is not seated in session %s\n", player.Name(), session.Label())
			return subcommands.ExitFailure
		}
		if err := ledger.RemovePlayerFromSession(ps.ID()); err != nil {
			fmt.Fprintf(os.Stderr, "Error unseating player: %v\n", err)
			return subcommands.ExitFailure
		}
		if err := SaveLedger(ledger); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving ledger: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Printf("dropped %s from session %s\n", player.Name(), session.Label())
		return subcommands.ExitSuccess

	default:
		fmt.Fprintln(os.Stderr, "usage: cbk drop session <date> | cbk drop player [-s <date>] <player>")
		return subcommands.ExitUsageError
	}
}
