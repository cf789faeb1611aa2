package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/chipbook"
	"github.com/google/subcommands"
)

// playersCmd holds the flags for the 'players' subcommand.
type playersCmd struct{}

func (*playersCmd) Name() string     { return "players" }
func (*playersCmd) Synopsis() string { return "list, add or rename players" }
func (*playersCmd) Usage() string {
	return `cbk players
cbk players add <name>
cbk players rename <old> <new>

  Lists the roster, adds a player, or renames one. Names are unique under
  case folding: "zach" and "Zach" are the same player.
`
}

func (c *playersCmd) SetFlags(f *flag.FlagSet) {}

func (c *playersCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, err := DecodeLedger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ledger: %v\n", err)
		return subcommands.ExitFailure
	}

	switch {
	case f.NArg() == 0:
		for p := range ledger.Players() {
			sessions := 0
			for range ledger.PlayerSessions(chipbook.ByPlayer(p.ID())) {
				sessions++
			}
			fmt.Printf("%s\t%d sessions\n", p.Name(), sessions)
		}
		return subcommands.ExitSuccess

	case f.Arg(0) == "add" && f.NArg() == 2:
		if _, err := ledger.CreatePlayer(f.Arg(1)); err != nil {
			fmt.Fprintf(os.Stderr, "Error adding player: %v\n", err)
			return subcommands.ExitFailure
		}
		if err := SaveLedger(ledger); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving ledger: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Printf("added %q to the roster\n", f.Arg(1))
		return subcommands.ExitSuccess

	case f.Arg(0) == "rename" && f.NArg() == 3:
		player, err := resolvePlayer(ledger, f.Arg(1))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		if err := ledger.RenamePlayer(player.ID(), f.Arg(2)); err != nil {
			fmt.Fprintf(os.Stderr, "Error renaming player: %v\n", err)
			return subcommands.ExitFailure
		}
		if err := SaveLedger(ledger); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving ledger: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Printf("renamed %q to %q\n", f.Arg(1), f.Arg(2))
		return subcommands.ExitSuccess

	default:
		fmt.Fprintln(os.Stderr, "usage: cbk players [add <name> | rename <old> <new>]")
		return subcommands.ExitUsageError
	}
}
