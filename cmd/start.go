package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/chipbook"
	"github.com/google/subcommands"
)

// startCmd holds the flags for the 'start' subcommand.
type startCmd struct {
	date     string
	name     string
	game     string
	stakes   string
	location string
}

func (*startCmd) Name() string     { return "start" }
func (*startCmd) Synopsis() string { return "start a live session" }
func (*startCmd) Usage() string {
	return `cbk start [-d <date>] [-n <name>] [-g cash|tournament] [-stakes <stakes>] [-loc <location>]

  Starts a live session and makes it the active one: buyin, cashout and
  complete apply to it by default.
`
}

func (c *startCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Date of the session, today by default. See 'cbk topic dates' for formats")
	f.StringVar(&c.name, "n", "", "Name of the session, its date by default")
	f.StringVar(&c.game, "g", "cash", "Game type: cash or tournament")
	f.StringVar(&c.stakes, "stakes", "", "Stakes played, e.g. 1/2")
	f.StringVar(&c.location, "loc", "", "Where the game is played")
}

func (c *startCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	date := chipbook.Today()
	if c.date != "" {
		var err error
		if date, err = chipbook.ParseDate(c.date); err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
			return subcommands.ExitUsageError
		}
	}
	game, err := chipbook.ParseGameType(c.game)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	ledger, err := DecodeLedger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	id, err := ledger.CreateSession(date, c.name, game, c.stakes, c.location)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error starting session: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := SaveLedger(ledger); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving ledger: %v\n", err)
		return subcommands.ExitFailure
	}

	s, _ := ledger.Session(id)
	fmt.Printf("started session %s, it is now the active session\n", s.Label())
	return subcommands.ExitSuccess
}
