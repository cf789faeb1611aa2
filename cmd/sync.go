package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/etnz/chipbook"
	"github.com/google/subcommands"
)

// syncCmd holds the flags for the 'sync' subcommand.
type syncCmd struct {
	store    string
	once     bool
	poll     time.Duration
	cooldown time.Duration
	debounce time.Duration
}

func (*syncCmd) Name() string     { return "sync" }
func (*syncCmd) Synopsis() string { return "keep the books converging with a shared store" }
func (*syncCmd) Usage() string {
	return `cbk sync -store <address> [-once] [-poll <d>] [-cooldown <d>] [-debounce <d>]

  Polls the store, merges what is new into the local books and pushes local
  changes back. The address picks the store kind: an http(s) URL, a SQLite
  file by .db/.sqlite extension, or a plain JSON file. Runs until interrupted
  unless -once.
`
}

func (c *syncCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.store, "store", "", "Address of the shared store")
	f.BoolVar(&c.once, "once", false, "Run a single pull-merge-push round trip and exit")
	f.DurationVar(&c.poll, "poll", 0, "Poll interval (default 30s)")
	f.DurationVar(&c.cooldown, "cooldown", 0, "Pull suspension after a local change (default 10s)")
	f.DurationVar(&c.debounce, "debounce", 0, "Quiet time before pushing local changes (default 2s)")
}

func (c *syncCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.store == "" {
		fmt.Fprintln(os.Stderr, "Error: -store is required")
		return subcommands.ExitUsageError
	}
	store, err := openStore(c.store)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening store %q: %v\n", c.store, err)
		return subcommands.ExitFailure
	}
	ledger, err := DecodeLedger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ledger: %v\n", err)
		return subcommands.ExitFailure
	}

	if c.once {
		if err := syncOnce(ctx, store, ledger); err != nil {
			fmt.Fprintf(os.Stderr, "Error syncing: %v\n", err)
			return subcommands.ExitFailure
		}
	} else {
		ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
		defer stop()

		syncer := chipbook.NewSyncer(store, ledger, chipbook.Options{
			PollInterval:   c.poll,
			PushCooldown:   c.cooldown,
			DebounceWindow: c.debounce,
		})
		fmt.Printf("syncing %s with %s, interrupt to stop\n", *ledgerFile, c.store)
		if err := syncer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			fmt.Fprintf(os.Stderr, "Error syncing: %v\n", err)
			return subcommands.ExitFailure
		}
		// Other invocations may have written the ledger file while the loop
		// ran. Fold the file back in so saving does not clobber their edits.
		if current, err := DecodeLedger(); err == nil {
			chipbook.MergeSnapshot(ledger, current.Snapshot())
		}
	}

	if err := SaveLedger(ledger); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// syncOnce is one round trip: pull, merge, push only if the books are richer.
func syncOnce(ctx context.Context, store chipbook.Store, ledger *chipbook.Ledger) error {
	remote, err := store.Load(ctx)
	if err != nil {
		return err
	}
	if chipbook.MergeSnapshot(ledger, remote) {
		fmt.Println("merged remote changes")
	}
	snap := ledger.Snapshot()
	if snap.ContentHash() == remote.ContentHash() {
		fmt.Println("already in sync")
		return nil
	}
	if err := store.Save(ctx, snap); err != nil {
		return err
	}
	fmt.Println("pushed local changes")
	return nil
}
