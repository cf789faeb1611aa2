// Package cmd implements the CLI application to keep a poker game's books.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/chipbook"
	"github.com/google/subcommands"
)

// Commands lists every subcommand for the main package to register.
var Commands = []subcommands.Command{
	&importCmd{},
	&statsCmd{},
	&historyCmd{},
	&sessionsCmd{},
	&playersCmd{},
	&startCmd{},
	&buyinCmd{},
	&cashoutCmd{},
	&completeCmd{},
	&resumeCmd{},
	&dropCmd{},
	&exportCmd{},
	&logCmd{},
	&syncCmd{},
	&fmtCmd{},
	&topicCmd{},
	&AssistCmd{},
}

// A CLI application is short lived, globals are fine here.

var ledgerFile = flag.String("ledger-file", envOr(EnvLedgerFile, "chipbook.json"), "Path to the ledger file holding the game's books (JSON)")
var defaultCurrency = flag.String("currency", envOr(EnvDefaultCurrency, "USD"), "Currency for amounts given without one")

// Verbose turns operational logging on. The main package silences the log
// package when it is off.
var Verbose = flag.Bool("v", false, "Enable verbose logging")

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// DecodeLedger loads the game's books from the app ledger file. A missing
// file is an empty ledger.
func DecodeLedger() (*chipbook.Ledger, error) {
	snap, err := chipbook.NewFileStore(*ledgerFile).Load(context.Background())
	if err != nil {
		return nil, err
	}
	return chipbook.RestoreLedger(snap), nil
}

// SaveLedger writes the game's books back to the app ledger file.
func SaveLedger(l *chipbook.Ledger) error {
	return chipbook.NewFileStore(*ledgerFile).Save(context.Background(), l.Snapshot())
}

// openStore picks a snapshot store from its address: an http(s) URL, a
// SQLite database by extension, or a plain file.
func openStore(addr string) (chipbook.Store, error) {
	switch {
	case strings.HasPrefix(addr, "http://"), strings.HasPrefix(addr, "https://"):
		return chipbook.NewHTTPStore(addr), nil
	case strings.HasSuffix(addr, ".db"), strings.HasSuffix(addr, ".sqlite"), strings.HasSuffix(addr, ".sqlite3"):
		return chipbook.NewSQLiteStore(addr)
	default:
		return chipbook.NewFileStore(addr), nil
	}
}

// parseAmount reads a CLI amount in any form the importer accepts and binds
// it to the app currency.
func parseAmount(text string) (chipbook.Money, error) {
	m, ok := chipbook.ParseMoneyCell(text)
	if !ok {
		return chipbook.Money{}, fmt.Errorf("invalid amount %q", text)
	}
	return m.In(*defaultCurrency), nil
}

// sessionOn returns the latest session played on the given date.
func sessionOn(l *chipbook.Ledger, date chipbook.Date) (chipbook.Session, bool) {
	var found chipbook.Session
	ok := false
	for s := range l.Sessions(chipbook.ByRange(chipbook.NewRange(date, date))) {
		found, ok = s, true
	}
	return found, ok
}

// resolveSession returns the session addressed by a -s date flag, or the
// active session when the flag is empty.
func resolveSession(l *chipbook.Ledger, date string) (chipbook.Session, error) {
	if date != "" {
		on, err := chipbook.ParseDate(date)
		if err != nil {
			return chipbook.Session{}, err
		}
		s, ok := sessionOn(l, on)
		if !ok {
			return chipbook.Session{}, fmt.Errorf("no session on %s", on)
		}
		return s, nil
	}
	s, ok := l.ActiveSession()
	if !ok {
		return chipbook.Session{}, errors.New("no active session, start one or give -s")
	}
	return s, nil
}

// seatOf returns the player's seat in a session.
func seatOf(l *chipbook.Ledger, sessionID, playerID string) (chipbook.PlayerSession, bool) {
	for ps := range l.PlayerSessions(chipbook.BySession(sessionID), chipbook.ByPlayer(playerID)) {
		return ps, true
	}
	return chipbook.PlayerSession{}, false
}

// resolvePlayer returns the roster entry for a name given on the command line.
func resolvePlayer(l *chipbook.Ledger, name string) (chipbook.Player, error) {
	p, ok := l.PlayerByName(name)
	if !ok {
		return chipbook.Player{}, fmt.Errorf("unknown player %q, add them with 'cbk players add %s'", name, name)
	}
	return p, nil
}

// parsePeriod reads the -from and -to flags into a range.
func parsePeriod(from, to string) (chipbook.Range, error) {
	var r chipbook.Range
	if from != "" {
		d, err := chipbook.ParseDate(from)
		if err != nil {
			return r, fmt.Errorf("invalid -from: %w", err)
		}
		r.From = d
	}
	if to != "" {
		d, err := chipbook.ParseDate(to)
		if err != nil {
			return r, fmt.Errorf("invalid -to: %w", err)
		}
		r.To = d
	}
	return chipbook.NewRange(r.From, r.To), nil
}
