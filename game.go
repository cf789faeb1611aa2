package chipbook

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GameType identifies the kind of poker game a session was.
type GameType string

const (
	CashGame       GameType = "cash"
	TournamentGame GameType = "tournament"
)

// ParseGameType parses a string into a GameType.
func ParseGameType(s string) (GameType, error) {
	switch GameType(strings.ToLower(strings.TrimSpace(s))) {
	case CashGame:
		return CashGame, nil
	case TournamentGame:
		return TournamentGame, nil
	default:
		return "", fmt.Errorf("unknown game type: %q", s)
	}
}

// Player is a member of the game roster.
//
// The identity key for matching purposes is the case-insensitive name, not
// the id: two records with the same case-folded name are the same real-world
// player even when they arrived through different import paths with
// different generated ids. The id is assigned once at creation and never
// changes for the record chosen as canonical during reconciliation.
type Player struct {
	id        string
	name      string
	createdAt time.Time
	updatedAt time.Time
}

// NewPlayer creates a new roster entry with a fresh id.
func NewPlayer(name string) Player {
	now := time.Now().UTC()
	return Player{id: uuid.NewString(), name: strings.TrimSpace(name), createdAt: now, updatedAt: now}
}

func (p Player) ID() string           { return p.id }
func (p Player) Name() string         { return p.name }
func (p Player) CreatedAt() time.Time { return p.createdAt }
func (p Player) UpdatedAt() time.Time { return p.updatedAt }

// SameName reports whether the player's name matches under case folding.
func (p Player) SameName(name string) bool {
	return strings.EqualFold(p.name, strings.TrimSpace(name))
}

// Session is one night of play. Games that span midnight belong entirely to
// the date given at creation, there is no splitting.
type Session struct {
	id         string
	name       string
	date       Date
	gameType   GameType
	stakes     string
	location   string
	isComplete bool
	isImported bool
	createdAt  time.Time
	updatedAt  time.Time
}

// NewSession creates a live session: incomplete and open to mutation.
func NewSession(date Date, name string, gameType GameType, stakes, location string) Session {
	if gameType == "" {
		gameType = CashGame
	}
	now := time.Now().UTC()
	return Session{
		id:        uuid.NewString(),
		name:      name,
		date:      date,
		gameType:  gameType,
		stakes:    stakes,
		location:  location,
		createdAt: now,
		updatedAt: now,
	}
}

// newImportedSession creates a settled session as the tabular importer
// reconstructs it: complete, and read-only to interactive mutation.
func newImportedSession(date Date) Session {
	s := NewSession(date, "", CashGame, "", "")
	s.isComplete = true
	s.isImported = true
	return s
}

func (s Session) ID() string           { return s.id }
func (s Session) Name() string         { return s.name }
func (s Session) Date() Date           { return s.date }
func (s Session) GameType() GameType   { return s.gameType }
func (s Session) Stakes() string       { return s.stakes }
func (s Session) Location() string     { return s.location }
func (s Session) IsComplete() bool     { return s.isComplete }
func (s Session) IsImported() bool     { return s.isImported }
func (s Session) CreatedAt() time.Time { return s.createdAt }
func (s Session) UpdatedAt() time.Time { return s.updatedAt }

// Label returns the session's display name, falling back to its date.
func (s Session) Label() string {
	if s.name != "" {
		return s.name
	}
	return s.date.String()
}

// BuyIn is one addition of cash to the table. Immutable once recorded;
// a player session accumulates a sequence of these in chronological order.
type BuyIn struct {
	id     string
	amount Money
	at     time.Time
}

// NewBuyIn records cash added to the table now.
func NewBuyIn(amount Money) BuyIn {
	return BuyIn{id: uuid.NewString(), amount: amount, at: time.Now().UTC()}
}

func (b BuyIn) ID() string    { return b.id }
func (b BuyIn) Amount() Money { return b.amount }
func (b BuyIn) At() time.Time { return b.at }

// PlayerSession joins a player to a session and is the unit of financial
// truth for that player's participation.
//
// Invariant: whenever the cash-out is defined, netResult equals
// cashOut minus the sum of buy-ins; it is recomputed every time either
// changes. Before the cash-out is set, netResult is zero, meaning
// "not yet settled" rather than "broke even".
type PlayerSession struct {
	id        string
	playerID  string
	sessionID string
	buyIns    []BuyIn
	cashOut   Money
	cashedOut bool
	netResult Money
	at        time.Time
}

// NewPlayerSession seats a player at a session with one initial buy-in.
func NewPlayerSession(playerID, sessionID string, initial BuyIn) PlayerSession {
	return PlayerSession{
		id:        uuid.NewString(),
		playerID:  playerID,
		sessionID: sessionID,
		buyIns:    []BuyIn{initial},
		at:        time.Now().UTC(),
	}
}

// newImportedPlayerSession reconstructs a participation from a totals-only
// spreadsheet: the net result is known, the buy-in granularity is not, so a
// single zero-amount placeholder buy-in stands in, and the cash-out stays
// undefined.
func newImportedPlayerSession(playerID, sessionID string, netResult Money) PlayerSession {
	ps := NewPlayerSession(playerID, sessionID, NewBuyIn(M(0, netResult.Currency())))
	ps.netResult = netResult
	return ps
}

func (ps PlayerSession) ID() string        { return ps.id }
func (ps PlayerSession) PlayerID() string  { return ps.playerID }
func (ps PlayerSession) SessionID() string { return ps.sessionID }
func (ps PlayerSession) At() time.Time     { return ps.at }

// BuyIns returns a copy of the buy-in sequence in insertion order.
func (ps PlayerSession) BuyIns() []BuyIn {
	out := make([]BuyIn, len(ps.buyIns))
	copy(out, ps.buyIns)
	return out
}

// TotalBuyIns returns the sum of all recorded buy-in amounts.
func (ps PlayerSession) TotalBuyIns() Money {
	var total Money
	for _, b := range ps.buyIns {
		total = total.Add(b.amount)
	}
	return total
}

// CashOut returns the recorded cash-out. The boolean is false while the
// player is still on the table.
func (ps PlayerSession) CashOut() (Money, bool) { return ps.cashOut, ps.cashedOut }

// NetResult returns cash-out minus total buy-ins once settled, and the
// import-time total for imported records. It is zero before settlement.
func (ps PlayerSession) NetResult() Money { return ps.netResult }

// recompute re-establishes the net result invariant after the cash-out or
// the buy-in set changed. Unsettled participations keep their stored value.
func (ps *PlayerSession) recompute() {
	if ps.cashedOut {
		ps.netResult = ps.cashOut.Sub(ps.TotalBuyIns())
	}
}
