package chipbook

import (
	"fmt"
	"iter"
	"log"
	"sort"
	"strings"
	"time"
)

// Ledger is the store of record for the game's books. It exclusively owns
// the roster of players, the sessions, and the player sessions joining them;
// callers mutate the books only through its methods, never by reaching into
// the collections.
//
// In a Ledger sessions are always in chronological order.
type Ledger struct {
	players        []Player
	sessions       []Session
	playerSessions []PlayerSession

	playerIdx  map[string]int // index players by id
	sessionIdx map[string]int // index sessions by id
	psIdx      map[string]int // index player sessions by id

	// activeSessionID points at the single live game, "" when none.
	activeSessionID string
	lastModified    time.Time
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{
		playerIdx:  make(map[string]int),
		sessionIdx: make(map[string]int),
		psIdx:      make(map[string]int),
	}
}

// touch records that the books changed.
func (l *Ledger) touch() { l.lastModified = time.Now().UTC() }

// LastModified returns the time of the last mutation.
func (l *Ledger) LastModified() time.Time { return l.lastModified }

// reindex rebuilds the id indices. Must be called after any operation that
// reorders or removes elements from the backing slices.
func (l *Ledger) reindex() {
	l.playerIdx = make(map[string]int, len(l.players))
	for i, p := range l.players {
		l.playerIdx[p.id] = i
	}
	l.sessionIdx = make(map[string]int, len(l.sessions))
	for i, s := range l.sessions {
		l.sessionIdx[s.id] = i
	}
	l.psIdx = make(map[string]int, len(l.playerSessions))
	for i, ps := range l.playerSessions {
		l.psIdx[ps.id] = i
	}
}

// stableSort sorts the ledger by session date and groups the player sessions
// under their session in that order. The sort is stable, meaning sessions on
// the same day and seats within a session maintain their original relative
// order. Replicas holding the same records end up with the same slice order,
// so their canonical encodings match byte for byte.
func (l *Ledger) stableSort() {
	sort.SliceStable(l.sessions, func(i, j int) bool {
		return l.sessions[i].date.Before(l.sessions[j].date)
	})
	order := make(map[string]int, len(l.sessions))
	for i, s := range l.sessions {
		order[s.id] = i
	}
	sort.SliceStable(l.playerSessions, func(i, j int) bool {
		return order[l.playerSessions[i].sessionID] < order[l.playerSessions[j].sessionID]
	})
	l.reindex()
}

// Player returns the roster entry with this id.
func (l *Ledger) Player(id string) (Player, bool) {
	i, ok := l.playerIdx[id]
	if !ok {
		return Player{}, false
	}
	return l.players[i], true
}

// PlayerByName returns the roster entry matching the name under case
// folding. Names, not ids, are the identity key for matching.
func (l *Ledger) PlayerByName(name string) (Player, bool) {
	for _, p := range l.players {
		if p.SameName(name) {
			return p, true
		}
	}
	return Player{}, false
}

// Session returns the session with this id.
func (l *Ledger) Session(id string) (Session, bool) {
	i, ok := l.sessionIdx[id]
	if !ok {
		return Session{}, false
	}
	return l.sessions[i], true
}

// PlayerSession returns the player session with this id.
func (l *Ledger) PlayerSession(id string) (PlayerSession, bool) {
	i, ok := l.psIdx[id]
	if !ok {
		return PlayerSession{}, false
	}
	return l.playerSessions[i], true
}

// ActiveSession returns the live session, if any.
func (l *Ledger) ActiveSession() (Session, bool) {
	if l.activeSessionID == "" {
		return Session{}, false
	}
	return l.Session(l.activeSessionID)
}

// Players returns an iterator over the roster in insertion order.
func (l *Ledger) Players() iter.Seq[Player] {
	return func(yield func(Player) bool) {
		for _, p := range l.players {
			if !yield(p) {
				return
			}
		}
	}
}

// Sessions returns an iterator over sessions in chronological order.
// A session is yielded only when it matches every filter.
func (l *Ledger) Sessions(filters ...func(Session) bool) iter.Seq[Session] {
	return func(yield func(Session) bool) {
		for _, s := range l.sessions {
			accept := true
			for _, filter := range filters {
				if !filter(s) {
					accept = false
					break
				}
			}
			if !accept {
				continue
			}
			if !yield(s) {
				return
			}
		}
	}
}

// PlayerSessions returns an iterator over player sessions in insertion
// order. A record is yielded only when it matches every filter.
func (l *Ledger) PlayerSessions(filters ...func(PlayerSession) bool) iter.Seq[PlayerSession] {
	return func(yield func(PlayerSession) bool) {
		for _, ps := range l.playerSessions {
			accept := true
			for _, filter := range filters {
				if !filter(ps) {
					accept = false
					break
				}
			}
			if !accept {
				continue
			}
			if !yield(ps) {
				return
			}
		}
	}
}

// ByRange keeps sessions whose date falls within the range.
func ByRange(r Range) func(Session) bool {
	return func(s Session) bool { return r.Contains(s.date) }
}

// ByCompleted keeps sessions whose settlement is done.
func ByCompleted() func(Session) bool {
	return func(s Session) bool { return s.isComplete }
}

// ByImported keeps sessions that came from the tabular importer.
func ByImported() func(Session) bool {
	return func(s Session) bool { return s.isImported }
}

// BySession keeps player sessions belonging to one session.
func BySession(sessionID string) func(PlayerSession) bool {
	return func(ps PlayerSession) bool { return ps.sessionID == sessionID }
}

// ByPlayer keeps player sessions belonging to one player.
func ByPlayer(playerID string) func(PlayerSession) bool {
	return func(ps PlayerSession) bool { return ps.playerID == playerID }
}

// OldestSessionDate returns the date of the earliest session in the ledger.
// It returns the zero date if the ledger has no sessions.
func (l *Ledger) OldestSessionDate() Date {
	if len(l.sessions) == 0 {
		return Date{}
	}
	return l.sessions[0].date
}

// NewestSessionDate returns the date of the latest session in the ledger.
// It returns the zero date if the ledger has no sessions.
func (l *Ledger) NewestSessionDate() Date {
	if len(l.sessions) == 0 {
		return Date{}
	}
	return l.sessions[len(l.sessions)-1].date
}

// CreatePlayer adds a player to the roster and returns the new id.
// The name must be non-blank and not already taken under case folding.
func (l *Ledger) CreatePlayer(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("player name cannot be blank")
	}
	if p, ok := l.PlayerByName(name); ok {
		return "", fmt.Errorf("player %q already exists as %q", name, p.name)
	}
	p := NewPlayer(name)
	l.players = append(l.players, p)
	l.playerIdx[p.id] = len(l.players) - 1
	l.touch()
	return p.id, nil
}

// RenamePlayer changes a roster entry's name. The new name must not collide
// with another player's name under case folding.
func (l *Ledger) RenamePlayer(id, name string) error {
	i, ok := l.playerIdx[id]
	if !ok {
		return fmt.Errorf("unknown player %q", id)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("player name cannot be blank")
	}
	if other, ok := l.PlayerByName(name); ok && other.id != id {
		return fmt.Errorf("player %q already exists as %q", name, other.name)
	}
	l.players[i].name = name
	l.players[i].updatedAt = time.Now().UTC()
	l.touch()
	return nil
}

// CreateSession starts a new live session on the given date (today when
// zero) and makes it the active session. It returns the new id.
func (l *Ledger) CreateSession(date Date, name string, gameType GameType, stakes, location string) (string, error) {
	if date.IsZero() {
		date = Today()
	}
	s := NewSession(date, name, gameType, stakes, location)
	l.addSession(s)
	if l.activeSessionID != "" {
		log.Printf("%v: session %q supersedes active session %q", s.date, s.Label(), l.activeSessionID)
	}
	l.activeSessionID = s.id
	l.touch()
	return s.id, nil
}

// addSession appends a session and maintains the chronological order.
func (l *Ledger) addSession(s Session) {
	l.sessions = append(l.sessions, s)
	l.stableSort()
}

// touchSession marks a session as mutated. Child mutations bubble up here so
// that a session and its player sessions always move together during merges.
func (l *Ledger) touchSession(i int) {
	l.sessions[i].updatedAt = time.Now().UTC()
	l.touch()
}

// AddPlayerToSession seats a roster player at a session with an initial
// buy-in and returns the new player session id. It rejects imported and
// completed sessions, and a player already seated at the session.
func (l *Ledger) AddPlayerToSession(sessionID, playerID string, buyIn Money) (string, error) {
	i, ok := l.sessionIdx[sessionID]
	if !ok {
		return "", fmt.Errorf("unknown session %q", sessionID)
	}
	if _, ok := l.playerIdx[playerID]; !ok {
		return "", fmt.Errorf("unknown player %q", playerID)
	}
	s := l.sessions[i]
	if s.isImported {
		return "", fmt.Errorf("session %q is imported and read-only", s.Label())
	}
	if s.isComplete {
		return "", fmt.Errorf("session %q is complete, resume it first", s.Label())
	}
	for _, ps := range l.playerSessions {
		if ps.sessionID == sessionID && ps.playerID == playerID {
			return "", fmt.Errorf("player already seated at session %q", s.Label())
		}
	}
	if !buyIn.IsPositive() {
		return "", fmt.Errorf("buy-in must be positive, got %s", buyIn)
	}
	ps := NewPlayerSession(playerID, sessionID, NewBuyIn(buyIn))
	l.playerSessions = append(l.playerSessions, ps)
	l.psIdx[ps.id] = len(l.playerSessions) - 1
	l.touchSession(i)
	return ps.id, nil
}

// AddBuyIn records another buy-in on a player session and returns the new
// buy-in id. The amount must be positive.
func (l *Ledger) AddBuyIn(playerSessionID string, amount Money) (string, error) {
	i, ok := l.psIdx[playerSessionID]
	if !ok {
		return "", fmt.Errorf("unknown player session %q", playerSessionID)
	}
	ps := &l.playerSessions[i]
	si := l.sessionIdx[ps.sessionID]
	if l.sessions[si].isImported {
		return "", fmt.Errorf("session %q is imported and read-only", l.sessions[si].Label())
	}
	if !amount.IsPositive() {
		return "", fmt.Errorf("buy-in must be positive, got %s", amount)
	}
	b := NewBuyIn(amount)
	ps.buyIns = append(ps.buyIns, b)
	ps.recompute()
	l.touchSession(si)
	return b.id, nil
}

// SetCashOut settles a player session at the given amount, which may be zero
// for a player who lost the lot. Re-invocable to correct a mistake, before or
// after the session is completed.
func (l *Ledger) SetCashOut(playerSessionID string, amount Money) error {
	i, ok := l.psIdx[playerSessionID]
	if !ok {
		return fmt.Errorf("unknown player session %q", playerSessionID)
	}
	ps := &l.playerSessions[i]
	si := l.sessionIdx[ps.sessionID]
	if l.sessions[si].isImported {
		return fmt.Errorf("session %q is imported and read-only", l.sessions[si].Label())
	}
	if amount.IsNegative() {
		return fmt.Errorf("cash-out cannot be negative, got %s", amount)
	}
	ps.cashOut = amount
	ps.cashedOut = true
	ps.recompute()
	l.touchSession(si)
	return nil
}

// CompleteSession marks a session settled and releases the active pointer if
// it held it. Whether every player has cashed out is the caller's check, the
// ledger does not refuse an early completion.
func (l *Ledger) CompleteSession(sessionID string) error {
	i, ok := l.sessionIdx[sessionID]
	if !ok {
		return fmt.Errorf("unknown session %q", sessionID)
	}
	s := &l.sessions[i]
	if s.isImported {
		return fmt.Errorf("session %q is imported and read-only", s.Label())
	}
	if s.isComplete {
		return fmt.Errorf("session %q is already complete", s.Label())
	}
	s.isComplete = true
	if l.activeSessionID == sessionID {
		l.activeSessionID = ""
	}
	l.touchSession(i)
	return nil
}

// ResumeSession reopens a completed session and makes it active again.
// Every child cash-out is reset to undefined: resuming destroys the
// settlement state, there is no partial reopen.
func (l *Ledger) ResumeSession(sessionID string) error {
	i, ok := l.sessionIdx[sessionID]
	if !ok {
		return fmt.Errorf("unknown session %q", sessionID)
	}
	s := &l.sessions[i]
	if s.isImported {
		return fmt.Errorf("session %q is imported and read-only", s.Label())
	}
	if !s.isComplete {
		return fmt.Errorf("session %q is already live", s.Label())
	}
	cleared := 0
	for j := range l.playerSessions {
		ps := &l.playerSessions[j]
		if ps.sessionID != sessionID {
			continue
		}
		if ps.cashedOut {
			cleared++
		}
		ps.cashOut = Money{}
		ps.cashedOut = false
		ps.netResult = Money{}
	}
	s.isComplete = false
	l.activeSessionID = sessionID
	log.Printf("%v: resume session %q, cleared %d cash-outs", s.date, s.Label(), cleared)
	l.touchSession(i)
	return nil
}

// DeleteSession removes a session and all its player sessions. Imported
// sessions cannot be deleted one by one, only a full re-import replaces them.
func (l *Ledger) DeleteSession(sessionID string) error {
	i, ok := l.sessionIdx[sessionID]
	if !ok {
		return fmt.Errorf("unknown session %q", sessionID)
	}
	s := l.sessions[i]
	if s.isImported {
		return fmt.Errorf("session %q is imported, re-import to replace it", s.Label())
	}
	kept := l.playerSessions[:0]
	dropped := 0
	for _, ps := range l.playerSessions {
		if ps.sessionID == sessionID {
			dropped++
			continue
		}
		kept = append(kept, ps)
	}
	l.playerSessions = kept
	l.sessions = append(l.sessions[:i], l.sessions[i+1:]...)
	if l.activeSessionID == sessionID {
		l.activeSessionID = ""
	}
	l.reindex()
	log.Printf("%v: delete session %q and %d player sessions", s.date, s.Label(), dropped)
	l.touch()
	return nil
}

// RemovePlayerFromSession unseats a player who has not played a hand worth
// keeping: allowed only while the player has not cashed out, and never on an
// imported session.
func (l *Ledger) RemovePlayerFromSession(playerSessionID string) error {
	i, ok := l.psIdx[playerSessionID]
	if !ok {
		return fmt.Errorf("unknown player session %q", playerSessionID)
	}
	ps := l.playerSessions[i]
	si := l.sessionIdx[ps.sessionID]
	if l.sessions[si].isImported {
		return fmt.Errorf("session %q is imported and read-only", l.sessions[si].Label())
	}
	if ps.cashedOut {
		return fmt.Errorf("player has cashed out, correct the cash-out instead of removing")
	}
	l.playerSessions = append(l.playerSessions[:i], l.playerSessions[i+1:]...)
	l.reindex()
	l.touchSession(si)
	return nil
}

// AvailablePlayers returns the roster players not yet seated at the session,
// sorted by name. Callers offer these when seating someone new.
func (l *Ledger) AvailablePlayers(sessionID string) []Player {
	seated := make(map[string]struct{})
	for _, ps := range l.playerSessions {
		if ps.sessionID == sessionID {
			seated[ps.playerID] = struct{}{}
		}
	}
	var out []Player
	for _, p := range l.players {
		if _, ok := seated[p.id]; !ok {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].name) < strings.ToLower(out[j].name)
	})
	return out
}

// UnsettledPlayers returns the players seated at the session who have not
// cashed out yet, in seating order.
func (l *Ledger) UnsettledPlayers(sessionID string) []Player {
	var out []Player
	for _, ps := range l.playerSessions {
		if ps.sessionID != sessionID || ps.cashedOut {
			continue
		}
		if p, ok := l.Player(ps.playerID); ok {
			out = append(out, p)
		}
	}
	return out
}
