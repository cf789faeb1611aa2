package chipbook

import (
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// SnapshotVersion is the wire version written by this build. Decoding
// refuses snapshots from a future version rather than guessing.
const SnapshotVersion = 1

// Snapshot is the complete serializable state of a ledger: the one document
// exchanged with stores and remote replicas. The active session pointer
// rides along so a restart resumes exactly where the books left off.
type Snapshot struct {
	Version        int
	Players        []Player
	Sessions       []Session
	PlayerSessions []PlayerSession
	ActiveSession  string
	LastModified   time.Time
}

// Snapshot copies the ledger state into its wire form. The copy shares
// nothing with the ledger, later mutations do not leak into it.
func (l *Ledger) Snapshot() *Snapshot {
	s := &Snapshot{
		Version:       SnapshotVersion,
		ActiveSession: l.activeSessionID,
		LastModified:  l.lastModified,
	}
	s.Players = append(s.Players, l.players...)
	s.Sessions = append(s.Sessions, l.sessions...)
	for _, ps := range l.playerSessions {
		s.PlayerSessions = append(s.PlayerSessions, ps.clone())
	}
	return s
}

// RestoreLedger rebuilds a ledger from a snapshot. An active session pointer
// that no longer resolves to a live session is dropped.
func RestoreLedger(s *Snapshot) *Ledger {
	l := NewLedger()
	l.players = append(l.players, s.Players...)
	l.sessions = append(l.sessions, s.Sessions...)
	for _, ps := range s.PlayerSessions {
		l.playerSessions = append(l.playerSessions, ps.clone())
	}
	l.lastModified = s.LastModified
	l.stableSort()
	if sess, ok := l.Session(s.ActiveSession); ok && !sess.isComplete {
		l.activeSessionID = s.ActiveSession
	}
	return l
}

// clone returns a copy that owns its buy-in slice.
func (ps PlayerSession) clone() PlayerSession {
	ps.buyIns = append([]BuyIn(nil), ps.buyIns...)
	return ps
}

// ContentHash returns a hash of the canonical encoding with the modification
// stamp and the active pointer zeroed out: it identifies the books, not when
// they last changed or which session a replica happens to sit at. Replicas
// holding the same sessions hash equal, which is what stops them from pushing
// the same content back and forth. Every ledger mutation that matters touches
// players, sessions or player sessions, so no change hides from the hash.
func (s *Snapshot) ContentHash() string {
	c := *s
	c.LastModified = time.Time{}
	c.ActiveSession = ""
	data, err := json.Marshal(&c)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%x", sha1.Sum(data))
}

// EncodeSnapshot writes the snapshot as an indented JSON document, the form
// kept on disk and exchanged with remotes.
func EncodeSnapshot(w io.Writer, s *Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("could not encode snapshot: %w", err)
	}
	return nil
}

// DecodeSnapshot reads a snapshot document and checks its version.
func DecodeSnapshot(r io.Reader) (*Snapshot, error) {
	var s Snapshot
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("could not decode snapshot: %w", err)
	}
	if s.Version > SnapshotVersion || s.Version < 1 {
		return nil, fmt.Errorf("unknown snapshot version %d, this build reads up to %d", s.Version, SnapshotVersion)
	}
	return &s, nil
}

// MarshalJSON writes the snapshot with a fixed key order so that equal books
// always produce equal bytes. ContentHash depends on this.
func (s *Snapshot) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("version", s.Version)
	w.Append("players", s.Players)
	w.Append("sessions", s.Sessions)
	w.Append("playerSessions", s.PlayerSessions)
	w.Optional("activeSession", s.ActiveSession)
	w.Append("lastModified", s.LastModified.UTC())
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for Snapshot.
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	// Use a temporary type to avoid recursing into this method.
	var temp struct {
		Version        int             `json:"version"`
		Players        []Player        `json:"players"`
		Sessions       []Session       `json:"sessions"`
		PlayerSessions []PlayerSession `json:"playerSessions"`
		ActiveSession  string          `json:"activeSession"`
		LastModified   time.Time       `json:"lastModified"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	*s = Snapshot(temp)
	return nil
}

// wireAmount reads an amount and its currency from two sibling JSON fields.
type wireAmount struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

func (a wireAmount) Money() Money {
	return M(a.Amount, a.Currency)
}

// MarshalJSON implements the json.Marshaler interface for Player.
func (p Player) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", p.id)
	w.Append("name", p.name)
	w.Append("createdAt", p.createdAt)
	w.Append("updatedAt", p.updatedAt)
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for Player.
func (p *Player) UnmarshalJSON(data []byte) error {
	var temp struct {
		ID        string    `json:"id"`
		Name      string    `json:"name"`
		CreatedAt time.Time `json:"createdAt"`
		UpdatedAt time.Time `json:"updatedAt"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	*p = Player{id: temp.ID, name: temp.Name, createdAt: temp.CreatedAt, updatedAt: temp.UpdatedAt}
	return nil
}

// MarshalJSON implements the json.Marshaler interface for Session.
func (s Session) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", s.id)
	w.Optional("name", s.name)
	w.Append("date", s.date)
	w.Append("gameType", s.gameType)
	w.Optional("stakes", s.stakes)
	w.Optional("location", s.location)
	w.Append("isComplete", s.isComplete)
	w.Append("isImported", s.isImported)
	w.Append("createdAt", s.createdAt)
	w.Append("updatedAt", s.updatedAt)
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for Session.
func (s *Session) UnmarshalJSON(data []byte) error {
	var temp struct {
		ID         string    `json:"id"`
		Name       string    `json:"name"`
		Date       Date      `json:"date"`
		GameType   GameType  `json:"gameType"`
		Stakes     string    `json:"stakes"`
		Location   string    `json:"location"`
		IsComplete bool      `json:"isComplete"`
		IsImported bool      `json:"isImported"`
		CreatedAt  time.Time `json:"createdAt"`
		UpdatedAt  time.Time `json:"updatedAt"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	if temp.GameType == "" {
		temp.GameType = CashGame
	}
	*s = Session{
		id:         temp.ID,
		name:       temp.Name,
		date:       temp.Date,
		gameType:   temp.GameType,
		stakes:     temp.Stakes,
		location:   temp.Location,
		isComplete: temp.IsComplete,
		isImported: temp.IsImported,
		createdAt:  temp.CreatedAt,
		updatedAt:  temp.UpdatedAt,
	}
	return nil
}

// MarshalJSON implements the json.Marshaler interface for BuyIn. The amount
// and its currency are flattened into the buy-in object.
func (b BuyIn) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", b.id)
	w.EmbedFrom(b.amount)
	w.Append("at", b.at)
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for BuyIn.
func (b *BuyIn) UnmarshalJSON(data []byte) error {
	var temp struct {
		ID string `json:"id"`
		wireAmount
		At time.Time `json:"at"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	*b = BuyIn{id: temp.ID, amount: temp.Money(), at: temp.At}
	return nil
}

// MarshalJSON implements the json.Marshaler interface for PlayerSession.
// The cash-out is written only when defined: a player still on the table has
// no cashOut key at all, which is distinct from cashing out at zero.
func (ps PlayerSession) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", ps.id)
	w.Append("playerId", ps.playerID)
	w.Append("sessionId", ps.sessionID)
	w.Append("buyIns", ps.buyIns)
	if ps.cashedOut {
		w.Append("cashOut", ps.cashOut.value)
		w.Optional("cashOutCurrency", ps.cashOut.cur)
	}
	w.Append("netResult", ps.netResult.value)
	w.Optional("netCurrency", ps.netResult.cur)
	w.Append("at", ps.at)
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for PlayerSession.
func (ps *PlayerSession) UnmarshalJSON(data []byte) error {
	var temp struct {
		ID              string           `json:"id"`
		PlayerID        string           `json:"playerId"`
		SessionID       string           `json:"sessionId"`
		BuyIns          []BuyIn          `json:"buyIns"`
		CashOut         *decimal.Decimal `json:"cashOut"`
		CashOutCurrency string           `json:"cashOutCurrency"`
		NetResult       decimal.Decimal  `json:"netResult"`
		NetCurrency     string           `json:"netCurrency"`
		At              time.Time        `json:"at"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	*ps = PlayerSession{
		id:        temp.ID,
		playerID:  temp.PlayerID,
		sessionID: temp.SessionID,
		buyIns:    temp.BuyIns,
		netResult: M(temp.NetResult, temp.NetCurrency),
		at:        temp.At,
	}
	if temp.CashOut != nil {
		ps.cashOut = M(*temp.CashOut, temp.CashOutCurrency)
		ps.cashedOut = true
	}
	return nil
}
