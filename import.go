package chipbook

import (
	"fmt"
	"log"
	"strings"
)

// ImportIssue is one problem found while reading a grid. Errors block the
// import, warnings do not.
type ImportIssue struct {
	Row     int    // 1-based grid row, 0 for session-level issues
	Session string // date header of the column concerned, "" when none
	Message string
}

func (i ImportIssue) String() string {
	switch {
	case i.Row > 0 && i.Session != "":
		return fmt.Sprintf("row %d, session %s: %s", i.Row, i.Session, i.Message)
	case i.Row > 0:
		return fmt.Sprintf("row %d: %s", i.Row, i.Message)
	case i.Session != "":
		return fmt.Sprintf("session %s: %s", i.Session, i.Message)
	default:
		return i.Message
	}
}

// ImportResult is the outcome of reading one grid: the reconstructed
// entities, not yet adopted by any ledger, plus everything worth telling the
// user about.
type ImportResult struct {
	Players        []Player
	Sessions       []Session
	PlayerSessions []PlayerSession
	Errors         []ImportIssue
	Warnings       []ImportIssue
}

// Success reports whether the batch is fit to adopt. Warnings alone never
// fail an import.
func (r *ImportResult) Success() bool { return len(r.Errors) == 0 }

func (r *ImportResult) errorf(row int, session, format string, args ...any) {
	r.Errors = append(r.Errors, ImportIssue{Row: row, Session: session, Message: fmt.Sprintf(format, args...)})
}

func (r *ImportResult) warnf(row int, session, format string, args ...any) {
	r.Warnings = append(r.Warnings, ImportIssue{Row: row, Session: session, Message: fmt.Sprintf(format, args...)})
}

// ImportGrid reconstructs sessions from a results grid, the layout a home
// game keeps in a spreadsheet:
//
//	Players  1/2/2025  1/8/2025  Total  Average
//	Zach     120.00    (35)      85.00  42.50
//	Doug     -120      35.00     -85    -42.50
//
// The header row holds session dates in month/day/year form; the first
// column that does not parse as a date ends the session columns, so trailing
// aggregate columns are ignored. Each later row is one player, each filled
// cell that player's net result for that session. A blank cell means the
// player sat that one out.
//
// Cells arrive as strings or as numbers depending on the source; numbers are
// taken as-is in the given currency, strings go through ParseMoneyCell.
// Sessions reconstructed this way are complete and marked imported.
func ImportGrid(rows [][]any, currency string) *ImportResult {
	res := &ImportResult{}
	if len(rows) == 0 || len(rows[0]) == 0 {
		res.errorf(0, "", "grid is empty")
		return res
	}

	// Header: date columns run until the first cell that is not a date.
	var columns []gridColumn
	for col := 1; col < len(rows[0]); col++ {
		text, ok := rows[0][col].(string)
		if !ok {
			break
		}
		date, ok := ParseCellDate(text)
		if !ok {
			break
		}
		res.Sessions = append(res.Sessions, newImportedSession(date))
		columns = append(columns, gridColumn{col: col, session: len(res.Sessions) - 1})
	}
	if len(columns) == 0 {
		res.errorf(1, "", "header has no session date columns")
		return res
	}
	if len(rows) < 2 {
		res.errorf(0, "", "grid has a header but no player rows")
		return res
	}

	seen := make(map[string]gridRow) // case-folded name to first occurrence
	for r := 1; r < len(rows); r++ {
		row := rows[r]
		name := ""
		if len(row) > 0 {
			if s, ok := row[0].(string); ok {
				name = strings.TrimSpace(s)
			}
		}
		if name == "" {
			if !rowIsBlank(row, columns) {
				res.warnf(r+1, "", "row has results but no player name, skipped")
			}
			continue
		}
		// A repeated name resolves to the first row's player; its results
		// still count toward the session totals.
		key := strings.ToLower(name)
		first, dup := seen[key]
		if dup {
			res.warnf(r+1, "", "duplicate player %q (first seen row %d), counted as the same player", name, first.row)
		} else {
			first = gridRow{row: r + 1, player: len(res.Players)}
			seen[key] = first
			res.Players = append(res.Players, NewPlayer(name))
		}
		player := res.Players[first.player]

		for _, c := range columns {
			if c.col >= len(row) {
				continue
			}
			session := res.Sessions[c.session]
			var amount Money
			switch v := row[c.col].(type) {
			case nil:
				continue
			case string:
				if strings.TrimSpace(v) == "" {
					continue
				}
				m, ok := ParseMoneyCell(v)
				if !ok {
					res.errorf(r+1, session.Date().Cell(), "cannot parse amount %q for %s", v, name)
					continue
				}
				amount = m.In(currency)
			case float64:
				amount = M(v, currency)
			case int:
				amount = M(v, currency)
			default:
				res.errorf(r+1, session.Date().Cell(), "unsupported cell type %T for %s", v, name)
				continue
			}
			res.PlayerSessions = append(res.PlayerSessions,
				newImportedPlayerSession(player.ID(), session.ID(), amount))
		}
	}

	// A settled poker session is a closed economy, its results must cancel
	// out. An imbalance in the sheet is worth flagging but not refusing.
	for _, s := range res.Sessions {
		var sum Money
		for _, ps := range res.PlayerSessions {
			if ps.SessionID() == s.ID() {
				sum = sum.Add(ps.NetResult())
			}
		}
		if sum.Abs().GreaterThan(M(zeroSumTolerance, currency)) {
			res.warnf(0, s.Date().Cell(), "results sum to %s, expected zero", sum.SignedString())
		}
	}
	return res
}

// gridColumn ties a grid column to the session reconstructed from its
// header date.
type gridColumn struct {
	col     int
	session int // index into ImportResult.Sessions
}

// gridRow ties a player name to the row that introduced it and to the batch
// entry that row created.
type gridRow struct {
	row    int // 1-based grid row of the first occurrence
	player int // index into ImportResult.Players
}

// rowIsBlank reports whether every session cell of the row is empty.
func rowIsBlank(row []any, columns []gridColumn) bool {
	for _, c := range columns {
		if c.col >= len(row) {
			continue
		}
		switch v := row[c.col].(type) {
		case nil:
		case string:
			if strings.TrimSpace(v) != "" {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// AdoptImport commits a successful batch to the ledger, replacing every
// previously imported session wholesale. Incoming players are reconciled
// against the roster by case-folded name, the local record wins, and the
// batch's player sessions are re-keyed to the surviving ids.
func (l *Ledger) AdoptImport(res *ImportResult) error {
	if !res.Success() {
		return fmt.Errorf("import has %d errors, refusing to adopt", len(res.Errors))
	}
	merged, remap := ReconcilePlayers(l.players, res.Players)
	matched := len(l.players) + len(res.Players) - len(merged)
	l.players = merged

	// Drop the previous import. Imported sessions are read-only one by one,
	// a full re-import is the only thing that replaces them.
	droppedSessions := make(map[string]struct{})
	keptSessions := l.sessions[:0]
	for _, s := range l.sessions {
		if s.isImported {
			droppedSessions[s.id] = struct{}{}
			continue
		}
		keptSessions = append(keptSessions, s)
	}
	l.sessions = keptSessions
	keptPS := l.playerSessions[:0]
	for _, ps := range l.playerSessions {
		if _, ok := droppedSessions[ps.sessionID]; ok {
			continue
		}
		keptPS = append(keptPS, ps)
	}
	l.playerSessions = keptPS

	l.sessions = append(l.sessions, res.Sessions...)
	for _, ps := range res.PlayerSessions {
		if id, ok := remap[ps.playerID]; ok {
			ps.playerID = id
		}
		l.playerSessions = append(l.playerSessions, ps)
	}
	l.stableSort()
	log.Printf("import: adopted %d sessions and %d player sessions, %d players matched existing roster entries, replaced %d previously imported sessions",
		len(res.Sessions), len(res.PlayerSessions), matched, len(droppedSessions))
	l.touch()
	return nil
}
