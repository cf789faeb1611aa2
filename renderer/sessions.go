package renderer

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/etnz/chipbook"
	md "github.com/nao1215/markdown"
)

// sessionStatus renders the lifecycle state of a session for reports.
func sessionStatus(s chipbook.Session) string {
	switch {
	case s.IsImported():
		return "imported"
	case s.IsComplete():
		return "complete"
	default:
		return "live"
	}
}

// SessionsMarkdown renders a chronological session list with per-session
// seat counts.
func SessionsMarkdown(l *chipbook.Ledger, sessions []chipbook.Session) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Sessions")

	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignLeft,
			md.AlignLeft,
			md.AlignLeft,
			md.AlignLeft,
			md.AlignRight,
			md.AlignLeft,
		},
		Header: []string{"Date", "Name", "Game", "Stakes", "Location", "Seats", "Status"},
		Rows:   [][]string{},
	}
	for _, s := range sessions {
		seats := 0
		for range l.PlayerSessions(chipbook.BySession(s.ID())) {
			seats++
		}
		table.Rows = append(table.Rows, []string{
			s.Date().String(),
			s.Name(),
			string(s.GameType()),
			s.Stakes(),
			s.Location(),
			strconv.Itoa(seats),
			sessionStatus(s),
		})
	}
	doc.Table(table)

	return doc.String()
}

// SessionMarkdown renders one session in full: the meta line, a seat table
// and the zero sum check.
func SessionMarkdown(l *chipbook.Ledger, sessionID string) (string, error) {
	s, ok := l.Session(sessionID)
	if !ok {
		return "", fmt.Errorf("unknown session %q", sessionID)
	}

	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Session %s, %s", s.Label(), sessionStatus(s)))
	meta := fmt.Sprintf("%s on %s", s.GameType(), s.Date())
	if s.Stakes() != "" {
		meta += ", stakes " + s.Stakes()
	}
	if s.Location() != "" {
		meta += ", at " + s.Location()
	}
	doc.PlainText(meta)

	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
		},
		Header: []string{"Player", "Buy-ins", "Staked", "Cash-out", "Net"},
		Rows:   [][]string{},
	}
	var onTable chipbook.Money
	for ps := range l.PlayerSessions(chipbook.BySession(sessionID)) {
		name := ps.PlayerID()
		if p, ok := l.Player(ps.PlayerID()); ok {
			name = p.Name()
		}
		row := []string{
			name,
			strconv.Itoa(len(ps.BuyIns())),
			ps.TotalBuyIns().String(),
			"",
			ps.NetResult().SignedString(),
		}
		if cashOut, settled := ps.CashOut(); settled {
			row[3] = cashOut.String()
		} else if !s.IsImported() {
			row[3] = "on table"
			row[4] = ""
		}
		onTable = onTable.Add(ps.TotalBuyIns())
		table.Rows = append(table.Rows, row)
	}
	doc.Table(table)

	var trailer strings.Builder
	if len(table.Rows) > 0 {
		check := l.ValidateZeroSum(sessionID)
		if check.Unsettled > 0 {
			fmt.Fprintf(&trailer, "\n%s on the table, %d still playing\n", onTable, check.Unsettled)
		} else {
			fmt.Fprintf(&trailer, "\n%s\n", check)
		}
	}

	return doc.String() + trailer.String(), nil
}
