package renderer

import (
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/etnz/chipbook"
)

func usd(v float64) chipbook.Money { return chipbook.M(v, "USD") }

func create(t *testing.T, l *chipbook.Ledger, name string) string {
	t.Helper()
	id, err := l.CreatePlayer(name)
	if err != nil {
		t.Fatalf("CreatePlayer(%q): %v", name, err)
	}
	return id
}

func seat(t *testing.T, l *chipbook.Ledger, sessionID, playerID string, buyIn chipbook.Money) string {
	t.Helper()
	id, err := l.AddPlayerToSession(sessionID, playerID, buyIn)
	if err != nil {
		t.Fatalf("AddPlayerToSession: %v", err)
	}
	return id
}

func settle(t *testing.T, l *chipbook.Ledger, playerSessionID string, cashOut chipbook.Money) {
	t.Helper()
	if err := l.SetCashOut(playerSessionID, cashOut); err != nil {
		t.Fatalf("SetCashOut: %v", err)
	}
}

// statsLedger builds two settled sessions: Zach loses 30 then 26.50, Doug
// wins the same.
func statsLedger(t *testing.T) (l *chipbook.Ledger, zach, doug string) {
	t.Helper()
	l = chipbook.NewLedger()
	zach = create(t, l, "Zach")
	doug = create(t, l, "Doug")

	for _, round := range []struct {
		date    chipbook.Date
		zachOut chipbook.Money
		dougOut chipbook.Money
	}{
		{chipbook.NewDate(2025, time.January, 2), usd(70), usd(130)},
		{chipbook.NewDate(2025, time.January, 8), usd(73.50), usd(126.50)},
	} {
		s, err := l.CreateSession(round.date, "", chipbook.CashGame, "1/2", "garage")
		if err != nil {
			t.Fatalf("CreateSession: %v", err)
		}
		settle(t, l, seat(t, l, s, zach, usd(100)), round.zachOut)
		settle(t, l, seat(t, l, s, doug, usd(100)), round.dougOut)
		if err := l.CompleteSession(s); err != nil {
			t.Fatalf("CompleteSession: %v", err)
		}
	}
	return l, zach, doug
}

func TestStatisticsMarkdown(t *testing.T) {
	l, _, _ := statsLedger(t)
	stats := l.AllStatistics(chipbook.Range{})

	got := StatisticsMarkdown(chipbook.Range{}, stats)

	if !strings.Contains(got, "# Standings, all time") {
		t.Errorf("missing title in:\n%s", got)
	}
	for _, cell := range []string{"Player", "Sessions", "Profit", "ROI", "+$56.50", "-$56.50", "-$28.25"} {
		if !strings.Contains(got, cell) {
			t.Errorf("missing %q in:\n%s", cell, got)
		}
	}
	// Leaderboard order: the winner's row comes first.
	if strings.Index(got, "Doug") > strings.Index(got, "Zach") {
		t.Errorf("Doug should rank above Zach in:\n%s", got)
	}
}

func TestStatisticsMarkdown_PeriodTitle(t *testing.T) {
	l, _, _ := statsLedger(t)
	period := chipbook.Range{From: chipbook.NewDate(2025, time.January, 1), To: chipbook.NewDate(2025, time.January, 31)}

	got := StatisticsMarkdown(period, l.AllStatistics(period))

	if !strings.Contains(got, "# Standings, 2025-01-01 to 2025-01-31") {
		t.Errorf("missing period title in:\n%s", got)
	}
}

func TestStatisticsCSV(t *testing.T) {
	l, _, _ := statsLedger(t)

	out, err := StatisticsCSV(l.AllStatistics(chipbook.Range{}))
	if err != nil {
		t.Fatalf("StatisticsCSV: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("reading back csv: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3 (header + 2 players)", len(records))
	}
	if got, want := strings.Join(records[0], ","), strings.Join(statisticsHeader, ","); got != want {
		t.Errorf("header = %q, want %q", got, want)
	}

	var zachRow []string
	for _, rec := range records[1:] {
		if rec[0] == "Zach" {
			zachRow = rec
		}
	}
	if zachRow == nil {
		t.Fatalf("no Zach row in:\n%s", out)
	}
	want := []string{"Zach", "2", "-56.50", "200.00", "-28.25", "0.00", "-28.25", "3.0625", "1.7500",
		"2025-01-08", "-26.50", "2025-01-02", "-30.00"}
	for i, cell := range want {
		if zachRow[i] != cell {
			t.Errorf("column %s = %q, want %q", statisticsHeader[i], zachRow[i], cell)
		}
	}
}

func TestStatisticsCSV_NoSessions(t *testing.T) {
	l := chipbook.NewLedger()
	idle := create(t, l, "Idle")

	out, err := StatisticsCSV([]chipbook.PlayerStats{l.PlayerStatistics(idle, chipbook.Range{})})
	if err != nil {
		t.Fatalf("StatisticsCSV: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("reading back csv: %v", err)
	}
	row := records[1]
	if row[1] != "0" {
		t.Errorf("sessions = %q, want 0", row[1])
	}
	for _, i := range []int{9, 10, 11, 12} {
		if row[i] != "" {
			t.Errorf("column %s = %q, want empty", statisticsHeader[i], row[i])
		}
	}
}

func TestHistoryMarkdown(t *testing.T) {
	l, zach, _ := statsLedger(t)

	got := HistoryMarkdown(l.PlayerStatistics(zach, chipbook.Range{}))

	if !strings.Contains(got, "# History for Zach") {
		t.Errorf("missing title in:\n%s", got)
	}
	// Per-session nets and the running balance.
	for _, cell := range []string{"2025-01-02", "2025-01-08", "-$30.00", "-$26.50", "-$56.50"} {
		if !strings.Contains(got, cell) {
			t.Errorf("missing %q in:\n%s", cell, got)
		}
	}
	if strings.Index(got, "2025-01-02") > strings.Index(got, "2025-01-08") {
		t.Errorf("history should be chronological in:\n%s", got)
	}
}

func TestSessionsMarkdown(t *testing.T) {
	l, zach, doug := statsLedger(t)
	live, err := l.CreateSession(chipbook.NewDate(2025, time.February, 1), "friday game", chipbook.TournamentGame, "", "club")
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	seat(t, l, live, zach, usd(50))
	seat(t, l, live, doug, usd(50))

	var sessions []chipbook.Session
	for s := range l.Sessions() {
		sessions = append(sessions, s)
	}
	got := SessionsMarkdown(l, sessions)

	for _, cell := range []string{"# Sessions", "friday game", "tournament", "complete", "live", "garage", "club"} {
		if !strings.Contains(got, cell) {
			t.Errorf("missing %q in:\n%s", cell, got)
		}
	}
}

func TestSessionsMarkdown_ImportedStatus(t *testing.T) {
	l := chipbook.NewLedger()
	res := chipbook.ImportGrid([][]any{
		{"Players", "1/2/2025"},
		{"Zach", "(30)"},
		{"Doug", "30.00"},
	}, "USD")
	if err := l.AdoptImport(res); err != nil {
		t.Fatalf("AdoptImport: %v", err)
	}

	var sessions []chipbook.Session
	for s := range l.Sessions() {
		sessions = append(sessions, s)
	}
	got := SessionsMarkdown(l, sessions)

	if !strings.Contains(got, "imported") {
		t.Errorf("missing imported status in:\n%s", got)
	}
}

func TestSessionMarkdown_Live(t *testing.T) {
	l := chipbook.NewLedger()
	zach := create(t, l, "Zach")
	doug := create(t, l, "Doug")
	s, err := l.CreateSession(chipbook.NewDate(2025, time.February, 1), "", chipbook.CashGame, "1/2", "garage")
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	seat(t, l, s, zach, usd(100))
	settle(t, l, seat(t, l, s, doug, usd(100)), usd(150))

	got, err := SessionMarkdown(l, s)
	if err != nil {
		t.Fatalf("SessionMarkdown: %v", err)
	}

	for _, cell := range []string{"live", "cash on 2025-02-01", "stakes 1/2", "at garage", "on table", "$150.00", "+$50.00"} {
		if !strings.Contains(got, cell) {
			t.Errorf("missing %q in:\n%s", cell, got)
		}
	}
	if !strings.Contains(got, "$200.00 on the table, 1 still playing") {
		t.Errorf("missing live trailer in:\n%s", got)
	}
}

func TestSessionMarkdown_Settled(t *testing.T) {
	l, _, _ := statsLedger(t)
	var first chipbook.Session
	for s := range l.Sessions() {
		first = s
		break
	}

	got, err := SessionMarkdown(l, first.ID())
	if err != nil {
		t.Fatalf("SessionMarkdown: %v", err)
	}

	if !strings.Contains(got, "books balance") {
		t.Errorf("missing zero sum check in:\n%s", got)
	}
	if strings.Contains(got, "on the table") {
		t.Errorf("settled session should have no live trailer:\n%s", got)
	}
}

func TestSessionMarkdown_Empty(t *testing.T) {
	l := chipbook.NewLedger()
	s, err := l.CreateSession(chipbook.NewDate(2025, time.February, 1), "", chipbook.CashGame, "", "")
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	got, err := SessionMarkdown(l, s)
	if err != nil {
		t.Fatalf("SessionMarkdown: %v", err)
	}
	if strings.Contains(got, "books") || strings.Contains(got, "on the table") {
		t.Errorf("empty session should have no check trailer:\n%s", got)
	}
}

func TestSessionMarkdown_Unknown(t *testing.T) {
	l := chipbook.NewLedger()
	if _, err := SessionMarkdown(l, "nope"); err == nil {
		t.Fatal("expected an error for an unknown session")
	}
}

func TestImportLogText(t *testing.T) {
	res := &chipbook.ImportResult{
		Errors: []chipbook.ImportIssue{
			{Row: 2, Session: "1/2/2025", Message: `malformed cell "abc"`},
		},
		Warnings: []chipbook.ImportIssue{
			{Row: 3, Message: `duplicate player "zach"`},
			{Session: "1/8/2025", Message: "results sum to +$10.00, expected zero"},
		},
	}

	got := ImportLogText(res)
	want := "ERRORS\n" +
		"  row 2, session 1/2/2025: malformed cell \"abc\"\n" +
		"\n" +
		"WARNINGS\n" +
		"  row 3: duplicate player \"zach\"\n" +
		"  session 1/8/2025: results sum to +$10.00, expected zero\n" +
		"\n"
	if got != want {
		t.Errorf("got:\n%q\nwant:\n%q", got, want)
	}
}

func TestImportLogText_OmitsEmptySections(t *testing.T) {
	warningsOnly := &chipbook.ImportResult{
		Warnings: []chipbook.ImportIssue{{Row: 3, Message: "no player name"}},
	}
	got := ImportLogText(warningsOnly)
	if strings.Contains(got, "ERRORS") {
		t.Errorf("clean import should omit the ERRORS section:\n%q", got)
	}
	if !strings.Contains(got, "WARNINGS\n  row 3: no player name\n") {
		t.Errorf("missing warnings section:\n%q", got)
	}

	if got := ImportLogText(&chipbook.ImportResult{}); got != "" {
		t.Errorf("clean import should render empty, got %q", got)
	}
}

func TestImportSummaryText(t *testing.T) {
	res := chipbook.ImportGrid([][]any{
		{"Players", "1/2/2025"},
		{"Zach", "(30)"},
		{"Doug", "30.00"},
	}, "USD")
	if got, want := ImportSummaryText(res), "imported 1 sessions, 2 players, 2 results (0 warnings)"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	failed := &chipbook.ImportResult{Errors: []chipbook.ImportIssue{{Message: "boom"}}}
	if got, want := ImportSummaryText(failed), "import failed: 1 errors, 0 warnings"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
