package chipbook

import (
	"strings"
	"testing"
)

// resultsGrid is the spreadsheet layout most home games keep: a player
// column, one column per session date, then aggregate columns.
func resultsGrid() [][]any {
	return [][]any{
		{"Players", "1/2/2025", "1/8/2025", "Total", "Average"},
		{"Zach", "120.00", "(35)", "85.00", "42.50"},
		{"Doug", "-120", "35.00", "-85", "-42.50"},
	}
}

func TestImportGrid(t *testing.T) {
	res := ImportGrid(resultsGrid(), "USD")

	if !res.Success() {
		t.Fatalf("ImportGrid failed: %v", res.Errors)
	}
	if len(res.Warnings) != 0 {
		t.Errorf("Warnings = %v, want none", res.Warnings)
	}
	if len(res.Sessions) != 2 {
		t.Fatalf("Sessions = %d, want 2", len(res.Sessions))
	}
	if len(res.Players) != 2 {
		t.Fatalf("Players = %d, want 2", len(res.Players))
	}
	if len(res.PlayerSessions) != 4 {
		t.Fatalf("PlayerSessions = %d, want 4", len(res.PlayerSessions))
	}

	if res.Sessions[0].Date() != NewDate(2025, 1, 2) || res.Sessions[1].Date() != NewDate(2025, 1, 8) {
		t.Errorf("session dates = %v, %v", res.Sessions[0].Date(), res.Sessions[1].Date())
	}
	for _, s := range res.Sessions {
		if !s.IsImported() || !s.IsComplete() {
			t.Errorf("session %v should be imported and complete", s.Date())
		}
	}
	if res.Players[0].Name() != "Zach" || res.Players[1].Name() != "Doug" {
		t.Errorf("players = %q, %q", res.Players[0].Name(), res.Players[1].Name())
	}

	// Net results per player and session, in the requested currency.
	net := func(playerID, sessionID string) Money {
		t.Helper()
		for _, ps := range res.PlayerSessions {
			if ps.PlayerID() == playerID && ps.SessionID() == sessionID {
				return ps.NetResult()
			}
		}
		t.Fatalf("no player session for %q at %q", playerID, sessionID)
		return Money{}
	}
	zach, doug := res.Players[0].ID(), res.Players[1].ID()
	s1, s2 := res.Sessions[0].ID(), res.Sessions[1].ID()
	if got := net(zach, s1); !got.Equal(USD(120)) {
		t.Errorf("zach session 1 = %v, want %v", got, USD(120))
	}
	if got := net(zach, s2); !got.Equal(USD(-35)) {
		t.Errorf("zach session 2 = %v, want %v", got, USD(-35))
	}
	if got := net(doug, s1); !got.Equal(USD(-120)) {
		t.Errorf("doug session 1 = %v, want %v", got, USD(-120))
	}
	if got := net(doug, s2); !got.Equal(USD(35)) {
		t.Errorf("doug session 2 = %v, want %v", got, USD(35))
	}
}

func TestImportGrid_HeaderStopsAtFirstNonDate(t *testing.T) {
	tests := []struct {
		name   string
		header []any
		want   int
	}{
		{name: "aggregates after dates", header: []any{"Players", "1/2/2025", "1/8/2025", "Total", "Average"}, want: 2},
		{name: "all dates", header: []any{"Players", "1/2/2025", "1/8/2025"}, want: 2},
		{name: "number ends the run", header: []any{"Players", "1/2/2025", 42.0, "1/8/2025"}, want: 1},
		{name: "date after aggregate is ignored", header: []any{"Players", "1/2/2025", "Total", "1/8/2025"}, want: 1},
		{name: "two digit years", header: []any{"Players", "1/2/25", "1/8/25", "Total"}, want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ImportGrid([][]any{tt.header}, "USD")
			if len(res.Sessions) != tt.want {
				t.Errorf("Sessions = %d, want %d", len(res.Sessions), tt.want)
			}
		})
	}
}

func TestImportGrid_DuplicatePlayer(t *testing.T) {
	rows := [][]any{
		{"Players", "1/2/2025"},
		{"Zach", "120.00"},
		{"zach", "50.00"},
		{"Doug", "-120.00"},
	}
	res := ImportGrid(rows, "USD")

	// A duplicate name is a warning, never an error.
	if !res.Success() {
		t.Fatalf("Errors = %v, want none", res.Errors)
	}
	if len(res.Warnings) != 2 {
		t.Fatalf("Warnings = %v, want the duplicate name and the imbalance", res.Warnings)
	}
	w := res.Warnings[0]
	if w.Row != 3 || !strings.Contains(w.Message, `duplicate player "zach"`) || !strings.Contains(w.Message, "row 2") {
		t.Errorf("warning = %+v, want the duplicate row pointing at the first occurrence", w)
	}

	// The repeated row adds no roster entry but its results still count.
	if len(res.Players) != 2 {
		t.Errorf("Players = %d, want 2", len(res.Players))
	}
	if len(res.PlayerSessions) != 3 {
		t.Fatalf("PlayerSessions = %d, want 3", len(res.PlayerSessions))
	}
	seat := res.PlayerSessions[1]
	if seat.PlayerID() != res.Players[0].ID() || !seat.NetResult().Equal(USD(50)) {
		t.Errorf("duplicate row seat = %q %v, want Zach's id with %v", seat.PlayerID(), seat.NetResult(), USD(50))
	}

	// With every row counted the session is off by +50, and that surfaces.
	z := res.Warnings[1]
	if z.Session != "1/2/2025" || !strings.Contains(z.Message, "expected zero") {
		t.Errorf("warning = %+v, want the zero-sum imbalance", z)
	}
}

func TestImportGrid_BlankRows(t *testing.T) {
	rows := [][]any{
		{"Players", "1/2/2025"},
		{"", "120.00"}, // results with no name
		{"", ""},       // fully blank, common padding in sheets
		{nil, nil},
		{"Doug", "-120.00"},
		{"Mike", "120.00"},
	}
	res := ImportGrid(rows, "USD")

	if !res.Success() {
		t.Fatalf("Errors = %v, want none", res.Errors)
	}
	if len(res.Warnings) != 1 {
		t.Fatalf("Warnings = %v, want one for the orphaned results", res.Warnings)
	}
	if res.Warnings[0].Row != 2 || !strings.Contains(res.Warnings[0].Message, "no player name") {
		t.Errorf("warning = %+v", res.Warnings[0])
	}
	if len(res.Players) != 2 || res.Players[0].Name() != "Doug" {
		t.Errorf("Players = %v, want Doug and Mike", res.Players)
	}
}

func TestImportGrid_MalformedCell(t *testing.T) {
	rows := [][]any{
		{"Players", "1/2/2025", "1/8/2025"},
		{"Zach", "abc", "10"},
	}
	res := ImportGrid(rows, "USD")

	if res.Success() {
		t.Fatal("a malformed amount should fail the import")
	}
	if len(res.Errors) != 1 {
		t.Fatalf("Errors = %v, want one", res.Errors)
	}
	e := res.Errors[0]
	if e.Row != 2 || e.Session != "1/2/2025" || !strings.Contains(e.Message, `"abc"`) {
		t.Errorf("error = %+v", e)
	}
	// The rest of the row is still read so all problems surface in one pass.
	if len(res.PlayerSessions) != 1 {
		t.Errorf("PlayerSessions = %d, want 1", len(res.PlayerSessions))
	}
}

func TestImportGrid_SittingOut(t *testing.T) {
	rows := [][]any{
		{"Players", "1/2/2025", "1/8/2025"},
		{"Zach", "", "50"},   // sat out the first session
		{"Doug", "-50", nil}, // short of a cell for the second
	}
	res := ImportGrid(rows, "USD")

	if !res.Success() {
		t.Fatalf("Errors = %v, want none", res.Errors)
	}
	if len(res.PlayerSessions) != 2 {
		t.Errorf("PlayerSessions = %d, want 2, blank cells mean sitting out", len(res.PlayerSessions))
	}
}

func TestImportGrid_NumericCells(t *testing.T) {
	// Some sources deliver numbers instead of strings.
	rows := [][]any{
		{"Players", "1/2/2025"},
		{"Zach", 120.5},
		{"Doug", -120},
		{"Mike", true}, // not a cell type we know
	}
	res := ImportGrid(rows, "USD")

	if res.Success() {
		t.Fatal("an unsupported cell type should fail the import")
	}
	if len(res.Errors) != 1 || !strings.Contains(res.Errors[0].Message, "bool") {
		t.Errorf("Errors = %v, want one naming the bool cell", res.Errors)
	}
	if len(res.PlayerSessions) != 2 {
		t.Fatalf("PlayerSessions = %d, want 2", len(res.PlayerSessions))
	}
	if got := res.PlayerSessions[0].NetResult(); !got.Equal(USD(120.5)) {
		t.Errorf("float cell = %v, want %v", got, USD(120.5))
	}
	if got := res.PlayerSessions[1].NetResult(); !got.Equal(USD(-120)) {
		t.Errorf("int cell = %v, want %v", got, USD(-120))
	}
}

func TestImportGrid_ZeroSumWarning(t *testing.T) {
	rows := [][]any{
		{"Players", "1/2/2025"},
		{"Zach", "120.00"},
		{"Doug", "-100.00"}, // somebody pocketed 20
	}
	res := ImportGrid(rows, "USD")

	// Imbalance is flagged but the import still goes through.
	if !res.Success() {
		t.Fatalf("Errors = %v, want none", res.Errors)
	}
	if len(res.Warnings) != 1 {
		t.Fatalf("Warnings = %v, want one", res.Warnings)
	}
	w := res.Warnings[0]
	if w.Session != "1/2/2025" || !strings.Contains(w.Message, "expected zero") {
		t.Errorf("warning = %+v", w)
	}
}

func TestImportGrid_Degenerate(t *testing.T) {
	if res := ImportGrid(nil, "USD"); res.Success() {
		t.Error("empty grid should fail")
	}
	if res := ImportGrid([][]any{{}}, "USD"); res.Success() {
		t.Error("empty header should fail")
	}
	res := ImportGrid([][]any{{"Players", "Total"}}, "USD")
	if res.Success() || !strings.Contains(res.Errors[0].Message, "no session date columns") {
		t.Errorf("header without dates should fail, got %v", res.Errors)
	}
	res = ImportGrid([][]any{{"Players", "1/2/2025"}}, "USD")
	if res.Success() || !strings.Contains(res.Errors[0].Message, "no player rows") {
		t.Errorf("header-only grid should fail, got %v", res.Errors)
	}
}

func TestAdoptImport(t *testing.T) {
	l, zach, _ := twoPlayerLedger(t)

	// A manual session that must survive every re-import.
	manual, _ := l.CreateSession(NewDate(2025, 3, 1), "march game", CashGame, "", "")
	seat(t, l, manual, zach, USD(100))

	res := ImportGrid(resultsGrid(), "USD")
	if err := l.AdoptImport(res); err != nil {
		t.Fatalf("AdoptImport: %v", err)
	}

	// "Zach" from the sheet is the roster's Zach, matched by folded name.
	if p, ok := l.PlayerByName("zach"); !ok || p.ID() != zach {
		t.Errorf("sheet Zach resolved to %q, want local id %q", p.ID(), zach)
	}
	// "Doug" matched too, so the roster did not grow.
	var roster int
	for range l.Players() {
		roster++
	}
	if roster != 2 {
		t.Errorf("roster = %d, want 2", roster)
	}

	imported := 0
	for range l.Sessions(ByImported()) {
		imported++
	}
	if imported != 2 {
		t.Errorf("imported sessions = %d, want 2", imported)
	}
	// Zach now has the manual seat plus two imported results.
	var zachSeats int
	for range l.PlayerSessions(ByPlayer(zach)) {
		zachSeats++
	}
	if zachSeats != 3 {
		t.Errorf("zach player sessions = %d, want 3", zachSeats)
	}

	// Re-importing replaces the previous batch wholesale.
	again := ImportGrid([][]any{
		{"Players", "1/2/2025"},
		{"Zach", "80.00"},
		{"Doug", "-80.00"},
	}, "USD")
	if err := l.AdoptImport(again); err != nil {
		t.Fatalf("AdoptImport again: %v", err)
	}
	imported = 0
	for range l.Sessions(ByImported()) {
		imported++
	}
	if imported != 1 {
		t.Errorf("imported sessions after re-import = %d, want 1", imported)
	}
	if _, ok := l.Session(manual); !ok {
		t.Error("re-import should not touch manual sessions")
	}
	zachSeats = 0
	for range l.PlayerSessions(ByPlayer(zach)) {
		zachSeats++
	}
	if zachSeats != 2 {
		t.Errorf("zach player sessions after re-import = %d, want 2", zachSeats)
	}
}

func TestAdoptImport_RefusesErrors(t *testing.T) {
	l := NewLedger()
	res := ImportGrid([][]any{
		{"Players", "1/2/2025"},
		{"Zach", "abc"},
	}, "USD")
	if err := l.AdoptImport(res); err == nil {
		t.Fatal("adopting a failed import should error")
	}
	var sessions int
	for range l.Sessions() {
		sessions++
	}
	if sessions != 0 {
		t.Errorf("ledger got %d sessions from a refused import", sessions)
	}
}

func TestImportIssue_String(t *testing.T) {
	tests := []struct {
		name  string
		issue ImportIssue
		want  string
	}{
		{name: "row and session", issue: ImportIssue{Row: 3, Session: "1/2/2025", Message: "boom"}, want: "row 3, session 1/2/2025: boom"},
		{name: "row only", issue: ImportIssue{Row: 3, Message: "boom"}, want: "row 3: boom"},
		{name: "session only", issue: ImportIssue{Session: "1/2/2025", Message: "boom"}, want: "session 1/2/2025: boom"},
		{name: "bare", issue: ImportIssue{Message: "boom"}, want: "boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.issue.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}
