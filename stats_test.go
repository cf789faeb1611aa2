package chipbook

import (
	"slices"
	"testing"
)

// statsLedger is a fixture with two completed sessions.
//
//	2025-01-02: zach -30.00, doug +30.00
//	2025-01-08: zach -26.50, doug +26.50
func statsLedger(t *testing.T) (l *Ledger, zach, doug string) {
	t.Helper()
	l, zach, doug = twoPlayerLedger(t)

	s1, _ := l.CreateSession(NewDate(2025, 1, 2), "", CashGame, "", "")
	cashOut(t, l, seat(t, l, s1, zach, USD(100)), USD(70))
	cashOut(t, l, seat(t, l, s1, doug, USD(100)), USD(130))
	if err := l.CompleteSession(s1); err != nil {
		t.Fatalf("CompleteSession: %v", err)
	}

	s2, _ := l.CreateSession(NewDate(2025, 1, 8), "", CashGame, "", "")
	cashOut(t, l, seat(t, l, s2, zach, USD(100)), USD(73.50))
	cashOut(t, l, seat(t, l, s2, doug, USD(100)), USD(126.50))
	if err := l.CompleteSession(s2); err != nil {
		t.Fatalf("CompleteSession: %v", err)
	}
	return l, zach, doug
}

func TestPlayerStatistics(t *testing.T) {
	l, zach, doug := statsLedger(t)

	got := l.PlayerStatistics(zach, Range{})
	if got.Name != "Zach" {
		t.Errorf("Name = %q, want Zach", got.Name)
	}
	if got.SessionCount != 2 {
		t.Fatalf("SessionCount = %d, want 2", got.SessionCount)
	}
	if !got.TotalProfit.Equal(USD(-56.50)) {
		t.Errorf("TotalProfit = %v, want %v", got.TotalProfit, USD(-56.50))
	}
	if !got.TotalBuyIns.Equal(USD(200)) {
		t.Errorf("TotalBuyIns = %v, want %v", got.TotalBuyIns, USD(200))
	}
	if !got.AvgWinLoss.Equal(USD(-28.25)) {
		t.Errorf("AvgWinLoss = %v, want %v", got.AvgWinLoss, USD(-28.25))
	}
	if !got.WinRate.Equal(0) {
		t.Errorf("WinRate = %v, want 0", got.WinRate)
	}
	if !got.ROI.Equal(-28.25) {
		t.Errorf("ROI = %v, want -28.25", got.ROI)
	}
	// Results -30 and -26.50: mean -28.25, squared deviations 3.0625 each,
	// population divisor 2.
	if got.Variance != 3.0625 {
		t.Errorf("Variance = %v, want 3.0625", got.Variance)
	}
	if got.StdDeviation != 1.75 {
		t.Errorf("StdDeviation = %v, want 1.75", got.StdDeviation)
	}
	if !got.Best.Net.Equal(USD(-26.50)) || got.Best.Date != NewDate(2025, 1, 8) {
		t.Errorf("Best = %+v, want -26.50 on 2025-01-08", got.Best)
	}
	if !got.Worst.Net.Equal(USD(-30)) || got.Worst.Date != NewDate(2025, 1, 2) {
		t.Errorf("Worst = %+v, want -30 on 2025-01-02", got.Worst)
	}

	// The winning record mirrors.
	got = l.PlayerStatistics(doug, Range{})
	if !got.WinRate.Equal(100) {
		t.Errorf("WinRate = %v, want 100", got.WinRate)
	}
	if !got.ROI.Equal(28.25) {
		t.Errorf("ROI = %v, want 28.25", got.ROI)
	}
	if !got.TotalProfit.Equal(USD(56.50)) {
		t.Errorf("TotalProfit = %v, want %v", got.TotalProfit, USD(56.50))
	}
	if !got.Best.Net.Equal(USD(30)) || !got.Worst.Net.Equal(USD(26.50)) {
		t.Errorf("Best/Worst = %v/%v, want 30/26.50", got.Best.Net, got.Worst.Net)
	}
}

func TestPlayerStatistics_BalanceHistory(t *testing.T) {
	l, zach, _ := statsLedger(t)

	got := l.PlayerStatistics(zach, Range{}).BalanceHistory
	if len(got) != 2 {
		t.Fatalf("BalanceHistory = %d points, want 2", len(got))
	}
	if got[0].Date != NewDate(2025, 1, 2) || !got[0].Balance.Equal(USD(-30)) {
		t.Errorf("history[0] = %+v, want -30 on 2025-01-02", got[0])
	}
	if got[1].Date != NewDate(2025, 1, 8) || !got[1].Balance.Equal(USD(-56.50)) {
		t.Errorf("history[1] = %+v, want -56.50 on 2025-01-08", got[1])
	}
}

func TestPlayerStatistics_ChronologicalHistory(t *testing.T) {
	l, zach, doug := twoPlayerLedger(t)

	// Recorded backwards, the curve still runs forward.
	feb, _ := l.CreateSession(NewDate(2025, 2, 1), "", CashGame, "", "")
	cashOut(t, l, seat(t, l, feb, zach, USD(100)), USD(110))
	cashOut(t, l, seat(t, l, feb, doug, USD(100)), USD(90))
	if err := l.CompleteSession(feb); err != nil {
		t.Fatalf("CompleteSession: %v", err)
	}
	jan, _ := l.CreateSession(NewDate(2025, 1, 1), "", CashGame, "", "")
	cashOut(t, l, seat(t, l, jan, zach, USD(100)), USD(60))
	cashOut(t, l, seat(t, l, jan, doug, USD(100)), USD(140))
	if err := l.CompleteSession(jan); err != nil {
		t.Fatalf("CompleteSession: %v", err)
	}

	history := l.PlayerStatistics(zach, Range{}).BalanceHistory
	var dates []Date
	for _, p := range history {
		dates = append(dates, p.Date)
	}
	want := []Date{NewDate(2025, 1, 1), NewDate(2025, 2, 1)}
	if !slices.Equal(dates, want) {
		t.Fatalf("history dates = %v, want %v", dates, want)
	}
	if !history[0].Balance.Equal(USD(-40)) || !history[1].Balance.Equal(USD(-30)) {
		t.Errorf("balances = %v, %v, want -40 then -30", history[0].Balance, history[1].Balance)
	}
}

func TestPlayerStatistics_SkipsLiveSessions(t *testing.T) {
	l, zach, _ := statsLedger(t)

	// A live session does not count until it completes.
	live, _ := l.CreateSession(NewDate(2025, 1, 15), "", CashGame, "", "")
	cashOut(t, l, seat(t, l, live, zach, USD(100)), USD(900))

	got := l.PlayerStatistics(zach, Range{})
	if got.SessionCount != 2 {
		t.Errorf("SessionCount = %d, want 2, live sessions excluded", got.SessionCount)
	}

	if err := l.CompleteSession(live); err != nil {
		t.Fatalf("CompleteSession: %v", err)
	}
	got = l.PlayerStatistics(zach, Range{})
	if got.SessionCount != 3 {
		t.Errorf("SessionCount = %d, want 3 once completed", got.SessionCount)
	}
}

func TestPlayerStatistics_Period(t *testing.T) {
	l, zach, _ := statsLedger(t)

	// Only the first session falls in the window.
	got := l.PlayerStatistics(zach, NewRange(NewDate(2025, 1, 1), NewDate(2025, 1, 5)))
	if got.SessionCount != 1 {
		t.Fatalf("SessionCount = %d, want 1", got.SessionCount)
	}
	if !got.TotalProfit.Equal(USD(-30)) {
		t.Errorf("TotalProfit = %v, want %v", got.TotalProfit, USD(-30))
	}
	// A single data point has no spread.
	if got.Variance != 0 || got.StdDeviation != 0 {
		t.Errorf("Variance/StdDeviation = %v/%v, want 0/0", got.Variance, got.StdDeviation)
	}
}

func TestPlayerStatistics_NoSessions(t *testing.T) {
	l, _, _ := statsLedger(t)
	idle, err := l.CreatePlayer("Idle")
	if err != nil {
		t.Fatalf("CreatePlayer: %v", err)
	}

	got := l.PlayerStatistics(idle, Range{})
	if got.SessionCount != 0 {
		t.Fatalf("SessionCount = %d, want 0", got.SessionCount)
	}
	if !got.TotalProfit.IsZero() || !got.AvgWinLoss.IsZero() {
		t.Errorf("zero record has money: %+v", got)
	}
	if len(got.BalanceHistory) != 0 {
		t.Errorf("BalanceHistory = %v, want empty", got.BalanceHistory)
	}
	if got.Best.SessionID != "" || got.Worst.SessionID != "" {
		t.Errorf("Best/Worst set on an empty record: %+v", got)
	}
}

func TestStakeOf(t *testing.T) {
	tests := []struct {
		name string
		ps   PlayerSession
		want Money
	}{
		{
			name: "recorded buy-ins win",
			ps: PlayerSession{
				buyIns:    []BuyIn{NewBuyIn(USD(100)), NewBuyIn(USD(80))},
				cashOut:   USD(150),
				cashedOut: true,
				netResult: USD(-30),
			},
			want: USD(180),
		},
		{
			name: "cash-out minus net when no buy-ins recorded",
			ps: PlayerSession{
				cashOut:   USD(150),
				cashedOut: true,
				netResult: USD(50),
			},
			want: USD(100),
		},
		{
			name: "imported loss falls back to its magnitude",
			ps:   PlayerSession{netResult: USD(-20)},
			want: USD(20),
		},
		{
			// The floor cannot see the stake behind a win, so it undercounts.
			name: "imported win falls back to its magnitude",
			ps:   PlayerSession{netResult: USD(120)},
			want: USD(120),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stakeOf(tt.ps); !got.Equal(tt.want) {
				t.Errorf("stakeOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPlayerStatistics_ImportedStakes(t *testing.T) {
	l, zach, _ := twoPlayerLedger(t)
	res := ImportGrid(resultsGrid(), "USD")
	if err := l.AdoptImport(res); err != nil {
		t.Fatalf("AdoptImport: %v", err)
	}

	// Zach's sheet results are +120 and -35. The placeholder buy-ins are
	// zero, so stakes come from the loss-magnitude floor: 120 + 35.
	got := l.PlayerStatistics(zach, Range{})
	if got.SessionCount != 2 {
		t.Fatalf("SessionCount = %d, want 2, imported sessions are complete", got.SessionCount)
	}
	if !got.TotalProfit.Equal(USD(85)) {
		t.Errorf("TotalProfit = %v, want %v", got.TotalProfit, USD(85))
	}
	if !got.TotalBuyIns.Equal(USD(155)) {
		t.Errorf("TotalBuyIns = %v, want %v", got.TotalBuyIns, USD(155))
	}
}

func TestAllStatistics(t *testing.T) {
	l := NewLedger()
	alice, _ := l.CreatePlayer("alice")
	zeke, _ := l.CreatePlayer("Zeke")
	mike, _ := l.CreatePlayer("Mike")
	if _, err := l.CreatePlayer("Idle"); err != nil {
		t.Fatalf("CreatePlayer: %v", err)
	}

	sid, _ := l.CreateSession(NewDate(2025, 1, 2), "", CashGame, "", "")
	cashOut(t, l, seat(t, l, sid, alice, USD(100)), USD(150))
	cashOut(t, l, seat(t, l, sid, zeke, USD(100)), USD(150))
	cashOut(t, l, seat(t, l, sid, mike, USD(100)), USD(0))
	if err := l.CompleteSession(sid); err != nil {
		t.Fatalf("CompleteSession: %v", err)
	}

	got := l.AllStatistics(Range{})
	if len(got) != 3 {
		t.Fatalf("AllStatistics = %d records, want 3, idle players omitted", len(got))
	}
	// Profit descending, case-folded name ascending on ties.
	var names []string
	for _, s := range got {
		names = append(names, s.Name)
	}
	want := []string{"alice", "Zeke", "Mike"}
	if !slices.Equal(names, want) {
		t.Errorf("leaderboard = %v, want %v", names, want)
	}
}
