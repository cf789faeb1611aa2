package chipbook

import (
	"math"
	"sort"
	"strings"
)

// BalancePoint is one session's mark on a player's cumulative profit curve.
type BalancePoint struct {
	SessionID string
	Date      Date
	Balance   Money
}

// SessionResult is a single session outcome, used for the best and worst
// entries of a player's record.
type SessionResult struct {
	SessionID string
	Date      Date
	Net       Money
}

// PlayerStats is one player's record over a set of completed sessions.
//
// Variance and StdDeviation are population figures: the sessions played are
// the whole population of interest, not a sample of a larger one, so the
// divisor is the session count.
type PlayerStats struct {
	PlayerID     string
	Name         string
	SessionCount int
	TotalProfit  Money
	TotalBuyIns  Money
	AvgWinLoss   Money
	WinRate      Percent
	ROI          Percent
	Variance     float64
	StdDeviation float64
	Best         SessionResult
	Worst        SessionResult
	// BalanceHistory holds the running profit after each session in
	// chronological order, same-day sessions in ledger order.
	BalanceHistory []BalancePoint
}

// stakeOf estimates the money a player put on the table in one session.
// Recorded buy-ins are the truth when any exist. Imported results carry only
// a zero placeholder buy-in, so the estimate falls back to cash-out minus
// net when the cash-out is known, and to the loss magnitude otherwise. That
// floor undercounts the stakes behind wins, so ROI runs optimistic on
// imported data.
func stakeOf(ps PlayerSession) Money {
	total := ps.TotalBuyIns()
	if !total.IsZero() {
		return total
	}
	if cash, ok := ps.CashOut(); ok {
		return cash.Sub(ps.NetResult())
	}
	return ps.NetResult().Abs()
}

// PlayerStatistics computes a player's record over the completed sessions
// whose date falls in the period. A zero period is unbounded. A player with
// no qualifying sessions gets a zero-valued record with an empty history.
func (l *Ledger) PlayerStatistics(playerID string, period Range) PlayerStats {
	stats := PlayerStats{PlayerID: playerID}
	if p, ok := l.Player(playerID); ok {
		stats.Name = p.Name()
	}

	var nets []float64
	var balance Money
	wins := 0
	for s := range l.Sessions(ByRange(period), ByCompleted()) {
		for ps := range l.PlayerSessions(BySession(s.id), ByPlayer(playerID)) {
			net := ps.NetResult()
			stats.TotalProfit = stats.TotalProfit.Add(net)
			stats.TotalBuyIns = stats.TotalBuyIns.Add(stakeOf(ps))
			if net.IsPositive() {
				wins++
			}
			result := SessionResult{SessionID: s.id, Date: s.date, Net: net}
			if len(nets) == 0 || net.GreaterThan(stats.Best.Net) {
				stats.Best = result
			}
			if len(nets) == 0 || net.LessThan(stats.Worst.Net) {
				stats.Worst = result
			}
			balance = balance.Add(net)
			stats.BalanceHistory = append(stats.BalanceHistory, BalancePoint{
				SessionID: s.id,
				Date:      s.date,
				Balance:   balance,
			})
			nets = append(nets, net.AsFloat())
		}
	}

	n := len(nets)
	stats.SessionCount = n
	if n == 0 {
		return stats
	}
	stats.AvgWinLoss = stats.TotalProfit.Div(int64(n))
	stats.WinRate = Percent(100 * float64(wins) / float64(n))
	if !stats.TotalBuyIns.IsZero() {
		stats.ROI = Percent(100 * stats.TotalProfit.AsFloat() / stats.TotalBuyIns.AsFloat())
	}

	mean := 0.0
	for _, x := range nets {
		mean += x
	}
	mean /= float64(n)
	for _, x := range nets {
		stats.Variance += (x - mean) * (x - mean)
	}
	stats.Variance /= float64(n)
	stats.StdDeviation = math.Sqrt(stats.Variance)
	return stats
}

// AllStatistics computes the leaderboard for the period: one record per
// player with at least one qualifying session, ordered by total profit
// descending, name ascending on ties.
func (l *Ledger) AllStatistics(period Range) []PlayerStats {
	var out []PlayerStats
	for p := range l.Players() {
		stats := l.PlayerStatistics(p.id, period)
		if stats.SessionCount == 0 {
			continue
		}
		out = append(out, stats)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].TotalProfit.Equal(out[j].TotalProfit) {
			return out[i].TotalProfit.GreaterThan(out[j].TotalProfit)
		}
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out
}
