package chipbook

import "fmt"

// zeroSumTolerance absorbs per-player rounding in hand-kept books.
const zeroSumTolerance = 0.01

// ZeroSumCheck is the outcome of balancing a session's books. Poker is a
// closed economy: every chip a player cashes out was bought in by someone at
// the same table, so the net results of a fully settled session must sum to
// zero within the tolerance.
type ZeroSumCheck struct {
	SessionID  string
	Difference Money
	IsValid    bool
	// Unsettled counts live players still on the table. Their results are
	// zero until they cash out, so the check is provisional while it is
	// non-zero.
	Unsettled int
}

func (c ZeroSumCheck) String() string {
	if c.IsValid {
		return "books balance"
	}
	return fmt.Sprintf("books off by %s", c.Difference.SignedString())
}

// ValidateZeroSum sums the net results of every player session in the
// session and checks the total against the tolerance. An imbalance is a
// warning for the caller to surface, never a refusal: hand-kept books are
// allowed to be slightly wrong.
func (l *Ledger) ValidateZeroSum(sessionID string) ZeroSumCheck {
	check := ZeroSumCheck{SessionID: sessionID}
	s, known := l.Session(sessionID)
	var sum Money
	for ps := range l.PlayerSessions(BySession(sessionID)) {
		sum = sum.Add(ps.NetResult())
		if _, settled := ps.CashOut(); !settled && known && !s.IsImported() {
			check.Unsettled++
		}
	}
	check.Difference = sum
	check.IsValid = !sum.Abs().GreaterThan(M(zeroSumTolerance, sum.Currency()))
	return check
}
