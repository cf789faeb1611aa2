package chipbook

import "testing"

// USD is a helper for test to create usd money from const
func USD(v float64) Money { return M(v, "USD") }

// NO is a helper for test to create money from const with no currency set
func NO(v float64) Money { return M(v, "") }

// twoPlayerLedger is a fixture: an empty ledger with Zach and Doug on the
// roster. Returns their ids.
func twoPlayerLedger(t *testing.T) (l *Ledger, zach, doug string) {
	t.Helper()
	l = NewLedger()
	var err error
	zach, err = l.CreatePlayer("Zach")
	if err != nil {
		t.Fatalf("CreatePlayer(Zach): %v", err)
	}
	doug, err = l.CreatePlayer("Doug")
	if err != nil {
		t.Fatalf("CreatePlayer(Doug): %v", err)
	}
	return l, zach, doug
}

// seat adds the player to the session failing the test on error.
func seat(t *testing.T, l *Ledger, sessionID, playerID string, buyIn Money) string {
	t.Helper()
	psID, err := l.AddPlayerToSession(sessionID, playerID, buyIn)
	if err != nil {
		t.Fatalf("AddPlayerToSession: %v", err)
	}
	return psID
}

// cashOut settles the player session failing the test on error.
func cashOut(t *testing.T, l *Ledger, playerSessionID string, amount Money) {
	t.Helper()
	if err := l.SetCashOut(playerSessionID, amount); err != nil {
		t.Fatalf("SetCashOut: %v", err)
	}
}
