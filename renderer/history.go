package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/chipbook"
	md "github.com/nao1215/markdown"
)

// HistoryMarkdown renders one player's balance curve: the running profit
// after every completed session, oldest first.
func HistoryMarkdown(stats chipbook.PlayerStats) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("History for %s", stats.Name))

	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
		},
		Header: []string{"Date", "Net", "Balance"},
		Rows:   [][]string{},
	}
	var prev chipbook.Money
	for _, point := range stats.BalanceHistory {
		net := point.Balance.Sub(prev)
		prev = point.Balance
		table.Rows = append(table.Rows, []string{
			point.Date.String(),
			net.SignedString(),
			point.Balance.SignedString(),
		})
	}
	doc.Table(table)

	return doc.String()
}
