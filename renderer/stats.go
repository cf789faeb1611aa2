package renderer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/etnz/chipbook"
	md "github.com/nao1215/markdown"
)

// StatisticsMarkdown renders the leaderboard: one row per player, ordered by
// total profit as AllStatistics yields them.
func StatisticsMarkdown(period chipbook.Range, stats []chipbook.PlayerStats) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Standings, %s", periodLabel(period)))

	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
		},
		Header: []string{"Player", "Sessions", "Profit", "Avg", "Win Rate", "ROI", "Std Dev"},
		Rows:   [][]string{},
	}
	for _, ps := range stats {
		table.Rows = append(table.Rows, []string{
			ps.Name,
			strconv.Itoa(ps.SessionCount),
			ps.TotalProfit.SignedString(),
			ps.AvgWinLoss.SignedString(),
			ps.WinRate.String(),
			ps.ROI.SignedString(),
			fmt.Sprintf("%.2f", ps.StdDeviation),
		})
	}
	doc.Table(table)

	return doc.String()
}

// statisticsHeader is the column list of the CSV export. Money columns hold
// bare numbers, dates the YYYY-MM-DD form, so the file loads cleanly into a
// spreadsheet.
var statisticsHeader = []string{
	"player", "sessions", "total_profit", "total_buy_ins", "avg_win_loss",
	"win_rate", "roi", "variance", "std_deviation",
	"best_date", "best_net", "worst_date", "worst_net",
}

// StatisticsCSV renders player records as CSV, one row per player. Players
// with no sessions in the period keep empty best and worst columns.
func StatisticsCSV(stats []chipbook.PlayerStats) (string, error) {
	var sb strings.Builder
	w := csv.NewWriter(&sb)

	if err := w.Write(statisticsHeader); err != nil {
		return "", err
	}
	for _, ps := range stats {
		row := []string{
			ps.Name,
			strconv.Itoa(ps.SessionCount),
			formatAmount(ps.TotalProfit),
			formatAmount(ps.TotalBuyIns),
			formatAmount(ps.AvgWinLoss),
			fmt.Sprintf("%.2f", float64(ps.WinRate)),
			fmt.Sprintf("%.2f", float64(ps.ROI)),
			fmt.Sprintf("%.4f", ps.Variance),
			fmt.Sprintf("%.4f", ps.StdDeviation),
			"", "", "", "",
		}
		if ps.Best.SessionID != "" {
			row[9] = ps.Best.Date.String()
			row[10] = formatAmount(ps.Best.Net)
			row[11] = ps.Worst.Date.String()
			row[12] = formatAmount(ps.Worst.Net)
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	return sb.String(), w.Error()
}

func formatAmount(m chipbook.Money) string {
	return fmt.Sprintf("%.2f", m.AsFloat())
}
