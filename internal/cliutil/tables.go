// Package cliutil renders brick and trade data as terminal tables, shared
// by every cmd/renkodiscover subcommand.
package cliutil

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/forrestang/RenkoDiscovery/internal/backtest"
	"github.com/forrestang/RenkoDiscovery/internal/renko"
)

// PrintBricks writes a brick sequence as a markdown-style table to w.
func PrintBricks(w io.Writer, bricks []renko.Brick) {
	if len(bricks) == 0 {
		fmt.Fprintln(w, "_no bricks_")
		return
	}

	table := tablewriter.NewTable(w,
		tablewriter.WithRenderer(renderer.NewMarkdown()),
		tablewriter.WithHeaderAutoFormat(tw.Off),
	)
	table.Header([]string{"#", "Open", "High", "Low", "Close", "Dir", "Reversal", "Closed"})

	for i, b := range bricks {
		table.Append([]string{
			fmt.Sprintf("%d", i),
			fmt.Sprintf("%.5f", b.Open),
			fmt.Sprintf("%.5f", b.High),
			fmt.Sprintf("%.5f", b.Low),
			fmt.Sprintf("%.5f", b.Close),
			directionLabel(b.Direction),
			fmt.Sprintf("%t", b.IsReversal),
			time.UnixMilli(b.TimestampClose).UTC().Format(time.RFC3339),
		})
	}
	table.Render()
}

// PrintTrades writes a trade ledger, colorizing outcomes by kind: green for
// target exits, red for stops, yellow for open trades. The color does not
// depend on the sign of the result.
func PrintTrades(w io.Writer, trades []backtest.Trade) {
	if len(trades) == 0 {
		fmt.Fprintln(w, "_no trades_")
		return
	}

	table := tablewriter.NewTable(w,
		tablewriter.WithRenderer(renderer.NewMarkdown()),
		tablewriter.WithHeaderAutoFormat(tw.Off),
	)
	table.Header([]string{"Signal", "Entry", "Exit", "Dir", "Outcome", "Result", "Bars"})

	for _, tr := range trades {
		table.Append([]string{
			tr.Signal,
			fmt.Sprintf("%d", tr.EntryIndex),
			fmt.Sprintf("%d", tr.ExitIndex),
			directionLabel(tr.Direction),
			outcomeString(tr.Outcome),
			fmt.Sprintf("%.4f", tr.Result),
			fmt.Sprintf("%d", tr.BarsHeld),
		})
	}
	table.Render()
}

// PrintSummaries writes one row per signal's aggregate statistics.
func PrintSummaries(w io.Writer, summaries map[string]backtest.Summary) {
	if len(summaries) == 0 {
		fmt.Fprintln(w, "_no signals_")
		return
	}

	table := tablewriter.NewTable(w,
		tablewriter.WithRenderer(renderer.NewMarkdown()),
		tablewriter.WithHeaderAutoFormat(tw.Off),
	)
	table.Header([]string{"Signal", "Count", "Win%", "PF", "Expectancy", "TotalR", "MaxDD", "Sharpe"})

	for name, s := range summaries {
		winRate := color.YellowString("%.1f%%", s.WinRate*100)
		if s.WinRate >= 0.5 {
			winRate = color.GreenString("%.1f%%", s.WinRate*100)
		} else if s.Count > 0 {
			winRate = color.RedString("%.1f%%", s.WinRate*100)
		}
		table.Append([]string{
			name,
			fmt.Sprintf("%d", s.Count),
			winRate,
			fmt.Sprintf("%.2f", s.ProfitFactor),
			fmt.Sprintf("%.4f", s.Expectancy),
			fmt.Sprintf("%.2f", s.TotalR),
			fmt.Sprintf("%.2f", s.MaxDrawdown),
			fmt.Sprintf("%.2f", s.Sharpe),
		})
	}
	table.Render()
}

func directionLabel(dir renko.Direction) string {
	switch dir {
	case renko.Up:
		return color.GreenString("UP")
	case renko.Down:
		return color.RedString("DOWN")
	default:
		return "FLAT"
	}
}

func outcomeString(outcome backtest.Outcome) string {
	switch outcome {
	case backtest.OutcomeTarget:
		return color.GreenString(strings.ToUpper(string(outcome)))
	case backtest.OutcomeStop:
		return color.RedString(strings.ToUpper(string(outcome)))
	default:
		return color.YellowString(strings.ToUpper(string(outcome)))
	}
}
