package display

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"StockAdvisor/internal/model"
	"StockAdvisor/internal/recorder"
)

var (
	titleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#7C3AED")).
		Padding(0, 1)

	panelStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#3B82F6")).
		Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#6B7280")).
		Width(12)

	mutedStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#6B7280")).
		Italic(true)

	errorStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#EF4444")).
		Bold(true)

	actionStyles = map[model.Action]lipgloss.Style{
		model.ActionBuy:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#10B981")),
		model.ActionHold: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F59E0B")),
		model.ActionSell: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#EF4444")),
	}
)

func row(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label), value)
}

// Analysis renders a full analysis report.
func Analysis(r *model.AnalysisResult) string {
	rec := r.Recommendation
	action := string(rec.Action)
	if st, ok := actionStyles[rec.Action]; ok {
		action = st.Render(action)
	}

	indicators := strings.Join([]string{
		row("Last price", r.LastPrice),
		row("SMA20", r.SMA20),
		row("SMA50", r.SMA50),
		row("RSI14", r.RSI),
	}, "\n")

	advice := strings.Join([]string{
		row("Action", action),
		row("Confidence", fmt.Sprintf("%d/10", rec.Confidence)),
		"",
		lipgloss.NewStyle().Width(60).Render(rec.Explanation),
	}, "\n")

	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("📊 "+r.Ticker),
		panelStyle.Render(indicators),
		panelStyle.Render(advice),
		mutedStyle.Render(rec.Disclaimer),
	)
}

// History renders the recency list, most recent first.
func History(history []string) string {
	if len(history) == 0 {
		return mutedStyle.Render("No tickers analyzed yet.")
	}
	lines := make([]string, len(history))
	for i, t := range history {
		lines[i] = fmt.Sprintf("%2d. %s", i+1, t)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Recent tickers"),
		panelStyle.Render(strings.Join(lines, "\n")),
	)
}

// Runs renders recorded analysis attempts as a table.
func Runs(events []recorder.AnalysisEvent) string {
	if len(events) == 0 {
		return mutedStyle.Render("No analysis runs recorded.")
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%-19s  %-8s  %-6s  %-6s  %-4s  %-11s  %8s\n",
		"TIME", "TICKER", "SOURCE", "ACTION", "CONF", "STATUS", "TOOK"))
	for _, e := range events {
		conf := ""
		if e.Confidence > 0 {
			conf = fmt.Sprintf("%d", e.Confidence)
		}
		line := fmt.Sprintf("%-19s  %-8s  %-6s  %-6s  %-4s  %-11s  %8s",
			e.Time.Local().Format("2006-01-02 15:04:05"), e.Ticker, e.Outcome, e.Action, conf, e.RecStatus,
			e.Duration.Round(time.Millisecond))
		if e.Outcome == recorder.OutcomeError {
			line = errorStyle.Render(line) + "\n    " + mutedStyle.Render(e.Error)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return panelStyle.Render(strings.TrimRight(b.String(), "\n"))
}

// Error renders a failure message.
func Error(msg string) string {
	return errorStyle.Render("✗ " + msg)
}
