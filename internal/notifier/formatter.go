package notifier

import (
	"fmt"
	"html"
	"strings"
	"time"

	"StockAdvisor/internal/model"
)

var actionIcon = map[model.Action]string{
	model.ActionBuy:  "🟢",
	model.ActionHold: "🟡",
	model.ActionSell: "🔴",
}

// FormatAnalysis formats an analysis result into a Telegram message.
func FormatAnalysis(r *model.AnalysisResult) string {
	var b strings.Builder
	rec := r.Recommendation

	b.WriteString(fmt.Sprintf("📊 <b>%s</b> | %s\n\n", html.EscapeString(r.Ticker), time.Now().Format("2006-01-02")))
	b.WriteString(fmt.Sprintf("Last price: %s\n", r.LastPrice))
	b.WriteString(fmt.Sprintf("SMA20: %s | SMA50: %s\n", r.SMA20, r.SMA50))
	b.WriteString(fmt.Sprintf("RSI14: %s\n\n", r.RSI))

	b.WriteString(fmt.Sprintf("%s <b>%s</b> (confidence %d/10)\n", actionIcon[rec.Action], rec.Action, rec.Confidence))
	if rec.Explanation != "" {
		b.WriteString(html.EscapeString(rec.Explanation))
		b.WriteString("\n")
	}
	b.WriteString(fmt.Sprintf("\n<i>%s</i>", html.EscapeString(rec.Disclaimer)))
	return b.String()
}

// FormatHistory formats the recency list, most recent first.
func FormatHistory(history []string) string {
	if len(history) == 0 {
		return "🕘 No tickers analyzed yet."
	}
	var b strings.Builder
	b.WriteString("🕘 <b>Recent tickers</b>\n\n")
	for i, t := range history {
		b.WriteString(fmt.Sprintf("%d. %s\n", i+1, html.EscapeString(t)))
	}
	return b.String()
}

// FormatError formats a failed analysis.
func FormatError(ticker string, err error) string {
	return fmt.Sprintf("⚠️ Error analyzing %s: %s", html.EscapeString(ticker), html.EscapeString(err.Error()))
}
