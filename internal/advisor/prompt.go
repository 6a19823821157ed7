package advisor

import (
	"fmt"

	"StockAdvisor/internal/model"
)

const systemPrompt = `You are an assistant that does basic, educational stock analysis.
You are NOT a financial advisor and must always remind the user that your output is not financial advice.
Use only the data provided. Do NOT invent real-time data.
Make a simple recommendation: Buy, Hold, or Sell, and explain reasoning in plain English.`

const userPromptTemplate = `Please analyze the following stock based on simple technical indicators.

Ticker: %s
Last Close Price: %.2f

Indicators:
- 20-day Simple Moving Average (SMA20): %.2f
- 50-day Simple Moving Average (SMA50): %.2f
- 14-day RSI: %s

Rules of thumb you can use (but you may override if justified):
- If price > SMA20 > SMA50 and RSI between 40 and 70 -> mild bullish bias.
- If price < SMA20 < SMA50 and RSI between 30 and 60 -> mild bearish bias.
- RSI > 70 -> possibly overbought.
- RSI < 30 -> possibly oversold.

Return a short JSON object with keys:
- "action": one of ["BUY", "HOLD", "SELL"]
- "confidence": integer 1-10
- "explanation": short paragraph (3-6 sentences) in plain English
- "disclaimer": brief disclaimer that this is NOT financial advice.

DO NOT include any backticks or code fences, just raw JSON.`

func userPrompt(ind *model.Indicators) string {
	return fmt.Sprintf(userPromptTemplate, ind.Ticker, ind.LastPrice, ind.SMA20, ind.SMA50, model.FormatRSI(ind.RSI14))
}
