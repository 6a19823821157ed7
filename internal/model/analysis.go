package model

import (
	"math"
	"strconv"
)

// NotApplicable is shown in place of an undefined RSI.
const NotApplicable = "N/A"

// ChartPoint is reserved for price chart data; no producer fills it yet.
type ChartPoint struct {
	Time  int64   `json:"t"`
	Close float64 `json:"c"`
}

// AnalysisResult is the persisted, user-facing record of one analysis.
// Numeric fields are pre-formatted with two decimals.
type AnalysisResult struct {
	Ticker         string         `json:"ticker"`
	LastPrice      string         `json:"last_price"`
	SMA20          string         `json:"sma20"`
	SMA50          string         `json:"sma50"`
	RSI            string         `json:"rsi"`
	Recommendation Recommendation `json:"recommendation"`
	ChartData      []ChartPoint   `json:"chart_data"`
}

// FormatNumber renders v with two decimals.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// FormatRSI renders rsi with two decimals, or N/A when undefined.
func FormatRSI(rsi float64) string {
	if math.IsNaN(rsi) {
		return NotApplicable
	}
	return FormatNumber(rsi)
}
