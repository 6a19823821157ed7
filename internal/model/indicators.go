package model

// Indicators holds the technical indicators derived from a PriceSeries.
// RSI14 is NaN when the series is too short for a 14-period RSI.
type Indicators struct {
	Ticker    string
	LastPrice float64
	SMA20     float64
	SMA50     float64
	RSI14     float64
}
