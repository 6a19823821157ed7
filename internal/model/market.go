package model

import "time"

// LookbackDays is the daily-bar window fetched for every analysis (~6 months).
const LookbackDays = 180

// OHLCV represents a single candlestick bar.
type OHLCV struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// PriceSeries holds the chronological closes used for indicator computation.
type PriceSeries struct {
	Symbol    string
	Closes    []float64 // oldest first
	FetchedAt time.Time
}

// NewPriceSeries extracts closes from bars, which must already be sorted by time.
func NewPriceSeries(symbol string, bars []OHLCV) *PriceSeries {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	return &PriceSeries{Symbol: symbol, Closes: closes, FetchedAt: time.Now()}
}

// Last returns the most recent close, or 0 for an empty series.
func (p *PriceSeries) Last() float64 {
	if len(p.Closes) == 0 {
		return 0
	}
	return p.Closes[len(p.Closes)-1]
}
