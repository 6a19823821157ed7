package collector

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"StockAdvisor/internal/calculator"
	"StockAdvisor/internal/model"
)

// MinHistory is the number of closes needed for the 50-day SMA.
const MinHistory = 50

var (
	// ErrDataUnavailable means no price series could be obtained for a ticker.
	ErrDataUnavailable = errors.New("data unavailable")
	// ErrInsufficientHistory means the series is shorter than MinHistory.
	ErrInsufficientHistory = errors.New("insufficient history")
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price     float64
	DailyData []model.OHLCV
	Err       error

	mu    sync.Mutex
	calls int
}

func (m *MockFetcher) Name() string { return "mock" }

// Calls returns how many times FetchDailyBars has run.
func (m *MockFetcher) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *MockFetcher) FetchDailyBars(_ context.Context, _ string, days int) ([]model.OHLCV, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	if m.DailyData != nil {
		return m.DailyData, nil
	}
	return generateMockBars(m.Price, days), nil
}

func generateMockBars(basePrice float64, count int) []model.OHLCV {
	bars := make([]model.OHLCV, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.OHLCV{
			Time:   time.Now().AddDate(0, 0, -(count - i)),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}

// BarsFromCloses builds daily bars from a close series, one day apart.
func BarsFromCloses(closes []float64) []model.OHLCV {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]model.OHLCV, len(closes))
	for i, c := range closes {
		bars[i] = model.OHLCV{Time: start.AddDate(0, 0, i), Open: c, High: c, Low: c, Close: c}
	}
	return bars
}

// Collector fetches price history and turns it into indicators.
type Collector struct {
	Fetcher      Fetcher
	LookbackDays int
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, lookbackDays int) *Collector {
	if lookbackDays <= 0 {
		lookbackDays = model.LookbackDays
	}
	return &Collector{Fetcher: fetcher, LookbackDays: lookbackDays}
}

// Series fetches the close series for ticker.
func (c *Collector) Series(ctx context.Context, ticker string) (*model.PriceSeries, error) {
	bars, err := c.Fetcher.FetchDailyBars(ctx, ticker, c.LookbackDays)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch %s from %s: %w", ErrDataUnavailable, ticker, c.Fetcher.Name(), err)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("%w: no data returned for ticker %s", ErrDataUnavailable, ticker)
	}
	return model.NewPriceSeries(ticker, bars), nil
}

// Indicators fetches the series for ticker and computes SMA20, SMA50 and RSI14.
func (c *Collector) Indicators(ctx context.Context, ticker string) (*model.Indicators, error) {
	series, err := c.Series(ctx, ticker)
	if err != nil {
		return nil, err
	}
	closes := series.Closes
	if len(closes) < MinHistory {
		return nil, fmt.Errorf("%w: not enough data for %s to compute 50-day SMA (have %d, need %d)",
			ErrInsufficientHistory, ticker, len(closes), MinHistory)
	}

	sma20, err := calculator.CalculateSMA(closes, 20)
	if err != nil {
		return nil, fmt.Errorf("sma20 %s: %w", ticker, err)
	}
	sma50, err := calculator.CalculateSMA(closes, 50)
	if err != nil {
		return nil, fmt.Errorf("sma50 %s: %w", ticker, err)
	}
	rsi, err := calculator.CalculateRSI(closes, 14)
	if err != nil {
		return nil, fmt.Errorf("rsi14 %s: %w", ticker, err)
	}

	ind := &model.Indicators{
		Ticker:    strings.ToUpper(ticker),
		LastPrice: series.Last(),
		SMA20:     sma20,
		SMA50:     sma50,
		RSI14:     rsi,
	}
	log.Printf("[INFO] indicators %s: price=%.2f sma20=%.2f sma50=%.2f rsi14=%.2f (%d bars via %s)",
		ind.Ticker, ind.LastPrice, ind.SMA20, ind.SMA50, ind.RSI14, len(closes), c.Fetcher.Name())
	return ind, nil
}
