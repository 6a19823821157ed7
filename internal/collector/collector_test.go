package collector

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
)

func evenlySpaced(n int, start, end float64) []float64 {
	out := make([]float64, n)
	step := (end - start) / float64(n-1)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}

func TestIndicators_AscendingSeries(t *testing.T) {
	closes := evenlySpaced(50, 10, 14)
	c := NewCollector(&MockFetcher{DailyData: BarsFromCloses(closes)}, 0)

	ind, err := c.Indicators(context.Background(), "aapl")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ind.Ticker != "AAPL" {
		t.Errorf("expected upper-cased ticker, got %q", ind.Ticker)
	}
	if ind.LastPrice != 14 {
		t.Errorf("last price = %v, want 14", ind.LastPrice)
	}

	var sum20, sum50 float64
	for i, p := range closes {
		sum50 += p
		if i >= 30 {
			sum20 += p
		}
	}
	if math.Abs(ind.SMA20-sum20/20) > 1e-9 {
		t.Errorf("sma20 = %v, want %v", ind.SMA20, sum20/20)
	}
	if math.Abs(ind.SMA50-sum50/50) > 1e-9 {
		t.Errorf("sma50 = %v, want %v", ind.SMA50, sum50/50)
	}
	if ind.RSI14 != 100 {
		t.Errorf("rsi14 = %v, want 100", ind.RSI14)
	}
}

func TestIndicators_EmptySeries(t *testing.T) {
	c := NewCollector(&MockFetcher{DailyData: BarsFromCloses(nil)}, 0)
	_, err := c.Indicators(context.Background(), "ZZZZ")
	if !errors.Is(err, ErrDataUnavailable) {
		t.Fatalf("expected ErrDataUnavailable, got %v", err)
	}
}

func TestIndicators_FetchError(t *testing.T) {
	c := NewCollector(&MockFetcher{Err: errors.New("connection refused")}, 0)
	_, err := c.Indicators(context.Background(), "AAPL")
	if !errors.Is(err, ErrDataUnavailable) {
		t.Fatalf("expected ErrDataUnavailable, got %v", err)
	}
}

func TestIndicators_InsufficientHistory(t *testing.T) {
	c := NewCollector(&MockFetcher{DailyData: BarsFromCloses(evenlySpaced(49, 1, 2))}, 0)
	_, err := c.Indicators(context.Background(), "NEWCO")
	if !errors.Is(err, ErrInsufficientHistory) {
		t.Fatalf("expected ErrInsufficientHistory, got %v", err)
	}
	if errors.Is(err, ErrDataUnavailable) {
		t.Error("insufficient history must not match ErrDataUnavailable")
	}
}

func TestIndicators_GeneratedBars(t *testing.T) {
	m := &MockFetcher{Price: 100}
	c := NewCollector(m, 120)
	ind, err := c.Indicators(context.Background(), "SPY")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Calls() != 1 {
		t.Errorf("expected one fetch, got %d", m.Calls())
	}
	if ind.SMA50 >= ind.LastPrice {
		t.Errorf("rising mock series should keep sma50 (%v) below last price (%v)", ind.SMA50, ind.LastPrice)
	}
}

func TestMockFetcher_ConcurrentCalls(t *testing.T) {
	m := &MockFetcher{Price: 50}
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := m.FetchDailyBars(context.Background(), "SPY", 60); err != nil {
				t.Errorf("fetch: %v", err)
			}
		}()
	}
	wg.Wait()
	if got := m.Calls(); got != 20 {
		t.Errorf("calls = %d, want 20", got)
	}
}
