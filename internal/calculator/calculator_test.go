package calculator

import (
	"math"
	"testing"
)

func ascending(n int, start, step float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}

func mean(xs []float64) float64 {
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestCalculateSMA_Windows(t *testing.T) {
	prices := ascending(50, 10, 0.1)

	sma20, err := CalculateSMA(prices, 20)
	if err != nil {
		t.Fatalf("sma20: %v", err)
	}
	if want := mean(prices[30:]); !almostEqual(sma20, want) {
		t.Errorf("sma20 = %v, want %v", sma20, want)
	}

	sma50, err := CalculateSMA(prices, 50)
	if err != nil {
		t.Fatalf("sma50: %v", err)
	}
	if want := mean(prices); !almostEqual(sma50, want) {
		t.Errorf("sma50 = %v, want %v", sma50, want)
	}
}

func TestCalculateSMA_IgnoresPricesOutsideWindow(t *testing.T) {
	prices := ascending(60, 100, 1)
	before, err := CalculateSMA(prices, 20)
	if err != nil {
		t.Fatal(err)
	}

	changed := append([]float64(nil), prices...)
	for i := 0; i < 40; i++ {
		changed[i] = 9999
	}
	after, err := CalculateSMA(changed, 20)
	if err != nil {
		t.Fatal(err)
	}
	if before != after {
		t.Errorf("sma20 changed from %v to %v after editing prices outside the window", before, after)
	}

	changed[40] = 0
	if moved, _ := CalculateSMA(changed, 20); moved == before {
		t.Error("expected sma20 to move when a price inside the window changes")
	}
}

func TestCalculateSMA_Errors(t *testing.T) {
	if _, err := CalculateSMA([]float64{1, 2, 3}, 0); err == nil {
		t.Error("expected error for zero period")
	}
	if _, err := CalculateSMA([]float64{1, 2, 3}, 4); err == nil {
		t.Error("expected error when fewer prices than period")
	}
}

func TestCalculateRSI_InsufficientHistory(t *testing.T) {
	for n := 0; n <= 14; n++ {
		rsi, err := CalculateRSI(ascending(n, 1, 1), 14)
		if err != nil {
			t.Fatalf("n=%d: %v", n, err)
		}
		if !math.IsNaN(rsi) {
			t.Errorf("n=%d: expected NaN, got %v", n, rsi)
		}
	}
	rsi, _ := CalculateRSI(ascending(15, 1, 1), 14)
	if math.IsNaN(rsi) {
		t.Error("expected a value with exactly period+1 prices")
	}
}

func TestCalculateRSI_AllGainsSaturates(t *testing.T) {
	rsi, err := CalculateRSI(ascending(50, 10, 0.1), 14)
	if err != nil {
		t.Fatal(err)
	}
	if rsi != 100 {
		t.Errorf("expected 100, got %v", rsi)
	}

	flat := []float64{5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5}
	if rsi, _ := CalculateRSI(flat, 14); rsi != 100 {
		t.Errorf("flat series: expected 100, got %v", rsi)
	}
}

func TestCalculateRSI_AllLosses(t *testing.T) {
	rsi, err := CalculateRSI(ascending(20, 100, -1), 14)
	if err != nil {
		t.Fatal(err)
	}
	if rsi != 0 {
		t.Errorf("expected 0, got %v", rsi)
	}
}

func TestCalculateRSI_SimpleAverageOfLastPeriod(t *testing.T) {
	// Alternating +2/-1 changes; an early crash must not leak into the window.
	prices := []float64{100, 10}
	p := 10.0
	for i := 0; i < 14; i++ {
		if i%2 == 0 {
			p += 2
		} else {
			p -= 1
		}
		prices = append(prices, p)
	}
	rsi, err := CalculateRSI(prices, 14)
	if err != nil {
		t.Fatal(err)
	}
	// 7 gains of 2, 7 losses of 1: avgGain=1, avgLoss=0.5, rs=2.
	want := 100 - 100/3.0
	if !almostEqual(rsi, want) {
		t.Errorf("rsi = %v, want %v", rsi, want)
	}
}

func TestCalculateRSI_InvalidPeriod(t *testing.T) {
	if _, err := CalculateRSI([]float64{1, 2}, 0); err == nil {
		t.Error("expected error for zero period")
	}
}
