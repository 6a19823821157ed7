package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"

	"StockAdvisor/internal/model"
)

func sampleResult(ticker string) *model.AnalysisResult {
	return &model.AnalysisResult{
		Ticker:    ticker,
		LastPrice: "189.25",
		SMA20:     "185.10",
		SMA50:     "180.02",
		RSI:       model.NotApplicable,
		Recommendation: model.Recommendation{
			Action:      model.ActionBuy,
			Confidence:  7,
			Explanation: "Price is above both moving averages.",
			Disclaimer:  model.DefaultDisclaimer,
		},
		ChartData: []model.ChartPoint{},
	}
}

func TestStoreTicker_MovesDuplicateToFront(t *testing.T) {
	ctx := context.Background()
	c := New(NewMemoryStore(nil), 0)

	for _, tk := range []string{"AAPL", "MSFT", "TSLA", "MSFT"} {
		if err := c.StoreTicker(ctx, tk); err != nil {
			t.Fatalf("store %s: %v", tk, err)
		}
	}
	want := []string{"MSFT", "TSLA", "AAPL"}
	if got := c.GetHistory(ctx); !reflect.DeepEqual(got, want) {
		t.Errorf("history = %v, want %v", got, want)
	}
}

func TestStoreTicker_KeepsTenMostRecent(t *testing.T) {
	ctx := context.Background()
	c := New(NewMemoryStore(nil), 0)

	for i := 1; i <= 11; i++ {
		if err := c.StoreTicker(ctx, fmt.Sprintf("T%02d", i)); err != nil {
			t.Fatal(err)
		}
	}
	got := c.GetHistory(ctx)
	if len(got) != 10 {
		t.Fatalf("expected 10 entries, got %d: %v", len(got), got)
	}
	for i, tk := range got {
		if want := fmt.Sprintf("T%02d", 11-i); tk != want {
			t.Errorf("history[%d] = %s, want %s", i, tk, want)
		}
	}
}

func TestStoreResult_RoundTrip(t *testing.T) {
	ctx := context.Background()
	c := New(NewMemoryStore(nil), 0)

	if _, ok := c.GetCachedResult(ctx, "AAPL"); ok {
		t.Fatal("expected miss on empty cache")
	}
	in := sampleResult("AAPL")
	if err := c.StoreResult(ctx, "AAPL", in); err != nil {
		t.Fatal(err)
	}
	out, ok := c.GetCachedResult(ctx, "AAPL")
	if !ok {
		t.Fatal("expected hit after store")
	}
	if !reflect.DeepEqual(in, out) {
		t.Errorf("round trip mismatch:\n in=%+v\nout=%+v", in, out)
	}
	if _, ok := c.GetCachedResult(ctx, "aapl"); ok {
		t.Error("lookup must be by exact ticker string")
	}
}

func TestStoreResult_Overwrites(t *testing.T) {
	ctx := context.Background()
	c := New(NewMemoryStore(nil), 0)

	first := sampleResult("AAPL")
	second := sampleResult("AAPL")
	second.LastPrice = "200.00"
	c.StoreResult(ctx, "AAPL", first)
	c.StoreResult(ctx, "AAPL", second)

	got, _ := c.GetCachedResult(ctx, "AAPL")
	if got.LastPrice != "200.00" {
		t.Errorf("expected overwrite, got last price %s", got.LastPrice)
	}
}

func TestNamespacesAreIndependent(t *testing.T) {
	ctx := context.Background()
	c := New(NewMemoryStore(nil), 0)

	c.StoreResult(ctx, "AAPL", sampleResult("AAPL"))
	c.StoreTicker(ctx, "AAPL")
	if err := c.ClearHistory(ctx); err != nil {
		t.Fatal(err)
	}
	if h := c.GetHistory(ctx); len(h) != 0 {
		t.Errorf("expected empty history, got %v", h)
	}
	if _, ok := c.GetCachedResult(ctx, "AAPL"); !ok {
		t.Error("clearing history must keep cached results")
	}
}

func TestCorruptStoreLoadsEmpty(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore([]byte("{not json"))
	c := New(store, 0)

	if h := c.GetHistory(ctx); len(h) != 0 {
		t.Errorf("expected empty history from corrupt store, got %v", h)
	}
	if _, ok := c.GetCachedResult(ctx, "AAPL"); ok {
		t.Error("expected miss from corrupt store")
	}
	if err := c.StoreTicker(ctx, "AAPL"); err != nil {
		t.Fatalf("store after corruption: %v", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(store.Bytes(), &snap); err != nil {
		t.Fatalf("rewritten blob is not valid JSON: %v", err)
	}
	if !reflect.DeepEqual(snap.History, []string{"AAPL"}) {
		t.Errorf("unexpected history %v", snap.History)
	}
}

func TestPersistedLayout(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(nil)
	c := New(store, 0)
	c.StoreTicker(ctx, "AAPL")
	c.StoreResult(ctx, "AAPL", sampleResult("AAPL"))

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(store.Bytes(), &raw); err != nil {
		t.Fatal(err)
	}
	if _, ok := raw["history"]; !ok {
		t.Error("missing top-level history field")
	}
	if _, ok := raw["data"]; !ok {
		t.Error("missing top-level data field")
	}
	var data map[string]map[string]json.RawMessage
	json.Unmarshal(raw["data"], &data)
	if string(data["AAPL"]["chart_data"]) != "[]" {
		t.Errorf("chart_data = %s, want []", data["AAPL"]["chart_data"])
	}
	if string(data["AAPL"]["rsi"]) != `"N/A"` {
		t.Errorf("rsi = %s, want \"N/A\"", data["AAPL"]["rsi"])
	}
}

func TestFileStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "history.json")
	c := New(NewFileStore(path), 0)

	if h := c.GetHistory(ctx); len(h) != 0 {
		t.Fatalf("expected empty history for missing file, got %v", h)
	}
	if err := c.StoreTicker(ctx, "NVDA"); err != nil {
		t.Fatalf("store ticker: %v", err)
	}
	if err := c.StoreResult(ctx, "NVDA", sampleResult("NVDA")); err != nil {
		t.Fatalf("store result: %v", err)
	}

	reopened := New(NewFileStore(path), 0)
	if h := reopened.GetHistory(ctx); !reflect.DeepEqual(h, []string{"NVDA"}) {
		t.Errorf("history after reopen = %v", h)
	}
	if _, ok := reopened.GetCachedResult(ctx, "NVDA"); !ok {
		t.Error("expected cached result after reopen")
	}

	if err := os.WriteFile(path, []byte("garbage"), 0o644); err != nil {
		t.Fatal(err)
	}
	if h := reopened.GetHistory(ctx); len(h) != 0 {
		t.Errorf("expected empty history for corrupt file, got %v", h)
	}
}

func TestConcurrentWritesKeepEveryResult(t *testing.T) {
	ctx := context.Background()
	c := New(NewMemoryStore(nil), 0)

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tk := fmt.Sprintf("T%02d", i)
			if err := c.StoreResult(ctx, tk, sampleResult(tk)); err != nil {
				t.Errorf("store result %s: %v", tk, err)
			}
			if err := c.StoreTicker(ctx, tk); err != nil {
				t.Errorf("store ticker %s: %v", tk, err)
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		tk := fmt.Sprintf("T%02d", i)
		if _, ok := c.GetCachedResult(ctx, tk); !ok {
			t.Errorf("result for %s lost", tk)
		}
	}
	h := c.GetHistory(ctx)
	if len(h) != DefaultMaxHistory {
		t.Errorf("history length = %d, want %d", len(h), DefaultMaxHistory)
	}
	seen := map[string]bool{}
	for _, tk := range h {
		if seen[tk] {
			t.Errorf("duplicate %s in history %v", tk, h)
		}
		seen[tk] = true
	}
}
