package app

import (
	"context"
	"path/filepath"
	"testing"

	"StockAdvisor/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{}
	cfg.Cache.Backend = "file"
	cfg.Cache.Path = filepath.Join(t.TempDir(), "history.json")
	cfg.Cache.MaxHistory = 10
	cfg.Database.SQLitePath = filepath.Join(t.TempDir(), "runs.db")
	return cfg
}

func TestOpen_FileBackend(t *testing.T) {
	a, err := Open(testConfig(t))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer a.Close()

	ctx := context.Background()
	if err := a.Cache.StoreTicker(ctx, "AAPL"); err != nil {
		t.Fatalf("store ticker: %v", err)
	}
	if h := a.Cache.GetHistory(ctx); len(h) != 1 || h[0] != "AAPL" {
		t.Errorf("history = %v", h)
	}
	if _, err := a.Recorder.RecentAnalyses(5); err != nil {
		t.Errorf("recent analyses: %v", err)
	}
}

func TestAnalyzer_RequiresAPIKey(t *testing.T) {
	a, err := Open(testConfig(t))
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()
	if _, err := a.Analyzer(context.Background()); err == nil {
		t.Error("expected error without llm.api_key")
	}
}

func TestNewFetcher(t *testing.T) {
	tests := map[string]string{
		"yahoo":     "yahoo",
		"financego": "financego",
		"mock":      "mock",
		"":          "yahoo",
	}
	for provider, want := range tests {
		cfg := &config.Config{}
		cfg.DataSource.Provider = provider
		if got := NewFetcher(cfg).Name(); got != want {
			t.Errorf("provider %q -> %q, want %q", provider, got, want)
		}
	}
}

func TestNewAdvisor_Provider(t *testing.T) {
	cfg := testConfig(t)
	cfg.LLM.APIKey = "sk-test"
	cfg.LLM.Model = "gpt-4o-mini"

	cfg.LLM.Provider = "palm"
	if _, err := NewAdvisor(context.Background(), cfg); err == nil {
		t.Error("expected error for unsupported provider")
	}

	cfg.LLM.Provider = "openai"
	if _, err := NewAdvisor(context.Background(), cfg); err != nil {
		t.Errorf("openai provider: %v", err)
	}
}
