package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"StockAdvisor/internal/model"
)

// DefaultMaxHistory is the number of recent tickers remembered.
const DefaultMaxHistory = 10

// Snapshot is the persisted layout of the cache.
type Snapshot struct {
	History []string                        `json:"history"`
	Data    map[string]model.AnalysisResult `json:"data"`
}

// Cache stores analysis results per ticker plus a recency list of tickers.
// Every operation reloads the whole snapshot from the Store, and mutations
// rewrite it in full. The mutex serializes those cycles within one process.
type Cache struct {
	mu         sync.Mutex
	store      Store
	maxHistory int
}

// New creates a Cache over store. A non-positive maxHistory selects DefaultMaxHistory.
func New(store Store, maxHistory int) *Cache {
	if maxHistory <= 0 {
		maxHistory = DefaultMaxHistory
	}
	return &Cache{store: store, maxHistory: maxHistory}
}

// load never fails: a missing, unreadable or corrupt store is an empty cache.
func (c *Cache) load(ctx context.Context) *Snapshot {
	snap := &Snapshot{}
	data, err := c.store.Read(ctx)
	if err != nil {
		log.Printf("[WARN] read cache %s: %v, starting empty", c.store.Name(), err)
		data = nil
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, snap); err != nil {
			log.Printf("[WARN] cache %s is corrupt: %v, starting empty", c.store.Name(), err)
			snap = &Snapshot{}
		}
	}
	if snap.History == nil {
		snap.History = []string{}
	}
	if snap.Data == nil {
		snap.Data = map[string]model.AnalysisResult{}
	}
	return snap
}

func (c *Cache) save(ctx context.Context, snap *Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal cache: %w", err)
	}
	if err := c.store.Write(ctx, data); err != nil {
		return fmt.Errorf("write cache %s: %w", c.store.Name(), err)
	}
	return nil
}

// GetHistory returns the recently requested tickers, most recent first.
func (c *Cache) GetHistory(ctx context.Context) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.load(ctx).History
}

// StoreTicker moves ticker to the front of the history, dropping any earlier
// occurrence and anything beyond the history limit.
func (c *Cache) StoreTicker(ctx context.Context, ticker string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := c.load(ctx)
	history := make([]string, 0, len(snap.History)+1)
	history = append(history, ticker)
	for _, t := range snap.History {
		if t != ticker {
			history = append(history, t)
		}
	}
	if len(history) > c.maxHistory {
		history = history[:c.maxHistory]
	}
	snap.History = history
	return c.save(ctx, snap)
}

// ClearHistory empties the recency list and keeps cached results.
func (c *Cache) ClearHistory(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := c.load(ctx)
	snap.History = []string{}
	return c.save(ctx, snap)
}

// GetCachedResult looks up the stored analysis for ticker.
func (c *Cache) GetCachedResult(ctx context.Context, ticker string) (*model.AnalysisResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	res, ok := c.load(ctx).Data[ticker]
	if !ok {
		return nil, false
	}
	return &res, true
}

// StoreResult overwrites the stored analysis for ticker.
func (c *Cache) StoreResult(ctx context.Context, ticker string, result *model.AnalysisResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := c.load(ctx)
	snap.Data[ticker] = *result
	return c.save(ctx, snap)
}
