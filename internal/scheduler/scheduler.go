package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"StockAdvisor/internal/cache"
	"StockAdvisor/internal/model"
	"StockAdvisor/internal/notifier"
	"StockAdvisor/internal/pipeline"

	"github.com/robfig/cron/v3"
)

const helpText = "Available commands:\n• /analyze TICKER\n• /history\n• /clear"

// Analyzer runs the analysis pipeline for one ticker.
type Analyzer interface {
	Analyze(ctx context.Context, ticker string) (*model.AnalysisResult, error)
}

// Sender delivers a formatted message.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler manages the watchlist warm task and bot commands.
type Scheduler struct {
	Cron      *cron.Cron
	Analyzer  Analyzer
	Cache     *cache.Cache
	Notifier  Sender
	Watchlist []string
	Ctx       context.Context
}

// NewScheduler creates a new Scheduler. tn may be nil, in which case warm
// results are only logged.
func NewScheduler(ctx context.Context, an Analyzer, c *cache.Cache, tn Sender, watchlist []string) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Analyzer:  an,
		Cache:     c,
		Notifier:  tn,
		Watchlist: watchlist,
		Ctx:       ctx,
	}
}

// RegisterAll registers the watchlist warm task.
func (s *Scheduler) RegisterAll(warmCron string) error {
	if _, err := s.Cron.AddFunc(warmCron, s.warmTask); err != nil {
		return fmt.Errorf("register warm task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler and waits for a running task to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Println("[INFO] scheduler stopped")
}

// RunWarmNow executes the warm task immediately.
func (s *Scheduler) RunWarmNow() int {
	return s.warm()
}

func (s *Scheduler) warmTask() {
	s.warm()
}

// warm analyzes every uncached watchlist ticker and returns how many were
// freshly computed. The user history is left alone.
func (s *Scheduler) warm() int {
	if len(s.Watchlist) == 0 {
		return 0
	}
	log.Printf("[INFO] warming %d watchlist tickers", len(s.Watchlist))
	fresh := 0
	for _, t := range s.Watchlist {
		if s.Ctx.Err() != nil {
			break
		}
		if _, ok := s.Cache.GetCachedResult(s.Ctx, pipeline.NormalizeTicker(t)); ok {
			continue
		}
		res, err := s.Analyzer.Analyze(s.Ctx, t)
		if err != nil {
			log.Printf("[ERROR] warm %s: %v", t, err)
			continue
		}
		fresh++
		s.trySend(notifier.FormatAnalysis(res))
	}
	log.Printf("[INFO] warm done: %d fresh", fresh)
	return fresh
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return helpText
	}
	// Telegram appends @botname to commands in group chats.
	cmd, _, _ := strings.Cut(strings.ToLower(fields[0]), "@")

	switch cmd {
	case "/analyze":
		if len(fields) < 2 {
			return "Please enter a valid ticker."
		}
		return s.analyze(ctx, fields[1])
	case "/history":
		return notifier.FormatHistory(s.Cache.GetHistory(ctx))
	case "/clear":
		if err := s.Cache.ClearHistory(ctx); err != nil {
			log.Printf("[ERROR] clear history: %v", err)
			return "⚠️ Could not clear history."
		}
		return "🧹 History cleared."
	default:
		return helpText
	}
}

func (s *Scheduler) analyze(ctx context.Context, raw string) string {
	ticker := pipeline.NormalizeTicker(raw)
	res, err := s.Analyzer.Analyze(ctx, ticker)
	if err != nil {
		if errors.Is(err, pipeline.ErrInvalidTicker) {
			return "Please enter a valid ticker."
		}
		return notifier.FormatError(ticker, err)
	}
	if err := s.Cache.StoreTicker(ctx, ticker); err != nil {
		log.Printf("[ERROR] store history %s: %v", ticker, err)
	}
	return notifier.FormatAnalysis(res)
}

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
