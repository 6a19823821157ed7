package advisor

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"StockAdvisor/internal/model"
)

// ChatModel is the subset of an eino chat model the advisor needs.
type ChatModel interface {
	Generate(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.Message, error)
}

// Config configures the OpenAI-compatible chat model.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	Timeout     time.Duration
}

// Advisor asks a language model for a Buy/Hold/Sell recommendation.
type Advisor struct {
	chat    ChatModel
	timeout time.Duration
}

// New wraps an existing chat model.
func New(chat ChatModel, timeout time.Duration) *Advisor {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Advisor{chat: chat, timeout: timeout}
}

// NewOpenAI builds an Advisor backed by an OpenAI-compatible endpoint.
func NewOpenAI(ctx context.Context, cfg Config) (*Advisor, error) {
	temperature := cfg.Temperature
	cm, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey:      cfg.APIKey,
		BaseURL:     cfg.BaseURL,
		Model:       cfg.Model,
		Temperature: &temperature,
		Timeout:     cfg.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("init chat model: %w", err)
	}
	return New(cm, cfg.Timeout), nil
}

// Recommend never fails: unusable or missing replies become a HOLD fallback.
func (a *Advisor) Recommend(ctx context.Context, ind *model.Indicators) model.RecommendationResult {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	msg, err := a.chat.Generate(ctx, []*schema.Message{
		schema.SystemMessage(systemPrompt),
		schema.UserMessage(userPrompt(ind)),
	})
	if err != nil {
		log.Printf("[WARN] recommendation for %s unavailable: %v", ind.Ticker, err)
		return unavailable(fmt.Sprintf("Recommendation service unavailable: %v", err))
	}
	if msg == nil || strings.TrimSpace(msg.Content) == "" {
		log.Printf("[WARN] recommendation for %s: empty reply", ind.Ticker)
		return unavailable("Recommendation service returned an empty reply.")
	}

	res := Interpret(msg.Content)
	if res.Status == model.StatusFallback {
		log.Printf("[WARN] recommendation for %s: could not parse reply, using fallback: %q", ind.Ticker, truncate(res.Raw, 200))
	}
	return res
}

func unavailable(explanation string) model.RecommendationResult {
	return model.RecommendationResult{
		Recommendation: model.FallbackRecommendation(explanation),
		Status:         model.StatusUnavailable,
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
