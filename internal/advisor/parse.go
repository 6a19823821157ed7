package advisor

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"StockAdvisor/internal/model"
)

type rawRecommendation struct {
	Action      string      `json:"action"`
	Confidence  interface{} `json:"confidence"`
	Explanation string      `json:"explanation"`
	Disclaimer  string      `json:"disclaimer"`
}

// stripFences removes markdown code fences and a leading "json" language tag.
func stripFences(content string) string {
	s := strings.TrimSpace(content)
	s = strings.Trim(s, "`")
	s = strings.TrimSpace(s)
	if len(s) >= 4 && strings.EqualFold(s[:4], "json") {
		s = s[4:]
	}
	return strings.TrimSpace(s)
}

func parseConfidence(v interface{}) (int, error) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, fmt.Errorf("confidence %q is not a number", n)
		}
		f = parsed
	default:
		return 0, fmt.Errorf("confidence has unexpected type %T", v)
	}
	if f != math.Trunc(f) || f < 1 || f > 10 {
		return 0, fmt.Errorf("confidence %v outside 1-10", f)
	}
	return int(f), nil
}

// ParseRecommendation decodes a model reply into a Recommendation.
func ParseRecommendation(content string) (model.Recommendation, error) {
	var raw rawRecommendation
	if err := json.Unmarshal([]byte(stripFences(content)), &raw); err != nil {
		return model.Recommendation{}, fmt.Errorf("decode reply: %w", err)
	}
	action := model.Action(strings.ToUpper(strings.TrimSpace(raw.Action)))
	if !action.Valid() {
		return model.Recommendation{}, fmt.Errorf("unknown action %q", raw.Action)
	}
	confidence, err := parseConfidence(raw.Confidence)
	if err != nil {
		return model.Recommendation{}, err
	}
	disclaimer := raw.Disclaimer
	if strings.TrimSpace(disclaimer) == "" {
		disclaimer = model.DefaultDisclaimer
	}
	return model.Recommendation{
		Action:      action,
		Confidence:  confidence,
		Explanation: raw.Explanation,
		Disclaimer:  disclaimer,
	}, nil
}

// Interpret turns a raw reply into a RecommendationResult, falling back to a
// HOLD recommendation that carries the raw text when the reply is unusable.
func Interpret(content string) model.RecommendationResult {
	rec, err := ParseRecommendation(content)
	if err != nil {
		return model.RecommendationResult{
			Recommendation: model.FallbackRecommendation(content),
			Status:         model.StatusFallback,
			Raw:            content,
		}
	}
	return model.RecommendationResult{Recommendation: rec, Status: model.StatusParsed, Raw: content}
}
