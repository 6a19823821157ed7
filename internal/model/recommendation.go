package model

// Action is the suggested trade direction.
type Action string

const (
	ActionBuy  Action = "BUY"
	ActionHold Action = "HOLD"
	ActionSell Action = "SELL"
)

// Valid reports whether a is one of BUY, HOLD or SELL.
func (a Action) Valid() bool {
	switch a {
	case ActionBuy, ActionHold, ActionSell:
		return true
	}
	return false
}

// DefaultDisclaimer is attached to every synthesized recommendation.
const DefaultDisclaimer = "This is not financial advice."

// Recommendation is the language model's verdict on a set of indicators.
type Recommendation struct {
	Action      Action `json:"action"`
	Confidence  int    `json:"confidence"`
	Explanation string `json:"explanation"`
	Disclaimer  string `json:"disclaimer"`
}

// RecommendationStatus tells how a Recommendation was obtained.
type RecommendationStatus int

const (
	// StatusParsed means the service reply was well-formed.
	StatusParsed RecommendationStatus = iota
	// StatusFallback means the reply could not be parsed and was wrapped verbatim.
	StatusFallback
	// StatusUnavailable means the service could not be reached at all.
	StatusUnavailable
)

func (s RecommendationStatus) String() string {
	switch s {
	case StatusParsed:
		return "parsed"
	case StatusFallback:
		return "fallback"
	case StatusUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// RecommendationResult pairs a Recommendation with its provenance.
type RecommendationResult struct {
	Recommendation Recommendation
	Status         RecommendationStatus
	Raw            string
}

// FallbackRecommendation wraps text that is not a usable recommendation.
func FallbackRecommendation(explanation string) Recommendation {
	return Recommendation{
		Action:      ActionHold,
		Confidence:  5,
		Explanation: explanation,
		Disclaimer:  DefaultDisclaimer,
	}
}
