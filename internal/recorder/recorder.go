package recorder

import "time"

// Outcome values for AnalysisEvent.
const (
	OutcomeCache = "cache"
	OutcomeFresh = "fresh"
	OutcomeError = "error"
)

// AnalysisEvent records a single analysis attempt.
type AnalysisEvent struct {
	Time       time.Time
	Ticker     string
	Outcome    string // "cache", "fresh" or "error"
	Action     string
	Confidence int
	RecStatus  string // "parsed", "fallback", "unavailable"; empty on cache hits and errors
	Error      string
	Duration   time.Duration
}

// Recorder persists analysis attempts for later inspection.
type Recorder interface {
	RecordAnalysis(evt *AnalysisEvent) error
	RecentAnalyses(limit int) ([]AnalysisEvent, error)
	Close() error
}
