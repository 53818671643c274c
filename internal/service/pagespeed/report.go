package pagespeed

import (
	"time"

	"github.com/google/uuid"
)

// Metric audit keys fixed by the provider's audit collection.
const (
	MetricFirstContentfulPaint   = "first-contentful-paint"
	MetricLargestContentfulPaint = "largest-contentful-paint"
	MetricSpeedIndex             = "speed-index"
	MetricTotalBlockingTime      = "total-blocking-time"
	MetricCumulativeLayoutShift  = "cumulative-layout-shift"
)

// metricKeys lists the five Core Web Vitals every successful report carries.
var metricKeys = []string{
	MetricFirstContentfulPaint,
	MetricLargestContentfulPaint,
	MetricSpeedIndex,
	MetricTotalBlockingTime,
	MetricCumulativeLayoutShift,
}

// MetricSample is one extracted performance signal. Score is nil when the
// provider could not compute the metric for the page; nil is preserved all
// the way to the caller, never coerced to zero.
type MetricSample struct {
	Score        *float64 `json:"score"`
	DisplayValue string   `json:"display_value"`
	NumericValue float64  `json:"numeric_value"`
}

// Opportunity is a suggested optimization with an estimated savings,
// derived from audits whose overallSavingsMs exceeds 100.
type Opportunity struct {
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	SavingsMs    float64 `json:"savings_ms"`
	DisplayValue string  `json:"display_value"`
}

// AnalysisReport is the caller-facing result of a single-strategy audit.
type AnalysisReport struct {
	ID                uuid.UUID               `json:"id"`
	URL               string                  `json:"url"`
	Strategy          Strategy                `json:"strategy"`
	Timestamp         time.Time               `json:"timestamp"`
	PerformanceScore  int                     `json:"performance_score"`
	CategoryScores    map[string]int          `json:"category_scores"`
	Metrics           map[string]MetricSample `json:"metrics"`
	Opportunities     []Opportunity           `json:"opportunities"`
	FieldData         interface{}             `json:"field_data"`
	Screenshot        *string                 `json:"screenshot"`
	FinalURL          string                  `json:"final_url,omitempty"`
	LighthouseVersion string                  `json:"lighthouse_version,omitempty"`
}

// OutcomeStatus tags one branch of a comparison.
type OutcomeStatus string

const (
	OutcomeSuccess OutcomeStatus = "success"
	OutcomeFailed  OutcomeStatus = "failed"
)

// StrategyOutcome is the settled result of one strategy's audit within a
// comparison. Score is nil whenever Status is OutcomeFailed.
type StrategyOutcome struct {
	Status OutcomeStatus `json:"status"`
	Score  *int          `json:"score"`
	Error  string        `json:"error,omitempty"`
}

// ComparisonResult pairs the independently settled mobile and desktop
// outcomes for one URL.
type ComparisonResult struct {
	ID        uuid.UUID       `json:"id"`
	URL       string          `json:"url"`
	Timestamp time.Time       `json:"timestamp"`
	Mobile    StrategyOutcome `json:"mobile"`
	Desktop   StrategyOutcome `json:"desktop"`
}
