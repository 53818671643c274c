// Package pagespeed adapts the Google PageSpeed Insights API into a fixed
// caller-facing report shape, and compares the mobile and desktop device
// profiles in one request with independent per-profile failure.
package pagespeed

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Service orchestrates audits against the provider. All state is
// request-scoped; the service itself only holds the configured client.
type Service struct {
	client *Client
}

// NewService creates a service on top of the given client.
func NewService(client *Client) *Service {
	return &Service{client: client}
}

// Analyze runs one audit: validate the input, issue a single bounded
// upstream call, and extract the report. Validation failures return before
// any upstream traffic.
func (s *Service) Analyze(ctx context.Context, in AnalyzeInput) (*AnalysisReport, error) {
	req, err := ParseRequest(in)
	if err != nil {
		return nil, err
	}
	payload, err := s.client.Fetch(ctx, req)
	if err != nil {
		return nil, err
	}
	return ExtractReport(payload, req)
}

// Compare audits the URL under both strategies concurrently and pairs the
// settled outcomes. The two branches are independent: a failure in one is
// captured as that branch's outcome and never cancels or invalidates the
// other. Only URL validation can fail the request as a whole.
func (s *Service) Compare(ctx context.Context, rawURL string) (*ComparisonResult, error) {
	req, err := ParseRequest(AnalyzeInput{URL: rawURL})
	if err != nil {
		return nil, err
	}

	result := &ComparisonResult{
		ID:        uuid.New(),
		URL:       req.URL,
		Timestamp: time.Now().UTC(),
	}

	strategies := []Strategy{StrategyMobile, StrategyDesktop}
	outcomes := make([]StrategyOutcome, len(strategies))

	var wg sync.WaitGroup
	for i, strategy := range strategies {
		wg.Add(1)
		go func(i int, strategy Strategy) {
			defer wg.Done()
			outcomes[i] = s.runStrategy(ctx, req.URL, strategy)
		}(i, strategy)
	}
	wg.Wait()

	result.Mobile = outcomes[0]
	result.Desktop = outcomes[1]
	return result, nil
}

// runStrategy settles one comparison branch into a tagged outcome.
func (s *Service) runStrategy(ctx context.Context, targetURL string, strategy Strategy) StrategyOutcome {
	req := AnalysisRequest{
		URL:        targetURL,
		Strategy:   strategy,
		Categories: []string{CategoryPerformance},
	}

	payload, err := s.client.Fetch(ctx, req)
	if err != nil {
		return failedOutcome(err)
	}
	report, err := ExtractReport(payload, req)
	if err != nil {
		return failedOutcome(err)
	}

	score := report.PerformanceScore
	return StrategyOutcome{Status: OutcomeSuccess, Score: &score}
}

func failedOutcome(err error) StrategyOutcome {
	message := "audit failed"
	var classified *Error
	if errors.As(err, &classified) {
		message = classified.Message
	}
	return StrategyOutcome{Status: OutcomeFailed, Error: message}
}
