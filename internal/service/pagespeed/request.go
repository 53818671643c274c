package pagespeed

import (
	"net/url"
	"strings"
)

// Strategy is the simulated device profile for an audit run.
type Strategy string

const (
	StrategyMobile  Strategy = "mobile"
	StrategyDesktop Strategy = "desktop"
)

// CategoryPerformance is the default (and only required) audit category.
const CategoryPerformance = "performance"

// AnalyzeInput is the raw caller payload before validation.
type AnalyzeInput struct {
	URL        string   `json:"url"`
	Strategy   string   `json:"strategy"`
	Categories []string `json:"categories"`
}

// AnalysisRequest is a validated, normalized analysis request. Construct it
// through ParseRequest so the invariants (absolute URL, known strategy,
// non-empty categories) hold.
type AnalysisRequest struct {
	URL        string
	Strategy   Strategy
	Categories []string
}

// ParseRequest validates the caller input and fills in defaults: strategy
// falls back to mobile, categories to {performance}. Scheme-less input such
// as "example.com" is rejected; prefixing a scheme is the caller's job.
func ParseRequest(in AnalyzeInput) (AnalysisRequest, error) {
	var req AnalysisRequest

	if strings.TrimSpace(in.URL) == "" {
		return req, validationError(KindMissingInput, "url is required")
	}

	parsed, err := url.Parse(in.URL)
	if err != nil || !parsed.IsAbs() || parsed.Host == "" {
		return req, validationError(KindInvalidURL, "url must be an absolute URL including its scheme")
	}
	req.URL = in.URL

	switch Strategy(in.Strategy) {
	case StrategyMobile, StrategyDesktop:
		req.Strategy = Strategy(in.Strategy)
	case "":
		req.Strategy = StrategyMobile
	default:
		return req, validationError(KindInvalidStrategy, "strategy must be either \"mobile\" or \"desktop\"")
	}

	for _, cat := range in.Categories {
		if cat = strings.TrimSpace(cat); cat != "" {
			req.Categories = append(req.Categories, cat)
		}
	}
	if len(req.Categories) == 0 {
		req.Categories = []string{CategoryPerformance}
	}

	return req, nil
}

// Query flattens the request into the provider's parameter set. Categories
// are appended as repeated "category" keys: the provider only honors the
// last value of a key that is Set rather than Added, so every category must
// get its own parameter.
func (r AnalysisRequest) Query(apiKey string) url.Values {
	q := url.Values{}
	q.Set("url", r.URL)
	q.Set("strategy", string(r.Strategy))
	for _, cat := range r.Categories {
		q.Add("category", cat)
	}
	if apiKey != "" {
		q.Set("key", apiKey)
	}
	return q
}
