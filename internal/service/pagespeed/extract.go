package pagespeed

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

const (
	// savingsThresholdMs is the minimum estimated savings for an audit to
	// qualify as an opportunity.
	savingsThresholdMs = 100
	// maxOpportunities caps the opportunity list, applied after filtering.
	maxOpportunities = 5

	screenshotAuditKey = "final-screenshot"
)

// ExtractReport lifts one upstream success payload into an AnalysisReport.
// The payload is treated as an untyped document; only the fields the report
// needs are validated and lifted, and the untyped shape stops here.
func ExtractReport(data []byte, req AnalysisRequest) (*AnalysisReport, error) {
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, malformedError("upstream returned a payload that is not valid JSON")
	}

	// PSI wraps the Lighthouse document in lighthouseResult; a bare
	// Lighthouse document is accepted as-is.
	lhr, ok := raw["lighthouseResult"].(map[string]interface{})
	if !ok {
		lhr = raw
	}

	report := &AnalysisReport{
		ID:                uuid.New(),
		URL:               req.URL,
		Strategy:          req.Strategy,
		Timestamp:         time.Now().UTC(),
		CategoryScores:    make(map[string]int),
		Metrics:           make(map[string]MetricSample),
		FinalURL:          getString(lhr, "finalUrl"),
		LighthouseVersion: getString(lhr, "lighthouseVersion"),
	}

	categories, _ := lhr["categories"].(map[string]interface{})
	for _, name := range req.Categories {
		cat, ok := categories[name].(map[string]interface{})
		if !ok {
			continue
		}
		if score, ok := cat["score"].(float64); ok {
			report.CategoryScores[name] = scaleScore(score)
		}
	}
	perfScore, ok := report.CategoryScores[CategoryPerformance]
	if !ok {
		return nil, malformedError("upstream payload is missing the performance category score")
	}
	report.PerformanceScore = perfScore

	audits, ok := lhr["audits"].(map[string]interface{})
	if !ok {
		return nil, malformedError("upstream payload is missing the audits collection")
	}

	for _, key := range metricKeys {
		audit, ok := audits[key].(map[string]interface{})
		if !ok {
			return nil, malformedError(fmt.Sprintf("upstream payload is missing the %q audit", key))
		}
		sample := MetricSample{
			DisplayValue: getString(audit, "displayValue"),
		}
		// A missing or null score means "not computable for this page" and
		// must stay null.
		if score, ok := audit["score"].(float64); ok {
			sample.Score = &score
		}
		if numeric, ok := audit["numericValue"].(float64); ok {
			sample.NumericValue = numeric
		}
		report.Metrics[key] = sample
	}

	opportunities, err := scanOpportunities(rawAudits(data))
	if err != nil {
		return nil, malformedError("upstream audits collection could not be scanned")
	}
	report.Opportunities = opportunities

	if fieldData, ok := raw["loadingExperience"]; ok {
		report.FieldData = fieldData
	}
	if shot, ok := audits[screenshotAuditKey].(map[string]interface{}); ok {
		if details, ok := shot["details"].(map[string]interface{}); ok {
			if uri := getString(details, "data"); uri != "" {
				report.Screenshot = &uri
			}
		}
	}

	return report, nil
}

// scaleScore converts the provider's 0–1 category score to an integer
// 0–100, rounding half away from zero.
func scaleScore(score float64) int {
	return int(math.Round(score * 100))
}

// rawAudits pulls the audits object back out of the payload undecoded, so
// its key order survives for the opportunity scan.
func rawAudits(data []byte) json.RawMessage {
	var env struct {
		Audits           json.RawMessage `json:"audits"`
		LighthouseResult struct {
			Audits json.RawMessage `json:"audits"`
		} `json:"lighthouseResult"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return nil
	}
	if len(env.LighthouseResult.Audits) > 0 {
		return env.LighthouseResult.Audits
	}
	return env.Audits
}

// scanOpportunities walks the audits object in document order, keeps every
// audit whose estimated savings strictly exceed the threshold, and then
// truncates to maxOpportunities. Go maps do not preserve key order, so the
// scan runs on the raw JSON with a token decoder instead.
func scanOpportunities(audits json.RawMessage) ([]Opportunity, error) {
	if len(audits) == 0 {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(audits))
	if _, err := dec.Token(); err != nil { // opening brace
		return nil, err
	}

	var opportunities []Opportunity
	for dec.More() {
		if _, err := dec.Token(); err != nil { // audit key
			return nil, err
		}
		var audit struct {
			Title        string `json:"title"`
			Description  string `json:"description"`
			DisplayValue string `json:"displayValue"`
			Details      struct {
				OverallSavingsMs float64 `json:"overallSavingsMs"`
			} `json:"details"`
		}
		if err := dec.Decode(&audit); err != nil {
			return nil, err
		}
		if audit.Details.OverallSavingsMs > savingsThresholdMs {
			opportunities = append(opportunities, Opportunity{
				Title:        audit.Title,
				Description:  audit.Description,
				SavingsMs:    audit.Details.OverallSavingsMs,
				DisplayValue: audit.DisplayValue,
			})
		}
	}

	if len(opportunities) > maxOpportunities {
		opportunities = opportunities[:maxOpportunities]
	}
	return opportunities, nil
}

// getString safely extracts a string property from a map.
func getString(data map[string]interface{}, key string) string {
	if val, ok := data[key].(string); ok {
		return val
	}
	return ""
}
