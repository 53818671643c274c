package pagespeed

import (
	"errors"
	"reflect"
	"testing"
)

func TestParseRequest(t *testing.T) {
	tests := []struct {
		name     string
		in       AnalyzeInput
		wantKind Kind // empty means success expected
		want     AnalysisRequest
	}{
		{
			name:     "missing url",
			in:       AnalyzeInput{},
			wantKind: KindMissingInput,
		},
		{
			name:     "blank url",
			in:       AnalyzeInput{URL: "   "},
			wantKind: KindMissingInput,
		},
		{
			name:     "not a url",
			in:       AnalyzeInput{URL: "not a url"},
			wantKind: KindInvalidURL,
		},
		{
			name:     "scheme-less input is rejected, prefixing is the caller's job",
			in:       AnalyzeInput{URL: "example.com"},
			wantKind: KindInvalidURL,
		},
		{
			name:     "unknown strategy",
			in:       AnalyzeInput{URL: "https://example.com", Strategy: "tablet"},
			wantKind: KindInvalidStrategy,
		},
		{
			name: "defaults applied",
			in:   AnalyzeInput{URL: "https://example.com"},
			want: AnalysisRequest{
				URL:        "https://example.com",
				Strategy:   StrategyMobile,
				Categories: []string{"performance"},
			},
		},
		{
			name: "explicit desktop with categories",
			in: AnalyzeInput{
				URL:        "https://example.com/page",
				Strategy:   "desktop",
				Categories: []string{"performance", "seo"},
			},
			want: AnalysisRequest{
				URL:        "https://example.com/page",
				Strategy:   StrategyDesktop,
				Categories: []string{"performance", "seo"},
			},
		},
		{
			name: "blank categories collapse to the default",
			in:   AnalyzeInput{URL: "https://example.com", Categories: []string{"", "  "}},
			want: AnalysisRequest{
				URL:        "https://example.com",
				Strategy:   StrategyMobile,
				Categories: []string{"performance"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRequest(tt.in)
			if tt.wantKind != "" {
				var classified *Error
				if !errors.As(err, &classified) {
					t.Fatalf("ParseRequest() error = %v, want classified %s", err, tt.wantKind)
				}
				if classified.Kind != tt.wantKind {
					t.Fatalf("ParseRequest() kind = %s, want %s", classified.Kind, tt.wantKind)
				}
				if classified.Status != 400 {
					t.Fatalf("ParseRequest() status = %d, want 400", classified.Status)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseRequest() unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("ParseRequest() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestQuery_RepeatedCategories(t *testing.T) {
	req := AnalysisRequest{
		URL:        "https://example.com",
		Strategy:   StrategyDesktop,
		Categories: []string{"performance", "seo", "accessibility"},
	}

	q := req.Query("secret-key")

	if got := q.Get("url"); got != "https://example.com" {
		t.Errorf("url = %q", got)
	}
	if got := q.Get("strategy"); got != "desktop" {
		t.Errorf("strategy = %q", got)
	}
	if got := q.Get("key"); got != "secret-key" {
		t.Errorf("key = %q", got)
	}
	// Every requested category must survive as its own repeated parameter;
	// a Set-based builder would silently keep only the last one.
	want := []string{"performance", "seo", "accessibility"}
	if got := q["category"]; !reflect.DeepEqual(got, want) {
		t.Errorf("category params = %v, want %v", got, want)
	}
}

func TestQuery_OmitsEmptyKey(t *testing.T) {
	req := AnalysisRequest{URL: "https://example.com", Strategy: StrategyMobile, Categories: []string{"performance"}}

	if _, present := req.Query("")["key"]; present {
		t.Error("key parameter present for unauthenticated mode")
	}
}
