package chaos

import (
	"testing"
	"time"
)

func TestConfidenceClamping(t *testing.T) {
	if NewConfidence(1.5).Value() != 1.0 {
		t.Fatal("expected clamp to 1.0")
	}
	if NewConfidence(-0.5).Value() != 0.0 {
		t.Fatal("expected clamp to 0.0")
	}
}

func TestConfidenceBands(t *testing.T) {
	c := NewConfidence(0.8)
	if !c.IsHigh() || c.IsMedium() || c.IsLow() {
		t.Fatalf("got %+v", c)
	}
}

func TestRecommendationScore(t *testing.T) {
	r := Recommendation{Severity: SeverityHigh, Confidence: NewConfidence(0.9), ExpectedImpact: 0.8}
	score := r.Score()
	if score <= 0 || score > 1 {
		t.Fatalf("score out of range: %v", score)
	}
}

func TestEngineCreationHasNoRecommendations(t *testing.T) {
	e := NewEngine()
	if len(e.Recommendations()) != 0 {
		t.Fatal("expected empty recommendations on a fresh engine")
	}
}

func TestDetectLatencyPatterns(t *testing.T) {
	bucket := NewMetricsBucket(time.Now())
	bucket.AvgLatencyMs = 800
	bucket.AffectedEndpoints["/api/slow"] = 10

	patterns := detectLatencyPatterns([]*MetricsBucket{bucket})
	if len(patterns) != 1 || patterns[0].patternType != "high_latency" {
		t.Fatalf("got %+v", patterns)
	}
}

func TestNoChaosTestingRecommendation(t *testing.T) {
	e := NewEngine()
	impact := ImpactFromBuckets(nil)

	recs := e.AnalyzeAndRecommend(nil, impact)
	if len(recs) == 0 {
		t.Fatal("expected at least the start-testing recommendation")
	}
	found := false
	for _, r := range recs {
		if r.Category == CategoryCoverage {
			found = true
		}
	}
	if !found {
		t.Fatal("expected a coverage recommendation when there is no chaos testing")
	}
}

func TestIncreasingFaultTrendAndLowResilienceBothSurface(t *testing.T) {
	var buckets []*MetricsBucket
	for i := 0; i < 10; i++ {
		b := NewMetricsBucket(time.Now())
		b.TotalFaults = 1
		b.FaultsByType["timeout"] = 1
		buckets = append(buckets, b)
	}
	for i := 0; i < 10; i++ {
		b := NewMetricsBucket(time.Now())
		b.TotalFaults = 4
		b.FaultsByType["connection_reset"] = 2
		b.FaultsByType["internal_error"] = 2
		buckets = append(buckets, b)
	}
	for _, b := range buckets {
		b.FaultsByType["rate_limited"] = 1
	}

	impact := ChaosImpact{SeverityScore: 0.8, AvgDegradationPercent: 40, TotalEvents: 200}

	e := NewEngine()
	recs := e.AnalyzeAndRecommend(buckets, impact)

	var trend, resilience bool
	for _, r := range recs {
		if r.Category == CategoryScenario && r.Severity == SeverityHigh {
			trend = true
		}
		if r.Category == CategoryCircuitBreaker && r.Severity == SeverityCritical {
			resilience = true
		}
	}
	if !trend {
		t.Fatal("expected an increasing-fault-trend recommendation")
	}
	if !resilience {
		t.Fatal("expected a low-resilience recommendation")
	}
	if len(recs) > 1 && recs[0].Category != CategoryCircuitBreaker {
		t.Fatalf("expected the critical resilience recommendation to sort first, got %+v", recs[0])
	}
}

func TestMaxRecommendationsTruncates(t *testing.T) {
	cfg := DefaultEngineConfig()
	cfg.MaxRecommendations = 1
	e := NewEngineWithConfig(cfg)

	recs := e.AnalyzeAndRecommend(nil, ImpactFromBuckets(nil))
	if len(recs) != 1 {
		t.Fatalf("expected truncation to 1, got %d", len(recs))
	}
}

func TestMinConfidenceFiltersOutLowConfidence(t *testing.T) {
	cfg := DefaultEngineConfig()
	cfg.MinConfidence = 0.99
	e := NewEngineWithConfig(cfg)

	recs := e.AnalyzeAndRecommend(nil, ImpactFromBuckets(nil))
	for _, r := range recs {
		if r.Confidence.Value() < 0.99 {
			t.Fatalf("expected all recommendations at or above min confidence, got %+v", r)
		}
	}
}
