package chaos

import (
	"fmt"

	"github.com/google/uuid"
)

func recommendationsFromPatterns(patterns []pattern) []Recommendation {
	var out []Recommendation
	for _, p := range patterns {
		if rec, ok := patternToRecommendation(p); ok {
			out = append(out, rec)
		}
	}
	return out
}

func patternToRecommendation(p pattern) (Recommendation, bool) {
	switch p.patternType {
	case "high_latency":
		return latencyRecommendation(p), true
	case "high_fault_rate":
		return faultRecommendation(p), true
	case "frequent_rate_limits":
		return rateLimitRecommendation(p), true
	case "increasing_fault_trend":
		return trendRecommendation(p), true
	default:
		return Recommendation{}, false
	}
}

func firstOr(items []string, fallback string) string {
	if len(items) == 0 {
		return fallback
	}
	return items[0]
}

func latencyRecommendation(p pattern) Recommendation {
	endpoint := firstOr(p.affected, "unknown")
	severity := SeverityMedium
	if p.severity > 0.7 {
		severity = SeverityHigh
	}
	return Recommendation{
		ID:          "rec-latency-" + uuid.NewString(),
		Category:    CategoryLatency,
		Severity:    severity,
		Confidence:  NewConfidence(0.85),
		Title:       fmt.Sprintf("Increase latency testing for endpoint: %s", endpoint),
		Description: fmt.Sprintf("Endpoint %s shows high average latency (%.0fms) under chaos conditions", endpoint, p.severity*1000),
		Rationale: "High latency detected consistently across chaos experiments. This indicates " +
			"the endpoint may be sensitive to delays and needs more comprehensive latency testing.",
		Action: fmt.Sprintf("Add more aggressive latency scenarios for endpoint %s. Test with latencies up to %dms to validate timeout handling.",
			endpoint, int64(p.severity*2000)),
		Example:           fmt.Sprintf("mockforge serve --chaos --chaos-latency-ms %d --chaos-latency-probability 0.8", int64(p.severity*1500)),
		AffectedEndpoints: p.affected,
		Metrics: map[string]float64{
			"avg_latency_ms": p.severity * 1000,
			"frequency":      p.frequency,
		},
		ExpectedImpact: p.severity * 0.8,
	}
}

func faultRecommendation(p pattern) Recommendation {
	endpoint := firstOr(p.affected, "unknown")
	severity := SeverityMedium
	if p.severity > 0.5 {
		severity = SeverityHigh
	}
	return Recommendation{
		ID:          "rec-fault-" + uuid.NewString(),
		Category:    CategoryFaultInjection,
		Severity:    severity,
		Confidence:  NewConfidence(0.80),
		Title:       fmt.Sprintf("Endpoint %s shows high fault sensitivity", endpoint),
		Description: fmt.Sprintf("Fault rate of %.1f%% detected for endpoint %s", p.frequency*100, endpoint),
		Rationale: "High fault rate indicates insufficient error handling or retry logic. " +
			"Testing with more diverse fault types is recommended.",
		Action: fmt.Sprintf("Implement comprehensive error handling for endpoint %s. "+
			"Test with multiple fault types (500, 502, 503, 504, connection errors).", endpoint),
		Example:           "mockforge serve --chaos --chaos-http-errors '500,502,503,504' --chaos-http-error-probability 0.3",
		AffectedEndpoints: p.affected,
		Metrics: map[string]float64{
			"fault_rate": p.frequency,
			"severity":   p.severity,
		},
		ExpectedImpact: p.severity,
	}
}

func rateLimitRecommendation(p pattern) Recommendation {
	return Recommendation{
		ID:          "rec-ratelimit-" + uuid.NewString(),
		Category:    CategoryRateLimit,
		Severity:    SeverityMedium,
		Confidence:  NewConfidence(0.75),
		Title:       "Frequent rate limit violations detected",
		Description: fmt.Sprintf("Rate limit violations occurring at %.1f%% of requests", p.frequency*100),
		Rationale: "High rate of rate limiting indicates need for better backpressure " +
			"handling and retry logic with exponential backoff.",
		Action:            "Implement proper retry logic with exponential backoff. Test with more aggressive rate limits to validate behavior.",
		Example:           "mockforge serve --chaos --chaos-rate-limit 10 --chaos-scenario peak_traffic",
		AffectedEndpoints: p.affected,
		Metrics:           map[string]float64{"violation_rate": p.frequency},
		ExpectedImpact:    0.6,
	}
}

func trendRecommendation(p pattern) Recommendation {
	return Recommendation{
		ID:          "rec-trend-" + uuid.NewString(),
		Category:    CategoryScenario,
		Severity:    SeverityHigh,
		Confidence:  NewConfidence(0.70),
		Title:       "Increasing fault trend detected - system degradation",
		Description: "Fault rate increasing over time, indicating system degradation or cascading failures.",
		Rationale: "Increasing fault trends suggest lack of circuit breaker or bulkhead patterns. " +
			"System may be experiencing cascading failures.",
		Action:            "Implement circuit breaker and bulkhead patterns. Test with cascading failure scenarios.",
		Example:           "mockforge serve --chaos --chaos-scenario cascading_failure",
		AffectedEndpoints: p.affected,
		Metrics:           map[string]float64{"severity": p.severity},
		ExpectedImpact:    0.9,
	}
}

func recommendationsFromWeaknesses(weaknesses []weakness) []Recommendation {
	var out []Recommendation
	for _, w := range weaknesses {
		if rec, ok := weaknessToRecommendation(w); ok {
			out = append(out, rec)
		}
	}
	return out
}

func weaknessToRecommendation(w weakness) (Recommendation, bool) {
	switch w.weaknessType {
	case "no_chaos_testing":
		return noTestingRecommendation(), true
	case "low_resilience":
		return resilienceRecommendation(w), true
	case "insufficient_fault_coverage":
		return faultCoverageRecommendation(), true
	default:
		return Recommendation{}, false
	}
}

func noTestingRecommendation() Recommendation {
	return Recommendation{
		ID:             "rec-start-" + uuid.NewString(),
		Category:       CategoryCoverage,
		Severity:       SeverityCritical,
		Confidence:     NewConfidence(1.0),
		Title:          "Start chaos engineering testing",
		Description:    "No chaos testing detected. Begin with basic scenarios to build confidence in system resilience.",
		Rationale:      "Without chaos testing, you cannot validate how your system behaves under failure conditions.",
		Action:         "Start with the 'network_degradation' scenario to test basic resilience.",
		Example:        "mockforge serve --chaos --chaos-scenario network_degradation",
		Metrics:        map[string]float64{},
		ExpectedImpact: 1.0,
	}
}

func resilienceRecommendation(w weakness) Recommendation {
	return Recommendation{
		ID:          "rec-resilience-" + uuid.NewString(),
		Category:    CategoryCircuitBreaker,
		Severity:    SeverityCritical,
		Confidence:  NewConfidence(0.85),
		Title:       "System shows low resilience - implement resilience patterns",
		Description: fmt.Sprintf("System degradation of %.1f%% under chaos - resilience patterns needed", w.evidence["degradation_percent"]),
		Rationale: "High system degradation indicates missing resilience patterns like circuit breakers, " +
			"bulkheads, and retry logic.",
		Action:            "Implement circuit breaker and bulkhead patterns for critical endpoints. Add retry logic with exponential backoff.",
		Example:           "# Test with circuit breaker scenario\nmockforge serve --chaos --chaos-scenario cascading_failure",
		AffectedEndpoints: w.endpoints,
		Metrics:           w.evidence,
		ExpectedImpact:    0.95,
	}
}

func faultCoverageRecommendation() Recommendation {
	return Recommendation{
		ID:          "rec-coverage-" + uuid.NewString(),
		Category:    CategoryCoverage,
		Severity:    SeverityHigh,
		Confidence:  NewConfidence(0.80),
		Title:       "Insufficient fault type coverage",
		Description: "Testing with limited fault types. Expand coverage to include multiple error conditions.",
		Rationale: "Comprehensive chaos testing should include various fault types: HTTP errors " +
			"(500, 502, 503, 504), connection errors, and timeouts.",
		Action:         "Add diverse fault injection scenarios covering all major failure modes.",
		Example:        "mockforge serve --chaos --chaos-scenario service_instability",
		Metrics:        map[string]float64{},
		ExpectedImpact: 0.7,
	}
}

func coverageRecommendations(buckets []*MetricsBucket) []Recommendation {
	protocolsTested := make(map[string]struct{})
	for _, b := range buckets {
		for proto := range b.ProtocolEvents {
			protocolsTested[proto] = struct{}{}
		}
	}
	if len(protocolsTested) >= 2 {
		return nil
	}
	return []Recommendation{{
		ID:             "rec-protocol-" + uuid.NewString(),
		Category:       CategoryCoverage,
		Severity:       SeverityMedium,
		Confidence:     NewConfidence(0.75),
		Title:          "Expand protocol-specific chaos testing",
		Description:    "Limited protocol coverage. Test chaos scenarios across HTTP, gRPC, WebSocket, and GraphQL.",
		Rationale:      "Different protocols have different failure modes. Comprehensive testing should cover all protocols in use.",
		Action:         "Enable protocol-specific chaos scenarios.",
		Example:        "# Test gRPC chaos\nmockforge serve --chaos --grpc-port 50051",
		Metrics:        map[string]float64{},
		ExpectedImpact: 0.6,
	}}
}

func scenarioRecommendations(impact ChaosImpact) []Recommendation {
	if impact.TotalEvents >= 100 {
		return nil
	}
	return []Recommendation{{
		ID:          "rec-progressive-" + uuid.NewString(),
		Category:    CategoryScenario,
		Severity:    SeverityMedium,
		Confidence:  NewConfidence(0.70),
		Title:       "Implement progressive chaos testing",
		Description: "Start with light chaos and gradually increase intensity to identify breaking points.",
		Rationale: "Progressive testing helps identify at what point your system starts to degrade, " +
			"allowing you to set appropriate limits.",
		Action: "Run chaos scenarios in order of increasing intensity: " +
			"network_degradation -> service_instability -> cascading_failure",
		Example: "# Phase 1: Light chaos\nmockforge serve --chaos --chaos-scenario network_degradation\n\n" +
			"# Phase 2: Medium chaos\nmockforge serve --chaos --chaos-scenario service_instability\n\n" +
			"# Phase 3: Heavy chaos\nmockforge serve --chaos --chaos-scenario cascading_failure",
		Metrics:        map[string]float64{},
		ExpectedImpact: 0.75,
	}}
}
