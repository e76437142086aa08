package chaos

// pattern is an internally detected chaos-event regularity, mapped to
// a Recommendation by the engine.
type pattern struct {
	patternType string
	frequency   float64
	affected    []string
	severity    float64
}

// weakness is an internally detected systemic resilience gap.
type weakness struct {
	weaknessType string
	endpoints    []string
	severity     float64
	evidence     map[string]float64
}

func detectPatterns(buckets []*MetricsBucket) []pattern {
	if len(buckets) == 0 {
		return nil
	}
	var out []pattern
	out = append(out, detectLatencyPatterns(buckets)...)
	out = append(out, detectFaultPatterns(buckets)...)
	out = append(out, detectRateLimitPatterns(buckets)...)
	out = append(out, detectTimePatterns(buckets)...)
	return out
}

func detectLatencyPatterns(buckets []*MetricsBucket) []pattern {
	endpointLatencies := make(map[string][]float64)
	for _, b := range buckets {
		for ep := range b.AffectedEndpoints {
			endpointLatencies[ep] = append(endpointLatencies[ep], b.AvgLatencyMs)
		}
	}

	var out []pattern
	for ep, latencies := range endpointLatencies {
		if len(latencies) == 0 {
			continue
		}
		sum := 0.0
		for _, v := range latencies {
			sum += v
		}
		avg := sum / float64(len(latencies))
		if avg > 500 {
			out = append(out, pattern{
				patternType: "high_latency",
				frequency:   float64(len(latencies)) / float64(len(buckets)),
				affected:    []string{ep},
				severity:    clamp01(avg / 1000),
			})
		}
	}
	return out
}

func detectFaultPatterns(buckets []*MetricsBucket) []pattern {
	endpointFaults := make(map[string]int)
	totalEventsPerEndpoint := make(map[string]int)

	for _, b := range buckets {
		for ep, count := range b.AffectedEndpoints {
			totalEventsPerEndpoint[ep] += count
		}
		for faultType, count := range b.FaultsByType {
			endpointFaults[faultType] += count
		}
	}

	var out []pattern
	for endpoint, faultCount := range endpointFaults {
		total := totalEventsPerEndpoint[endpoint]
		if total == 0 {
			total = 1
		}
		faultRate := float64(faultCount) / float64(total)
		if faultRate > 0.2 {
			out = append(out, pattern{
				patternType: "high_fault_rate",
				frequency:   faultRate,
				affected:    []string{endpoint},
				severity:    clamp01(faultRate),
			})
		}
	}
	return out
}

func detectRateLimitPatterns(buckets []*MetricsBucket) []pattern {
	totalViolations, totalEvents := 0, 0
	for _, b := range buckets {
		totalViolations += b.RateLimitViolations
		totalEvents += b.TotalEvents
	}
	if totalEvents == 0 {
		return nil
	}
	violationRate := float64(totalViolations) / float64(totalEvents)
	if violationRate <= 0.1 {
		return nil
	}
	return []pattern{{
		patternType: "frequent_rate_limits",
		frequency:   violationRate,
		affected:    []string{"global"},
		severity:    clamp01(violationRate),
	}}
}

func detectTimePatterns(buckets []*MetricsBucket) []pattern {
	if len(buckets) < 10 {
		return nil
	}

	mid := len(buckets) / 2
	firstHalf, secondHalf := buckets[:mid], buckets[mid:]

	firstAvg := meanTotalFaults(firstHalf)
	secondAvg := meanTotalFaults(secondHalf)

	if secondAvg <= firstAvg*1.5 {
		return nil
	}
	denom := firstAvg
	if denom < 1 {
		denom = 1
	}
	return []pattern{{
		patternType: "increasing_fault_trend",
		frequency:   1.0,
		affected:    []string{"system"},
		severity:    clamp01((secondAvg - firstAvg) / denom),
	}}
}

func meanTotalFaults(buckets []*MetricsBucket) float64 {
	sum := 0
	for _, b := range buckets {
		sum += b.TotalFaults
	}
	return float64(sum) / float64(len(buckets))
}

func detectWeaknesses(buckets []*MetricsBucket, impact ChaosImpact) []weakness {
	var out []weakness

	if w := detectCoverageWeakness(buckets); w != nil {
		out = append(out, *w)
	}

	if impact.SeverityScore > 0.7 {
		endpoints := make([]string, 0, len(impact.TopAffectedEndpoints))
		for _, ec := range impact.TopAffectedEndpoints {
			endpoints = append(endpoints, ec.Endpoint)
		}
		out = append(out, weakness{
			weaknessType: "low_resilience",
			endpoints:    endpoints,
			severity:     impact.SeverityScore,
			evidence: map[string]float64{
				"severity_score":      impact.SeverityScore,
				"degradation_percent": impact.AvgDegradationPercent,
			},
		})
	}

	if detectInsufficientFaultCoverage(buckets) {
		out = append(out, weakness{
			weaknessType: "insufficient_fault_coverage",
			severity:     0.6,
			evidence:     map[string]float64{},
		})
	}

	return out
}

func detectCoverageWeakness(buckets []*MetricsBucket) *weakness {
	if len(buckets) == 0 {
		return &weakness{weaknessType: "no_chaos_testing", severity: 0.8, evidence: map[string]float64{}}
	}
	return nil
}

func detectInsufficientFaultCoverage(buckets []*MetricsBucket) bool {
	faultTypes := make(map[string]struct{})
	for _, b := range buckets {
		for ft := range b.FaultsByType {
			faultTypes[ft] = struct{}{}
		}
	}
	return len(faultTypes) < 3
}
