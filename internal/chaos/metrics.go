// Package chaos analyzes chaos-engineering metrics and synthesizes
// prioritized recommendations for improving resilience testing.
package chaos

import "time"

// MetricsBucket aggregates chaos events observed during one time window.
type MetricsBucket struct {
	Timestamp           time.Time
	AffectedEndpoints   map[string]int
	AvgLatencyMs        float64
	FaultsByType        map[string]int
	RateLimitViolations int
	ProtocolEvents      map[string]int
	TotalEvents         int
	TotalFaults         int
}

// NewMetricsBucket builds an empty bucket stamped at ts.
func NewMetricsBucket(ts time.Time) *MetricsBucket {
	return &MetricsBucket{
		Timestamp:         ts,
		AffectedEndpoints: make(map[string]int),
		FaultsByType:      make(map[string]int),
		ProtocolEvents:    make(map[string]int),
	}
}

// EndpointCount pairs an endpoint with an event count, used for
// ChaosImpact's top-affected ranking.
type EndpointCount struct {
	Endpoint string
	Count    int
}

// ChaosImpact summarizes the aggregate effect of chaos injection across
// a metrics series.
type ChaosImpact struct {
	SeverityScore         float64
	AvgDegradationPercent float64
	TopAffectedEndpoints  []EndpointCount
	TotalEvents           int
}

// ImpactFromBuckets derives a ChaosImpact summary from a metrics
// series; an empty series yields a zero-value impact.
func ImpactFromBuckets(buckets []*MetricsBucket) ChaosImpact {
	if len(buckets) == 0 {
		return ChaosImpact{}
	}

	totals := make(map[string]int)
	totalEvents := 0
	totalFaults := 0
	for _, b := range buckets {
		totalEvents += b.TotalEvents
		totalFaults += b.TotalFaults
		for ep, count := range b.AffectedEndpoints {
			totals[ep] += count
		}
	}

	faultRate := 0.0
	if totalEvents > 0 {
		faultRate = float64(totalFaults) / float64(totalEvents)
	}

	return ChaosImpact{
		SeverityScore:         clamp01(faultRate),
		AvgDegradationPercent: faultRate * 100,
		TopAffectedEndpoints:  topEndpoints(totals, 5),
		TotalEvents:           totalEvents,
	}
}

func topEndpoints(totals map[string]int, limit int) []EndpointCount {
	out := make([]EndpointCount, 0, len(totals))
	for ep, count := range totals {
		out = append(out, EndpointCount{Endpoint: ep, Count: count})
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].Count > out[j-1].Count; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
