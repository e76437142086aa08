package chaos

import (
	"sort"
	"sync"

	"github.com/SaaSy-Solutions/mockforge-sub004/internal/logging"
)

// EngineConfig tunes recommendation generation.
type EngineConfig struct {
	MinConfidence       float64
	MaxRecommendations  int
	EnableLearning      bool
	AnalysisWindowHours int64
}

// DefaultEngineConfig mirrors the model's EngineConfig::default().
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		MinConfidence:       0.5,
		MaxRecommendations:  20,
		EnableLearning:      true,
		AnalysisWindowHours: 24,
	}
}

// Engine analyzes chaos metrics and produces a prioritized, confidence
// filtered, size-bounded set of recommendations. It never fails:
// insufficient data yields fewer recommendations, not an error.
type Engine struct {
	mu              sync.RWMutex
	recommendations []Recommendation
	patterns        []pattern
	config          EngineConfig
}

// NewEngine builds an engine with DefaultEngineConfig.
func NewEngine() *Engine { return NewEngineWithConfig(DefaultEngineConfig()) }

// NewEngineWithConfig builds an engine with a custom configuration.
func NewEngineWithConfig(config EngineConfig) *Engine {
	return &Engine{config: config}
}

// AnalyzeAndRecommend runs the full detect -> synthesize -> filter ->
// sort -> truncate pipeline and stores the result.
func (e *Engine) AnalyzeAndRecommend(buckets []*MetricsBucket, impact ChaosImpact) []Recommendation {
	patterns := detectPatterns(buckets)
	weaknesses := detectWeaknesses(buckets, impact)

	var recs []Recommendation
	recs = append(recs, recommendationsFromPatterns(patterns)...)
	recs = append(recs, recommendationsFromWeaknesses(weaknesses)...)
	recs = append(recs, coverageRecommendations(buckets)...)
	recs = append(recs, scenarioRecommendations(impact)...)

	filtered := make([]Recommendation, 0, len(recs))
	for _, r := range recs {
		if r.Confidence.Value() >= e.config.MinConfidence {
			filtered = append(filtered, r)
		}
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Score() > filtered[j].Score()
	})

	if len(filtered) > e.config.MaxRecommendations {
		filtered = filtered[:e.config.MaxRecommendations]
	}

	e.mu.Lock()
	e.recommendations = filtered
	if e.config.EnableLearning {
		e.patterns = patterns
	}
	e.mu.Unlock()

	logging.Get(logging.CategoryChaos).Info("generated %d chaos recommendations from %d buckets", len(filtered), len(buckets))
	return filtered
}

// Recommendations returns the last generated set.
func (e *Engine) Recommendations() []Recommendation {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]Recommendation, len(e.recommendations))
	copy(out, e.recommendations)
	return out
}

// RecommendationsByCategory filters the last generated set.
func (e *Engine) RecommendationsByCategory(category Category) []Recommendation {
	e.mu.RLock()
	defer e.mu.RUnlock()
	var out []Recommendation
	for _, r := range e.recommendations {
		if r.Category == category {
			out = append(out, r)
		}
	}
	return out
}

var severityRank = map[Severity]int{
	SeverityInfo: 0, SeverityLow: 1, SeverityMedium: 2, SeverityHigh: 3, SeverityCritical: 4,
}

// RecommendationsBySeverity filters the last generated set to
// severity >= minSeverity.
func (e *Engine) RecommendationsBySeverity(minSeverity Severity) []Recommendation {
	e.mu.RLock()
	defer e.mu.RUnlock()
	var out []Recommendation
	for _, r := range e.recommendations {
		if severityRank[r.Severity] >= severityRank[minSeverity] {
			out = append(out, r)
		}
	}
	return out
}

// Clear drops all stored recommendations.
func (e *Engine) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.recommendations = nil
}
