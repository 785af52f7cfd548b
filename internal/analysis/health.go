package analysis

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/parwely/brands-intelligence-platform/internal/domain"
)

// Health score blend: average sentiment scaled to 0-100, skewed by the
// positive/negative distribution, penalized by peak crisis severity.
const (
	sentimentScale   = 100.0
	skewWeight       = 20.0
	crisisPenalty    = 50.0
	defaultWindowHrs = 24
)

// HealthAggregator folds per-mention results into a brand health report.
// Stateless; all inputs arrive per call.
type HealthAggregator struct{}

func NewHealthAggregator() *HealthAggregator {
	return &HealthAggregator{}
}

// Assess computes the windowed health report for one brand. An empty
// mention set yields a zero-score "unknown" report with an explanatory
// recommendation, never an error.
func (h *HealthAggregator) Assess(brand string, analyses []domain.MentionAnalysis, windowHours int) domain.BrandHealthReport {
	if windowHours <= 0 {
		windowHours = defaultWindowHrs
	}

	if len(analyses) == 0 {
		return domain.BrandHealthReport{
			Brand:       brand,
			HealthScore: 0,
			HealthLevel: domain.HealthUnknown,
			Recommendations: []string{
				"No mentions in the analysis window; widen the window or verify mention ingestion before acting on this score.",
			},
			WindowHours: windowHours,
		}
	}

	scores := make([]float64, 0, len(analyses))
	var positive, negative, neutral int
	var maxCrisis float64
	var flagged int
	levelCounts := make(map[domain.CrisisLevel]int)

	for _, a := range analyses {
		scores = append(scores, a.Sentiment.Score)
		switch a.Sentiment.Label {
		case domain.SentimentPositive:
			positive++
		case domain.SentimentNegative:
			negative++
		default:
			neutral++
		}

		if a.Crisis.Score > maxCrisis {
			maxCrisis = a.Crisis.Score
		}
		if a.Crisis.Level != domain.CrisisNone {
			flagged++
			levelCounts[a.Crisis.Level]++
		}
	}

	total := float64(len(analyses))
	avg := stat.Mean(scores, nil)

	sentiment := domain.SentimentMetrics{
		Average:       avg,
		PositiveRatio: float64(positive) / total,
		NegativeRatio: float64(negative) / total,
		NeutralRatio:  float64(neutral) / total,
		TotalMentions: len(analyses),
	}
	crisis := domain.CrisisMetrics{
		MaxScore:      maxCrisis,
		DominantLevel: dominantLevel(levelCounts),
		FlaggedCount:  flagged,
	}

	raw := avg*sentimentScale + skewWeight*(sentiment.PositiveRatio-sentiment.NegativeRatio) - crisisPenalty*maxCrisis
	healthScore := domain.Clamp(raw, 0, 100)
	level := domain.HealthLevelForScore(healthScore)

	return domain.BrandHealthReport{
		Brand:           brand,
		HealthScore:     healthScore,
		HealthLevel:     level,
		Sentiment:       sentiment,
		Crisis:          crisis,
		Recommendations: recommendations(level, sentiment, crisis, len(analyses)),
		WindowHours:     windowHours,
	}
}

// dominantLevel picks the most frequent non-none level, breaking ties
// toward the more severe one.
func dominantLevel(counts map[domain.CrisisLevel]int) domain.CrisisLevel {
	order := []domain.CrisisLevel{
		domain.CrisisCritical,
		domain.CrisisMajor,
		domain.CrisisModerate,
		domain.CrisisMinor,
	}
	best := domain.CrisisNone
	bestCount := 0
	for _, level := range order {
		if counts[level] > bestCount {
			best = level
			bestCount = counts[level]
		}
	}
	return best
}

// recommendations is rule-ordered and cumulative: every firing rule
// contributes, and a default monitoring message guarantees the list is
// never empty.
func recommendations(level domain.HealthLevel, s domain.SentimentMetrics, c domain.CrisisMetrics, mentionCount int) []string {
	var recs []string

	if c.DominantLevel == domain.CrisisMajor || c.DominantLevel == domain.CrisisCritical || c.MaxScore >= 0.6 {
		recs = append(recs, "Escalate to the crisis response team: high-severity signals detected in the current window.")
	}
	if s.NegativeRatio > 0.4 {
		recs = append(recs, fmt.Sprintf("Address negative sentiment drivers: %.0f%% of mentions are negative.", s.NegativeRatio*100))
	}
	if s.Average < 0.4 {
		recs = append(recs, "Launch sentiment recovery outreach; average sentiment is below the negative threshold.")
	}
	if mentionCount > 0 && c.FlaggedCount*4 > mentionCount {
		recs = append(recs, "Increase monitoring frequency: over a quarter of mentions carry crisis signals.")
	}
	if level == domain.HealthExcellent {
		recs = append(recs, "Maintain momentum: amplify positive mentions and current engagement strategy.")
	}

	if len(recs) == 0 {
		recs = append(recs, "Continue monitoring; no action required at current levels.")
	}
	return recs
}
