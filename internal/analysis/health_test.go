package analysis

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parwely/brands-intelligence-platform/internal/domain"
)

func sentimentOf(score float64) domain.SentimentResult {
	return domain.SentimentResult{
		Score:     score,
		Label:     domain.LabelForScore(score),
		ModelUsed: domain.ModelLexicon,
	}
}

func crisisOf(score float64) domain.CrisisResult {
	return domain.CrisisResult{
		Score: score,
		Level: domain.CrisisLevelForScore(score),
	}
}

func TestAssessEmpty(t *testing.T) {
	h := NewHealthAggregator()
	report := h.Assess("acme", nil, 24)

	assert.Zero(t, report.HealthScore)
	assert.Equal(t, domain.HealthUnknown, report.HealthLevel)
	require.NotEmpty(t, report.Recommendations)
	assert.Contains(t, report.Recommendations[0], "No mentions")
}

func TestAssessAllPositive(t *testing.T) {
	h := NewHealthAggregator()
	analyses := []domain.MentionAnalysis{
		{Sentiment: sentimentOf(0.9), Crisis: crisisOf(0)},
		{Sentiment: sentimentOf(0.8), Crisis: crisisOf(0)},
		{Sentiment: sentimentOf(0.95), Crisis: crisisOf(0)},
	}
	report := h.Assess("acme", analyses, 24)

	assert.Equal(t, 1.0, report.Sentiment.PositiveRatio)
	assert.Zero(t, report.Sentiment.NegativeRatio)
	assert.Equal(t, domain.HealthExcellent, report.HealthLevel)

	var hasMomentum bool
	for _, rec := range report.Recommendations {
		if strings.Contains(rec, "momentum") {
			hasMomentum = true
		}
	}
	assert.True(t, hasMomentum, "excellent health includes a maintain-momentum recommendation")
}

func TestAssessRatiosSumToOne(t *testing.T) {
	h := NewHealthAggregator()
	analyses := []domain.MentionAnalysis{
		{Sentiment: sentimentOf(0.9), Crisis: crisisOf(0)},
		{Sentiment: sentimentOf(0.5), Crisis: crisisOf(0)},
		{Sentiment: sentimentOf(0.1), Crisis: crisisOf(0)},
		{Sentiment: sentimentOf(0.3), Crisis: crisisOf(0.2)},
		{Sentiment: sentimentOf(0.7), Crisis: crisisOf(0)},
	}
	report := h.Assess("acme", analyses, 24)

	sum := report.Sentiment.PositiveRatio + report.Sentiment.NegativeRatio + report.Sentiment.NeutralRatio
	assert.InDelta(t, 1.0, sum, 1e-9)
	assert.Equal(t, 5, report.Sentiment.TotalMentions)
}

func TestAssessCrisisPenalty(t *testing.T) {
	h := NewHealthAggregator()
	calm := []domain.MentionAnalysis{{Sentiment: sentimentOf(0.7), Crisis: crisisOf(0)}}
	stormy := []domain.MentionAnalysis{{Sentiment: sentimentOf(0.7), Crisis: crisisOf(0.9)}}

	calmReport := h.Assess("acme", calm, 24)
	stormyReport := h.Assess("acme", stormy, 24)

	assert.Greater(t, calmReport.HealthScore, stormyReport.HealthScore)
	assert.InDelta(t, 45.0, calmReport.HealthScore-stormyReport.HealthScore, 1e-9)
	assert.Equal(t, 0.9, stormyReport.Crisis.MaxScore)
}

func TestAssessHealthScoreClamped(t *testing.T) {
	h := NewHealthAggregator()

	floor := h.Assess("acme", []domain.MentionAnalysis{
		{Sentiment: sentimentOf(0.0), Crisis: crisisOf(1.0)},
	}, 24)
	assert.Equal(t, 0.0, floor.HealthScore)

	ceil := h.Assess("acme", []domain.MentionAnalysis{
		{Sentiment: sentimentOf(1.0), Crisis: crisisOf(0)},
	}, 24)
	assert.Equal(t, 100.0, ceil.HealthScore)
}

func TestAssessRecommendationsCumulative(t *testing.T) {
	h := NewHealthAggregator()
	analyses := []domain.MentionAnalysis{
		{Sentiment: sentimentOf(0.1), Crisis: crisisOf(0.85)},
		{Sentiment: sentimentOf(0.2), Crisis: crisisOf(0.7)},
		{Sentiment: sentimentOf(0.15), Crisis: crisisOf(0.65)},
	}
	report := h.Assess("acme", analyses, 24)

	// Escalation, negative-ratio, low-average and monitoring-frequency
	// rules all fire.
	assert.GreaterOrEqual(t, len(report.Recommendations), 4)
	assert.Equal(t, domain.HealthCritical, report.HealthLevel)
}

func TestAssessDefaultRecommendation(t *testing.T) {
	h := NewHealthAggregator()
	analyses := []domain.MentionAnalysis{
		{Sentiment: sentimentOf(0.55), Crisis: crisisOf(0)},
	}
	report := h.Assess("acme", analyses, 24)

	require.Len(t, report.Recommendations, 1)
	assert.Contains(t, report.Recommendations[0], "Continue monitoring")
}

func TestAssessDominantCrisisLevel(t *testing.T) {
	h := NewHealthAggregator()
	analyses := []domain.MentionAnalysis{
		{Sentiment: sentimentOf(0.5), Crisis: crisisOf(0.15)},
		{Sentiment: sentimentOf(0.5), Crisis: crisisOf(0.2)},
		{Sentiment: sentimentOf(0.5), Crisis: crisisOf(0.65)},
	}
	report := h.Assess("acme", analyses, 24)

	assert.Equal(t, domain.CrisisMinor, report.Crisis.DominantLevel)
	assert.Equal(t, 3, report.Crisis.FlaggedCount)
}

func TestAssessDefaultWindow(t *testing.T) {
	h := NewHealthAggregator()
	report := h.Assess("acme", nil, 0)
	assert.Equal(t, 24, report.WindowHours)
}
