package analysis

import (
	"math"

	"github.com/jonreiter/govader"

	"github.com/parwely/brands-intelligence-platform/internal/domain"
)

// VaderScorer wraps the VADER rule-based analyzer as a second lexical
// opinion for the ensemble. Its compound score in [-1,1] maps linearly
// onto the common [0,1] scale.
type VaderScorer struct {
	sia *govader.SentimentIntensityAnalyzer
}

func NewVaderScorer() *VaderScorer {
	return &VaderScorer{sia: govader.NewSentimentIntensityAnalyzer()}
}

func (v *VaderScorer) Score(text string) domain.SentimentResult {
	if text == "" {
		return domain.NeutralSentiment(domain.ModelVader)
	}

	scores := v.sia.PolarityScores(text)
	score := domain.Clamp((scores.Compound+1)/2, 0, 1)

	return domain.SentimentResult{
		Score:      score,
		Label:      domain.LabelForScore(score),
		Confidence: math.Abs(scores.Compound),
		ModelUsed:  domain.ModelVader,
	}
}
