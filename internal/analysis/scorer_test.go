package analysis

import (
	"testing"

	"github.com/parwely/brands-intelligence-platform/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestLexiconScorerEmpty(t *testing.T) {
	s := NewLexiconScorer(NewLexicon())
	r := s.Score("")
	assert.Equal(t, 0.5, r.Score)
	assert.Equal(t, domain.SentimentNeutral, r.Label)
	assert.Zero(t, r.Confidence)
}

func TestLexiconScorerPositive(t *testing.T) {
	s := NewLexiconScorer(NewLexicon())
	r := s.Score("I absolutely love this, best purchase ever!")

	assert.Equal(t, domain.SentimentPositive, r.Label)
	assert.Greater(t, r.Score, 0.6)
	assert.Zero(t, r.CrisisIndicatorCount)
}

func TestLexiconScorerNegative(t *testing.T) {
	s := NewLexiconScorer(NewLexicon())
	r := s.Score("terrible awful experience, worst support")

	assert.Equal(t, domain.SentimentNegative, r.Label)
	assert.LessOrEqual(t, r.Score, 0.4)
}

func TestLexiconScorerCrisisOverride(t *testing.T) {
	s := NewLexiconScorer(NewLexicon())

	// Even with positive words present, a crisis keyword caps the score.
	r := s.Score("This is a total scam, avoid!")
	assert.Equal(t, domain.SentimentNegative, r.Label)
	assert.LessOrEqual(t, r.Score, 0.2)
	assert.Equal(t, 1, r.CrisisIndicatorCount)

	r = s.Score("great amazing wonderful product but lawsuit pending")
	assert.LessOrEqual(t, r.Score, 0.2)
}

func TestLexiconScorerNoSubstringMatch(t *testing.T) {
	s := NewLexiconScorer(NewLexicon())

	// "classic" contains "class" but is not a keyword; "scampi" contains
	// "scam" but must not trigger the crisis override.
	r := s.Score("a classic scampi recipe")
	assert.Equal(t, domain.SentimentNeutral, r.Label)
	assert.Zero(t, r.CrisisIndicatorCount)
}

func TestLexiconScorerScoreRange(t *testing.T) {
	s := NewLexiconScorer(NewLexicon())
	texts := []string{
		"", "ok", "love love love love love",
		"hate hate terrible awful worst disgusting garbage trash",
		"SCAM FRAUD LAWSUIT boycott dangerous recall warning",
		"!?!?!? \U0001F621",
	}
	for _, text := range texts {
		r := s.Score(text)
		assert.GreaterOrEqual(t, r.Score, 0.0, "text %q", text)
		assert.LessOrEqual(t, r.Score, 1.0, "text %q", text)
		assert.GreaterOrEqual(t, r.Confidence, 0.0, "text %q", text)
		assert.LessOrEqual(t, r.Confidence, 0.9, "text %q", text)
	}
}

func TestLexiconScorerConfidenceGrowsWithEvidence(t *testing.T) {
	s := NewLexiconScorer(NewLexicon())

	weak := s.Score("good")
	strong := s.Score("good great amazing excellent fantastic")
	assert.Greater(t, strong.Confidence, weak.Confidence)
	assert.LessOrEqual(t, strong.Confidence, 0.9)
}

func TestLexiconScorerDeterministic(t *testing.T) {
	s := NewLexiconScorer(NewLexicon())
	a := s.Score("mixed feelings: great product, awful delivery")
	b := s.Score("mixed feelings: great product, awful delivery")
	assert.Equal(t, a, b)
}

func TestVaderScorer(t *testing.T) {
	v := NewVaderScorer()

	r := v.Score("")
	assert.Equal(t, 0.5, r.Score)

	r = v.Score("I love this, it is wonderful!")
	assert.Greater(t, r.Score, 0.5)
	assert.Equal(t, domain.ModelVader, r.ModelUsed)

	r = v.Score("This is horrible, I hate it.")
	assert.Less(t, r.Score, 0.5)
}
