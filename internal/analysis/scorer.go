package analysis

import (
	"strings"

	"github.com/parwely/brands-intelligence-platform/internal/domain"
)

const (
	positiveFloor      = 0.6
	negativeCeiling    = 0.4
	perMatchBoost      = 0.1
	crisisSentimentCap = 0.2
	confidencePerMatch = 0.2
	confidenceCap      = 0.9
)

// LexiconScorer converts keyword matches and surface features into a
// sentiment result. It is stateless and safe for concurrent use.
type LexiconScorer struct {
	lex *Lexicon
}

func NewLexiconScorer(lex *Lexicon) *LexiconScorer {
	return &LexiconScorer{lex: lex}
}

// Score analyzes one text. Tokenization is word-boundary based with exact
// set membership, so substrings never false-positive ("class" does not
// match "classic"). Crisis keywords force the score to at most 0.2.
func (s *LexiconScorer) Score(text string) domain.SentimentResult {
	if text == "" {
		return domain.NeutralSentiment(domain.ModelLexicon)
	}

	words := uniqueWords(strings.ToLower(text))

	var positive, negative, crisis int
	for w := range words {
		if s.lex.IsPositive(w) {
			positive++
		}
		if s.lex.IsNegative(w) {
			negative++
		}
		if s.lex.IsCrisis(w) {
			crisis++
		}
	}

	score := 0.5
	total := positive + negative
	if total > 0 {
		polarity := float64(positive-negative) / float64(total)
		score = (polarity + 1) / 2
	}

	// Dominant polarity floors/ceils the score, with a small boost per
	// extra match beyond the first.
	switch {
	case positive > negative:
		extra := float64(positive-negative-1) * perMatchBoost
		if floor := positiveFloor + extra; score < floor {
			score = floor
		}
	case negative > positive:
		extra := float64(negative-positive-1) * perMatchBoost
		if ceil := negativeCeiling - extra; score > ceil {
			score = ceil
		}
	}

	// Crisis language always forces a negative reading.
	if crisis > 0 && score > crisisSentimentCap {
		score = crisisSentimentCap
	}

	score = domain.Clamp(score, 0, 1)

	confidence := confidencePerMatch * float64(total+crisis)
	if confidence > confidenceCap {
		confidence = confidenceCap
	}

	return domain.SentimentResult{
		Score:                score,
		Label:                domain.LabelForScore(score),
		Confidence:           confidence,
		ModelUsed:            domain.ModelLexicon,
		CrisisIndicatorCount: crisis,
	}
}

func uniqueWords(text string) map[string]struct{} {
	words := make(map[string]struct{})
	for _, w := range wordRe.FindAllString(text, -1) {
		words[w] = struct{}{}
	}
	return words
}
