package analysis

import (
	"context"
	"fmt"
	"math"

	"github.com/parwely/brands-intelligence-platform/internal/domain"
)

// EnsembleWeights fixes the contribution of each scorer when the neural
// path is available. Historical deployments disagreed on the exact split,
// so it is an explicit tunable rather than a hardcoded constant.
type EnsembleWeights struct {
	Neural  float64
	Vader   float64
	Lexicon float64
}

// DefaultEnsembleWeights is the three-way split used in production.
func DefaultEnsembleWeights() EnsembleWeights {
	return EnsembleWeights{Neural: 0.6, Vader: 0.25, Lexicon: 0.15}
}

// Validate checks the weights are non-negative and sum to 1.
func (w EnsembleWeights) Validate() error {
	if w.Neural < 0 || w.Vader < 0 || w.Lexicon < 0 {
		return fmt.Errorf("ensemble weights must be non-negative: %+v", w)
	}
	if sum := w.Neural + w.Vader + w.Lexicon; math.Abs(sum-1) > 1e-9 {
		return fmt.Errorf("ensemble weights must sum to 1, got %.4f", sum)
	}
	return nil
}

// Ensemble merges the lexicon, vader and neural scorers via weighted
// voting, degrading transparently along the chain when components are
// missing or unavailable.
type Ensemble struct {
	lexicon *LexiconScorer
	vader   *VaderScorer // optional
	neural  *NeuralAdapter
	weights EnsembleWeights
}

// NewEnsemble builds the combiner. vader may be nil; its weight is then
// folded into the remaining components proportionally.
func NewEnsemble(lexicon *LexiconScorer, vader *VaderScorer, neural *NeuralAdapter, weights EnsembleWeights) (*Ensemble, error) {
	if lexicon == nil {
		return nil, fmt.Errorf("lexicon scorer is required")
	}
	if neural == nil {
		neural = NewNeuralAdapter(nil, NeuralOptions{})
	}
	if vader == nil && weights.Vader > 0 {
		// No vader scorer configured: fold to the two-way split.
		weights = EnsembleWeights{Neural: 0.65, Lexicon: 0.35}
	}
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	return &Ensemble{lexicon: lexicon, vader: vader, neural: neural, weights: weights}, nil
}

// Score combines all available scorers into one sentiment result. The
// final label is re-derived from the combined score, never voted, so score
// and label cannot disagree. Confidence is the max of the contributing
// confidences. ModelUsed tags the degradation path taken.
func (e *Ensemble) Score(ctx context.Context, text string) domain.SentimentResult {
	lexResult := e.lexicon.Score(text)

	neuralResult, neuralOK := e.neural.Analyze(ctx, text)
	var vaderResult domain.SentimentResult
	vaderOK := e.vader != nil
	if vaderOK {
		vaderResult = e.vader.Score(text)
	}

	if !neuralOK && !vaderOK {
		return lexResult
	}

	wNeural, wVader, wLexicon := e.effectiveWeights(neuralOK, vaderOK)

	score := wLexicon * lexResult.Score
	confidence := lexResult.Confidence
	if neuralOK {
		score += wNeural * neuralResult.Score
		confidence = math.Max(confidence, neuralResult.Confidence)
	}
	if vaderOK {
		score += wVader * vaderResult.Score
		confidence = math.Max(confidence, vaderResult.Confidence)
	}

	// Crisis language overrides the blended score just as it does the
	// lexicon path, so ensemble output cannot soften a crisis reading.
	if lexResult.CrisisIndicatorCount > 0 && score > crisisSentimentCap {
		score = crisisSentimentCap
	}
	score = domain.Clamp(score, 0, 1)

	model := domain.ModelEnsemble
	if !neuralOK {
		// Lexical-only blend still counts as ensemble degradation.
		model = domain.ModelVader
	}

	return domain.SentimentResult{
		Score:                score,
		Label:                domain.LabelForScore(score),
		Confidence:           domain.Clamp(confidence, 0, 1),
		ModelUsed:            model,
		CrisisIndicatorCount: lexResult.CrisisIndicatorCount,
	}
}

// effectiveWeights renormalizes the configured weights over the scorers
// actually present for this call.
func (e *Ensemble) effectiveWeights(neuralOK, vaderOK bool) (neural, vader, lexicon float64) {
	neural, vader, lexicon = e.weights.Neural, e.weights.Vader, e.weights.Lexicon
	if !neuralOK {
		neural = 0
	}
	if !vaderOK {
		vader = 0
	}
	sum := neural + vader + lexicon
	if sum <= 0 {
		return 0, 0, 1
	}
	return neural / sum, vader / sum, lexicon / sum
}
