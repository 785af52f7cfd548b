package analysis

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/parwely/brands-intelligence-platform/internal/domain"
	"github.com/parwely/brands-intelligence-platform/internal/metrics"
)

const maxNeuralInputRunes = 512

// NeuralOptions tunes the adapter's resource limits.
type NeuralOptions struct {
	Timeout       time.Duration // per-call inference timeout
	MaxConcurrent int           // bounded worker slots
	RateLimit     rate.Limit    // calls per second, 0 means unlimited
}

func defaultNeuralOptions() NeuralOptions {
	return NeuralOptions{
		Timeout:       2 * time.Second,
		MaxConcurrent: 4,
		RateLimit:     0,
	}
}

// NeuralAdapter wraps an external pre-trained classifier behind a bounded
// worker pool, a per-call timeout, and a circuit breaker. Unavailability is
// a first-class, silent outcome: Analyze reports ok=false and never
// propagates provider failures to the caller.
type NeuralAdapter struct {
	provider domain.NeuralProvider
	opts     NeuralOptions
	sem      chan struct{}
	limiter  *rate.Limiter
	breaker  *gobreaker.CircuitBreaker
}

// NewNeuralAdapter builds the adapter. A nil provider yields a permanently
// unavailable adapter; availability is decided here, once, not per call.
func NewNeuralAdapter(provider domain.NeuralProvider, opts NeuralOptions) *NeuralAdapter {
	def := defaultNeuralOptions()
	if opts.Timeout <= 0 {
		opts.Timeout = def.Timeout
	}
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = def.MaxConcurrent
	}

	a := &NeuralAdapter{
		provider: provider,
		opts:     opts,
		sem:      make(chan struct{}, opts.MaxConcurrent),
	}
	if opts.RateLimit > 0 {
		a.limiter = rate.NewLimiter(opts.RateLimit, opts.MaxConcurrent)
	}
	if provider != nil {
		a.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "neural-" + provider.Name(),
			MaxRequests: 3,
			Interval:    60 * time.Second,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.Requests >= 5 && float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				slog.Warn("neural breaker state change", "name", name, "from", from.String(), "to", to.String())
				metrics.NeuralBreakerStateChanges.WithLabelValues(to.String()).Inc()
			},
		})
	}
	return a
}

// Available reports whether a provider was configured at construction.
// A tripped breaker still counts as configured; individual calls degrade.
func (a *NeuralAdapter) Available() bool {
	return a.provider != nil
}

// Analyze obtains a normalized sentiment result from the neural provider.
// ok=false means the neural path is unavailable for this call (no provider,
// breaker open, rate limited, timeout, or provider error); callers degrade
// to the lexicon path without treating it as failure.
func (a *NeuralAdapter) Analyze(ctx context.Context, text string) (domain.SentimentResult, bool) {
	if a.provider == nil || text == "" {
		return domain.SentimentResult{}, false
	}

	if a.limiter != nil && !a.limiter.Allow() {
		metrics.NeuralCallsTotal.WithLabelValues("rate_limited").Inc()
		return domain.SentimentResult{}, false
	}

	select {
	case a.sem <- struct{}{}:
		defer func() { <-a.sem }()
	case <-ctx.Done():
		metrics.NeuralCallsTotal.WithLabelValues("canceled").Inc()
		return domain.SentimentResult{}, false
	}

	callCtx, cancel := context.WithTimeout(ctx, a.opts.Timeout)
	defer cancel()

	start := time.Now()
	out, err := a.breaker.Execute(func() (any, error) {
		return a.provider.Classify(callCtx, truncateForModel(text))
	})
	metrics.NeuralCallDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.NeuralCallsTotal.WithLabelValues("error").Inc()
		slog.Debug("neural call failed, degrading to lexicon", "error", err)
		return domain.SentimentResult{}, false
	}

	scores := out.([]domain.LabelScore)
	if len(scores) == 0 {
		metrics.NeuralCallsTotal.WithLabelValues("empty").Inc()
		return domain.SentimentResult{}, false
	}

	metrics.NeuralCallsTotal.WithLabelValues("ok").Inc()
	return normalizeDistribution(scores), true
}

// truncateForModel caps input at the model's maximum length, keeping a
// trailing ellipsis marker so truncation is visible downstream.
func truncateForModel(text string) string {
	runes := []rune(text)
	if len(runes) <= maxNeuralInputRunes {
		return text
	}
	return string(runes[:maxNeuralInputRunes-3]) + "..."
}

// normalizeDistribution maps the three known label schemas onto the common
// [0,1] scale: binary/ternary positive-negative models, ordinal star-rating
// models (LABEL_0..LABEL_k), and a name heuristic for everything else.
func normalizeDistribution(scores []domain.LabelScore) domain.SentimentResult {
	byLabel := make(map[string]float64, len(scores))
	var top domain.LabelScore
	for _, ls := range scores {
		byLabel[strings.ToUpper(ls.Label)] = ls.Score
		if ls.Score > top.Score {
			top = ls
		}
	}

	score := 0.5
	switch {
	case hasKeys(byLabel, "POSITIVE", "NEGATIVE"):
		pos := byLabel["POSITIVE"]
		neg := byLabel["NEGATIVE"]
		neu := byLabel["NEUTRAL"]
		if total := pos + neg + neu; total > 0 {
			score = (pos + neu*0.5) / total
		}

	case hasStarLabels(byLabel):
		maxIdx := 0
		for label := range byLabel {
			if idx, ok := starIndex(label); ok && idx > maxIdx {
				maxIdx = idx
			}
		}
		var weighted, weight float64
		for label, p := range byLabel {
			idx, ok := starIndex(label)
			if !ok {
				continue
			}
			rating := 0.5
			if maxIdx > 0 {
				rating = float64(idx) / float64(maxIdx)
			}
			weighted += rating * p
			weight += p
		}
		if weight > 0 {
			score = weighted / weight
		}

	default:
		lower := strings.ToLower(top.Label)
		switch {
		case strings.Contains(lower, "positive"):
			score = 0.8
		case strings.Contains(lower, "negative"):
			score = 0.2
		}
	}

	score = domain.Clamp(score, 0, 1)
	return domain.SentimentResult{
		Score:      score,
		Label:      domain.LabelForScore(score),
		Confidence: domain.Clamp(top.Score, 0, 1),
		ModelUsed:  domain.ModelNeural,
	}
}

func hasKeys(m map[string]float64, keys ...string) bool {
	for _, k := range keys {
		if _, ok := m[k]; !ok {
			return false
		}
	}
	return true
}

func hasStarLabels(m map[string]float64) bool {
	for label := range m {
		if _, ok := starIndex(label); ok {
			return true
		}
	}
	return false
}

func starIndex(label string) (int, bool) {
	rest, ok := strings.CutPrefix(label, "LABEL_")
	if !ok {
		return 0, false
	}
	idx, err := strconv.Atoi(rest)
	if err != nil || idx < 0 {
		return 0, false
	}
	return idx, true
}
