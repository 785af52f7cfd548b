package analysis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/singleflight"

	"github.com/parwely/brands-intelligence-platform/internal/domain"
	"github.com/parwely/brands-intelligence-platform/internal/metrics"
)

const (
	// modelVersion keys cached results; bump when scoring semantics change.
	modelVersion    = "ensemble-v1"
	defaultCacheTTL = 15 * time.Minute
)

// Engine is the public face of the scoring core. It exposes the three
// call-level operations, consults the result cache for sentiment scoring,
// and absorbs panics at the component boundary so one malformed mention
// can never abort a batch.
type Engine struct {
	ensemble *Ensemble
	crisis   *CrisisDetector
	health   *HealthAggregator
	cache    domain.ResultCache
	group    singleflight.Group
	clock    clockwork.Clock
	cacheTTL time.Duration
}

// NewEngine wires the scoring components. cache may be nil; the engine
// then computes everything directly.
func NewEngine(ensemble *Ensemble, crisis *CrisisDetector, health *HealthAggregator, cache domain.ResultCache, clock clockwork.Clock) *Engine {
	return &Engine{
		ensemble: ensemble,
		crisis:   crisis,
		health:   health,
		cache:    cache,
		clock:    clock,
		cacheTTL: defaultCacheTTL,
	}
}

// SetCacheTTL overrides the default result cache TTL. Call during
// wiring, before the engine serves requests.
func (e *Engine) SetCacheTTL(ttl time.Duration) {
	if ttl > 0 {
		e.cacheTTL = ttl
	}
}

// ScoreSentiment scores one mention's sentiment. Empty text yields the
// neutral default. Identical texts share one in-flight computation.
func (e *Engine) ScoreSentiment(ctx context.Context, text string) domain.SentimentResult {
	start := e.clock.Now()
	defer func() {
		metrics.AnalysisDuration.WithLabelValues("sentiment").Observe(e.clock.Since(start).Seconds())
	}()

	if text == "" {
		metrics.AnalysisTotal.WithLabelValues("sentiment", "empty_input").Inc()
		return domain.NeutralSentiment(domain.ModelLexicon)
	}

	key := cacheKey("sentiment", modelVersion, text)
	if cached, ok := e.cacheGet(ctx, key); ok {
		metrics.AnalysisTotal.WithLabelValues("sentiment", "cache_hit").Inc()
		return cached
	}

	v, _, _ := e.group.Do(key, func() (any, error) {
		result := e.scoreGuarded(ctx, text)
		e.cachePut(ctx, key, result)
		return result, nil
	})

	result := v.(domain.SentimentResult)
	if result.ModelUsed != domain.ModelFallback {
		metrics.AnalysisTotal.WithLabelValues("sentiment", "ok").Inc()
	}
	metrics.SentimentModelUsed.WithLabelValues(string(result.ModelUsed)).Inc()
	return result
}

// ScoreSentimentBatch scores texts in input order. Each text gets the same
// treatment as ScoreSentiment, so empty or failing entries yield the
// neutral default instead of aborting the batch.
func (e *Engine) ScoreSentimentBatch(ctx context.Context, texts []string) []domain.SentimentResult {
	results := make([]domain.SentimentResult, 0, len(texts))
	for _, t := range texts {
		results = append(results, e.ScoreSentiment(ctx, t))
	}
	return results
}

// scoreGuarded runs the ensemble with panic recovery: an unexpected panic
// in any scorer becomes the well-defined fallback result.
func (e *Engine) scoreGuarded(ctx context.Context, text string) (result domain.SentimentResult) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("sentiment scoring panic recovered", "panic", r)
			metrics.AnalysisTotal.WithLabelValues("sentiment", "panic").Inc()
			result = domain.NeutralSentiment(domain.ModelFallback)
		}
	}()
	return e.ensemble.Score(ctx, text)
}

// DetectCrisis scores one mention's crisis signals for a brand, updating
// that brand's velocity memory. A zero ts defaults to now.
func (e *Engine) DetectCrisis(ctx context.Context, text, brand string, ts time.Time) (result domain.CrisisResult) {
	start := e.clock.Now()
	defer func() {
		metrics.AnalysisDuration.WithLabelValues("crisis").Observe(e.clock.Since(start).Seconds())
		if r := recover(); r != nil {
			slog.Error("crisis detection panic recovered", "panic", r, "brand", brand)
			metrics.AnalysisTotal.WithLabelValues("crisis", "panic").Inc()
			result = domain.CrisisResult{
				Level:               domain.CrisisNone,
				IntensityMultiplier: 1.0,
				Urgency:             domain.UrgencyMonitor,
				MatchedKeywords:     []string{},
				Timestamp:           e.clock.Now(),
			}
		}
	}()

	result = e.crisis.Detect(text, brand, ts)
	metrics.AnalysisTotal.WithLabelValues("crisis", "ok").Inc()
	return result
}

// DetectCrisisBatch processes mentions in input order for one brand.
func (e *Engine) DetectCrisisBatch(ctx context.Context, mentions []domain.Mention, brand string) []domain.CrisisResult {
	results := make([]domain.CrisisResult, 0, len(mentions))
	for _, m := range mentions {
		results = append(results, e.DetectCrisis(ctx, m.Text, brand, m.Timestamp))
	}
	return results
}

// AnalyzeMention runs both sentiment and crisis scoring for one mention.
func (e *Engine) AnalyzeMention(ctx context.Context, m domain.Mention) domain.MentionAnalysis {
	return domain.MentionAnalysis{
		Sentiment: e.ScoreSentiment(ctx, m.Text),
		Crisis:    e.DetectCrisis(ctx, m.Text, m.Brand, m.Timestamp),
	}
}

// AssessBrandHealth aggregates per-mention results into a health report.
func (e *Engine) AssessBrandHealth(ctx context.Context, brand string, analyses []domain.MentionAnalysis, windowHours int) (report domain.BrandHealthReport) {
	start := e.clock.Now()
	defer func() {
		metrics.AnalysisDuration.WithLabelValues("brand_health").Observe(e.clock.Since(start).Seconds())
		if r := recover(); r != nil {
			slog.Error("brand health aggregation panic recovered", "panic", r, "brand", brand)
			metrics.AnalysisTotal.WithLabelValues("brand_health", "panic").Inc()
			report = e.health.Assess(brand, nil, windowHours)
		}
	}()

	report = e.health.Assess(brand, analyses, windowHours)
	metrics.AnalysisTotal.WithLabelValues("brand_health", "ok").Inc()
	return report
}

// BrandCrisisSummary reports the rolling detection memory for one brand.
func (e *Engine) BrandCrisisSummary(brand string) domain.BrandCrisisSummary {
	return e.crisis.BrandSummary(brand)
}

// Status describes which scoring paths are live, for the status endpoint.
type Status struct {
	LexiconAvailable bool   `json:"lexicon_available"`
	VaderAvailable   bool   `json:"vader_available"`
	NeuralAvailable  bool   `json:"neural_available"`
	NeuralProvider   string `json:"neural_provider,omitempty"`
	CacheEnabled     bool   `json:"cache_enabled"`
	ModelVersion     string `json:"model_version"`
}

func (e *Engine) Status() Status {
	s := Status{
		LexiconAvailable: true,
		VaderAvailable:   e.ensemble.vader != nil,
		NeuralAvailable:  e.ensemble.neural.Available(),
		CacheEnabled:     e.cache != nil,
		ModelVersion:     modelVersion,
	}
	if s.NeuralAvailable {
		s.NeuralProvider = e.ensemble.neural.provider.Name()
	}
	return s
}

func cacheKey(operation, model, text string) string {
	h := sha256.New()
	h.Write([]byte(operation))
	h.Write([]byte{'|'})
	h.Write([]byte(model))
	h.Write([]byte{'|'})
	h.Write([]byte(text))
	return "bp:" + operation + ":" + hex.EncodeToString(h.Sum(nil))
}

// cacheGet tolerates a missing or failing cache entirely.
func (e *Engine) cacheGet(ctx context.Context, key string) (domain.SentimentResult, bool) {
	if e.cache == nil {
		return domain.SentimentResult{}, false
	}
	raw, found, err := e.cache.Get(ctx, key)
	if err != nil {
		metrics.CacheOpsTotal.WithLabelValues("get", "error").Inc()
		return domain.SentimentResult{}, false
	}
	if !found {
		metrics.CacheOpsTotal.WithLabelValues("get", "miss").Inc()
		return domain.SentimentResult{}, false
	}
	var result domain.SentimentResult
	if err := json.Unmarshal(raw, &result); err != nil {
		metrics.CacheOpsTotal.WithLabelValues("get", "decode_error").Inc()
		return domain.SentimentResult{}, false
	}
	metrics.CacheOpsTotal.WithLabelValues("get", "hit").Inc()
	return result, true
}

func (e *Engine) cachePut(ctx context.Context, key string, result domain.SentimentResult) {
	if e.cache == nil {
		return
	}
	raw, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := e.cache.Set(ctx, key, raw, e.cacheTTL); err != nil {
		metrics.CacheOpsTotal.WithLabelValues("set", "error").Inc()
		return
	}
	metrics.CacheOpsTotal.WithLabelValues("set", "ok").Inc()
}
