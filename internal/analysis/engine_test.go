package analysis

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parwely/brands-intelligence-platform/internal/domain"
	"github.com/parwely/brands-intelligence-platform/internal/metrics"
)

// --- Mocks ---

type mockCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	getErr  error
	gets    int
	hits    int
}

func newMockCache() *mockCache {
	return &mockCache{entries: make(map[string][]byte)}
}

func (c *mockCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	v, ok := c.entries[key]
	if ok {
		c.hits++
	}
	return v, ok, nil
}

func (c *mockCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
	return nil
}

type panicProvider struct{}

func (panicProvider) Classify(context.Context, string) ([]domain.LabelScore, error) {
	panic("model buffer overrun")
}

func (panicProvider) Name() string { return "panicky" }

// --- Helpers ---

func newTestEngine(t *testing.T, cache domain.ResultCache, provider domain.NeuralProvider) (*Engine, *clockwork.FakeClock) {
	t.Helper()
	clock := clockwork.NewFakeClock()
	lex := NewLexicon()
	ensemble, err := NewEnsemble(NewLexiconScorer(lex), nil, NewNeuralAdapter(provider, NeuralOptions{}), DefaultEnsembleWeights())
	require.NoError(t, err)
	crisis := NewCrisisDetector(lex, clock)
	return NewEngine(ensemble, crisis, NewHealthAggregator(), cache, clock), clock
}

// --- Tests ---

func TestEngineScoreSentimentEmpty(t *testing.T) {
	e, _ := newTestEngine(t, nil, nil)
	r := e.ScoreSentiment(context.Background(), "")
	assert.Equal(t, 0.5, r.Score)
	assert.Equal(t, domain.SentimentNeutral, r.Label)
}

func TestEngineScoreSentimentEndToEnd(t *testing.T) {
	e, _ := newTestEngine(t, nil, nil)

	r := e.ScoreSentiment(context.Background(), "I absolutely love this, best purchase ever!")
	assert.Equal(t, domain.SentimentPositive, r.Label)
	assert.Greater(t, r.Score, 0.6)

	r = e.ScoreSentiment(context.Background(), "This is a total scam, avoid!")
	assert.Equal(t, domain.SentimentNegative, r.Label)
	assert.LessOrEqual(t, r.Score, 0.2)
}

func TestEngineScoreSentimentBatch(t *testing.T) {
	e, _ := newTestEngine(t, nil, nil)

	results := e.ScoreSentimentBatch(context.Background(), []string{
		"I absolutely love this, best purchase ever!",
		"",
		"This is a total scam, avoid!",
	})

	require.Len(t, results, 3)
	assert.Equal(t, domain.SentimentPositive, results[0].Label)
	assert.Equal(t, domain.SentimentNeutral, results[1].Label)
	assert.Equal(t, 0.5, results[1].Score)
	assert.Equal(t, domain.SentimentNegative, results[2].Label)
}

func TestEngineScoreSentimentBatchEmpty(t *testing.T) {
	e, _ := newTestEngine(t, nil, nil)
	assert.Empty(t, e.ScoreSentimentBatch(context.Background(), nil))
}

func TestEngineCachesSentiment(t *testing.T) {
	cache := newMockCache()
	e, _ := newTestEngine(t, cache, nil)

	first := e.ScoreSentiment(context.Background(), "great product")
	second := e.ScoreSentiment(context.Background(), "great product")

	assert.Equal(t, first, second)
	assert.Equal(t, 1, cache.hits)
}

func TestEngineToleratesCacheErrors(t *testing.T) {
	cache := newMockCache()
	cache.getErr = assert.AnError
	e, _ := newTestEngine(t, cache, nil)

	r := e.ScoreSentiment(context.Background(), "great product")
	assert.Equal(t, domain.SentimentPositive, r.Label)
}

func TestEngineRecoversScoringPanic(t *testing.T) {
	e, _ := newTestEngine(t, nil, panicProvider{})

	// The provider panics inside the ensemble path; the engine must return
	// the fallback result instead of propagating.
	r := e.ScoreSentiment(context.Background(), "anything at all")
	assert.Equal(t, 0.5, r.Score)
	assert.Equal(t, domain.SentimentNeutral, r.Label)
	assert.Zero(t, r.Confidence)
	assert.Equal(t, domain.ModelFallback, r.ModelUsed)
}

func TestEngineSentimentCountersOnPanic(t *testing.T) {
	okCounter := metrics.AnalysisTotal.WithLabelValues("sentiment", "ok")
	panicCounter := metrics.AnalysisTotal.WithLabelValues("sentiment", "panic")
	okBefore := testutil.ToFloat64(okCounter)
	panicBefore := testutil.ToFloat64(panicCounter)

	e, _ := newTestEngine(t, nil, panicProvider{})
	e.ScoreSentiment(context.Background(), "counter check on the panic path")

	// A recovered panic is one outcome, not two.
	assert.Equal(t, panicBefore+1, testutil.ToFloat64(panicCounter))
	assert.Equal(t, okBefore, testutil.ToFloat64(okCounter))

	healthy, _ := newTestEngine(t, nil, nil)
	healthy.ScoreSentiment(context.Background(), "counter check on the happy path")
	assert.Equal(t, okBefore+1, testutil.ToFloat64(okCounter))
}

func TestEngineCrisisCountersOnPanic(t *testing.T) {
	okCounter := metrics.AnalysisTotal.WithLabelValues("crisis", "ok")
	panicCounter := metrics.AnalysisTotal.WithLabelValues("crisis", "panic")
	okBefore := testutil.ToFloat64(okCounter)
	panicBefore := testutil.ToFloat64(panicCounter)

	clock := clockwork.NewFakeClock()
	ensemble, err := NewEnsemble(NewLexiconScorer(NewLexicon()), nil, NewNeuralAdapter(nil, NeuralOptions{}), DefaultEnsembleWeights())
	require.NoError(t, err)
	// A nil lexicon makes detection panic on any non-empty text.
	e := NewEngine(ensemble, NewCrisisDetector(nil, clock), NewHealthAggregator(), nil, clock)

	r := e.DetectCrisis(context.Background(), "anything at all", "acme", clock.Now())
	assert.Equal(t, domain.CrisisNone, r.Level)
	assert.Equal(t, panicBefore+1, testutil.ToFloat64(panicCounter))
	assert.Equal(t, okBefore, testutil.ToFloat64(okCounter))
}

func TestEngineDetectCrisisEndToEnd(t *testing.T) {
	e, clock := newTestEngine(t, nil, nil)

	r := e.DetectCrisis(context.Background(), "URGENT WARNING: this company is a SCAM, lawsuit filed!!!", "acme", clock.Now())
	assert.Contains(t, []domain.CrisisLevel{domain.CrisisMajor, domain.CrisisCritical}, r.Level)
	assert.Contains(t, r.MatchedKeywords, "scam")
	assert.Contains(t, r.MatchedKeywords, "lawsuit")
}

func TestEngineDetectCrisisEmptyText(t *testing.T) {
	e, clock := newTestEngine(t, nil, nil)
	r := e.DetectCrisis(context.Background(), "", "acme", clock.Now())
	assert.Equal(t, domain.CrisisNone, r.Level)
	assert.Zero(t, r.Score)
}

func TestEngineBrandCrisisSummary(t *testing.T) {
	e, clock := newTestEngine(t, nil, nil)
	base := clock.Now()

	for i := 0; i < 3; i++ {
		e.DetectCrisis(context.Background(), "lawsuit filed against the company", "acme", base.Add(time.Duration(i)*time.Minute))
	}

	s := e.BrandCrisisSummary("acme")
	assert.Equal(t, "acme", s.Brand)
	assert.Equal(t, 3, s.TotalIncidents)
	assert.Equal(t, 3, s.RecentIncidents)
	assert.Greater(t, s.MaxScore, 0.0)
	assert.NotEqual(t, domain.RiskLevel(""), s.RiskLevel)

	assert.Zero(t, e.BrandCrisisSummary("globex").TotalIncidents)
}

func TestEngineBatchAndHealthFlow(t *testing.T) {
	e, clock := newTestEngine(t, nil, nil)
	base := clock.Now()

	texts := []string{
		"I absolutely love this, best purchase ever!",
		"great quality, fast shipping",
		"perfect experience, highly recommend",
	}
	var analyses []domain.MentionAnalysis
	for i, text := range texts {
		m := domain.Mention{Text: text, Brand: "acme", Timestamp: base.Add(time.Duration(i) * time.Minute)}
		analyses = append(analyses, e.AnalyzeMention(context.Background(), m))
	}

	report := e.AssessBrandHealth(context.Background(), "acme", analyses, 24)
	assert.Equal(t, domain.HealthExcellent, report.HealthLevel)
	assert.Equal(t, 1.0, report.Sentiment.PositiveRatio)
	assert.NotEmpty(t, report.Recommendations)
}

func TestEngineAssessEmptyBrand(t *testing.T) {
	e, _ := newTestEngine(t, nil, nil)
	report := e.AssessBrandHealth(context.Background(), "ghost", nil, 24)
	assert.Equal(t, domain.HealthUnknown, report.HealthLevel)
	assert.NotEmpty(t, report.Recommendations)
}

func TestEngineStatus(t *testing.T) {
	e, _ := newTestEngine(t, newMockCache(), nil)
	s := e.Status()
	assert.True(t, s.LexiconAvailable)
	assert.False(t, s.NeuralAvailable)
	assert.True(t, s.CacheEnabled)
	assert.Equal(t, modelVersion, s.ModelVersion)
}

func TestCacheKeyDeterministic(t *testing.T) {
	a := cacheKey("sentiment", "v1", "hello")
	b := cacheKey("sentiment", "v1", "hello")
	c := cacheKey("sentiment", "v1", "hello!")
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.NotEqual(t, cacheKey("crisis", "v1", "hello"), a)
}
