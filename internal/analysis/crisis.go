package analysis

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/parwely/brands-intelligence-platform/internal/domain"
	"github.com/parwely/brands-intelligence-platform/internal/metrics"
)

const (
	// DefaultVelocityWindow is the trailing window for velocity tracking.
	DefaultVelocityWindow = 6 * time.Hour

	// velocitySaturation is the detection count within the window at
	// which velocity reaches 1.0.
	velocitySaturation = 10

	// maxMemoryEntries hard-caps per-brand detection memory so a flood
	// of detections cannot grow it without bound.
	maxMemoryEntries = 256

	maxIntensityMultiplier = 2.0
	velocityWeight         = 0.3
)

// Signal score weights for the base crisis score.
const (
	keywordWeight       = 0.6
	negSentimentWeight  = 0.3
	patternWeight       = 0.1
	criticalTierWeight  = 0.8
	majorTierWeight     = 0.5
	moderateTierWeight  = 0.2
	keywordNormalizer   = 3.0
	negIndicatorDivisor = 3.0
)

type detection struct {
	at    time.Time
	score float64
	level domain.CrisisLevel
}

// CrisisDetector scores crisis signals per mention and tracks a rolling
// per-brand detection window to compute velocity. Brand memory is the only
// mutable state; it is guarded by a mutex so concurrent batches for the
// same brand serialize on the insert path.
type CrisisDetector struct {
	lex            *Lexicon
	clock          clockwork.Clock
	velocityWindow time.Duration

	mu     sync.Mutex
	memory map[string][]detection
}

func NewCrisisDetector(lex *Lexicon, clock clockwork.Clock) *CrisisDetector {
	return NewCrisisDetectorWithWindow(lex, clock, DefaultVelocityWindow)
}

// NewCrisisDetectorWithWindow builds a detector with a custom velocity
// window. window <= 0 falls back to the default.
func NewCrisisDetectorWithWindow(lex *Lexicon, clock clockwork.Clock, window time.Duration) *CrisisDetector {
	if window <= 0 {
		window = DefaultVelocityWindow
	}
	return &CrisisDetector{
		lex:            lex,
		clock:          clock,
		velocityWindow: window,
		memory:         make(map[string][]detection),
	}
}

// Detect scores one mention for a brand. A zero ts defaults to the current
// clock time, which makes velocity results wall-clock dependent; callers on
// velocity-sensitive paths should pass explicit timestamps.
func (d *CrisisDetector) Detect(text, brand string, ts time.Time) domain.CrisisResult {
	if ts.IsZero() {
		ts = d.clock.Now()
	}
	if text == "" {
		return domain.CrisisResult{
			Level:               domain.CrisisNone,
			IntensityMultiplier: 1.0,
			Urgency:             domain.UrgencyMonitor,
			MatchedKeywords:     []string{},
			Timestamp:           ts,
		}
	}

	lower := strings.ToLower(text)

	keywordScore, matched := d.keywordSignals(lower)
	negScore := d.negativitySignal(lower)
	patternScore := d.patternSignal(text)

	baseScore := keywordScore*keywordWeight + negScore*negSentimentWeight + patternScore*patternWeight

	multiplier := d.intensityMultiplier(text)
	preVelocity := min1(baseScore * multiplier)

	// Only non-"none" detections feed the brand's rolling memory.
	if domain.CrisisLevelForScore(preVelocity) != domain.CrisisNone {
		d.remember(brand, ts, preVelocity)
	}

	velocity := d.velocity(brand, ts)
	finalScore := min1(preVelocity + velocityWeight*velocity)
	level := domain.CrisisLevelForScore(finalScore)

	metrics.CrisisDetectionsTotal.WithLabelValues(string(level)).Inc()

	return domain.CrisisResult{
		Score:               finalScore,
		Level:               level,
		BaseScore:           baseScore,
		VelocityScore:       velocity,
		IntensityMultiplier: multiplier,
		MatchedKeywords:     matched,
		Urgency:             urgencyFor(finalScore, velocity),
		Timestamp:           ts,
	}
}

// DetectBatch processes mentions in input order, threading each mention's
// timestamp through so velocity semantics hold across the batch. Mentions
// without a timestamp default to "now", so batch order affects velocity
// for them.
func (d *CrisisDetector) DetectBatch(mentions []domain.Mention, brand string) []domain.CrisisResult {
	results := make([]domain.CrisisResult, 0, len(mentions))
	for _, m := range mentions {
		results = append(results, d.Detect(m.Text, brand, m.Timestamp))
	}
	return results
}

// summaryWindow bounds the "recent" figures in a brand summary.
const summaryWindow = 24 * time.Hour

// BrandSummary aggregates a brand's retained detections into incident
// counts, score extremes over the last 24 hours, current velocity, and a
// risk level. A brand with no memory reports zeroes and low risk.
func (d *CrisisDetector) BrandSummary(brand string) domain.BrandCrisisSummary {
	now := d.clock.Now()
	recentStart := now.Add(-summaryWindow)

	d.mu.Lock()
	entries := d.memory[brand]
	total := len(entries)
	var recent int
	var maxScore, sum float64
	for _, e := range entries {
		if e.at.Before(recentStart) {
			continue
		}
		recent++
		sum += e.score
		if e.score > maxScore {
			maxScore = e.score
		}
	}
	d.mu.Unlock()

	var avg float64
	if recent > 0 {
		avg = sum / float64(recent)
	}

	return domain.BrandCrisisSummary{
		Brand:           brand,
		TotalIncidents:  total,
		RecentIncidents: recent,
		MaxScore:        maxScore,
		AvgScore:        avg,
		CurrentVelocity: d.velocity(brand, now),
		RiskLevel:       domain.RiskLevelForHistory(maxScore, avg, recent),
	}
}

// ResetBrand drops a brand's detection memory. Used by tests and by
// operators after a confirmed false-positive storm.
func (d *CrisisDetector) ResetBrand(brand string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.memory, brand)
	metrics.CrisisMemoryBrands.Set(float64(len(d.memory)))
}

// keywordSignals scores the tiered crisis vocabularies. Tier matching is
// substring-based because tiers contain multi-word phrases ("class
// action", "data breach").
func (d *CrisisDetector) keywordSignals(lower string) (float64, []string) {
	var critical, major, moderate int
	matched := []string{}

	for _, kw := range d.lex.crisisCritical {
		if strings.Contains(lower, kw) {
			critical++
			matched = append(matched, kw)
		}
	}
	for _, kw := range d.lex.crisisMajor {
		if strings.Contains(lower, kw) {
			major++
			matched = append(matched, kw)
		}
	}
	for _, kw := range d.lex.crisisModerate {
		if strings.Contains(lower, kw) {
			moderate++
			matched = append(matched, kw)
		}
	}

	raw := float64(critical)*criticalTierWeight + float64(major)*majorTierWeight + float64(moderate)*moderateTierWeight
	sort.Strings(matched)
	return min1(raw / keywordNormalizer), matched
}

// negativitySignal uses a small indicator list independent of the
// sentiment lexicon so the two signals do not double-count.
func (d *CrisisDetector) negativitySignal(lower string) float64 {
	var count int
	for _, ind := range d.lex.negativeIndicators {
		if strings.Contains(lower, ind) {
			count++
		}
	}
	return min1(float64(count) / negIndicatorDivisor)
}

func (d *CrisisDetector) patternSignal(text string) float64 {
	var capsWords int
	for _, w := range capsWordRe.FindAllString(text, -1) {
		if !d.lex.IsStopAcronym(w) {
			capsWords++
		}
	}

	bangRuns := len(bangRunRe.FindAllString(text, -1))
	var urgency int
	for _, re := range d.lex.urgencyPatterns {
		urgency += len(re.FindAllString(text, -1))
	}

	raw := float64(capsWords)*0.2 + float64(bangRuns)*0.1 + float64(urgency)*0.3
	return min1(raw / 2.0)
}

func (d *CrisisDetector) intensityMultiplier(text string) float64 {
	multiplier := 1.0
	for _, p := range d.lex.intensityPatterns {
		if p.re.MatchString(text) {
			multiplier *= p.factor
		}
	}
	if multiplier > maxIntensityMultiplier {
		multiplier = maxIntensityMultiplier
	}
	return multiplier
}

// remember appends a detection and prunes by age only, never by score.
// Entries are retained for twice the velocity window.
func (d *CrisisDetector) remember(brand string, ts time.Time, score float64) {
	d.mu.Lock()
	defer d.mu.Unlock()

	entries := append(d.memory[brand], detection{
		at:    ts,
		score: score,
		level: domain.CrisisLevelForScore(score),
	})

	cutoff := ts.Add(-2 * d.velocityWindow)
	pruned := entries[:0]
	for _, e := range entries {
		if !e.at.Before(cutoff) {
			pruned = append(pruned, e)
		}
	}
	if len(pruned) > maxMemoryEntries {
		pruned = pruned[len(pruned)-maxMemoryEntries:]
	}

	d.memory[brand] = pruned
	metrics.CrisisMemoryBrands.Set(float64(len(d.memory)))
}

// velocity is the saturating ratio of in-window detections to the
// saturation count.
func (d *CrisisDetector) velocity(brand string, now time.Time) float64 {
	d.mu.Lock()
	defer d.mu.Unlock()

	windowStart := now.Add(-d.velocityWindow)
	var count int
	for _, e := range d.memory[brand] {
		if !e.at.Before(windowStart) {
			count++
		}
	}
	return min1(float64(count) / velocitySaturation)
}

func urgencyFor(finalScore, velocity float64) domain.Urgency {
	combined := finalScore + 0.5*velocity
	switch {
	case combined >= 0.8:
		return domain.UrgencyImmediate
	case combined >= 0.6:
		return domain.UrgencyHigh
	case combined >= 0.4:
		return domain.UrgencyMedium
	case combined >= 0.2:
		return domain.UrgencyLow
	default:
		return domain.UrgencyMonitor
	}
}

func min1(v float64) float64 {
	if v > 1 {
		return 1
	}
	return v
}
