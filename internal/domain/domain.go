package domain

import "time"

// Mention is a single unit of text attributed to or about a brand.
// It is owned by the caller; the engine never mutates it.
type Mention struct {
	Text      string
	Brand     string
	Timestamp time.Time // zero value means "unknown, default to now"
	Metadata  map[string]string
}

// FeatureSet holds surface features derived from raw mention text.
// It is a value type recomputed per call with no persistent identity.
type FeatureSet struct {
	WordCount        int
	CharCount        int
	CapsCount        int
	CapsRatio        float64
	ExclamationCount int
	QuestionCount    int
	HasExclamation   bool
	HasQuestion      bool
	HasEmoji         bool
	HasCaps          bool
	Polarity         float64
}

// SentimentLabel classifies a sentiment score.
type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "positive"
	SentimentNeutral  SentimentLabel = "neutral"
	SentimentNegative SentimentLabel = "negative"
)

// ModelUsed identifies which scoring path produced a SentimentResult.
type ModelUsed string

const (
	ModelLexicon  ModelUsed = "lexicon"
	ModelVader    ModelUsed = "vader"
	ModelNeural   ModelUsed = "neural"
	ModelEnsemble ModelUsed = "ensemble"
	ModelFallback ModelUsed = "fallback"
)

// SentimentResult is the outcome of scoring one mention's sentiment.
// Score lives in [0,1]: 0 is most negative, 1 is most positive.
type SentimentResult struct {
	Score                float64
	Label                SentimentLabel
	Confidence           float64
	ModelUsed            ModelUsed
	CrisisIndicatorCount int
}

// CrisisLevel is the ordered severity classification of a mention's risk
// signal: none < minor < moderate < major < critical.
type CrisisLevel string

const (
	CrisisNone     CrisisLevel = "none"
	CrisisMinor    CrisisLevel = "minor"
	CrisisModerate CrisisLevel = "moderate"
	CrisisMajor    CrisisLevel = "major"
	CrisisCritical CrisisLevel = "critical"
)

// Urgency orders how fast a crisis signal needs a response.
type Urgency string

const (
	UrgencyMonitor   Urgency = "monitor"
	UrgencyLow       Urgency = "low"
	UrgencyMedium    Urgency = "medium"
	UrgencyHigh      Urgency = "high"
	UrgencyImmediate Urgency = "immediate"
)

// CrisisResult is the outcome of crisis-scoring one mention.
type CrisisResult struct {
	Score               float64
	Level               CrisisLevel
	BaseScore           float64
	VelocityScore       float64
	IntensityMultiplier float64
	MatchedKeywords     []string
	Urgency             Urgency
	Timestamp           time.Time
}

// RiskLevel classifies a brand's aggregate crisis standing, derived from
// its recent detection history rather than any single mention.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// BrandCrisisSummary aggregates a brand's retained crisis detections.
// Recent figures cover the last 24 hours; velocity uses the detector's
// configured window.
type BrandCrisisSummary struct {
	Brand           string
	TotalIncidents  int
	RecentIncidents int
	MaxScore        float64
	AvgScore        float64
	CurrentVelocity float64
	RiskLevel       RiskLevel
}

// HealthLevel is the ordered classification of a brand health score.
type HealthLevel string

const (
	HealthUnknown   HealthLevel = "unknown"
	HealthCritical  HealthLevel = "critical"
	HealthPoor      HealthLevel = "poor"
	HealthFair      HealthLevel = "fair"
	HealthGood      HealthLevel = "good"
	HealthExcellent HealthLevel = "excellent"
)

// SentimentMetrics aggregates per-mention sentiment over a window.
type SentimentMetrics struct {
	Average       float64
	PositiveRatio float64
	NegativeRatio float64
	NeutralRatio  float64
	TotalMentions int
}

// CrisisMetrics aggregates per-mention crisis results over a window.
type CrisisMetrics struct {
	MaxScore      float64
	DominantLevel CrisisLevel
	FlaggedCount  int
}

// BrandHealthReport is the time-windowed assessment for one brand.
// HealthScore lives in [0,100]. Recommendations is never empty.
type BrandHealthReport struct {
	Brand           string
	HealthScore     float64
	HealthLevel     HealthLevel
	Sentiment       SentimentMetrics
	Crisis          CrisisMetrics
	Recommendations []string
	WindowHours     int
}

// MentionAnalysis pairs the two per-mention results consumed by the
// brand health aggregation.
type MentionAnalysis struct {
	Sentiment SentimentResult
	Crisis    CrisisResult
}

// LabelForScore derives a sentiment label from a score. Boundary values
// 0.4 and 0.6 are neutral.
func LabelForScore(score float64) SentimentLabel {
	switch {
	case score > 0.6:
		return SentimentPositive
	case score < 0.4:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

// CrisisLevelForScore derives a crisis level from a score using the fixed
// 0.1/0.3/0.6/0.8 thresholds.
func CrisisLevelForScore(score float64) CrisisLevel {
	switch {
	case score >= 0.8:
		return CrisisCritical
	case score >= 0.6:
		return CrisisMajor
	case score >= 0.3:
		return CrisisModerate
	case score >= 0.1:
		return CrisisMinor
	default:
		return CrisisNone
	}
}

// RiskLevelForHistory derives a brand risk level from the score history of
// its recent incidents. maxScore and avgScore are taken over incidents.
func RiskLevelForHistory(maxScore, avgScore float64, incidents int) RiskLevel {
	switch {
	case incidents == 0:
		return RiskLow
	case maxScore >= 0.8 || (avgScore >= 0.5 && incidents >= 5):
		return RiskCritical
	case maxScore >= 0.6 || (avgScore >= 0.4 && incidents >= 3):
		return RiskHigh
	case maxScore >= 0.4 || incidents >= 2:
		return RiskMedium
	default:
		return RiskLow
	}
}

// HealthLevelForScore derives a health level from a 0-100 score using the
// fixed 35/50/65/80 thresholds.
func HealthLevelForScore(score float64) HealthLevel {
	switch {
	case score >= 80:
		return HealthExcellent
	case score >= 65:
		return HealthGood
	case score >= 50:
		return HealthFair
	case score >= 35:
		return HealthPoor
	default:
		return HealthCritical
	}
}

// Clamp restricts v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// NeutralSentiment is the well-defined default result used when scoring
// fails or input is unusable. Callers receive it instead of an error.
func NeutralSentiment(model ModelUsed) SentimentResult {
	return SentimentResult{
		Score:      0.5,
		Label:      SentimentNeutral,
		Confidence: 0,
		ModelUsed:  model,
	}
}
