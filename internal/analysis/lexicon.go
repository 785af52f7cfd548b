package analysis

import "regexp"

// Lexicon holds the static keyword sets and pattern tables used by the
// lexicon scorer and the crisis detector. It is immutable after
// construction and safe for concurrent use.
type Lexicon struct {
	positive map[string]struct{}
	negative map[string]struct{}
	crisis   map[string]struct{}

	crisisCritical []string
	crisisMajor    []string
	crisisModerate []string

	negativeIndicators []string

	intensityPatterns []intensityPattern
	urgencyPatterns   []*regexp.Regexp
	acronymStoplist   map[string]struct{}
}

type intensityPattern struct {
	re     *regexp.Regexp
	factor float64
}

var (
	wordRe     = regexp.MustCompile(`\b\w+\b`)
	capsWordRe = regexp.MustCompile(`\b[A-Z]{3,}\b`)
	bangRunRe  = regexp.MustCompile(`!+`)
	quesRunRe  = regexp.MustCompile(`\?+`)
)

// NewLexicon builds the default English lexicon.
func NewLexicon() *Lexicon {
	return &Lexicon{
		positive: toSet([]string{
			"amazing", "awesome", "excellent", "fantastic", "great", "love", "perfect",
			"wonderful", "outstanding", "brilliant", "superb", "incredible", "marvelous",
			"exceptional", "remarkable", "impressive", "delighted", "satisfied", "happy",
			"pleased", "recommend", "best", "good", "nice", "beautiful", "gorgeous",
		}),
		negative: toSet([]string{
			"terrible", "awful", "horrible", "hate", "worst", "disgusting", "pathetic",
			"useless", "disappointing", "annoying", "frustrating", "bad", "poor", "sad",
			"angry", "furious", "outraged", "disgusted", "appalled", "devastated",
			"broken", "failed", "garbage", "trash", "nightmare", "disaster",
		}),
		crisis: toSet([]string{
			"scam", "fraud", "lawsuit", "sue", "legal", "court", "boycott", "protest",
			"scandal", "investigation", "urgent", "emergency", "critical", "dangerous",
			"recall", "warning", "alert", "banned", "illegal",
		}),
		crisisCritical: []string{
			"lawsuit", "sued", "legal action", "class action", "fraud", "scandal",
			"investigation", "federal", "criminal", "indictment", "corruption",
			"fired", "resignation", "stepped down", "ousted", "terminated",
			"data breach", "hack", "cyberattack", "security breach", "leaked",
			"toxic", "poison", "death", "killed", "died", "fatal", "dangerous",
			"recall", "recalled", "defective", "contaminated", "unsafe",
			"bankruptcy", "insolvent", "liquidation", "chapter 11", "bankrupt",
			"scam",
		},
		crisisMajor: []string{
			"protest", "boycott", "strike", "walkout", "demonstration",
			"complaint", "violated", "violation", "misconduct", "inappropriate",
			"discrimination", "harassment", "bias", "unfair", "unethical",
			"controversy", "controversial", "outrage", "backlash", "criticism",
			"emergency", "incident", "accident", "injury", "hospitalized",
			"malfunction", "failure", "broken", "stopped working", "defect",
			"layoffs", "downsizing", "restructuring", "closure", "shutdown",
		},
		crisisModerate: []string{
			"disappointed", "concerned", "worried", "frustrated", "angry",
			"problem", "issue", "trouble", "difficult", "challenging",
			"poor quality", "bad service", "slow response", "unhelpful",
			"mistake", "error", "wrong", "incorrect", "miscommunication",
			"delayed", "late", "postponed", "cancelled", "unavailable",
			"expensive", "overpriced", "costly", "price increase", "surge pricing",
		},
		negativeIndicators: []string{
			"hate", "worst", "terrible", "awful", "horrible", "disgusting",
			"never again", "boycott", "avoid", "warning", "beware",
			"disappointed", "furious", "outraged", "disgusted",
		},
		intensityPatterns: []intensityPattern{
			{regexp.MustCompile(`(?i)\b(extremely?|very|absolutely|completely|totally)\b`), 1.5},
			{regexp.MustCompile(`(?i)\b(multiple|several|many|numerous)\b`), 1.3},
			{regexp.MustCompile(`[A-Z]{3,}`), 1.4},
			{regexp.MustCompile(`!{2,}`), 1.2},
			{regexp.MustCompile(`\?{2,}`), 1.1},
		},
		urgencyPatterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(urgent|immediately|asap|emergency|critical|breaking)\b`),
			regexp.MustCompile(`(?i)\b(happening now|right now|just happened)\b`),
		},
		acronymStoplist: toSet([]string{"USA", "CEO", "CFO", "CTO", "FAQ", "API"}),
	}
}

func toSet(words []string) map[string]struct{} {
	s := make(map[string]struct{}, len(words))
	for _, w := range words {
		s[w] = struct{}{}
	}
	return s
}

// IsPositive reports whether a lower-cased token is in the positive set.
func (l *Lexicon) IsPositive(word string) bool {
	_, ok := l.positive[word]
	return ok
}

// IsNegative reports whether a lower-cased token is in the negative set.
func (l *Lexicon) IsNegative(word string) bool {
	_, ok := l.negative[word]
	return ok
}

// IsCrisis reports whether a lower-cased token is in the crisis set.
func (l *Lexicon) IsCrisis(word string) bool {
	_, ok := l.crisis[word]
	return ok
}

// IsStopAcronym reports whether an ALL-CAPS token is a common acronym that
// should not count as shouting.
func (l *Lexicon) IsStopAcronym(word string) bool {
	_, ok := l.acronymStoplist[word]
	return ok
}
