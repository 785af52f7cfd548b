package analysis

import (
	"strings"
	"unicode"

	"github.com/parwely/brands-intelligence-platform/internal/domain"
)

// ExtractFeatures derives surface features from raw text. Empty input
// yields an all-zero FeatureSet, never an error. Pure function.
func ExtractFeatures(lex *Lexicon, text string) domain.FeatureSet {
	if text == "" {
		return domain.FeatureSet{}
	}

	var fs domain.FeatureSet
	fs.WordCount = len(strings.Fields(text))

	for _, r := range text {
		fs.CharCount++
		if unicode.IsUpper(r) {
			fs.CapsCount++
		}
		switch {
		case r == '!':
			fs.ExclamationCount++
		case r == '?':
			fs.QuestionCount++
		case isEmoji(r):
			fs.HasEmoji = true
		}
	}

	if fs.CharCount > 0 {
		fs.CapsRatio = float64(fs.CapsCount) / float64(fs.CharCount)
	}
	fs.HasCaps = fs.CapsRatio > 0.3
	fs.HasExclamation = fs.ExclamationCount > 0
	fs.HasQuestion = fs.QuestionCount > 0
	fs.Polarity = quickPolarity(lex, text)

	return fs
}

// quickPolarity is a cheap lexicon-only polarity estimate in [-1,1],
// used as a feature rather than a final score.
func quickPolarity(lex *Lexicon, text string) float64 {
	if lex == nil {
		return 0
	}
	var pos, neg int
	for _, w := range wordRe.FindAllString(strings.ToLower(text), -1) {
		if lex.IsPositive(w) {
			pos++
		} else if lex.IsNegative(w) {
			neg++
		}
	}
	if pos+neg == 0 {
		return 0
	}
	return float64(pos-neg) / float64(pos+neg)
}

// isEmoji covers the common emoji blocks: emoticons, pictographs,
// transport, supplemental symbols, and dingbats.
func isEmoji(r rune) bool {
	switch {
	case r >= 0x1F300 && r <= 0x1F5FF,
		r >= 0x1F600 && r <= 0x1F64F,
		r >= 0x1F680 && r <= 0x1F6FF,
		r >= 0x1F900 && r <= 0x1F9FF,
		r >= 0x2600 && r <= 0x27BF:
		return true
	}
	return false
}
