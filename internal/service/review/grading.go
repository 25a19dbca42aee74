package review

import (
	"strings"

	"github.com/toriigate/torii-api/internal/kana"
)

// minFuzzyLength is the shortest normalized meaning answer eligible for
// substring matching. Shorter answers must match exactly, otherwise
// single letters would match almost everything.
const minFuzzyLength = 3

// CheckMeaning grades a meaning answer against the acceptable meanings.
// Matching is case-insensitive on trimmed input. An exact match always
// passes; longer answers also pass when one side contains the other.
func CheckMeaning(answer string, meanings []string) bool {
	given := strings.ToLower(strings.TrimSpace(answer))
	if given == "" {
		return false
	}

	for _, m := range meanings {
		accepted := strings.ToLower(strings.TrimSpace(m))
		if accepted == "" {
			continue
		}
		if given == accepted {
			return true
		}
		if len(given) >= minFuzzyLength &&
			(strings.Contains(accepted, given) || strings.Contains(given, accepted)) {
			return true
		}
	}
	return false
}

// CheckReading grades a reading answer against the acceptable readings.
// The answer may be typed in hiragana, katakana, or romaji; all three
// are folded to normalized hiragana before comparison.
func CheckReading(answer string, readings []string) bool {
	given := kana.NormalizeReading(answer)
	if given == "" {
		return false
	}

	folded := kana.KatakanaToHiragana(given)
	transliterated := kana.RomajiToHiragana(given)

	for _, r := range readings {
		accepted := kana.KatakanaToHiragana(kana.NormalizeReading(r))
		if accepted == "" {
			continue
		}
		if folded == accepted || transliterated == accepted {
			return true
		}
	}
	return false
}

// Grade grades an answer for the given question type.
func Grade(questionType QuestionType, answer string, meanings, readings []string) bool {
	switch questionType {
	case QuestionMeaning:
		return CheckMeaning(answer, meanings)
	case QuestionReading:
		return CheckReading(answer, readings)
	default:
		return false
	}
}
