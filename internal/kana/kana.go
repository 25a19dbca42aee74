// Package kana provides the script utilities used when grading reading
// answers: romaji-to-hiragana transliteration, katakana folding, and
// reading normalization.
package kana

import "strings"

// romajiTable maps romaji sequences to hiragana. Longest-match wins
// during transliteration, so digraphs like "sha" sit alongside their
// single-syllable components.
var romajiTable = map[string]string{
	"a": "あ", "i": "い", "u": "う", "e": "え", "o": "お",
	"ka": "か", "ki": "き", "ku": "く", "ke": "け", "ko": "こ",
	"sa": "さ", "shi": "し", "si": "し", "su": "す", "se": "せ", "so": "そ",
	"ta": "た", "chi": "ち", "ti": "ち", "tsu": "つ", "tu": "つ", "te": "て", "to": "と",
	"na": "な", "ni": "に", "nu": "ぬ", "ne": "ね", "no": "の",
	"ha": "は", "hi": "ひ", "fu": "ふ", "hu": "ふ", "he": "へ", "ho": "ほ",
	"ma": "ま", "mi": "み", "mu": "む", "me": "め", "mo": "も",
	"ya": "や", "yu": "ゆ", "yo": "よ",
	"ra": "ら", "ri": "り", "ru": "る", "re": "れ", "ro": "ろ",
	"wa": "わ", "wo": "を",
	"ga": "が", "gi": "ぎ", "gu": "ぐ", "ge": "げ", "go": "ご",
	"za": "ざ", "ji": "じ", "zi": "じ", "zu": "ず", "ze": "ぜ", "zo": "ぞ",
	"da": "だ", "di": "ぢ", "du": "づ", "de": "で", "do": "ど",
	"ba": "ば", "bi": "び", "bu": "ぶ", "be": "べ", "bo": "ぼ",
	"pa": "ぱ", "pi": "ぴ", "pu": "ぷ", "pe": "ぺ", "po": "ぽ",
	"kya": "きゃ", "kyu": "きゅ", "kyo": "きょ",
	"sha": "しゃ", "shu": "しゅ", "sho": "しょ",
	"sya": "しゃ", "syu": "しゅ", "syo": "しょ",
	"cha": "ちゃ", "chu": "ちゅ", "cho": "ちょ",
	"tya": "ちゃ", "tyu": "ちゅ", "tyo": "ちょ",
	"nya": "にゃ", "nyu": "にゅ", "nyo": "にょ",
	"hya": "ひゃ", "hyu": "ひゅ", "hyo": "ひょ",
	"mya": "みゃ", "myu": "みゅ", "myo": "みょ",
	"rya": "りゃ", "ryu": "りゅ", "ryo": "りょ",
	"gya": "ぎゃ", "gyu": "ぎゅ", "gyo": "ぎょ",
	"ja": "じゃ", "ju": "じゅ", "jo": "じょ",
	"jya": "じゃ", "jyu": "じゅ", "jyo": "じょ",
	"bya": "びゃ", "byu": "びゅ", "byo": "びょ",
	"pya": "ぴゃ", "pyu": "ぴゅ", "pyo": "ぴょ",
	"-": "ー",
}

// geminating consonants: a doubled one inserts a sokuon.
const geminates = "kstpgdbzcjfhmr"

// RomajiToHiragana transliterates latin input into hiragana. Characters
// that cannot be transliterated are passed through unchanged, so mixed
// kana/romaji input still converts the romaji runs.
func RomajiToHiragana(input string) string {
	lower := []rune(strings.ToLower(input))
	var b strings.Builder

	for i := 0; i < len(lower); {
		// Doubled consonant -> sokuon, consume one of the pair.
		if i+1 < len(lower) && lower[i] == lower[i+1] &&
			lower[i] < 128 && strings.ContainsRune(geminates, lower[i]) {
			b.WriteString("っ")
			i++
			continue
		}

		matched := false
		max := 4
		if rem := len(lower) - i; rem < max {
			max = rem
		}
		for l := max; l > 0; l-- {
			if h, ok := romajiTable[string(lower[i:i+l])]; ok {
				b.WriteString(h)
				i += l
				matched = true
				break
			}
		}
		if matched {
			continue
		}

		// Syllabic n: "nn" always, bare "n" before a consonant that
		// cannot start an n-syllable.
		if lower[i] == 'n' {
			if i+1 < len(lower) && lower[i+1] == 'n' {
				b.WriteString("ん")
				i += 2
				continue
			}
			if i+1 < len(lower) && !strings.ContainsRune("aiueoy", lower[i+1]) {
				b.WriteString("ん")
				i++
				continue
			}
			if i+1 == len(lower) {
				b.WriteString("ん")
				i++
				continue
			}
		}

		b.WriteRune(lower[i])
		i++
	}

	return b.String()
}

// KatakanaToHiragana folds katakana runes into their hiragana
// equivalents, leaving everything else untouched.
func KatakanaToHiragana(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= 0x30A1 && r <= 0x30F6 {
			return r - 0x60
		}
		return r
	}, s)
}

// ContainsKanji reports whether the string contains at least one CJK
// ideograph. Words without kanji are graded on meaning only.
func ContainsKanji(s string) bool {
	for _, r := range s {
		if (r >= 0x4E00 && r <= 0x9FAF) || (r >= 0x3400 && r <= 0x4DBF) {
			return true
		}
	}
	return false
}

// NormalizeReading lowercases a reading and strips okurigana dots,
// whitespace, hyphens and wave dashes so dictionary forms compare equal
// to typed answers.
func NormalizeReading(s string) string {
	s = strings.ToLower(s)
	return strings.Map(func(r rune) rune {
		switch r {
		case '.', ' ', '\t', '　', '-', '～', '〜':
			return -1
		}
		return r
	}, s)
}
