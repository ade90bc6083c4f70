// Package pinyin rewrites the numeric tone markers in romanized Mandarin
// syllables into combining diacritics, e.g. "ni3 hao3" into "nǐ hǎo".
package pinyin

import "strings"

// toneMarks maps tone digits 1-4 to their combining diacritics. Tone 5 is
// the neutral tone and takes no mark.
var toneMarks = map[byte]string{
	'1': "̄", // macron
	'2': "́", // acute
	'3': "̌", // caron
	'4': "̀", // grave
}

// accentTargets is the search order for the character that carries the tone
// mark. The colon is CC-CEDICT's placeholder for the umlaut, and it must be
// tested before "u": when a syllable contains both, the mark has to land on
// top of the umlaut, and combining characters render in insertion order.
const accentTargets = "aeio:u"

// umlaut replaces the ":" placeholder. A straight replacement is enough
// because combining characters go after the character they modify.
const umlaut = "̈"

// Annotate converts the numeric tone markers in a whitespace-delimited
// pinyin string into combining diacritics and rewrites the ":" umlaut
// placeholder. CC-CEDICT capitalizes pinyin for proper nouns, so the input
// is lowercased first. Tokens that do not end in a tone digit pass through
// unchanged.
func Annotate(s string) string {
	parts := strings.Fields(strings.ToLower(s))
	marked := make([]string, 0, len(parts))
	for _, part := range parts {
		marked = append(marked, markTone(part))
	}
	return strings.ReplaceAll(strings.Join(marked, " "), ":", umlaut)
}

func markTone(part string) string {
	switch last := part[len(part)-1]; last {
	case '1', '2', '3', '4':
		body := part[:len(part)-1]
		if i := accentIndex(body); i != -1 {
			return body[:i] + toneMarks[last] + body[i:]
		}
		// A few interjection syllables ("m", "hng") have nothing to
		// mark; they only lose the digit.
		return body
	case '5':
		// Neutral tone: just drop the digit.
		return part[:len(part)-1]
	}
	return part
}

// accentIndex returns the byte offset just after the character that should
// carry the tone mark, or -1 when the syllable has no markable character.
// All accent targets are ASCII, so byte indexing is safe.
func accentIndex(body string) int {
	for i := 0; i < len(accentTargets); i++ {
		if j := strings.IndexByte(body, accentTargets[i]); j != -1 {
			// The combining character goes after its base.
			return j + 1
		}
	}
	return -1
}
