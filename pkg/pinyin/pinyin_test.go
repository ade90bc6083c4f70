package pinyin

import (
	"strings"
	"testing"
)

// Expected values are spelled with explicit combining characters because
// Annotate emits decomposed sequences, never precomposed letters.
func TestAnnotate(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		// The mark lands after the first target character in priority
		// order (a, e, i, o, :, u), not simply the first vowel.
		{"zhong1", "zhōng"},
		{"ni3", "nǐ"},
		{"hao3", "hǎo"},
		{"ren2", "rén"},
		{"yi1 ge4", "yī gè"},
		// Neutral tone: digit dropped, no mark.
		{"ma5", "ma"},
		{"le5", "le"},
		// The ":" placeholder becomes a combining diaeresis. When it is
		// the accent anchor, the tone mark stacks after it so renderers
		// draw the tone on top of the umlaut.
		{"lu:4", "lǜ"},
		{"nu:3 ren2", "nǚ rén"},
		// With a later "e" present, the "e" wins the accent and the
		// placeholder still resolves to an umlaut.
		{"lu:e4", "lüè"},
		// Proper-noun capitalization is normalized away.
		{"Beijing1", "bēijing"},
		{"beijing1", "bēijing"},
		// No trailing tone digit: token passes through unchanged.
		{"hello", "hello"},
		// Vowel-less interjection: the digit is dropped, nothing marked.
		{"m2", "m"},
	}
	for _, tt := range tests {
		if got := Annotate(tt.in); got != tt.want {
			t.Errorf("Annotate(%q) = %q; want %q", tt.in, got, tt.want)
		}
	}
}

func TestAnnotateMarkCounts(t *testing.T) {
	marks := []string{"̄", "́", "̌", "̀"}
	countMarks := func(s string) int {
		n := 0
		for _, m := range marks {
			n += strings.Count(s, m)
		}
		return n
	}

	for digit := '1'; digit <= '4'; digit++ {
		in := "hao" + string(digit)
		got := Annotate(in)
		if countMarks(got) != 1 {
			t.Errorf("Annotate(%q) = %q; want exactly one tone mark", in, got)
		}
		if strings.ContainsAny(got, "12345") {
			t.Errorf("Annotate(%q) = %q; tone digit survived", in, got)
		}
	}

	got := Annotate("hao5")
	if countMarks(got) != 0 || strings.ContainsAny(got, "12345") {
		t.Errorf("Annotate(%q) = %q; want no mark and no digit", "hao5", got)
	}
}

func TestAnnotateRejoinsWithSingleSpaces(t *testing.T) {
	got := Annotate("ni3   hao3")
	want := "nǐ hǎo"
	if got != want {
		t.Errorf("Annotate collapsed whitespace = %q; want %q", got, want)
	}
}
