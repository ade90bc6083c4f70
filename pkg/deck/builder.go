package deck

import (
	"fmt"
	"io"
	"strings"

	"github.com/oconnor663/easy-steps-chinese-vocab/pkg/cedict"
	"github.com/oconnor663/easy-steps-chinese-vocab/pkg/pinyin"
)

// Card is the four-field record handed to the deck assembler. Simplified is
// the identity field: the note GUID derives from it alone, so reformatting
// the other fields never resets a card's scheduling history.
type Card struct {
	Simplified  string
	SimpAndTrad string
	Pinyin      string
	Definition  string
}

// Fields returns the values in model-field order.
func (c Card) Fields() []string {
	return []string{c.Simplified, c.SimpAndTrad, c.Pinyin, c.Definition}
}

// BuildCards resolves each note, in input order, into a card. Lookup notes
// whose headword is missing from the dictionary are reported on diag and
// dropped; the rest of the run continues. An internally inconsistent
// dictionary entry (mismatched traditional form) is an error.
func BuildCards(notes []Note, dict cedict.Dict, diag io.Writer) ([]Card, error) {
	cards := make([]Card, 0, len(notes))
	for _, n := range notes {
		var trads, pinyins, defs []string
		if n.Manual() {
			pinyins = []string{pinyin.Annotate(n.Pinyin)}
			defs = []string{n.Definition}
		} else {
			e := dict[n.Simplified]
			if e == nil {
				fmt.Fprintf(diag, "NEEDS DEFINITION: %s\n", n.Simplified)
				continue
			}
			trads, pinyins, defs = e.Traditional, e.Pinyins, e.Definitions
		}
		display, err := formatHanzi(n.Simplified, trads)
		if err != nil {
			return nil, err
		}
		cards = append(cards, Card{
			Simplified:  n.Simplified,
			SimpAndTrad: display,
			Pinyin:      strings.Join(pinyins, ", "),
			Definition:  strings.Join(defs, " / "),
		})
	}
	return cards, nil
}

// formatHanzi builds the display field: the simplified form alone, or the
// simplified form followed by each distinct traditional form diffed against
// it character by character, with "-" standing in for characters the two
// spellings share.
func formatHanzi(simp string, trads []string) (string, error) {
	simpRunes := []rune(simp)
	var dashed []string
	for _, trad := range trads {
		if trad == simp {
			continue
		}
		tradRunes := []rune(trad)
		if len(tradRunes) != len(simpRunes) {
			return "", fmt.Errorf("is %q really the traditional form of %q?", trad, simp)
		}
		var b strings.Builder
		for i, r := range tradRunes {
			if simpRunes[i] == r {
				b.WriteByte('-')
			} else {
				b.WriteRune(r)
			}
		}
		dashed = append(dashed, b.String())
	}
	if len(dashed) == 0 {
		return simp, nil
	}
	return simp + `<hr><span class="traditional">` + strings.Join(dashed, " / ") + `</span>`, nil
}
