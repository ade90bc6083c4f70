// Package deck turns a user-authored note list and the CC-CEDICT map into
// the ordered cards of one Anki deck.
package deck

import (
	"fmt"
	"strconv"
	"strings"
)

// Note is one requested card. A lookup note carries only the simplified
// headword and is resolved against the dictionary at build time; a manual
// note supplies its own pinyin and definition and bypasses the dictionary.
type Note struct {
	Simplified string
	Pinyin     string // manual notes only
	Definition string // manual notes only
	manual     bool
}

// Manual reports whether the note carries its own pinyin and definition.
func (n Note) Manual() bool { return n.manual }

// ParseNotes parses a deck file. The first line is "deckName | deckId"; each
// following non-blank, non-comment line is either a bare headword or
// "headword | pinyin | definition". The deck id must stay stable across
// regenerations: Anki uses it (and the model id derived from it) to match
// the import against the existing collection.
func ParseNotes(text string) (name string, id int64, notes []Note, err error) {
	lines := strings.Split(text, "\n")

	header := splitLine(lines[0])
	if len(header) != 2 {
		return "", 0, nil, fmt.Errorf(`deck file line 1: want "deckName | deckId", got %q`, lines[0])
	}
	name = header[0]
	id, err = strconv.ParseInt(header[1], 10, 64)
	if err != nil {
		return "", 0, nil, fmt.Errorf("deck file line 1: deck id %q is not an integer", header[1])
	}

	for i, line := range lines[1:] {
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := splitLine(line)
		switch len(parts) {
		case 1:
			notes = append(notes, Note{Simplified: parts[0]})
		case 3:
			notes = append(notes, Note{
				Simplified: parts[0],
				Pinyin:     parts[1],
				Definition: parts[2],
				manual:     true,
			})
		default:
			return "", 0, nil, fmt.Errorf(
				"deck file line %d: want 1 or 3 |-separated fields, got %d in %q",
				i+2, len(parts), line)
		}
	}
	return name, id, notes, nil
}

func splitLine(line string) []string {
	parts := strings.Split(line, "|")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}
