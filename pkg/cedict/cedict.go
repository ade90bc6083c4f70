// Package cedict loads CC-CEDICT, the community-maintained Chinese-English
// dictionary, into an in-memory map keyed by simplified headword.
package cedict

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/oconnor663/easy-steps-chinese-vocab/pkg/pinyin"
)

// Entry is the merged record for one simplified headword. CC-CEDICT carries
// one line per (spelling, pronunciation, sense) cluster; Load folds every
// line sharing a simplified form into a single Entry.
type Entry struct {
	Simplified  string
	Traditional []string // distinct non-identical spellings, in file order
	Pinyins     []string // distinct annotated pronunciations, in file order
	Definitions []string // every surviving gloss, in file order
}

// Dict maps a simplified headword to its merged entry. It is built once by
// Load and read-only afterwards.
type Dict map[string]*Entry

// noisePrefixes mark glosses that add noise rather than meaning:
// cross-references to other spellings, and classifier lists.
var noisePrefixes = []string{
	"variant of ",
	"old variant of ",
	"CL:",
}

// LoadFile opens path and parses it with Load.
func LoadFile(path string) (Dict, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

// Load parses CC-CEDICT text. Data lines look like
//
//	傳統 传统 [chuan2 tong3] /tradition/traditional/convention/
//
// and "#" lines are comments. Proper-noun entries (capitalized pinyin) and
// lines whose glosses are all noise are silently skipped; a structurally
// malformed line is an error carrying its line number.
func Load(r io.Reader) (Dict, error) {
	d := make(Dict)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if strings.HasPrefix(line, "#") {
			continue
		}
		if err := mergeLine(d, line); err != nil {
			return nil, fmt.Errorf("cc-cedict line %d: %w", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read cc-cedict: %w", err)
	}
	return d, nil
}

// mergeLine parses one data line and folds it into d. Lines rejected by the
// proper-noun and gloss-noise filters are dropped without touching d.
func mergeLine(d Dict, line string) error {
	trad, rest, ok := strings.Cut(line, " ")
	if !ok {
		return fmt.Errorf("want \"trad simp [pinyin]/gloss/...\", got %q", line)
	}
	simp, rest, ok := strings.Cut(rest, " ")
	if !ok {
		return fmt.Errorf("want \"trad simp [pinyin]/gloss/...\", got %q", line)
	}
	rawPinyin, defs, err := parseRest(rest)
	if err != nil {
		return err
	}

	// CC-CEDICT capitalizes pinyin for proper nouns, which are study
	// noise here. The check has to run on the raw pinyin: annotation
	// lowercases it.
	if first, _ := utf8.DecodeRuneInString(rawPinyin); unicode.IsUpper(first) {
		return nil
	}
	defs = filterDefinitions(defs)
	if len(defs) == 0 {
		// Every gloss on this line was noise.
		return nil
	}

	p := pinyin.Annotate(rawPinyin)
	e := d[simp]
	if e == nil {
		d[simp] = &Entry{
			Simplified:  simp,
			Traditional: []string{trad},
			Pinyins:     []string{p},
			Definitions: defs,
		}
		return nil
	}
	if !slices.Contains(e.Traditional, trad) {
		e.Traditional = append(e.Traditional, trad)
	}
	if !slices.Contains(e.Pinyins, p) {
		e.Pinyins = append(e.Pinyins, p)
	}
	e.Definitions = append(e.Definitions, defs...)
	return nil
}

// parseRest splits the tail of a data line into the bracketed pinyin and the
// slash-delimited glosses. Empty and whitespace-only gloss segments are
// dropped here; the noise filter runs later.
func parseRest(rest string) (string, []string, error) {
	if !strings.HasPrefix(rest, "[") {
		return "", nil, fmt.Errorf("missing [pinyin] block in %q", rest)
	}
	p, slashDefs, ok := strings.Cut(rest[1:], "]")
	if !ok {
		return "", nil, fmt.Errorf("unterminated [pinyin] block in %q", rest)
	}
	var defs []string
	for _, seg := range strings.Split(slashDefs, "/") {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		defs = append(defs, seg)
	}
	return p, defs, nil
}

func filterDefinitions(defs []string) []string {
	var kept []string
	for _, def := range defs {
		noisy := slices.ContainsFunc(noisePrefixes, func(prefix string) bool {
			return strings.HasPrefix(def, prefix)
		})
		if !noisy {
			kept = append(kept, def)
		}
	}
	return kept
}
