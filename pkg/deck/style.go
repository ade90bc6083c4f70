package deck

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/oconnor663/easy-steps-chinese-vocab/pkg/anki"
)

// modelIDOffset separates the model id from the deck id. Both must stay
// stable and unique across every deck ever generated, so deriving one from
// the other keeps a single number to manage per deck.
const modelIDOffset = 1

const defaultCSS = `.card {
    font-size: 32px;
    font-family: arial;
    text-align: center;
}

.hanzi {
    font-size: 64px;
}

.traditional {
    font-size: 48px;
}
`

const qfmt1 = `<span class="hanzi">{{Simplified}}</span>`

const afmt1 = `<span class="hanzi">{{SimpAndTrad}}</span>
<hr id="answer">
{{Pinyin}}
<hr>
{{Definition}}
`

const qfmt2 = `{{Definition}}`

const afmt2 = `{{Definition}}
<hr id="answer">
<span class="hanzi">{{SimpAndTrad}}</span>
<hr>
{{Pinyin}}
`

// Style overrides the packaged card appearance. Every field is optional;
// zero values keep the built-in defaults.
type Style struct {
	CSS   string          `yaml:"css"`
	Cards []TemplateStyle `yaml:"cards"`
}

// TemplateStyle overrides one card template, matched by name.
type TemplateStyle struct {
	Name string `yaml:"name"`
	Qfmt string `yaml:"qfmt"`
	Afmt string `yaml:"afmt"`
}

// LoadStyle reads a YAML style file.
func LoadStyle(path string) (*Style, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var s Style
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse style %s: %w", path, err)
	}
	return &s, nil
}

// Model builds the note model for a deck, applying any style overrides on
// top of the defaults. A nil style keeps the defaults.
func Model(deckID int64, style *Style) (*anki.Model, error) {
	m := &anki.Model{
		ID:     deckID + modelIDOffset,
		Name:   "Easy Steps Model",
		Fields: []string{"Simplified", "SimpAndTrad", "Pinyin", "Definition"},
		Templates: []anki.Template{
			{Name: "Card 1", Qfmt: qfmt1, Afmt: afmt1},
			{Name: "Card 2", Qfmt: qfmt2, Afmt: afmt2},
		},
		CSS: defaultCSS,
	}
	if style == nil {
		return m, nil
	}
	if style.CSS != "" {
		m.CSS = style.CSS
	}
	for _, ts := range style.Cards {
		i := templateIndex(m.Templates, ts.Name)
		if i == -1 {
			return nil, fmt.Errorf("style: no card template named %q", ts.Name)
		}
		if ts.Qfmt != "" {
			m.Templates[i].Qfmt = ts.Qfmt
		}
		if ts.Afmt != "" {
			m.Templates[i].Afmt = ts.Afmt
		}
	}
	return m, nil
}

func templateIndex(tmpls []anki.Template, name string) int {
	for i, t := range tmpls {
		if t.Name == name {
			return i
		}
	}
	return -1
}
