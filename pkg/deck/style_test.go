package deck

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestModelDefaults(t *testing.T) {
	m, err := Model(1700, nil)
	if err != nil {
		t.Fatalf("model: %v", err)
	}
	if m.ID != 1701 {
		t.Errorf("model id = %d; want deck id + 1", m.ID)
	}
	wantFields := []string{"Simplified", "SimpAndTrad", "Pinyin", "Definition"}
	if len(m.Fields) != len(wantFields) {
		t.Fatalf("fields = %v; want %v", m.Fields, wantFields)
	}
	for i, f := range wantFields {
		if m.Fields[i] != f {
			t.Errorf("field %d = %q; want %q", i, m.Fields[i], f)
		}
	}
	if len(m.Templates) != 2 {
		t.Fatalf("templates = %d; want 2", len(m.Templates))
	}
	if !strings.Contains(m.Templates[0].Qfmt, "{{Simplified}}") {
		t.Errorf("card 1 question should show the simplified form: %q", m.Templates[0].Qfmt)
	}
	if !strings.Contains(m.Templates[1].Qfmt, "{{Definition}}") {
		t.Errorf("card 2 question should show the definition: %q", m.Templates[1].Qfmt)
	}
	if !strings.Contains(m.CSS, ".hanzi") {
		t.Errorf("default CSS should style .hanzi: %q", m.CSS)
	}
}

func TestModelStyleOverride(t *testing.T) {
	style := &Style{
		CSS: ".card { color: red; }",
		Cards: []TemplateStyle{
			{Name: "Card 2", Qfmt: "{{Pinyin}}"},
		},
	}
	m, err := Model(1700, style)
	if err != nil {
		t.Fatalf("model: %v", err)
	}
	if m.CSS != ".card { color: red; }" {
		t.Errorf("css override not applied: %q", m.CSS)
	}
	if m.Templates[1].Qfmt != "{{Pinyin}}" {
		t.Errorf("card 2 qfmt override not applied: %q", m.Templates[1].Qfmt)
	}
	// Untouched pieces keep their defaults.
	if m.Templates[0].Qfmt != qfmt1 {
		t.Errorf("card 1 qfmt should keep its default: %q", m.Templates[0].Qfmt)
	}
	if m.Templates[1].Afmt != afmt2 {
		t.Errorf("card 2 afmt should keep its default: %q", m.Templates[1].Afmt)
	}
}

func TestModelUnknownTemplateName(t *testing.T) {
	style := &Style{Cards: []TemplateStyle{{Name: "Card 9", Qfmt: "x"}}}
	if _, err := Model(1700, style); err == nil {
		t.Fatalf("unknown template name should be an error")
	}
}

func TestLoadStyle(t *testing.T) {
	text := `css: ".card { font-size: 20px; }"
cards:
  - name: Card 1
    qfmt: "{{Pinyin}}"
    afmt: "{{Simplified}}"
`
	path := filepath.Join(t.TempDir(), "style.yaml")
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		t.Fatalf("write style: %v", err)
	}
	s, err := LoadStyle(path)
	if err != nil {
		t.Fatalf("load style: %v", err)
	}
	if s.CSS != ".card { font-size: 20px; }" {
		t.Errorf("css = %q", s.CSS)
	}
	if len(s.Cards) != 1 || s.Cards[0].Name != "Card 1" || s.Cards[0].Qfmt != "{{Pinyin}}" {
		t.Errorf("cards = %+v", s.Cards)
	}
}

func TestLoadStyleBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "style.yaml")
	if err := os.WriteFile(path, []byte("css: [unclosed\n"), 0o644); err != nil {
		t.Fatalf("write style: %v", err)
	}
	if _, err := LoadStyle(path); err == nil {
		t.Fatalf("unparsable YAML should be an error")
	}
}
