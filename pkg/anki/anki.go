// Package anki packages flashcards into Anki's .apkg deck format: a zip
// archive holding a SQLite collection database and a media manifest.
package anki

// Template is one question/answer pair rendered from a model's fields.
type Template struct {
	Name string
	Qfmt string
	Afmt string
}

// Model defines a note type: its named fields, the card templates rendered
// from them, and the shared stylesheet.
type Model struct {
	ID        int64
	Name      string
	Fields    []string
	Templates []Template
	CSS       string
}

// Note is one note's field values, in model-field order.
type Note struct {
	Fields []string
}

// Deck is the ordered collection of notes written into a package.
type Deck struct {
	ID    int64
	Name  string
	Notes []Note
}

// AddNote appends a note; notes keep their insertion order in the package.
func (d *Deck) AddNote(n Note) {
	d.Notes = append(d.Notes, n)
}

// GUIDFunc maps a note's fields to the stable identifier the scheduler uses
// to recognize the note across re-imports. It must be pure: identical input
// must yield the identical GUID across runs and processes.
type GUIDFunc func(fields []string) string
