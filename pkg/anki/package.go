package anki

import (
	"archive/zip"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// fieldSep joins a note's field values inside the flds column.
const fieldSep = "\x1f"

// Package writes one deck and its model as an .apkg file.
type Package struct {
	Deck  *Deck
	Model *Model

	// GUID derives each note's stable identifier. nil means FieldsGUID.
	GUID GUIDFunc

	// Now supplies the timestamps baked into the collection rows. nil
	// means time.Now; tests pin it to make output reproducible.
	Now func() time.Time
}

// WriteToFile builds the collection database in a temp directory and zips it
// into an .apkg at path.
func (p *Package) WriteToFile(path string) error {
	if p.Deck == nil || p.Model == nil {
		return fmt.Errorf("package needs both a deck and a model")
	}

	tmpDir, err := os.MkdirTemp("", "apkg-")
	if err != nil {
		return err
	}
	defer os.RemoveAll(tmpDir)

	dbPath := filepath.Join(tmpDir, "collection.anki2")
	if err := p.writeCollection(dbPath); err != nil {
		return err
	}
	return writeArchive(path, dbPath)
}

// writeCollection creates the SQLite collection database: schema, the single
// col row holding the model/deck JSON, and one notes row plus one cards row
// per template for every note, all inside one transaction.
func (p *Package) writeCollection(dbPath string) error {
	conn, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return fmt.Errorf("open collection db: %w", err)
	}
	defer conn.Close()

	if err := initSchema(conn); err != nil {
		return fmt.Errorf("apply collection schema: %w", err)
	}

	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	ts := now()

	tx, err := conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := p.writeCol(tx, ts); err != nil {
		return fmt.Errorf("write col row: %w", err)
	}
	if err := p.writeNotes(tx, ts); err != nil {
		return err
	}
	return tx.Commit()
}

func (p *Package) writeCol(tx *sql.Tx, ts time.Time) error {
	sec := ts.Unix()
	ms := ts.UnixMilli()

	blobs := map[string]any{
		"conf": confJSON(p.Deck.ID, p.Model.ID),
		"models": map[string]any{
			strconv.FormatInt(p.Model.ID, 10): modelJSON(p.Model, sec),
		},
		"decks": map[string]any{
			"1":                              deckJSON(1, "Default", sec),
			strconv.FormatInt(p.Deck.ID, 10): deckJSON(p.Deck.ID, p.Deck.Name, sec),
		},
		"dconf": map[string]any{
			"1": deckConfJSON(sec),
		},
	}
	encoded := make(map[string]string, len(blobs))
	for name, v := range blobs {
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode %s: %w", name, err)
		}
		encoded[name] = string(b)
	}

	_, err := tx.Exec(
		`INSERT INTO col (id, crt, mod, scm, ver, dty, usn, ls, conf, models, decks, dconf, tags)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		1, sec, ms, ms, 11, 0, 0, 0,
		encoded["conf"], encoded["models"], encoded["decks"], encoded["dconf"], "{}")
	return err
}

func (p *Package) writeNotes(tx *sql.Tx, ts time.Time) error {
	guid := p.GUID
	if guid == nil {
		guid = FieldsGUID
	}
	sec := ts.Unix()

	// Row ids only have to be unique within the file; a counter seeded
	// from the (possibly pinned) clock keeps them reproducible.
	rowID := ts.UnixMilli()

	for i, n := range p.Deck.Notes {
		flds := strings.Join(n.Fields, fieldSep)
		sfld := ""
		if len(n.Fields) > 0 {
			sfld = n.Fields[0]
		}
		rowID++
		noteID := rowID
		_, err := tx.Exec(
			`INSERT INTO notes (id, guid, mid, mod, usn, tags, flds, sfld, csum, flags, data)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			noteID, guid(n.Fields), p.Model.ID, sec, -1, "", flds, sfld, fieldChecksum(sfld), 0, "")
		if err != nil {
			return fmt.Errorf("insert note %d: %w", i, err)
		}

		// One card per template, all starting as new cards.
		for ord := range p.Model.Templates {
			rowID++
			_, err := tx.Exec(
				`INSERT INTO cards (id, nid, did, ord, mod, usn, type, queue, due,
				                    ivl, factor, reps, lapses, left, odue, odid, flags, data)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				rowID, noteID, p.Deck.ID, ord, sec, -1, 0, 0, 0,
				0, 0, 0, 0, 0, 0, 0, 0, "")
			if err != nil {
				return fmt.Errorf("insert card %d of note %d: %w", ord, i, err)
			}
		}
	}
	return nil
}

// writeArchive zips the collection database and an empty media manifest into
// the final .apkg.
func writeArchive(path, dbPath string) (err error) {
	dbBytes, err := os.ReadFile(dbPath)
	if err != nil {
		return err
	}

	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()

	zw := zip.NewWriter(out)
	w, err := zw.Create("collection.anki2")
	if err != nil {
		return err
	}
	if _, err = w.Write(dbBytes); err != nil {
		return err
	}
	w, err = zw.Create("media")
	if err != nil {
		return err
	}
	if _, err = w.Write([]byte("{}")); err != nil {
		return err
	}
	return zw.Close()
}

// The JSON blobs below mirror what Anki's exporter writes. Clients only read
// a handful of these keys, but missing ones trip strict importers.

const (
	latexPre = "\\documentclass[12pt]{article}\n\\special{papersize=3in,5in}\n" +
		"\\usepackage[utf8]{inputenc}\n\\usepackage{amssymb,amsmath}\n" +
		"\\pagestyle{empty}\n\\setlength{\\parindent}{0in}\n\\begin{document}\n"
	latexPost = "\\end{document}"
)

func modelJSON(m *Model, mod int64) map[string]any {
	flds := make([]map[string]any, len(m.Fields))
	for i, name := range m.Fields {
		flds[i] = map[string]any{
			"name":   name,
			"ord":    i,
			"sticky": false,
			"rtl":    false,
			"font":   "Liberation Sans",
			"size":   20,
			"media":  []any{},
		}
	}
	tmpls := make([]map[string]any, len(m.Templates))
	req := make([]any, len(m.Templates))
	for i, t := range m.Templates {
		tmpls[i] = map[string]any{
			"name":  t.Name,
			"ord":   i,
			"qfmt":  t.Qfmt,
			"afmt":  t.Afmt,
			"bqfmt": "",
			"bafmt": "",
			"did":   nil,
		}
		// Each template's question renders as long as the first field
		// is non-empty.
		req[i] = []any{i, "all", []int{0}}
	}
	return map[string]any{
		"id":        m.ID,
		"name":      m.Name,
		"type":      0,
		"mod":       mod,
		"usn":       -1,
		"sortf":     0,
		"did":       1,
		"tmpls":     tmpls,
		"flds":      flds,
		"css":       m.CSS,
		"latexPre":  latexPre,
		"latexPost": latexPost,
		"req":       req,
		"tags":      []any{},
		"vers":      []any{},
	}
}

func deckJSON(id int64, name string, mod int64) map[string]any {
	return map[string]any{
		"id":        id,
		"name":      name,
		"desc":      "",
		"mod":       mod,
		"usn":       -1,
		"collapsed": false,
		"dyn":       0,
		"conf":      1,
		"extendNew": 10,
		"extendRev": 50,
		"newToday":  []int{0, 0},
		"revToday":  []int{0, 0},
		"lrnToday":  []int{0, 0},
		"timeToday": []int{0, 0},
	}
}

func confJSON(deckID, modelID int64) map[string]any {
	return map[string]any{
		"activeDecks":   []int64{deckID},
		"curDeck":       deckID,
		"curModel":      strconv.FormatInt(modelID, 10),
		"addToCur":      true,
		"collapseTime":  1200,
		"dueCounts":     true,
		"estTimes":      true,
		"newBury":       true,
		"newSpread":     0,
		"nextPos":       1,
		"sortBackwards": false,
		"sortType":      "noteFld",
		"timeLim":       0,
	}
}

func deckConfJSON(mod int64) map[string]any {
	return map[string]any{
		"id":       1,
		"name":     "Default",
		"mod":      mod,
		"usn":      -1,
		"autoplay": true,
		"dyn":      0,
		"maxTaken": 60,
		"replayq":  true,
		"timer":    0,
		"lapse": map[string]any{
			"delays":      []int{10},
			"leechAction": 0,
			"leechFails":  8,
			"minInt":      1,
			"mult":        0,
		},
		"new": map[string]any{
			"bury":          true,
			"delays":        []int{1, 10},
			"initialFactor": 2500,
			"ints":          []int{1, 4, 7},
			"order":         1,
			"perDay":        20,
			"separate":      true,
		},
		"rev": map[string]any{
			"bury":     true,
			"ease4":    1.3,
			"fuzz":     0.05,
			"ivlFct":   1,
			"maxIvl":   36500,
			"minSpace": 1,
			"perDay":   100,
		},
	}
}
