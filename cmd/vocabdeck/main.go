// Command vocabdeck turns a pipe-delimited vocab list plus the CC-CEDICT
// dictionary into an Anki .apkg deck.
//
// The vocab file's first line names the deck and gives its stable numeric
// id; every following line is either a bare simplified headword (looked up
// in the dictionary) or "headword | pinyin | definition" for words the
// dictionary is missing. Headwords without a dictionary entry are reported
// as "NEEDS DEFINITION" and skipped.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/oconnor663/easy-steps-chinese-vocab/pkg/anki"
	"github.com/oconnor663/easy-steps-chinese-vocab/pkg/cedict"
	"github.com/oconnor663/easy-steps-chinese-vocab/pkg/deck"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func run(args []string) error {
	fs := pflag.NewFlagSet("vocabdeck", pflag.ContinueOnError)
	dictPath := fs.String("dict", "cc_cedict.txt", "path to the CC-CEDICT text file")
	fetchDict := fs.Bool("fetch-dict", false, "download the dictionary to --dict if it is missing")
	stylePath := fs.String("style", "", "YAML file overriding card CSS and templates")
	outPath := fs.String("out", "", "output path (default: the vocab file with an .apkg extension)")
	verbose := fs.BoolP("verbose", "v", false, "log progress to stderr")
	version := fs.Bool("version", false, "print version and exit")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: vocabdeck [flags] <vocab-file>\n\nFlags:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if *version {
		fmt.Println("vocabdeck", Version)
		return nil
	}

	logf := func(string, ...any) {}
	if *verbose {
		logf = func(format string, args ...any) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		}
	}
	// Error ignored: maxprocs.Set only fails on an invalid GOMAXPROCS env
	// value, in which case the runtime default applies.
	_, _ = maxprocs.Set(maxprocs.Logger(logf))

	if fs.NArg() != 1 {
		fs.Usage()
		return errors.New("expected exactly one <vocab-file> argument")
	}
	vocabPath := fs.Arg(0)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if *fetchDict {
		if err := cedict.Ensure(ctx, *dictPath); err != nil {
			return fmt.Errorf("fetch dictionary: %w", err)
		}
	}

	logf("Loading dictionary from %s...", *dictPath)
	dict, err := cedict.LoadFile(*dictPath)
	if err != nil {
		return err
	}
	logf("Loaded %d dictionary entries", len(dict))

	text, err := os.ReadFile(vocabPath)
	if err != nil {
		return err
	}
	name, deckID, notes, err := deck.ParseNotes(string(text))
	if err != nil {
		return fmt.Errorf("%s: %w", vocabPath, err)
	}
	logf("Deck %q (id %d), %d notes", name, deckID, len(notes))

	var style *deck.Style
	if *stylePath != "" {
		style, err = deck.LoadStyle(*stylePath)
		if err != nil {
			return err
		}
	}
	model, err := deck.Model(deckID, style)
	if err != nil {
		return err
	}

	cards, err := deck.BuildCards(notes, dict, os.Stdout)
	if err != nil {
		return err
	}

	d := &anki.Deck{ID: deckID, Name: name}
	for _, c := range cards {
		d.AddNote(anki.Note{Fields: c.Fields()})
	}

	out := *outPath
	if out == "" {
		out = strings.TrimSuffix(vocabPath, filepath.Ext(vocabPath)) + ".apkg"
	}
	pkg := &anki.Package{
		Deck:  d,
		Model: model,
		// Only the simplified headword identifies a card. Display,
		// pinyin, and definition formatting can change freely without
		// resetting scheduling history.
		GUID: func(fields []string) string { return anki.GUID(fields[0]) },
	}
	if err := pkg.WriteToFile(out); err != nil {
		return err
	}
	fmt.Println("created", out)
	return nil
}
