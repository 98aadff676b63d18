package vocab

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/muesli/gitcha"
)

// Discover walks dir for deck files and loads the valid ones. Invalid
// decks are logged and skipped so one broken file does not hide the rest.
// Results come back sorted by name for a stable picker order.
func Discover(dir string) ([]*Deck, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		d, err := Load(dir)
		if err != nil {
			return nil, err
		}
		return []*Deck{d}, nil
	}

	ch, err := gitcha.FindAllFilesExcept(dir, Extensions, nil)
	if err != nil {
		return nil, err
	}

	var decks []*Deck
	for res := range ch {
		d, err := Load(res.Path)
		if err != nil {
			log.Warn("skipping deck", "path", res.Path, "err", err)
			continue
		}
		decks = append(decks, d)
	}

	sort.Slice(decks, func(i, j int) bool {
		if decks[i].Name != decks[j].Name {
			return decks[i].Name < decks[j].Name
		}
		return decks[i].Path < decks[j].Path
	})
	return decks, nil
}

// DefaultDir returns the directory searched when no deck argument is
// given: ./decks if it exists, otherwise the working directory.
func DefaultDir() string {
	if info, err := os.Stat("decks"); err == nil && info.IsDir() {
		abs, err := filepath.Abs("decks")
		if err == nil {
			return abs
		}
	}
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}
