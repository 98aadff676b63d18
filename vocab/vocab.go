// Package vocab loads, validates, and tracks vocabulary decks. A deck is a
// YAML file naming a language and a list of words; progress per word is
// persisted separately through the store package.
package vocab

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Word is one vocabulary entry.
type Word struct {
	Term        string `yaml:"term"`
	Translation string `yaml:"translation"`
	Example     string `yaml:"example,omitempty"`
}

// Deck is a named collection of words in one language.
type Deck struct {
	Name     string `yaml:"name"`
	Language string `yaml:"language"`
	Words    []Word `yaml:"words"`

	// Path is where the deck was loaded from. Not serialized.
	Path string `yaml:"-"`
}

// Extensions lists the file extensions recognized as decks.
var Extensions = []string{"*.deck.yaml", "*.deck.yml"}

// Load reads and validates a deck file.
func Load(path string) (*Deck, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read deck: %w", err)
	}

	var d Deck
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parse deck %s: %w", filepath.Base(path), err)
	}
	d.Path = path
	if d.Name == "" {
		d.Name = deckNameFromPath(path)
	}
	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("deck %s: %w", filepath.Base(path), err)
	}
	return &d, nil
}

// Save writes the deck back to its path.
func (d *Deck) Save() error {
	if d.Path == "" {
		return fmt.Errorf("deck has no path")
	}
	data, err := yaml.Marshal(d)
	if err != nil {
		return fmt.Errorf("encode deck: %w", err)
	}
	return os.WriteFile(d.Path, data, 0o644)
}

// Validate checks the deck is usable: a language tag, at least one word,
// and no blank terms.
func (d *Deck) Validate() error {
	if strings.TrimSpace(d.Language) == "" {
		return fmt.Errorf("missing language")
	}
	if len(d.Words) == 0 {
		return fmt.Errorf("no words")
	}
	for i, w := range d.Words {
		if strings.TrimSpace(w.Term) == "" {
			return fmt.Errorf("word %d has an empty term", i+1)
		}
	}
	return nil
}

// Key returns the stable identifier used for persisting deck progress. It
// survives renames of the display name but not moves of the file.
func (d *Deck) Key() string {
	return sanitizeKey(deckNameFromPath(d.Path))
}

func deckNameFromPath(path string) string {
	base := filepath.Base(path)
	for _, suffix := range []string{".deck.yaml", ".deck.yml", ".yaml", ".yml"} {
		if strings.HasSuffix(base, suffix) {
			return strings.TrimSuffix(base, suffix)
		}
	}
	return base
}

func sanitizeKey(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
