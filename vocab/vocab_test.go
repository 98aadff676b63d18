package vocab

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleDeck = `name: Animals
language: en
words:
  - term: butterfly
    translation: Schmetterling
    example: The butterfly landed on a flower.
  - term: hedgehog
    translation: Igel
`

func writeDeck(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write deck: %v", err)
	}
	return path
}

func TestLoadDeck(t *testing.T) {
	d, err := Load(writeDeck(t, "animals.deck.yaml", sampleDeck))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if d.Name != "Animals" {
		t.Errorf("Name = %q", d.Name)
	}
	if d.Language != "en" {
		t.Errorf("Language = %q", d.Language)
	}
	if len(d.Words) != 2 {
		t.Fatalf("len(Words) = %d, want 2", len(d.Words))
	}
	if d.Words[0].Term != "butterfly" || d.Words[0].Translation != "Schmetterling" {
		t.Errorf("first word = %+v", d.Words[0])
	}
	if d.Words[1].Example != "" {
		t.Errorf("example should be optional, got %q", d.Words[1].Example)
	}
}

func TestLoadDeckDefaultsName(t *testing.T) {
	content := "language: de\nwords:\n  - term: Hund\n    translation: dog\n"
	d, err := Load(writeDeck(t, "tiere.deck.yaml", content))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if d.Name != "tiere" {
		t.Errorf("Name = %q, want tiere (from filename)", d.Name)
	}
}

func TestLoadDeckValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing language", "name: x\nwords:\n  - term: a\n    translation: b\n"},
		{"no words", "language: en\nwords: []\n"},
		{"blank term", "language: en\nwords:\n  - term: \"  \"\n    translation: b\n"},
		{"not yaml", "{{{{"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeDeck(t, "bad.deck.yaml", tt.content)); err == nil {
				t.Error("Load accepted an invalid deck")
			}
		})
	}
}

func TestDeckSaveRoundTrip(t *testing.T) {
	d, err := Load(writeDeck(t, "animals.deck.yaml", sampleDeck))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	d.Words = append(d.Words, Word{Term: "squirrel", Translation: "Eichhörnchen"})
	if err := d.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	reloaded, err := Load(d.Path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if len(reloaded.Words) != 3 {
		t.Errorf("len(Words) after save = %d, want 3", len(reloaded.Words))
	}
}

func TestDeckKey(t *testing.T) {
	d := &Deck{Path: "/decks/My Animals!.deck.yaml"}
	key := d.Key()
	if key != "my_animals_" {
		t.Errorf("Key = %q", key)
	}
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"b.deck.yaml":      "language: en\nwords:\n  - term: bee\n    translation: Biene\n",
		"a.deck.yml":       "language: en\nwords:\n  - term: ant\n    translation: Ameise\n",
		"broken.deck.yaml": "language: en\nwords: []\n",
		"notes.txt":        "not a deck",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	decks, err := Discover(dir)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(decks) != 2 {
		t.Fatalf("found %d decks, want 2 (broken and non-decks skipped)", len(decks))
	}
	// Sorted by name.
	if decks[0].Name != "a" || decks[1].Name != "b" {
		t.Errorf("order = %s, %s", decks[0].Name, decks[1].Name)
	}
}

func TestDiscoverSingleFile(t *testing.T) {
	path := writeDeck(t, "single.deck.yaml", sampleDeck)
	decks, err := Discover(path)
	if err != nil {
		t.Fatalf("Discover(file): %v", err)
	}
	if len(decks) != 1 || decks[0].Name != "Animals" {
		t.Errorf("decks = %v", decks)
	}
}
