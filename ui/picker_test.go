package ui

import (
	"testing"

	"github.com/vokabel/vokabel/vocab"
)

func deckNamed(name string) *vocab.Deck {
	return &vocab.Deck{
		Name:     name,
		Language: "en",
		Words:    []vocab.Word{{Term: "a", Translation: "b"}},
	}
}

func TestPickerFilter(t *testing.T) {
	p := newPicker([]*vocab.Deck{
		deckNamed("Animals"),
		deckNamed("Colors"),
		deckNamed("Calendar"),
	})

	if len(p.filtered) != 3 {
		t.Fatalf("unfiltered list has %d decks", len(p.filtered))
	}

	p.filter = "cal"
	p.applyFilter()
	if len(p.filtered) != 1 || p.filtered[0].Name != "Calendar" {
		t.Errorf("filter cal matched %v", names(p.filtered))
	}

	p.filter = "zzz"
	p.applyFilter()
	if len(p.filtered) != 0 {
		t.Errorf("filter zzz matched %v", names(p.filtered))
	}
	if _, ok := p.selected(); ok {
		t.Error("selection exists with no matches")
	}

	p.filter = ""
	p.applyFilter()
	if len(p.filtered) != 3 {
		t.Errorf("clearing filter shows %d decks", len(p.filtered))
	}
}

func TestPickerCursorClampsOnReload(t *testing.T) {
	p := newPicker([]*vocab.Deck{deckNamed("a"), deckNamed("b"), deckNamed("c")})
	p.cursor = 2

	p.setDecks([]*vocab.Deck{deckNamed("only")})
	if p.cursor != 0 {
		t.Errorf("cursor = %d after shrink", p.cursor)
	}
	deck, ok := p.selected()
	if !ok || deck.Name != "only" {
		t.Errorf("selected = %v, %v", deck, ok)
	}
}

func TestReviewNavigation(t *testing.T) {
	deck := &vocab.Deck{
		Name:     "nav",
		Language: "en",
		Words: []vocab.Word{
			{Term: "one", Translation: "eins"},
			{Term: "two", Translation: "zwei"},
		},
	}
	r := newReview(deck, &vocab.Progress{Words: map[string]*vocab.WordStats{}}, false)

	if w, ok := r.current(); !ok || w.Term != "one" {
		t.Fatalf("initial word = %v, %v", w, ok)
	}
	if _, ok := r.move(-1); ok {
		t.Error("moved before the first word")
	}
	if w, ok := r.move(1); !ok || w.Term != "two" {
		t.Errorf("next word = %v, %v", w, ok)
	}
	if _, ok := r.move(1); ok {
		t.Error("moved past the last word")
	}
}

func names(decks []*vocab.Deck) []string {
	out := make([]string, len(decks))
	for i, d := range decks {
		out[i] = d.Name
	}
	return out
}
