package vocab

import "testing"

func testDeck() *Deck {
	return &Deck{
		Name:     "test",
		Language: "en",
		Words: []Word{
			{Term: "butterfly", Translation: "Schmetterling"},
			{Term: "hedgehog", Translation: "Igel"},
			{Term: "squirrel", Translation: "Eichhörnchen"},
		},
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Butterfly", "butterfly"},
		{"  hedgehog  ", "hedgehog"},
		{"Eichhörnchen", "eichhornchen"},
		{"café", "cafe"},
		{"don't", "dont"},
		{"ice  cream", "ice cream"},
		{"", ""},
		{"?!.,", ""},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMatches(t *testing.T) {
	tests := []struct {
		term   string
		answer string
		want   bool
	}{
		{"butterfly", "butterfly", true},
		{"butterfly", "Butterfly ", true},
		{"Eichhörnchen", "eichhornchen", true},
		{"don't", "dont", true},
		{"butterfly", "butterflies", false},
		{"butterfly", "", false},
	}
	for _, tt := range tests {
		if got := Matches(tt.term, tt.answer); got != tt.want {
			t.Errorf("Matches(%q, %q) = %v, want %v", tt.term, tt.answer, got, tt.want)
		}
	}
}

func TestExamFlow(t *testing.T) {
	e := NewExam(testDeck(), 42)

	seen := map[string]bool{}
	for !e.Done() {
		word, ok := e.Current()
		if !ok {
			t.Fatal("Current returned no word before Done")
		}
		if seen[word.Term] {
			t.Fatalf("word %q asked twice", word.Term)
		}
		seen[word.Term] = true

		// Answer the first two right, the last one wrong.
		answer := word.Term
		if len(seen) == 3 {
			answer = "wrong"
		}
		r := e.Answer(answer)
		if r.Word.Term != word.Term {
			t.Errorf("result word = %q, want %q", r.Word.Term, word.Term)
		}
	}

	if len(seen) != 3 {
		t.Errorf("asked %d words, want 3", len(seen))
	}
	correct, total := e.Score()
	if correct != 2 || total != 3 {
		t.Errorf("score = %d/%d, want 2/3", correct, total)
	}
	if _, ok := e.Current(); ok {
		t.Error("Current returned a word after the exam ended")
	}
}

func TestExamSeedReproducesOrder(t *testing.T) {
	deck := testDeck()
	a := NewExam(deck, 7)
	b := NewExam(deck, 7)

	for !a.Done() {
		wa, _ := a.Current()
		wb, _ := b.Current()
		if wa.Term != wb.Term {
			t.Fatalf("same seed diverged: %q vs %q", wa.Term, wb.Term)
		}
		a.Answer("")
		b.Answer("")
	}
}

func TestExamProgressCounter(t *testing.T) {
	e := NewExam(testDeck(), 1)
	n, total := e.Progress()
	if n != 1 || total != 3 {
		t.Errorf("Progress = %d/%d, want 1/3", n, total)
	}
	e.Answer("x")
	if n, _ := e.Progress(); n != 2 {
		t.Errorf("Progress after one answer = %d, want 2", n)
	}
}
