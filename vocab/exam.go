package vocab

import (
	"math/rand"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Exam is one pass through a deck in listen-and-type mode: the trainer
// pronounces each term and the student types what they heard.
type Exam struct {
	deck    *Deck
	order   []int
	pos     int
	results []Result
}

// Result records one answered question.
type Result struct {
	Word    Word
	Answer  string
	Correct bool
}

// NewExam starts an exam over the deck with the question order shuffled by
// seed. Passing the same seed reproduces the same order.
func NewExam(deck *Deck, seed int64) *Exam {
	order := rand.New(rand.NewSource(seed)).Perm(len(deck.Words))
	return &Exam{deck: deck, order: order}
}

// Deck returns the deck under examination.
func (e *Exam) Deck() *Deck {
	return e.deck
}

// Current returns the word to pronounce next, or false when the exam is
// over.
func (e *Exam) Current() (Word, bool) {
	if e.pos >= len(e.order) {
		return Word{}, false
	}
	return e.deck.Words[e.order[e.pos]], true
}

// Progress returns the 1-based question number and the total.
func (e *Exam) Progress() (int, int) {
	n := e.pos + 1
	if n > len(e.order) {
		n = len(e.order)
	}
	return n, len(e.order)
}

// Answer grades the student's answer for the current word and advances.
func (e *Exam) Answer(answer string) Result {
	word, ok := e.Current()
	if !ok {
		return Result{}
	}
	r := Result{
		Word:    word,
		Answer:  answer,
		Correct: Matches(word.Term, answer),
	}
	e.results = append(e.results, r)
	e.pos++
	return r
}

// Done reports whether every question was answered.
func (e *Exam) Done() bool {
	return e.pos >= len(e.order)
}

// Results returns the graded answers so far.
func (e *Exam) Results() []Result {
	return e.results
}

// Score returns the number of correct answers and the total answered.
func (e *Exam) Score() (correct, total int) {
	for _, r := range e.results {
		if r.Correct {
			correct++
		}
	}
	return correct, len(e.results)
}

// Matches compares a typed answer against the expected term. Comparison is
// forgiving for young typists: case, surrounding space, diacritics, and
// punctuation do not count against them.
func Matches(term, answer string) bool {
	return Normalize(term) == Normalize(answer)
}

var stripMarks = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// Normalize lowercases, strips diacritics, and drops everything that is
// not a letter, digit, or internal space.
func Normalize(s string) string {
	folded, _, err := transform.String(stripMarks, s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	for _, r := range strings.ToLower(folded) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
