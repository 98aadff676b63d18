package ui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/termenv"

	"github.com/vokabel/vokabel/vocab"
)

// reviewModel is the flashcard screen: one word at a time, with the
// pronunciation a keypress away.
type reviewModel struct {
	deck      *vocab.Deck
	progress  *vocab.Progress
	pos       int
	showHint  bool
	autoSpeak bool
}

func newReview(deck *vocab.Deck, progress *vocab.Progress, autoSpeak bool) *reviewModel {
	return &reviewModel{deck: deck, progress: progress, autoSpeak: autoSpeak}
}

func (r *reviewModel) current() (vocab.Word, bool) {
	if r.pos < 0 || r.pos >= len(r.deck.Words) {
		return vocab.Word{}, false
	}
	return r.deck.Words[r.pos], true
}

func (r *reviewModel) move(delta int) (vocab.Word, bool) {
	next := r.pos + delta
	if next < 0 || next >= len(r.deck.Words) {
		return vocab.Word{}, false
	}
	r.pos = next
	r.showHint = false
	return r.deck.Words[r.pos], true
}

func (m *Model) updateReview(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	r := m.review

	switch key.String() {
	case "q", "esc":
		return m.closeDeck()

	case "right", "l", "n":
		if word, ok := r.move(1); ok && r.autoSpeak {
			return m, m.listen(word)
		}

	case "left", "h", "p":
		if word, ok := r.move(-1); ok && r.autoSpeak {
			return m, m.listen(word)
		}

	case " ", "enter":
		if word, ok := r.current(); ok {
			return m, m.listen(word)
		}

	case "P":
		m.speaker.togglePause()

	case "s":
		m.speaker.stop()

	case "t":
		r.showHint = !r.showHint

	case "c":
		if word, ok := r.current(); ok {
			copyText(word.Term)
			return m.setStatus("copied "+word.Term, false)
		}

	case "x":
		m.speaker.stop()
		return m.startExam()
	}
	return m, nil
}

// listen pronounces the word and records it in the progress stats.
func (m *Model) listen(word vocab.Word) tea.Cmd {
	m.review.progress.RecordListen(word.Term)
	return m.speaker.speak(word.Term)
}

// copyText writes to both the OSC 52 terminal clipboard and the system
// clipboard; over SSH only the former reaches the student's machine.
func copyText(s string) {
	termenv.Copy(s)
	if err := clipboard.WriteAll(s); err != nil {
		log.Debug("clipboard write failed", "err", err)
	}
}

func (r *reviewModel) view(width int) string {
	word, ok := r.current()
	if !ok {
		return subtleStyle.Render("This deck is empty.")
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(r.deck.Name))
	b.WriteString(subtleStyle.Render(fmt.Sprintf("  %d/%d", r.pos+1, len(r.deck.Words))))
	b.WriteString("\n\n")

	b.WriteString(termStyle.Render(word.Term))
	b.WriteString("\n")
	if r.showHint {
		b.WriteString(translationStyle.Render(word.Translation))
		b.WriteString("\n")
		if word.Example != "" {
			b.WriteString(exampleStyle.Render(wrap(word.Example, width)))
			b.WriteString("\n")
		}
	} else {
		b.WriteString(subtleStyle.Render("t: show translation"))
		b.WriteString("\n")
	}

	stats := r.progress.Stats(word.Term)
	if stats.Listens > 0 {
		b.WriteString("\n")
		b.WriteString(subtleStyle.Render(fmt.Sprintf(
			"heard %d times, last %s", stats.Listens, humanize.Time(stats.LastSeen))))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render(
		"space: listen • P: pause/resume • s: stop • ←/→: words • t: translation • c: copy • x: exam • q: back"))
	return b.String()
}

func wrap(s string, width int) string {
	if width <= 0 {
		return s
	}
	return wordwrap.String(s, min(width, 72))
}
