package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vokabel/vokabel/vocab"
)

// examModel runs the listen-and-type mode: the trainer pronounces a word,
// the student types what they heard, and the answer is graded leniently.
type examModel struct {
	exam     *vocab.Exam
	progress *vocab.Progress
	speaker  *speaker
	input    textinput.Model

	lastResult *vocab.Result
}

func newExam(deck *vocab.Deck, progress *vocab.Progress, sp *speaker) (*examModel, tea.Cmd) {
	input := textinput.New()
	input.Placeholder = "type what you hear"
	input.CharLimit = 64
	input.Focus()

	e := &examModel{
		exam:     vocab.NewExam(deck, time.Now().UnixNano()),
		progress: progress,
		speaker:  sp,
		input:    input,
	}

	cmds := []tea.Cmd{textinput.Blink}
	if word, ok := e.exam.Current(); ok {
		cmds = append(cmds, sp.speak(word.Term))
	}
	return e, tea.Batch(cmds...)
}

func (m *Model) updateExam(msg tea.Msg) (tea.Model, tea.Cmd) {
	e := m.exam

	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			m.speaker.stop()
			m.state = stateReview
			return m, nil

		case "ctrl+r":
			// Hear the word again.
			if word, ok := e.exam.Current(); ok {
				return m, m.speaker.speak(word.Term)
			}
			return m, nil

		case "enter":
			word, ok := e.exam.Current()
			if !ok {
				return m, nil
			}
			result := e.exam.Answer(e.input.Value())
			e.lastResult = &result
			e.progress.RecordAnswer(word.Term, result.Correct)
			e.input.Reset()

			if e.exam.Done() {
				m.speaker.stop()
				m.state = stateResults
				return m, nil
			}
			next, _ := e.exam.Current()
			return m, m.speaker.speak(next.Term)
		}
	}

	var cmd tea.Cmd
	e.input, cmd = e.input.Update(msg)
	return m, cmd
}

func (m *Model) updateResults(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "x":
		return m.startExam()
	case "q", "esc", "enter":
		m.state = stateReview
		return m, nil
	}
	return m, nil
}

func (e *examModel) view(width int) string {
	var b strings.Builder
	n, total := e.exam.Progress()
	b.WriteString(titleStyle.Render("Exam"))
	b.WriteString(subtleStyle.Render(fmt.Sprintf("  %d/%d", n, total)))
	b.WriteString("\n\n")

	if e.lastResult != nil {
		if e.lastResult.Correct {
			b.WriteString(correctStyle.Render("✓ correct"))
		} else {
			b.WriteString(wrongStyle.Render("✗ it was " + e.lastResult.Word.Term))
		}
		b.WriteString("\n\n")
	}

	b.WriteString(e.input.View())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("enter: answer • ctrl+r: hear again • esc: back"))
	return b.String()
}

func (e *examModel) resultsView(width int) string {
	correct, total := e.exam.Score()

	var b strings.Builder
	b.WriteString(titleStyle.Render("Results"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("%s out of %d\n\n",
		correctStyle.Render(fmt.Sprint(correct)), total))

	for _, r := range e.exam.Results() {
		if r.Correct {
			b.WriteString(correctStyle.Render("✓ ") + r.Word.Term)
		} else {
			b.WriteString(wrongStyle.Render("✗ ") + fmt.Sprintf("%s (you typed %q)", r.Word.Term, r.Answer))
		}
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("x: try again • q: back to review"))
	return b.String()
}
