package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/editor"
	runewidth "github.com/mattn/go-runewidth"
	"github.com/sahilm/fuzzy"

	"github.com/vokabel/vokabel/vocab"
)

// pickerModel lists the discovered decks with fuzzy filtering.
type pickerModel struct {
	decks    []*vocab.Deck
	filtered []*vocab.Deck
	cursor   int

	filtering bool
	filter    string
}

type editorFinishedMsg struct{ err error }

func newPicker(decks []*vocab.Deck) *pickerModel {
	p := &pickerModel{decks: decks}
	p.applyFilter()
	return p
}

func (p *pickerModel) setDecks(decks []*vocab.Deck) {
	p.decks = decks
	p.applyFilter()
}

// applyFilter recomputes the visible list. Deck names are matched fuzzily.
func (p *pickerModel) applyFilter() {
	if p.filter == "" {
		p.filtered = p.decks
	} else {
		names := make([]string, len(p.decks))
		for i, d := range p.decks {
			names[i] = d.Name
		}
		matches := fuzzy.Find(p.filter, names)
		p.filtered = make([]*vocab.Deck, 0, len(matches))
		for _, m := range matches {
			p.filtered = append(p.filtered, p.decks[m.Index])
		}
	}
	if p.cursor >= len(p.filtered) {
		p.cursor = len(p.filtered) - 1
	}
	if p.cursor < 0 {
		p.cursor = 0
	}
}

func (p *pickerModel) selected() (*vocab.Deck, bool) {
	if p.cursor < 0 || p.cursor >= len(p.filtered) {
		return nil, false
	}
	return p.filtered[p.cursor], true
}

func (m *Model) updatePicker(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case editorFinishedMsg:
		if msg.err != nil {
			return m.setStatus("editor failed", true)
		}
		return m, m.reloadDecks()

	case tea.KeyMsg:
		p := m.picker

		if p.filtering {
			switch msg.String() {
			case "esc":
				p.filtering = false
				p.filter = ""
				p.applyFilter()
			case "enter":
				p.filtering = false
			case "backspace":
				if len(p.filter) > 0 {
					p.filter = p.filter[:len(p.filter)-1]
					p.applyFilter()
				}
			default:
				if msg.Type == tea.KeyRunes {
					p.filter += string(msg.Runes)
					p.applyFilter()
				}
			}
			return m, nil
		}

		switch msg.String() {
		case "q", "esc":
			return m, tea.Quit
		case "up", "k":
			if p.cursor > 0 {
				p.cursor--
			}
		case "down", "j":
			if p.cursor < len(p.filtered)-1 {
				p.cursor++
			}
		case "/":
			p.filtering = true
			p.filter = ""
			p.applyFilter()
		case "e":
			if deck, ok := p.selected(); ok {
				return m, openEditor(deck.Path)
			}
		case "enter":
			if deck, ok := p.selected(); ok {
				return m.openDeck(deck)
			}
		}
	}
	return m, nil
}

// openEditor opens the deck file in $EDITOR and reloads on exit.
func openEditor(path string) tea.Cmd {
	cmd, err := editor.Cmd("vokabel", path)
	if err != nil {
		return func() tea.Msg { return editorFinishedMsg{err: err} }
	}
	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return editorFinishedMsg{err: err}
	})
}

func (p *pickerModel) view(width, height int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Vokabel"))
	b.WriteString("\n\n")

	if p.filtering || p.filter != "" {
		b.WriteString(subtleStyle.Render("filter: ") + p.filter + "\n\n")
	}

	if len(p.filtered) == 0 {
		b.WriteString(subtleStyle.Render("No decks found. Create a *.deck.yaml file and press e to edit it."))
		b.WriteString("\n")
	}

	for i, d := range p.filtered {
		line := fmt.Sprintf("%s (%s, %d words)", d.Name, d.Language, len(d.Words))
		if width > 4 {
			line = runewidth.Truncate(line, width-4, "…")
		}
		if i == p.cursor {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("enter: open • /: filter • e: edit • q: quit"))
	return b.String()
}
