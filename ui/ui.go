// Package ui implements the terminal interface: a deck picker, a review
// screen that pronounces words, and a listen-and-type exam.
package ui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vokabel/vokabel/speech"
	"github.com/vokabel/vokabel/store"
	"github.com/vokabel/vokabel/vocab"
)

type sessionState int

const (
	statePicker sessionState = iota
	stateReview
	stateExam
	stateResults
)

type (
	deckChangedMsg   struct{ path string }
	decksReloadedMsg struct {
		decks []*vocab.Deck
		err   error
	}
)

// Model is the root Bubble Tea model.
type Model struct {
	cfg     Config
	speaker *speaker
	store   *store.Store
	watcher *vocab.Watcher
	deckDir string

	state  sessionState
	width  int
	height int

	speechState   speech.State
	voicesMissing bool
	status        string
	statusIsError bool

	picker *pickerModel
	review *reviewModel
	exam   *examModel
}

// NewProgram assembles the model and the program, and wires controller
// state changes back into the update loop.
func NewProgram(cfg Config, ctrl *speech.Controller, st *store.Store, decks []*vocab.Deck, deckDir string, watcher *vocab.Watcher) *tea.Program {
	if cfg.Logfile != "" {
		log.Info("starting vokabel", "decks", len(decks), "engine", cfg.Engine)
	}

	m := &Model{
		cfg:     cfg,
		speaker: newSpeaker(ctrl),
		store:   st,
		watcher: watcher,
		deckDir: deckDir,
		state:   statePicker,
		picker:  newPicker(decks),
	}

	var opts []tea.ProgramOption
	opts = append(opts, tea.WithAltScreen())
	if cfg.EnableMouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	p := tea.NewProgram(m, opts...)

	ctrl.OnStateChange(func(st speech.State) {
		p.Send(speechStateMsg(st))
	})
	return p
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.speaker.waitVoices(time.Second)}
	if m.watcher != nil {
		cmds = append(cmds, m.waitDeckChange())
	}
	return tea.Batch(cmds...)
}

// waitDeckChange blocks on the next filesystem notification for the deck
// directory.
func (m *Model) waitDeckChange() tea.Cmd {
	return func() tea.Msg {
		path, ok := <-m.watcher.Changes()
		if !ok {
			return nil
		}
		return deckChangedMsg{path: path}
	}
}

func (m *Model) reloadDecks() tea.Cmd {
	return func() tea.Msg {
		decks, err := vocab.Discover(m.deckDir)
		return decksReloadedMsg{decks: decks, err: err}
	}
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.speaker.stop()
			return m, tea.Quit
		}

	case speechStateMsg:
		m.speechState = speech.State(msg)
		return m, nil

	case voicesReadyMsg:
		if msg.err != nil {
			// Degraded but usable; the engine default voice still works.
			m.voicesMissing = true
			log.Warn("running without a voice list", "err", msg.err)
		}
		return m, nil

	case throttledMsg:
		return m.setStatus("one at a time!", false)

	case spokenMsg:
		if msg.err != nil {
			return m.setStatus(fmt.Sprintf("could not pronounce %q", msg.term), true)
		}
		return m, nil

	case clearStatusMsg:
		m.status = ""
		return m, nil

	case deckChangedMsg:
		log.Debug("deck change detected", "path", msg.path)
		return m, tea.Batch(m.reloadDecks(), m.waitDeckChange())

	case decksReloadedMsg:
		if msg.err != nil {
			return m.setStatus("deck reload failed", true)
		}
		m.picker.setDecks(msg.decks)
		if m.state == statePicker {
			return m, nil
		}
		return m.setStatus("decks updated on disk", false)
	}

	switch m.state {
	case statePicker:
		return m.updatePicker(msg)
	case stateReview:
		return m.updateReview(msg)
	case stateExam:
		return m.updateExam(msg)
	case stateResults:
		return m.updateResults(msg)
	}
	return m, nil
}

func (m *Model) setStatus(s string, isErr bool) (tea.Model, tea.Cmd) {
	m.status = s
	m.statusIsError = isErr
	return m, clearStatusAfter(2 * time.Second)
}

// openDeck moves from the picker into review mode.
func (m *Model) openDeck(deck *vocab.Deck) (tea.Model, tea.Cmd) {
	progress, err := vocab.LoadProgress(m.store, deck)
	if err != nil {
		log.Error("could not load progress", "deck", deck.Name, "err", err)
		return m.setStatus("could not load progress", true)
	}

	m.review = newReview(deck, progress, m.cfg.AutoSpeak)
	m.state = stateReview

	if m.cfg.AutoSpeak {
		if word, ok := m.review.current(); ok {
			return m, m.speaker.speak(word.Term)
		}
	}
	return m, nil
}

// startExam moves from review into the exam.
func (m *Model) startExam() (tea.Model, tea.Cmd) {
	exam, cmd := newExam(m.review.deck, m.review.progress, m.speaker)
	m.exam = exam
	m.state = stateExam
	return m, cmd
}

// closeDeck returns to the picker, stopping playback and saving progress.
func (m *Model) closeDeck() (tea.Model, tea.Cmd) {
	m.speaker.stop()
	if m.review != nil {
		if err := m.review.progress.Save(); err != nil {
			log.Error("could not save progress", "err", err)
		}
	}
	m.review = nil
	m.exam = nil
	m.state = statePicker
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	var body string
	switch m.state {
	case statePicker:
		body = m.picker.view(m.width, m.height)
	case stateReview:
		body = m.review.view(m.width)
	case stateExam:
		body = m.exam.view(m.width)
	case stateResults:
		body = m.exam.resultsView(m.width)
	}
	return lipgloss.JoinVertical(lipgloss.Left, body, m.statusLine())
}

// statusLine renders the bottom bar: transient status first, then the
// playback indicator.
func (m *Model) statusLine() string {
	if m.status != "" {
		if m.statusIsError {
			return errorStyle.Render(m.status)
		}
		return subtleStyle.Render(m.status)
	}

	switch m.speechState {
	case speech.StateSpeaking:
		return speakingStyle.Render("🔊 speaking")
	case speech.StatePaused:
		return pausedStyle.Render("⏸ paused")
	}
	if m.voicesMissing {
		return subtleStyle.Render("no voices found, using engine default")
	}
	return ""
}
