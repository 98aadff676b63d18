package vocab

import (
	"time"

	"github.com/vokabel/vokabel/store"
)

// WordStats tracks one word's history across sessions.
type WordStats struct {
	Listens  int       `json:"listens"`
	Correct  int       `json:"correct"`
	Wrong    int       `json:"wrong"`
	LastSeen time.Time `json:"last_seen"`
}

// Progress is a deck's accumulated per-word statistics.
type Progress struct {
	deck  *Deck
	st    *store.Store
	key   string
	Words map[string]*WordStats `json:"words"`
}

// LoadProgress reads the progress record for deck, starting fresh when
// none exists.
func LoadProgress(st *store.Store, deck *Deck) (*Progress, error) {
	p := &Progress{
		deck:  deck,
		st:    st,
		key:   "progress-" + deck.Key(),
		Words: make(map[string]*WordStats),
	}
	if _, err := st.Get(p.key, p); err != nil {
		return nil, err
	}
	if p.Words == nil {
		p.Words = make(map[string]*WordStats)
	}
	return p, nil
}

// Stats returns the stats for term, never nil.
func (p *Progress) Stats(term string) *WordStats {
	s, ok := p.Words[term]
	if !ok {
		s = &WordStats{}
		p.Words[term] = s
	}
	return s
}

// RecordListen notes that term was pronounced for the student.
func (p *Progress) RecordListen(term string) {
	s := p.Stats(term)
	s.Listens++
	s.LastSeen = time.Now()
}

// RecordAnswer notes an exam answer for term.
func (p *Progress) RecordAnswer(term string, correct bool) {
	s := p.Stats(term)
	if correct {
		s.Correct++
	} else {
		s.Wrong++
	}
	s.LastSeen = time.Now()
}

// Save persists the record.
func (p *Progress) Save() error {
	return p.st.Put(p.key, p)
}
