package vocab

import (
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// Watcher reports when deck files under a directory are written, created,
// or removed, so a teacher can edit a deck while students keep the trainer
// open.
type Watcher struct {
	fs      *fsnotify.Watcher
	changes chan string
	done    chan struct{}
}

// Watch starts watching dir for deck file changes.
func Watch(dir string) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fs.Add(dir); err != nil {
		fs.Close()
		return nil, err
	}

	w := &Watcher{
		fs:      fs,
		changes: make(chan string, 8),
		done:    make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// Changes delivers the paths of changed deck files. Closed on Close.
func (w *Watcher) Changes() <-chan string {
	return w.changes
}

func (w *Watcher) loop() {
	defer close(w.changes)
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !isDeckPath(event.Name) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) {
				continue
			}
			log.Debug("deck changed on disk", "file", event.Name, "op", event.Op)
			select {
			case w.changes <- event.Name:
			default:
				// A pending notification already covers the change.
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			log.Debug("deck watcher error", "err", err)
		}
	}
}

func isDeckPath(path string) bool {
	base := strings.ToLower(filepath.Base(path))
	return strings.HasSuffix(base, ".deck.yaml") || strings.HasSuffix(base, ".deck.yml")
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fs.Close()
}
