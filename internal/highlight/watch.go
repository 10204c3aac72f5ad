package highlight

import (
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// Watcher reloads the highlight rule file when it changes on disk. The
// onReload callback runs on the watcher goroutine with the freshly parsed
// rules; callers hand the resulting Set to the pipeline between lines (in
// practice: as a message into the consumer loop).
type Watcher struct {
	fw   *fsnotify.Watcher
	done chan struct{}
}

// Watch starts watching path. Editors replace files rather than write in
// place, so the parent directory is watched and events filtered by name.
func Watch(path string, logger *log.Logger, onReload func([]Rule)) (*Watcher, error) {
	if logger == nil {
		logger = log.Default()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve highlights path: %w", err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	w := &Watcher{fw: fw, done: make(chan struct{})}
	go func() {
		defer close(w.done)
		for {
			select {
			case ev, ok := <-fw.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != abs {
					continue
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
					continue
				}
				rules, err := LoadRules(abs)
				if err != nil {
					logger.Warn("highlight reload failed, keeping previous rules", "err", err)
					continue
				}
				logger.Info("highlights reloaded", "rules", len(rules))
				onReload(rules)
			case err, ok := <-fw.Errors:
				if !ok {
					return
				}
				logger.Warn("highlight watcher error", "err", err)
			}
		}
	}()
	return w, nil
}

// Close stops the watcher and waits for its goroutine to exit.
func (w *Watcher) Close() error {
	err := w.fw.Close()
	<-w.done
	return err
}
