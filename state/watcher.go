package state

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// DefaultDebounce is how long the watcher waits for writes to settle.
const DefaultDebounce = 100 * time.Millisecond

// Watcher reports preset files changed on disk by other processes or editors.
type Watcher struct {
	watcher  *fsnotify.Watcher
	dir      string
	debounce time.Duration
	onChange func(path string)
	logger   *logrus.Entry

	mu      sync.Mutex
	pending map[string]*time.Timer
}

// NewWatcher watches dir, creating it when missing. onChange receives the path
// of each changed record file once its writes have settled.
func NewWatcher(dir string, debounce time.Duration, onChange func(path string), log *logrus.Entry) (*Watcher, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create preset directory: %w", err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Watcher{
		watcher:  fw,
		dir:      dir,
		debounce: debounce,
		onChange: onChange,
		logger:   log,
		pending:  make(map[string]*time.Timer),
	}, nil
}

// Start processes events until ctx is cancelled or the watcher is closed.
func (w *Watcher) Start(ctx context.Context) {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.logger.Debugf("fsnotify event: %s op=%v", event.Name, event.Op)
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 && isRecordFile(event.Name) {
				w.schedule(event.Name)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Errorf("Watcher error: %v", err)
		case <-ctx.Done():
			w.Close()
			return
		}
	}
}

func isRecordFile(name string) bool {
	base := filepath.Base(name)
	return strings.HasSuffix(base, FileExt) && !strings.HasPrefix(base, ".")
}

// schedule restarts the settle timer for file.
func (w *Watcher) schedule(file string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.pending[file]; ok {
		t.Stop()
	}
	w.pending[file] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.pending, file)
		w.mu.Unlock()

		w.logger.Infof("Preset file changed: %s", filepath.Base(file))
		if w.onChange != nil {
			w.onChange(file)
		}
	})
}

// Close stops the watcher and drops pending notifications.
func (w *Watcher) Close() error {
	w.mu.Lock()
	for file, t := range w.pending {
		t.Stop()
		delete(w.pending, file)
	}
	w.mu.Unlock()
	return w.watcher.Close()
}
