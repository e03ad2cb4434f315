package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dmitrijs2005/gophdocs/internal/logging"
)

const watchDebounce = 100 * time.Millisecond

// fileWatcher reports changes of a single file. The parent directory is
// watched so editors that save by rename are noticed too. Bursts of events
// are coalesced into one callback.
type fileWatcher struct {
	path     string
	watcher  *fsnotify.Watcher
	onChange func(path string)
	log      logging.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu    sync.Mutex
	timer *time.Timer
}

func startFileWatcher(ctx context.Context, path string, log logging.Logger, onChange func(path string)) (*fileWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	w := &fileWatcher{
		path:     filepath.Clean(abs),
		watcher:  watcher,
		onChange: onChange,
		log:      log,
		cancel:   cancel,
	}

	w.wg.Add(1)
	go w.run(runCtx)
	return w, nil
}

func (w *fileWatcher) run(ctx context.Context) {
	defer w.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				w.schedule()
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Error(ctx, "fsnotify error", "path", w.path, "error", err)
		}
	}
}

func (w *fileWatcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(watchDebounce, func() { w.onChange(w.path) })
}

// stop ends the watch. A callback already running is not interrupted.
func (w *fileWatcher) stop() {
	w.cancel()
	_ = w.watcher.Close()
	w.wg.Wait()

	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
}
