package predictor

import (
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher reloads the service's model whenever the artifact file changes on
// disk. Watching the parent directory covers the common atomic-rename
// deployment of a new artifact.
type Watcher struct {
	service *Service
	fsw     *fsnotify.Watcher
	path    string
	log     *zap.Logger
	done    chan struct{}
}

// NewWatcher starts watching the artifact behind s.
func NewWatcher(s *Service, log *zap.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(s.artifactPath)); err != nil {
		fsw.Close()
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}

	w := &Watcher{
		service: s,
		fsw:     fsw,
		path:    s.artifactPath,
		log:     log,
		done:    make(chan struct{}),
	}
	go w.run()
	return w, nil
}

func (w *Watcher) run() {
	// Editors and deploy scripts fire several events per write; coalesce
	// them before reloading.
	var pending <-chan time.Time

	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			pending = time.After(200 * time.Millisecond)

		case <-pending:
			pending = nil
			if err := w.service.Reload(); err != nil {
				w.log.Warn("model reload failed, keeping previous model", zap.Error(err))
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn("artifact watcher error", zap.Error(err))

		case <-w.done:
			return
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fsw.Close()
}
