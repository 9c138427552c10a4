package legacy

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watch notifies on the returned channel whenever the legacy file at path is
// written or replaced, so the host can reimport. Watching the parent
// directory survives editors that rename-and-recreate the file. The watcher
// shuts down when ctx is cancelled.
func Watch(ctx context.Context, path string, logger *zap.Logger) (<-chan struct{}, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		w.Close()
		return nil, err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, err
	}

	changes := make(chan struct{}, 1)
	go func() {
		defer w.Close()
		defer close(changes)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if ev.Name != abs {
					continue
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				logger.Debug("legacy file changed", zap.String("path", abs), zap.String("op", ev.Op.String()))
				select {
				case changes <- struct{}{}:
				default: // a reimport is already pending
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				logger.Warn("legacy watch error", zap.Error(err))
			}
		}
	}()
	return changes, nil
}
