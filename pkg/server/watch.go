package server

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reloadDelay lets an editor finish writing before the config is read.
const reloadDelay = 100 * time.Millisecond

// WatchConfig reloads the engine whenever the file at path changes, until
// ctx is done. The parent directory is watched so that editors which
// replace the file by renaming are noticed too.
func (s *Server) WatchConfig(ctx context.Context, path string) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating config watcher: %w", err)
	}
	path = filepath.Clean(path)
	if err := w.Add(filepath.Dir(path)); err != nil {
		w.Close()
		return fmt.Errorf("watching %s: %w", filepath.Dir(path), err)
	}
	s.log.Debugf("Watching %s for changes", path)
	go s.watchLoop(ctx, w, path)
	return nil
}

func (s *Server) watchLoop(ctx context.Context, w *fsnotify.Watcher, path string) {
	defer w.Close()

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				pending = time.After(reloadDelay)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			s.log.Warnf("Config watcher: %v", err)
		case <-pending:
			pending = nil
			// failures are logged and the previous engine is kept
			_ = s.Reload()
		}
	}
}
