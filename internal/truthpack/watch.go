package truthpack

import (
	"context"
	"fmt"

	"github.com/fsnotify/fsnotify"
)

// Watch invalidates the snapshot whenever a file inside the truthpack
// directory changes, complementing the staleness window for sessions
// where the pack is regenerated mid-run. It blocks until ctx is done
// and only works against the real OS file system.
func (s *Store) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(s.dir); err != nil {
		return fmt.Errorf("watch %s: %w", s.dir, err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				s.logger.Debug("truthpack changed, invalidating snapshot", "file", event.Name)
				s.Invalidate()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Debug("truthpack watcher error", "error", err)
		}
	}
}
