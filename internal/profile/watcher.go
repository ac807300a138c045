package profile

import (
	"context"
	"log"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the repository whenever a profile file changes, so edits
// take effect without restarting long-running processes. It blocks until
// the context is cancelled.
func (r *Repository) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(r.dir); err != nil {
		return err
	}
	log.Printf("[profile] watching %s for profile changes", r.dir)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !strings.HasSuffix(event.Name, ".yaml") {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			r.debugLog("[profile] change detected: %s %s", event.Op, event.Name)
			if err := r.Load(); err != nil {
				// Keep the last good set; a broken edit should not
				// wipe running dispatch.
				log.Printf("[profile] reload failed, keeping previous profiles: %v", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("[profile] watcher error: %v", err)
		}
	}
}
