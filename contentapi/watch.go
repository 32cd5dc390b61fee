package contentapi

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch re-imports markdown files in dir as they change until ctx is done.
// Bursts of events are coalesced for the importer's debounce interval.
// Removing a file deletes its document.
func (im *Importer) Watch(ctx context.Context, dir string) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()
	if err := w.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	im.logger.Infof("watching %s for changes", dir)

	pending := make(map[string]struct{})
	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !isMarkdown(ev.Name) || ev.Op == fsnotify.Chmod {
				continue
			}
			pending[ev.Name] = struct{}{}
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(im.debounce)
			fire = timer.C
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			im.logger.Warnf("watch error: %v", err)
		case <-fire:
			fire = nil
			for path := range pending {
				im.sync(ctx, path)
			}
			pending = make(map[string]struct{})
		}
	}
}

// sync brings the store in line with the file at path.
func (im *Importer) sync(ctx context.Context, path string) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		im.mu.Lock()
		uid, ok := im.paths[path]
		delete(im.paths, path)
		im.mu.Unlock()
		if !ok {
			return
		}
		if err := im.store.DeleteDocument(ctx, im.docType, uid); err != nil {
			im.logger.Errorf("delete %s: %v", uid, err)
			return
		}
		im.logger.Infof("removed %s", uid)
		return
	}
	if _, err := im.ImportFile(ctx, path); err != nil {
		im.logger.Errorf("import %s: %v", path, err)
	}
}
