package watch

import (
	"context"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// IsWorkbook matches .xlsx files, skipping Excel lock files.
func IsWorkbook(name string) bool {
	base := filepath.Base(name)
	return strings.EqualFold(filepath.Ext(base), ".xlsx") && !strings.HasPrefix(base, "~$")
}

// Dir calls reload once changes to matching files in dir have been quiet for
// settle. It blocks until ctx is done or the watcher fails to start.
func Dir(ctx context.Context, dir string, match func(string) bool, settle time.Duration, reload func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	if err := watcher.Add(dir); err != nil {
		return err
	}

	timer := time.NewTimer(settle)
	if !timer.Stop() {
		<-timer.C
	}
	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !match(event.Name) {
				continue
			}
			if event.Op&fsnotify.Write == fsnotify.Write || event.Op&fsnotify.Create == fsnotify.Create || event.Op&fsnotify.Rename == fsnotify.Rename {
				log.Println("watch:", event)
				timer.Reset(settle)
			}
		case <-timer.C:
			reload()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Println("watch error:", err)
		}
	}
}
