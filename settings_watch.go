package lumen

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// WatchSettings reloads filename into c whenever it is written, until ctx is
// cancelled. The parent directory is watched because editors often replace
// files by rename. A file that fails to parse leaves the settings untouched.
func WatchSettings(ctx context.Context, filename string, c *Controls, log Logger) error {
	log = OrNop(log)
	target, err := filepath.Abs(filename)
	if err != nil {
		return fmt.Errorf("watch settings: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch settings: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watch settings: %w", err)
	}
	log.Debugf("watching %s", target)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			s, err := LoadSettings(target)
			if err != nil {
				log.Warnf("settings reload failed: %v", err)
				continue
			}
			c.Replace(s)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warnf("settings watcher: %v", err)
		}
	}
}
