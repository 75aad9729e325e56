// Package watch regenerates output whenever a watched schema file changes.
package watch

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// debounce coalesces the bursts of events editors emit on save.
const debounce = 250 * time.Millisecond

// Watch blocks, running regenerate after every change to one of the paths,
// until ctx is canceled. Events arriving within the debounce window trigger
// a single regeneration.
func Watch(ctx context.Context, paths []string, regenerate func() error, logger *log.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	for _, path := range paths {
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
	}
	logger.Info("watching schema files", "paths", paths)

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
				fire = timer.C
			} else {
				timer.Reset(debounce)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "err", err)

		case <-fire:
			timer = nil
			fire = nil
			logger.Info("schema changed, regenerating")
			if err := regenerate(); err != nil {
				logger.Error("regeneration failed", "err", err)
			}
		}
	}
}
