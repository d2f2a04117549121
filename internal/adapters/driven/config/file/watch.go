package file

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/forgedash/internal/core/domain"
	"github.com/custodia-labs/forgedash/internal/logger"
)

// debounceDelay coalesces the burst of events editors produce when
// saving a file.
const debounceDelay = 200 * time.Millisecond

// Watch reloads the config whenever the file changes and sends each
// successful reload on the returned channel. Parse failures keep the
// previous config and are only logged. The watcher stops when ctx is
// cancelled.
//
// The watch is on the directory, not the file: most editors save by
// writing a temp file and renaming it over the original, which drops a
// file-level watch.
func (s *ConfigStore) Watch(ctx context.Context) (<-chan domain.DashboardConfig, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(filepath.Dir(s.filePath)); err != nil {
		watcher.Close()
		return nil, err
	}

	updates := make(chan domain.DashboardConfig, 1)

	go func() {
		defer watcher.Close()
		defer close(updates)

		var timer *time.Timer
		var timerC <-chan time.Time

		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != s.filePath {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
					continue
				}
				if timer == nil {
					timer = time.NewTimer(debounceDelay)
					timerC = timer.C
				} else {
					timer.Reset(debounceDelay)
				}

			case <-timerC:
				timer = nil
				timerC = nil
				cfg, err := s.Load()
				if err != nil {
					logger.Warn("config reload failed: %v", err)
					continue
				}
				logger.Info("config reloaded from %s", s.filePath)
				select {
				case updates <- cfg:
				default:
					// Receiver is behind; drop the older pending
					// update in favour of this one.
					select {
					case <-updates:
					default:
					}
					updates <- cfg
				}

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("config watcher: %v", err)
			}
		}
	}()

	return updates, nil
}
