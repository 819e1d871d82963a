package config

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"raindrop-mcp/internal/domain"
	"raindrop-mcp/internal/infra/telemetry"
)

const defaultReloadDebounce = 200 * time.Millisecond

// Watch reloads the config file after it changes and hands each successfully
// loaded config to onChange. It watches the parent directory so that editors
// which replace the file by rename are still observed.
func (l *Loader) Watch(ctx context.Context, opts Options, onChange func(domain.Config)) error {
	if opts.ConfigFile == "" {
		return errors.New("config file is required to watch")
	}
	path, err := filepath.Abs(opts.ConfigFile)
	if err != nil {
		return fmt.Errorf("resolve config path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create config watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}

	go l.runWatcher(ctx, watcher, path, opts, onChange)
	return nil
}

func (l *Loader) runWatcher(ctx context.Context, watcher *fsnotify.Watcher, path string, opts Options, onChange func(domain.Config)) {
	defer watcher.Close()

	var timer *time.Timer
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			l.logger.Warn("config watcher error", zap.Error(err))
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != path || !event.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(defaultReloadDebounce)
				continue
			}
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(defaultReloadDebounce)
		case <-timerChan(timer):
			timer = nil
			cfg, err := l.Load(ctx, opts)
			if err != nil {
				l.logger.Warn("config reload failed", zap.String("path", path), zap.Error(err))
				continue
			}
			l.logger.Info("config reloaded", telemetry.EventField(telemetry.EventConfigReload), zap.String("path", path))
			if onChange != nil {
				onChange(cfg)
			}
		}
	}
}

func timerChan(timer *time.Timer) <-chan time.Time {
	if timer == nil {
		return nil
	}
	return timer.C
}
