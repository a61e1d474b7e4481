package config

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch monitors the config file at path and calls onChange with the newly
// loaded Config each time it is written. It runs until ctx is cancelled.
//
// If a reload fails (e.g., invalid YAML), the error is logged and onChange
// is not called.
func Watch(ctx context.Context, path string, onChange func(*Config)) error {
	return watchFile(ctx, path, func() {
		cfg, err := Load(path)
		if err != nil {
			slog.Error("config: reload failed, keeping previous config",
				"path", path, "err", err)
			return
		}
		slog.Info("config: reloaded", "path", path)
		onChange(cfg)
	})
}

// WatchDataset logs a warning whenever the dataset file at path changes.
// The loaded dataset is immutable for the life of the process, so the
// warning only tells the operator a restart is needed.
func WatchDataset(ctx context.Context, path string) error {
	return watchFile(ctx, path, func() {
		slog.Warn("config: dataset changed on disk, restart to reload", "path", path)
	})
}

// watchFile calls fn on every write or create event for path until ctx is
// cancelled. The parent directory is watched rather than the file so the
// watch survives editors that save by writing a temp file and renaming it
// over path.
func watchFile(ctx context.Context, path string, fn func()) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}
	target := filepath.Clean(path)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return err
	}

	slog.Info("config: watching for changes", "path", path)

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
			// An atomic save arrives as Create rather than Write.
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			fn()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("config: watcher error", "err", err)
		}
	}
}
