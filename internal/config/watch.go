package config

import (
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/warhelm/navcore/internal/logger"
)

// Watch reloads the config file whenever it changes on disk and invokes
// onChange with the freshly loaded config. Returns a stop function.
//
// Editors typically replace the file (rename + create) rather than write
// in place, so the parent directory is watched and events are filtered
// by file name.
func Watch(path string, onChange func(*Config)) (func(), error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, err
	}

	name := filepath.Base(path)
	done := make(chan struct{})

	go func() {
		var lastReload time.Time
		for {
			select {
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Base(ev.Name) != name {
					continue
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
					continue
				}
				// Editors fire bursts of events per save.
				if time.Since(lastReload) < 100*time.Millisecond {
					continue
				}
				lastReload = time.Now()

				cfg, err := LoadFrom(path)
				if err != nil {
					logger.Sugar.Warnf("config reload failed: %v", err)
					continue
				}
				logger.Sugar.Infof("config reloaded from %s", path)
				onChange(cfg)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Sugar.Warnf("config watcher: %v", err)
			case <-done:
				return
			}
		}
	}()

	stop := func() {
		close(done)
		watcher.Close()
	}
	return stop, nil
}
