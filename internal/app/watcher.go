package app

import (
	"os"
	"path/filepath"
	"time"

	"tabletop-guide/internal/config"

	"github.com/rs/zerolog"
)

// ConfigWatcher polls a config file and reloads it when its modification
// time changes. Files that fail to load are logged and skipped; the
// previous configuration stays in effect.
type ConfigWatcher struct {
	path          string
	lastMod       time.Time
	checkInterval time.Duration
	stopCh        chan struct{}
	onChange      func(*config.Config) // Called from the watcher goroutine
	log           zerolog.Logger
}

// NewConfigWatcher creates a watcher for path. The file's current contents
// are the baseline and do not trigger a callback.
func NewConfigWatcher(path string, checkInterval time.Duration, log zerolog.Logger) (*ConfigWatcher, error) {
	if realPath, err := filepath.EvalSymlinks(path); err == nil {
		path = realPath
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	return &ConfigWatcher{
		path:          path,
		lastMod:       info.ModTime(),
		checkInterval: checkInterval,
		stopCh:        make(chan struct{}),
		log:           log.With().Str("component", "config-watcher").Logger(),
	}, nil
}

// OnChange sets the callback to invoke with each successfully reloaded
// configuration.
func (w *ConfigWatcher) OnChange(callback func(*config.Config)) {
	w.onChange = callback
}

// Start begins watching in a background goroutine.
func (w *ConfigWatcher) Start() {
	// Create a fresh stop channel in case we're restarting
	w.stopCh = make(chan struct{})
	go w.watchLoop(w.stopCh)
}

// Stop stops the watcher goroutine.
func (w *ConfigWatcher) Stop() {
	close(w.stopCh)
}

func (w *ConfigWatcher) watchLoop(stopCh chan struct{}) {
	ticker := time.NewTicker(w.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			if cfg := w.Check(); cfg != nil && w.onChange != nil {
				w.onChange(cfg)
			}
		}
	}
}

// Check reloads the file if it changed since the last check. It returns
// nil when nothing changed or the new file is invalid.
func (w *ConfigWatcher) Check() *config.Config {
	info, err := os.Stat(w.path)
	if err != nil {
		w.log.Debug().Err(err).Msg("ConfigWatcher: stat failed")
		return nil
	}
	if info.ModTime().Equal(w.lastMod) {
		return nil
	}
	w.lastMod = info.ModTime()

	cfg, err := config.Load(w.path)
	if err != nil {
		w.log.Warn().Err(err).Str("path", w.path).Msg("ConfigWatcher: keeping previous config")
		return nil
	}
	w.log.Info().Str("path", w.path).Str("profiles", cfg.Profiles.Version).Msg("ConfigWatcher: reloaded")
	return cfg
}

// Path returns the watched file.
func (w *ConfigWatcher) Path() string {
	return w.path
}
