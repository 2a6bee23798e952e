package app

import (
	"context"

	"github.com/dshills/narrowstack/internal/config"
)

// WatchConfig applies every configuration delivered by w until ctx is
// done or w is closed. A configuration that fails to apply, or fails to
// load, is logged and the running configuration is kept. onApply, if not
// nil, is called after each successful reload.
func (a *Application) WatchConfig(ctx context.Context, w *config.Watcher, onApply func(*config.Config)) {
	for {
		select {
		case <-ctx.Done():
			return

		case cfg, ok := <-w.Changes():
			if !ok {
				return
			}
			if err := a.Apply(cfg); err != nil {
				a.logger.Warn("keeping previous configuration: %v", err)
				continue
			}
			if onApply != nil {
				onApply(cfg)
			}

		case err, ok := <-w.Errors():
			if !ok {
				return
			}
			a.logger.Warn("config reload: %v", err)
		}
	}
}
