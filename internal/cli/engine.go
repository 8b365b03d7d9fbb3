package cli

import (
	"errors"

	"github.com/mesh-intelligence/tradestate/pkg/pagecache"
	"github.com/mesh-intelligence/tradestate/pkg/types"
)

// openEngine resolves the configuration and opens the page cache on it.
func (a *app) openEngine() (*pagecache.Engine, error) {
	cfg, err := a.resolveConfig()
	if err != nil {
		return nil, sysError("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, userError("backend %q: %w", cfg.Backend, err)
	}
	a.logger.Debug("opening page cache", "backend", cfg.Backend, "data_dir", cfg.DataDir)

	engine, err := pagecache.Open(cfg, pagecache.WithLogger(a.logger))
	if err != nil {
		if errors.Is(err, types.ErrBackendUnknown) {
			return nil, userError("open: %w", err)
		}
		return nil, sysError("open: %w", err)
	}
	return engine, nil
}

// withEngine opens the engine, runs fn and closes the engine.
func (a *app) withEngine(fn func(*pagecache.Engine) error) error {
	engine, err := a.openEngine()
	if err != nil {
		return err
	}
	runErr := fn(engine)
	if err := engine.Close(); err != nil && runErr == nil {
		return sysError("close: %w", err)
	}
	return runErr
}
