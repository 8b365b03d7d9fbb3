package pagecache

import (
	"log/slog"

	"github.com/mesh-intelligence/tradestate/internal/badger"
	"github.com/mesh-intelligence/tradestate/internal/filestore"
	"github.com/mesh-intelligence/tradestate/internal/memstore"
	"github.com/mesh-intelligence/tradestate/internal/sqlite"
	"github.com/mesh-intelligence/tradestate/pkg/types"
)

// NewMedium returns a detached medium for cfg.Backend.
func NewMedium(cfg types.Config, logger *slog.Logger) (types.Medium, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Backend {
	case types.BackendBadger:
		return badger.NewMedium(badger.WithLogger(logger)), nil
	case types.BackendFile:
		return filestore.New(), nil
	case types.BackendMemory:
		return memstore.New(), nil
	default:
		return sqlite.NewMedium(), nil
	}
}
