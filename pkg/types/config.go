package types

import "errors"

// Config holds medium selection and parameters for Medium.Attach.
type Config struct {
	Backend string `json:"backend" yaml:"backend" mapstructure:"backend"`
	DataDir string `json:"data_dir" yaml:"data_dir" mapstructure:"data_dir"`

	// SyncWrites asks the medium to flush every slot write to stable storage
	// before WriteSlot returns.
	SyncWrites bool `json:"sync_writes" yaml:"sync_writes" mapstructure:"sync_writes"`
}

// Supported backend names.
const (
	BackendSQLite = "sqlite"
	BackendBadger = "badger"
	BackendFile   = "file"
	BackendMemory = "memory"
)

// Config validation errors.
var (
	ErrBackendEmpty   = errors.New("backend must not be empty")
	ErrBackendUnknown = errors.New("unknown backend")
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendSQLite: true,
	BackendBadger: true,
	BackendFile:   true,
	BackendMemory: true,
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	return nil
}
