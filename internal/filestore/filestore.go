// Package filestore implements a durable medium that keeps each slot in its
// own <slot>.json file under the data directory. Writes use the temp-file,
// fsync, rename pattern so a crash never leaves a torn slot behind.
package filestore

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/mesh-intelligence/tradestate/pkg/types"
)

// Medium implements types.Medium on plain files.
type Medium struct {
	mu         sync.RWMutex
	attached   bool
	dir        string
	syncWrites bool
}

// New creates a detached file medium.
func New() *Medium {
	return &Medium{}
}

// Attach creates the data directory if needed.
func (m *Medium) Attach(config types.Config) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}
	dir := config.DataDir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	m.dir = dir
	m.syncWrites = config.SyncWrites
	m.attached = true
	return nil
}

// Detach is idempotent; files stay on disk.
func (m *Medium) Detach() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attached = false
	return nil
}

// ReadSlot returns the contents of <slot>.json.
func (m *Medium) ReadSlot(slot string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	path, err := m.path(slot)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, types.ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}

// WriteSlot atomically replaces <slot>.json with data.
func (m *Medium) WriteSlot(slot string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	path, err := m.path(slot)
	if err != nil {
		return err
	}
	return writeAtomic(path, data, m.syncWrites)
}

func (m *Medium) path(slot string) (string, error) {
	if !m.attached {
		return "", types.ErrMediumDetached
	}
	if slot == "" || strings.ContainsAny(slot, `/\`) || strings.HasPrefix(slot, ".") {
		return "", types.ErrInvalidSlot
	}
	return filepath.Join(m.dir, slot+".json"), nil
}

// writeAtomic writes data to a temp file in the target directory, optionally
// fsyncs it, and renames it over path.
func writeAtomic(path string, data []byte, fsync bool) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".slot-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if fsync {
		if err := tmp.Sync(); err != nil {
			tmp.Close()
			os.Remove(tmpName)
			return fmt.Errorf("syncing temp file: %w", err)
		}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
