// Package badger implements the BadgerDB durable medium for the page-state
// cache. Each slot is stored under slot/<name> with its revision under
// rev/<name>, written together in one transaction.
package badger

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"github.com/mesh-intelligence/tradestate/pkg/types"
)

// DirName is the database directory created in the data directory.
const DirName = "tradestate-badger"

// gcDiscardRatio is the minimum garbage ratio for value log GC on Detach.
const gcDiscardRatio = 0.5

const (
	slotPrefix = "slot/"
	revPrefix  = "rev/"
)

// Medium implements types.Medium on BadgerDB.
type Medium struct {
	mu       sync.RWMutex
	db       *badger.DB
	logger   *slog.Logger
	inMemory bool
}

// Option configures a Medium.
type Option func(*Medium)

// WithLogger routes BadgerDB's internal logging to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Medium) { m.logger = logger }
}

// WithInMemory keeps the database in memory; DataDir is ignored.
func WithInMemory() Option {
	return func(m *Medium) { m.inMemory = true }
}

// NewMedium creates a detached BadgerDB medium.
func NewMedium(opts ...Option) *Medium {
	m := &Medium{}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// badgerLogger adapts slog.Logger to BadgerDB's Logger interface.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

// Attach opens the database at DataDir/tradestate-badger.
func (m *Medium) Attach(config types.Config) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.db != nil {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}

	var opts badger.Options
	if m.inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		dataDir := config.DataDir
		if dataDir == "" {
			dataDir = "."
		}
		path := filepath.Join(dataDir, DirName)
		if err := os.MkdirAll(path, 0o750); err != nil {
			return fmt.Errorf("create database directory %s: %w", path, err)
		}
		opts = badger.DefaultOptions(path)
	}
	opts = opts.WithSyncWrites(config.SyncWrites).WithNumVersionsToKeep(1)
	if m.logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: m.logger})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return fmt.Errorf("open badger database: %w", err)
	}
	m.db = db
	return nil
}

// Detach runs one value log GC pass and closes the database. Idempotent.
func (m *Medium) Detach() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.db == nil {
		return nil
	}
	if !m.inMemory {
		if err := m.db.RunValueLogGC(gcDiscardRatio); err != nil && !errors.Is(err, badger.ErrNoRewrite) && m.logger != nil {
			m.logger.Warn("badger value log GC error", "error", err)
		}
	}
	err := m.db.Close()
	m.db = nil
	return err
}

// ReadSlot returns the payload of slot.
func (m *Medium) ReadSlot(slot string) ([]byte, error) {
	return m.get(slotPrefix, slot)
}

// Revision returns the revision stamped on the last write of slot.
func (m *Medium) Revision(slot string) (string, error) {
	rev, err := m.get(revPrefix, slot)
	if err != nil {
		return "", err
	}
	return string(rev), nil
}

func (m *Medium) get(prefix, slot string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.db == nil {
		return nil, types.ErrMediumDetached
	}
	if slot == "" {
		return nil, types.ErrInvalidSlot
	}

	var out []byte
	err := m.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(prefix + slot))
		if err != nil {
			return err
		}
		out, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, types.ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read %s%s: %w", prefix, slot, err)
	}
	return out, nil
}

// WriteSlot stores data and a fresh UUID v7 revision for slot.
func (m *Medium) WriteSlot(slot string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.db == nil {
		return types.ErrMediumDetached
	}
	if slot == "" {
		return types.ErrInvalidSlot
	}

	rev, err := uuid.NewV7()
	if err != nil {
		rev = uuid.New()
	}
	payload := append([]byte{}, data...)
	err = m.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(slotPrefix+slot), payload); err != nil {
			return err
		}
		return txn.Set([]byte(revPrefix+slot), []byte(rev.String()))
	})
	if err != nil {
		return fmt.Errorf("write slot %s: %w", slot, err)
	}
	return nil
}
