package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/tradestate/pkg/types"
)

// DBFileName is the database file created in the data directory.
const DBFileName = "tradestate.db"

// Medium implements types.Medium on a single SQLite table with one row per
// slot. Every write stamps the row with a fresh UUID v7 revision.
type Medium struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	db       *sql.DB
}

// NewMedium creates a new SQLite medium. The medium is not attached; call
// Attach with a Config to open the database.
func NewMedium() *Medium {
	return &Medium{}
}

// Attach opens (creating if needed) DataDir/tradestate.db and applies the
// schema. Returns ErrAlreadyAttached if already attached.
func (m *Medium) Attach(config types.Config) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dataDir, DBFileName))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	// SQLite allows one writer; a single connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	synchronous := "PRAGMA synchronous = NORMAL"
	if config.SyncWrites {
		synchronous = "PRAGMA synchronous = FULL"
	}
	for _, stmt := range append(slices.Clone(pragmas), synchronous) {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return fmt.Errorf("execute %q: %w", stmt, err)
		}
	}
	if err := applySchema(db); err != nil {
		db.Close()
		return err
	}

	m.db = db
	m.config = config
	m.attached = true
	return nil
}

// Detach closes the database. Idempotent.
func (m *Medium) Detach() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.attached {
		return nil
	}
	m.attached = false
	if m.db != nil {
		err := m.db.Close()
		m.db = nil
		return err
	}
	return nil
}

// ReadSlot returns the payload of slot.
func (m *Medium) ReadSlot(slot string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.attached {
		return nil, types.ErrMediumDetached
	}
	if slot == "" {
		return nil, types.ErrInvalidSlot
	}

	var payload []byte
	err := m.db.QueryRow("SELECT payload FROM slots WHERE slot = ?", slot).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, types.ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read slot %s: %w", slot, err)
	}
	return payload, nil
}

// WriteSlot upserts the payload of slot.
func (m *Medium) WriteSlot(slot string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.attached {
		return types.ErrMediumDetached
	}
	if slot == "" {
		return types.ErrInvalidSlot
	}
	if data == nil {
		data = []byte{}
	}

	_, err := m.db.Exec(`INSERT INTO slots (slot, payload, revision, updated_at) VALUES (?, ?, ?, ?)
ON CONFLICT(slot) DO UPDATE SET payload = excluded.payload, revision = excluded.revision, updated_at = excluded.updated_at`,
		slot, data, newRevision(), time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("write slot %s: %w", slot, err)
	}
	return nil
}

// Revision returns the revision stamped on the last write of slot.
func (m *Medium) Revision(slot string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.attached {
		return "", types.ErrMediumDetached
	}
	var rev string
	err := m.db.QueryRow("SELECT revision FROM slots WHERE slot = ?", slot).Scan(&rev)
	if errors.Is(err, sql.ErrNoRows) {
		return "", types.ErrSlotNotFound
	}
	if err != nil {
		return "", fmt.Errorf("read revision %s: %w", slot, err)
	}
	return rev, nil
}

// newRevision generates a UUID v7 revision id.
func newRevision() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to UUID v4 if v7 generation fails
		return uuid.New().String()
	}
	return id.String()
}
