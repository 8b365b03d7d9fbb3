package badger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/tradestate/pkg/types"
)

var testConfig = types.Config{Backend: types.BackendBadger}

func TestMedium_Lifecycle(t *testing.T) {
	m := NewMedium(WithInMemory())

	_, err := m.ReadSlot(types.SlotPageState)
	assert.ErrorIs(t, err, types.ErrMediumDetached)

	require.NoError(t, m.Attach(testConfig))
	assert.ErrorIs(t, m.Attach(testConfig), types.ErrAlreadyAttached)

	require.NoError(t, m.Detach())
	require.NoError(t, m.Detach(), "detach is idempotent")
	assert.ErrorIs(t, m.WriteSlot(types.SlotPageState, nil), types.ErrMediumDetached)
}

func TestMedium_ReadWrite(t *testing.T) {
	m := NewMedium(WithInMemory())
	require.NoError(t, m.Attach(testConfig))
	defer m.Detach()

	_, err := m.ReadSlot(types.SlotContractDrafts)
	assert.ErrorIs(t, err, types.ErrSlotNotFound)
	_, err = m.Revision(types.SlotContractDrafts)
	assert.ErrorIs(t, err, types.ErrSlotNotFound)

	require.NoError(t, m.WriteSlot(types.SlotContractDrafts, []byte(`{"buyer":{"name":"Ana"}}`)))
	first, err := m.Revision(types.SlotContractDrafts)
	require.NoError(t, err)
	assert.NotEmpty(t, first)

	require.NoError(t, m.WriteSlot(types.SlotContractDrafts, []byte(`{}`)))
	got, err := m.ReadSlot(types.SlotContractDrafts)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(got))

	second, err := m.Revision(types.SlotContractDrafts)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	assert.ErrorIs(t, m.WriteSlot("", []byte("x")), types.ErrInvalidSlot)
}

func TestMedium_Persistent(t *testing.T) {
	dir := t.TempDir()
	cfg := types.Config{Backend: types.BackendBadger, DataDir: dir, SyncWrites: true}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	m := NewMedium(WithLogger(logger))
	require.NoError(t, m.Attach(cfg))
	require.NoError(t, m.WriteSlot(types.SlotPageState, []byte(`{"buyers":{}}`)))
	require.NoError(t, m.Detach())

	_, err := os.Stat(filepath.Join(dir, DirName))
	require.NoError(t, err)

	reopened := NewMedium(WithLogger(logger))
	require.NoError(t, reopened.Attach(cfg))
	defer reopened.Detach()

	got, err := reopened.ReadSlot(types.SlotPageState)
	require.NoError(t, err)
	assert.Equal(t, `{"buyers":{}}`, string(got))
}
