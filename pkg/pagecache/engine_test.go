package pagecache

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/tradestate/internal/memstore"
	"github.com/mesh-intelligence/tradestate/internal/metrics"
	"github.com/mesh-intelligence/tradestate/pkg/hierarchy"
	"github.com/mesh-intelligence/tradestate/pkg/types"
)

// countingMedium counts slot writes and can be told to fail them.
type countingMedium struct {
	*memstore.Medium
	writes map[string]int
	fail   bool
}

var errWriteFailed = errors.New("write failed")

func newCountingMedium(t *testing.T) *countingMedium {
	t.Helper()
	m := &countingMedium{Medium: memstore.New(), writes: make(map[string]int)}
	require.NoError(t, m.Attach(types.Config{Backend: types.BackendMemory}))
	return m
}

func (m *countingMedium) WriteSlot(slot string, data []byte) error {
	m.writes[slot]++
	if m.fail {
		return errWriteFailed
	}
	return m.Medium.WriteSlot(slot, data)
}

// drilledIn builds an engine at purchaseContracts > contractDetail(c1) with
// state on every level.
func drilledIn(t *testing.T, m types.Medium) *Engine {
	t.Helper()
	e := New(m)
	e.Navigate(types.PagePurchaseContracts, "")
	e.UpdateListState(types.PagePurchaseContracts, types.ListPatch{}.WithSearchTerm("corn").WithPage(3))
	e.Navigate(types.PageContractDetail, "c1")
	e.UpdateDetailState(types.PageContractDetail, "c1", types.DetailPatch{}.WithActiveTab("remarks"))
	return e
}

func TestEngine_PathDepthInvariant(t *testing.T) {
	e := New(newCountingMedium(t))
	h := hierarchy.Default()

	for _, step := range []struct {
		page types.PageKey
		id   types.EntityID
	}{
		{types.PageDashboard, ""},
		{types.PagePurchaseContracts, ""},
		{types.PageContractDetail, "c1"},
		{types.PageEditSubContract, "c1"},
		{types.PageContractDetail, "c1"},
		{types.PageSellerDetail, "s9"},
		{"reports", ""},
	} {
		e.Navigate(step.page, step.id)
		path := e.Path()
		assert.Len(t, path, h.Level(step.page)+1, step.page)
		assert.Equal(t, h.Path(step.page), path, step.page)
	}
}

func TestEngine_DrillInPreservation(t *testing.T) {
	e := drilledIn(t, newCountingMedium(t))

	e.Navigate(types.PageCreateSubContract, "c1")

	assert.Equal(t, "remarks", e.DetailState(types.PageContractDetail, "c1").ActiveTab)
	assert.Equal(t, "corn", e.ListState(types.PagePurchaseContracts).SearchTerm)
}

func TestEngine_SiblingEviction(t *testing.T) {
	e := drilledIn(t, newCountingMedium(t))
	e.Navigate(types.PageCreateSubContract, "c1")
	e.UpdateFormState(types.PageCreateSubContract, "c1", types.SubResourcePatch{}.WithFormField("quantity", 40.0))

	before := testutil.ToFloat64(metrics.Navigations.WithLabelValues(metrics.TransitionSibling))
	tr := e.Navigate(types.PageBuyers, "")

	require.NotNil(t, tr.SiblingSwitch)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.Navigations.WithLabelValues(metrics.TransitionSibling)))
	assert.Equal(t, types.DefaultListPageState(), e.ListState(types.PagePurchaseContracts))
	assert.Equal(t, types.DefaultDetailPageState(), e.DetailState(types.PageContractDetail, "c1"))
	assert.Equal(t, types.DefaultSubResourceFormState(), e.FormState(types.PageCreateSubContract, "c1"))
}

func TestEngine_RescopeBeforeDrillOut(t *testing.T) {
	e := drilledIn(t, newCountingMedium(t))

	e.Navigate(types.PageContractDetail, "c2")
	assert.Equal(t, types.DefaultDetailPageState(), e.DetailState(types.PageContractDetail, "c1"), "the previous contract is off the path")
	e.UpdateDetailState(types.PageContractDetail, "c2", types.DetailPatch{}.WithActiveTab("pricing"))

	e.Navigate(types.PagePurchaseContracts, "")

	assert.Equal(t, types.DefaultDetailPageState(), e.DetailState(types.PageContractDetail, "c2"))
	assert.Equal(t, "corn", e.ListState(types.PagePurchaseContracts).SearchTerm)
	_, keyed := e.store.Size()
	assert.Zero(t, keyed)
}

func TestEngine_MixedEntitiesDrillOut(t *testing.T) {
	e := drilledIn(t, newCountingMedium(t))

	e.Navigate(types.PageCreateSubContract, "c2")
	e.UpdateFormState(types.PageCreateSubContract, "c2", types.SubResourcePatch{}.WithFormField("folio", "S-2"))
	assert.Equal(t, "remarks", e.DetailState(types.PageContractDetail, "c1").ActiveTab, "drilling in keeps the parent entity")

	e.Navigate(types.PagePurchaseContracts, "")

	assert.Equal(t, types.DefaultDetailPageState(), e.DetailState(types.PageContractDetail, "c1"))
	assert.Equal(t, types.DefaultSubResourceFormState(), e.FormState(types.PageCreateSubContract, "c2"))
	_, keyed := e.store.Size()
	assert.Zero(t, keyed)
}

func TestEngine_RescopeKeepsEvictionPersisted(t *testing.T) {
	m := newCountingMedium(t)
	e := drilledIn(t, m)
	e.Navigate(types.PageContractDetail, "c2")
	e.Navigate(types.PagePurchaseContracts, "")

	restarted := New(m)
	assert.Equal(t, types.DefaultDetailPageState(), restarted.DetailState(types.PageContractDetail, "c1"))
	_, keyed := restarted.store.Size()
	assert.Zero(t, keyed)
}

func TestEngine_IdempotentNoOp(t *testing.T) {
	m := newCountingMedium(t)
	e := drilledIn(t, m)
	writes := m.writes[types.SlotPageState]

	before := testutil.ToFloat64(metrics.Navigations.WithLabelValues(metrics.TransitionNoOp))
	tr := e.Navigate(types.PageContractDetail, "c1")

	assert.True(t, tr.NoOp)
	assert.Equal(t, []types.PageKey{types.PagePurchaseContracts, types.PageContractDetail}, e.Path())
	assert.Equal(t, "remarks", e.DetailState(types.PageContractDetail, "c1").ActiveTab)
	assert.Equal(t, writes, m.writes[types.SlotPageState], "a no-op navigation does not persist")
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.Navigations.WithLabelValues(metrics.TransitionNoOp)))
}

func TestEngine_WritesOnlyWhatChanged(t *testing.T) {
	m := newCountingMedium(t)
	e := New(m)

	e.Navigate(types.PagePurchaseContracts, "")
	e.Navigate(types.PageContractDetail, "c1")
	assert.Zero(t, m.writes[types.SlotPageState], "drill-in over empty state evicts nothing")

	e.ListState(types.PagePurchaseContracts)
	e.DetailState(types.PageContractDetail, "c1")
	e.Draft(types.FormPurchase)
	assert.Zero(t, m.writes[types.SlotPageState]+m.writes[types.SlotContractDrafts], "reads never write")

	e.UpdateListState(types.PagePurchaseContracts, types.ListPatch{})
	assert.Zero(t, m.writes[types.SlotPageState], "an empty patch changes nothing")

	e.UpdateListState(types.PagePurchaseContracts, types.ListPatch{}.WithSortOrder("folio"))
	assert.Equal(t, 1, m.writes[types.SlotPageState])
	assert.Zero(t, m.writes[types.SlotContractDrafts])

	e.UpdateDraft(types.FormSale, types.Record{"folio": "S-1"})
	assert.Equal(t, 1, m.writes[types.SlotPageState])
	assert.Equal(t, 1, m.writes[types.SlotContractDrafts])
}

func TestEngine_DraftIndependence(t *testing.T) {
	e := New(newCountingMedium(t))
	e.Navigate(types.PagePurchaseContracts, "")
	e.UpdateDraft(types.FormPurchase, types.Record{"folio": "X"})

	e.Navigate(types.PageBuyers, "")
	e.Navigate(types.PagePurchaseContracts, "")

	assert.Equal(t, types.Record{"folio": "X"}, e.Draft(types.FormPurchase))

	e.ClearDraft(types.FormPurchase)
	assert.Nil(t, e.Draft(types.FormPurchase))
}

func TestEngine_UpdateDraftReplaces(t *testing.T) {
	e := New(newCountingMedium(t))
	e.UpdateDraft(types.FormBuyer, types.Record{"name": "Ana", "rfc": "XAXX"})
	e.UpdateDraft(types.FormBuyer, types.Record{"name": "Ana María"})

	assert.Equal(t, types.Record{"name": "Ana María"}, e.Draft(types.FormBuyer))
}

func TestEngine_RestartRoundTrip(t *testing.T) {
	m := newCountingMedium(t)
	e := drilledIn(t, m)
	e.UpdateDraft(types.FormPurchase, types.Record{"folio": "X", "lines": []any{"a"}})

	restarted := New(m)

	assert.Empty(t, restarted.Path(), "the path is not persisted")
	assert.Equal(t, e.ListState(types.PagePurchaseContracts), restarted.ListState(types.PagePurchaseContracts))
	assert.Equal(t, e.DetailState(types.PageContractDetail, "c1"), restarted.DetailState(types.PageContractDetail, "c1"))
	assert.Equal(t, e.Draft(types.FormPurchase), restarted.Draft(types.FormPurchase))
}

func TestEngine_RestartKeepsValueShapes(t *testing.T) {
	m := newCountingMedium(t)
	e := drilledIn(t, m)
	e.UpdateDetailState(types.PageContractDetail, "c1", types.DetailPatch{}.
		WithRecord(types.Record{"qty": 40, "price": types.Record{"amount": 3}}, time.Now()))
	e.UpdateDraft(types.FormPurchase, types.Record{"bags": 12, "grade": types.Record{"moisture": 14}})

	live := e.DetailState(types.PageContractDetail, "c1")
	assert.Equal(t, 40.0, live.CachedRecord["qty"])
	assert.Equal(t, map[string]any{"amount": 3.0}, live.CachedRecord["price"])
	assert.Equal(t, time.UTC, live.LastRefreshedAt.Location())

	restarted := New(m)
	assert.Equal(t, live, restarted.DetailState(types.PageContractDetail, "c1"))
	assert.Equal(t, e.Draft(types.FormPurchase), restarted.Draft(types.FormPurchase))
	assert.Equal(t, types.Record{"bags": 12.0, "grade": map[string]any{"moisture": 14.0}}, restarted.Draft(types.FormPurchase))
}

func TestEngine_CorruptDraftSlotIsolation(t *testing.T) {
	m := newCountingMedium(t)
	drilledIn(t, m)
	m.Put(types.SlotContractDrafts, []byte("{not json"))

	e := New(m)

	assert.Equal(t, "corn", e.ListState(types.PagePurchaseContracts).SearchTerm)
	assert.Nil(t, e.Draft(types.FormPurchase))
}

func TestEngine_DegradesToMemory(t *testing.T) {
	m := newCountingMedium(t)
	m.fail = true
	e := New(m)

	e.UpdateListState(types.PageBuyers, types.ListPatch{}.WithSearchTerm("a"))
	e.UpdateListState(types.PageBuyers, types.ListPatch{}.WithSearchTerm("ab"))

	assert.True(t, e.Degraded())
	assert.Equal(t, 1, m.writes[types.SlotPageState], "writes stop after the first failure")
	assert.Equal(t, "ab", e.ListState(types.PageBuyers).SearchTerm)
}

func TestEngine_KeyedState(t *testing.T) {
	e := New(newCountingMedium(t))
	e.UpdateFormState(types.PageEditSubContract, "c1", types.SubResourcePatch{}.WithSelections(map[string]any{"lot": "L1"}))

	assert.IsType(t, types.DetailPageState{}, e.KeyedState(types.PageBuyerDetail, "b1"))
	assert.IsType(t, types.ListPageState{}, e.KeyedState(types.PageBuyers, ""))

	form, ok := e.KeyedState(types.PageEditSubContract, "c1").(types.SubResourceFormState)
	require.True(t, ok)
	assert.Equal(t, "L1", form.Selections["lot"])
}

func TestEngine_UnknownPage(t *testing.T) {
	e := New(newCountingMedium(t))
	e.Navigate("reports", "")

	assert.Equal(t, []types.PageKey{"reports"}, e.Path())
	assert.Equal(t, types.DefaultListPageState(), e.ListState("reports"))
}

func TestEngine_CustomHierarchy(t *testing.T) {
	h, err := hierarchy.New(
		hierarchy.Page{Key: "a", Independent: true},
		hierarchy.Page{Key: "b", Independent: true},
		hierarchy.Page{Key: "c"},
	)
	require.NoError(t, err)
	e := New(newCountingMedium(t), WithHierarchy(h), WithLogger(nil))

	e.Navigate("a", "")
	e.UpdateListState("a", types.ListPatch{}.WithSearchTerm("kept?"))
	e.Navigate("c", "")
	assert.Equal(t, "kept?", e.ListState("a").SearchTerm, "c is not in the independent set")

	e.Navigate("a", "")
	e.Navigate("b", "")
	assert.Empty(t, e.ListState("a").SearchTerm)
}

func TestOpen(t *testing.T) {
	for _, backend := range []string{types.BackendSQLite, types.BackendBadger, types.BackendFile} {
		t.Run(backend, func(t *testing.T) {
			cfg := types.Config{Backend: backend, DataDir: t.TempDir(), SyncWrites: true}

			e, err := Open(cfg)
			require.NoError(t, err)
			e.UpdateDraft(types.FormSeller, types.Record{"name": "Granos SA"})
			require.NoError(t, e.Close())

			reopened, err := Open(cfg)
			require.NoError(t, err)
			defer reopened.Close()
			assert.Equal(t, types.Record{"name": "Granos SA"}, reopened.Draft(types.FormSeller))
			assert.False(t, reopened.Degraded())
		})
	}
}

func TestOpen_UnknownBackend(t *testing.T) {
	_, err := Open(types.Config{Backend: "etcd"})
	assert.ErrorIs(t, err, types.ErrBackendUnknown)
}
