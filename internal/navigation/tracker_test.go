package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/tradestate/pkg/hierarchy"
	"github.com/mesh-intelligence/tradestate/pkg/types"
)

func TestTracker_PathDepthInvariant(t *testing.T) {
	h := hierarchy.Default()
	tr := NewTracker(h)

	steps := []struct {
		page types.PageKey
		id   types.EntityID
	}{
		{types.PagePurchaseContracts, ""},
		{types.PageContractDetail, "c1"},
		{types.PageCreateSubContract, "c1"},
		{types.PageBuyers, ""},
		{types.PageCreateSaleSubContract, "s7"},
		{types.PageSaleContractDetail, "s7"},
		{types.PageDashboard, ""},
		{types.PageKey("reports"), ""},
	}

	for _, step := range steps {
		tr.Navigate(step.page, step.id)
		path := tr.Path()
		assert.Len(t, path, h.Level(step.page)+1, "after %s", step.page)
		assert.Equal(t, h.Path(step.page), path, "after %s", step.page)
		cur, _ := tr.Current()
		assert.Equal(t, step.page, cur)
	}
}

func TestTracker_DrillInAbandonsNothing(t *testing.T) {
	tr := NewTracker(hierarchy.Default())
	tr.Navigate(types.PagePurchaseContracts, "")
	tr.Navigate(types.PageContractDetail, "c1")

	got := tr.ComputeTransition(types.PageCreateSubContract, "c1")
	assert.Empty(t, got.Abandoned)
	assert.Nil(t, got.SiblingSwitch)
	assert.False(t, got.NoOp)
}

func TestTracker_DeepLinkFromEmptyPath(t *testing.T) {
	tr := NewTracker(hierarchy.Default())
	got := tr.Navigate(types.PageCreateSubContract, "c1")

	assert.Empty(t, got.Abandoned)
	assert.Equal(t, []types.PageKey{
		types.PagePurchaseContracts,
		types.PageContractDetail,
		types.PageCreateSubContract,
	}, tr.Path())
}

func TestTracker_DrillOutAbandonsDeeperNodes(t *testing.T) {
	tr := NewTracker(hierarchy.Default())
	tr.Navigate(types.PagePurchaseContracts, "")
	tr.Navigate(types.PageContractDetail, "c1")
	tr.Navigate(types.PageCreateSubContract, "c1")

	got := tr.ComputeTransition(types.PagePurchaseContracts, "")
	assert.Equal(t, []types.PageKey{types.PageContractDetail, types.PageCreateSubContract}, got.Abandoned)
	assert.Equal(t, []types.EntityID{"c1", "c1"}, got.AbandonedEntities)
	assert.Nil(t, got.SiblingSwitch, "returning to the same top-level page is not a sibling switch")

	got = tr.ComputeTransition(types.PageContractDetail, "c1")
	assert.Equal(t, []types.PageKey{types.PageCreateSubContract}, got.Abandoned)
}

func TestTracker_SiblingSwitch(t *testing.T) {
	tr := NewTracker(hierarchy.Default())
	tr.Navigate(types.PagePurchaseContracts, "")
	tr.Navigate(types.PageContractDetail, "c1")

	got := tr.ComputeTransition(types.PageBuyers, "")
	require.NotNil(t, got.SiblingSwitch)
	assert.Equal(t, SiblingSwitch{From: types.PagePurchaseContracts, To: types.PageBuyers}, *got.SiblingSwitch)
	assert.Equal(t, []types.PageKey{types.PageContractDetail}, got.Abandoned)
}

func TestTracker_NoSiblingSwitchForUnknownTopPage(t *testing.T) {
	tr := NewTracker(hierarchy.Default())
	tr.Navigate(types.PagePurchaseContracts, "")

	got := tr.ComputeTransition(types.PageKey("reports"), "")
	assert.Nil(t, got.SiblingSwitch)
	assert.Empty(t, got.Abandoned)
}

func TestTracker_NoSiblingSwitchOnFirstNavigation(t *testing.T) {
	tr := NewTracker(hierarchy.Default())
	got := tr.ComputeTransition(types.PageBuyers, "")
	assert.Nil(t, got.SiblingSwitch)
}

func TestTracker_RepeatedNavigationIsNoOp(t *testing.T) {
	tr := NewTracker(hierarchy.Default())
	tr.Navigate(types.PagePurchaseContracts, "")
	tr.Navigate(types.PageContractDetail, "c1")
	before := tr.Path()

	got := tr.Navigate(types.PageContractDetail, "c1")
	assert.True(t, got.NoOp)
	assert.Empty(t, got.Abandoned)
	assert.Nil(t, got.SiblingSwitch)
	assert.Equal(t, before, tr.Path())
}

func TestTracker_SamePageOtherEntityIsNotNoOp(t *testing.T) {
	tr := NewTracker(hierarchy.Default())
	tr.Navigate(types.PagePurchaseContracts, "")
	tr.Navigate(types.PageContractDetail, "c1")

	got := tr.Navigate(types.PageContractDetail, "c2")
	assert.False(t, got.NoOp)
	assert.Equal(t, []types.PageKey{types.PageContractDetail}, got.Abandoned, "re-scoping abandons the old entity's node")
	assert.Equal(t, []types.EntityID{"c1"}, got.AbandonedEntities)
	_, id := tr.Current()
	assert.Equal(t, types.EntityID("c2"), id)
}

func TestTracker_RescopeAbandonsDeeperNodes(t *testing.T) {
	tr := NewTracker(hierarchy.Default())
	tr.Navigate(types.PagePurchaseContracts, "")
	tr.Navigate(types.PageContractDetail, "c1")
	tr.Navigate(types.PageCreateSubContract, "")

	got := tr.Navigate(types.PageContractDetail, "c2")
	assert.Equal(t, []types.PageKey{types.PageContractDetail, types.PageCreateSubContract}, got.Abandoned)
	assert.Equal(t, []types.EntityID{"c1", "c1"}, got.AbandonedEntities)
	assert.Equal(t, []types.EntityID{"", "c2"}, tr.Entities())
}

func TestTracker_EntityPerNode(t *testing.T) {
	tr := NewTracker(hierarchy.Default())
	tr.Navigate(types.PagePurchaseContracts, "")
	tr.Navigate(types.PageContractDetail, "c1")
	tr.Navigate(types.PageCreateSubContract, "c2")

	assert.Equal(t, []types.EntityID{"", "c1", "c2"}, tr.Entities())

	got := tr.ComputeTransition(types.PagePurchaseContracts, "")
	assert.Equal(t, []types.PageKey{types.PageContractDetail, types.PageCreateSubContract}, got.Abandoned)
	assert.Equal(t, []types.EntityID{"c1", "c2"}, got.AbandonedEntities)

	got = tr.ComputeTransition(types.PageContractDetail, "")
	assert.Equal(t, types.EntityID("c1"), got.Entity, "an unscoped move keeps the node's entity")
	assert.Equal(t, []types.PageKey{types.PageCreateSubContract}, got.Abandoned)
	assert.Equal(t, []types.EntityID{"c2"}, got.AbandonedEntities)
}

func TestTracker_DrillInInheritsEntity(t *testing.T) {
	tr := NewTracker(hierarchy.Default())
	tr.Navigate(types.PagePurchaseContracts, "")
	tr.Navigate(types.PageContractDetail, "c1")
	tr.Navigate(types.PageEditSubContract, "")

	_, id := tr.Current()
	assert.Equal(t, types.EntityID("c1"), id)

	got := tr.ComputeTransition(types.PagePurchaseContracts, "")
	assert.Equal(t, []types.EntityID{"c1", "c1"}, got.AbandonedEntities)
}

func TestTracker_ComputeDoesNotCommit(t *testing.T) {
	tr := NewTracker(hierarchy.Default())
	tr.Navigate(types.PageSellers, "")
	tr.ComputeTransition(types.PageSellerDetail, "s1")
	assert.Equal(t, []types.PageKey{types.PageSellers}, tr.Path())
}
