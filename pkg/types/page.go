// Page identifiers and kinds for the trade contracts application.
package types

// PageKey identifies a page type. The set of keys is finite and statically
// known; see the hierarchy package for their ancestor chains.
type PageKey string

// EntityID scopes a keyed page's state to one business record. The empty
// EntityID means "no entity" (list and top-level pages).
type EntityID string

// Known page keys.
const (
	PageDashboard             PageKey = "dashboard"
	PagePurchaseContracts     PageKey = "purchaseContracts"
	PageSaleContracts         PageKey = "saleContracts"
	PageBuyers                PageKey = "buyers"
	PageSellers               PageKey = "sellers"
	PageContractDetail        PageKey = "contractDetail"
	PageCreateSubContract     PageKey = "createSubContract"
	PageEditSubContract       PageKey = "editSubContract"
	PageSaleContractDetail    PageKey = "saleContractDetail"
	PageCreateSaleSubContract PageKey = "createSaleSubContract"
	PageBuyerDetail           PageKey = "buyerDetail"
	PageSellerDetail          PageKey = "sellerDetail"
)

// PageKind selects which state container a page uses.
type PageKind string

// Page kinds.
const (
	// KindList pages hold one ListPageState per page type.
	KindList PageKind = "list"
	// KindDetail pages hold one DetailPageState per entity.
	KindDetail PageKind = "detail"
	// KindSubResource pages hold one SubResourceFormState per entity.
	KindSubResource PageKind = "subResource"
)

// validPageKinds is the set of recognized page kinds.
var validPageKinds = map[PageKind]bool{
	KindList:        true,
	KindDetail:      true,
	KindSubResource: true,
}

// Valid reports whether k is a recognized page kind.
func (k PageKind) Valid() bool {
	return validPageKinds[k]
}

// Keyed reports whether pages of this kind store state per EntityID.
func (k PageKind) Keyed() bool {
	return k == KindDetail || k == KindSubResource
}
