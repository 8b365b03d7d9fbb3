package hierarchy

import "github.com/mesh-intelligence/tradestate/pkg/types"

// DefaultPages declares the trade contracts application.
//
//	dashboard
//	purchaseContracts > contractDetail > createSubContract
//	                                   > editSubContract
//	saleContracts > saleContractDetail > createSaleSubContract
//	buyers > buyerDetail
//	sellers > sellerDetail
func DefaultPages() []Page {
	return []Page{
		{Key: types.PageDashboard, Kind: types.KindList, Independent: true},
		{Key: types.PagePurchaseContracts, Kind: types.KindList, Independent: true},
		{Key: types.PageSaleContracts, Kind: types.KindList, Independent: true},
		{Key: types.PageBuyers, Kind: types.KindList, Independent: true},
		{Key: types.PageSellers, Kind: types.KindList, Independent: true},

		{Key: types.PageContractDetail, Parent: types.PagePurchaseContracts, Kind: types.KindDetail},
		{Key: types.PageCreateSubContract, Parent: types.PageContractDetail, Kind: types.KindSubResource},
		{Key: types.PageEditSubContract, Parent: types.PageContractDetail, Kind: types.KindSubResource},

		{Key: types.PageSaleContractDetail, Parent: types.PageSaleContracts, Kind: types.KindDetail},
		{Key: types.PageCreateSaleSubContract, Parent: types.PageSaleContractDetail, Kind: types.KindSubResource},

		{Key: types.PageBuyerDetail, Parent: types.PageBuyers, Kind: types.KindDetail},
		{Key: types.PageSellerDetail, Parent: types.PageSellers, Kind: types.KindDetail},
	}
}

// Default returns the trade contracts hierarchy.
func Default() *Hierarchy {
	h, err := New(DefaultPages()...)
	if err != nil {
		// DefaultPages is a constant declaration.
		panic(err)
	}
	return h
}
