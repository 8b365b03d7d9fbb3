// Package pagecache is the public entry point of the page-state cache.
//
// An Engine owns one state store, one draft store, the navigation path
// tracker, the eviction policy and the persistence bridge. The router calls
// Navigate once per committed route change; page adapters read and update
// their cached state; form components read and update drafts. Every
// mutation is written through to the durable medium before it returns.
//
//	engine, err := pagecache.Open(types.Config{Backend: types.BackendSQLite, DataDir: dir})
//	if err != nil {
//	    return err
//	}
//	defer engine.Close()
//
//	engine.Navigate(types.PagePurchaseContracts, "")
//	engine.UpdateListState(types.PagePurchaseContracts, types.ListPatch{}.WithSearchTerm("corn"))
package pagecache
