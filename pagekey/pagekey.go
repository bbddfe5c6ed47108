// Package pagekey derives identity strings for the currently displayed
// product page. Both derivations are pure string concatenation: they are
// polled at least twice per second by the navigation watcher, so they must
// stay allocation-cheap and deterministic.
package pagekey

import "github.com/hazyhaar/pricepanel/market"

// Page returns the navigation identity of a product page instance:
// "site|productId|storeSku|url". The URL component is included on purpose
// so that query-string-driven variant changes also count as navigation.
// The result is page-instance-specific, not globally unique.
func Page(site, productID, storeSKU, url string) string {
	return site + "|" + productID + "|" + storeSKU + "|" + url
}

// FromSnapshot derives the page key for an extracted snapshot.
func FromSnapshot(s market.Snapshot) string {
	return Page(s.Site, s.ProductID, s.StoreSKU, s.URL)
}

// Observation returns the coarser telemetry-deduplication identity
// "store::sku". It deliberately omits the URL so that benign query
// parameter changes do not defeat observation dedup.
func Observation(store, sku string) string {
	return store + "::" + sku
}
