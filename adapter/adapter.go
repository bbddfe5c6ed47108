// Package adapter extracts product identity and price from retailer
// product pages. Each retailer gets one Adapter with its own selector
// heuristics; the panel stays site-agnostic and talks to the interface.
//
// Adapters are stateless and side-effect-free over a Page, which is a
// point-in-time view of the rendered DOM. The navigation watcher consults
// adapters roughly twice per second, so extraction must stay cheap and two
// calls against the same Page must return identical values.
package adapter

import (
	"net/url"
	"strings"

	"github.com/hazyhaar/pricepanel/market"
)

// Page is a point-in-time view of the rendered product page.
type Page interface {
	// URL returns the page's current address.
	URL() string
	// Text returns the trimmed text of the first node matching the CSS
	// selector, or "" when nothing matches.
	Text(selector string) string
	// Attr returns the named attribute of the first matching node, or "".
	Attr(selector, name string) string
}

// Adapter extracts product fields for one retailer.
type Adapter interface {
	// Site is the canonical store name ("amazon", "target", ...).
	Site() string
	// Title returns the product title, "" when not found.
	Title(p Page) string
	// ProductID returns the direct cross-store identifier (the ASIN) when
	// the site has one, "" otherwise. Sites without a direct identifier
	// always return "" and are compared via StoreSKU resolution.
	ProductID(p Page) string
	// StoreSKU returns the store-local SKU (ASIN, TCIN, item ID, SKU ID),
	// "" when absent.
	StoreSKU(p Page) string
	// PriceCents returns the displayed price in cents.
	PriceCents(p Page) (int, bool)
}

// Detect selects the adapter for a URL's host. ok is false for
// unsupported sites.
func Detect(rawURL string) (Adapter, bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, false
	}
	host := strings.ToLower(u.Hostname())
	switch {
	case hostIs(host, "amazon.com"):
		return Amazon{}, true
	case hostIs(host, "target.com"):
		return Target{}, true
	case hostIs(host, "walmart.com"):
		return Walmart{}, true
	case hostIs(host, "bestbuy.com"):
		return BestBuy{}, true
	}
	return nil, false
}

// Snapshot reads every field once and packages the result. This is the
// only place extraction happens during a refresh cycle; the snapshot is
// immutable from here on.
func Snapshot(a Adapter, p Page) market.Snapshot {
	snap := market.Snapshot{
		Site:      a.Site(),
		Title:     a.Title(p),
		ProductID: a.ProductID(p),
		StoreSKU:  a.StoreSKU(p),
		URL:       p.URL(),
	}
	if cents, ok := a.PriceCents(p); ok {
		snap.PriceCents = &cents
	}
	return snap
}

func hostIs(host, domain string) bool {
	return host == domain || strings.HasSuffix(host, "."+domain)
}

// firstText returns the first selector that yields non-empty text.
func firstText(p Page, selectors ...string) string {
	for _, sel := range selectors {
		if t := p.Text(sel); t != "" {
			return t
		}
	}
	return ""
}
