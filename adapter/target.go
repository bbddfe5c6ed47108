package adapter

import "regexp"

// tcinRe pulls the TCIN out of /p/<slug>/-/A-<tcin> paths.
var tcinRe = regexp.MustCompile(`/-/A-(\d+)`)

// Target extracts from target.com product pages. Target has no direct
// cross-store identifier; products are resolved by TCIN and title.
type Target struct{}

func (Target) Site() string { return "target" }

func (Target) Title(p Page) string {
	return firstText(p, `h1[data-test="product-title"]`, "h1")
}

func (Target) ProductID(Page) string { return "" }

func (Target) StoreSKU(p Page) string {
	if m := tcinRe.FindStringSubmatch(p.URL()); m != nil {
		return m[1]
	}
	return p.Attr("[data-test='product-details']", "data-tcin")
}

func (Target) PriceCents(p Page) (int, bool) {
	return ParsePriceCents(firstText(p,
		`[data-test="product-price"]`,
		`span[data-test="current-price"]`,
	))
}
