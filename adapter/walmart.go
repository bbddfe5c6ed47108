package adapter

import "regexp"

// itemRe pulls the item ID out of /ip/<slug>/<id> paths.
var itemRe = regexp.MustCompile(`/ip/(?:[^/]+/)?(\d+)(?:[?/]|$)`)

// Walmart extracts from walmart.com product pages.
type Walmart struct{}

func (Walmart) Site() string { return "walmart" }

func (Walmart) Title(p Page) string {
	return firstText(p, `h1[itemprop="name"]`, "h1#main-title", "h1")
}

func (Walmart) ProductID(Page) string { return "" }

func (Walmart) StoreSKU(p Page) string {
	if m := itemRe.FindStringSubmatch(p.URL()); m != nil {
		return m[1]
	}
	return p.Attr("[data-item-id]", "data-item-id")
}

func (Walmart) PriceCents(p Page) (int, bool) {
	if v := p.Attr(`span[itemprop="price"]`, "content"); v != "" {
		return ParsePriceCents(v)
	}
	return ParsePriceCents(firstText(p,
		`span[itemprop="price"]`,
		`[data-testid="price-wrap"] span.w_iUH7`,
	))
}
