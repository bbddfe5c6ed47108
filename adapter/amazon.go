package adapter

import "regexp"

// asinRe pulls the ASIN out of /dp/ and /gp/product/ paths.
var asinRe = regexp.MustCompile(`/(?:dp|gp/product)/([A-Z0-9]{10})(?:[/?]|$)`)

// Amazon extracts from amazon.com product pages. The ASIN doubles as the
// cross-store identifier, so Amazon pages take the direct-compare path.
type Amazon struct{}

func (Amazon) Site() string { return "amazon" }

func (Amazon) Title(p Page) string {
	return firstText(p, "#productTitle", "#title span")
}

func (a Amazon) ProductID(p Page) string {
	if v := p.Attr("input#ASIN", "value"); v != "" {
		return v
	}
	if m := asinRe.FindStringSubmatch(p.URL()); m != nil {
		return m[1]
	}
	return ""
}

// StoreSKU is the ASIN: Amazon's local SKU and the cross-store identifier
// are the same string.
func (a Amazon) StoreSKU(p Page) string { return a.ProductID(p) }

func (Amazon) PriceCents(p Page) (int, bool) {
	// The buybox splits the price into whole and fraction spans.
	whole := p.Text("span.a-price-whole")
	if whole != "" {
		frac := p.Text("span.a-price-fraction")
		if frac == "" {
			frac = "00"
		}
		return ParsePriceCents(whole + "." + frac)
	}
	return ParsePriceCents(firstText(p,
		"span.a-price .a-offscreen",
		"#priceblock_ourprice",
		"#priceblock_dealprice",
	))
}
