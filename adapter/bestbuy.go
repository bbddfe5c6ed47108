package adapter

import (
	"net/url"
	"regexp"
)

// skuPathRe matches the trailing <sku>.p segment of product paths.
var skuPathRe = regexp.MustCompile(`/(\d+)\.p(?:[?/]|$)`)

// BestBuy extracts from bestbuy.com product pages.
type BestBuy struct{}

func (BestBuy) Site() string { return "bestbuy" }

func (BestBuy) Title(p Page) string {
	return firstText(p, ".sku-title h1", "h1")
}

func (BestBuy) ProductID(Page) string { return "" }

func (BestBuy) StoreSKU(p Page) string {
	if u, err := url.Parse(p.URL()); err == nil {
		if v := u.Query().Get("skuId"); v != "" {
			return v
		}
	}
	if m := skuPathRe.FindStringSubmatch(p.URL()); m != nil {
		return m[1]
	}
	return p.Attr("[data-sku-id]", "data-sku-id")
}

func (BestBuy) PriceCents(p Page) (int, bool) {
	return ParsePriceCents(firstText(p,
		".priceView-customer-price > span",
		`[data-testid="customer-price"] span`,
	))
}
