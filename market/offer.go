// Package market defines the domain types shared by the extraction,
// gateway, cache and panel layers: offers returned by the comparison
// backend, page snapshots produced by site adapters, and the derived
// summary handed to renderers.
package market

// Offer is one store's listing for a product as returned by the comparison
// backend. Prices are integer cents; a nil price means the backend could
// not price the listing.
type Offer struct {
	Store               string `json:"store"`
	PriceCents          *int   `json:"priceCents"`
	EffectivePriceCents *int   `json:"effectivePriceCents,omitempty"`
	URL                 string `json:"url"`
	Brand               string `json:"brand,omitempty"`
	Category            string `json:"category,omitempty"`
	OfferTag            string `json:"offerTag,omitempty"`
	RecallURL           string `json:"recallUrl,omitempty"`
	DropshipWarning     bool   `json:"dropshipWarning,omitempty"`
	CouponText          string `json:"couponText,omitempty"`
	CouponCode          string `json:"couponCode,omitempty"`
	CouponRequiresClip  bool   `json:"couponRequiresClip,omitempty"`
}

// ResolvablePrice returns the price used for filtering, sorting and
// summary computation: the effective price when present, otherwise the
// list price. ok is false when the offer carries neither.
func (o Offer) ResolvablePrice() (cents int, ok bool) {
	if o.EffectivePriceCents != nil {
		return *o.EffectivePriceCents, true
	}
	if o.PriceCents != nil {
		return *o.PriceCents, true
	}
	return 0, false
}

// HasActiveCoupon reports whether a coupon actually lowers the price:
// the effective price is strictly below the list price.
func (o Offer) HasActiveCoupon() bool {
	return o.EffectivePriceCents != nil && o.PriceCents != nil &&
		*o.EffectivePriceCents < *o.PriceCents
}

// Snapshot is what a site adapter extracted from the current page during
// one refresh cycle. Empty strings mean "not found". It is never persisted
// beyond the cycle except as the shared last-snapshot record.
type Snapshot struct {
	Site       string `json:"site"`
	Title      string `json:"title"`
	ProductID  string `json:"productId,omitempty"`
	StoreSKU   string `json:"storeSku,omitempty"`
	PriceCents *int   `json:"priceCents,omitempty"`
	URL        string `json:"url"`
}
