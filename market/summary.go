package market

import (
	"cmp"
	"slices"
)

// Summary is the statistics block computed from a sorted offer list and
// the current page's own price.
type Summary struct {
	Count          int  `json:"count"`
	BestPriceCents int  `json:"bestPriceCents"`
	HasSavings     bool `json:"hasSavings"`
	SavingsCents   int  `json:"savingsCents"`
	HasCoupon      bool `json:"hasCoupon"`
}

// View is the renderer input contract: the sorted priced offers plus the
// summary, warnings lifted out of the offer list, and an optional status
// line for the honest-empty states.
type View struct {
	Status          string  `json:"status,omitempty"`
	Offers          []Offer `json:"offers"`
	Summary         Summary `json:"summary"`
	RecallURL       string  `json:"recallUrl,omitempty"`
	DropshipWarning bool    `json:"dropshipWarning,omitempty"`
}

// FilterPriced returns the offers with a resolvable price, preserving the
// original order.
func FilterPriced(offers []Offer) []Offer {
	priced := make([]Offer, 0, len(offers))
	for _, o := range offers {
		if _, ok := o.ResolvablePrice(); ok {
			priced = append(priced, o)
		}
	}
	return priced
}

// SortByPrice sorts offers ascending by resolvable price. The sort is
// stable with no secondary key: equal prices keep their original relative
// order so repeated renders never reorder ties. Offers without a
// resolvable price must be filtered out beforehand.
func SortByPrice(offers []Offer) {
	slices.SortStableFunc(offers, func(a, b Offer) int {
		pa, _ := a.ResolvablePrice()
		pb, _ := b.ResolvablePrice()
		return cmp.Compare(pa, pb)
	})
}

// Summarize computes the summary for a sorted, priced offer list.
// currentStore and currentPrice describe the page the user is on;
// currentPrice may be nil when the adapter found no price.
//
// "Cheaper elsewhere" holds when some other store's resolvable price is
// strictly below the current store's own price; savings is the difference,
// and zero otherwise.
func Summarize(sorted []Offer, currentStore string, currentPrice *int) Summary {
	sum := Summary{Count: len(sorted)}
	if len(sorted) == 0 {
		return sum
	}

	sum.BestPriceCents, _ = sorted[0].ResolvablePrice()

	if currentPrice != nil {
		if cheapest, ok := cheapestOther(sorted, currentStore); ok && cheapest < *currentPrice {
			sum.HasSavings = true
			sum.SavingsCents = *currentPrice - cheapest
		}
	}

	for _, o := range sorted {
		if o.HasActiveCoupon() {
			sum.HasCoupon = true
			break
		}
	}
	return sum
}

// BestCoupon returns the offer with the lowest effective price among those
// whose coupon actually lowers the price. ok is false when no such offer
// exists.
func BestCoupon(offers []Offer) (Offer, bool) {
	var best Offer
	found := false
	for _, o := range offers {
		if !o.HasActiveCoupon() {
			continue
		}
		if !found || *o.EffectivePriceCents < *best.EffectivePriceCents {
			best = o
			found = true
		}
	}
	return best, found
}

// FirstRecallURL returns the first non-empty recall URL in the list, or "".
func FirstRecallURL(offers []Offer) string {
	for _, o := range offers {
		if o.RecallURL != "" {
			return o.RecallURL
		}
	}
	return ""
}

// AnyDropship reports whether any offer is flagged as a dropship listing.
func AnyDropship(offers []Offer) bool {
	for _, o := range offers {
		if o.DropshipWarning {
			return true
		}
	}
	return false
}

func cheapestOther(offers []Offer, currentStore string) (cents int, ok bool) {
	for _, o := range offers {
		if o.Store == currentStore {
			continue
		}
		p, priced := o.ResolvablePrice()
		if !priced {
			continue
		}
		if !ok || p < cents {
			cents = p
			ok = true
		}
	}
	return cents, ok
}
