package market

import "testing"

func cents(v int) *int { return &v }

func TestSortByPrice_StableTies(t *testing.T) {
	offers := []Offer{
		{Store: "a", EffectivePriceCents: cents(500)},
		{Store: "b", EffectivePriceCents: cents(300)},
		{Store: "c", EffectivePriceCents: cents(300)},
		{Store: "d", EffectivePriceCents: cents(700)},
	}

	SortByPrice(offers)

	wantStores := []string{"b", "c", "a", "d"}
	for i, want := range wantStores {
		if offers[i].Store != want {
			t.Errorf("offers[%d].Store: got %q, want %q", i, offers[i].Store, want)
		}
	}
	// The two 300-cent entries must keep their original relative order.
	if offers[0].Store != "b" || offers[1].Store != "c" {
		t.Errorf("tie order: got %q,%q, want b,c", offers[0].Store, offers[1].Store)
	}
}

func TestSortByPrice_FallsBackToListPrice(t *testing.T) {
	offers := []Offer{
		{Store: "a", PriceCents: cents(900)},
		{Store: "b", EffectivePriceCents: cents(200), PriceCents: cents(1000)},
	}

	SortByPrice(offers)

	if offers[0].Store != "b" {
		t.Errorf("offers[0].Store: got %q, want b", offers[0].Store)
	}
}

func TestFilterPriced(t *testing.T) {
	offers := []Offer{
		{Store: "a", PriceCents: cents(100)},
		{Store: "b"},
		{Store: "c", EffectivePriceCents: cents(50)},
	}

	priced := FilterPriced(offers)
	if len(priced) != 2 {
		t.Fatalf("FilterPriced: got %d offers, want 2", len(priced))
	}
	if priced[0].Store != "a" || priced[1].Store != "c" {
		t.Errorf("order: got %q,%q, want a,c", priced[0].Store, priced[1].Store)
	}
}

func TestSummarize_Savings(t *testing.T) {
	offers := []Offer{
		{Store: "walmart", PriceCents: cents(1800)},
		{Store: "amazon", PriceCents: cents(2500)},
	}
	SortByPrice(offers)

	sum := Summarize(offers, "amazon", cents(2500))

	if !sum.HasSavings {
		t.Error("HasSavings: got false, want true")
	}
	if sum.SavingsCents != 700 {
		t.Errorf("SavingsCents: got %d, want 700", sum.SavingsCents)
	}
	if sum.BestPriceCents != 1800 {
		t.Errorf("BestPriceCents: got %d, want 1800", sum.BestPriceCents)
	}
	if sum.Count != 2 {
		t.Errorf("Count: got %d, want 2", sum.Count)
	}
}

func TestSummarize_NoSavingsWhenCurrentStoreCheapest(t *testing.T) {
	offers := []Offer{
		{Store: "amazon", PriceCents: cents(1500)},
		{Store: "target", PriceCents: cents(1800)},
	}
	SortByPrice(offers)

	sum := Summarize(offers, "amazon", cents(1500))

	if sum.HasSavings {
		t.Error("HasSavings: got true, want false")
	}
	if sum.SavingsCents != 0 {
		t.Errorf("SavingsCents: got %d, want 0", sum.SavingsCents)
	}
}

func TestSummarize_NoCurrentPrice(t *testing.T) {
	offers := []Offer{{Store: "target", PriceCents: cents(1000)}}

	sum := Summarize(offers, "amazon", nil)

	if sum.HasSavings {
		t.Error("HasSavings: got true, want false when current price unknown")
	}
}

func TestSummarize_CouponDetection(t *testing.T) {
	offers := []Offer{
		{Store: "a", PriceCents: cents(1000)},
		{Store: "b", PriceCents: cents(1200), EffectivePriceCents: cents(900), CouponCode: "SAVE25"},
	}
	SortByPrice(offers)

	sum := Summarize(offers, "a", cents(1000))
	if !sum.HasCoupon {
		t.Error("HasCoupon: got false, want true")
	}

	best, ok := BestCoupon(offers)
	if !ok {
		t.Fatal("BestCoupon: got none, want one")
	}
	if best.Store != "b" {
		t.Errorf("BestCoupon store: got %q, want b", best.Store)
	}
}

func TestBestCoupon_EqualEffectiveAndListIsNotACoupon(t *testing.T) {
	offers := []Offer{
		{Store: "a", PriceCents: cents(1000), EffectivePriceCents: cents(1000)},
	}
	if _, ok := BestCoupon(offers); ok {
		t.Error("BestCoupon: got one, want none when effective == list")
	}
}

func TestFirstRecallURLAndDropship(t *testing.T) {
	offers := []Offer{
		{Store: "a"},
		{Store: "b", RecallURL: "https://cpsc.gov/r/1", DropshipWarning: true},
		{Store: "c", RecallURL: "https://cpsc.gov/r/2"},
	}

	if got := FirstRecallURL(offers); got != "https://cpsc.gov/r/1" {
		t.Errorf("FirstRecallURL: got %q", got)
	}
	if !AnyDropship(offers) {
		t.Error("AnyDropship: got false, want true")
	}
	if AnyDropship(offers[:1]) {
		t.Error("AnyDropship: got true, want false")
	}
}
