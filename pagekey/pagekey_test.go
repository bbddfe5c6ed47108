package pagekey

import (
	"testing"

	"github.com/hazyhaar/pricepanel/market"
)

func TestPage_Format(t *testing.T) {
	got := Page("amazon", "B0TEST1234", "B0TEST1234", "https://www.amazon.com/dp/B0TEST1234?ref=x")
	want := "amazon|B0TEST1234|B0TEST1234|https://www.amazon.com/dp/B0TEST1234?ref=x"
	if got != want {
		t.Errorf("Page: got %q, want %q", got, want)
	}
}

func TestPage_Deterministic(t *testing.T) {
	a := Page("target", "", "87654321", "https://www.target.com/p/x/-/A-87654321")
	b := Page("target", "", "87654321", "https://www.target.com/p/x/-/A-87654321")
	if a != b {
		t.Errorf("two calls with identical inputs differ: %q vs %q", a, b)
	}
}

func TestPage_URLChangeChangesKey(t *testing.T) {
	a := Page("walmart", "", "123", "https://www.walmart.com/ip/x/123?variant=red")
	b := Page("walmart", "", "123", "https://www.walmart.com/ip/x/123?variant=blue")
	if a == b {
		t.Error("keys equal despite different URLs; variant changes must trigger refresh")
	}
}

func TestObservation_IgnoresURL(t *testing.T) {
	got := Observation("bestbuy", "6501902")
	if got != "bestbuy::6501902" {
		t.Errorf("Observation: got %q, want bestbuy::6501902", got)
	}
}

func TestFromSnapshot(t *testing.T) {
	snap := market.Snapshot{
		Site:      "amazon",
		ProductID: "B0TEST1234",
		StoreSKU:  "B0TEST1234",
		URL:       "https://www.amazon.com/dp/B0TEST1234",
	}
	if got := FromSnapshot(snap); got != Page("amazon", "B0TEST1234", "B0TEST1234", snap.URL) {
		t.Errorf("FromSnapshot: got %q", got)
	}
}
