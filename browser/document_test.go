package browser

import (
	"testing"

	"github.com/hazyhaar/pricepanel/adapter"
)

const amazonHTML = `<html><body>
<div id="titleSection"><span id="productTitle">
	Stanley Quencher H2.0 Tumbler, 40oz
</span></div>
<input id="ASIN" type="hidden" value="B0BZYCJK89">
<div class="a-section">
	<span class="a-price"><span class="a-price-whole">35</span><span class="a-price-fraction">00</span></span>
</div>
</body></html>`

const targetHTML = `<html><body>
<h1 data-test="product-title">Stanley 40oz Stainless Steel Tumbler</h1>
<div data-tcin="88481811">
	<span data-test="product-price">$35.00</span>
</div>
</body></html>`

func TestDocumentAmazonExtraction(t *testing.T) {
	url := "https://www.amazon.com/Stanley-Quencher/dp/B0BZYCJK89?th=1"
	doc, err := NewDocument(url, amazonHTML)
	if err != nil {
		t.Fatalf("NewDocument: %v", err)
	}

	ad, ok := adapter.Detect(url)
	if !ok {
		t.Fatal("Detect: no adapter for amazon URL")
	}

	snap := adapter.Snapshot(ad, doc)
	if snap.Site != "amazon" {
		t.Errorf("Site: got %q, want amazon", snap.Site)
	}
	if snap.Title != "Stanley Quencher H2.0 Tumbler, 40oz" {
		t.Errorf("Title: got %q", snap.Title)
	}
	if snap.ProductID != "B0BZYCJK89" {
		t.Errorf("ProductID: got %q, want B0BZYCJK89", snap.ProductID)
	}
	if snap.PriceCents == nil || *snap.PriceCents != 3500 {
		t.Errorf("PriceCents: got %v, want 3500", snap.PriceCents)
	}
}

func TestDocumentTargetExtraction(t *testing.T) {
	url := "https://www.target.com/p/stanley-40oz-tumbler/-/A-88481811"
	doc, err := NewDocument(url, targetHTML)
	if err != nil {
		t.Fatalf("NewDocument: %v", err)
	}

	ad, ok := adapter.Detect(url)
	if !ok {
		t.Fatal("Detect: no adapter for target URL")
	}

	snap := adapter.Snapshot(ad, doc)
	if snap.Site != "target" {
		t.Errorf("Site: got %q, want target", snap.Site)
	}
	if snap.StoreSKU != "88481811" {
		t.Errorf("StoreSKU: got %q, want 88481811", snap.StoreSKU)
	}
	if snap.ProductID != "" {
		t.Errorf("ProductID: got %q, want empty (resolved server-side)", snap.ProductID)
	}
	if snap.PriceCents == nil || *snap.PriceCents != 3500 {
		t.Errorf("PriceCents: got %v, want 3500", snap.PriceCents)
	}
}

func TestDocumentMissingSelectors(t *testing.T) {
	doc, err := NewDocument("https://example.com/", "<html><body></body></html>")
	if err != nil {
		t.Fatalf("NewDocument: %v", err)
	}
	if got := doc.Text("#productTitle"); got != "" {
		t.Errorf("Text on missing node: got %q, want empty", got)
	}
	if got := doc.Attr("input#ASIN", "value"); got != "" {
		t.Errorf("Attr on missing node: got %q, want empty", got)
	}
}
