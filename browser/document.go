package browser

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Document is a parsed point-in-time copy of a page. It is read-only and
// safe to pass across goroutines.
type Document struct {
	url string
	doc *goquery.Document
}

// NewDocument parses html into a Document rooted at url.
func NewDocument(url, html string) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("browser: parse document: %w", err)
	}
	return &Document{url: url, doc: doc}, nil
}

// URL returns the page URL the document was captured at.
func (d *Document) URL() string { return d.url }

// Text returns the trimmed text of the first node matching selector, or
// "" when nothing matches.
func (d *Document) Text(selector string) string {
	return strings.TrimSpace(d.doc.Find(selector).First().Text())
}

// Attr returns the named attribute of the first node matching selector,
// or "" when absent.
func (d *Document) Attr(selector, name string) string {
	v, _ := d.doc.Find(selector).First().Attr(name)
	return strings.TrimSpace(v)
}
