// Package render delivers finished views to the UI boundary. The stdout
// renderer emits JSON lines; a host process (or a test) consumes them.
//
// Coupon and deal text originates in scraped retailer pages, so every
// view is sanitised before it leaves the process: any markup in the
// display strings is stripped, never rendered.
package render

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/hazyhaar/pricepanel/market"
)

var strict = bluemonday.StrictPolicy()

// Sanitize returns a copy of view with all display strings stripped of
// markup.
func Sanitize(view market.View) market.View {
	view.Status = strict.Sanitize(view.Status)
	offers := make([]market.Offer, len(view.Offers))
	copy(offers, view.Offers)
	for i := range offers {
		offers[i].OfferTag = strict.Sanitize(offers[i].OfferTag)
		offers[i].CouponText = strict.Sanitize(offers[i].CouponText)
		offers[i].CouponCode = strict.Sanitize(offers[i].CouponCode)
	}
	view.Offers = offers
	return view
}

// Stdout writes sanitised views as JSON lines to an io.Writer
// (default os.Stdout).
type Stdout struct {
	mu  sync.Mutex
	enc *json.Encoder
}

// NewStdout creates a Stdout renderer. If w is nil, os.Stdout is used.
func NewStdout(w io.Writer) *Stdout {
	if w == nil {
		w = os.Stdout
	}
	return &Stdout{enc: json.NewEncoder(w)}
}

// Render writes one view line.
func (s *Stdout) Render(_ context.Context, view market.View) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enc.Encode(envelope{Type: "view", Data: Sanitize(view)})
}

type envelope struct {
	Type string      `json:"type"`
	Data market.View `json:"data"`
}

// Func adapts a function to the renderer interface.
type Func func(ctx context.Context, view market.View) error

// Render calls f.
func (f Func) Render(ctx context.Context, view market.View) error { return f(ctx, view) }
