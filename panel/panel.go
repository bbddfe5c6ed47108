// Package panel implements the client-side synchronization core: a
// refresh orchestrator that turns "the user is looking at a product page"
// into a rendered list of cross-store offers, and a navigation watcher
// that decides when that work needs to happen again.
//
// One Panel serves one page context. Every piece of mutable state — the
// sequence counter, the in-flight flag, the caches — lives on the
// instance; there are no package globals. Concurrency discipline is
// sequence numbers: each refresh cycle takes the next number and
// re-checks it after every suspension point (the backend call, the
// retry delay). A cycle whose number has been superseded abandons itself
// without touching shared state. Every commit to shared state — the
// rendered view, the cache — holds one commit lock across the re-check
// and the write, so a superseded cycle either commits entirely before
// the newer cycle's commit or is rejected by the re-check; the final
// committed state always belongs to the last-started cycle.
package panel

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hazyhaar/pricepanel/adapter"
	"github.com/hazyhaar/pricepanel/gateway"
	"github.com/hazyhaar/pricepanel/lastgood"
	"github.com/hazyhaar/pricepanel/market"
	"github.com/hazyhaar/pricepanel/observe"
	"github.com/hazyhaar/pricepanel/pagekey"
)

// User-visible status lines for the honest-empty states. Neither is an
// error: the panel always shows current data, recent-cached data, or one
// of these.
const (
	StatusNoProductID     = "no product ID found"
	StatusNoPricedMatches = "no priced matches"
	StatusPageUnavailable = "product page not readable"
)

// Refresh-cycle outcomes recorded in the event log.
const (
	OutcomeRendered   = "rendered"
	OutcomeFromCache  = "from_cache"
	OutcomeNoProduct  = "no_product"
	OutcomeNoPrices   = "no_prices"
	OutcomeSuperseded = "superseded"
)

// Gateway is the backend surface the orchestrator needs. *gateway.Client
// implements it; tests substitute fakes.
type Gateway interface {
	CompareByProductID(ctx context.Context, id string) ([]market.Offer, error)
	ResolveAndCompare(ctx context.Context, req gateway.ResolveRequest) ([]market.Offer, error)
	ObservePrice(ctx context.Context, obs gateway.Observation) error
}

// PageSource produces point-in-time views of the observed page.
type PageSource interface {
	Page(ctx context.Context) (adapter.Page, error)
}

// Renderer receives the final view of a refresh cycle.
type Renderer interface {
	Render(ctx context.Context, view market.View) error
}

// RefreshEvent describes one completed (or abandoned) refresh cycle.
type RefreshEvent struct {
	Seq       int64
	PageKey   string
	Outcome   string
	Offers    int
	FromCache bool
	Duration  time.Duration
}

// Store is the shared cross-component storage. All methods are best-effort
// from the panel's point of view: errors are logged and swallowed.
type Store interface {
	SaveSnapshot(ctx context.Context, snap market.Snapshot) error
	SetPref(ctx context.Context, key, value string) error
	LogRefresh(ctx context.Context, ev RefreshEvent)
}

// Config wires a Panel. Gateway, Source and Renderer are required; the
// rest defaults.
type Config struct {
	Gateway  Gateway
	Source   PageSource
	Renderer Renderer
	Store    Store // optional

	Cache   *lastgood.Cache  // optional; a fresh 60s cache by default
	Limiter *observe.Limiter // optional; default limits

	// PollInterval is the watcher's signature polling frequency.
	// Default: 600ms.
	PollInterval time.Duration
	// Debounce is the settle delay between detecting a navigation and
	// refreshing. Default: 350ms.
	Debounce time.Duration
	// RetryDelay is the pause before the single retry of a failed backend
	// call. Default: 250ms.
	RetryDelay time.Duration
	// ObserveTimeout bounds one fire-and-forget telemetry call.
	// Default: 10s.
	ObserveTimeout time.Duration

	Logger *slog.Logger
}

func (c *Config) defaults() {
	if c.Cache == nil {
		c.Cache = lastgood.New()
	}
	if c.Limiter == nil {
		c.Limiter = observe.New()
	}
	if c.PollInterval <= 0 {
		c.PollInterval = 600 * time.Millisecond
	}
	if c.Debounce <= 0 {
		c.Debounce = 350 * time.Millisecond
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = 250 * time.Millisecond
	}
	if c.ObserveTimeout <= 0 {
		c.ObserveTimeout = 10 * time.Second
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Panel is the per-page-context orchestrator instance.
type Panel struct {
	cfg Config
	log *slog.Logger

	seq      atomic.Int64 // latest issued cycle number
	inflight atomic.Bool
	open     atomic.Bool
	lastKey  atomic.Value // string: page key of the most recent cycle

	// commitMu serializes stale re-check with the commit it guards, for
	// both render delivery and cache writes. Without it a superseded
	// cycle could pass its re-check and then land its commit after a
	// newer cycle's.
	commitMu sync.Mutex

	mu   sync.Mutex
	view market.View // last rendered view

	stats stats
}

// New creates a Panel. The panel starts closed; call SetOpen(true) before
// expecting refreshes.
func New(cfg Config) *Panel {
	cfg.defaults()
	return &Panel{cfg: cfg, log: cfg.Logger}
}

// SetOpen records whether the panel is visible. While closed, watcher
// ticks are no-ops that do not advance the last-seen signature, so the
// first tick after reopening sees a real change and refreshes.
func (p *Panel) SetOpen(open bool) { p.open.Store(open) }

// Open reports the panel's visibility.
func (p *Panel) Open() bool { return p.open.Load() }

// Pin persists the pinned/collapsed preference. Best-effort.
func (p *Panel) Pin(ctx context.Context, pinned bool) {
	if p.cfg.Store == nil {
		return
	}
	v := "0"
	if pinned {
		v = "1"
	}
	if err := p.cfg.Store.SetPref(ctx, "pinned", v); err != nil {
		p.log.Debug("panel: pin pref save failed", "error", err)
	}
}

// View returns the most recently rendered view.
func (p *Panel) View() market.View {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.view
}

// Refresh runs one refresh cycle immediately, bypassing the watcher's
// in-flight check. Used on panel open and for user-initiated refreshes;
// it still participates fully in sequence discipline, so a concurrent
// older cycle simply becomes stale.
func (p *Panel) Refresh(ctx context.Context) { p.refresh(ctx) }

// refresh is one complete populate cycle.
func (p *Panel) refresh(ctx context.Context) {
	cycle := p.seq.Add(1)
	p.inflight.Store(true)
	p.stats.refreshes.Add(1)
	start := time.Now()
	defer func() {
		// A superseded cycle must not clear the flag a newer cycle owns.
		if p.seq.Load() == cycle {
			p.inflight.Store(false)
		}
	}()

	pg, err := p.cfg.Source.Page(ctx)
	if err != nil {
		p.log.Warn("panel: page read failed", "error", err)
		p.render(ctx, cycle, market.View{Status: StatusPageUnavailable})
		return
	}
	ad, ok := adapter.Detect(pg.URL())
	if !ok {
		p.render(ctx, cycle, market.View{Status: StatusPageUnavailable})
		return
	}

	snap := adapter.Snapshot(ad, pg)
	key := pagekey.FromSnapshot(snap)
	p.lastKey.Store(key)

	// Telemetry is fire-and-forget: it neither blocks the cycle nor
	// participates in the stale-cycle guard.
	go p.observePrice(snap)

	// Share the snapshot with other components. Best-effort.
	if p.cfg.Store != nil {
		if err := p.cfg.Store.SaveSnapshot(ctx, snap); err != nil {
			p.log.Debug("panel: snapshot save failed", "error", err)
		}
	}

	if snap.ProductID == "" && snap.StoreSKU == "" {
		p.render(ctx, cycle, market.View{Status: StatusNoProductID})
		p.logRefresh(ctx, RefreshEvent{
			Seq: cycle, PageKey: key, Outcome: OutcomeNoProduct,
			Duration: time.Since(start),
		})
		return
	}

	offers, err := p.lookup(ctx, snap) // suspension point
	if p.stale(cycle) {
		return
	}
	if err != nil {
		p.log.Debug("panel: live lookup failed, retrying once",
			"key", key, "error", err)
		p.stats.retries.Add(1)
		select {
		case <-ctx.Done():
			return
		case <-time.After(p.cfg.RetryDelay): // suspension point
		}
		if p.stale(cycle) {
			return
		}
		offers, err = p.lookup(ctx, snap) // suspension point
		if p.stale(cycle) {
			return
		}
	}

	fromCache := false
	if err == nil {
		if len(offers) > 0 && !p.commitCache(cycle, key, offers) {
			return
		}
	} else {
		cached, ok := p.cfg.Cache.Get(key)
		if !ok {
			p.log.Warn("panel: live lookup failed and no cached results",
				"key", key, "error", err)
			offers = nil
		} else {
			p.log.Info("panel: using cached results after live failure",
				"key", key, "offers", len(cached))
			p.stats.cacheHits.Add(1)
			offers = cached
			fromCache = true
		}
	}

	priced := market.FilterPriced(offers)
	if len(priced) == 0 {
		p.render(ctx, cycle, market.View{Status: StatusNoPricedMatches})
		p.logRefresh(ctx, RefreshEvent{
			Seq: cycle, PageKey: key, Outcome: OutcomeNoPrices,
			FromCache: fromCache, Duration: time.Since(start),
		})
		return
	}

	market.SortByPrice(priced)
	view := market.View{
		Offers:          priced,
		Summary:         market.Summarize(priced, snap.Site, snap.PriceCents),
		RecallURL:       market.FirstRecallURL(priced),
		DropshipWarning: market.AnyDropship(priced),
	}

	if !p.render(ctx, cycle, view) {
		return
	}

	outcome := OutcomeRendered
	if fromCache {
		outcome = OutcomeFromCache
	}
	p.logRefresh(ctx, RefreshEvent{
		Seq: cycle, PageKey: key, Outcome: outcome,
		Offers: len(priced), FromCache: fromCache,
		Duration: time.Since(start),
	})
}

// render hands the view to the renderer unless the cycle has gone stale.
// The commit lock is held from the re-check through delivery, so two
// racing cycles deliver in sequence order and a cycle superseded before
// its commit is rejected. Returns false when the cycle was abandoned.
func (p *Panel) render(ctx context.Context, cycle int64, view market.View) bool {
	p.commitMu.Lock()
	defer p.commitMu.Unlock()

	if p.stale(cycle) {
		return false
	}

	p.mu.Lock()
	p.view = view
	p.mu.Unlock()

	if err := p.cfg.Renderer.Render(ctx, view); err != nil {
		p.log.Warn("panel: render failed", "error", err)
	}
	p.stats.renders.Add(1)
	return true
}

// commitCache writes offers to the cache unless the cycle has gone stale.
// Same commit discipline as render: a superseded cycle must not overwrite
// the newest cycle's entry.
func (p *Panel) commitCache(cycle int64, key string, offers []market.Offer) bool {
	p.commitMu.Lock()
	defer p.commitMu.Unlock()

	if p.stale(cycle) {
		return false
	}
	p.cfg.Cache.Put(key, offers)
	return true
}

// stale reports whether cycle has been superseded by a newer refresh.
func (p *Panel) stale(cycle int64) bool {
	if p.seq.Load() == cycle {
		return false
	}
	p.stats.staleDrops.Add(1)
	p.log.Debug("panel: cycle superseded",
		"cycle", cycle, "latest", p.seq.Load())
	return true
}

// lookup issues the site-appropriate backend call: direct compare when the
// page carries a cross-store identifier, SKU resolution otherwise.
func (p *Panel) lookup(ctx context.Context, snap market.Snapshot) ([]market.Offer, error) {
	if snap.ProductID != "" {
		return p.cfg.Gateway.CompareByProductID(ctx, snap.ProductID)
	}
	return p.cfg.Gateway.ResolveAndCompare(ctx, gateway.ResolveRequest{
		Store:    snap.Site,
		StoreSKU: snap.StoreSKU,
		Title:    snap.Title,
	})
}

// observePrice runs the telemetry path for one snapshot: consult the
// limiter, emit, and remember only after the backend accepts.
func (p *Panel) observePrice(snap market.Snapshot) {
	if snap.PriceCents == nil || snap.StoreSKU == "" {
		return
	}
	key := pagekey.Observation(snap.Site, snap.StoreSKU)
	if !p.cfg.Limiter.Allowed(key, *snap.PriceCents) {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.cfg.ObserveTimeout)
	defer cancel()

	err := p.cfg.Gateway.ObservePrice(ctx, gateway.Observation{
		Store:      snap.Site,
		StoreSKU:   snap.StoreSKU,
		Title:      snap.Title,
		PriceCents: *snap.PriceCents,
		URL:        snap.URL,
	})
	if err != nil {
		p.log.Debug("panel: price observation not accepted",
			"key", key, "error", err)
		return
	}
	p.cfg.Limiter.Remember(key, *snap.PriceCents)
	p.stats.observations.Add(1)
}

func (p *Panel) logRefresh(ctx context.Context, ev RefreshEvent) {
	if p.cfg.Store == nil {
		return
	}
	p.cfg.Store.LogRefresh(ctx, ev)
}
