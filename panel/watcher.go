package panel

import (
	"context"
	"time"

	"github.com/hazyhaar/pricepanel/adapter"
	"github.com/hazyhaar/pricepanel/pagekey"
)

// Watch polls the page signature and schedules refreshes. It blocks until
// ctx is cancelled; run it in its own goroutine.
//
// The loop is a two-state machine: every PollInterval it recomputes the
// signature; on change it records the new value as last-seen, cancels any
// pending debounce timer and arms a fresh one. When the debounce window
// passes quietly the refresh fires — at most once per settled navigation,
// however many times the DOM churned on the way there. Ticks while the
// panel is closed are no-ops that leave last-seen untouched.
//
// Last-seen starts from the key of the most recent refresh, so a page
// already refreshed manually before Watch starts is not refreshed again.
//
// There is no event source for SPA route changes in this environment, so
// polling is the design, not a shortcut.
func (p *Panel) Watch(ctx context.Context) {
	ticker := time.NewTicker(p.cfg.PollInterval)
	defer ticker.Stop()

	var debounce *time.Timer
	var debounceCh <-chan time.Time
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	lastSeen, _ := p.lastKey.Load().(string)

	p.log.Info("panel: watcher started",
		"poll", p.cfg.PollInterval, "debounce", p.cfg.Debounce)

	for {
		select {
		case <-ctx.Done():
			p.log.Info("panel: watcher stopped")
			return

		case <-ticker.C:
			p.stats.ticks.Add(1)
			if !p.open.Load() {
				continue
			}
			key, ok := p.currentKey(ctx)
			if !ok || key == lastSeen {
				continue
			}
			p.stats.changes.Add(1)
			lastSeen = key

			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.NewTimer(p.cfg.Debounce)
			debounceCh = debounce.C
			p.log.Debug("panel: navigation detected, debouncing", "key", key)

		case <-debounceCh:
			debounceCh = nil
			if !p.open.Load() || p.inflight.Load() {
				continue
			}
			go p.refresh(ctx)
		}
	}
}

// currentKey recomputes the page signature: one page read, two selector
// probes, no network.
func (p *Panel) currentKey(ctx context.Context) (string, bool) {
	pg, err := p.cfg.Source.Page(ctx)
	if err != nil {
		p.log.Debug("panel: signature read failed", "error", err)
		return "", false
	}
	ad, ok := adapter.Detect(pg.URL())
	if !ok {
		return "", false
	}
	return pagekey.Page(ad.Site(), ad.ProductID(pg), ad.StoreSKU(pg), pg.URL()), true
}
