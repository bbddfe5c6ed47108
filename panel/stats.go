package panel

import "sync/atomic"

// stats are the panel's internal counters.
type stats struct {
	ticks        atomic.Int64
	changes      atomic.Int64
	refreshes    atomic.Int64
	renders      atomic.Int64
	staleDrops   atomic.Int64
	retries      atomic.Int64
	cacheHits    atomic.Int64
	observations atomic.Int64
}

// Stats are point-in-time counters for the watcher and orchestrator.
type Stats struct {
	Ticks        int64 `json:"ticks"`
	Changes      int64 `json:"changes"`
	Refreshes    int64 `json:"refreshes"`
	Renders      int64 `json:"renders"`
	StaleDrops   int64 `json:"stale_drops"`
	Retries      int64 `json:"retries"`
	CacheHits    int64 `json:"cache_hits"`
	Observations int64 `json:"observations"`
}

// Stats returns the current counters.
func (p *Panel) Stats() Stats {
	return Stats{
		Ticks:        p.stats.ticks.Load(),
		Changes:      p.stats.changes.Load(),
		Refreshes:    p.stats.refreshes.Load(),
		Renders:      p.stats.renders.Load(),
		StaleDrops:   p.stats.staleDrops.Load(),
		Retries:      p.stats.retries.Load(),
		CacheHits:    p.stats.cacheHits.Load(),
		Observations: p.stats.observations.Load(),
	}
}
