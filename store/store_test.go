package store

import (
	"context"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/hazyhaar/pricepanel/market"
	"github.com/hazyhaar/pricepanel/panel"
)

func TestSnapshotRoundTrip(t *testing.T) {
	st := OpenMemory(t)
	ctx := context.Background()

	if _, ok, err := st.LastSnapshot(ctx); err != nil || ok {
		t.Fatalf("LastSnapshot on empty store: got ok=%v err=%v, want miss", ok, err)
	}

	price := 3500
	snap := market.Snapshot{
		Site:       "amazon",
		Title:      "Stanley Quencher H2.0 Tumbler, 40oz",
		ProductID:  "B0BZYCJK89",
		StoreSKU:   "B0BZYCJK89",
		PriceCents: &price,
		URL:        "https://www.amazon.com/dp/B0BZYCJK89",
	}
	if err := st.SaveSnapshot(ctx, snap); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}

	got, ok, err := st.LastSnapshot(ctx)
	if err != nil || !ok {
		t.Fatalf("LastSnapshot: got ok=%v err=%v", ok, err)
	}
	if got.ProductID != snap.ProductID || got.Title != snap.Title {
		t.Errorf("snapshot: got %+v, want %+v", got, snap)
	}
	if got.PriceCents == nil || *got.PriceCents != 3500 {
		t.Errorf("PriceCents: got %v, want 3500", got.PriceCents)
	}

	// A newer snapshot replaces the old one.
	snap.ProductID = "B0OTHER001"
	if err := st.SaveSnapshot(ctx, snap); err != nil {
		t.Fatalf("SaveSnapshot (replace): %v", err)
	}
	got, _, _ = st.LastSnapshot(ctx)
	if got.ProductID != "B0OTHER001" {
		t.Errorf("replaced ProductID: got %q, want B0OTHER001", got.ProductID)
	}
}

func TestPrefs(t *testing.T) {
	st := OpenMemory(t)
	ctx := context.Background()

	if _, ok, _ := st.Pref(ctx, "pinned"); ok {
		t.Fatal("Pref on empty store: got hit, want miss")
	}
	if err := st.SetPref(ctx, "pinned", "1"); err != nil {
		t.Fatalf("SetPref: %v", err)
	}
	v, ok, err := st.Pref(ctx, "pinned")
	if err != nil || !ok || v != "1" {
		t.Fatalf("Pref: got (%q,%v,%v), want (1,true,nil)", v, ok, err)
	}

	if err := st.SetPref(ctx, "pinned", "0"); err != nil {
		t.Fatalf("SetPref (update): %v", err)
	}
	if v, _, _ := st.Pref(ctx, "pinned"); v != "0" {
		t.Errorf("updated pref: got %q, want 0", v)
	}
}

func TestRefreshEventLog(t *testing.T) {
	st := OpenMemory(t)
	ctx := context.Background()

	events := []panel.RefreshEvent{
		{Seq: 1, PageKey: "amazon|B01|B01|u1", Outcome: panel.OutcomeRendered, Offers: 3, Duration: 420 * time.Millisecond},
		{Seq: 2, PageKey: "amazon|B01|B01|u1", Outcome: panel.OutcomeFromCache, Offers: 3, FromCache: true, Duration: 810 * time.Millisecond},
		{Seq: 3, PageKey: "amazon|B02|B02|u2", Outcome: panel.OutcomeNoPrices, Duration: 95 * time.Millisecond},
	}
	for _, ev := range events {
		st.LogRefresh(ctx, ev)
	}

	got, err := st.RecentRefreshes(ctx, 2)
	if err != nil {
		t.Fatalf("RecentRefreshes: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("events: got %d, want 2", len(got))
	}
	// Newest first.
	if got[0].Seq != 3 || got[1].Seq != 2 {
		t.Errorf("order: got seqs %d,%d, want 3,2", got[0].Seq, got[1].Seq)
	}
	if got[1].Outcome != panel.OutcomeFromCache || !got[1].FromCache {
		t.Errorf("cached event: got %+v", got[1])
	}
	if got[1].Duration != 810*time.Millisecond {
		t.Errorf("Duration: got %v, want 810ms", got[1].Duration)
	}
}
