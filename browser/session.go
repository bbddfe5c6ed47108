package browser

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/stealth"

	"github.com/hazyhaar/pricepanel/adapter"
)

// Session is one observed tab. It satisfies the page source the panel
// polls: every Page call re-reads the live URL and DOM, so SPA route
// changes that never reload the tab are still seen.
type Session struct {
	mgr *Manager

	mu   sync.Mutex
	page *rod.Page
}

// NewSession creates a Session on a started manager.
func NewSession(mgr *Manager) *Session {
	return &Session{mgr: mgr}
}

// Open creates a stealth tab and navigates it to url, replacing any
// previously opened tab.
func (s *Session) Open(ctx context.Context, url string) error {
	b := s.mgr.Browser()
	if b == nil {
		return fmt.Errorf("browser: no active browser")
	}

	page, err := stealth.Page(b)
	if err != nil {
		return fmt.Errorf("browser: create tab: %w", err)
	}

	navCtx, cancel := context.WithTimeout(ctx, s.mgr.cfg.NavigateTimeout)
	defer cancel()

	if err := page.Context(navCtx).Navigate(url); err != nil {
		page.Close()
		return fmt.Errorf("browser: navigate %s: %w", url, err)
	}
	if err := page.Context(navCtx).WaitLoad(); err != nil {
		s.mgr.cfg.Logger.Warn("browser: wait load timeout", "url", url, "error", err)
	}

	s.mu.Lock()
	old := s.page
	s.page = page
	s.mu.Unlock()
	if old != nil {
		old.Close()
	}
	return nil
}

// Page snapshots the tab: current URL plus serialised DOM, parsed into a
// selector-queryable document.
func (s *Session) Page(ctx context.Context) (adapter.Page, error) {
	s.mu.Lock()
	page := s.page
	s.mu.Unlock()
	if page == nil {
		return nil, fmt.Errorf("browser: no open tab")
	}

	info, err := page.Context(ctx).Info()
	if err != nil {
		return nil, fmt.Errorf("browser: page info: %w", err)
	}

	res, err := page.Context(ctx).Eval(`() => document.documentElement.outerHTML`)
	if err != nil {
		return nil, fmt.Errorf("browser: get DOM: %w", err)
	}

	doc, err := NewDocument(info.URL, res.Value.Str())
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Close closes the tab.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.page == nil {
		return nil
	}
	err := s.page.Close()
	s.page = nil
	return err
}
