// Command pricepanel observes a retail product page in a real Chrome tab
// and keeps a cross-store price comparison current as the user browses.
//
// Usage:
//
//	pricepanel -config pricepanel.yaml      # full configuration
//	pricepanel -url https://www.amazon.com/dp/B0BZYCJK89
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	_ "modernc.org/sqlite"

	"github.com/hazyhaar/pricepanel/browser"
	"github.com/hazyhaar/pricepanel/gateway"
	"github.com/hazyhaar/pricepanel/panel"
	"github.com/hazyhaar/pricepanel/render"
	"github.com/hazyhaar/pricepanel/store"
)

func main() {
	configPath := flag.String("config", "", "path to pricepanel.yaml config file")
	pageURL := flag.String("url", "", "product page URL (overrides config)")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	flag.Parse()

	var level slog.Level
	switch *logLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger, *configPath, *pageURL); err != nil {
		logger.Error("pricepanel: fatal", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, configPath, pageURL string) error {
	cfg := &Config{}
	if configPath != "" {
		loaded, err := loadConfig(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	} else {
		cfg.applyDefaults()
	}
	if pageURL != "" {
		cfg.Page.URL = pageURL
	}
	if cfg.Page.URL == "" {
		fmt.Fprintln(os.Stderr, "usage: pricepanel -config <file> | -url <url>")
		return errors.New("no product page URL configured")
	}

	var st *store.Store
	if cfg.Store.Path != "" {
		var err error
		st, err = store.Open(cfg.Store.Path,
			store.WithMkdirAll(), store.WithLogger(logger))
		if err != nil {
			return err
		}
		defer st.Close()
	}

	mgr := browser.NewManager(browser.Config{
		RemoteURL:       cfg.Browser.Remote,
		Headless:        !cfg.Browser.Headful,
		NavigateTimeout: cfg.Browser.NavigateTimeout,
		Logger:          logger,
	})
	if _, err := mgr.Start(ctx); err != nil {
		return err
	}
	defer mgr.Close()

	session := browser.NewSession(mgr)
	if err := session.Open(ctx, cfg.Page.URL); err != nil {
		return err
	}
	defer session.Close()

	gwOpts := []gateway.Option{gateway.WithLogger(logger)}
	if cfg.Backend.Timeout > 0 {
		gwOpts = append(gwOpts, gateway.WithTimeout(cfg.Backend.Timeout))
	}
	gw := gateway.New(cfg.Backend.URL, gwOpts...)

	p := panel.New(panel.Config{
		Gateway:      gw,
		Source:       session,
		Renderer:     render.NewStdout(nil),
		Store:        storeOrNil(st),
		PollInterval: cfg.Watch.PollInterval,
		Debounce:     cfg.Watch.Debounce,
		RetryDelay:   cfg.Watch.RetryDelay,
		Logger:       logger,
	})

	if cfg.Status.Addr != "" {
		go serveStatus(ctx, cfg.Status.Addr, p, st, logger)
	}

	p.SetOpen(true)
	p.Refresh(ctx)
	p.Watch(ctx)
	return nil
}

// storeOrNil avoids storing a typed-nil *store.Store in the panel's
// interface field.
func storeOrNil(st *store.Store) panel.Store {
	if st == nil {
		return nil
	}
	return st
}
