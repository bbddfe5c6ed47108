package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/hazyhaar/pricepanel/panel"
	"github.com/hazyhaar/pricepanel/store"
)

// serveStatus runs the local diagnostics server until ctx is cancelled.
func serveStatus(ctx context.Context, addr string, p *panel.Panel, st *store.Store, logger *slog.Logger) {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ok\n"))
	})
	r.Get("/status", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, p.Stats())
	})
	r.Get("/view", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, p.View())
	})
	r.Get("/events", func(w http.ResponseWriter, req *http.Request) {
		if st == nil {
			http.Error(w, "no store configured", http.StatusNotFound)
			return
		}
		events, err := st.RecentRefreshes(req.Context(), 50)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, events)
	})

	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		srv.Shutdown(shutCtx)
	}()

	logger.Info("pricepanel: status server listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("pricepanel: status server failed", "error", err)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
