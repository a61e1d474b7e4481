package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/oeeboard/oeeboard/server/internal/alerts"
	"github.com/oeeboard/oeeboard/server/internal/api"
	"github.com/oeeboard/oeeboard/server/internal/auth"
	"github.com/oeeboard/oeeboard/server/internal/compute"
	"github.com/oeeboard/oeeboard/server/internal/config"
	"github.com/oeeboard/oeeboard/server/internal/dataset"
	"github.com/oeeboard/oeeboard/server/internal/exporter"
	"github.com/oeeboard/oeeboard/server/internal/store"
	"github.com/oeeboard/oeeboard/server/internal/ws"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	dataPath := flag.String("data", "", "production spreadsheet (.xlsx or .csv); overrides dataset.path")
	uiDir := flag.String("ui-dir", "", "serve the dashboard UI static files from this directory (e.g. ui/dist); leave empty to disable")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	slog.Info("oeeboard starting", "config", *configPath)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	if *dataPath != "" {
		cfg.Dataset.Path = *dataPath
	}

	slog.Info("config loaded",
		"http_port", cfg.Server.HTTPPort,
		"auth_mode", cfg.Server.Auth.Mode,
		"dataset", cfg.Dataset.Path,
		"alert_rules", len(cfg.Alerts.Rules),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Dataset: loaded once, computed once, kept for the process lifetime.
	st := store.New()
	src := dataset.Source{
		Path:    cfg.Dataset.Path,
		Sheet:   cfg.Dataset.Sheet,
		Comma:   cfg.Dataset.Comma(),
		Workers: cfg.Dataset.Workers,
	}
	provider := dataset.Provider{Store: st, Source: src}

	// Load in the background so /api/v1/health answers while a large
	// workbook is still being parsed. A failed load is reported by every
	// data endpoint; the server keeps running.
	go func() {
		e, err := dataset.Load(ctx, st, src)
		if err != nil {
			slog.Error("dataset load failed", "path", src.Path, "err", err)
			return
		}
		slog.Info("dataset ready", "path", e.Source, "rows", len(e.Table), "load_id", e.LoadID)
	}()

	if cfg.Dataset.Watch {
		go func() {
			if err := config.WatchDataset(ctx, src.Path); err != nil {
				slog.Warn("dataset watch disabled", "path", src.Path, "err", err)
			}
		}()
	}

	targets := targetsFrom(cfg.Targets)
	alertEngine := alerts.New(cfg.Alerts)

	// Alert rules are reloaded live; everything else needs a restart.
	go func() {
		err := config.Watch(ctx, *configPath, func(next *config.Config) {
			alertEngine.SetRules(next.Alerts)
			if next.Dataset != cfg.Dataset || next.Targets != cfg.Targets || next.Server.HTTPPort != cfg.Server.HTTPPort {
				slog.Warn("config changed; restart to apply dataset, target and listener settings")
			}
		})
		if err != nil {
			slog.Warn("config watch disabled", "path", *configPath, "err", err)
		}
	}()

	// WebSocket hub — pushes the dashboard snapshot when the dataset state changes.
	hub := ws.New(provider, targets, cfg.Server.Stream.Interval)
	go hub.Run(ctx)

	apiKey := auth.APIKey(
		cfg.Server.Auth.Mode,
		cfg.Server.Auth.EffectiveHeader(),
		cfg.Server.Auth.Key(),
	)

	// Combined HTTP server: REST API, WebSocket hub and /metrics on HTTPPort.
	httpMux := http.NewServeMux()
	httpMux.Handle("/api/", auth.RequestID(apiKey(api.New(provider, alertEngine, targets))))
	httpMux.Handle("/ws/stream", hub)
	httpMux.Handle("/metrics", exporter.Handler(provider, targets))

	// Optional: serve the pre-built dashboard UI from a local directory.
	// Usage:  ./bin/oeeboard -config config.yaml -ui-dir ui/dist
	// The "/" catch-all serves index.html for any unknown path (SPA routing).
	if *uiDir != "" {
		fs := http.FileServer(http.Dir(*uiDir))
		httpMux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
			// SPA fallback: if the requested file doesn't exist, serve index.html.
			path := *uiDir + r.URL.Path
			if _, err := os.Stat(path); os.IsNotExist(err) {
				http.ServeFile(w, r, *uiDir+"/index.html")
				return
			}
			fs.ServeHTTP(w, r)
		})
		slog.Info("serving UI static files", "dir", *uiDir)
	}

	httpSrv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler:           httpMux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		slog.Info("HTTP server listening", "port", cfg.Server.HTTPPort)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server stopped", "err", err)
			cancel()
		}
	}()

	<-ctx.Done()
	slog.Info("oeeboard shutting down")
	shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
	defer done()
	httpSrv.Shutdown(shutdownCtx) //nolint:errcheck
}

// targetsFrom converts the configured goals into the engine's Targets.
func targetsFrom(c config.TargetsConfig) compute.Targets {
	return compute.Targets{
		OEE:          c.OEE,
		Availability: c.Availability,
		Performance:  c.Performance,
		Quality:      c.Quality,
		MaxWastePct:  c.MaxWastePct,
	}
}
