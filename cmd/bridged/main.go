package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"stagelink.dev/internal/bridge"
	"stagelink.dev/internal/catalog"
	"stagelink.dev/internal/config"
	"stagelink.dev/internal/logging"
	"stagelink.dev/internal/persistence/journal"
	"stagelink.dev/internal/persistence/ledger"
	"stagelink.dev/internal/scene"
	"stagelink.dev/internal/transport/monitor"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to bridge.yaml (optional; defaults apply without one)")
		dataDir    = flag.String("data", "", "override data directory")
		listen     = flag.String("listen", "", "override monitor listen address")
		scopeID    = flag.String("scope", "", "override scope id")
		assetsPath = flag.String("assets", "", "override asset table path")
		logLevel   = flag.String("log_level", "", "override log level")
	)
	flag.Parse()

	cfg := config.Defaults()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			lg := logging.New("bridged", "info")
			lg.Fatal().Err(err).Str("path", *configPath).Msg("load config")
		}
		cfg = loaded
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}
	if *listen != "" {
		cfg.MonitorListen = *listen
	}
	if *scopeID != "" {
		cfg.ScopeID = *scopeID
	}
	if *assetsPath != "" {
		cfg.AssetTable = *assetsPath
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}

	logger := logging.New("bridged", cfg.LogLevel)

	var table *catalog.Table
	if cfg.AssetTable != "" {
		t, err := catalog.Load(cfg.AssetTable)
		if err != nil {
			logger.Fatal().Err(err).Msg("load asset table")
		}
		table = t
		logger.Info().
			Int("assets", table.Len()).
			Str("digest", table.DefsDigest[:12]).
			Msg("asset table loaded")
	} else {
		logger.Warn().Msg("no asset table configured; AddObject is disabled")
	}

	sc := scene.NewMemScope(cfg.ScopeID)
	for _, name := range cfg.ReservedNames {
		sc.ReserveName(name)
	}
	if table != nil {
		for _, name := range table.Names {
			d := table.Defs[name]
			sc.RegisterAsset(d.Path, d.Kind)
		}
	}

	scopeDir := filepath.Join(cfg.DataDir, "scopes", cfg.ScopeID)

	jw := journal.NewWriter(filepath.Join(scopeDir, "journal"))
	defer jw.Close()

	feed := journal.NewFeed()
	sinks := []bridge.Sink{jw, feed}

	if !cfg.DisableLedger {
		ix, err := ledger.Open(filepath.Join(scopeDir, "index", "ledger.sqlite"))
		if err != nil {
			logger.Fatal().Err(err).Msg("open ledger")
		}
		defer ix.Close()
		sinks = append(sinks, ix)
	}

	b := bridge.New(sc, table, logger, sinks...)
	logger.Info().
		Str("session", b.Session()).
		Str("scope", cfg.ScopeID).
		Msg("bridge ready")

	// Seed objects go through Dispatch so they are journaled and replayable
	// like everything else.
	for _, seed := range cfg.SeedObjects {
		name := seed.Name
		if name == "" {
			name = seed.Asset
		}
		line := "AddObject " + seed.Asset + " " + name
		if seed.Transform != "" {
			line += " " + seed.Transform
		}
		if res := b.Dispatch(line); !res.OK {
			logger.Warn().
				Str("asset", seed.Asset).
				Str("code", res.Code).
				Str("message", res.Message).
				Msg("seed object failed")
		}
	}

	ctx, cancel := signalContext()
	defer cancel()

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(200)
		_, _ = rw.Write([]byte("ok"))
	})
	monitor.NewServer(b, feed, logger).Register(mux)

	srv := &http.Server{
		Addr:              cfg.MonitorListen,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel2()
		_ = srv.Shutdown(ctx2)
	}()

	logger.Info().Str("addr", cfg.MonitorListen).Msg("monitor listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal().Err(err).Msg("monitor server")
	}
	logger.Info().Msg("shutting down")
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan os.Signal, 2)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ch
		cancel()
	}()
	return ctx, cancel
}
