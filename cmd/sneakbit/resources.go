package main

import (
	"context"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/term"

	"github.com/vovakirdan/sneakbit/internal/config"
	"github.com/vovakirdan/sneakbit/internal/core"
	"github.com/vovakirdan/sneakbit/internal/metrics"
	"github.com/vovakirdan/sneakbit/internal/storage"
	"github.com/vovakirdan/sneakbit/internal/tilemap"
)

// resources are the long-lived dependencies of the game commands. Every
// field but the context may be nil.
type resources struct {
	store   *storage.Store
	cache   *tilemap.Cache
	metrics *metrics.Metrics

	cancel context.CancelFunc
}

// openResources opens the database and the raster cache, and starts the
// metrics endpoint when enabled. Failures degrade features instead of
// stopping the game.
func openResources(ctx context.Context) *resources {
	r := &resources{}
	ctx, r.cancel = context.WithCancel(ctx)

	store, err := storage.Open(appConfig.Storage.DBPath)
	if err != nil {
		logger.Warn("could not open database, progress will not be saved", "err", err)
	} else {
		r.store = store
	}

	cache, err := tilemap.NewCache(config.ExpandHome(appConfig.Client.RasterCacheDir), logger.WithPrefix("tilemap"))
	if err != nil {
		logger.Warn("raster cache on disk unavailable, keeping rasters in memory", "err", err)
		cache, err = tilemap.NewCache("", logger.WithPrefix("tilemap"))
	}
	if err == nil {
		r.cache = cache
	}

	if appConfig.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		r.metrics = metrics.New(reg)
		if r.cache != nil {
			r.metrics.WatchRasters(r.cache)
		}
		go func() {
			if err := metrics.Serve(ctx, appConfig.Metrics.Address, reg, logger.WithPrefix("metrics")); err != nil {
				logger.Error("metrics server stopped", "err", err)
			}
		}()
	}
	return r
}

func (r *resources) Close() {
	r.cancel()
	if r.cache != nil {
		r.cache.Close()
	}
	if r.store != nil {
		r.store.Close() //nolint:errcheck // Exiting anyway
	}
}

// runtimeConfig sizes the frame to the terminal.
func runtimeConfig() core.RuntimeConfig {
	cfg := core.DefaultConfig()
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		cfg.ScreenW = w
		cfg.ScreenH = h
	}
	cfg.TickRate = appConfig.Client.FPS
	cfg.Seed = appConfig.Engine.Seed
	cfg.Scale = appConfig.Client.Scale / core.TileSize
	return cfg
}
