package app

import (
	"context"
	"fmt"
	"time"

	"github.com/leakradar-hq/leakradar-go/internal/config"
	"github.com/leakradar-hq/leakradar-go/internal/logger"
	"github.com/leakradar-hq/leakradar-go/internal/metrics"
	"github.com/leakradar-hq/leakradar-go/internal/storage"
	"github.com/leakradar-hq/leakradar-go/internal/watch"
	"github.com/leakradar-hq/leakradar-go/pkg/leakradar"
	"github.com/leakradar-hq/leakradar-go/pkg/queries"
	"github.com/leakradar-hq/leakradar-go/pkg/sinks"
)

// Watcher represents the leak watch runtime. It manages the watch loop,
// coordinating between saved queries, the watch service, and alert sinks.
// It also handles storage initialization and cleanup.
type Watcher struct {
	cfg           *config.Config
	queryReg      *queries.ConfigRegistry
	fanout        *sinks.Fanout
	watchService  *watch.Service
	watchInterval time.Duration
	client        *leakradar.Client
	log           logger.Logger
	store         storage.Store
}

// NewWatcher builds a watcher runtime from config files.
func NewWatcher(ctx context.Context, cfg *config.Config, log logger.Logger) (*Watcher, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	client := newAPIClient(cfg, log)
	if err := checkProfile(ctx, client, log); err != nil {
		client.Close()
		return nil, err
	}

	queryReg, err := queries.LoadRegistry(cfg.QueriesFile)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("load queries registry: %w", err)
	}
	queryList := queryReg.All()
	queryIDs := make([]string, 0, len(queryList))
	for _, q := range queryList {
		queryIDs = append(queryIDs, q.ID)
	}
	log.InfoObj("queries registry loaded", "queries_meta", map[string]any{
		"count": len(queryIDs),
		"ids":   queryIDs,
	})

	sinkReg, err := sinks.LoadRegistry(cfg.SinksFile)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("load sinks registry: %w", err)
	}

	enabledSinks := sinkReg.Enabled()
	if len(enabledSinks) == 0 {
		client.Close()
		return nil, fmt.Errorf("no sinks configured")
	}

	sinkRegistry := sinks.DefaultRegistry()
	sinkClients, err := sinks.BuildAll(ctx, sinkRegistry, enabledSinks, log)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("build sinks: %w", err)
	}
	fanout := sinks.NewFanout(sinkClients)
	sinkSummaries := make([]map[string]string, 0, len(enabledSinks))
	for _, sinkCfg := range enabledSinks {
		sinkSummaries = append(sinkSummaries, map[string]string{
			"id":   sinkCfg.ID,
			"type": sinkCfg.Type,
		})
	}
	log.InfoObj("sinks registry loaded", "sinks_meta", map[string]any{
		"count": len(sinkSummaries),
		"sinks": sinkSummaries,
	})

	storeOpts := storage.Options{
		FindingTTL:      cfg.StorageTTL,
		CleanupInterval: cfg.StorageCleanupInterval,
	}
	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath, storeOpts)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("init storage: %w", err)
	}
	log.InfoObj("storage initialized", "storage_config", map[string]any{
		"type":                     cfg.StorageType,
		"path":                     cfg.BBoltPath,
		"finding_ttl_seconds":      int(cfg.StorageTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.StorageCleanupInterval.Seconds()),
	})

	watchService := watch.NewService(queries.DefaultRunnerRegistry(client), fanout, client, log, store)

	return &Watcher{
		cfg:           cfg,
		queryReg:      queryReg,
		fanout:        fanout,
		watchService:  watchService,
		watchInterval: cfg.WatchInterval,
		client:        client,
		log:           log,
		store:         store,
	}, nil
}

// Run starts the watch loop until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	if w == nil || w.watchService == nil {
		return fmt.Errorf("watcher is not initialized")
	}
	defer w.close()

	qs := w.queryReg.Enabled()
	if len(qs) == 0 {
		w.log.WarnObj("no queries enabled; watcher idle", "queries_file", w.cfg.QueriesFile)
		<-ctx.Done()
		return ctx.Err()
	}

	w.serveMetrics()

	w.log.InfoObj("watcher loop starting", "watcher_state", map[string]any{
		"queries_count":  len(qs),
		"sinks_count":    w.fanout.Size(),
		"watch_interval": w.watchInterval.String(),
	})

	if err := w.runOnce(ctx, qs); err != nil {
		w.log.ErrorObj("initial watch pass failed", "error", err)
	}

	ticker := time.NewTicker(w.watchInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.InfoObj("watcher loop exiting", "reason", ctx.Err())
			return nil
		case <-ticker.C:
			if err := w.runOnce(ctx, qs); err != nil {
				w.log.ErrorObj("scheduled watch pass failed", "error", err)
			}
		}
	}
}

// runOnce performs a single watch pass across all enabled queries.
func (w *Watcher) runOnce(ctx context.Context, qs []queries.Query) error {
	start := time.Now()
	w.log.InfoObj("watch pass started", "watch_meta", map[string]any{
		"queries_count": len(qs),
		"started_at":    start.UTC(),
	})
	if err := w.watchService.Run(ctx, qs); err != nil {
		return err
	}
	w.log.InfoObj("watch pass completed", "watch_meta", map[string]any{
		"queries_count": len(qs),
		"elapsed_ms":    time.Since(start).Milliseconds(),
	})
	return nil
}

// serveMetrics exposes the Prometheus endpoint when an address is configured.
func (w *Watcher) serveMetrics() {
	addr := w.cfg.MetricsAddr
	if addr == "" {
		return
	}
	go func() {
		if err := metrics.Serve(addr); err != nil {
			w.log.ErrorObj("metrics server stopped", "error", err)
		}
	}()
	w.log.InfoObj("metrics server listening", "metrics_addr", addr)
}

// close releases the storage backend and the API client, logging any errors.
func (w *Watcher) close() {
	if w == nil {
		return
	}
	if w.store != nil {
		if err := w.store.Close(); err != nil {
			w.log.ErrorObj("storage close failed", "error", err)
		}
	}
	if w.client != nil {
		w.client.Close()
	}
}
