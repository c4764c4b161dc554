package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"videohub/internal/basket"
	"videohub/internal/catalog"
	"videohub/internal/curation"
	"videohub/internal/multiplayer"
	"videohub/internal/platform/config"
	"videohub/internal/platform/logger"
	"videohub/internal/platform/metrics"

	"github.com/go-chi/chi/v5"
)

const (
	shutdownTimeout  = 10 * time.Second
	initialFetchSize = 100
)

func main() {
	_ = config.Load()

	port := config.GetEnv("PORT", "8080")
	logLevel := config.GetEnv("LOG_LEVEL", "info")
	logFormat := config.GetEnv("LOG_FORMAT", "json")
	logRequests := config.GetEnvBool("LOG_REQUESTS", true)
	backendURL := config.GetEnv("BACKEND_URL", "http://localhost:3001")
	dataFile := config.GetEnv("DATA_FILE", "")
	basketFile := config.GetEnv("BASKET_FILE", basket.StorageKey+".json")
	scrapeURL := config.GetEnv("SCRAPE_URL", backendURL+"/api/selenium-scrape")
	pageSize := config.GetEnvInt("PAGE_SIZE", catalog.DefaultPageSize)
	refreshMinutes := config.GetEnvInt("CATALOG_REFRESH_MINUTES", 0)

	log := logger.New(logLevel, logFormat)

	catalogStore := catalog.NewStore()
	client := catalog.NewClient(backendURL, nil)
	ingest := func(ctx context.Context) error {
		var (
			videos []catalog.Video
			err    error
		)
		if dataFile != "" {
			videos, err = catalog.LoadBundle(dataFile)
		} else {
			videos, _, err = client.FetchPage(ctx, 1, initialFetchSize, "")
		}
		if err != nil {
			return err
		}
		catalogStore.Replace(catalog.NewSnapshot(videos))
		return nil
	}

	startCtx, startCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := ingest(startCtx); err != nil {
		// An empty catalog degrades the UI but never blocks startup.
		log.Warn("initial catalog ingestion failed, starting empty", "error", err)
	}
	startCancel()

	basketSvc := basket.NewService(basket.NewFileStore(basketFile), log)
	met := metrics.New()
	if dropped := basketSvc.Reconcile(catalogStore.Current()); len(dropped) > 0 {
		met.AddBasketOrphans(len(dropped))
	}

	mgr := multiplayer.NewManager(multiplayer.NewHTTPResolver(scrapeURL, nil), log, met)

	catalogH := catalog.NewHandler(catalogStore, log, pageSize)
	curationH := curation.NewHandler(catalogStore, log, met)
	basketH := basket.NewHandler(basketSvc, log, met)
	multiplayerH := multiplayer.NewHandler(mgr, basketSvc, catalogStore, log, met)

	r := chi.NewRouter()
	if logRequests {
		r.Use(logger.RequestLogger(log))
	}
	r.Use(metrics.RequestMiddleware(met))
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		met.Handler(func() {
			met.SetBasketSize(basketSvc.Len())
			met.SetCatalogSize(catalogStore.Current().Len())
		}).ServeHTTP(w, r)
	})
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"status": "healthy", "timestamp": time.Now().Unix()})
	})
	r.Route("/api", func(r chi.Router) {
		r.Get("/videos", catalogH.ListVideos)
		r.Get("/videos/{id}", catalogH.GetVideo)
		r.Get("/search", catalogH.SearchVideos)
		r.Get("/categories", catalogH.ListCategories)
		r.Get("/home", curationH.Home)
		r.Route("/basket", func(r chi.Router) {
			r.Get("/", basketH.Get)
			r.Post("/toggle", basketH.Toggle)
			r.Post("/clear", basketH.Clear)
		})
		r.Route("/multiplayer", func(r chi.Router) {
			r.Get("/", multiplayerH.Get)
			r.Post("/open", multiplayerH.Open)
			r.Post("/close", multiplayerH.Close)
		})
	})

	refreshCtx, refreshCancel := context.WithCancel(context.Background())
	defer refreshCancel()
	if refreshMinutes > 0 {
		go refreshLoop(refreshCtx, time.Duration(refreshMinutes)*time.Minute, log, met, basketSvc, catalogStore, ingest)
	}

	addr := ":" + port
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	log.Info("server starting",
		"port", port,
		"catalog_size", catalogStore.Current().Len(),
		"basket_size", basketSvc.Len(),
		"log_level", logLevel,
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Info("shutdown signal received, draining connections")
	refreshCancel()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("shutdown error", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}

// refreshLoop periodically re-ingests the catalog and reconciles the basket
// against each new snapshot, so basket ids orphaned by a catalog change are
// dropped without user action.
func refreshLoop(ctx context.Context, every time.Duration, log *slog.Logger, met *metrics.Metrics,
	basketSvc *basket.Service, store *catalog.Store, ingest func(context.Context) error) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := ingest(ctx); err != nil {
				log.Warn("catalog refresh failed, keeping current snapshot", "error", err)
				continue
			}
			snap := store.Current()
			if dropped := basketSvc.Reconcile(snap); len(dropped) > 0 {
				met.AddBasketOrphans(len(dropped))
			}
			log.Info("catalog refreshed", "size", snap.Len())
		}
	}
}
