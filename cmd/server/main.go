package main

import (
	"context"
	"energydash/internal/api"
	"energydash/internal/config"
	"energydash/internal/db"
	"energydash/internal/engine"
	"energydash/internal/logging"
	"energydash/internal/snapshot"
	"energydash/internal/watch"
	"energydash/internal/web"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	glog "github.com/labstack/gommon/log"
	"golang.org/x/time/rate"
)

func loadStore(ctx context.Context, cfg config.Config) (*engine.ColumnStore, error) {
	switch cfg.Source {
	case config.SourceDB:
		store, err := db.Connect(ctx, cfg.DB)
		if err != nil {
			return nil, err
		}
		defer store.Close()
		obs, err := store.Observations(ctx)
		if err != nil {
			return nil, fmt.Errorf("read observations: %w", err)
		}
		return engine.NewColumnStore(obs), nil
	default:
		return engine.LoadWorkbooks(cfg.DataDir)
	}
}

// middlewares returns the request chain. A zero RateLimit leaves the limiter out.
func middlewares(cfg config.Config, logOut io.Writer) []echo.MiddlewareFunc {
	mw := []echo.MiddlewareFunc{
		middleware.CORS(),
		middleware.Recover(),
		middleware.LoggerWithConfig(middleware.LoggerConfig{Output: logOut}),
	}
	if cfg.RateLimit > 0 {
		mw = append(mw, middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(rate.Limit(cfg.RateLimit))))
	}
	return mw
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	logOut, logCloser := logging.Setup(cfg.LogFile)
	defer logCloser.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Initialize Echo (Starts Instantly)
	e := echo.New()
	e.HideBanner = true
	e.JSONSerializer = api.JSONSerializer{}
	e.Logger.SetLevel(glog.INFO)
	e.Use(middlewares(cfg, logOut)...)

	// 2. Initialize Handler with NIL data
	// The API is now "live" but will return 503 (Loading) if hit
	h := api.NewHandler(nil, cfg.Source)
	h.RegisterRoutes(e)
	web.Register(e, cfg.StaticDir)

	// A snapshot from the last run answers until the fresh load lands.
	if src, obs, err := snapshot.Load(cfg.Snapshot); err == nil {
		h.SetData(engine.NewColumnStore(obs), src+" (snapshot)")
		log.Printf("Serving %d observations from snapshot %s", len(obs), cfg.Snapshot)
	} else if !errors.Is(err, os.ErrNotExist) {
		log.Println("Ignoring snapshot:", err)
	}

	// Loads are serialized; a reload waits for the one in flight.
	var loadMu sync.Mutex
	reload := func() {
		loadMu.Lock()
		defer loadMu.Unlock()
		t0 := time.Now()
		store, err := loadStore(ctx, cfg)
		if err != nil {
			log.Println("BACKGROUND: ETL failed:", err)
			h.SetError(err)
			return
		}
		h.SetData(store, cfg.Source)
		if err := snapshot.Save(cfg.Snapshot, cfg.Source, store.Observations()); err != nil {
			log.Println("BACKGROUND: snapshot not saved:", err)
		}
		log.Printf("BACKGROUND: ETL Complete in %v. API is fully ready.", time.Since(t0))
	}

	// 3. Launch ETL in Background
	go func() {
		log.Println("BACKGROUND: Starting ETL Pipeline...")
		reload()
	}()

	if cfg.Watch && cfg.Source == config.SourceXLSX {
		go func() {
			log.Println("Watching", cfg.DataDir, "for workbook changes")
			if err := watch.Dir(ctx, cfg.DataDir, watch.IsWorkbook, 2*time.Second, reload); err != nil {
				log.Println("Watcher stopped:", err)
			}
		}()
	}

	// 4. Start Server (This happens immediately)
	go func() {
		log.Printf("Server ready on port %s (Data loading in background...)", cfg.Port)
		if err := e.Start(":" + cfg.Port); err != nil {
			log.Println("Server stopped:", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Println("Shutdown:", err)
	}
}
