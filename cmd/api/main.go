package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"

	"github.com/negochallenge/backend/internal/config"
	"github.com/negochallenge/backend/internal/handler"
	"github.com/negochallenge/backend/internal/llm"
	"github.com/negochallenge/backend/internal/model/product"
	"github.com/negochallenge/backend/internal/scheduler"
	aiservice "github.com/negochallenge/backend/internal/service/ai"
	intentservice "github.com/negochallenge/backend/internal/service/intent"
	negotiationservice "github.com/negochallenge/backend/internal/service/negotiation"
	waitlistservice "github.com/negochallenge/backend/internal/service/waitlist"
	"github.com/negochallenge/backend/internal/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	prod, err := loadProduct(cfg.Product.Path)
	if err != nil {
		log.Fatalf("failed to load product config: %v", err)
	}

	st, cleanup, err := openStore(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	defer cleanup()

	classifierClient := newLLMClient(ctx, cfg.LLM.Classifier, "intent classifier")
	chatClient := newLLMClient(ctx, cfg.LLM.Chat, "chat model")

	intentSvc := intentservice.NewService(classifierClient, cfg.LLM.Timeout)
	composer := aiservice.NewComposer(chatClient, prod, cfg.LLM.Timeout)
	negotiationSvc := negotiationservice.NewService(st, intentSvc, composer, prod)
	waitlistSvc := waitlistservice.NewService(st)

	sched := scheduler.New()
	if cfg.Report.DailyEnabled {
		sched.SetReportFunction(func(ctx context.Context) error {
			stats, err := negotiationSvc.Stats(ctx)
			if err != nil {
				return err
			}
			log.Printf("[report] sessions=%d closed=%d conversion=%s avg_final=%.2f",
				stats.TotalSessions, stats.ClosedDeals, stats.ConversionRate, stats.AverageFinalPrice)
			return nil
		})
		if err := sched.Start(); err != nil {
			log.Printf("warning: failed to start scheduler: %v", err)
		}
		defer sched.Stop()
	}

	router := handler.NewRouter(negotiationSvc, waitlistSvc)

	startServer(ctx, cfg.Server, router)
}

func loadProduct(path string) (product.Product, error) {
	if path == "" {
		log.Println("PRODUCT_CONFIG not set, using built-in product defaults")
		return product.Default(), nil
	}
	prod, err := product.Load(path)
	if err != nil {
		return product.Product{}, err
	}
	log.Printf("loaded product config from %s: %s at %.0f GHS", path, prod.Name, prod.StartingPrice)
	return prod, nil
}

// openStore picks MySQL when configured, otherwise the in-memory store. The
// returned cleanup closes the connection pool.
func openStore(ctx context.Context, cfg config.DatabaseConfig) (store.Store, func(), error) {
	if !cfg.Enabled() {
		log.Println("MySQL not configured, using in-memory store")
		return store.NewMemory(), func() {}, nil
	}

	db, err := sql.Open("mysql", cfg.DSN)
	if err != nil {
		return nil, nil, err
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, nil, err
	}

	mysqlStore := store.NewMySQL(db)
	if err := mysqlStore.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, nil, err
	}

	log.Println("MySQL store initialized successfully")
	return mysqlStore, func() { db.Close() }, nil
}

func newLLMClient(ctx context.Context, cfg llm.Config, name string) llm.Client {
	if !cfg.Enabled() {
		log.Printf("%s credentials not configured, falling back to deterministic behavior", name)
		return nil
	}
	client, err := llm.NewClient(ctx, cfg)
	if err != nil {
		log.Printf("warning: failed to initialize %s: %v", name, err)
		return nil
	}
	log.Printf("%s initialized successfully (provider=%s model=%s)", name, cfg.Provider, cfg.Model)
	return client
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("Nego Challenge backend listening on %s", addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
