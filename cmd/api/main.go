package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/BalramApply/WealthStream/internal/config"
	"github.com/BalramApply/WealthStream/internal/db"
	"github.com/BalramApply/WealthStream/internal/handlers"
	"github.com/BalramApply/WealthStream/internal/ledger"
	"github.com/BalramApply/WealthStream/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

// storeBundle is what the server needs from a storage backend.
type storeBundle struct {
	store   ledger.Store
	catalog db.ProductCatalog
	close   func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("config error: %v", err)
	}
	logger := cfg.NewLogger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	backend, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("open store: %v", err)
	}
	defer backend.close()

	catalog := backend.catalog
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer client.Close()
		if err := client.Ping(ctx).Err(); err != nil {
			logger.WithError(err).Warn("Redis unreachable, catalog cache will fall back to the store")
		}
		catalog = db.NewCachedCatalog(catalog, client, cfg.Redis.TTL, logger)
		logger.WithField("addr", cfg.Redis.Addr).Info("Catalog cache enabled")
	}

	hub := ledger.NewHub(logger)
	l := ledger.New(backend.store, catalog,
		ledger.WithLogger(logger),
		ledger.WithPublisher(hub),
		ledger.WithCurrency(cfg.Ledger.Currency),
	)

	// Initialize order dispatcher
	dispatcher := ledger.NewDispatcher(l, cfg.Orders.Workers, cfg.Orders.QueueSize, logger)
	dispatcher.Start()
	defer dispatcher.Stop()

	// Set Gin mode based on environment
	if cfg.HTTP.GinMode != "" {
		gin.SetMode(cfg.HTTP.GinMode)
	}

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr(),
		Handler:           handlers.NewRouter(handlers.New(dispatcher, l, catalog, hub, logger)),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Infof("🚀 Server starting on http://localhost%s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info("Shutting down server")
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Errorf("server error: %v", err)
	}
}

func openStore(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*storeBundle, error) {
	if cfg.Store == config.StoreMemory {
		return openMemoryStore(ctx, cfg, logger)
	}

	database, err := db.Open(ctx, cfg.Postgres.DSN, logger)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(ctx, database); err != nil {
		db.Close(database, logger)
		return nil, err
	}
	return &storeBundle{
		store:   db.NewPostgresStore(database),
		catalog: db.NewPostgresCatalog(database),
		close:   func() { db.Close(database, logger) },
	}, nil
}

// openMemoryStore starts with the reference catalog and one demo user.
func openMemoryStore(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*storeBundle, error) {
	store := db.NewMemoryStore()
	catalog := db.NewMemoryCatalog(db.ReferenceProducts()...)

	demo := &models.User{
		ID:     uuid.NewString(),
		Name:   "Demo Investor",
		Email:  "demo@wealthstream.local",
		Wallet: models.Wallet{Balance: cfg.Ledger.DefaultWalletBalance},
	}
	if err := store.CreateUser(ctx, demo); err != nil {
		return nil, err
	}
	logger.WithFields(logrus.Fields{
		"user_id": demo.ID,
		"balance": demo.Wallet.Balance.String(),
	}).Warn("Using in-memory store, data is lost on exit")

	return &storeBundle{
		store:   store,
		catalog: catalog,
		close:   func() {},
	}, nil
}
