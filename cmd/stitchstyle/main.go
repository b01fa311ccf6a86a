package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/stitchstyle/internal/auth"
	"github.com/nikolayk812/stitchstyle/internal/cart"
	"github.com/nikolayk812/stitchstyle/internal/catalog"
	"github.com/nikolayk812/stitchstyle/internal/checkout"
	"github.com/nikolayk812/stitchstyle/internal/config"
	"github.com/nikolayk812/stitchstyle/internal/httpapi"
	"github.com/nikolayk812/stitchstyle/internal/logging"
	"github.com/nikolayk812/stitchstyle/internal/migrations"
	"github.com/nikolayk812/stitchstyle/internal/port"
	"github.com/nikolayk812/stitchstyle/internal/recommend"
	"github.com/nikolayk812/stitchstyle/internal/repository"
	"github.com/nikolayk812/stitchstyle/internal/session"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

func main() {
	bootLog, _ := logging.New(os.Stdout, "info")

	cfg, err := config.Load(".env", bootLog)
	if err != nil {
		bootLog.WithError(err).Fatal("invalid configuration")
	}

	log, err := logging.New(os.Stdout, cfg.LogLevel)
	if err != nil {
		bootLog.WithError(err).Fatal("invalid log level")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.WithError(err).Fatal("storefront stopped")
	}
}

func run(ctx context.Context, cfg config.Config, log *logrus.Logger) error {
	slots, closeSlots, err := openSlots(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("openSlots: %w", err)
	}
	defer closeSlots()

	products, err := loadCatalog(cfg)
	if err != nil {
		return fmt.Errorf("loadCatalog: %w", err)
	}

	sessions := session.New(ctx, slots, auth.NewMock(cfg.AuthDelay), log)
	carts := cart.New(ctx, slots, log)

	orders, err := checkout.New(carts, sessions, log)
	if err != nil {
		return fmt.Errorf("checkout.New: %w", err)
	}

	tool := recommend.NewTool(recommend.NewClient(cfg.RecommenderURL, cfg.RecommenderTimeout), log)

	if cfg.LogLevel != "debug" && cfg.LogLevel != "trace" {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := &http.Server{
		Addr: ":" + cfg.Port,
		Handler: httpapi.New(httpapi.Deps{
			Catalog:  products,
			Session:  sessions,
			Cart:     carts,
			Checkout: orders,
			Tool:     tool,
			Log:      log,

			AllowOrigins: cfg.CORSOrigins,
		}).Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithFields(logrus.Fields{
			"port":  cfg.Port,
			"slots": cfg.SlotBackend,
		}).Info("storefront listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	log.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}

func openSlots(ctx context.Context, cfg config.Config, log logrus.FieldLogger) (port.SlotRepository, func(), error) {
	switch cfg.SlotBackend {
	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:         cfg.RedisAddr,
			Password:     cfg.RedisPassword,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("client.Ping: %w", err)
		}
		log.WithField("addr", cfg.RedisAddr).Info("redis slots connected")

		return repository.NewRedisSlots(client, cfg.RedisKeyPrefix), func() { _ = client.Close() }, nil

	case config.BackendPostgres:
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("pgxpool.New: %w", err)
		}
		if err := migrations.Up(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("migrations.Up: %w", err)
		}
		log.Info("postgres slots connected")

		return repository.NewSlots(pool), pool.Close, nil

	default:
		return repository.NewMemorySlots(), func() {}, nil
	}
}

func loadCatalog(cfg config.Config) (*catalog.Catalog, error) {
	if cfg.CatalogFile == "" {
		return catalog.Default()
	}
	return catalog.Load(cfg.CatalogFile)
}
