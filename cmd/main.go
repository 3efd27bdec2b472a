package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-admin-dashboard/config"
	"github.com/oksasatya/go-admin-dashboard/internal/application"
	"github.com/oksasatya/go-admin-dashboard/internal/container"
	repo "github.com/oksasatya/go-admin-dashboard/internal/domain/repository"
	"github.com/oksasatya/go-admin-dashboard/internal/infrastructure/mock"
	pginfra "github.com/oksasatya/go-admin-dashboard/internal/infrastructure/postgres"
	"github.com/oksasatya/go-admin-dashboard/internal/infrastructure/rabbitmq"
	"github.com/oksasatya/go-admin-dashboard/internal/router"
	"github.com/oksasatya/go-admin-dashboard/pkg/helpers"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env, cfg.LogLevel)
	gin.SetMode(cfg.GinMode)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	source, closeSource := buildSource(ctx, cfg, logger)
	defer closeSource()

	store := application.NewStore(source, cfg.LoadDelay, logger)

	if cfg.UserSource == config.SourcePostgres && cfg.PersistChanges {
		if w, ok := source.(repo.ChangeWriter); ok {
			store.Subscribe(application.PersistChanges(w, logger, 5*time.Second))
		}
	}

	if cfg.EventsEnabled {
		pub, err := rabbitmq.NewPublisher(cfg.RabbitMQURL, cfg.RabbitMQEventsQueue, logger)
		if err != nil {
			log.Fatalf("failed to connect to rabbitmq: %v", err)
		}
		defer pub.Close()
		store.Subscribe(pub.Listener())
		logger.WithField("queue", cfg.RabbitMQEventsQueue).Info("publishing user events")
	}

	c := container.New(cfg, logger, store)
	if cfg.RedisAddr != "" {
		rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		defer func() { _ = rdb.Close() }()
		if err := helpers.PingRedis(ctx, rdb, 2*time.Second); err != nil {
			helpers.LogError(logger, "redis unreachable; rate limiting fails open", err, logrus.Fields{"addr": cfg.RedisAddr})
		}
		c.WithRedis(rdb)
	}

	// The initial load runs in the background; requests see a loading state
	// until it completes. stop() cancels it if we shut down first.
	go func() {
		if err := store.Load(ctx); err != nil && !errors.Is(err, context.Canceled) {
			helpers.LogError(logger, "initial user load failed", err, nil)
		}
	}()

	r := router.NewEngine(c)

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		logger.Infof("server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")
	stop()

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Fatalf("server forced to shutdown: %v", err)
	}
	logger.Info("server exited properly")
}

// buildSource selects the user source; the returned func releases its resources.
func buildSource(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (repo.UserSource, func()) {
	if cfg.UserSource != config.SourcePostgres {
		logger.WithField("count", cfg.MockUserCount).Info("using generated users")
		return mock.NewUserSource(cfg.MockUserCount, cfg.MockSeed), func() {}
	}

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), pginfra.PoolOptions{
		MaxConns:        cfg.DBMaxConns,
		MinConns:        cfg.DBMinConns,
		MaxConnLifetime: cfg.DBMaxConnLife,
	})
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	if err := pginfra.RunMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
		pool.Close()
		log.Fatalf("migration failed: %v", err)
	}
	return pginfra.NewUserRepository(pool), pool.Close
}
