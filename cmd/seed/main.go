package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-admin-dashboard/config"
	"github.com/oksasatya/go-admin-dashboard/internal/infrastructure/mock"
	pginfra "github.com/oksasatya/go-admin-dashboard/internal/infrastructure/postgres"
	"github.com/oksasatya/go-admin-dashboard/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env, cfg.LogLevel)

	count := flag.Int("count", cfg.MockUserCount, "number of users to generate")
	seed := flag.Int64("seed", cfg.MockSeed, "generator seed")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := pginfra.RunMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), pginfra.PoolOptions{
		MaxConns:        cfg.DBMaxConns,
		MinConns:        cfg.DBMinConns,
		MaxConnLifetime: cfg.DBMaxConnLife,
	})
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	users := mock.NewUserSource(*count, *seed).Generate()
	inserted, err := pginfra.NewUserRepository(pool).Insert(ctx, users)
	if err != nil {
		log.Fatalf("failed to seed users: %v", err)
	}
	helpers.LogInfo(logger, "seeded users", logrus.Fields{"generated": len(users), "inserted": inserted, "seed": *seed})
}
