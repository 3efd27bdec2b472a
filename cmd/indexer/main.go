package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/oksasatya/go-admin-dashboard/config"
	"github.com/oksasatya/go-admin-dashboard/internal/infrastructure/rabbitmq"
	"github.com/oksasatya/go-admin-dashboard/internal/infrastructure/search"
	"github.com/oksasatya/go-admin-dashboard/pkg/helpers"
)

// indexer keeps the Elasticsearch users index in step with the store by
// consuming the user events queue.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-indexer", cfg.Env, cfg.LogLevel)

	if cfg.RabbitMQURL == "" || cfg.RabbitMQEventsQueue == "" {
		log.Fatal("RabbitMQ not configured")
	}
	if len(cfg.ESAddrs()) == 0 || cfg.ESUsersIndex == "" {
		log.Fatal("Elasticsearch not configured")
	}

	es, err := search.NewESClient(cfg.ESAddrs(), cfg.ElasticsearchUser, cfg.ElasticsearchPass)
	if err != nil {
		log.Fatalf("elasticsearch client: %v", err)
	}
	indexer := search.NewIndexer(es, cfg.ESUsersIndex, logger)

	consumer, err := rabbitmq.NewConsumer(cfg.RabbitMQURL, cfg.RabbitMQEventsQueue, 16, logger)
	if err != nil {
		log.Fatalf("amqp: %v", err)
	}
	defer consumer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.WithField("queue", cfg.RabbitMQEventsQueue).Info("indexer listening")
	if err := consumer.Run(ctx, indexer.Handle); err != nil {
		log.Fatalf("consume: %v", err)
	}
	logger.Info("indexer stopped")
}
