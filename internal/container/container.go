package container

import (
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-admin-dashboard/config"
	"github.com/oksasatya/go-admin-dashboard/internal/application"
)

// Container carries the constructed components that route modules are
// wired from. It is built once in main and passed down explicitly.
type Container struct {
	Config *config.Config
	Logger *logrus.Logger
	Store  *application.Store
	// Redis is optional; nil disables rate limiting.
	Redis *redis.Client
	Now   func() time.Time
}

func New(cfg *config.Config, logger *logrus.Logger, store *application.Store) *Container {
	return &Container{Config: cfg, Logger: logger, Store: store, Now: time.Now}
}

func (c *Container) WithRedis(rdb *redis.Client) *Container {
	c.Redis = rdb
	return c
}
