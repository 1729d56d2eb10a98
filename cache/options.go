package cache

import (
	"math/rand"
	"time"

	"github.com/dlshle/lrucache/logging"
	"github.com/dlshle/lrucache/utils"
)

type config[K comparable, V any] struct {
	clock     func() time.Time
	rand      *rand.Rand
	logger    logging.Logger
	onRemoval RemovalListener[K, V]
}

type Option[K comparable, V any] func(*config[K, V])

func defaultConfig[K comparable, V any]() *config[K, V] {
	return &config[K, V]{
		clock:  time.Now,
		logger: logging.Discard(),
	}
}

func buildConfig[K comparable, V any](opts []Option[K, V]) *config[K, V] {
	cfg := defaultConfig[K, V]()
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.rand == nil {
		cfg.rand = utils.NewRand()
	}
	return cfg
}

// WithClock replaces time.Now as the time source.
func WithClock[K comparable, V any](clock func() time.Time) Option[K, V] {
	return func(c *config[K, V]) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithRand sets the source used to pick among expired victims. The cache
// only touches it under its lock, so it must not be shared with other users.
func WithRand[K comparable, V any](r *rand.Rand) Option[K, V] {
	return func(c *config[K, V]) {
		c.rand = r
	}
}

func WithLogger[K comparable, V any](logger logging.Logger) Option[K, V] {
	return func(c *config[K, V]) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func WithRemovalListener[K comparable, V any](listener RemovalListener[K, V]) Option[K, V] {
	return func(c *config[K, V]) {
		c.onRemoval = listener
	}
}
