package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/dlshle/lrucache/cache"
	"github.com/dlshle/lrucache/errors"
	"github.com/dlshle/lrucache/logging"
	"github.com/dlshle/lrucache/performance"
	"github.com/dlshle/lrucache/redis"
	"github.com/dlshle/lrucache/retry"
	"github.com/dlshle/lrucache/store"
)

type options struct {
	capacity  int
	ttl       time.Duration
	shards    int
	ops       int
	logJSON   bool
	logLevel  string
	badgerDir string
	redisAddr string
}

type Product struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// scriptedClock lets the demo replay timed scenarios without sleeping.
type scriptedClock struct {
	start  time.Time
	offset time.Duration
}

func (c *scriptedClock) now() time.Time {
	return c.start.Add(c.offset)
}

func (c *scriptedClock) at(offset time.Duration) {
	c.offset = offset
}

func parseFlags() options {
	var opts options
	flag.IntVar(&opts.capacity, "capacity", 1000, "capacity of the demo caches")
	flag.DurationVar(&opts.ttl, "ttl", time.Minute, "time to live of cached entries")
	flag.IntVar(&opts.shards, "shards", 8, "shard count of the sharded cache demo, 0 skips it")
	flag.IntVar(&opts.ops, "ops", 100000, "operations per throughput measurement")
	flag.BoolVar(&opts.logJSON, "log-json", false, "log newline separated JSON instead of text")
	flag.StringVar(&opts.logLevel, "log-level", "INFO", "TRACE, DEBUG, INFO, WARN, ERROR or FATAL")
	flag.StringVar(&opts.badgerDir, "badger-dir", "", "directory of the badger store, empty keeps it in memory")
	flag.StringVar(&opts.redisAddr, "redis", "", "redis address for the redis store demo, empty skips it")
	flag.Parse()
	return opts
}

func newLogger(opts options) (logging.Logger, error) {
	level, ok := logging.ParseLevel(opts.logLevel)
	if !ok {
		return nil, errors.Errorf("unknown log level %q", opts.logLevel)
	}
	var writer logging.LogWriter = logging.NewConsoleLogWriter(os.Stdout)
	if opts.logJSON {
		writer = logging.NewlineSeparatedJSONWriter(os.Stdout)
	}
	return logging.CreateLevelLogger(writer, "[lrucache]", level).WithGRContextLogging(true), nil
}

func main() {
	opts := parseFlags()
	logger, err := newLogger(opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logging.SetLogger(logger)

	runWith(true, "lru-scenario", lruScenarioT)
	runWith(true, "expired-preferred", expiredPreferredT)
	runWith(opts.shards > 0, "sharded", func(logger logging.Logger) error {
		return shardedT(logger, opts)
	})
	runWith(true, "badger", func(logger logging.Logger) error {
		return badgerT(logger, opts)
	})
	runWith(opts.redisAddr != "", "redis", func(logger logging.Logger) error {
		return redisT(logger, opts)
	})
	logger.Info(context.Background(), "main done")
}

func runWith(run bool, name string, executor func(logging.Logger) error) {
	if !run {
		return
	}
	logging.SetGRContext("demo", name)
	defer logging.DeleteGRContext("demo")
	logger := logging.GlobalLogger.WithPrefix("[" + name + "]")
	if err := executor(logger); err != nil {
		if te, ok := err.(*errors.TrackableError); ok {
			logger.TrackableError(context.Background(), te, "demo failed")
			return
		}
		logger.Errorf(context.Background(), "demo failed: %s", err.Error())
	}
}

// lruScenarioT: capacity 2, ttl 100ms, b is evicted as least recently used
// and a later expires.
func lruScenarioT(logger logging.Logger) error {
	ctx := context.Background()
	clock := &scriptedClock{start: time.Now()}
	c, err := cache.New[string, int](2, 100*time.Millisecond,
		cache.WithClock[string, int](clock.now),
		cache.WithLogger[string, int](logger),
		cache.WithRemovalListener[string, int](func(key string, value int, reason cache.RemovalReason) {
			logger.Infof(ctx, "%s=%d left the cache: %s", key, value, reason)
		}))
	if err != nil {
		return err
	}
	c.Set("a", 1)
	clock.at(10 * time.Millisecond)
	c.Set("b", 2)
	clock.at(20 * time.Millisecond)
	v, ok := c.Get("a")
	logger.Infof(ctx, "t=20ms get a -> %d %v", v, ok)
	clock.at(30 * time.Millisecond)
	c.Set("c", 3)
	logger.Infof(ctx, "t=30ms keys %v", c.Keys())
	clock.at(150 * time.Millisecond)
	v, ok = c.Get("a")
	logger.Infof(ctx, "t=150ms get a -> %d %v, len %d", v, ok, c.Len())
	return nil
}

// expiredPreferredT: capacity 1, ttl 10ms, the expired x makes room for y.
func expiredPreferredT(logger logging.Logger) error {
	ctx := context.Background()
	clock := &scriptedClock{start: time.Now()}
	c, err := cache.New[string, int](1, 10*time.Millisecond,
		cache.WithClock[string, int](clock.now),
		cache.WithLogger[string, int](logger))
	if err != nil {
		return err
	}
	c.Set("x", 1)
	clock.at(20 * time.Millisecond)
	c.Set("y", 2)
	_, xOk := c.Get("x")
	y, yOk := c.Get("y")
	logger.Infof(ctx, "get x -> %v, get y -> %d %v", xOk, y, yOk)
	return nil
}

func shardedT(logger logging.Logger, opts options) error {
	ctx := context.Background()
	single, err := cache.New[string, int](opts.capacity, opts.ttl)
	if err != nil {
		return err
	}
	sharded, err := cache.NewSharded[string, int](opts.shards, opts.capacity, opts.ttl, cache.StringHash)
	if err != nil {
		return err
	}
	keys := make([]string, opts.capacity*2)
	for i := range keys {
		keys[i] = strconv.Itoa(i)
	}
	for name, c := range map[string]cache.Cache[string, int]{"single": single, "sharded": sharded} {
		perSet := performance.MeasureOps(opts.ops, func(i int) {
			c.Set(keys[i%len(keys)], i)
		})
		perGet := performance.MeasureOps(opts.ops, func(i int) {
			c.Get(keys[i%len(keys)])
		})
		logger.Infof(ctx, "%s: set %s/op, get %s/op, len %d", name, perSet, perGet, c.Len())
	}
	return nil
}

func badgerT(logger logging.Logger, opts options) error {
	ctx := context.Background()
	storeLogger := logger.WithWaterMark(logging.WARN)
	var (
		db  *store.BadgerStore[string, Product]
		err error
	)
	if opts.badgerDir == "" {
		db, err = store.NewInMemoryBadgerStore[string, Product](store.JSONCodec[Product]{}, storeLogger)
	} else {
		db, err = store.NewBadgerStore[string, Product](opts.badgerDir, store.JSONCodec[Product]{}, storeLogger)
	}
	if err != nil {
		return err
	}
	c, err := cache.New[string, Product](opts.capacity, opts.ttl, cache.WithLogger[string, Product](logger))
	if err != nil {
		return err
	}
	products := store.NewCachedStore[string, Product](db, c, store.WriteThrough, logger,
		retry.WithMaxRetries(3), retry.WithInterval(10*time.Millisecond), retry.WithBackoff(2))
	defer func() {
		if err := store.CloseAll(products); err != nil {
			logger.Errorf(ctx, "close: %s", err.Error())
		}
	}()

	for i := 0; i < 10; i++ {
		id := "p" + strconv.Itoa(i)
		if err := products.Put(id, Product{ID: id, Name: "product " + id, Price: float64(i) * 1.5}); err != nil {
			return err
		}
	}
	c.Purge()
	performance.MeasureWithLog(logger, "cold reads", func() {
		for i := 0; i < 10; i++ {
			products.Get("p" + strconv.Itoa(i))
		}
	})
	performance.MeasureWithLog(logger, "warm reads", func() {
		for i := 0; i < 10; i++ {
			products.Get("p" + strconv.Itoa(i))
		}
	})
	if _, err := products.Get("missing"); !errors.Is(err, store.ErrNotFound) {
		return errors.Errorf("expected not found for a missing product, got %v", err)
	}
	hits, misses := products.Stats()
	logger.Infof(ctx, "hits %d, misses %d", hits, misses)
	return nil
}

func redisT(logger logging.Logger, opts options) error {
	ctx := context.Background()
	client, err := redis.Dial(opts.redisAddr, "", 0)
	if err != nil {
		return err
	}
	remote := redis.NewStore[string, Product](client, store.JSONCodec[Product]{}, "lrucache-demo:", opts.ttl)
	c, err := cache.New[string, Product](opts.capacity, opts.ttl)
	if err != nil {
		return err
	}
	products := store.NewCachedStore[string, Product](remote, c, store.WriteBack, logger,
		retry.WithMaxRetries(3), retry.WithInterval(50*time.Millisecond))
	defer store.CloseAll(products)

	if err := products.Put("p1", Product{ID: "p1", Name: "remote product", Price: 9.99}); err != nil {
		return err
	}
	c.Purge()
	p, err := products.GetContext(ctx, "p1")
	if err != nil {
		return err
	}
	logger.Infof(ctx, "loaded %+v from redis", p)
	return products.Delete("p1")
}
