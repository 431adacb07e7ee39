package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dgraph-io/badger"
	"github.com/nerdwave-nick/pokedex/internal/cache"
	"github.com/nerdwave-nick/pokedex/internal/pokeapi"
	papi "github.com/nerdwave-nick/pokeapi-go"
	"github.com/redis/go-redis/v9"
)

type BadgerLoggerWrapper struct{}

func (*BadgerLoggerWrapper) Errorf(format string, args ...interface{}) {
	slog.Error(strings.TrimSuffix(fmt.Sprintf(format, args...), "\n"), slog.String("module", "badger"))
}

func (*BadgerLoggerWrapper) Warningf(format string, args ...interface{}) {
	slog.Warn(strings.TrimSuffix(fmt.Sprintf(format, args...), "\n"), slog.String("module", "badger"))
}

func (*BadgerLoggerWrapper) Infof(format string, args ...interface{}) {
	slog.Info(strings.TrimSuffix(fmt.Sprintf(format, args...), "\n"), slog.String("module", "badger"))
}

func (*BadgerLoggerWrapper) Debugf(format string, args ...interface{}) {
	slog.Debug(strings.TrimSuffix(fmt.Sprintf(format, args...), "\n"), slog.String("module", "badger"))
}

// cacheStack owns every cache layer and the handles that have to be closed on shutdown.
type cacheStack struct {
	cache *cache.MultiLayerCache
	otter *cache.OtterCache
	db    *badger.DB
	redis *redis.Client
}

// openCacheStack builds the multi layer cache: otter in memory first, then badger when persist
// is set, then redis when an address is configured.
func openCacheStack(ctx context.Context, opts *RootOptions, persist bool) (*cacheStack, error) {
	stack := &cacheStack{}

	// in memory otter cache
	oc, err := cache.BuildOtter(opts.L1CacheSize, time.Duration(opts.L1CacheTTL)*time.Second)
	if err != nil {
		return nil, err
	}
	stack.otter = cache.NewOtterCache(oc)
	layers := []papi.Cache{stack.otter}

	// persistent badger db and cache wrapper
	if persist {
		db, err := badger.Open(badger.DefaultOptions(opts.DBPath).WithLogger(&BadgerLoggerWrapper{}))
		if err != nil {
			stack.Close()
			return nil, fmt.Errorf("opening badger db at %q: %w", opts.DBPath, err)
		}
		stack.db = db
		badgerCache := cache.NewBadgerCache(db, time.Duration(opts.L2CacheTTL)*time.Second)
		layers = append(layers, &badgerCache)
	}

	// shared redis cache, skipped when not configured
	if opts.RedisAddr != "" {
		client, err := cache.DialRedis(ctx, opts.RedisAddr, opts.RedisPassword, opts.RedisDB)
		if err != nil {
			stack.Close()
			return nil, fmt.Errorf("connecting to redis at %q: %w", opts.RedisAddr, err)
		}
		stack.redis = client
		layers = append(layers, cache.NewRedisCache(client, time.Duration(opts.L2CacheTTL)*time.Second))
	}

	// multi layer cache with preference for the in memory cache
	stack.cache = cache.NewMultiLayerCache(layers...)
	return stack, nil
}

func (s *cacheStack) startGC(ctx context.Context, interval time.Duration) {
	if s.db == nil {
		return
	}
	cache.RunGC(ctx, s.db, interval)
	slog.Info("badger db background gc started...")
}

func (s *cacheStack) Close() {
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			slog.Error("closing redis client", slog.Any("error", err))
		}
	}
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			slog.Error("shutting down db", slog.Any("error", err))
		}
	}
	if s.otter != nil {
		s.otter.Close()
	}
}

func newPokeapiClient(c pokeapi.Cache, opts *RootOptions) *pokeapi.Client {
	httpClient := &http.Client{
		Timeout: time.Duration(opts.HTTPTimeout) * time.Second,
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 20,
			IdleConnTimeout:     90 * time.Second,
		},
	}
	return pokeapi.NewClient(c, httpClient, opts.APIURL)
}
