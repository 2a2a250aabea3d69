package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-kit/kit/log"
	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/realtyproxy/realtyproxy/pkg/api"
	"github.com/realtyproxy/realtyproxy/pkg/cache"
	"github.com/realtyproxy/realtyproxy/pkg/cache/memcached"
	"github.com/realtyproxy/realtyproxy/pkg/config"
	"github.com/realtyproxy/realtyproxy/pkg/daemon"
	"github.com/realtyproxy/realtyproxy/pkg/feed"
	transport "github.com/realtyproxy/realtyproxy/pkg/http"
	daemonhttp "github.com/realtyproxy/realtyproxy/pkg/http/daemon"
	"github.com/realtyproxy/realtyproxy/pkg/imagecache"
	"github.com/realtyproxy/realtyproxy/pkg/listing"
	"github.com/realtyproxy/realtyproxy/pkg/remote"
	"github.com/realtyproxy/realtyproxy/pkg/review"
)

var version = "unversioned"

const (
	// How long in-flight requests get to finish on shutdown.
	shutdownTimeout = 10 * time.Second
	// How often memcached servers are looked up again.
	memcachedLookupInterval = time.Minute
)

func main() {
	// Flag domain.
	fs := pflag.NewFlagSet("default", pflag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "DESCRIPTION\n")
		fmt.Fprintf(os.Stderr, "  realtyd serves agents' listings, with cached photos, and place reviews.\n")
		fmt.Fprintf(os.Stderr, "\n")
		fmt.Fprintf(os.Stderr, "  Every flag can also be set in the environment, or in a .env file in the working directory.\n")
		fmt.Fprintf(os.Stderr, "\n")
		fmt.Fprintf(os.Stderr, "FLAGS\n")
		fs.PrintDefaults()
	}
	bail := func(err error) {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
	defineConfigFlags(fs, bail)
	versionFlag := fs.Bool("version", false, "get version number")

	err := fs.Parse(os.Args[1:])
	switch {
	case err == pflag.ErrHelp:
		os.Exit(0)
	case err != nil:
		bail(err)
	}

	if *versionFlag {
		fmt.Println(version)
		os.Exit(0)
	}

	// The environment wins over .env, as with docker-compose and friends.
	dotenvErr := godotenv.Load()

	var cfg config.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		bail(err)
	}

	// Logger domain.
	var logger log.Logger
	{
		switch cfg.LogFormat {
		case "json":
			logger = log.NewJSONLogger(log.NewSyncWriter(os.Stderr))
		case "fmt":
			logger = log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
		default:
			bail(fmt.Errorf("unsupported log format: %q", cfg.LogFormat))
		}
		logger = log.With(logger, "ts", log.DefaultTimestampUTC)
		logger = log.With(logger, "caller", log.DefaultCaller)
	}
	logger.Log("version", version)

	// Failed API requests are logged through zap, following
	// --log-format as well.
	var requestLogger *zap.Logger
	{
		zapConfig := zap.NewProductionConfig()
		if cfg.LogFormat == "fmt" {
			zapConfig.Encoding = "console"
		}
		requestLogger, err = zapConfig.Build()
		if err != nil {
			logger.Log("err", err)
			os.Exit(1)
		}
		requestLogger = requestLogger.With(zap.String("component", "api"))
		defer requestLogger.Sync()
	}

	if dotenvErr != nil && !os.IsNotExist(dotenvErr) {
		logger.Log("err", dotenvErr, "file", ".env")
		os.Exit(1)
	}
	if err := cfg.IsValid(); err != nil {
		logger.Log("err", err)
		os.Exit(1)
	}

	// Feed component.
	var feedClient *feed.Client
	{
		logger := log.With(logger, "component", "feed")
		feedClient = feed.New(feed.NewHTTPClient(cfg.FeedToken, cfg.UpstreamTimeout), feed.Config{
			PropertyURL: cfg.FeedPropertyURL,
			MediaURL:    cfg.FeedMediaURL,
			AgentKeys:   cfg.AgentKeys,
			MediaSelect: cfg.MediaSelect,
			ImageSize:   cfg.MediaImageSize,
		})
		logger.Log("agents", len(cfg.AgentKeys), "media-select", cfg.MediaSelect)
	}

	// Image cache component.
	var (
		images   listing.ImageResolver
		imageDir string
	)
	{
		logger := log.With(logger, "component", "imagecache")
		var store imagecache.Store
		switch cfg.ImageStore {
		case config.ImageStoreS3:
			s3Client, err := imagecache.NewS3Client(imagecache.S3Config{
				Endpoint:        cfg.S3Endpoint,
				Region:          cfg.S3Region,
				AccessKeyID:     cfg.S3AccessKeyID,
				SecretAccessKey: cfg.S3SecretAccessKey,
				ForcePathStyle:  cfg.S3ForcePathStyle,
			})
			if err != nil {
				logger.Log("err", err)
				os.Exit(1)
			}
			store = imagecache.NewS3Store(s3Client, cfg.S3Bucket, cfg.S3Prefix, cfg.S3URLExpiry)
			logger.Log("store", "s3", "bucket", cfg.S3Bucket, "prefix", cfg.S3Prefix, "url-expiry", cfg.S3URLExpiry)
		case config.ImageStoreFS:
			fileStore, err := imagecache.NewFileStore(cfg.ImageDir, cfg.ImageBaseURL)
			if err != nil {
				logger.Log("err", err)
				os.Exit(1)
			}
			store = fileStore
			imageDir = fileStore.Dir()
			logger.Log("store", "fs", "dir", cfg.ImageDir, "base-url", cfg.ImageBaseURL)
		default:
			logger.Log("store", "none")
		}
		if store != nil {
			images = imagecache.New(store, feedClient, cfg.UpstreamTimeout, logger)
		}
	}

	// Reviews component.
	var reviews *review.Fetcher
	{
		logger := log.With(logger, "component", "reviews")
		var cacheClient cache.Client
		switch cfg.ReviewsCache {
		case config.ReviewsCacheMemory:
			cacheClient = cache.NewMemoryClient()
		case config.ReviewsCacheMemcached:
			cacheClient = memcached.New(memcached.Config{
				Servers:         cfg.MemcachedIPs,
				Host:            cfg.MemcachedHostname,
				Service:         cfg.MemcachedService,
				RefreshInterval: memcachedLookupInterval,
				Timeout:         cfg.MemcachedTimeout,
				MaxIdleConns:    2,
				Logger:          log.With(logger, "component", "memcached"),
			})
		case config.ReviewsCacheRedis:
			redisClient := cache.NewRedisClient(cache.RedisConfig{
				Addr:     cfg.RedisAddr,
				Timeout:  cfg.RedisTimeout,
				MaxConns: 4,
				Logger:   log.With(logger, "component", "redis"),
			})
			defer redisClient.Stop()
			cacheClient = redisClient
		}
		if cacheClient != nil {
			cacheClient = cache.InstrumentClient(cfg.ReviewsCache, cacheClient)
		}
		reviews = review.New(&http.Client{Timeout: cfg.UpstreamTimeout}, review.Config{
			PlacesURL: cfg.PlacesURL,
			APIKey:    cfg.PlacesAPIKey,
			PlaceID:   cfg.PlaceID,
			TTL:       cfg.ReviewsCacheTTL,
		}, cacheClient, clockwork.NewRealClock(), logger)
		logger.Log("place", cfg.PlaceID, "cache", cfg.ReviewsCache, "ttl", cfg.ReviewsCacheTTL)
	}

	// Service (business logic) domain.
	var server api.Server
	{
		logger := log.With(logger, "component", "listings")
		server = &daemon.Daemon{
			Feed:     feedClient,
			Enricher: listing.NewEnricher(feedClient, images, cfg.EnrichConcurrency),
			Reviews:  reviews,
			Logger:   logger,
		}
		server = remote.NewErrorLoggingServer(server, requestLogger)
		server = remote.Instrument(server)
	}

	// Mechanical stuff.
	errc := make(chan error)
	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
		errc <- fmt.Errorf("%s", <-c)
	}()

	httpServer := &http.Server{
		Addr:    cfg.ListenAddr(),
		Handler: transport.CORS(cfg.AllowedOrigins, daemonhttp.NewHandler(server, daemonhttp.NewRouter(), imageDir)),
	}
	go func() {
		logger := log.With(logger, "component", "http")
		logger.Log("addr", httpServer.Addr, "allowed-origins", fmt.Sprint(cfg.AllowedOrigins))
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			errc <- err
		}
	}()

	logger.Log("exiting", <-errc)

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Log("err", err, "during", "shutdown")
	}
}
