// config is the package containing configuration for realtyd, shared
// so it can be used by realtyd itself as well as in tests.
package config

import (
	"fmt"
	"strings"
	"time"
)

const (
	ImageStoreS3   = "s3"
	ImageStoreFS   = "fs"
	ImageStoreNone = "none"

	ReviewsCacheMemory    = "memory"
	ReviewsCacheMemcached = "memcached"
	ReviewsCacheRedis     = "redis"
	ReviewsCacheNone      = "none"
)

type Config struct {
	LogFormat      string   `mapstructure:"logFormat"`
	Listen         string   `mapstructure:"listen"`
	AllowedOrigins []string `mapstructure:"allowedOrigins"`

	FeedPropertyURL   string        `mapstructure:"feedPropertyUrl"`
	FeedMediaURL      string        `mapstructure:"feedMediaUrl"`
	FeedToken         string        `mapstructure:"feedToken"`
	AgentKeys         []string      `mapstructure:"agentKeys"`
	MediaSelect       string        `mapstructure:"mediaSelect"`
	MediaImageSize    string        `mapstructure:"mediaImageSize"`
	EnrichConcurrency int           `mapstructure:"enrichConcurrency"`
	UpstreamTimeout   time.Duration `mapstructure:"upstreamTimeout"`

	ImageStore        string        `mapstructure:"imageStore"`
	S3Endpoint        string        `mapstructure:"s3Endpoint"`
	S3Region          string        `mapstructure:"s3Region"`
	S3Bucket          string        `mapstructure:"s3Bucket"`
	S3Prefix          string        `mapstructure:"s3Prefix"`
	S3AccessKeyID     string        `mapstructure:"s3AccessKeyId"`
	S3SecretAccessKey string        `mapstructure:"s3SecretAccessKey"`
	S3ForcePathStyle  bool          `mapstructure:"s3ForcePathStyle"`
	S3URLExpiry       time.Duration `mapstructure:"s3UrlExpiry"`
	ImageDir          string        `mapstructure:"imageDir"`
	ImageBaseURL      string        `mapstructure:"imageBaseUrl"`

	PlacesURL       string        `mapstructure:"placesUrl"`
	PlacesAPIKey    string        `mapstructure:"placesApiKey"`
	PlaceID         string        `mapstructure:"placeId"`
	ReviewsCache    string        `mapstructure:"reviewsCache"`
	ReviewsCacheTTL time.Duration `mapstructure:"reviewsCacheTtl"`

	MemcachedHostname string        `mapstructure:"memcachedHostname"`
	MemcachedService  string        `mapstructure:"memcachedService"`
	MemcachedIPs      []string      `mapstructure:"memcachedIps"`
	MemcachedTimeout  time.Duration `mapstructure:"memcachedTimeout"`

	RedisAddr    string        `mapstructure:"redisAddr"`
	RedisTimeout time.Duration `mapstructure:"redisTimeout"`
}

// ListenAddr gives the address to listen on. A bare port, as hosting
// platforms put in $PORT, listens on all interfaces.
func (c Config) ListenAddr() string {
	if c.Listen != "" && !strings.Contains(c.Listen, ":") {
		return ":" + c.Listen
	}
	return c.Listen
}

func (c Config) IsValid() error {
	if c.FeedPropertyURL == "" || c.FeedMediaURL == "" {
		return fmt.Errorf("both --feed-property-url and --feed-media-url are required")
	}
	if c.FeedToken == "" {
		return fmt.Errorf("--feed-token is required")
	}
	if len(c.AgentKeys) == 0 {
		return fmt.Errorf("--agent-keys is required; without agents there are no listings to serve")
	}
	for _, key := range c.AgentKeys {
		if strings.TrimSpace(key) == "" {
			return fmt.Errorf("--agent-keys has an empty entry: %q", strings.Join(c.AgentKeys, ","))
		}
	}
	switch c.MediaSelect {
	case "latest", "first":
	default:
		return fmt.Errorf("unknown media selection %q (one of {latest,first})", c.MediaSelect)
	}
	switch c.ImageStore {
	case ImageStoreS3:
		if c.S3Bucket == "" {
			return fmt.Errorf("--s3-bucket is required with --image-store=%s", ImageStoreS3)
		}
	case ImageStoreFS:
		if c.ImageDir == "" {
			return fmt.Errorf("--image-dir is required with --image-store=%s", ImageStoreFS)
		}
	case ImageStoreNone:
	default:
		return fmt.Errorf("unknown image store %q (one of {%s})", c.ImageStore,
			strings.Join([]string{ImageStoreS3, ImageStoreFS, ImageStoreNone}, ","))
	}
	switch c.ReviewsCache {
	case ReviewsCacheMemory, ReviewsCacheNone:
	case ReviewsCacheMemcached:
		if c.MemcachedHostname == "" && len(c.MemcachedIPs) == 0 {
			return fmt.Errorf("--memcached-hostname or --memcached-ips is required with --reviews-cache=%s", ReviewsCacheMemcached)
		}
	case ReviewsCacheRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("--redis-addr is required with --reviews-cache=%s", ReviewsCacheRedis)
		}
	default:
		return fmt.Errorf("unknown reviews cache %q (one of {%s})", c.ReviewsCache,
			strings.Join([]string{ReviewsCacheMemory, ReviewsCacheMemcached, ReviewsCacheRedis, ReviewsCacheNone}, ","))
	}
	return nil
}
