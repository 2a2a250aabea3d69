package main

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/realtyproxy/realtyproxy/pkg/config"
	"github.com/realtyproxy/realtyproxy/pkg/feed"
	"github.com/realtyproxy/realtyproxy/pkg/imagecache"
	"github.com/realtyproxy/realtyproxy/pkg/review"
)

// Environment variables each setting can also be given in. These are
// the names existing deployments already set.
var configEnv = map[string]string{
	"LogFormat":      "LOG_FORMAT",
	"Listen":         "PORT",
	"AllowedOrigins": "ALLOWED_ORIGINS",

	"FeedPropertyURL":   "AMPLIFY_ODS_URL_PROPERTY",
	"FeedMediaURL":      "AMPLIFY_ODS_URL_MEDIA",
	"FeedToken":         "DLA_TOKEN",
	"AgentKeys":         "AGENT_NUMBERS",
	"MediaSelect":       "MEDIA_SELECT",
	"MediaImageSize":    "MEDIA_IMAGE_SIZE",
	"EnrichConcurrency": "ENRICH_CONCURRENCY",
	"UpstreamTimeout":   "UPSTREAM_TIMEOUT",

	"ImageStore":        "IMAGE_STORE",
	"S3Endpoint":        "S3_ENDPOINT",
	"S3Region":          "S3_REGION",
	"S3Bucket":          "S3_BUCKET",
	"S3Prefix":          "S3_PREFIX",
	"S3AccessKeyID":     "S3_ACCESS_KEY_ID",
	"S3SecretAccessKey": "S3_SECRET_ACCESS_KEY",
	"S3ForcePathStyle":  "S3_FORCE_PATH_STYLE",
	"S3URLExpiry":       "S3_URL_EXPIRY",
	"ImageDir":          "IMAGE_DIR",
	"ImageBaseURL":      "IMAGE_BASE_URL",

	"PlacesURL":       "PLACES_URL",
	"PlacesAPIKey":    "GOOGLE_API_KEY",
	"PlaceID":         "PLACE_ID",
	"ReviewsCache":    "REVIEWS_CACHE",
	"ReviewsCacheTTL": "REVIEWS_CACHE_TTL",

	"MemcachedHostname": "MEMCACHED_HOSTNAME",
	"MemcachedService":  "MEMCACHED_SERVICE",
	"MemcachedIPs":      "MEMCACHED_IPS",
	"MemcachedTimeout":  "MEMCACHED_TIMEOUT",

	"RedisAddr":    "REDIS_ADDR",
	"RedisTimeout": "REDIS_TIMEOUT",
}

// configKey gives the viper key for a field of config.Config.
func configKey(fieldName string) (string, error) {
	configStruct := reflect.TypeOf(config.Config{})
	field, ok := configStruct.FieldByName(fieldName)
	if !ok {
		return "", fmt.Errorf("attempt to bind a field not present in config.Config, %q", fieldName)
	}
	// this parallels the logic in
	// github.com/mitchellh/mapstructure, except that we want to
	// bail if a field is mentioned that is marked ignore, like
	// this: `mapstructure:"-"`
	mappedName := field.Name
	mapstructureTagParts := strings.Split(field.Tag.Get("mapstructure"), ",")
	if namePart := mapstructureTagParts[0]; namePart != "" {
		if namePart == "-" { // means ignore this field
			return "", fmt.Errorf(`attempt to bind a config field tagged as ignored, %q`, field.Name)
		}
		mappedName = namePart
	}
	return mappedName, nil
}

// defineConfigFlags defines the flags that correspond to fields of
// config.Config. Each is bound to its field, and to the environment
// variable named in configEnv; a flag given on the command line wins
// over the environment.
func defineConfigFlags(fs *pflag.FlagSet, bail func(error)) {

	bindOrBail := func(fieldName, flagName string) {
		key, err := configKey(fieldName)
		if err != nil {
			bail(err)
			return
		}
		if err := viper.BindPFlag(key, fs.Lookup(flagName)); err != nil {
			bail(err)
			return
		}
		env, ok := configEnv[fieldName]
		if !ok {
			bail(fmt.Errorf("no environment variable given for %q", fieldName))
			return
		}
		if err := viper.BindEnv(key, env); err != nil {
			bail(err)
		}
	}

	defineString := func(fieldName, flagName, def, desc string) {
		fs.String(flagName, def, desc)
		bindOrBail(fieldName, flagName)
	}

	defineStringP := func(fieldName, flagName, short, def, desc string) {
		fs.StringP(flagName, short, def, desc)
		bindOrBail(fieldName, flagName)
	}

	defineStringSlice := func(fieldName, flagName string, def []string, desc string) {
		fs.StringSlice(flagName, def, desc)
		bindOrBail(fieldName, flagName)
	}

	defineBool := func(fieldName, flagName string, def bool, desc string) {
		fs.Bool(flagName, def, desc)
		bindOrBail(fieldName, flagName)
	}

	defineDuration := func(fieldName, flagName string, def time.Duration, desc string) {
		fs.Duration(flagName, def, desc)
		bindOrBail(fieldName, flagName)
	}

	defineInt := func(fieldName, flagName string, def int, desc string) {
		fs.Int(flagName, def, desc)
		bindOrBail(fieldName, flagName)
	}

	defineString("LogFormat", "log-format", "fmt", "change the log format (one of {fmt,json})")
	defineStringP("Listen", "listen", "l", ":3000", "listen address where the API, /images and /metrics will be served; a bare port listens on all interfaces")
	defineStringSlice("AllowedOrigins", "allowed-origins", []string{}, `origins browsers may call the API from; globs like "https://*.example.com" are allowed, and "*" allows any origin`)

	// listings feed
	defineString("FeedPropertyURL", "feed-property-url", "", "URL of the feed's Property resource")
	defineString("FeedMediaURL", "feed-media-url", "", "URL of the feed's Media resource")
	defineString("FeedToken", "feed-token", "", "bearer token for the feed, also used to download media")
	defineStringSlice("AgentKeys", "agent-keys", []string{}, "list the listings of these agents")
	defineString("MediaSelect", "media-select", feed.SelectLatest, fmt.Sprintf("which media record to use for a listing (one of {%s,%s})", feed.SelectLatest, feed.SelectFirst))
	defineString("MediaImageSize", "media-image-size", "Large", "only use media with this ImageSizeDescription; empty to consider all sizes")
	defineInt("EnrichConcurrency", "enrich-concurrency", 0, "maximum number of listings to look up media for at once; 0 means no limit")
	defineDuration("UpstreamTimeout", "upstream-timeout", 30*time.Second, "maximum time for each request to the feed or the places API; 0 means no limit")

	// image cache
	defineString("ImageStore", "image-store", config.ImageStoreS3, fmt.Sprintf("where to cache listing photos (one of {%s})", strings.Join([]string{config.ImageStoreS3, config.ImageStoreFS, config.ImageStoreNone}, ",")))
	defineString("S3Endpoint", "s3-endpoint", "", "endpoint of an S3-compatible store; empty for AWS S3")
	defineString("S3Region", "s3-region", "us-east-1", "region of the bucket")
	defineString("S3Bucket", "s3-bucket", "", "bucket to cache photos in")
	defineString("S3Prefix", "s3-prefix", "", "key prefix for cached photos")
	defineString("S3AccessKeyID", "s3-access-key-id", "", "access key for the bucket; if empty, the default AWS credential chain is used")
	defineString("S3SecretAccessKey", "s3-secret-access-key", "", "secret key for the bucket")
	defineBool("S3ForcePathStyle", "s3-force-path-style", false, "address the bucket in the path rather than the hostname, as most non-AWS stores need")
	defineDuration("S3URLExpiry", "s3-url-expiry", imagecache.DefaultURLExpiry, "how long presigned photo URLs are valid for")
	defineString("ImageDir", "image-dir", "images", "directory to cache photos in when --image-store=fs")
	defineString("ImageBaseURL", "image-base-url", "/images", "URL at which the --image-dir is served")

	// reviews
	defineString("PlacesURL", "places-url", review.DefaultPlacesURL, "URL of the place details API")
	defineString("PlacesAPIKey", "places-api-key", "", "API key for the place details API")
	defineString("PlaceID", "place-id", "", "place to show reviews of")
	defineString("ReviewsCache", "reviews-cache", config.ReviewsCacheMemory, fmt.Sprintf("where to cache reviews (one of {%s})", strings.Join([]string{config.ReviewsCacheMemory, config.ReviewsCacheMemcached, config.ReviewsCacheRedis, config.ReviewsCacheNone}, ",")))
	defineDuration("ReviewsCacheTTL", "reviews-cache-ttl", review.DefaultTTL, "how long reviews are served from the cache")

	defineString("MemcachedHostname", "memcached-hostname", "memcached", "hostname for memcached service.")
	defineString("MemcachedService", "memcached-service", "memcached", "SRV service used to discover memcache servers.")
	defineStringSlice("MemcachedIPs", "memcached-ips", []string{}, "IP addresses of memcache servers; if given, these are used instead of SRV discovery")
	defineDuration("MemcachedTimeout", "memcached-timeout", time.Second, "maximum time to wait before giving up on memcached requests.")

	defineString("RedisAddr", "redis-addr", "", "address (host:port) of the redis server")
	defineDuration("RedisTimeout", "redis-timeout", time.Second, "maximum time to wait before giving up on redis requests.")
}
