package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validConfig() Config {
	return Config{
		FeedPropertyURL: "https://feed.example.com/Property",
		FeedMediaURL:    "https://feed.example.com/Media",
		FeedToken:       "token",
		AgentKeys:       []string{"A1", "B2"},
		MediaSelect:     "latest",
		ImageStore:      ImageStoreS3,
		S3Bucket:        "listing-photos",
		ReviewsCache:    ReviewsCacheMemory,
	}
}

func TestIsValid(t *testing.T) {
	assert.NoError(t, validConfig().IsValid())

	for name, mangle := range map[string]func(*Config){
		"no feed URL":               func(c *Config) { c.FeedMediaURL = "" },
		"no token":                  func(c *Config) { c.FeedToken = "" },
		"no agent keys":             func(c *Config) { c.AgentKeys = nil },
		"blank agent key":           func(c *Config) { c.AgentKeys = []string{"A1", " "} },
		"bad media select":          func(c *Config) { c.MediaSelect = "random" },
		"s3 without bucket":         func(c *Config) { c.S3Bucket = "" },
		"fs without dir":            func(c *Config) { c.ImageStore = ImageStoreFS },
		"unknown store":             func(c *Config) { c.ImageStore = "gcs" },
		"redis without addr":        func(c *Config) { c.ReviewsCache = ReviewsCacheRedis },
		"memcached without servers": func(c *Config) { c.ReviewsCache = ReviewsCacheMemcached },
		"unknown cache":             func(c *Config) { c.ReviewsCache = "disk" },
	} {
		c := validConfig()
		mangle(&c)
		assert.Error(t, c.IsValid(), name)
	}

	c := validConfig()
	c.ImageStore = ImageStoreNone
	c.S3Bucket = ""
	c.ReviewsCache = ReviewsCacheMemcached
	c.MemcachedIPs = []string{"10.0.0.5:11211"}
	assert.NoError(t, c.IsValid())
}

func TestListenAddr(t *testing.T) {
	for in, want := range map[string]string{
		"3000":           ":3000",
		":3000":          ":3000",
		"127.0.0.1:3000": "127.0.0.1:3000",
		"":               "",
	} {
		assert.Equal(t, want, Config{Listen: in}.ListenAddr(), in)
	}
}
