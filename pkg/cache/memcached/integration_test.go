// +build integration

package memcached

import (
	"encoding/json"
	"flag"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/go-kit/kit/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/realtyproxy/realtyproxy/pkg/cache"
	"github.com/realtyproxy/realtyproxy/pkg/review"
)

var memcachedIPs = flag.String("memcached-ips", "127.0.0.1:11211", "space-separated host:port values for memcached to connect to")

func newTestClient() *Client {
	return New(Config{
		Servers: strings.Fields(*memcachedIPs),
		Timeout: time.Second,
		Logger:  log.With(log.NewLogfmtLogger(os.Stderr), "component", "memcached"),
	})
}

func testPlace(suffix string) cache.Keyer {
	return cache.NewReviewsKey("test-place-" + suffix + "-" + time.Now().Format(time.RFC3339Nano))
}

func TestMemcached_Reviews(t *testing.T) {
	c := newTestClient()
	key := testPlace("reviews")

	reviews := []review.Review{
		{AuthorName: "Sam", Rating: 5, Text: "Found us a house in a week.", Time: 1709290800},
		{AuthorName: "Alex", Rating: 4, Text: "Helpful, if slow to reply.", Time: 1709204400},
	}
	val, err := json.Marshal(reviews)
	require.NoError(t, err)
	deadline := time.Now().Add(time.Hour).Round(time.Second)
	require.NoError(t, c.SetKey(key, deadline, val))

	got, d, err := c.GetKey(key)
	require.NoError(t, err)
	assert.True(t, deadline.Equal(d))
	var decoded []review.Review
	require.NoError(t, json.Unmarshal(got, &decoded))
	assert.Equal(t, reviews, decoded)
}

func TestMemcached_HashedKey(t *testing.T) {
	c := newTestClient()
	key := testPlace("with spaces")

	deadline := time.Now().Add(time.Hour).Round(time.Second)
	require.NoError(t, c.SetKey(key, deadline, []byte("[]")))
	got, _, err := c.GetKey(key)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(got))
}

func TestMemcached_Miss(t *testing.T) {
	c := newTestClient()
	_, _, err := c.GetKey(testPlace("never-set"))
	assert.Equal(t, cache.ErrNotCached, err)
}
