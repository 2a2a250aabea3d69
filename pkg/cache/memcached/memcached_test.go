package memcached

import (
	"errors"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/go-kit/kit/log"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/realtyproxy/realtyproxy/pkg/cache"
)

type fakeSRV struct {
	calls   int
	records []*net.SRV
	err     error
}

func (f *fakeSRV) lookup(service, proto, name string) (string, []*net.SRV, error) {
	f.calls++
	return "", f.records, f.err
}

func withFakeSRV(f *fakeSRV) func() {
	orig := lookupSRV
	lookupSRV = f.lookup
	return func() { lookupSRV = orig }
}

func TestNew_LooksUpSortedServers(t *testing.T) {
	srv := &fakeSRV{records: []*net.SRV{
		{Target: "127.0.0.3.", Port: 11211},
		{Target: "127.0.0.1.", Port: 11211},
		{Target: "127.0.0.2.", Port: 11212},
	}}
	defer withFakeSRV(srv)()

	c := New(Config{
		Host:            "memcached.realty.svc.cluster.local",
		Service:         "memcached",
		RefreshInterval: time.Minute,
		Logger:          log.NewNopLogger(),
		Clock:           clockwork.NewFakeClock(),
	})
	assert.Equal(t, 1, srv.calls)
	assert.Equal(t, []string{"127.0.0.1:11211", "127.0.0.2:11212", "127.0.0.3:11211"}, c.Servers())
}

func TestLookupIfDue(t *testing.T) {
	srv := &fakeSRV{records: []*net.SRV{{Target: "127.0.0.1.", Port: 11211}}}
	defer withFakeSRV(srv)()
	clock := clockwork.NewFakeClock()

	c := New(Config{
		Host:            "memcached",
		Service:         "memcached",
		RefreshInterval: time.Minute,
		Logger:          log.NewNopLogger(),
		Clock:           clock,
	})
	require.Equal(t, 1, srv.calls)

	clock.Advance(59 * time.Second)
	c.lookupIfDue()
	assert.Equal(t, 1, srv.calls, "looked up again too soon")

	srv.records = append(srv.records, &net.SRV{Target: "127.0.0.2.", Port: 11211})
	clock.Advance(time.Second)
	c.lookupIfDue()
	assert.Equal(t, 2, srv.calls)
	assert.Equal(t, []string{"127.0.0.1:11211", "127.0.0.2:11211"}, c.Servers())
}

func TestLookupFailureKeepsServers(t *testing.T) {
	srv := &fakeSRV{records: []*net.SRV{{Target: "127.0.0.1.", Port: 11211}}}
	defer withFakeSRV(srv)()
	clock := clockwork.NewFakeClock()

	c := New(Config{
		RefreshInterval: time.Minute,
		Logger:          log.NewNopLogger(),
		Clock:           clock,
	})

	srv.err = errors.New("no such host")
	clock.Advance(time.Minute)
	c.lookupIfDue()
	assert.Equal(t, 2, srv.calls)
	assert.Equal(t, []string{"127.0.0.1:11211"}, c.Servers())

	// Not retried on every request.
	c.lookupIfDue()
	assert.Equal(t, 2, srv.calls)
}

func TestFixedServersAreNotLookedUp(t *testing.T) {
	srv := &fakeSRV{}
	defer withFakeSRV(srv)()
	clock := clockwork.NewFakeClock()

	c := New(Config{
		Servers:         []string{"10.0.0.5:11211", "10.0.0.6:11211"},
		RefreshInterval: time.Minute,
		Logger:          log.NewNopLogger(),
		Clock:           clock,
	})
	clock.Advance(time.Hour)
	c.lookupIfDue()

	assert.Equal(t, 0, srv.calls)
	assert.Equal(t, []string{"10.0.0.5:11211", "10.0.0.6:11211"}, c.Servers())
}

type rawKey string

func (k rawKey) Key() string { return string(k) }

func TestItemKey(t *testing.T) {
	reviews := cache.NewReviewsKey("ChIJN1t_tDeuEmsRUsoyG83frY4")
	assert.Equal(t, reviews.Key(), itemKey(reviews))

	for name, k := range map[string]cache.Keyer{
		"space":   cache.NewReviewsKey("place with spaces"),
		"control": rawKey("placereviewsv1|a\nb"),
		"long":    cache.NewReviewsKey(strings.Repeat("x", 300)),
	} {
		got := itemKey(k)
		assert.True(t, strings.HasPrefix(got, "sha256|"), name)
		assert.Len(t, got, len("sha256|")+64, name)
		assert.Equal(t, got, itemKey(k), name)
	}
	assert.NotEqual(t,
		itemKey(cache.NewReviewsKey("place one")),
		itemKey(cache.NewReviewsKey("place two")))
}

func TestExpiration(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, int32(2*60*60), expiration(now, now.Add(time.Hour)))
	assert.Equal(t, int32(cache.MinExpiry/time.Second), expiration(now, now.Add(-time.Hour)))

	// Past 30 days memcached wants a point in time.
	deadline := now.Add(20 * 24 * time.Hour)
	assert.Equal(t, int32(now.Add(40*24*time.Hour).Unix()), expiration(now, deadline))
}
