/*
Package memcached keeps cache entries in memcached, so that several
realtyd replicas share one copy of what they fetch.

Servers are either given as addresses, or looked up from SRV records.
Looked-up servers are looked up again on the first request after
RefreshInterval has passed; there is no background work and nothing to
stop.
*/
package memcached

import (
	"crypto/sha256"
	"encoding/hex"
	"net"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/go-kit/kit/log"
	"github.com/jonboulle/clockwork"
	"github.com/pkg/errors"

	"github.com/realtyproxy/realtyproxy/pkg/cache"
)

const (
	maxKeyLen = 250
	// memcached reads a longer expiration as a unix timestamp.
	maxRelativeExpiry = 30 * 24 * time.Hour
)

var lookupSRV = net.LookupSRV

type Config struct {
	// Servers are host:port addresses. If none are given, they are
	// looked up from the SRV records for Service on Host.
	Servers         []string
	Host            string
	Service         string
	RefreshInterval time.Duration

	Timeout      time.Duration
	MaxIdleConns int
	Logger       log.Logger
	// Defaults to the real clock.
	Clock clockwork.Clock
}

type Client struct {
	client  *memcache.Client
	servers memcache.ServerList
	config  Config
	clock   clockwork.Clock
	logger  log.Logger

	mu         sync.Mutex
	current    []string
	lookedUpAt time.Time
}

var _ cache.Client = &Client{}

func New(config Config) *Client {
	c := &Client{
		config: config,
		clock:  config.Clock,
		logger: config.Logger,
	}
	if c.clock == nil {
		c.clock = clockwork.NewRealClock()
	}
	c.client = memcache.NewFromSelector(&c.servers)
	c.client.Timeout = config.Timeout
	c.client.MaxIdleConns = config.MaxIdleConns

	if len(config.Servers) > 0 {
		if err := c.setServers(config.Servers); err != nil {
			c.logger.Log("err", errors.Wrap(err, "setting memcached servers"), "servers", strings.Join(config.Servers, ","))
		}
	} else {
		c.lookupIfDue()
	}
	return c
}

func (c *Client) GetKey(k cache.Keyer) ([]byte, time.Time, error) {
	c.lookupIfDue()
	item, err := c.client.Get(itemKey(k))
	switch {
	case err == memcache.ErrCacheMiss:
		return nil, time.Time{}, cache.ErrNotCached
	case err != nil:
		c.logger.Log("err", errors.Wrap(err, "fetching from memcached"), "key", k.Key())
		return nil, time.Time{}, err
	}
	return cache.DecodeEntry(item.Value)
}

func (c *Client) SetKey(k cache.Keyer, deadline time.Time, v []byte) error {
	c.lookupIfDue()
	err := c.client.Set(&memcache.Item{
		Key:        itemKey(k),
		Value:      cache.EncodeEntry(deadline, v),
		Expiration: expiration(c.clock.Now(), deadline),
	})
	if err != nil {
		c.logger.Log("err", errors.Wrap(err, "storing in memcached"), "key", k.Key())
		return err
	}
	return nil
}

// Servers is the server list in use.
func (c *Client) Servers() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.current...)
}

// lookupIfDue looks the servers up from SRV records, unless they are
// fixed or were looked up less than RefreshInterval ago. A failed
// lookup keeps the servers from before, and waits as long as a
// successful one before it is tried again.
func (c *Client) lookupIfDue() {
	if len(c.config.Servers) > 0 {
		return
	}
	c.mu.Lock()
	now := c.clock.Now()
	due := c.lookedUpAt.IsZero() || now.Sub(c.lookedUpAt) >= c.config.RefreshInterval
	if due {
		c.lookedUpAt = now
	}
	c.mu.Unlock()
	if !due {
		return
	}

	addrs, err := lookupServers(c.config.Service, c.config.Host)
	if err == nil {
		err = c.setServers(addrs)
	}
	if err != nil {
		c.logger.Log("err", errors.Wrap(err, "looking up memcached servers"), "host", c.config.Host, "service", c.config.Service)
	}
}

func (c *Client) setServers(addrs []string) error {
	if err := c.servers.SetServers(addrs...); err != nil {
		return err
	}
	c.mu.Lock()
	c.current = addrs
	c.mu.Unlock()
	return nil
}

// lookupServers gives the addresses in the SRV records, ignoring
// priority and weight. Keys map to a position in the list, so the list
// is sorted to be the same for every replica whatever order DNS gives.
func lookupServers(service, host string) ([]string, error) {
	_, records, err := lookupSRV(service, "tcp", host)
	if err != nil {
		return nil, err
	}
	var addrs []string
	for _, srv := range records {
		target := strings.TrimSuffix(srv.Target, ".")
		addrs = append(addrs, net.JoinHostPort(target, strconv.Itoa(int(srv.Port))))
	}
	sort.Strings(addrs)
	return addrs, nil
}

// itemKey is the memcached key for k. A key memcached wouldn't accept,
// being too long or having spaces or control characters in it, is
// replaced by its hash.
func itemKey(k cache.Keyer) string {
	key := k.Key()
	if len(key) <= maxKeyLen && !strings.ContainsAny(key, " \x7f") && !hasControl(key) {
		return key
	}
	sum := sha256.Sum256([]byte(key))
	return "sha256|" + hex.EncodeToString(sum[:])
}

func hasControl(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < ' ' {
			return true
		}
	}
	return false
}

// expiration is the memcached expiration for an entry with the given
// deadline.
func expiration(now, deadline time.Time) int32 {
	expiry := cache.Expiry(now, deadline)
	if expiry > maxRelativeExpiry {
		return int32(now.Add(expiry).Unix())
	}
	return int32(expiry / time.Second)
}
