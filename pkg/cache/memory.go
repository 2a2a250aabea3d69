package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

type entry struct {
	deadline time.Time
	value    []byte
}

// MemoryClient keeps entries in this process. It is the default, since
// a single realtyd has nothing to share a cache with.
type MemoryClient struct {
	items *gocache.Cache
}

func NewMemoryClient() *MemoryClient {
	return &MemoryClient{
		items: gocache.New(MinExpiry, 10*time.Minute),
	}
}

func (m *MemoryClient) GetKey(k Keyer) ([]byte, time.Time, error) {
	v, ok := m.items.Get(k.Key())
	if !ok {
		return nil, time.Time{}, ErrNotCached
	}
	e := v.(entry)
	return e.value, e.deadline, nil
}

func (m *MemoryClient) SetKey(k Keyer, deadline time.Time, v []byte) error {
	value := make([]byte, len(v))
	copy(value, v)
	m.items.Set(k.Key(), entry{deadline: deadline, value: value}, Expiry(time.Now(), deadline))
	return nil
}
