/*
Package imagecache keeps copies of listing photos in a Store and hands
out URLs to the copies.

An image is stored once per listing, under a key derived from the
listing key and the photo's file extension. Later requests for the
same listing find the stored object and skip the download. Objects are
never expired here; a presigned URL may expire, but a fresh one is
made on every request.
*/
package imagecache

import (
	"context"
	"time"

	"github.com/go-kit/kit/log"
	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"
)

// Downloader fetches the bytes of a remote image.
type Downloader interface {
	Download(ctx context.Context, url string) ([]byte, error)
}

type Cache struct {
	store      Store
	downloader Downloader
	timeout    time.Duration
	logger     log.Logger

	// collapses concurrent misses on the same key in this process
	inflight singleflight.Group
}

// New returns a Cache. Each resolution gets at most timeout to finish,
// whoever is waiting for it; zero means no limit.
func New(store Store, downloader Downloader, timeout time.Duration, logger log.Logger) *Cache {
	return &Cache{
		store:      store,
		downloader: downloader,
		timeout:    timeout,
		logger:     logger,
	}
}

// Resolve returns a fetchable URL for the listing's image, storing a
// copy of mediaURL first if there isn't one already. If the existence
// check fails for any reason other than the object being absent, no
// download is attempted.
//
// Concurrent calls for the same key share one resolution, which runs
// on its own context: a caller giving up stops waiting for it, but
// doesn't cancel it for the others.
func (c *Cache) Resolve(ctx context.Context, listingKey, mediaURL string) (string, error) {
	key, err := StorageKey(listingKey, mediaURL)
	if err != nil {
		countResolution(resultError)
		return "", err
	}

	ch := c.inflight.DoChan(key, func() (interface{}, error) {
		ctx, cancel := c.resolveContext()
		defer cancel()
		return c.resolve(ctx, key, mediaURL)
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	case <-ctx.Done():
		return "", errors.Wrap(ctx.Err(), "waiting for image")
	}
}

func (c *Cache) resolveContext() (context.Context, context.CancelFunc) {
	if c.timeout > 0 {
		return context.WithTimeout(context.Background(), c.timeout)
	}
	return context.WithCancel(context.Background())
}

func (c *Cache) resolve(ctx context.Context, key, mediaURL string) (string, error) {
	exists, err := c.store.Exists(ctx, key)
	if err != nil {
		countResolution(resultError)
		return "", errors.Wrap(err, "checking image cache")
	}

	if !exists {
		data, err := c.downloader.Download(ctx, mediaURL)
		if err != nil {
			countResolution(resultError)
			return "", errors.Wrap(err, "fetching image")
		}
		if err := c.store.Put(ctx, key, ContentType(key), data); err != nil {
			countResolution(resultError)
			return "", errors.Wrap(err, "storing image")
		}
		c.logger.Log("stored", key, "bytes", len(data))
	}

	u, err := c.store.URL(ctx, key)
	if err != nil {
		countResolution(resultError)
		return "", errors.Wrap(err, "making image URL")
	}
	if exists {
		countResolution(resultHit)
	} else {
		countResolution(resultMiss)
	}
	return u, nil
}
