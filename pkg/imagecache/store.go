package imagecache

import (
	"context"
)

// Store is where cached images live. Implementations must be safe for
// concurrent use.
type Store interface {
	// Exists reports whether an object is stored under key. A missing
	// object is (false, nil); any error means the store could not say.
	Exists(ctx context.Context, key string) (bool, error)
	// Put stores data under key, replacing any existing object.
	Put(ctx context.Context, key, contentType string, data []byte) error
	// URL gives a URL a client can fetch the object from.
	URL(ctx context.Context, key string) (string, error)
}
