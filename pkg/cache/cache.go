package cache

import (
	"errors"
	"strings"
	"time"
)

var ErrNotCached = errors.New("item not in cache")

type Reader interface {
	// GetKey gets the value at a key, along with its refresh deadline
	GetKey(k Keyer) ([]byte, time.Time, error)
}

type Writer interface {
	// SetKey sets the value at a key, along with its refresh deadline
	SetKey(k Keyer, deadline time.Time, v []byte) error
}

type Client interface {
	Reader
	Writer
}

// An interface to provide the key under which to store the data
type Keyer interface {
	Key() string
}

type reviewsKey struct {
	placeID string
}

// NewReviewsKey is the key the reviews of a place are kept under.
func NewReviewsKey(placeID string) Keyer {
	return &reviewsKey{placeID}
}

func (k *reviewsKey) Key() string {
	return strings.Join([]string{
		"placereviewsv1", // Bump the version number if the cache format changes
		k.placeID,
	}, "|")
}
