package listing

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-kit/kit/log"
	"github.com/pkg/errors"
)

// MediaFinder looks up the photo for a listing. ok is false when the
// feed has no matching media record.
type MediaFinder interface {
	FindMedia(ctx context.Context, listingKey string) (media Media, ok bool, err error)
}

// ImageResolver turns a remote media URL into a URL clients can fetch,
// caching the image as needed.
type ImageResolver interface {
	Resolve(ctx context.Context, listingKey, mediaURL string) (string, error)
}

// Enricher attaches a photo URL to each listing of a batch.
type Enricher struct {
	media  MediaFinder
	images ImageResolver
	// maximum number of listings enriched at once; zero means no limit
	concurrency int
}

// NewEnricher returns an Enricher. If images is nil, listings get the
// upstream media URL as-is.
func NewEnricher(media MediaFinder, images ImageResolver, concurrency int) *Enricher {
	return &Enricher{
		media:       media,
		images:      images,
		concurrency: concurrency,
	}
}

type result struct {
	listing Listing
	err     error
}

// Enrich returns the listings with MediaURL populated. The result has
// the same length and order as the input. A listing whose media can't
// be resolved is still returned, with an empty MediaURL, and the cause
// is logged against its key.
func (e *Enricher) Enrich(ctx context.Context, logger log.Logger, listings []Listing) []Listing {
	results := make([]result, len(listings))

	var sem chan struct{}
	if e.concurrency > 0 {
		sem = make(chan struct{}, e.concurrency)
	}

	var wg sync.WaitGroup
	for i := range listings {
		wg.Add(1)
		if sem != nil {
			sem <- struct{}{}
		}
		go func(i int) {
			defer wg.Done()
			if sem != nil {
				defer func() { <-sem }()
			}
			l, err := e.enrichOne(ctx, listings[i])
			results[i] = result{listing: l, err: err}
		}(i)
	}
	wg.Wait()

	out := make([]Listing, len(results))
	for i, r := range results {
		if r.err != nil {
			logger.Log("listing", listings[i].ListingKey, "err", r.err)
			r.listing = listings[i]
			r.listing.MediaURL = ""
		}
		out[i] = r.listing
	}
	return out
}

// enrichOne always returns the listing, even alongside an error.
func (e *Enricher) enrichOne(ctx context.Context, l Listing) (_ Listing, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic enriching listing: %v", r)
		}
	}()

	l.MediaURL = ""

	media, ok, err := e.media.FindMedia(ctx, l.ListingKey)
	if err != nil {
		return l, errors.Wrap(err, "looking up media")
	}
	if !ok || media.MediaURL == "" {
		return l, nil
	}

	if e.images == nil {
		l.MediaURL = media.MediaURL
		return l, nil
	}

	url, err := e.images.Resolve(ctx, l.ListingKey, media.MediaURL)
	if err != nil {
		return l, errors.Wrap(err, "caching image")
	}
	l.MediaURL = url
	return l, nil
}
