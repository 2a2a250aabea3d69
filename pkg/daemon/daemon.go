package daemon

import (
	"context"

	"github.com/go-kit/kit/log"
	"github.com/google/uuid"

	"github.com/realtyproxy/realtyproxy/pkg/api"
	"github.com/realtyproxy/realtyproxy/pkg/listing"
	"github.com/realtyproxy/realtyproxy/pkg/review"
)

type ListingSource interface {
	Listings(ctx context.Context) ([]listing.Listing, error)
}

type ReviewSource interface {
	Reviews(ctx context.Context) ([]review.Review, error)
}

// Daemon answers API requests from the upstream feeds.
type Daemon struct {
	Feed     ListingSource
	Enricher *listing.Enricher
	Reviews  ReviewSource
	Logger   log.Logger
}

// Invariant.
var _ api.Server = &Daemon{}

func (d *Daemon) ListListings(ctx context.Context) ([]listing.Listing, error) {
	listings, err := d.Feed.Listings(ctx)
	if err != nil {
		return nil, fetchPropertiesError(err)
	}
	logger := log.With(d.Logger, "request_id", uuid.New().String())
	return d.Enricher.Enrich(ctx, logger, listings), nil
}

func (d *Daemon) ListReviews(ctx context.Context) ([]review.Review, error) {
	reviews, err := d.Reviews.Reviews(ctx)
	if err != nil {
		return nil, fetchReviewsError(err)
	}
	return reviews, nil
}
