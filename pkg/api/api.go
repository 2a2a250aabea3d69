package api

import (
	"context"

	"github.com/realtyproxy/realtyproxy/pkg/listing"
	"github.com/realtyproxy/realtyproxy/pkg/review"
)

// Server is what realtyd serves over HTTP, and what realtyctl talks
// to.
type Server interface {
	// ListListings returns the agents' listings, each with a photo URL
	// if one could be resolved.
	ListListings(ctx context.Context) ([]listing.Listing, error)
	ListReviews(ctx context.Context) ([]review.Review, error)
}
