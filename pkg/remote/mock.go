package remote

import (
	"context"
	"fmt"
	"reflect"
	"testing"

	"github.com/realtyproxy/realtyproxy/pkg/api"
	"github.com/realtyproxy/realtyproxy/pkg/listing"
	"github.com/realtyproxy/realtyproxy/pkg/review"
)

type MockServer struct {
	ListListingsAnswer []listing.Listing
	ListListingsError  error

	ListReviewsAnswer []review.Review
	ListReviewsError  error
}

func (p *MockServer) ListListings(ctx context.Context) ([]listing.Listing, error) {
	return p.ListListingsAnswer, p.ListListingsError
}

func (p *MockServer) ListReviews(ctx context.Context) ([]review.Review, error) {
	return p.ListReviewsAnswer, p.ListReviewsError
}

var _ api.Server = &MockServer{}

// -- Battery of tests for an api.Server implementation. Since these
// essentially wrap the server in various transports, we expect
// answers to be preserved.

func ServerTestBattery(t *testing.T, wrap func(mock api.Server) api.Server) {
	listingsAnswer := []listing.Listing{
		{
			ListingKey:          "ABC123",
			ListPrice:           649000,
			UnparsedAddress:     "12 Harbour St",
			PublicRemarks:       "Light-filled corner unit.",
			ListAgentFullName:   "Dana Ruiz",
			MlsStatus:           "Active",
			ListOfficeKey:       "OFF1",
			ListingContractDate: "2024-03-01",
			MediaURL:            "https://bucket.example.com/ABC123.png?sig=abc",
		},
		{
			ListingKey: "DEF456",
			ListPrice:  1250000.5,
		},
	}
	reviewsAnswer := []review.Review{
		{AuthorName: "Ada", Rating: 5, Text: "Sold in a week.", Time: 1700000000},
	}

	mock := &MockServer{
		ListListingsAnswer: listingsAnswer,
		ListReviewsAnswer:  reviewsAnswer,
	}

	ctx := context.Background()

	// OK, here we go
	client := wrap(mock)

	ls, err := client.ListListings(ctx)
	if err != nil {
		t.Error(err)
	}
	if !reflect.DeepEqual(ls, mock.ListListingsAnswer) {
		t.Error(fmt.Errorf("expected:\n%#v\ngot:\n%#v", mock.ListListingsAnswer, ls))
	}
	mock.ListListingsError = fmt.Errorf("list listings failure")
	if _, err = client.ListListings(ctx); err == nil {
		t.Error("expected error from ListListings, got nil")
	}

	rs, err := client.ListReviews(ctx)
	if err != nil {
		t.Error(err)
	}
	if !reflect.DeepEqual(rs, mock.ListReviewsAnswer) {
		t.Error(fmt.Errorf("expected:\n%#v\ngot:\n%#v", mock.ListReviewsAnswer, rs))
	}
	mock.ListReviewsError = fmt.Errorf("list reviews failure")
	if _, err = client.ListReviews(ctx); err == nil {
		t.Error("expected error from ListReviews, got nil")
	}
}
