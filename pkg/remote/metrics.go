package remote

import (
	"context"
	"fmt"
	"time"

	"github.com/go-kit/kit/metrics/prometheus"
	stdprometheus "github.com/prometheus/client_golang/prometheus"

	"github.com/realtyproxy/realtyproxy/pkg/api"
	"github.com/realtyproxy/realtyproxy/pkg/listing"
	realtymetrics "github.com/realtyproxy/realtyproxy/pkg/metrics"
	"github.com/realtyproxy/realtyproxy/pkg/review"
)

var (
	requestDuration = prometheus.NewHistogramFrom(stdprometheus.HistogramOpts{
		Namespace: "realty",
		Subsystem: "api",
		Name:      "request_duration_seconds",
		Help:      "Request duration in seconds.",
		Buckets:   stdprometheus.DefBuckets,
	}, []string{realtymetrics.LabelMethod, realtymetrics.LabelSuccess})
)

var _ api.Server = &instrumentedServer{}

type instrumentedServer struct {
	s api.Server
}

func Instrument(s api.Server) *instrumentedServer {
	return &instrumentedServer{s}
}

func (i *instrumentedServer) ListListings(ctx context.Context) (_ []listing.Listing, err error) {
	defer func(begin time.Time) {
		requestDuration.With(
			realtymetrics.LabelMethod, "ListListings",
			realtymetrics.LabelSuccess, fmt.Sprint(err == nil),
		).Observe(time.Since(begin).Seconds())
	}(time.Now())
	return i.s.ListListings(ctx)
}

func (i *instrumentedServer) ListReviews(ctx context.Context) (_ []review.Review, err error) {
	defer func(begin time.Time) {
		requestDuration.With(
			realtymetrics.LabelMethod, "ListReviews",
			realtymetrics.LabelSuccess, fmt.Sprint(err == nil),
		).Observe(time.Since(begin).Seconds())
	}(time.Now())
	return i.s.ListReviews(ctx)
}
