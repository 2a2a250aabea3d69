package feed

import (
	"strconv"
	"time"

	"github.com/go-kit/kit/metrics/prometheus"
	stdprometheus "github.com/prometheus/client_golang/prometheus"

	realtymetrics "github.com/realtyproxy/realtyproxy/pkg/metrics"
)

const (
	kindListings = "listings"
	kindMedia    = "media"
	kindDownload = "download"
)

var (
	requestDuration = prometheus.NewHistogramFrom(stdprometheus.HistogramOpts{
		Namespace: "realty",
		Subsystem: "feed",
		Name:      "request_duration_seconds",
		Help:      "Duration of requests to the upstream feed, in seconds.",
		Buckets:   stdprometheus.DefBuckets,
	}, []string{realtymetrics.LabelKind, realtymetrics.LabelSuccess})
)

// observe is deferred with a pointer to the named error result, so it
// sees the error actually returned.
func observe(kind string, begin time.Time, err *error) {
	requestDuration.With(
		realtymetrics.LabelKind, kind,
		realtymetrics.LabelSuccess, strconv.FormatBool(*err == nil),
	).Observe(time.Since(begin).Seconds())
}
