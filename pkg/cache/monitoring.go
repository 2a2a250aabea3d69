package cache

import (
	"fmt"
	"time"

	"github.com/go-kit/kit/metrics/prometheus"
	stdprometheus "github.com/prometheus/client_golang/prometheus"

	realtymetrics "github.com/realtyproxy/realtyproxy/pkg/metrics"
)

var (
	cacheRequestDuration = prometheus.NewHistogramFrom(stdprometheus.HistogramOpts{
		Namespace: "realty",
		Subsystem: "cache",
		Name:      "request_duration_seconds",
		Help:      "Duration of cache requests, in seconds.",
		Buckets:   stdprometheus.DefBuckets,
	}, []string{realtymetrics.LabelStore, realtymetrics.LabelMethod, realtymetrics.LabelSuccess})
)

type instrumentedClient struct {
	store string
	next  Client
}

// InstrumentClient records the duration of every call to c, labelled
// with the kind of store.
func InstrumentClient(store string, c Client) Client {
	return &instrumentedClient{
		store: store,
		next:  c,
	}
}

// A miss is not a failure.
func succeeded(err error) string {
	return fmt.Sprint(err == nil || err == ErrNotCached)
}

func (i *instrumentedClient) GetKey(k Keyer) (_ []byte, ex time.Time, err error) {
	defer func(begin time.Time) {
		cacheRequestDuration.With(
			realtymetrics.LabelStore, i.store,
			realtymetrics.LabelMethod, "GetKey",
			realtymetrics.LabelSuccess, succeeded(err),
		).Observe(time.Since(begin).Seconds())
	}(time.Now())
	return i.next.GetKey(k)
}

func (i *instrumentedClient) SetKey(k Keyer, d time.Time, v []byte) (err error) {
	defer func(begin time.Time) {
		cacheRequestDuration.With(
			realtymetrics.LabelStore, i.store,
			realtymetrics.LabelMethod, "SetKey",
			realtymetrics.LabelSuccess, succeeded(err),
		).Observe(time.Since(begin).Seconds())
	}(time.Now())
	return i.next.SetKey(k, d, v)
}
