package imagecache

import (
	"github.com/go-kit/kit/metrics/prometheus"
	stdprometheus "github.com/prometheus/client_golang/prometheus"

	realtymetrics "github.com/realtyproxy/realtyproxy/pkg/metrics"
)

const (
	resultHit   = "hit"
	resultMiss  = "miss"
	resultError = "error"
)

var (
	resolutions = prometheus.NewCounterFrom(stdprometheus.CounterOpts{
		Namespace: "realty",
		Subsystem: "imagecache",
		Name:      "resolutions_total",
		Help:      "Image resolutions, by whether the image was already stored.",
	}, []string{realtymetrics.LabelResult})
)

func countResolution(result string) {
	resolutions.With(realtymetrics.LabelResult, result).Add(1)
}
