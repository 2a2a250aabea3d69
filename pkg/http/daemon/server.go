package daemon

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gorilla/mux"
	stdprometheus "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/weaveworks/common/middleware"

	"github.com/realtyproxy/realtyproxy/pkg/api"
	transport "github.com/realtyproxy/realtyproxy/pkg/http"
	"github.com/realtyproxy/realtyproxy/pkg/imagecache"
	realtymetrics "github.com/realtyproxy/realtyproxy/pkg/metrics"
)

var (
	requestDuration = stdprometheus.NewHistogramVec(stdprometheus.HistogramOpts{
		Namespace: "realty",
		Name:      "request_duration_seconds",
		Help:      "Time (in seconds) spent serving HTTP requests.",
		Buckets:   stdprometheus.DefBuckets,
	}, []string{realtymetrics.LabelMethod, realtymetrics.LabelRoute, "status_code", "ws"})
)

func init() {
	stdprometheus.MustRegister(requestDuration)
}

// An API server for realtyd
func NewRouter() *mux.Router {
	r := transport.NewAPIRouter()

	r.NewRoute().Name(transport.GetImage).Methods("GET", "HEAD").Path("/images/{filename}")
	r.NewRoute().Name(transport.Health).Methods("GET", "HEAD").Path("/healthz")
	r.NewRoute().Name(transport.Metrics).Methods("GET").Path("/metrics")

	// Anything else, including the wrong method on a known path, gets
	// the JSON not-found body.
	r.NewRoute().Name(transport.NotFound).HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		transport.ErrorResponse(w, r, transport.MakeNotFound(r.URL.Path))
	})

	return r
}

// NewHandler attaches handlers to the router's routes. Images are
// served from imageDir; if that is empty (images are in a bucket, or
// not cached at all), /images/ finds nothing.
func NewHandler(s api.Server, r *mux.Router, imageDir string) http.Handler {
	handle := HTTPServer{server: s, imageDir: imageDir}

	r.Get(transport.ListListings).HandlerFunc(handle.ListListings)
	r.Get(transport.ListReviews).HandlerFunc(handle.ListReviews)
	r.Get(transport.GetImage).HandlerFunc(handle.GetImage)
	r.Get(transport.Health).HandlerFunc(handle.Health)
	r.Get(transport.Metrics).Handler(promhttp.Handler())

	return middleware.Instrument{
		RouteMatcher: r,
		Duration:     requestDuration,
	}.Wrap(r)
}

type HTTPServer struct {
	server   api.Server
	imageDir string
}

func (s HTTPServer) ListListings(w http.ResponseWriter, r *http.Request) {
	listings, err := s.server.ListListings(r.Context())
	if err != nil {
		transport.ErrorResponse(w, r, err)
		return
	}
	transport.JSONResponse(w, r, listings)
}

func (s HTTPServer) ListReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := s.server.ListReviews(r.Context())
	if err != nil {
		transport.ErrorResponse(w, r, err)
		return
	}
	transport.JSONResponse(w, r, reviews)
}

func (s HTTPServer) GetImage(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["filename"]
	// Dotfiles include images still being written.
	if s.imageDir == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		transport.ErrorResponse(w, r, transport.MakeNotFound(r.URL.Path))
		return
	}

	f, err := os.Open(filepath.Join(s.imageDir, name))
	if os.IsNotExist(err) {
		transport.ErrorResponse(w, r, transport.MakeNotFound(r.URL.Path))
		return
	}
	if err != nil {
		transport.ErrorResponse(w, r, err)
		return
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		transport.ErrorResponse(w, r, err)
		return
	}
	if fi.IsDir() {
		transport.ErrorResponse(w, r, transport.MakeNotFound(r.URL.Path))
		return
	}

	w.Header().Set("Content-Type", imagecache.ContentType(name))
	http.ServeContent(w, r, name, fi.ModTime(), f)
}

func (s HTTPServer) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}
