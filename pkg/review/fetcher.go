// Package review fetches the reviews of a single place from the places
// details API, keeping them in a cache for a while so that page loads
// don't each cost an API call.
package review

import (
	"context"
	"encoding/json"
	"io"
	"io/ioutil"
	"net/http"
	"net/url"
	"time"

	"github.com/Jeffail/gabs"
	"github.com/go-kit/kit/log"
	"github.com/jonboulle/clockwork"
	"github.com/pkg/errors"

	"github.com/realtyproxy/realtyproxy/pkg/cache"
	"github.com/realtyproxy/realtyproxy/pkg/http/httperror"
)

const (
	DefaultPlacesURL = "https://maps.googleapis.com/maps/api/place/details/json"
	DefaultTTL       = time.Hour

	reviewsPath = "result.reviews"
)

type Config struct {
	PlacesURL string
	APIKey    string
	PlaceID   string
	// How long fetched reviews are served from the cache.
	TTL time.Duration
}

type Fetcher struct {
	client *http.Client
	config Config
	cache  cache.Client
	clock  clockwork.Clock
	logger log.Logger
}

// New returns a Fetcher. A nil cache means every call goes to the API.
func New(c *http.Client, config Config, cc cache.Client, clock clockwork.Clock, logger log.Logger) *Fetcher {
	if config.PlacesURL == "" {
		config.PlacesURL = DefaultPlacesURL
	}
	if config.TTL <= 0 {
		config.TTL = DefaultTTL
	}
	return &Fetcher{
		client: c,
		config: config,
		cache:  cc,
		clock:  clock,
		logger: logger,
	}
}

// Reviews returns the place's reviews, from the cache if they were
// fetched less than the TTL ago. It never returns a nil slice with a
// nil error.
func (f *Fetcher) Reviews(ctx context.Context) ([]Review, error) {
	key := cache.NewReviewsKey(f.config.PlaceID)

	if f.cache != nil {
		reviews, ok := f.fromCache(key)
		if ok {
			return reviews, nil
		}
	}

	body, err := f.fetch(ctx)
	if err != nil {
		return nil, err
	}
	reviews, err := decode(body)
	if err != nil {
		return nil, err
	}

	if f.cache != nil {
		f.toCache(key, reviews)
	}
	return reviews, nil
}

func (f *Fetcher) fromCache(key cache.Keyer) ([]Review, bool) {
	val, deadline, err := f.cache.GetKey(key)
	if err != nil {
		if err != cache.ErrNotCached {
			f.logger.Log("err", errors.Wrap(err, "reading reviews cache"))
		}
		return nil, false
	}
	if !f.clock.Now().Before(deadline) {
		return nil, false
	}
	var reviews []Review
	if err := json.Unmarshal(val, &reviews); err != nil {
		f.logger.Log("err", errors.Wrap(err, "decoding cached reviews"))
		return nil, false
	}
	if reviews == nil {
		reviews = []Review{}
	}
	return reviews, true
}

func (f *Fetcher) toCache(key cache.Keyer, reviews []Review) {
	val, err := json.Marshal(reviews)
	if err != nil {
		f.logger.Log("err", errors.Wrap(err, "encoding reviews for cache"))
		return
	}
	if err := f.cache.SetKey(key, f.clock.Now().Add(f.config.TTL), val); err != nil {
		f.logger.Log("err", errors.Wrap(err, "writing reviews cache"))
	}
}

func (f *Fetcher) fetch(ctx context.Context) ([]byte, error) {
	u, err := url.Parse(f.config.PlacesURL)
	if err != nil {
		return nil, errors.Wrap(err, "parsing places URL")
	}
	q := u.Query()
	q.Set("place_id", f.config.PlaceID)
	q.Set("fields", "reviews")
	q.Set("key", f.config.APIKey)
	u.RawQuery = q.Encode()

	req, err := http.NewRequest("GET", u.String(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "constructing places request")
	}
	req = req.WithContext(ctx)
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		// The URL carries the API key; keep it out of the error.
		if urlErr, ok := err.(*url.Error); ok {
			err = urlErr.Err
		}
		return nil, errors.Wrap(err, "requesting place details")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := httperror.FromResponse(resp)
		io.Copy(ioutil.Discard, resp.Body)
		return nil, apiErr
	}
	body, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "reading place details")
	}
	return body, nil
}

// decode pulls result.reviews out of a place details response. A
// response without reviews has none.
func decode(body []byte) ([]Review, error) {
	parsed, err := gabs.ParseJSON(body)
	if err != nil {
		return nil, errors.Wrap(err, "decoding place details")
	}
	reviews := []Review{}
	if !parsed.ExistsP(reviewsPath) {
		return reviews, nil
	}
	if err := json.Unmarshal(parsed.Path(reviewsPath).Bytes(), &reviews); err != nil {
		return nil, errors.Wrap(err, "decoding reviews")
	}
	if reviews == nil {
		reviews = []Review{}
	}
	return reviews, nil
}
