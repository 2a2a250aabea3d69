package review

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-kit/kit/log"
	"github.com/jonboulle/clockwork"
	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/realtyproxy/realtyproxy/pkg/cache"
	"github.com/realtyproxy/realtyproxy/pkg/http/httperror"
)

const twoReviews = `{
  "html_attributions": [],
  "result": {
    "reviews": [
      {"author_name": "Ada", "rating": 5, "text": "Sold in a week.", "time": 1700000000, "relative_time_description": "a month ago"},
      {"author_name": "Brendan", "rating": 4, "text": "Responsive.", "time": 1690000000}
    ]
  },
  "status": "OK"
}`

type places struct {
	body   string
	status int
	calls  int32
	last   *http.Request
}

func (p *places) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt32(&p.calls, 1)
	p.last = r
	if p.status != 0 {
		w.WriteHeader(p.status)
	}
	w.Write([]byte(p.body))
}

func newFetcher(t *testing.T, p *places, cc cache.Client) (*Fetcher, clockwork.FakeClock, func()) {
	srv := httptest.NewServer(p)
	clock := clockwork.NewFakeClock()
	f := New(srv.Client(), Config{
		PlacesURL: srv.URL + "/maps/api/place/details/json",
		APIKey:    "k3y",
		PlaceID:   "ChIJ123",
	}, cc, clock, log.NewNopLogger())
	return f, clock, srv.Close
}

func TestReviews_Query(t *testing.T) {
	p := &places{body: twoReviews}
	f, _, stop := newFetcher(t, p, nil)
	defer stop()

	reviews, err := f.Reviews(context.Background())
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	assert.Equal(t, "Ada", reviews[0].AuthorName)
	assert.Equal(t, 5, reviews[0].Rating)
	assert.Equal(t, int64(1700000000), reviews[0].Time)
	assert.Equal(t, "a month ago", reviews[0].RelativeTimeDescription)

	q := p.last.URL.Query()
	assert.Equal(t, "/maps/api/place/details/json", p.last.URL.Path)
	assert.Equal(t, "ChIJ123", q.Get("place_id"))
	assert.Equal(t, "reviews", q.Get("fields"))
	assert.Equal(t, "k3y", q.Get("key"))
}

func TestReviews_NoReviewsKey(t *testing.T) {
	for _, body := range []string{
		`{"result": {}}`,
		`{"status": "REQUEST_DENIED"}`,
		`{"result": {"reviews": null}}`,
	} {
		p := &places{body: body}
		f, _, stop := newFetcher(t, p, nil)
		reviews, err := f.Reviews(context.Background())
		stop()
		require.NoError(t, err, body)
		assert.NotNil(t, reviews, body)
		assert.Len(t, reviews, 0, body)
	}
}

func TestReviews_UpstreamFailure(t *testing.T) {
	p := &places{status: http.StatusBadGateway, body: "<html>oops</html>"}
	f, _, stop := newFetcher(t, p, nil)
	defer stop()

	_, err := f.Reviews(context.Background())
	require.Error(t, err)
	apiErr, ok := pkgerrors.Cause(err).(*httperror.APIError)
	require.True(t, ok)
	assert.True(t, apiErr.IsUnavailable())
}

func TestReviews_Malformed(t *testing.T) {
	p := &places{body: `{"result": `}
	f, _, stop := newFetcher(t, p, nil)
	defer stop()

	_, err := f.Reviews(context.Background())
	assert.Error(t, err)
}

func TestReviews_ErrorOmitsAPIKey(t *testing.T) {
	f := New(http.DefaultClient, Config{
		PlacesURL: "http://127.0.0.1:1/details/json",
		APIKey:    "supersecret",
		PlaceID:   "p",
	}, nil, clockwork.NewFakeClock(), log.NewNopLogger())

	_, err := f.Reviews(context.Background())
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "supersecret")
}

func TestReviews_CachedForTTL(t *testing.T) {
	p := &places{body: twoReviews}
	f, clock, stop := newFetcher(t, p, cache.NewMemoryClient())
	defer stop()

	for i := 0; i < 3; i++ {
		reviews, err := f.Reviews(context.Background())
		require.NoError(t, err)
		assert.Len(t, reviews, 2)
	}
	assert.EqualValues(t, 1, atomic.LoadInt32(&p.calls))

	clock.Advance(59 * time.Minute)
	_, err := f.Reviews(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, atomic.LoadInt32(&p.calls))

	clock.Advance(2 * time.Minute)
	_, err = f.Reviews(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 2, atomic.LoadInt32(&p.calls))
}

func TestReviews_EmptyResultIsCached(t *testing.T) {
	p := &places{body: `{"result": {}}`}
	f, _, stop := newFetcher(t, p, cache.NewMemoryClient())
	defer stop()

	for i := 0; i < 2; i++ {
		reviews, err := f.Reviews(context.Background())
		require.NoError(t, err)
		assert.NotNil(t, reviews)
	}
	assert.EqualValues(t, 1, atomic.LoadInt32(&p.calls))
}

type brokenCache struct{}

func (brokenCache) GetKey(cache.Keyer) ([]byte, time.Time, error) {
	return nil, time.Time{}, errors.New("connection refused")
}

func (brokenCache) SetKey(cache.Keyer, time.Time, []byte) error {
	return errors.New("connection refused")
}

func TestReviews_CacheFailureFallsThrough(t *testing.T) {
	p := &places{body: twoReviews}
	f, _, stop := newFetcher(t, p, brokenCache{})
	defer stop()

	reviews, err := f.Reviews(context.Background())
	require.NoError(t, err)
	assert.Len(t, reviews, 2)
}

func TestReviews_FailureNotCached(t *testing.T) {
	p := &places{status: http.StatusInternalServerError}
	f, _, stop := newFetcher(t, p, cache.NewMemoryClient())
	defer stop()

	_, err := f.Reviews(context.Background())
	require.Error(t, err)

	p.status = 0
	p.body = twoReviews
	reviews, err := f.Reviews(context.Background())
	require.NoError(t, err)
	assert.Len(t, reviews, 2)
}

func TestReviews_ExpiredEntryIsNotServed(t *testing.T) {
	p := &places{body: twoReviews}
	f, clock, stop := newFetcher(t, p, cache.NewMemoryClient())
	defer stop()

	_, err := f.Reviews(context.Background())
	require.NoError(t, err)

	// The entry is still in the cache, but past its deadline.
	clock.Advance(DefaultTTL + time.Minute)
	p.status = http.StatusServiceUnavailable
	p.body = ""
	reviews, err := f.Reviews(context.Background())
	assert.Error(t, err)
	assert.Nil(t, reviews)
	assert.EqualValues(t, 2, atomic.LoadInt32(&p.calls))
}
