// Package feed is a client for the upstream RESO/OData listings feed:
// the Property resource for listings, the Media resource for photos,
// and plain downloads of the media files themselves.
package feed

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"io/ioutil"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/oauth2"

	"github.com/realtyproxy/realtyproxy/pkg/http/httperror"
	"github.com/realtyproxy/realtyproxy/pkg/listing"
)

const (
	// SelectLatest picks the most recently modified media record.
	SelectLatest = "latest"
	// SelectFirst picks whichever media record the feed returns first.
	SelectFirst = "first"

	// Anything bigger than this is not a listing photo.
	MaxDownloadBytes = 32 << 20
)

var ErrDownloadTooLarge = errors.New("media download exceeds size limit")

// Config says where the feed lives and what to ask it for.
type Config struct {
	PropertyURL string
	MediaURL    string
	// Listings listed by any of these agents are returned.
	AgentKeys []string
	// One of SelectLatest or SelectFirst.
	MediaSelect string
	// If non-empty, only media with this ImageSizeDescription are
	// considered.
	ImageSize string
}

// envelope is the OData collection response.
type envelope struct {
	Context string          `json:"@odata.context"`
	Value   json.RawMessage `json:"value"`
}

type Client struct {
	client *http.Client
	config Config
}

// NewHTTPClient returns an HTTP client that authenticates every request
// with the bearer token. A zero timeout means requests are bounded only
// by their context.
func NewHTTPClient(token string, timeout time.Duration) *http.Client {
	base := &http.Client{Timeout: timeout}
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, base)
	c := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: token,
		TokenType:   "Bearer",
	}))
	c.Timeout = timeout
	return c
}

func New(c *http.Client, config Config) *Client {
	if config.MediaSelect == "" {
		config.MediaSelect = SelectLatest
	}
	return &Client{
		client: c,
		config: config,
	}
}

// Listings returns the listings of the configured agents.
func (c *Client) Listings(ctx context.Context) (_ []listing.Listing, err error) {
	defer observe(kindListings, time.Now(), &err)

	if len(c.config.AgentKeys) == 0 {
		return []listing.Listing{}, nil
	}

	var terms []string
	for _, agent := range c.config.AgentKeys {
		terms = append(terms, Eq("ListAgentKey", agent))
	}
	u := withQuery(c.config.PropertyURL, Query{
		Filter: Or(terms...),
		Select: listing.Fields,
	})

	var listings []listing.Listing
	if err := c.getCollection(ctx, u, &listings); err != nil {
		return nil, errors.Wrap(err, "querying properties")
	}
	if listings == nil {
		listings = []listing.Listing{}
	}
	return listings, nil
}

// FindMedia returns the photo for a listing, if the feed has one.
func (c *Client) FindMedia(ctx context.Context, listingKey string) (_ listing.Media, _ bool, err error) {
	defer observe(kindMedia, time.Now(), &err)

	terms := []string{
		Eq("ResourceRecordKey", listingKey),
		Eq("ResourceName", "Property"),
	}
	if c.config.ImageSize != "" {
		terms = append(terms, Eq("ImageSizeDescription", c.config.ImageSize))
	}
	q := Query{Filter: And(terms...)}
	if c.config.MediaSelect == SelectLatest {
		q.OrderBy = "ModificationTimestamp desc"
		q.Top = 1
	}

	var media []listing.Media
	if err := c.getCollection(ctx, withQuery(c.config.MediaURL, q), &media); err != nil {
		return listing.Media{}, false, errors.Wrapf(err, "querying media for %s", listingKey)
	}
	if len(media) == 0 {
		return listing.Media{}, false, nil
	}
	return media[0], true, nil
}

// Download fetches a media file with the feed credential.
func (c *Client) Download(ctx context.Context, mediaURL string) (_ []byte, err error) {
	defer observe(kindDownload, time.Now(), &err)

	resp, err := c.do(ctx, mediaURL, "*/*")
	if err != nil {
		return nil, errors.Wrap(err, "downloading media")
	}
	defer resp.Body.Close()

	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(resp.Body, MaxDownloadBytes+1))
	if err != nil {
		return nil, errors.Wrap(err, "reading media body")
	}
	if n > MaxDownloadBytes {
		return nil, ErrDownloadTooLarge
	}
	return buf.Bytes(), nil
}

func (c *Client) getCollection(ctx context.Context, u string, dest interface{}) error {
	resp, err := c.do(ctx, u, "application/json")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return errors.Wrap(err, "decoding response envelope")
	}
	if len(env.Value) == 0 || string(env.Value) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Value, dest); err != nil {
		return errors.Wrap(err, "decoding response value")
	}
	return nil
}

// do issues a GET and returns the response if it was a 2xx; otherwise
// the response is drained into an *httperror.APIError.
func (c *Client) do(ctx context.Context, u, accept string) (*http.Response, error) {
	req, err := http.NewRequest("GET", u, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "constructing request %s", u)
	}
	req = req.WithContext(ctx)
	req.Header.Set("Accept", accept)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "executing HTTP request")
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := httperror.FromResponse(resp)
		io.Copy(ioutil.Discard, resp.Body)
		resp.Body.Close()
		return nil, apiErr
	}
	return resp, nil
}
