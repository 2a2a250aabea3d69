package client

import (
	"context"
	"encoding/json"
	"io/ioutil"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/realtyproxy/realtyproxy/pkg/api"
	realtyerr "github.com/realtyproxy/realtyproxy/pkg/errors"
	transport "github.com/realtyproxy/realtyproxy/pkg/http"
	"github.com/realtyproxy/realtyproxy/pkg/http/httperror"
	"github.com/realtyproxy/realtyproxy/pkg/listing"
	"github.com/realtyproxy/realtyproxy/pkg/review"
)

type Client struct {
	client   *http.Client
	router   *mux.Router
	endpoint string
}

var _ api.Server = &Client{}

func New(c *http.Client, router *mux.Router, endpoint string) *Client {
	return &Client{
		client:   c,
		router:   router,
		endpoint: endpoint,
	}
}

func (c *Client) ListListings(ctx context.Context) ([]listing.Listing, error) {
	var res []listing.Listing
	err := c.Get(ctx, &res, transport.ListListings)
	return res, err
}

func (c *Client) ListReviews(ctx context.Context) ([]review.Review, error) {
	var res []review.Review
	err := c.Get(ctx, &res, transport.ListReviews)
	return res, err
}

// --- Request helpers

// Get executes a get request against realtyd. it unmarshals the response into dest, if not nil.
func (c *Client) Get(ctx context.Context, dest interface{}, route string, queryParams ...string) error {
	u, err := transport.MakeURL(c.endpoint, c.router, route, queryParams...)
	if err != nil {
		return errors.Wrap(err, "constructing URL")
	}

	req, err := http.NewRequest("GET", u.String(), nil)
	if err != nil {
		return errors.Wrapf(err, "constructing request %s", u)
	}
	req = req.WithContext(ctx)
	req.Header.Set("Accept", "application/json")

	resp, err := c.executeRequest(req)
	if err != nil {
		return errors.Wrap(err, "executing HTTP request")
	}
	defer resp.Body.Close()

	if dest != nil {
		if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
			return errors.Wrap(err, "decoding response from server")
		}
	}
	return nil
}

func (c *Client) executeRequest(req *http.Request) (*http.Response, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "executing HTTP request")
	}
	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent:
		return resp, nil
	}
	defer resp.Body.Close()

	// Use the content type to discriminate between `realtyerr.Error`,
	// and whatever a proxy in between might have said
	if strings.HasPrefix(resp.Header.Get(http.CanonicalHeaderKey("Content-Type")), "application/json") {
		body, err := ioutil.ReadAll(resp.Body)
		if err != nil {
			return nil, errors.Wrap(err, "reading response body of error")
		}
		var niceError realtyerr.Error
		if err := json.Unmarshal(body, &niceError); err != nil {
			return nil, errors.Wrap(err, "decoding response body of error")
		}
		// just in case it's JSON but not one of our own errors
		if niceError.Err != nil {
			if resp.StatusCode == http.StatusNotFound {
				niceError.Type = realtyerr.Missing
			}
			return nil, &niceError
		}
		return nil, &httperror.APIError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       strings.TrimSpace(string(body)),
		}
	}
	return nil, httperror.FromResponse(resp)
}
