package httperror

import (
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"strings"
)

// Upstream bodies can be whole HTML error pages; keep just enough to
// diagnose.
const maxBodyLen = 512

// When an upstream call fails, we may want to distinguish among the
// causes by status code. This type is used as the base error when we
// get a non-"HTTP 20x" response, retrievable with errors.Cause(err).
type APIError struct {
	StatusCode int
	Status     string
	Body       string
}

// FromResponse builds an APIError from a response, consuming (part of)
// its body. The caller still closes the body.
func FromResponse(resp *http.Response) *APIError {
	body, _ := ioutil.ReadAll(io.LimitReader(resp.Body, maxBodyLen))
	return &APIError{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Body:       strings.TrimSpace(string(body)),
	}
}

func (err *APIError) Error() string {
	return fmt.Sprintf("%s (%s)", err.Status, err.Body)
}

// Does this error mean the upstream is unavailable?
func (err *APIError) IsUnavailable() bool {
	switch err.StatusCode {
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

// Is the requested thing missing upstream?
func (err *APIError) IsMissing() bool {
	return err.StatusCode == http.StatusNotFound
}

// Was our credential refused?
func (err *APIError) IsUnauthorized() bool {
	return err.StatusCode == http.StatusUnauthorized || err.StatusCode == http.StatusForbidden
}
