package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"path"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	realtyerr "github.com/realtyproxy/realtyproxy/pkg/errors"
)

func NewAPIRouter() *mux.Router {
	r := mux.NewRouter()

	// GET only; a HEAD of listings would cost a full enrichment.
	r.NewRoute().Name(ListListings).Methods("GET").Path("/api/listings")
	r.NewRoute().Name(ListReviews).Methods("GET").Path("/api/reviews")

	return r
}

func MakeURL(endpoint string, router *mux.Router, routeName string, urlParams ...string) (*url.URL, error) {
	if len(urlParams)%2 != 0 {
		panic("urlParams must be even!")
	}

	endpointURL, err := url.Parse(endpoint)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing endpoint %s", endpoint)
	}
	route := router.Get(routeName)
	if route == nil {
		return nil, errors.New("no route with name " + routeName)
	}
	routeURL, err := route.URLPath()
	if err != nil {
		return nil, errors.Wrapf(err, "retrieving route path %s", routeName)
	}

	v := url.Values{}
	for i := 0; i < len(urlParams); i += 2 {
		v.Add(urlParams[i], urlParams[i+1])
	}

	endpointURL.Path = path.Join(endpointURL.Path, routeURL.Path)
	endpointURL.RawQuery = v.Encode()
	return endpointURL, nil
}

// WriteError writes the error as {"error": ...}, unless the client
// asks for plain text and not JSON.
func WriteError(w http.ResponseWriter, r *http.Request, code int, err error) {
	if negotiateContentType(r, []string{"application/json", "text/plain"}) == "text/plain" {
		w.Header().Set(http.CanonicalHeaderKey("Content-Type"), "text/plain; charset=utf-8")
		w.WriteHeader(code)
		switch err := err.(type) {
		case *realtyerr.Error:
			fmt.Fprint(w, err.Help)
		default:
			fmt.Fprint(w, err.Error())
		}
		return
	}

	var body []byte
	var encodeErr error
	switch err := err.(type) {
	case *realtyerr.Error:
		body, encodeErr = json.Marshal(err)
	default:
		body, encodeErr = json.Marshal(map[string]string{"error": err.Error()})
	}
	if encodeErr != nil {
		w.Header().Set(http.CanonicalHeaderKey("Content-Type"), "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprintf(w, "Error encoding error response: %s\n\nOriginal error: %s", encodeErr.Error(), err.Error())
		return
	}
	w.Header().Set(http.CanonicalHeaderKey("Content-Type"), "application/json; charset=utf-8")
	w.WriteHeader(code)
	w.Write(body)
}

func JSONResponse(w http.ResponseWriter, r *http.Request, result interface{}) {
	body, err := json.Marshal(result)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

func ErrorResponse(w http.ResponseWriter, r *http.Request, apiError error) {
	var outErr *realtyerr.Error
	var code int
	var ok bool

	err := errors.Cause(apiError)
	if outErr, ok = err.(*realtyerr.Error); !ok {
		outErr = realtyerr.CoverAllError(apiError)
	}
	switch outErr.Type {
	case realtyerr.Missing:
		code = http.StatusNotFound
	case realtyerr.User:
		code = http.StatusUnprocessableEntity
	case realtyerr.Server:
		code = http.StatusInternalServerError
	default:
		code = http.StatusInternalServerError
	}
	WriteError(w, r, code, outErr)
}
