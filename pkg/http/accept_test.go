package http

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNegotiateContentType(t *testing.T) {
	prefs := []string{"application/json", "text/plain"}
	accept := func(values ...string) *http.Request {
		h := http.Header{}
		for _, v := range values {
			h.Add("Accept", v)
		}
		return &http.Request{Header: h}
	}

	// No Accept header gets the first preference
	assert.Equal(t, "application/json", negotiateContentType(&http.Request{}, prefs))

	// Nothing matching gets ""; browsers tend to send this
	assert.Equal(t, "", negotiateContentType(accept("text/html,application/xhtml+xml,*/*;q=0.8"), prefs))

	// Equal quality goes to the first preference
	assert.Equal(t, "application/json", negotiateContentType(accept("text/plain,application/json"), prefs))

	// Several headers are all considered
	assert.Equal(t, "text/plain", negotiateContentType(accept("text/html", "text/plain"), prefs))

	// Quality beats preference
	assert.Equal(t, "text/plain", negotiateContentType(accept("application/json;q=0.5,text/plain;q=1.0"), prefs))
}
