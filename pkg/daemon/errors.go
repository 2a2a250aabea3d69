package daemon

import (
	realtyerr "github.com/realtyproxy/realtyproxy/pkg/errors"
)

// Clients get a fixed message; what actually went wrong is in the logs.

func fetchPropertiesError(err error) error {
	return &realtyerr.Error{
		Type: realtyerr.Server,
		Help: "Failed to fetch properties",
		Err:  err,
	}
}

func fetchReviewsError(err error) error {
	return &realtyerr.Error{
		Type: realtyerr.Server,
		Help: "Failed to fetch reviews",
		Err:  err,
	}
}
