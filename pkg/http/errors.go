package http

import (
	"errors"

	realtyerr "github.com/realtyproxy/realtyproxy/pkg/errors"
)

var ErrorNotFound = &realtyerr.Error{
	Type: realtyerr.Missing,
	Help: "Not found",
	Err:  errors.New("no route matched"),
}

// MakeNotFound is the error for a path nothing is served at; the path
// is kept for logs but not shown to the client.
func MakeNotFound(path string) *realtyerr.Error {
	return &realtyerr.Error{
		Type: realtyerr.Missing,
		Help: ErrorNotFound.Help,
		Err:  errors.New("nothing served at " + path),
	}
}
