package errors

import (
	"encoding/json"
	"errors"
)

// Representation of errors in the API. These are divided into a small
// number of categories, essentially distinguished by whose fault the
// error is; i.e., is this error:
//  - a problem reaching an upstream, or with the service itself?
//  - a request for something that doesn't exist?
//  - a request that can't be served as asked?
type Error struct {
	Type Type
	// a message that is safe to hand to API clients
	Help string `json:"error"`
	// the underlying error, logged for developers to look at and never
	// sent over the wire
	Err error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Help
	}
	return e.Err.Error()
}

type Type string

const (
	// The request looked fine, but something upstream or in the
	// service went wrong
	Server Type = "server"
	// The thing you asked for just doesn't exist
	Missing Type = "missing"
	// The request was malformed
	User Type = "user"
)

func IsMissing(err error) bool {
	if err, ok := err.(*Error); ok && err.Type == Missing {
		return true
	}
	return false
}

// MarshalJSON gives the body clients see: only the help text, under
// "error".
func (e *Error) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Err string `json:"error"`
	}{
		Err: e.Help,
	})
}

func (e *Error) UnmarshalJSON(data []byte) error {
	jsonable := &struct {
		Err string `json:"error"`
	}{}
	if err := json.Unmarshal(data, &jsonable); err != nil {
		return err
	}
	e.Type = Server
	e.Help = jsonable.Err
	if jsonable.Err != "" {
		e.Err = errors.New(jsonable.Err)
	}
	return nil
}

// CoverAllError wraps an error we have no specific message for. The
// help text stays generic so upstream details aren't passed on.
func CoverAllError(err error) *Error {
	return &Error{
		Type: Server,
		Err:  err,
		Help: "Internal server error",
	}
}
