package api

import "errors"

// ErrUnavailable signals a transport failure: the server could not be
// reached at all, as opposed to answering with an error status.
var ErrUnavailable = errors.New("server unavailable")
