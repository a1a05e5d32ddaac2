package vector

import "errors"

// ErrMalformed is returned when a vector literal or blob cannot be decoded.
var ErrMalformed = errors.New("malformed vector")
