package discovery

import "errors"

// ErrMalformedPayload is returned when event data cannot be decoded.
// Decoding is all-or-nothing; partial events are never produced.
var ErrMalformedPayload = errors.New("malformed event payload")
