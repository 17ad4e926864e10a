package exportcli

import "errors"

// Sentinel kinds for export errors.
var (
	ErrFetch     = errors.New("fetch sample failed")
	ErrMalformed = errors.New("malformed sample")
)
