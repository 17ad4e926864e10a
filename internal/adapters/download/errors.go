package download

import "errors"

// Sentinel kinds for download errors.
var (
	ErrUnknownRef  = errors.New("unknown or revoked reference")
	ErrEmit        = errors.New("emit failed")
	ErrInvalidName = errors.New("invalid file name")
)
