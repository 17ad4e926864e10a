package sample

import "errors"

// Sentinel kinds for sample dataset errors.
var (
	ErrArity          = errors.New("row arity does not match header")
	ErrUnknownDataset = errors.New("unknown sample dataset")
)
