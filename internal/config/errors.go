package config

import "errors"

// ErrLoadConfig wraps failures reading the YAML file or the COMPDASH_ environment.
var ErrLoadConfig = errors.New("config: load")

// ErrInvalidConfig marks a loaded config that fails Validate.
var ErrInvalidConfig = errors.New("config: invalid")

// ErrBadThreshold is joined with ErrInvalidConfig when a rail threshold is
// not a finite number or all three are zero.
var ErrBadThreshold = errors.New("bad rail threshold")
