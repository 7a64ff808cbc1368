package matching

import "errors"

// ErrInvalidArgument indicates a caller contract violation (limit or minimum
// score outside its domain). Out-of-range values are rejected, never clamped,
// so a caller passing 70 instead of 0.7 fails fast.
var ErrInvalidArgument = errors.New("invalid argument")

// ErrDimensionMismatch indicates two non-empty vectors of different lengths
// were paired. This is a programmer error, not a scoring condition.
var ErrDimensionMismatch = errors.New("embedding dimension mismatch")
