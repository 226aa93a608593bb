package beat

import "errors"

// ErrInvalidInput is returned for malformed analysis input: mismatched
// channel lengths, non-finite samples, or a non-positive window size.
var ErrInvalidInput = errors.New("invalid input")
