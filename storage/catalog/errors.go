package catalog

import "errors"

// ErrNotFound indicates that a cataloged asset was not found.
var ErrNotFound = errors.New("asset not found")
